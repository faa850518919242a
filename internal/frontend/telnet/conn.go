// Package telnet accepts raw Telnet clients and turns their byte streams
// into lines of text.
package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End
	NOP  byte = 241
	GA   byte = 249 // Go Ahead

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
)

const (
	backspace byte = 8
	del       byte = 127
)

// Conn wraps a TCP connection with Telnet protocol handling.
// It filters IAC sequences from input and provides line-based reading.
type Conn struct {
	id     uuid.UUID
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	// charset is nil for UTF-8 clients.
	charset encoding.Encoding

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Charset returns the encoding for a configured charset name. UTF-8 maps to
// nil, meaning bytes are passed through.
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported telnet charset %q", name)
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn with a fresh session ID.
func NewConn(raw net.Conn, charset encoding.Encoding, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           uuid.New(),
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		charset:      charset,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ID identifies the connection in logs.
func (c *Conn) ID() uuid.UUID { return c.id }

// Negotiate asks the client to suppress go-ahead.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences and
// applying backspaces. The returned line does not include the trailing \r\n.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return c.decode(line.Bytes()), err
		}

		switch {
		case b == IAC:
			if err := c.handleIAC(); err != nil {
				return c.decode(line.Bytes()), err
			}
			continue
		case b == '\n':
			return c.decode(line.Bytes()), nil
		case b == '\r':
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return c.decode(line.Bytes()), nil
		case b == backspace || b == del:
			if line.Len() > 0 {
				line.Truncate(line.Len() - 1)
			}
			continue
		case b < 32 && b != '\t':
			continue
		}
		line.WriteByte(b)
	}
}

func (c *Conn) decode(raw []byte) string {
	if c.charset == nil {
		return string(raw)
	}
	out, err := c.charset.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func (c *Conn) encode(text string) []byte {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\r\n")
	if c.charset == nil {
		return []byte(text)
	}
	out, err := encoding.ReplaceUnsupported(c.charset.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return []byte(text)
	}
	return out
}

// handleIAC consumes a Telnet command after its leading IAC byte.
func (c *Conn) handleIAC() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	}
	return nil
}

// ReadPassword reads a line of input with client echo suppressed.
//
// Postcondition: Returns the input with echo restored.
func (c *Conn) ReadPassword() (string, error) {
	if err := c.Write([]byte{IAC, WILL, OptEcho}); err != nil {
		return "", err
	}
	line, err := c.ReadLine()
	_ = c.Write([]byte{IAC, WONT, OptEcho})
	_ = c.Write([]byte("\r\n"))
	return line, err
}

// WriteText sends text, translating line feeds to CR LF and encoding it in
// the client charset.
func (c *Conn) WriteText(text string) error {
	return c.Write(c.encode(text))
}

// WriteLine sends text followed by a line break.
func (c *Conn) WriteLine(text string) error {
	return c.WriteText(text + "\n")
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC removes Telnet IAC sequences from raw input bytes.
//
// Postcondition: Returns input with all IAC sequences removed; an escaped
// IAC IAC yields one 0xFF.
func FilterIAC(input []byte) []byte {
	result := make([]byte, 0, len(input))
	i := 0
	for i < len(input) {
		if input[i] == IAC && i+1 < len(input) {
			switch input[i+1] {
			case WILL, WONT, DO, DONT:
				i += 3
				continue
			case SB:
				j := i + 2
				for j < len(input)-1 {
					if input[j] == IAC && input[j+1] == SE {
						j += 2
						break
					}
					j++
				}
				i = j
				continue
			case IAC:
				result = append(result, IAC)
				i += 2
				continue
			default:
				i += 2
				continue
			}
		}
		result = append(result, input[i])
		i++
	}
	return result
}

package testutil

import (
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/HexColors60/RadMud/internal/frontend/telnet"
)

// TelnetClient talks to the server the way a player's client would. Output
// is returned with telnet negotiation and colour codes removed.
type TelnetClient struct {
	t       *testing.T
	conn    net.Conn
	pending string
}

// NewTelnetClient dials addr. The connection is closed when the test ends.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("dialing %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{t: t, conn: conn}
}

// ReadUntil returns the output up to and including the first occurrence of
// substr. Output after the match is kept for the next read.
//
// Postcondition: fails the test when substr does not arrive within timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 4096)
	for {
		if i := strings.Index(c.pending, substr); i >= 0 {
			end := i + len(substr)
			out := c.pending[:end]
			c.pending = c.pending[end:]
			return out
		}
		_ = c.conn.SetReadDeadline(deadline)
		n, err := c.conn.Read(buf)
		c.pending += telnet.StripANSI(string(telnet.FilterIAC(buf[:n])))
		if err != nil && !strings.Contains(c.pending, substr) {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				c.t.Fatalf("waiting %s for %q, got %q", timeout, substr, c.pending)
			}
			c.t.Fatalf("reading until %q: %v (got %q)", substr, err, c.pending)
		}
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write([]byte(text + "\r\n")); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Login answers the name and password prompts and returns the output up to
// the first game prompt.
func (c *TelnetClient) Login(name, password string, timeout time.Duration) string {
	c.t.Helper()
	c.ReadUntil("known? ", timeout)
	c.Send(name)
	c.ReadUntil("Password: ", timeout)
	c.Send(password)
	return c.ReadUntil("> ", timeout)
}

// Close closes the connection early.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}

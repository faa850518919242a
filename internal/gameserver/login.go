package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/frontend/telnet"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/storage"
)

const (
	maxAttempts      = 3
	minNameLength    = 3
	maxNameLength    = 16
	minPasswordLen   = 4
	outputBufferSize = 256
)

var errLoginAborted = errors.New("login aborted")

// Handler runs the login flow of a telnet connection and then relays its
// lines to the game loop until the player quits or disconnects.
type Handler struct {
	loop       *Loop
	accounts   storage.Accounts
	characters storage.Backend
	name       string
	logger     *zap.Logger
}

// NewHandler creates a session handler. serverName is shown in the banner.
func NewHandler(loop *Loop, accounts storage.Accounts, characters storage.Backend, serverName string, logger *zap.Logger) *Handler {
	return &Handler{
		loop:       loop,
		accounts:   accounts,
		characters: characters,
		name:       serverName,
		logger:     logger,
	}
}

// ValidName reports whether name is usable as a character name: letters
// only, between 3 and 16 of them.
func ValidName(name string) bool {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return false
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// HandleSession implements telnet.SessionHandler.
func (h *Handler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	if err := conn.WriteText(h.banner()); err != nil {
		return err
	}
	name, err := h.login(ctx, conn)
	if err != nil {
		if errors.Is(err, errLoginAborted) {
			return nil
		}
		return err
	}
	log := h.logger.With(zap.String("session", conn.ID().String()), zap.String("player", name))

	player := Player{Name: name}
	rec, items, err := h.characters.LoadCharacter(ctx, name)
	switch {
	case err == nil:
		player.Record, player.Items = &rec, items
	case errors.Is(err, storage.ErrNotFound):
	default:
		_ = conn.WriteLine("Your character could not be loaded. Try again later.")
		return fmt.Errorf("loading %s: %w", name, err)
	}

	s := NewSession(conn.ID(), name, outputBufferSize)
	if _, err := h.loop.Join(ctx, s, player); err != nil {
		if errors.Is(err, ErrAlreadyPlaying) {
			return conn.WriteLine("You are already playing.")
		}
		_ = conn.WriteLine("The world is not accepting players right now.")
		return fmt.Errorf("joining %s: %w", name, err)
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		defer conn.Close()
		for text := range s.Output() {
			if err := conn.WriteText(text); err != nil {
				log.Debug("write failed", zap.Error(err))
				return
			}
		}
	}()

	for {
		line, err := conn.ReadLine()
		if err != nil || s.IsClosed() {
			break
		}
		if err := h.loop.Submit(ctx, s, line); err != nil {
			break
		}
	}

	if !s.IsClosed() {
		if err := h.loop.Leave(context.WithoutCancel(ctx), s); err != nil {
			s.Close()
		}
	}
	<-written
	return nil
}

func (h *Handler) banner() string {
	return "\n" + telnet.Colorize(telnet.Bold+telnet.Yellow, h.name) + "\n" +
		telnet.Colorize(telnet.Dim, "A world after the fall.") + "\n\n"
}

// login asks for a name and password. Unknown names get a new account with
// the password given.
//
// Postcondition: Returns the capitalized character name, or errLoginAborted
// after too many failures.
func (h *Handler) login(ctx context.Context, conn *telnet.Conn) (string, error) {
	var name string
	for attempt := 0; ; attempt++ {
		if attempt == maxAttempts {
			_ = conn.WriteLine("Too many attempts.")
			return "", errLoginAborted
		}
		if err := conn.WriteText("By what name are you known? "); err != nil {
			return "", err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if ValidName(line) {
			name = entity.Capitalize(strings.ToLower(line))
			break
		}
		if err := conn.WriteLine("Names are 3 to 16 letters."); err != nil {
			return "", err
		}
	}

	username := strings.ToLower(name)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := conn.WriteText("Password: "); err != nil {
			return "", err
		}
		password, err := conn.ReadPassword()
		if err != nil {
			return "", err
		}
		_, err = h.accounts.Authenticate(ctx, username, password)
		switch {
		case err == nil:
			return name, nil
		case errors.Is(err, storage.ErrAccountNotFound):
			if len(password) < minPasswordLen {
				_ = conn.WriteLine("Passwords need at least 4 characters.")
				continue
			}
			if _, err := h.accounts.Create(ctx, username, password); err != nil {
				return "", fmt.Errorf("creating account %s: %w", username, err)
			}
			h.logger.Info("account created", zap.String("username", username))
			_ = conn.WriteLine(telnet.Colorize(telnet.Green, "Welcome, "+name+". A new survivor enters the world."))
			return name, nil
		case errors.Is(err, storage.ErrInvalidCredentials):
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Wrong password."))
		default:
			return "", fmt.Errorf("authenticating %s: %w", username, err)
		}
	}
	_ = conn.WriteLine("Too many attempts.")
	return "", errLoginAborted
}

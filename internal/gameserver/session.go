package gameserver

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// Session routes text produced by the game loop to one connected client.
// The loop writes with Push; the connection goroutine drains Output.
type Session struct {
	id     uuid.UUID
	name   string
	out    chan string
	mu     sync.Mutex
	closed bool
	actor  entity.ID
}

// NewSession creates a session for the named player.
//
// Precondition: name must be non-empty.
// Postcondition: Returns a Session with an open output channel.
func NewSession(id uuid.UUID, name string, bufferSize int) *Session {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Session{
		id:   id,
		name: name,
		out:  make(chan string, bufferSize),
	}
}

// ID returns the connection identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Name returns the player name.
func (s *Session) Name() string { return s.name }

// Actor returns the character bound to the session, zero before it joins.
func (s *Session) Actor() entity.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

func (s *Session) bind(id entity.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = id
}

// Push enqueues text without blocking.
//
// Postcondition: Returns an error when the session is closed or its buffer is full.
func (s *Session) Push(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session %s is closed", s.name)
	}
	select {
	case s.out <- text:
		return nil
	default:
		return fmt.Errorf("session %s output buffer full", s.name)
	}
}

// Output returns the read-only output channel. It is closed by Close.
func (s *Session) Output() <-chan string {
	return s.out
}

// Close marks the session closed and closes its output channel.
//
// Postcondition: Further Push calls return an error. Calling Close twice is safe.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.out)
	}
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

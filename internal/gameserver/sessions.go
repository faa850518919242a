package gameserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// ErrAlreadyPlaying is returned when a name is already bound to an online character.
var ErrAlreadyPlaying = errors.New("already playing")

// Sessions tracks the online players by character ID. It delivers game
// output and is safe for concurrent use.
type Sessions struct {
	mu      sync.RWMutex
	byActor map[entity.ID]*Session
	byName  map[string]*Session
	logger  *zap.Logger
}

// NewSessions creates an empty registry.
func NewSessions(logger *zap.Logger) *Sessions {
	return &Sessions{
		byActor: make(map[entity.ID]*Session),
		byName:  make(map[string]*Session),
		logger:  logger,
	}
}

// Add binds s to the character id.
//
// Postcondition: Returns ErrAlreadyPlaying when the name or ID is taken.
func (m *Sessions) Add(id entity.ID, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(s.Name())
	if _, exists := m.byName[key]; exists {
		return fmt.Errorf("%s: %w", s.Name(), ErrAlreadyPlaying)
	}
	if _, exists := m.byActor[id]; exists {
		return fmt.Errorf("character %d: %w", id, ErrAlreadyPlaying)
	}
	s.bind(id)
	m.byActor[id] = s
	m.byName[key] = s
	return nil
}

// Remove unbinds the character id and returns its session.
func (m *Sessions) Remove(id entity.ID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byActor[id]
	if !ok {
		return nil, false
	}
	delete(m.byActor, id)
	delete(m.byName, strings.ToLower(s.Name()))
	return s, true
}

// Get returns the session of character id.
func (m *Sessions) Get(id entity.ID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byActor[id]
	return s, ok
}

// ByName returns the session of the named player, case-insensitively.
func (m *Sessions) ByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byName[strings.ToLower(name)]
	return s, ok
}

// Online returns the IDs of every bound character in ascending order.
func (m *Sessions) Online() []entity.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.ID, 0, len(m.byActor))
	for id := range m.byActor {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of online players.
func (m *Sessions) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byActor)
}

// Send delivers text to the session of character id. Mobiles and offline
// characters have no session and the text is discarded.
func (m *Sessions) Send(id entity.ID, text string) {
	s, ok := m.Get(id)
	if !ok {
		return
	}
	if err := s.Push(text); err != nil {
		m.logger.Debug("output dropped", zap.Uint64("character", uint64(id)), zap.Error(err))
	}
}

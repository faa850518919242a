// Package engine runs the game rules: the per-character action state
// machine, combat rounds, movement, death, and the hourly and per-tic world
// updates. A World is owned by a single goroutine.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/storage"
)

// ErrNoRoom is returned when a character is not located in any room.
var ErrNoRoom = errors.New("character has no room")

// Notifier delivers text to a single character.
type Notifier interface {
	Send(id entity.ID, text string)
}

// Journal accepts persistence jobs without blocking.
type Journal interface {
	Submit(job storage.Job) error
}

// Recorder receives gameplay counters.
type Recorder interface {
	ActionPerformed(kind, status string)
	CharacterKilled(mobile bool)
}

type nopNotifier struct{}

func (nopNotifier) Send(entity.ID, string) {}

type nopJournal struct{}

func (nopJournal) Submit(storage.Job) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ActionPerformed(string, string) {}
func (nopRecorder) CharacterKilled(bool)           {}

// Option configures a World.
type Option func(*World)

// WithClock replaces the wall clock used for cooldowns.
func WithClock(now func() time.Time) Option {
	return func(w *World) { w.now = now }
}

// WithNotifier sets the message sink.
func WithNotifier(n Notifier) Option {
	return func(w *World) { w.notifier = n }
}

// WithJournal sets the persistence journal.
func WithJournal(j Journal) Option {
	return func(w *World) { w.journal = j }
}

// WithBehavior sets the mobile behaviour provider.
func WithBehavior(b Behavior) Option {
	return func(w *World) { w.behavior = b }
}

// WithRecorder sets the gameplay counter sink.
func WithRecorder(r Recorder) Option {
	return func(w *World) { w.recorder = r }
}

// WithReviveDelay sets how long a killed player stays dead.
func WithReviveDelay(d time.Duration) Option {
	return func(w *World) { w.reviveDelay = d }
}

// World is the dependency context of every game rule.
type World struct {
	logger    *zap.Logger
	areas     *world.Manager
	arena     *entity.Arena
	catalogue *entity.Catalogue
	roller    *dice.Roller
	notifier  Notifier
	journal   Journal
	behavior  Behavior
	recorder  Recorder
	now       func() time.Time

	actions     map[entity.ID]*Action
	trackers    map[entity.ID]*combat.Tracker
	dead        map[entity.ID]revival
	reviveDelay time.Duration
	hour        int
}

// NewWorld creates a World over the given areas, arena and catalogue.
//
// Precondition: areas, arena, catalogue, roller and logger must be non-nil.
// Postcondition: every character already in the arena is idle.
func NewWorld(areas *world.Manager, arena *entity.Arena, catalogue *entity.Catalogue, roller *dice.Roller, logger *zap.Logger, opts ...Option) *World {
	w := &World{
		logger:      logger,
		areas:       areas,
		arena:       arena,
		catalogue:   catalogue,
		roller:      roller,
		notifier:    nopNotifier{},
		journal:     nopJournal{},
		behavior:    NopBehavior{},
		recorder:    nopRecorder{},
		now:         time.Now,
		actions:     make(map[entity.ID]*Action),
		trackers:    make(map[entity.ID]*combat.Tracker),
		dead:        make(map[entity.ID]revival),
		reviveDelay: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Areas returns the area manager.
func (w *World) Areas() *world.Manager { return w.areas }

// Arena returns the entity arena.
func (w *World) Arena() *entity.Arena { return w.arena }

// Catalogue returns the model catalogue.
func (w *World) Catalogue() *entity.Catalogue { return w.catalogue }

// Now returns the current time of the world clock.
func (w *World) Now() time.Time { return w.now() }

// Character resolves id in the arena.
func (w *World) Character(id entity.ID) (*entity.Character, bool) {
	return w.arena.Character(id)
}

// RoomOf returns the room and area of the character.
//
// Postcondition: Returns ErrNoRoom when the character is detached or its
// room is unknown.
func (w *World) RoomOf(c *entity.Character) (*world.Room, *world.Area, error) {
	room, ok := w.areas.Room(c.Room)
	if !ok {
		return nil, nil, fmt.Errorf("character %d (%s): %w", c.ID, c.Name, ErrNoRoom)
	}
	area, ok := w.areas.AreaOf(room)
	if !ok {
		return nil, nil, fmt.Errorf("room %d has no area: %w", room.Vnum, ErrNoRoom)
	}
	return room, area, nil
}

// Send delivers text to one character, appending a newline when missing.
func (w *World) Send(id entity.ID, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	w.notifier.Send(id, text)
}

// Sendf formats and delivers text to one character.
func (w *World) Sendf(id entity.ID, format string, args ...any) {
	w.Send(id, fmt.Sprintf(format, args...))
}

// Broadcast sends text to every character in room except the listed ones.
// It is the only room fan-out path.
func (w *World) Broadcast(room world.Vnum, text string, except ...entity.ID) {
	for _, id := range w.arena.CharactersIn(room) {
		skip := false
		for _, e := range except {
			if e == id {
				skip = true
				break
			}
		}
		if !skip {
			w.Send(id, text)
		}
	}
}

// Tracker returns the opponent tracker of id, creating it on first use.
func (w *World) Tracker(id entity.ID) *combat.Tracker {
	t, ok := w.trackers[id]
	if !ok {
		t = combat.NewTracker()
		w.trackers[id] = t
	}
	return t
}

// Action returns the current action of id, idle when none was set.
func (w *World) Action(id entity.ID) *Action {
	if a, ok := w.actions[id]; ok {
		return a
	}
	return w.NewWait(id)
}

// SetAction replaces the current action of the actor.
func (w *World) SetAction(a *Action) {
	w.actions[a.Actor] = a
}

// SetIdle installs the idle action for id.
func (w *World) SetIdle(id entity.ID) {
	delete(w.actions, id)
}

// StopAction stops the current action of id and installs idle.
//
// Postcondition: Returns the stop message, empty when the character was idle.
func (w *World) StopAction(id entity.ID) string {
	a, ok := w.actions[id]
	if !ok {
		return ""
	}
	msg := a.Stop()
	w.SetIdle(id)
	return msg
}

// PerformActions gives every non-idle action a chance to run. Actions whose
// cooldown has not elapsed return Running without side effects.
func (w *World) PerformActions() {
	ids := make([]entity.ID, 0, len(w.actions))
	for id := range w.actions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		a, ok := w.actions[id]
		if !ok || a.Kind == KindWait {
			continue
		}
		due := a.Elapsed()
		status := a.Perform()
		if due {
			w.recorder.ActionPerformed(a.Kind.String(), status.String())
		}
		if status == Running {
			continue
		}
		// The action may have been replaced while performing.
		if current, ok := w.actions[id]; ok && current == a {
			w.SetIdle(id)
		}
	}
}

// fatal logs an invariant violation.
func (w *World) fatal(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.Stack("stack"))
	w.logger.Error(msg, fields...)
}

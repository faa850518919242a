// Package gameserver runs the single game loop that owns the world, and
// binds telnet sessions to characters.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/command"
	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/storage"
)

// ErrLoopStopped is returned by Join when the loop is not running.
var ErrLoopStopped = errors.New("game loop stopped")

// Prompt is pushed to a session after each of its commands.
const Prompt = "> "

// Metrics receives loop measurements.
type Metrics interface {
	CommandProcessed()
	SetPlayersOnline(n int)
	SetJournalDepth(n int)
	ObserveIteration(d time.Duration)
}

// QueueDepth reports the backlog of the persistence journal.
type QueueDepth interface {
	Depth() int
}

type nopMetrics struct{}

func (nopMetrics) CommandProcessed()              {}
func (nopMetrics) SetPlayersOnline(int)           {}
func (nopMetrics) SetJournalDepth(int)            {}
func (nopMetrics) ObserveIteration(time.Duration) {}

// Player is a login request: a name with its stored record, or a nil
// record for a character that does not exist yet.
type Player struct {
	Name   string
	Record *storage.CharacterRecord
	Items  []storage.ItemRecord
}

type joinResult struct {
	id  entity.ID
	err error
}

type request struct {
	session *Session
	line    string
	join    *Player
	leave   bool
	result  chan joinResult
}

// LoopConfig holds the loop cadence and new-player defaults.
type LoopConfig struct {
	Tic         time.Duration
	Hour        time.Duration
	PollTimeout time.Duration
	StartHour   int
	QueueSize   int
	// Race is given to characters created at first login.
	Race string
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithMetrics sets the measurement sink.
func WithMetrics(m Metrics) LoopOption {
	return func(l *Loop) { l.metrics = m }
}

// WithQueueDepth sets the journal whose depth is reported every pass.
func WithQueueDepth(q QueueDepth) LoopOption {
	return func(l *Loop) { l.queue = q }
}

// WithLoopClock replaces the wall clock.
func WithLoopClock(now func() time.Time) LoopOption {
	return func(l *Loop) { l.now = now }
}

// WithStatus registers a callback told when the loop starts and stops serving.
func WithStatus(fn func(serving bool)) LoopOption {
	return func(l *Loop) { l.status = fn }
}

// Loop is the world tick scheduler. One goroutine runs Start and owns the
// World; other goroutines reach it only through Join, Submit and Leave.
type Loop struct {
	cfg        LoopConfig
	world      *engine.World
	dispatcher *command.Dispatcher
	sessions   *Sessions
	roller     *dice.Roller
	logger     *zap.Logger
	metrics    Metrics
	queue      QueueDepth
	now        func() time.Time
	status     func(bool)

	clock   *Clock
	period  TimePeriod
	inputs  chan request
	done    chan struct{}
	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// NewLoop creates a stopped loop over w.
//
// Precondition: cfg.Tic > 0; w, dispatcher, sessions, roller and logger must be non-nil.
func NewLoop(cfg LoopConfig, w *engine.World, dispatcher *command.Dispatcher, sessions *Sessions, roller *dice.Roller, logger *zap.Logger, opts ...LoopOption) *Loop {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Race == "" {
		cfg.Race = "human"
	}
	l := &Loop{
		cfg:        cfg,
		world:      w,
		dispatcher: dispatcher,
		sessions:   sessions,
		roller:     roller,
		logger:     logger,
		metrics:    nopMetrics{},
		now:        time.Now,
		status:     func(bool) {},
		inputs:     make(chan request, cfg.QueueSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.clock = NewClock(l.now(), cfg.Tic, cfg.Hour, cfg.StartHour)
	l.period = l.clock.Hour().Period()
	return l
}

// Start runs the loop until ctx is cancelled or Stop is called. On exit every
// online player is saved and logged out.
//
// Precondition: Start is called at most once.
func (l *Loop) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		cancel()
		return errors.New("game loop already started")
	}
	l.started = true
	l.cancel = cancel
	l.mu.Unlock()
	defer close(l.done)

	l.logger.Info("game loop started",
		zap.Duration("tic", l.cfg.Tic),
		zap.Duration("hour", l.cfg.Hour),
		zap.Stringer("game_hour", l.clock.Hour()),
	)
	l.status(true)

	timer := time.NewTimer(l.cfg.PollTimeout)
	defer timer.Stop()
	for {
		var pending []request
		select {
		case <-ctx.Done():
			l.status(false)
			l.shutdown()
			return nil
		case r := <-l.inputs:
			pending = append(pending, r)
		case <-timer.C:
		}
		l.iterate(l.now(), l.drain(pending))

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(l.cfg.PollTimeout)
	}
}

func (l *Loop) drain(pending []request) []request {
	for {
		select {
		case r := <-l.inputs:
			pending = append(pending, r)
		default:
			return pending
		}
	}
}

// Stop ends the loop and waits for the final save, bounded by ctx.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for game loop: %w", ctx.Err())
	}
}

// Iterate runs one scheduler pass at now over the requests queued so far.
// Start calls it on every input and at least once per poll timeout.
func (l *Loop) Iterate(now time.Time) {
	l.iterate(now, l.drain(nil))
}

// iterate runs the hour update when due, then the tic update when due, then
// every action, then the pending requests in arrival order.
func (l *Loop) iterate(now time.Time, pending []request) {
	start := time.Now()
	hour, tic := l.clock.Due(now)
	if hour {
		l.world.HourlyUpdate(int(l.clock.Hour()))
		l.announce()
	}
	if tic {
		l.world.TicUpdate()
	}
	l.world.PerformActions()

	for _, r := range pending {
		l.handle(r)
	}

	l.metrics.SetPlayersOnline(l.sessions.Count())
	if l.queue != nil {
		l.metrics.SetJournalDepth(l.queue.Depth())
	}
	l.metrics.ObserveIteration(time.Since(start))
}

// announce tells outdoor players when the day enters a new period.
func (l *Loop) announce() {
	period := l.clock.Hour().Period()
	if period == l.period {
		return
	}
	l.period = period
	for _, id := range l.sessions.Online() {
		c, ok := l.world.Character(id)
		if !ok {
			continue
		}
		room, _, err := l.world.RoomOf(c)
		if err != nil {
			continue
		}
		if text := Announcement(period, room.Outdoor()); text != "" {
			l.world.Send(id, text)
		}
	}
}

func (l *Loop) handle(r request) {
	switch {
	case r.join != nil:
		id, err := l.join(r.session, r.join)
		r.result <- joinResult{id: id, err: err}
	case r.leave:
		l.leave(r.session)
	default:
		l.command(r.session, r.line)
	}
}

func (l *Loop) join(s *Session, p *Player) (entity.ID, error) {
	if _, playing := l.sessions.ByName(p.Name); playing {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrAlreadyPlaying)
	}

	var (
		c   *entity.Character
		err error
	)
	if p.Record == nil {
		c, err = l.world.NewPlayer(p.Name, l.cfg.Race, entity.Neuter, l.rollAbilities())
	} else {
		c, err = l.world.RestoreCharacter(*p.Record, p.Items)
	}
	if err != nil {
		return 0, fmt.Errorf("entering %s: %w", p.Name, err)
	}
	if err := l.sessions.Add(c.ID, s); err != nil {
		l.world.Arena().RemoveCharacter(c.ID)
		return 0, err
	}

	l.logger.Info("player entered",
		zap.String("player", c.Name),
		zap.Uint64("character", uint64(c.ID)),
		zap.Bool("new", p.Record == nil),
	)
	l.world.Broadcast(c.Room, fmt.Sprintf("%s enters the game.", c.Name), c.ID)
	l.world.Send(c.ID, l.world.Look(c))
	_ = s.Push(Prompt)
	return c.ID, nil
}

func (l *Loop) rollAbilities() entity.Abilities {
	var a entity.Abilities
	for i := range a {
		a[i] = l.roller.Between(8, 14)
	}
	return a
}

func (l *Loop) leave(s *Session) {
	id := s.Actor()
	if _, ok := l.sessions.Remove(id); !ok {
		s.Close()
		return
	}
	if c, ok := l.world.Character(id); ok {
		l.world.Logout(c)
		l.logger.Info("player left", zap.String("player", c.Name))
	}
	s.Close()
}

func (l *Loop) command(s *Session, line string) {
	id := s.Actor()
	if _, ok := l.sessions.Get(id); !ok {
		return
	}
	l.metrics.CommandProcessed()
	quit, err := l.dispatcher.Dispatch(id, line)
	if err != nil {
		l.logger.Error("command for missing character",
			zap.String("player", s.Name()),
			zap.Error(err),
			zap.Stack("stack"),
		)
		l.sessions.Remove(id)
		s.Close()
		return
	}
	if quit {
		l.sessions.Remove(id)
		s.Close()
		return
	}
	_ = s.Push(Prompt)
}

func (l *Loop) shutdown() {
	for _, id := range l.sessions.Online() {
		s, _ := l.sessions.Remove(id)
		if c, ok := l.world.Character(id); ok {
			l.world.Send(id, "The world fades away as the server shuts down.")
			l.world.Logout(c)
		}
		if s != nil {
			s.Close()
		}
	}
	l.logger.Info("game loop stopped")
}

func (l *Loop) enqueue(ctx context.Context, r request) error {
	select {
	case l.inputs <- r:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join binds s to the character of p inside the loop and waits for the
// result.
//
// Postcondition: Returns the character ID, ErrAlreadyPlaying when the name
// is online, or ErrLoopStopped.
func (l *Loop) Join(ctx context.Context, s *Session, p Player) (entity.ID, error) {
	result := make(chan joinResult, 1)
	if err := l.enqueue(ctx, request{session: s, join: &p, result: result}); err != nil {
		return 0, err
	}
	select {
	case r := <-result:
		return r.id, r.err
	case <-l.done:
		return 0, ErrLoopStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Submit queues a command line from s.
func (l *Loop) Submit(ctx context.Context, s *Session, line string) error {
	return l.enqueue(ctx, request{session: s, line: line})
}

// Leave queues the logout of s. Its output channel is closed once the
// character is saved.
func (l *Loop) Leave(ctx context.Context, s *Session) error {
	return l.enqueue(ctx, request{session: s, leave: true})
}

// Hour returns the current game hour. Only the loop goroutine may call it.
func (l *Loop) Hour() GameHour {
	return l.clock.Hour()
}

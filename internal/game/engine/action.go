package engine

import (
	"fmt"
	"time"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// Kind identifies the variant of an Action.
type Kind uint8

const (
	KindWait Kind = iota
	KindMove
	KindBuild
	KindCraft
	KindCombat
	KindScout
	KindLoad
	KindUnload
	KindReload
	KindAim
)

var kindNames = [...]string{
	KindWait:   "wait",
	KindMove:   "move",
	KindBuild:  "building",
	KindCraft:  "crafting",
	KindCombat: "combat",
	KindScout:  "scout",
	KindLoad:   "load",
	KindUnload: "unload",
	KindReload: "reload",
	KindAim:    "aim",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Status is the outcome of one Perform call.
type Status uint8

const (
	// Finished makes the scheduler install the idle action.
	Finished Status = iota
	// Running means the action is not due yet, or that a combat round was
	// resolved and re-armed.
	Running
	// Error stops the action. Nothing consumed before the failure is refunded.
	Error
)

func (s Status) String() string {
	switch s {
	case Finished:
		return "finished"
	case Running:
		return "running"
	case Error:
		return "error"
	}
	return "unknown"
}

// CheckError is an expected precondition failure. Its text is shown to the
// player verbatim.
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string { return e.Message }

func refuse(format string, args ...any) error {
	return &CheckError{Message: fmt.Sprintf(format, args...)}
}

// Action is a timed activity of one character. Exactly one payload matching
// Kind is set; Wait carries none.
type Action struct {
	Actor    entity.ID
	Kind     Kind
	world    *World
	deadline time.Time

	move   *movePayload
	scout  *scoutPayload
	build  *buildPayload
	combat *combatPayload
	load   *loadPayload
	unload *unloadPayload
	reload *reloadPayload
	aim    *aimPayload
}

func (w *World) newAction(actor entity.ID, kind Kind) *Action {
	return &Action{Actor: actor, Kind: kind, world: w, deadline: w.now()}
}

// NewWait returns the idle action of actor.
func (w *World) NewWait(actor entity.ID) *Action {
	return w.newAction(actor, KindWait)
}

// ResetCooldown moves the deadline to now plus d.
func (a *Action) ResetCooldown(d time.Duration) {
	a.deadline = a.world.now().Add(d)
}

func (a *Action) resetSeconds(seconds int) {
	a.ResetCooldown(time.Duration(seconds) * time.Second)
}

// Deadline returns the absolute time the action becomes due.
func (a *Action) Deadline() time.Time { return a.deadline }

// Elapsed reports whether the cooldown has passed.
func (a *Action) Elapsed() bool {
	return !a.world.now().Before(a.deadline)
}

// Description is the gerund shown by the look and status commands.
func (a *Action) Description() string {
	switch a.Kind {
	case KindMove:
		return "moving"
	case KindScout:
		return "scouting"
	case KindBuild:
		return "building"
	case KindCraft:
		return a.build.production.Verb
	case KindCombat:
		return a.combat.kind.String()
	case KindLoad:
		return "loading"
	case KindUnload:
		return "unloading"
	case KindReload:
		return "reloading"
	case KindAim:
		return "aiming"
	}
	return "waiting"
}

// Stop cancels the action and returns the message for the actor.
func (a *Action) Stop() string {
	switch a.Kind {
	case KindMove:
		return "You stop moving."
	case KindScout:
		return "You stop scouting the area."
	case KindBuild:
		return "You stop building."
	case KindCraft:
		return fmt.Sprintf("You stop %s.", a.build.production.Verb)
	case KindCombat:
		return "You stop fighting."
	case KindLoad:
		return "You stop loading."
	case KindUnload:
		return "You stop unloading."
	case KindReload:
		return "You stop reloading."
	case KindAim:
		return "You stop aiming."
	}
	return ""
}

// Check validates the static preconditions of the action without changing
// any state.
//
// Postcondition: Returns a *CheckError for expected failures.
func (a *Action) Check() error {
	actor, ok := a.world.Character(a.Actor)
	if !ok {
		return fmt.Errorf("actor %d: %w", a.Actor, entity.ErrNotFound)
	}
	switch a.Kind {
	case KindMove:
		return a.checkMove(actor)
	case KindScout:
		return a.checkScout(actor)
	case KindBuild, KindCraft:
		return a.checkBuild(actor)
	case KindCombat:
		return a.checkCombat(actor)
	case KindLoad:
		return a.checkLoad(actor)
	case KindUnload:
		return a.checkUnload(actor)
	case KindReload:
		return a.checkReload(actor)
	case KindAim:
		return a.checkAim(actor)
	}
	return nil
}

// Perform advances the action. Before the deadline it returns Running and
// changes nothing.
func (a *Action) Perform() Status {
	if a.Kind == KindWait {
		return Finished
	}
	if !a.Elapsed() {
		return Running
	}
	actor, ok := a.world.Character(a.Actor)
	if !ok {
		return Error
	}
	switch a.Kind {
	case KindMove:
		return a.performMove(actor)
	case KindScout:
		return a.performScout(actor)
	case KindBuild, KindCraft:
		return a.performBuild(actor)
	case KindCombat:
		return a.performCombat(actor)
	case KindLoad:
		return a.performLoad(actor)
	case KindUnload:
		return a.performUnload(actor)
	case KindReload:
		return a.performReload(actor)
	case KindAim:
		return a.performAim(actor)
	}
	return Error
}

// fail reports err to the actor and returns Error.
func (a *Action) fail(err error) Status {
	if msg := err.Error(); msg != "" {
		a.world.Send(a.Actor, msg)
	}
	return Error
}

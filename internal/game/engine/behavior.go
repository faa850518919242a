package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// Event is a hook a mobile behaviour can react to.
type Event uint8

const (
	EventEnter Event = iota
	EventExit
	EventHourly
	EventDeath
)

func (e Event) String() string {
	switch e {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventHourly:
		return "hourly"
	case EventDeath:
		return "death"
	}
	return "unknown"
}

// EventContext is the read-only view of the world handed to a behaviour.
type EventContext struct {
	Script    string
	Self      entity.ID
	SelfName  string
	Other     entity.ID
	OtherName string
	Room      world.Vnum
	Direction world.Direction
	Hour      int
	Health    int
	MaxHealth int
}

// EffectKind identifies what a behaviour asks the world to do.
type EffectKind uint8

const (
	EffectSay EffectKind = iota
	EffectEmote
	EffectMove
	EffectAttack
)

// Effect is one request returned by a behaviour. Text is used by Say and
// Emote, Direction by Move, and Target by Attack.
type Effect struct {
	Kind      EffectKind
	Text      string
	Direction world.Direction
	Target    string
}

// Behavior drives scripted mobiles.
type Behavior interface {
	Invoke(ctx context.Context, event Event, ec EventContext) []Effect
}

// NopBehavior never reacts.
type NopBehavior struct{}

// Invoke implements Behavior.
func (NopBehavior) Invoke(context.Context, Event, EventContext) []Effect { return nil }

// behaviorTimeout bounds a single behaviour invocation.
const behaviorTimeout = 100 * time.Millisecond

// trigger fires event on every scripted mobile in room other than subject.
func (w *World) trigger(event Event, room world.Vnum, subject *entity.Character, direction world.Direction) {
	for _, id := range w.arena.CharactersIn(room) {
		if id == subject.ID {
			continue
		}
		mobile, ok := w.Character(id)
		if !ok || !mobile.IsMobile() || mobile.Script == "" {
			continue
		}
		w.invoke(event, mobile, subject, direction)
	}
}

// invoke runs the behaviour of mobile and applies the effects it returns.
func (w *World) invoke(event Event, mobile, other *entity.Character, direction world.Direction) {
	ec := EventContext{
		Script:    mobile.Script,
		Self:      mobile.ID,
		SelfName:  mobile.Name,
		Room:      mobile.Room,
		Direction: direction,
		Hour:      w.hour,
		Health:    mobile.Health(),
		MaxHealth: mobile.MaxHealth(),
	}
	if other != nil {
		ec.Other = other.ID
		ec.OtherName = other.Name
	}
	ctx, cancel := context.WithTimeout(context.Background(), behaviorTimeout)
	defer cancel()
	effects := w.behavior.Invoke(ctx, event, ec)
	for _, fx := range effects {
		w.applyEffect(mobile, fx)
	}
}

func (w *World) applyEffect(mobile *entity.Character, fx Effect) {
	if mobile.Room == 0 {
		return
	}
	name := entity.Capitalize(mobile.Name)
	switch fx.Kind {
	case EffectSay:
		w.Broadcast(mobile.Room, fmt.Sprintf("%s says \"%s\".", name, fx.Text), mobile.ID)
	case EffectEmote:
		w.Broadcast(mobile.Room, fmt.Sprintf("%s %s", name, fx.Text), mobile.ID)
	case EffectMove:
		a := w.NewMove(mobile.ID, fx.Direction)
		if err := a.Check(); err != nil {
			w.logger.Debug("behaviour move refused",
				zap.String("mobile", mobile.Name),
				zap.String("direction", string(fx.Direction)),
				zap.Error(err),
			)
			return
		}
		w.SetAction(a)
	case EffectAttack:
		target, ok := w.arena.FindCharacterIn(mobile.Room, fx.Target, mobile.ID)
		if !ok {
			return
		}
		if _, err := w.Attack(mobile, target); err != nil {
			w.logger.Debug("behaviour attack refused",
				zap.String("mobile", mobile.Name),
				zap.String("target", target.Name),
				zap.Error(err),
			)
		}
	}
}

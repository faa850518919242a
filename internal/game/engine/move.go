package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

type movePayload struct {
	direction   world.Direction
	destination *world.Room
}

// NewMove builds a move of actor through direction. The destination is
// resolved now and re-validated when the action becomes due.
func (w *World) NewMove(actor entity.ID, direction world.Direction) *Action {
	a := w.newAction(actor, KindMove)
	a.move = &movePayload{direction: direction}
	if c, ok := w.Character(actor); ok {
		if room, _, err := w.RoomOf(c); err == nil {
			a.move.destination, _, _ = w.areas.Destination(room, direction)
		}
		a.resetSeconds(max(1, c.Posture.Speed()))
	}
	return a
}

func (a *Action) checkMove(actor *entity.Character) error {
	if a.move.direction == world.None {
		return refuse("You have to choose a direction.")
	}
	if _, err := a.world.CanMoveTo(actor, a.move.direction); err != nil {
		return err
	}
	if a.move.destination == nil {
		return refuse("That direction can't take you anywhere.")
	}
	return nil
}

func (a *Action) performMove(actor *entity.Character) Status {
	dest, err := a.world.CanMoveTo(actor, a.move.direction)
	if err != nil {
		return a.fail(err)
	}
	actor.RemStamina(combat.StaminaCost(actor, a.world.arena, nil), true)
	a.world.MoveTo(actor, dest, a.move.direction)
	return Finished
}

// CanMoveTo reports whether c may walk through direction and returns the
// destination room.
//
// Postcondition: Returns a *CheckError describing the first failed rule. The
// message is empty when a mobile is refused by a no-mob exit.
func (w *World) CanMoveTo(c *entity.Character, direction world.Direction) (*world.Room, error) {
	if c.Posture == entity.Rest || c.Posture == entity.Sit {
		return nil, refuse("You first need to stand up.")
	}
	room, _, err := w.RoomOf(c)
	if err != nil {
		return nil, err
	}
	dest, exit, ok := w.areas.Destination(room, direction)
	if !ok {
		return nil, refuse("You cannot go that way.")
	}
	if combat.StaminaCost(c, w.arena, nil) > c.Stamina() {
		return nil, refuse("You are too tired to move.")
	}
	if direction == world.Up && !exit.Flags.Has(world.ExitStairs) {
		return nil, refuse("You can't go upstairs, there are no stairs.")
	}
	if dest == nil {
		return nil, refuse("That direction can't take you anywhere.")
	}
	if dest.DoorClosed() {
		return nil, refuse("Maybe you have to open that door first.")
	}
	if down, ok := dest.FindExit(world.Down); ok && !down.Flags.Has(world.ExitStairs) {
		return nil, refuse("Do you really want to fall in that pit?")
	}
	if c.IsMobile() && exit.Flags.Has(world.ExitNoMob) {
		return nil, refuse("")
	}
	return dest, nil
}

// MoveTo relocates c to dest, notifying both rooms and firing the exit and
// enter behaviours of the mobiles there.
func (w *World) MoveTo(c *entity.Character, dest *world.Room, direction world.Direction) {
	from := c.Room
	if from == 0 {
		w.fatal("move without room", ErrNoRoom, zap.Uint64("character", uint64(c.ID)))
		return
	}
	w.trigger(EventExit, from, c, direction)
	name := entity.Capitalize(c.Name)
	w.Broadcast(from, fmt.Sprintf("%s goes %s.", name, direction), c.ID)
	if err := w.arena.PlaceCharacter(c.ID, dest.Vnum); err != nil {
		w.fatal("place character", err, zap.Uint64("character", uint64(c.ID)))
		return
	}
	w.Send(c.ID, w.Look(c))
	w.Broadcast(dest.Vnum, fmt.Sprintf("%s arrives from %s.", name, direction.Opposite()), c.ID)
	w.trigger(EventEnter, dest.Vnum, c, direction)
	w.provoke(dest.Vnum, c)
}

// Look renders the room of c as seen by c.
func (w *World) Look(c *entity.Character) string {
	room, _, err := w.RoomOf(c)
	if err != nil {
		return "You are nowhere."
	}
	var b strings.Builder
	b.WriteString(room.Name + "\n")
	if room.Description != "" {
		b.WriteString(room.Description + "\n")
	}
	exits := room.VisibleExits()
	names := make([]string, 0, len(exits))
	for _, e := range exits {
		names = append(names, string(e.Direction))
	}
	if len(names) == 0 {
		b.WriteString("There are no obvious exits.\n")
	} else {
		b.WriteString("Exits: " + strings.Join(names, ", ") + ".\n")
	}
	if room.HasDoor() {
		if room.DoorClosed() {
			b.WriteString("There is a closed door here.\n")
		} else {
			b.WriteString("There is an open door here.\n")
		}
	}
	for _, id := range w.arena.CharactersIn(room.Vnum) {
		if id == c.ID {
			continue
		}
		other, ok := w.Character(id)
		if !ok {
			continue
		}
		line := entity.Capitalize(other.Name) + " is here"
		if act := w.Action(id); act.Kind != KindWait {
			line += ", " + act.Description()
		} else if other.Posture != entity.Stand {
			line += ", " + other.Posture.String()
		}
		b.WriteString(line + ".\n")
	}
	for _, id := range w.arena.ItemsIn(room.Vnum) {
		if item, ok := w.arena.Item(id); ok {
			b.WriteString(entity.Capitalize(item.Name()) + " lies here.\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

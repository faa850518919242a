package engine

import (
	"fmt"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// findDoor resolves the door c refers to and the exit leading to it. A
// direction selects the room reached through that exit; the word "door"
// selects the first neighbouring room holding a door.
func (w *World) findDoor(c *entity.Character, word string) (*world.Room, world.Exit, error) {
	room, _, err := w.RoomOf(c)
	if err != nil {
		return nil, world.Exit{}, refuse("You are nowhere.")
	}
	if dir, ok := world.ParseDirection(word); ok {
		dest, exit, ok := w.areas.Destination(room, dir)
		if !ok || dest == nil {
			return nil, world.Exit{}, refuse("There is nothing in that direction.")
		}
		if !dest.HasDoor() {
			return nil, world.Exit{}, refuse("There is no door in that direction.")
		}
		return dest, exit, nil
	}
	if !entity.NameMatches("door", word) {
		return nil, world.Exit{}, refuse("You don't see %s here.", word)
	}
	for _, dir := range world.Directions {
		if dest, exit, ok := w.areas.Destination(room, dir); ok && dest != nil && dest.HasDoor() {
			return dest, exit, nil
		}
	}
	return nil, world.Exit{}, refuse("You don't see a door here.")
}

// Open opens the door c refers to. A door locked by its zone file stays
// closed; no command locks or unlocks doors at runtime.
//
// Postcondition: Returns the message for c, or a *CheckError. The door is
// visible through and walkable on success.
func (w *World) Open(c *entity.Character, word string) (string, error) {
	door, exit, err := w.findDoor(c, word)
	if err != nil {
		return "", err
	}
	switch {
	case door.DoorLocked:
		return "", refuse("The door is locked.")
	case !door.DoorClosed():
		return "", refuse("The door is already open.")
	}
	w.interrupt(c)
	door.Door = world.DoorOpen
	return w.doorNotice(c, door, exit, "open", "opens"), nil
}

// Close closes the door c refers to. The doorway must hold no character and
// no item.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Close(c *entity.Character, word string) (string, error) {
	door, exit, err := w.findDoor(c, word)
	if err != nil {
		return "", err
	}
	switch {
	case door.DoorClosed():
		return "", refuse("The door is already closed.")
	case len(w.arena.ItemsIn(door.Vnum)) > 0:
		return "", refuse("There are items in the way, you can't close the door.")
	case len(w.arena.CharactersIn(door.Vnum)) > 0:
		return "", refuse("Someone is in the way, you can't close the door.")
	}
	w.interrupt(c)
	door.Door = world.DoorClosed
	return w.doorNotice(c, door, exit, "close", "closes"), nil
}

// interrupt stops the current action of c unless it is fighting.
func (w *World) interrupt(c *entity.Character) {
	if !w.InCombat(c.ID) {
		w.StopAction(c.ID)
	}
}

// doorNotice tells the room of c, and every room beyond the door, what c
// did. It returns the message for c.
func (w *World) doorNotice(c *entity.Character, door *world.Room, exit world.Exit, verb, verbs string) string {
	what := "a door"
	if exit.Flags.Has(world.ExitHidden) {
		what = "a hidden door"
	}
	w.Broadcast(c.Room, fmt.Sprintf("%s %s %s.", entity.Capitalize(c.Name), verbs, what), c.ID)
	for _, e := range door.Exits {
		if e.Destination == c.Room {
			continue
		}
		w.Broadcast(e.Destination, fmt.Sprintf("Someone %s %s from the other side.", verbs, what))
	}
	return fmt.Sprintf("You %s %s.", verb, what)
}

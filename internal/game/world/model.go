// Package world provides the spatial model of the game: areas laid out as a
// sparse 3D grid of rooms, their exits and doors, and the line-of-sight and
// field-of-view queries built on top of them.
package world

import (
	"fmt"
	"strings"
)

// Vnum is the stable integer identifier of a room or area definition.
type Vnum int

// Coordinates addresses a cell of an area grid.
type Coordinates struct {
	X, Y, Z int
}

// Add returns c translated by o.
func (c Coordinates) Add(o Coordinates) Coordinates {
	return Coordinates{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// String renders c as "[x;y;z]".
func (c Coordinates) String() string {
	return fmt.Sprintf("[%d;%d;%d]", c.X, c.Y, c.Z)
}

// Direction is one of the six grid directions.
type Direction string

// The six movement directions plus the zero value.
const (
	None  Direction = ""
	North Direction = "north"
	South Direction = "south"
	West  Direction = "west"
	East  Direction = "east"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every direction in the order exits are scanned.
var Directions = []Direction{North, South, West, East, Up, Down}

// ParseDirection accepts a full direction name or its single-letter alias.
//
// Postcondition: Returns (dir, true) on success, or (None, false).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "w", "west":
		return West, true
	case "e", "east":
		return East, true
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	}
	return None, false
}

// Opposite returns the reverse direction, or None for None.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	case Up:
		return Down
	case Down:
		return Up
	}
	return None
}

// Offset returns the unit grid translation for d. North increases Y and Up
// increases Z.
func (d Direction) Offset() Coordinates {
	switch d {
	case North:
		return Coordinates{Y: 1}
	case South:
		return Coordinates{Y: -1}
	case West:
		return Coordinates{X: -1}
	case East:
		return Coordinates{X: 1}
	case Up:
		return Coordinates{Z: 1}
	case Down:
		return Coordinates{Z: -1}
	}
	return Coordinates{}
}

// ExitFlag is a bit set of exit properties.
type ExitFlag uint8

const (
	ExitClosed ExitFlag = 1 << iota
	ExitLocked
	ExitHidden
	ExitStairs
	ExitNoMob
)

// Has reports whether every bit of o is set in f.
func (f ExitFlag) Has(o ExitFlag) bool {
	return f&o == o
}

// ParseExitFlag maps a content keyword to its flag.
func ParseExitFlag(s string) (ExitFlag, error) {
	switch strings.ToLower(s) {
	case "closed":
		return ExitClosed, nil
	case "locked":
		return ExitLocked, nil
	case "hidden":
		return ExitHidden, nil
	case "stairs":
		return ExitStairs, nil
	case "nomob", "no_mob":
		return ExitNoMob, nil
	}
	return 0, fmt.Errorf("unknown exit flag %q", s)
}

// Exit is a passage from a room to a destination room.
type Exit struct {
	Direction   Direction
	Destination Vnum
	Flags       ExitFlag
}

// DoorState describes the door installed in a room, if any.
type DoorState uint8

const (
	NoDoor DoorState = iota
	DoorOpen
	DoorClosed
)

// Room is a single cell of an area.
type Room struct {
	Vnum        Vnum
	Area        Vnum
	Coord       Coordinates
	Name        string
	Description string
	Terrain     string
	Door        DoorState
	// DoorLocked prevents opening the door with a plain open command.
	DoorLocked bool
	Exits      []Exit
}

// FindExit returns the exit leading in dir.
//
// Postcondition: Returns (exit, true) if found, or (Exit{}, false).
func (r *Room) FindExit(dir Direction) (Exit, bool) {
	for _, e := range r.Exits {
		if e.Direction == dir {
			return e, true
		}
	}
	return Exit{}, false
}

// VisibleExits returns every exit not flagged hidden.
func (r *Room) VisibleExits() []Exit {
	var out []Exit
	for _, e := range r.Exits {
		if !e.Flags.Has(ExitHidden) {
			out = append(out, e)
		}
	}
	return out
}

// HasDoor reports whether the room contains a door.
func (r *Room) HasDoor() bool {
	return r.Door != NoDoor
}

// DoorClosed reports whether the room holds a closed door.
func (r *Room) DoorClosed() bool {
	return r.Door == DoorClosed
}

// Tile returns the base map glyph for the room, ignoring occupants.
func (r *Room) Tile() string {
	tile := "."
	switch r.Door {
	case DoorClosed:
		tile = "D"
	case DoorOpen:
		tile = "O"
	}
	up, hasUp := r.FindExit(Up)
	down, hasDown := r.FindExit(Down)
	switch {
	case hasUp && hasDown:
		if up.Flags.Has(ExitStairs) && down.Flags.Has(ExitStairs) {
			tile = "X"
		}
	case hasUp:
		if up.Flags.Has(ExitStairs) {
			tile = ">"
		}
	case hasDown:
		if down.Flags.Has(ExitStairs) {
			tile = "<"
		} else {
			tile = " "
		}
	}
	return tile
}

// MobileSpawn places a non-player character in a room at boot.
type MobileSpawn struct {
	Name      string
	Race      string
	Room      Vnum
	Abilities [5]int
	// Weapon is the model vnum wielded in the right hand, 0 for none.
	Weapon int
	// Aggressive mobiles attack players that enter their room.
	Aggressive bool
	Script     string
}

// ItemSpawn places Quantity items of Model in a room at boot.
type ItemSpawn struct {
	Model    int
	Room     Vnum
	Quantity int
}

// Outdoor reports whether the room is open to the sky.
func (r *Room) Outdoor() bool {
	switch r.Terrain {
	case "indoor", "underground", "cave":
		return false
	}
	return true
}

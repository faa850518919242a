package world

import (
	"fmt"
	"math"
)

// losPrecision is the number of ray samples taken per unit of distance.
const losPrecision = 10

// Area is a bounded 3D grid of rooms.
//
// Invariant: every room lies inside [0,Width]x[0,Height]x[0,Elevation] and
// no two rooms share coordinates.
type Area struct {
	Vnum      Vnum
	Name      string
	Builder   string
	Width     int
	Height    int
	Elevation int
	// StartRoom is where newly connected or revived players appear.
	StartRoom Vnum
	// Script names the behaviour script attached to mobiles spawned here.
	Script string
	// Mobiles and Items are populated into the arena when the world boots.
	Mobiles []MobileSpawn
	Items   []ItemSpawn

	rooms map[Coordinates]*Room
}

// NewArea creates an empty area with the given bounds.
//
// Precondition: width, height and elevation must be >= 0.
func NewArea(vnum Vnum, name string, width, height, elevation int) *Area {
	return &Area{
		Vnum:      vnum,
		Name:      name,
		Width:     width,
		Height:    height,
		Elevation: elevation,
		rooms:     make(map[Coordinates]*Room),
	}
}

// AddRoom places room in the area at its coordinates.
//
// Postcondition: room.Area == a.Vnum on success; an error if the
// coordinates are out of bounds or already taken.
func (a *Area) AddRoom(room *Room) error {
	if !a.InBoundaries(room.Coord) {
		return fmt.Errorf("area %d: room %d coordinates %s outside boundaries", a.Vnum, room.Vnum, room.Coord)
	}
	if other, taken := a.rooms[room.Coord]; taken {
		return fmt.Errorf("area %d: room %d and room %d share coordinates %s", a.Vnum, other.Vnum, room.Vnum, room.Coord)
	}
	room.Area = a.Vnum
	a.rooms[room.Coord] = room
	return nil
}

// RoomAt returns the room at c, or nil when the cell is empty or out of bounds.
func (a *Area) RoomAt(c Coordinates) *Room {
	if !a.InBoundaries(c) {
		return nil
	}
	return a.rooms[c]
}

// Rooms returns every room of the area in no particular order.
func (a *Area) Rooms() []*Room {
	out := make([]*Room, 0, len(a.rooms))
	for _, r := range a.rooms {
		out = append(out, r)
	}
	return out
}

// InBoundaries reports whether c lies inside the area. Bounds are inclusive.
func (a *Area) InBoundaries(c Coordinates) bool {
	if c.X < 0 || c.X > a.Width {
		return false
	}
	if c.Y < 0 || c.Y > a.Height {
		return false
	}
	return c.Z >= 0 && c.Z <= a.Elevation
}

// IsValid reports whether c holds a room that does not block sight: it is in
// bounds, a room exists there, and the room's door is not closed.
func (a *Area) IsValid(c Coordinates) bool {
	room := a.RoomAt(c)
	if room == nil {
		return false
	}
	return !room.DoorClosed()
}

// Distance returns the truncated Euclidean distance between two cells.
func Distance(source, target Coordinates) int {
	dx := float64(source.X - target.X)
	dy := float64(source.Y - target.Y)
	dz := float64(source.Z - target.Z)
	return int(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// DirectionBetween returns the dominant-axis direction from source toward
// target, or None when no axis strictly dominates.
func DirectionBetween(source, target Coordinates) Direction {
	dx := absInt(source.X - target.X)
	dy := absInt(source.Y - target.Y)
	dz := absInt(source.Z - target.Z)
	switch {
	case dx > dy && dx > dz:
		if source.X > target.X {
			return West
		}
		return East
	case dy > dx && dy > dz:
		if source.Y > target.Y {
			return South
		}
		return North
	case dz > dx && dz > dy:
		if source.Z > target.Z {
			return Down
		}
		return Up
	}
	return None
}

// LOS reports whether target is visible from source within radius.
//
// The ray starts at the centre of the source cell and advances by
// 1/losPrecision of a cell per sample. Each sampled cell must be valid until
// the target cell is reached; the target itself may hold a closed door.
// The ray travels on the source plane only.
func (a *Area) LOS(source, target Coordinates, radius int) bool {
	if source == target {
		return true
	}
	if a.RoomAt(target) == nil {
		return false
	}
	if Distance(source, target) > radius {
		return false
	}
	dx := float64(target.X - source.X)
	dy := float64(target.Y - source.Y)
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance == 0 {
		return false
	}
	unitX := dx / (distance * losPrecision)
	unitY := dy / (distance * losPrecision)
	steps := int(distance * losPrecision)
	for i := 0; i <= steps; i++ {
		x := float64(source.X) + 0.5 + unitX*float64(i)
		y := float64(source.Y) + 0.5 + unitY*float64(i)
		c := Coordinates{X: int(math.Floor(x)), Y: int(math.Floor(y)), Z: source.Z}
		if c == target {
			return true
		}
		if !a.IsValid(c) {
			return false
		}
	}
	return false
}

// FastInSight reports whether target is within radius of source and
// visible along a line of sight.
func (a *Area) FastInSight(source, target Coordinates, radius int) bool {
	if Distance(source, target) > radius {
		return false
	}
	return a.LOS(source, target, radius)
}

// FOV returns the cells visible from origin within radius, on the origin's
// plane. The origin is always included. Candidates are enumerated one octant
// at a time and mirrored eight ways; each mirrored cell is tested with LOS.
//
// Postcondition: the result has no duplicates and its order depends only on
// origin, radius, and the area layout.
func (a *Area) FOV(origin Coordinates, radius int) []Coordinates {
	seen := make(map[Coordinates]struct{})
	var out []Coordinates
	add := func(c Coordinates) {
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	r2 := radius * radius
	for px := 0; px <= radius; px++ {
		for py := 0; py <= px && px*px+py*py <= r2; py++ {
			if px == 0 && py == 0 {
				add(origin)
				continue
			}
			for _, off := range [8][2]int{
				{px, py}, {-px, py}, {px, -py}, {-px, -py},
				{py, px}, {-py, px}, {py, -px}, {-py, -px},
			} {
				target := Coordinates{X: origin.X + off[0], Y: origin.Y + off[1], Z: origin.Z}
				if a.LOS(origin, target, radius) {
					add(target)
				}
			}
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

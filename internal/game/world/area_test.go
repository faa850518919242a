package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// gridArea builds a fully populated single-level area; vnums follow 1000+y*100+x.
func gridArea(t testing.TB, width, height int) *Area {
	a := NewArea(1, "grid", width, height, 0)
	for x := 0; x <= width; x++ {
		for y := 0; y <= height; y++ {
			r := &Room{Vnum: Vnum(1000 + y*100 + x), Coord: Coordinates{X: x, Y: y}}
			require.NoError(t, a.AddRoom(r))
		}
	}
	return a
}

func TestAddRoom_RejectsOutOfBoundsAndOverlap(t *testing.T) {
	a := NewArea(1, "a", 2, 2, 0)
	require.NoError(t, a.AddRoom(&Room{Vnum: 1, Coord: Coordinates{X: 2, Y: 2}}))
	assert.Equal(t, Vnum(1), a.RoomAt(Coordinates{X: 2, Y: 2}).Area)

	assert.Error(t, a.AddRoom(&Room{Vnum: 2, Coord: Coordinates{X: 3}}))
	assert.Error(t, a.AddRoom(&Room{Vnum: 3, Coord: Coordinates{Z: 1}}))
	assert.Error(t, a.AddRoom(&Room{Vnum: 4, Coord: Coordinates{X: 2, Y: 2}}))
}

func TestIsValid(t *testing.T) {
	a := gridArea(t, 2, 2)
	assert.True(t, a.IsValid(Coordinates{X: 1, Y: 1}))
	assert.False(t, a.IsValid(Coordinates{X: -1, Y: 1}))

	a.RoomAt(Coordinates{X: 1, Y: 1}).Door = DoorClosed
	assert.False(t, a.IsValid(Coordinates{X: 1, Y: 1}))
	a.RoomAt(Coordinates{X: 1, Y: 1}).Door = DoorOpen
	assert.True(t, a.IsValid(Coordinates{X: 1, Y: 1}))
}

func TestDistance(t *testing.T) {
	o := Coordinates{}
	assert.Equal(t, 0, Distance(o, o))
	assert.Equal(t, 3, Distance(o, Coordinates{X: 3}))
	assert.Equal(t, 2, Distance(o, Coordinates{X: 2, Y: 2}))
	assert.Equal(t, 5, Distance(o, Coordinates{X: 3, Y: 4}))
}

func TestDirectionBetween(t *testing.T) {
	o := Coordinates{X: 5, Y: 5, Z: 1}
	assert.Equal(t, North, DirectionBetween(o, Coordinates{X: 5, Y: 8, Z: 1}))
	assert.Equal(t, South, DirectionBetween(o, Coordinates{X: 4, Y: 2, Z: 1}))
	assert.Equal(t, East, DirectionBetween(o, Coordinates{X: 9, Y: 6, Z: 1}))
	assert.Equal(t, West, DirectionBetween(o, Coordinates{X: 1, Y: 5, Z: 1}))
	assert.Equal(t, Up, DirectionBetween(o, Coordinates{X: 5, Y: 5, Z: 3}))
	assert.Equal(t, Down, DirectionBetween(o, Coordinates{X: 5, Y: 5, Z: 0}))
	assert.Equal(t, None, DirectionBetween(o, Coordinates{X: 6, Y: 6, Z: 1}))
}

func TestLOS_SameCellAlwaysTrue(t *testing.T) {
	a := NewArea(1, "empty", 3, 3, 0)
	assert.True(t, a.LOS(Coordinates{X: 1}, Coordinates{X: 1}, 0))
}

func TestLOS_MissingTargetOrBeyondRadius(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	assert.False(t, a.LOS(o, Coordinates{X: 5, Y: 11}, 10))
	assert.False(t, a.LOS(o, Coordinates{X: 9, Y: 5}, 3))
	assert.True(t, a.LOS(o, Coordinates{X: 8, Y: 5}, 3))
}

func TestLOS_ClosedDoorBlocksBeyondButIsVisible(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	a.RoomAt(Coordinates{X: 6, Y: 5}).Door = DoorClosed

	assert.True(t, a.LOS(o, Coordinates{X: 6, Y: 5}, 3))
	assert.False(t, a.LOS(o, Coordinates{X: 7, Y: 5}, 3))
	assert.False(t, a.LOS(o, Coordinates{X: 8, Y: 5}, 3))
	assert.True(t, a.LOS(o, Coordinates{X: 4, Y: 5}, 3))
}

func TestLOS_GapBlocks(t *testing.T) {
	a := NewArea(1, "corridor", 4, 0, 0)
	for _, x := range []int{0, 1, 3, 4} {
		require.NoError(t, a.AddRoom(&Room{Vnum: Vnum(x + 1), Coord: Coordinates{X: x}}))
	}
	assert.True(t, a.LOS(Coordinates{}, Coordinates{X: 1}, 5))
	assert.False(t, a.LOS(Coordinates{}, Coordinates{X: 3}, 5))
}

func TestFOV_OpenGrid(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	fov := a.FOV(o, 3)

	assert.Len(t, fov, 29)
	assert.Equal(t, o, fov[0])
	for _, c := range fov {
		dx, dy := c.X-o.X, c.Y-o.Y
		assert.LessOrEqual(t, dx*dx+dy*dy, 9)
		assert.Equal(t, 0, c.Z)
	}
}

func TestFOV_Deterministic(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	first := a.FOV(o, 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.FOV(o, 3))
	}
}

func TestFOV_ClosedDoorStrictlyReducesSet(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	open := a.FOV(o, 3)

	a.RoomAt(Coordinates{X: 6, Y: 5}).Door = DoorClosed
	closed := a.FOV(o, 3)

	assert.Less(t, len(closed), len(open))
	assert.Contains(t, closed, Coordinates{X: 6, Y: 5})
	assert.NotContains(t, closed, Coordinates{X: 7, Y: 5})
	assert.NotContains(t, closed, Coordinates{X: 8, Y: 5})
	for _, c := range closed {
		assert.Contains(t, open, c)
	}
}

func TestFOV_PropertyNoDuplicatesWithinRadius(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(0, 8).Draw(t, "width")
		h := rapid.IntRange(0, 8).Draw(t, "height")
		a := NewArea(1, "rand", w, h, 0)
		vnum := 1
		for x := 0; x <= w; x++ {
			for y := 0; y <= h; y++ {
				if rapid.Bool().Draw(t, "present") {
					room := &Room{Vnum: Vnum(vnum), Coord: Coordinates{X: x, Y: y}}
					if rapid.IntRange(0, 5).Draw(t, "door") == 0 {
						room.Door = DoorClosed
					}
					if err := a.AddRoom(room); err != nil {
						t.Fatalf("add room: %v", err)
					}
					vnum++
				}
			}
		}
		o := Coordinates{X: rapid.IntRange(0, w).Draw(t, "ox"), Y: rapid.IntRange(0, h).Draw(t, "oy")}
		r := rapid.IntRange(0, 5).Draw(t, "radius")

		fov := a.FOV(o, r)
		seen := map[Coordinates]bool{}
		for _, c := range fov {
			if seen[c] {
				t.Fatalf("duplicate cell %s", c)
			}
			seen[c] = true
			if Distance(o, c) > r {
				t.Fatalf("cell %s beyond radius %d", c, r)
			}
		}
		if !seen[o] {
			t.Fatalf("origin missing from fov")
		}
		again := a.FOV(o, r)
		if len(again) != len(fov) {
			t.Fatalf("fov not deterministic")
		}
		for i := range fov {
			if fov[i] != again[i] {
				t.Fatalf("fov not deterministic at %d", i)
			}
		}
	})
}

func TestFastInSight(t *testing.T) {
	a := gridArea(t, 10, 10)
	o := Coordinates{X: 5, Y: 5}
	assert.True(t, a.FastInSight(o, Coordinates{X: 7, Y: 7}, 3))
	assert.False(t, a.FastInSight(o, Coordinates{X: 9, Y: 9}, 3))
}

func TestDrawFOV(t *testing.T) {
	a := gridArea(t, 2, 2)
	o := Coordinates{X: 1, Y: 1}
	assert.Equal(t, "...\n.@.\n...\n", a.DrawFOV(o, 1, nil))

	a.RoomAt(Coordinates{X: 1, Y: 2}).Door = DoorClosed
	overlay := func(c Coordinates) (string, bool) {
		if c == (Coordinates{X: 2, Y: 1}) {
			return "M", true
		}
		return "", false
	}
	assert.Equal(t, ".D.\n.@M\n...\n", a.DrawFOV(o, 1, overlay))
}

func TestDrawFOV_UnknownCellsBlank(t *testing.T) {
	a := NewArea(1, "a", 2, 0, 0)
	require.NoError(t, a.AddRoom(&Room{Vnum: 1, Coord: Coordinates{X: 0}}))
	require.NoError(t, a.AddRoom(&Room{Vnum: 2, Coord: Coordinates{X: 1}}))
	assert.Equal(t, "   \n.@ \n   \n", a.DrawFOV(Coordinates{X: 1}, 1, nil))
}

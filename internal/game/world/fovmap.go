package world

import "strings"

// Overlay returns the glyph of whatever occupies c, if anything. It is used
// by DrawFOV to paint characters and items above the room tile.
type Overlay func(c Coordinates) (string, bool)

// DrawFOV renders the cells visible from origin as an ASCII map. Rows run
// from north to south and columns from west to east. Cells outside the field
// of view are blank and the origin is drawn as '@'.
//
// Precondition: radius must be >= 0.
// Postcondition: Returns 2*radius+1 newline-terminated rows of 2*radius+1 glyphs.
func (a *Area) DrawFOV(origin Coordinates, radius int, overlay Overlay) string {
	visible := make(map[Coordinates]struct{})
	for _, c := range a.FOV(origin, radius) {
		visible[c] = struct{}{}
	}
	var b strings.Builder
	for y := origin.Y + radius; y >= origin.Y-radius; y-- {
		for x := origin.X - radius; x <= origin.X+radius; x++ {
			c := Coordinates{X: x, Y: y, Z: origin.Z}
			b.WriteString(a.glyphAt(c, origin, visible, overlay))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (a *Area) glyphAt(c, origin Coordinates, visible map[Coordinates]struct{}, overlay Overlay) string {
	if c == origin {
		return "@"
	}
	if _, ok := visible[c]; !ok {
		return " "
	}
	room := a.RoomAt(c)
	if room == nil {
		return " "
	}
	if overlay != nil {
		if g, ok := overlay(c); ok && g != "" {
			return g
		}
	}
	return room.Tile()
}

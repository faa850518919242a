package engine

import (
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// CharactersInSight returns the characters standing in the field of view of
// origin within radius, nearest cells first, excluding origin itself.
func (w *World) CharactersInSight(origin *entity.Character, radius int) []*entity.Character {
	room, area, err := w.RoomOf(origin)
	if err != nil {
		return nil
	}
	var out []*entity.Character
	for _, coord := range area.FOV(room.Coord, radius) {
		cell := area.RoomAt(coord)
		if cell == nil {
			continue
		}
		for _, id := range w.arena.CharactersIn(cell.Vnum) {
			if id == origin.ID {
				continue
			}
			if c, ok := w.Character(id); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// ItemsInSight returns the items lying in the field of view of origin within
// radius.
func (w *World) ItemsInSight(origin *entity.Character, radius int) []*entity.Item {
	room, area, err := w.RoomOf(origin)
	if err != nil {
		return nil
	}
	var out []*entity.Item
	for _, coord := range area.FOV(room.Coord, radius) {
		cell := area.RoomAt(coord)
		if cell == nil {
			continue
		}
		for _, id := range w.arena.ItemsIn(cell.Vnum) {
			if item, ok := w.arena.Item(id); ok {
				out = append(out, item)
			}
		}
	}
	return out
}

// DrawMap renders the surroundings of c. Characters are drawn as 'C' for
// players and 'M' for mobiles, items by their model tile.
func (w *World) DrawMap(c *entity.Character) (string, error) {
	room, area, err := w.RoomOf(c)
	if err != nil {
		return "", err
	}
	overlay := func(coord world.Coordinates) (string, bool) {
		cell := area.RoomAt(coord)
		if cell == nil {
			return "", false
		}
		for _, id := range w.arena.CharactersIn(cell.Vnum) {
			if other, ok := w.Character(id); ok {
				if other.IsMobile() {
					return "M", true
				}
				return "C", true
			}
		}
		for _, id := range w.arena.ItemsIn(cell.Vnum) {
			if item, ok := w.arena.Item(id); ok {
				if tile := item.Tile(); tile != "" {
					return tile, true
				}
			}
		}
		return "", false
	}
	return area.DrawFOV(room.Coord, c.ViewDistance(), overlay), nil
}

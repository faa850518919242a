package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlAreaFile is the top-level YAML structure for area files.
type yamlAreaFile struct {
	Area yamlArea `yaml:"area"`
}

type yamlArea struct {
	Vnum            int        `yaml:"vnum"`
	Name            string     `yaml:"name"`
	Builder         string     `yaml:"builder"`
	Width           int        `yaml:"width"`
	Height          int        `yaml:"height"`
	Elevation       int        `yaml:"elevation"`
	StartRoom       int        `yaml:"start_room"`
	Script          string     `yaml:"script"`
	ConnectAdjacent bool       `yaml:"connect_adjacent"`
	Rooms           []yamlRoom `yaml:"rooms"`
	Spawns          yamlSpawns `yaml:"spawns"`
}

type yamlRoom struct {
	Vnum        int        `yaml:"vnum"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Terrain     string     `yaml:"terrain"`
	X           int        `yaml:"x"`
	Y           int        `yaml:"y"`
	Z           int        `yaml:"z"`
	Door        string     `yaml:"door"`
	Exits       []yamlExit `yaml:"exits"`
}

type yamlExit struct {
	Direction string   `yaml:"direction"`
	Target    int      `yaml:"target"`
	Flags     []string `yaml:"flags"`
}

type yamlSpawns struct {
	Mobiles []yamlMobile `yaml:"mobiles"`
	Items   []yamlItem   `yaml:"items"`
}

type yamlMobile struct {
	Name       string `yaml:"name"`
	Race       string `yaml:"race"`
	Room       int    `yaml:"room"`
	Abilities  []int  `yaml:"abilities"`
	Weapon     int    `yaml:"weapon"`
	Aggressive bool   `yaml:"aggressive"`
	Script     string `yaml:"script"`
}

type yamlItem struct {
	Model    int `yaml:"model"`
	Room     int `yaml:"room"`
	Quantity int `yaml:"quantity"`
}

// LoadAreaFromFile reads and validates a single area YAML file.
//
// Precondition: path must point to a valid YAML area file.
// Postcondition: Returns a validated Area or a non-nil error.
func LoadAreaFromFile(path string) (*Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading area file %s: %w", path, err)
	}
	return LoadAreaFromBytes(data)
}

// LoadAreaFromBytes parses and validates an area from YAML bytes.
//
// Postcondition: Returns a validated Area or a non-nil error.
func LoadAreaFromBytes(data []byte) (*Area, error) {
	var file yamlAreaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing area YAML: %w", err)
	}
	area, err := convertYAMLArea(file.Area)
	if err != nil {
		return nil, fmt.Errorf("validating area: %w", err)
	}
	return area, nil
}

// LoadAreasFromDir loads all YAML files in a directory as areas.
//
// Postcondition: Returns all validated areas or the first error encountered.
func LoadAreasFromDir(dir string) ([]*Area, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading area directory %s: %w", dir, err)
	}
	var areas []*Area
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		area, err := LoadAreaFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading area from %s: %w", name, err)
		}
		areas = append(areas, area)
	}
	if len(areas) == 0 {
		return nil, fmt.Errorf("no area files found in %s", dir)
	}
	return areas, nil
}

func convertYAMLArea(ya yamlArea) (*Area, error) {
	var errs []error
	if ya.Vnum <= 0 {
		errs = append(errs, errors.New("area vnum must be > 0"))
	}
	if ya.Name == "" {
		errs = append(errs, errors.New("area name must not be empty"))
	}
	if ya.Width < 0 || ya.Height < 0 || ya.Elevation < 0 {
		errs = append(errs, errors.New("area dimensions must be >= 0"))
	}
	if len(ya.Rooms) == 0 {
		errs = append(errs, errors.New("area must have at least one room"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	area := NewArea(Vnum(ya.Vnum), ya.Name, ya.Width, ya.Height, ya.Elevation)
	area.Builder = ya.Builder
	area.StartRoom = Vnum(ya.StartRoom)
	area.Script = ya.Script

	vnums := make(map[Vnum]bool, len(ya.Rooms))
	for _, yr := range ya.Rooms {
		room, err := convertYAMLRoom(yr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if vnums[room.Vnum] {
			errs = append(errs, fmt.Errorf("duplicate room vnum %d", room.Vnum))
			continue
		}
		vnums[room.Vnum] = true
		if err := area.AddRoom(room); err != nil {
			errs = append(errs, err)
		}
	}
	if area.StartRoom == 0 && len(ya.Rooms) > 0 {
		area.StartRoom = Vnum(ya.Rooms[0].Vnum)
	}
	if !vnums[area.StartRoom] {
		errs = append(errs, fmt.Errorf("start room %d not found in area", area.StartRoom))
	}

	for _, ym := range ya.Spawns.Mobiles {
		if !vnums[Vnum(ym.Room)] {
			errs = append(errs, fmt.Errorf("mobile %q spawns in unknown room %d", ym.Name, ym.Room))
			continue
		}
		spawn := MobileSpawn{
			Name:       ym.Name,
			Race:       ym.Race,
			Room:       Vnum(ym.Room),
			Weapon:     ym.Weapon,
			Aggressive: ym.Aggressive,
			Script:     ym.Script,
		}
		copy(spawn.Abilities[:], ym.Abilities)
		area.Mobiles = append(area.Mobiles, spawn)
	}
	for _, yi := range ya.Spawns.Items {
		if !vnums[Vnum(yi.Room)] {
			errs = append(errs, fmt.Errorf("item model %d spawns in unknown room %d", yi.Model, yi.Room))
			continue
		}
		qty := yi.Quantity
		if qty <= 0 {
			qty = 1
		}
		area.Items = append(area.Items, ItemSpawn{Model: yi.Model, Room: Vnum(yi.Room), Quantity: qty})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if ya.ConnectAdjacent {
		area.ConnectAdjacent()
	}
	return area, nil
}

func convertYAMLRoom(yr yamlRoom) (*Room, error) {
	if yr.Vnum <= 0 {
		return nil, fmt.Errorf("room vnum must be > 0, got %d", yr.Vnum)
	}
	room := &Room{
		Vnum:        Vnum(yr.Vnum),
		Coord:       Coordinates{X: yr.X, Y: yr.Y, Z: yr.Z},
		Name:        yr.Name,
		Description: strings.TrimSpace(yr.Description),
		Terrain:     yr.Terrain,
	}
	switch strings.ToLower(yr.Door) {
	case "":
	case "open":
		room.Door = DoorOpen
	case "closed":
		room.Door = DoorClosed
	case "locked":
		room.Door = DoorClosed
		room.DoorLocked = true
	default:
		return nil, fmt.Errorf("room %d: unknown door state %q", yr.Vnum, yr.Door)
	}
	for _, ye := range yr.Exits {
		dir, ok := ParseDirection(ye.Direction)
		if !ok {
			return nil, fmt.Errorf("room %d: unknown exit direction %q", yr.Vnum, ye.Direction)
		}
		if _, dup := room.FindExit(dir); dup {
			return nil, fmt.Errorf("room %d: duplicate exit %s", yr.Vnum, dir)
		}
		exit := Exit{Direction: dir, Destination: Vnum(ye.Target)}
		for _, f := range ye.Flags {
			flag, err := ParseExitFlag(f)
			if err != nil {
				return nil, fmt.Errorf("room %d: exit %s: %w", yr.Vnum, dir, err)
			}
			exit.Flags |= flag
		}
		room.Exits = append(room.Exits, exit)
	}
	return room, nil
}

// ConnectAdjacent adds an exit for every horizontal direction in which a
// room has a grid neighbour but no explicit exit.
func (a *Area) ConnectAdjacent() {
	for _, room := range a.rooms {
		for _, dir := range []Direction{North, South, West, East} {
			if _, ok := room.FindExit(dir); ok {
				continue
			}
			if n := a.RoomAt(room.Coord.Add(dir.Offset())); n != nil {
				room.Exits = append(room.Exits, Exit{Direction: dir, Destination: n.Vnum})
			}
		}
	}
}

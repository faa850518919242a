package entity

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Building is a schematic placing a building item in a room.
type Building struct {
	Name        string
	Model       int
	Tools       []string
	Ingredients map[string]int
	Time        int
}

// Production is a schematic creating Quantity items of Outcome.
type Production struct {
	Name        string
	Verb        string
	Outcome     int
	Quantity    int
	Tools       []string
	Ingredients map[string]int
	Time        int
}

// Catalogue holds every model, race and schematic definition.
type Catalogue struct {
	Models      map[int]*Model
	Races       map[string]*Race
	Buildings   map[string]*Building
	Productions map[string]*Production
}

type tomlCatalogue struct {
	Race       []tomlRace       `toml:"race"`
	Model      []tomlModel      `toml:"model"`
	Building   []tomlBuilding   `toml:"building"`
	Production []tomlProduction `toml:"production"`
}

type tomlRace struct {
	Name   string `toml:"name"`
	Corpse int    `toml:"corpse"`
	Weight int    `toml:"weight"`
}

type tomlModel struct {
	Vnum       int              `toml:"vnum"`
	Name       string           `toml:"name"`
	Keys       []string         `toml:"keys"`
	Kind       string           `toml:"kind"`
	Weight     int              `toml:"weight"`
	Slot       string           `toml:"slot"`
	Flags      []string         `toml:"flags"`
	Decay      int              `toml:"decay"`
	Condition  int              `toml:"condition"`
	Tile       string           `toml:"tile"`
	Weapon     *WeaponSpec      `toml:"weapon"`
	Ranged     *RangedSpec      `toml:"ranged"`
	Armor      *ArmorSpec       `toml:"armor"`
	Shield     *ShieldSpec      `toml:"shield"`
	Magazine   *MagazineSpec    `toml:"magazine"`
	Projectile *ProjectileSpec  `toml:"projectile"`
	Tool       *ToolSpec        `toml:"tool"`
	Resource   *ResourceSpec    `toml:"resource"`
	Container  *ContainerSpec   `toml:"container"`
	Food       *NourishmentSpec `toml:"food"`
	Drink      *NourishmentSpec `toml:"drink"`
}

type tomlBuilding struct {
	Name        string         `toml:"name"`
	Model       int            `toml:"model"`
	Tools       []string       `toml:"tools"`
	Ingredients map[string]int `toml:"ingredients"`
	Time        int            `toml:"time"`
}

type tomlProduction struct {
	Name        string         `toml:"name"`
	Verb        string         `toml:"verb"`
	Outcome     int            `toml:"outcome"`
	Quantity    int            `toml:"quantity"`
	Tools       []string       `toml:"tools"`
	Ingredients map[string]int `toml:"ingredients"`
	Time        int            `toml:"time"`
}

// LoadCatalogue reads and validates a TOML catalogue file.
//
// Postcondition: Returns a validated Catalogue or a non-nil error.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	cat, err := LoadCatalogueFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load catalogue %s: %w", path, err)
	}
	return cat, nil
}

// LoadCatalogueFromBytes parses and validates a TOML catalogue.
func LoadCatalogueFromBytes(data []byte) (*Catalogue, error) {
	var raw tomlCatalogue
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	cat := &Catalogue{
		Models:      make(map[int]*Model, len(raw.Model)),
		Races:       make(map[string]*Race, len(raw.Race)),
		Buildings:   make(map[string]*Building, len(raw.Building)),
		Productions: make(map[string]*Production, len(raw.Production)),
	}
	var errs []error
	for _, tm := range raw.Model {
		m, err := convertModel(tm)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := cat.Models[m.Vnum]; dup {
			errs = append(errs, fmt.Errorf("duplicate model vnum %d", m.Vnum))
			continue
		}
		cat.Models[m.Vnum] = m
	}
	for _, tr := range raw.Race {
		corpse, ok := cat.Models[tr.Corpse]
		if !ok || corpse.Kind != KindCorpse {
			errs = append(errs, fmt.Errorf("race %q: corpse model %d is not a corpse", tr.Name, tr.Corpse))
			continue
		}
		cat.Races[strings.ToLower(tr.Name)] = &Race{Name: tr.Name, CorpseModel: tr.Corpse, Weight: tr.Weight}
	}
	for _, tb := range raw.Building {
		if _, ok := cat.Models[tb.Model]; !ok {
			errs = append(errs, fmt.Errorf("building %q: unknown model %d", tb.Name, tb.Model))
			continue
		}
		cat.Buildings[strings.ToLower(tb.Name)] = &Building{
			Name: tb.Name, Model: tb.Model, Tools: tb.Tools, Ingredients: tb.Ingredients, Time: max(1, tb.Time),
		}
	}
	for _, tp := range raw.Production {
		if _, ok := cat.Models[tp.Outcome]; !ok {
			errs = append(errs, fmt.Errorf("production %q: unknown outcome model %d", tp.Name, tp.Outcome))
			continue
		}
		verb := tp.Verb
		if verb == "" {
			verb = "crafting"
		}
		cat.Productions[strings.ToLower(tp.Name)] = &Production{
			Name: tp.Name, Verb: verb, Outcome: tp.Outcome, Quantity: max(1, tp.Quantity),
			Tools: tp.Tools, Ingredients: tp.Ingredients, Time: max(1, tp.Time),
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cat, nil
}

func convertModel(tm tomlModel) (*Model, error) {
	kind, err := ParseModelKind(tm.Kind)
	if err != nil {
		return nil, fmt.Errorf("model %d: %w", tm.Vnum, err)
	}
	slot, err := ParseSlot(tm.Slot)
	if err != nil {
		return nil, fmt.Errorf("model %d: %w", tm.Vnum, err)
	}
	m := &Model{
		Vnum:       tm.Vnum,
		Name:       tm.Name,
		Keys:       tm.Keys,
		Kind:       kind,
		Weight:     tm.Weight,
		Slot:       slot,
		Decay:      tm.Decay,
		Condition:  tm.Condition,
		Tile:       tm.Tile,
		weapon:     tm.Weapon,
		ranged:     tm.Ranged,
		armor:      tm.Armor,
		shield:     tm.Shield,
		magazine:   tm.Magazine,
		projectile: tm.Projectile,
		tool:       tm.Tool,
		resource:   tm.Resource,
		container:  tm.Container,
	}
	switch kind {
	case KindFood:
		m.nourish = tm.Food
	case KindDrink:
		m.nourish = tm.Drink
	}
	if m.Condition <= 0 {
		m.Condition = 100
	}
	for _, f := range tm.Flags {
		switch strings.ToLower(f) {
		case "two_hand", "twohand":
			m.Flags |= FlagTwoHand
		case "wieldable":
			m.Flags |= FlagWieldable
		case "wearable":
			m.Flags |= FlagWearable
		case "stackable":
			m.Flags |= FlagStackable
		case "placed":
			m.Flags |= FlagPlaced
		default:
			return nil, fmt.Errorf("model %d: unknown flag %q", tm.Vnum, f)
		}
	}
	if !m.hasPayload() {
		return nil, fmt.Errorf("model %d: kind %s requires a [model.%s] table", tm.Vnum, kind, kind)
	}
	return m, nil
}

func (m *Model) hasPayload() bool {
	switch m.Kind {
	case KindWeapon:
		return m.weapon != nil
	case KindRanged:
		return m.ranged != nil
	case KindArmor:
		return m.armor != nil
	case KindShield:
		return m.shield != nil
	case KindMagazine:
		return m.magazine != nil
	case KindProjectile:
		return m.projectile != nil
	case KindTool:
		return m.tool != nil
	case KindResource:
		return m.resource != nil
	case KindContainer:
		return m.container != nil
	case KindFood, KindDrink:
		return m.nourish != nil
	}
	return true
}

// Model returns the model with the given vnum.
func (c *Catalogue) Model(vnum int) (*Model, bool) {
	m, ok := c.Models[vnum]
	return m, ok
}

// Race returns the race with the given name, ignoring case.
func (c *Catalogue) Race(name string) (*Race, bool) {
	r, ok := c.Races[strings.ToLower(name)]
	return r, ok
}

// Building returns the building schematic with the given name.
func (c *Catalogue) Building(name string) (*Building, bool) {
	b, ok := c.Buildings[strings.ToLower(name)]
	return b, ok
}

// Production returns the production schematic with the given name.
func (c *Catalogue) Production(name string) (*Production, bool) {
	p, ok := c.Productions[strings.ToLower(name)]
	return p, ok
}

// SortedIngredients returns the resource types of an ingredient map in
// lexical order, so ingredient checks report shortfalls deterministically.
func SortedIngredients(ingredients map[string]int) []string {
	out := make([]string, 0, len(ingredients))
	for k := range ingredients {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

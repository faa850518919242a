package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWrongModel is returned by the typed model accessors when the model is
// of another kind.
var ErrWrongModel = errors.New("wrong model kind")

// ModelKind tags the variant of a Model.
type ModelKind uint8

const (
	KindGeneric ModelKind = iota
	KindWeapon
	KindRanged
	KindArmor
	KindShield
	KindMagazine
	KindProjectile
	KindTool
	KindResource
	KindCorpse
	KindContainer
	KindFood
	KindDrink
)

var modelKindNames = map[ModelKind]string{
	KindGeneric:    "generic",
	KindWeapon:     "weapon",
	KindRanged:     "ranged",
	KindArmor:      "armor",
	KindShield:     "shield",
	KindMagazine:   "magazine",
	KindProjectile: "projectile",
	KindTool:       "tool",
	KindResource:   "resource",
	KindCorpse:     "corpse",
	KindContainer:  "container",
	KindFood:       "food",
	KindDrink:      "drink",
}

func (k ModelKind) String() string {
	if s, ok := modelKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseModelKind maps a catalogue keyword to its kind.
func ParseModelKind(s string) (ModelKind, error) {
	for k, name := range modelKindNames {
		if name == strings.ToLower(s) {
			return k, nil
		}
	}
	return KindGeneric, fmt.Errorf("unknown model kind %q", s)
}

// ModelFlag is a bit set of model properties.
type ModelFlag uint8

const (
	FlagTwoHand ModelFlag = 1 << iota
	FlagWieldable
	FlagWearable
	FlagStackable
	// FlagPlaced marks a mounted weapon that costs no stamina to use.
	FlagPlaced
)

// Has reports whether every bit of o is set in f.
func (f ModelFlag) Has(o ModelFlag) bool {
	return f&o == o
}

// Slot is an equipment position.
type Slot uint8

const (
	SlotNone Slot = iota
	SlotHead
	SlotTorso
	SlotBack
	SlotLegs
	SlotFeet
	SlotRightHand
	SlotLeftHand
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotHead, SlotTorso, SlotBack, SlotLegs, SlotFeet, SlotRightHand, SlotLeftHand}

var slotNames = map[Slot]string{
	SlotHead:      "head",
	SlotTorso:     "torso",
	SlotBack:      "back",
	SlotLegs:      "legs",
	SlotFeet:      "feet",
	SlotRightHand: "right hand",
	SlotLeftHand:  "left hand",
}

func (s Slot) String() string {
	if n, ok := slotNames[s]; ok {
		return n
	}
	return "none"
}

// ParseSlot maps a catalogue keyword to its slot. The empty string is SlotNone.
func ParseSlot(s string) (Slot, error) {
	key := strings.ReplaceAll(strings.ToLower(s), "_", " ")
	if key == "" || key == "none" {
		return SlotNone, nil
	}
	for slot, name := range slotNames {
		if name == key {
			return slot, nil
		}
	}
	return SlotNone, fmt.Errorf("unknown slot %q", s)
}

// WeaponSpec describes a melee weapon.
type WeaponSpec struct {
	MinDamage int `toml:"min_damage"`
	MaxDamage int `toml:"max_damage"`
}

// RangedSpec describes a ranged weapon and the magazine kind it accepts.
type RangedSpec struct {
	MinDamage int    `toml:"min_damage"`
	MaxDamage int    `toml:"max_damage"`
	Range     int    `toml:"range"`
	Magazine  string `toml:"magazine"`
}

// ArmorSpec describes worn protection.
type ArmorSpec struct {
	DamageAbsorption int `toml:"damage_absorption"`
}

// ShieldSpec describes a held shield.
type ShieldSpec struct {
	Parry int `toml:"parry"`
}

// MagazineSpec describes a container of projectiles.
type MagazineSpec struct {
	Kind       string `toml:"kind"`
	Projectile string `toml:"projectile"`
	Capacity   int    `toml:"capacity"`
}

// ProjectileSpec describes ammunition.
type ProjectileSpec struct {
	Kind        string `toml:"kind"`
	DamageBonus int    `toml:"damage_bonus"`
}

// ToolSpec names the tool type used by schematics.
type ToolSpec struct {
	Type string `toml:"type"`
}

// ResourceSpec names the resource type consumed by schematics.
type ResourceSpec struct {
	Type string `toml:"type"`
}

// ContainerSpec bounds the weight a container holds.
type ContainerSpec struct {
	MaxWeight int `toml:"max_weight"`
}

// NourishmentSpec is how much hunger or thirst one unit of food or drink
// restores.
type NourishmentSpec struct {
	Amount int `toml:"amount"`
}

// Model is an item template. Exactly one payload matching Kind is set,
// except for Generic and Corpse which carry none.
type Model struct {
	Vnum      int
	Name      string
	Keys      []string
	Kind      ModelKind
	Weight    int
	Slot      Slot
	Flags     ModelFlag
	Decay     int
	Condition int
	Tile      string

	weapon     *WeaponSpec
	ranged     *RangedSpec
	armor      *ArmorSpec
	shield     *ShieldSpec
	magazine   *MagazineSpec
	projectile *ProjectileSpec
	tool       *ToolSpec
	resource   *ResourceSpec
	container  *ContainerSpec
	nourish    *NourishmentSpec
}

// NewWeaponModel builds a melee weapon model.
func NewWeaponModel(vnum int, name string, weight int, spec WeaponSpec, flags ModelFlag) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindWeapon, Weight: weight, Flags: flags | FlagWieldable, Condition: 100, weapon: &spec}
}

// NewRangedModel builds a ranged weapon model.
func NewRangedModel(vnum int, name string, weight int, spec RangedSpec, flags ModelFlag) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindRanged, Weight: weight, Flags: flags | FlagWieldable, Condition: 100, ranged: &spec}
}

// NewArmorModel builds an armor model worn in slot.
func NewArmorModel(vnum int, name string, weight int, slot Slot, spec ArmorSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindArmor, Weight: weight, Slot: slot, Flags: FlagWearable, Condition: 100, armor: &spec}
}

// NewShieldModel builds a shield model.
func NewShieldModel(vnum int, name string, weight int, spec ShieldSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindShield, Weight: weight, Flags: FlagWieldable, Condition: 100, shield: &spec}
}

// NewMagazineModel builds a magazine model.
func NewMagazineModel(vnum int, name string, weight int, spec MagazineSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindMagazine, Weight: weight, Condition: 100, magazine: &spec}
}

// NewProjectileModel builds a stackable projectile model.
func NewProjectileModel(vnum int, name string, weight int, spec ProjectileSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindProjectile, Weight: weight, Flags: FlagStackable, Condition: 100, projectile: &spec}
}

// NewToolModel builds a tool model.
func NewToolModel(vnum int, name string, weight int, spec ToolSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindTool, Weight: weight, Flags: FlagWieldable, Condition: 100, tool: &spec}
}

// NewResourceModel builds a stackable resource model.
func NewResourceModel(vnum int, name string, weight int, spec ResourceSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindResource, Weight: weight, Flags: FlagStackable, Condition: 100, resource: &spec}
}

// NewContainerModel builds a container model.
func NewContainerModel(vnum int, name string, weight int, spec ContainerSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindContainer, Weight: weight, Condition: 100, container: &spec}
}

// NewFoodModel builds a stackable food model.
func NewFoodModel(vnum int, name string, weight int, spec NourishmentSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindFood, Weight: weight, Flags: FlagStackable, Condition: 100, nourish: &spec}
}

// NewDrinkModel builds a stackable drink model.
func NewDrinkModel(vnum int, name string, weight int, spec NourishmentSpec) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindDrink, Weight: weight, Flags: FlagStackable, Condition: 100, nourish: &spec}
}

// NewCorpseModel builds a decaying corpse model.
func NewCorpseModel(vnum int, name string, decay int) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindCorpse, Decay: decay, Condition: 100}
}

// NewGenericModel builds a model without payload.
func NewGenericModel(vnum int, name string, weight int) *Model {
	return &Model{Vnum: vnum, Name: name, Kind: KindGeneric, Weight: weight, Condition: 100}
}

func wrongModel(m *Model, want ModelKind) error {
	return fmt.Errorf("model %d is %s, not %s: %w", m.Vnum, m.Kind, want, ErrWrongModel)
}

// Weapon returns the melee weapon payload.
func (m *Model) Weapon() (WeaponSpec, error) {
	if m.weapon == nil {
		return WeaponSpec{}, wrongModel(m, KindWeapon)
	}
	return *m.weapon, nil
}

// Ranged returns the ranged weapon payload.
func (m *Model) Ranged() (RangedSpec, error) {
	if m.ranged == nil {
		return RangedSpec{}, wrongModel(m, KindRanged)
	}
	return *m.ranged, nil
}

// Armor returns the armor payload.
func (m *Model) Armor() (ArmorSpec, error) {
	if m.armor == nil {
		return ArmorSpec{}, wrongModel(m, KindArmor)
	}
	return *m.armor, nil
}

// Shield returns the shield payload.
func (m *Model) Shield() (ShieldSpec, error) {
	if m.shield == nil {
		return ShieldSpec{}, wrongModel(m, KindShield)
	}
	return *m.shield, nil
}

// Magazine returns the magazine payload.
func (m *Model) Magazine() (MagazineSpec, error) {
	if m.magazine == nil {
		return MagazineSpec{}, wrongModel(m, KindMagazine)
	}
	return *m.magazine, nil
}

// Projectile returns the projectile payload.
func (m *Model) Projectile() (ProjectileSpec, error) {
	if m.projectile == nil {
		return ProjectileSpec{}, wrongModel(m, KindProjectile)
	}
	return *m.projectile, nil
}

// Tool returns the tool payload.
func (m *Model) Tool() (ToolSpec, error) {
	if m.tool == nil {
		return ToolSpec{}, wrongModel(m, KindTool)
	}
	return *m.tool, nil
}

// Resource returns the resource payload.
func (m *Model) Resource() (ResourceSpec, error) {
	if m.resource == nil {
		return ResourceSpec{}, wrongModel(m, KindResource)
	}
	return *m.resource, nil
}

// Container returns the container payload.
func (m *Model) Container() (ContainerSpec, error) {
	if m.container == nil {
		return ContainerSpec{}, wrongModel(m, KindContainer)
	}
	return *m.container, nil
}

// Nourishment returns the food or drink payload.
func (m *Model) Nourishment() (NourishmentSpec, error) {
	if m.nourish == nil {
		return NourishmentSpec{}, wrongModel(m, KindFood)
	}
	return *m.nourish, nil
}

// IsWeapon reports whether the model can be attacked with.
func (m *Model) IsWeapon() bool {
	return m.Kind == KindWeapon || m.Kind == KindRanged
}

// Matches reports whether word prefixes one of the model's keywords or the
// words of its name, ignoring case.
func (m *Model) Matches(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	candidates := append([]string{}, m.Keys...)
	candidates = append(candidates, strings.Fields(m.Name)...)
	for _, c := range candidates {
		if isArticle(c) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(c), word) {
			return true
		}
	}
	return false
}

func isArticle(w string) bool {
	switch strings.ToLower(w) {
	case "a", "an", "the", "of", "some":
		return true
	}
	return false
}

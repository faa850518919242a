package entity

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/HexColors60/RadMud/internal/game/world"
)

// ErrNotFound is returned when an ID does not resolve in the arena.
var ErrNotFound = errors.New("not found")

// LocationKind tells where an item currently is.
type LocationKind uint8

const (
	Nowhere LocationKind = iota
	InRoom
	InInventory
	InEquipment
	InContainer
)

// Location is the position of an item.
type Location struct {
	Kind      LocationKind
	Room      world.Vnum
	Owner     ID
	Container ID
	Slot      Slot
}

// Arena owns every character and item by ID together with the side tables
// relating them. It is not safe for concurrent use; the game loop owns it.
type Arena struct {
	nextID     ID
	characters map[ID]*Character
	items      map[ID]*Item

	inventory map[ID][]ID
	equipment map[ID]map[Slot]ID
	roomChars map[world.Vnum][]ID
	roomItems map[world.Vnum][]ID
	contents  map[ID][]ID
	locations map[ID]Location
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		characters: make(map[ID]*Character),
		items:      make(map[ID]*Item),
		inventory:  make(map[ID][]ID),
		equipment:  make(map[ID]map[Slot]ID),
		roomChars:  make(map[world.Vnum][]ID),
		roomItems:  make(map[world.Vnum][]ID),
		contents:   make(map[ID][]ID),
		locations:  make(map[ID]Location),
	}
}

func (a *Arena) allocate() ID {
	a.nextID++
	return a.nextID
}

// Reserve makes sure future allocations are above id, so persisted IDs can
// be restored verbatim.
func (a *Arena) Reserve(id ID) {
	if id > a.nextID {
		a.nextID = id
	}
}

// AddCharacter registers c, assigning an ID when c.ID is zero. The character
// is placed in c.Room when it is non-zero.
//
// Postcondition: Returns the character ID.
func (a *Arena) AddCharacter(c *Character) ID {
	if c.ID == 0 {
		c.ID = a.allocate()
	} else {
		a.Reserve(c.ID)
	}
	a.characters[c.ID] = c
	if c.Room != 0 {
		a.roomChars[c.Room] = append(a.roomChars[c.Room], c.ID)
	}
	return c.ID
}

// Character returns the character with the given ID.
func (a *Arena) Character(id ID) (*Character, bool) {
	c, ok := a.characters[id]
	return c, ok
}

// Characters returns every character ordered by ID.
func (a *Arena) Characters() []*Character {
	out := make([]*Character, 0, len(a.characters))
	for _, c := range a.characters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemoveCharacter detaches the character and destroys anything it still holds.
func (a *Arena) RemoveCharacter(id ID) {
	if _, ok := a.characters[id]; !ok {
		return
	}
	a.DetachCharacter(id)
	for _, itemID := range a.Inventory(id) {
		a.DestroyItem(itemID)
	}
	for _, itemID := range a.Equipment(id) {
		a.DestroyItem(itemID)
	}
	delete(a.inventory, id)
	delete(a.equipment, id)
	delete(a.characters, id)
}

// PlaceCharacter moves the character into room, leaving its previous room.
func (a *Arena) PlaceCharacter(id ID, room world.Vnum) error {
	c, ok := a.characters[id]
	if !ok {
		return fmt.Errorf("character %d: %w", id, ErrNotFound)
	}
	a.DetachCharacter(id)
	c.Room = room
	a.roomChars[room] = append(a.roomChars[room], id)
	return nil
}

// DetachCharacter removes the character from its room.
func (a *Arena) DetachCharacter(id ID) {
	c, ok := a.characters[id]
	if !ok || c.Room == 0 {
		return
	}
	a.roomChars[c.Room] = removeID(a.roomChars[c.Room], id)
	c.Room = 0
}

// CharactersIn returns the characters in room in arrival order.
func (a *Arena) CharactersIn(room world.Vnum) []ID {
	return slices.Clone(a.roomChars[room])
}

// NewItem creates an item of model with the given quantity.
//
// Precondition: model must not be nil.
// Postcondition: the item is registered but located nowhere.
func (a *Arena) NewItem(model *Model, quantity int) *Item {
	item := &Item{
		ID:        a.allocate(),
		Model:     model,
		Quantity:  max(1, quantity),
		Condition: model.Condition,
	}
	a.items[item.ID] = item
	return item
}

// RestoreItem registers an item loaded from storage, keeping its ID.
func (a *Arena) RestoreItem(item *Item) {
	a.Reserve(item.ID)
	a.items[item.ID] = item
}

// Item returns the item with the given ID.
func (a *Arena) Item(id ID) (*Item, bool) {
	it, ok := a.items[id]
	return it, ok
}

// Items returns every item ordered by ID.
func (a *Arena) Items() []*Item {
	out := make([]*Item, 0, len(a.items))
	for _, it := range a.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Location returns where the item currently is.
func (a *Arena) Location(id ID) Location {
	return a.locations[id]
}

// Detach removes the item from wherever it is.
func (a *Arena) Detach(id ID) {
	loc, ok := a.locations[id]
	if !ok {
		return
	}
	switch loc.Kind {
	case InRoom:
		a.roomItems[loc.Room] = removeID(a.roomItems[loc.Room], id)
	case InInventory:
		a.inventory[loc.Owner] = removeID(a.inventory[loc.Owner], id)
	case InEquipment:
		delete(a.equipment[loc.Owner], loc.Slot)
		if it, ok := a.items[id]; ok {
			it.Slot = SlotNone
		}
	case InContainer:
		a.contents[loc.Container] = removeID(a.contents[loc.Container], id)
	}
	delete(a.locations, id)
}

func (a *Arena) requireItem(id ID) (*Item, error) {
	it, ok := a.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return it, nil
}

// PlaceItem moves the item into room.
func (a *Arena) PlaceItem(id ID, room world.Vnum) error {
	if _, err := a.requireItem(id); err != nil {
		return err
	}
	a.Detach(id)
	a.roomItems[room] = append(a.roomItems[room], id)
	a.locations[id] = Location{Kind: InRoom, Room: room}
	return nil
}

// ItemsIn returns the items lying in room.
func (a *Arena) ItemsIn(room world.Vnum) []ID {
	return slices.Clone(a.roomItems[room])
}

// GiveItem moves the item into the character's inventory.
func (a *Arena) GiveItem(owner, id ID) error {
	if _, ok := a.characters[owner]; !ok {
		return fmt.Errorf("character %d: %w", owner, ErrNotFound)
	}
	if _, err := a.requireItem(id); err != nil {
		return err
	}
	a.Detach(id)
	a.inventory[owner] = append(a.inventory[owner], id)
	a.locations[id] = Location{Kind: InInventory, Owner: owner}
	return nil
}

// Inventory returns the items carried by the character.
func (a *Arena) Inventory(owner ID) []ID {
	return slices.Clone(a.inventory[owner])
}

// Equip puts the item in the given slot of the character.
//
// Postcondition: Returns an error when the slot is already taken.
func (a *Arena) Equip(owner ID, slot Slot, id ID) error {
	if _, ok := a.characters[owner]; !ok {
		return fmt.Errorf("character %d: %w", owner, ErrNotFound)
	}
	it, err := a.requireItem(id)
	if err != nil {
		return err
	}
	if other, taken := a.equipment[owner][slot]; taken && other != id {
		return fmt.Errorf("slot %s of character %d is occupied", slot, owner)
	}
	a.Detach(id)
	if a.equipment[owner] == nil {
		a.equipment[owner] = make(map[Slot]ID)
	}
	a.equipment[owner][slot] = id
	it.Slot = slot
	a.locations[id] = Location{Kind: InEquipment, Owner: owner, Slot: slot}
	return nil
}

// Equipped returns the item the character holds in slot.
func (a *Arena) Equipped(owner ID, slot Slot) (*Item, bool) {
	id, ok := a.equipment[owner][slot]
	if !ok {
		return nil, false
	}
	return a.Item(id)
}

// Equipment returns the equipped items in slot order.
func (a *Arena) Equipment(owner ID) []ID {
	var out []ID
	for _, slot := range Slots {
		if id, ok := a.equipment[owner][slot]; ok {
			out = append(out, id)
		}
	}
	return out
}

// PutInside moves the item into a container, magazine or weapon.
func (a *Arena) PutInside(container, id ID) error {
	if container == id {
		return fmt.Errorf("item %d cannot contain itself", id)
	}
	if _, err := a.requireItem(container); err != nil {
		return err
	}
	if _, err := a.requireItem(id); err != nil {
		return err
	}
	a.Detach(id)
	a.contents[container] = append(a.contents[container], id)
	a.locations[id] = Location{Kind: InContainer, Container: container}
	return nil
}

// Contents returns the items inside container.
func (a *Arena) Contents(container ID) []ID {
	return slices.Clone(a.contents[container])
}

// DestroyItem removes the item and, recursively, its contents.
func (a *Arena) DestroyItem(id ID) {
	for _, inner := range a.contents[id] {
		delete(a.locations, inner)
		a.DestroyItem(inner)
	}
	delete(a.contents, id)
	a.Detach(id)
	delete(a.items, id)
}

// Split takes quantity units off a stack.
//
// Postcondition: when quantity covers the whole stack the original item is
// returned detached; otherwise a new located-nowhere item is returned and
// the original keeps the remainder.
func (a *Arena) Split(id ID, quantity int) (*Item, error) {
	it, err := a.requireItem(id)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("split item %d: quantity must be > 0", id)
	}
	if quantity >= it.Quantity {
		a.Detach(id)
		return it, nil
	}
	it.Quantity -= quantity
	part := a.NewItem(it.Model, quantity)
	part.Condition = it.Condition
	part.Maker = it.Maker
	return part, nil
}

// ItemWeight returns the weight of the item including its contents.
func (a *Arena) ItemWeight(id ID) int {
	it, ok := a.items[id]
	if !ok {
		return 0
	}
	total := it.Weight()
	for _, inner := range a.contents[id] {
		total += a.ItemWeight(inner)
	}
	return total
}

// CarryingWeight returns the weight of everything the character carries or wears.
func (a *Arena) CarryingWeight(owner ID) int {
	total := 0
	for _, id := range a.inventory[owner] {
		total += a.ItemWeight(id)
	}
	for _, id := range a.equipment[owner] {
		total += a.ItemWeight(id)
	}
	return total
}

// FindInInventory returns the first carried item matching word.
func (a *Arena) FindInInventory(owner ID, word string) (*Item, bool) {
	return a.findItem(a.inventory[owner], word)
}

// FindInEquipment returns the first equipped item matching word.
func (a *Arena) FindInEquipment(owner ID, word string) (*Item, bool) {
	return a.findItem(a.Equipment(owner), word)
}

// FindInRoom returns the first item in room matching word.
func (a *Arena) FindInRoom(room world.Vnum, word string) (*Item, bool) {
	return a.findItem(a.roomItems[room], word)
}

func (a *Arena) findItem(ids []ID, word string) (*Item, bool) {
	for _, id := range ids {
		if it, ok := a.items[id]; ok && it.Matches(word) {
			return it, true
		}
	}
	return nil, false
}

// FindCharacterIn returns the first character in room whose name matches
// word, skipping except.
func (a *Arena) FindCharacterIn(room world.Vnum, word string, except ID) (*Character, bool) {
	for _, id := range a.roomChars[room] {
		if id == except {
			continue
		}
		if c, ok := a.characters[id]; ok && NameMatches(c.Name, word) {
			return c, true
		}
	}
	return nil, false
}

func removeID(ids []ID, id ID) []ID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

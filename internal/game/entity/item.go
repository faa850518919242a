package entity

import "fmt"

// Item is an instance of a Model.
type Item struct {
	ID        ID
	Model     *Model
	Quantity  int
	Condition int
	Maker     string
	// Slot is the equipment slot occupied, SlotNone when not equipped.
	Slot Slot
	// CustomName and CustomWeight override the model when set.
	CustomName   string
	CustomWeight int
}

// Name returns the display name, with the quantity for stacks.
func (i *Item) Name() string {
	name := i.Model.Name
	if i.CustomName != "" {
		name = i.CustomName
	}
	if i.Quantity > 1 {
		return fmt.Sprintf("%s (%d)", name, i.Quantity)
	}
	return name
}

// Weight returns the weight of the item itself, excluding contents.
func (i *Item) Weight() int {
	if i.CustomWeight > 0 {
		return i.CustomWeight
	}
	return i.Model.Weight * max(1, i.Quantity)
}

// Degrade lowers the condition by amount.
//
// Postcondition: Returns true when the condition reached zero.
func (i *Item) Degrade(amount int) bool {
	i.Condition -= amount
	return i.Condition <= 0
}

// Decay applies one hour of the model's decay rate.
//
// Postcondition: Returns true when the item rotted away.
func (i *Item) Decay() bool {
	if i.Model.Decay <= 0 {
		return false
	}
	return i.Degrade(i.Model.Decay)
}

// Matches reports whether word identifies the item.
func (i *Item) Matches(word string) bool {
	return i.Model.Matches(word)
}

// Tile returns the map glyph of the item.
func (i *Item) Tile() string {
	if i.Model.Tile != "" {
		return i.Model.Tile
	}
	return "i"
}

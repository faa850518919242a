package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// Put moves the carried item matching word into the container matching
// into, carried or lying in the room.
//
// Postcondition: Returns the message for c, or a *CheckError. The contents
// of the container never weigh more than its model allows.
func (w *World) Put(c *entity.Character, word, into string) (string, error) {
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return "", refuse("You don't have %s.", word)
	}
	container, ok := w.arena.FindInInventory(c.ID, into)
	if !ok && c.Room != 0 {
		container, ok = w.arena.FindInRoom(c.Room, into)
	}
	if !ok {
		return "", refuse("You don't see %s here.", into)
	}
	if container.ID == item.ID {
		return "", refuse("You can't put %s inside itself.", item.Name())
	}
	spec, err := container.Model.Container()
	if err != nil {
		return "", refuse("%s is not a container.", entity.Capitalize(container.Name()))
	}
	load := w.arena.ItemWeight(container.ID) - container.Weight()
	if load+w.arena.ItemWeight(item.ID) > spec.MaxWeight {
		return "", refuse("%s can't hold %s.", entity.Capitalize(container.Name()), item.Name())
	}
	if err := w.arena.PutInside(container.ID, item.ID); err != nil {
		return "", fmt.Errorf("put item %d in %d: %w", item.ID, container.ID, err)
	}
	w.persistItems("put item", item.ID)
	w.Broadcast(c.Room, fmt.Sprintf("%s puts %s in %s.", entity.Capitalize(c.Name), item.Name(), container.Name()), c.ID)
	return fmt.Sprintf("You put %s in %s.", item.Name(), container.Name()), nil
}

// Give hands the carried item matching word to the character matching to in
// the same room.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Give(c *entity.Character, word, to string) (string, error) {
	if c.Room == 0 {
		return "", refuse("You are nowhere.")
	}
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return "", refuse("You don't have %s.", word)
	}
	target, ok := w.arena.FindCharacterIn(c.Room, to, c.ID)
	if !ok {
		return "", refuse("You don't see %s here.", to)
	}
	if w.arena.CarryingWeight(target.ID)+w.arena.ItemWeight(item.ID) > target.MaxCarry() {
		return "", refuse("%s can't carry %s.", entity.Capitalize(target.Name), item.Name())
	}
	if err := w.arena.GiveItem(target.ID, item.ID); err != nil {
		return "", fmt.Errorf("give item %d to %d: %w", item.ID, target.ID, err)
	}
	w.persistItems("give item", item.ID)
	w.Sendf(target.ID, "%s gives you %s.", entity.Capitalize(c.Name), item.Name())
	w.Broadcast(c.Room, fmt.Sprintf("%s gives %s to %s.", entity.Capitalize(c.Name), item.Name(), target.Name), c.ID, target.ID)
	return fmt.Sprintf("You give %s to %s.", item.Name(), target.Name), nil
}

// Eat consumes one unit of the carried food matching word.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Eat(c *entity.Character, word string) (string, error) {
	item, spec, err := w.nourishment(c, word, entity.KindFood, "eat")
	if err != nil {
		return "", err
	}
	if c.Hunger >= 100 {
		return "", refuse("You are not hungry.")
	}
	name := w.consumeOne(item)
	c.Feed(spec.Amount)
	w.Broadcast(c.Room, fmt.Sprintf("%s eats %s.", entity.Capitalize(c.Name), name), c.ID)
	return fmt.Sprintf("You eat %s.", name), nil
}

// Drink consumes one unit of the carried drink matching word.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Drink(c *entity.Character, word string) (string, error) {
	item, spec, err := w.nourishment(c, word, entity.KindDrink, "drink")
	if err != nil {
		return "", err
	}
	if c.Thirst >= 100 {
		return "", refuse("You are not thirsty.")
	}
	name := w.consumeOne(item)
	c.Quench(spec.Amount)
	w.Broadcast(c.Room, fmt.Sprintf("%s drinks %s.", entity.Capitalize(c.Name), name), c.ID)
	return fmt.Sprintf("You drink %s.", name), nil
}

func (w *World) nourishment(c *entity.Character, word string, kind entity.ModelKind, verb string) (*entity.Item, entity.NourishmentSpec, error) {
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return nil, entity.NourishmentSpec{}, refuse("You don't have %s.", word)
	}
	if item.Model.Kind != kind {
		return nil, entity.NourishmentSpec{}, refuse("You can't %s %s.", verb, item.Name())
	}
	spec, err := item.Model.Nourishment()
	if err != nil {
		return nil, entity.NourishmentSpec{}, fmt.Errorf("%s item %d: %w", verb, item.ID, err)
	}
	return item, spec, nil
}

// consumeOne removes one unit of item from the world and returns the name of
// that unit.
func (w *World) consumeOne(item *entity.Item) string {
	if item.Quantity <= 1 {
		name := item.Name()
		w.arena.DestroyItem(item.ID)
		w.persistDeleted("consume item", item.ID)
		return name
	}
	part, err := w.arena.Split(item.ID, 1)
	if err != nil {
		w.fatal("split consumed item", err, zap.Uint64("item", uint64(item.ID)))
		return item.Model.Name
	}
	w.arena.DestroyItem(part.ID)
	w.persistItems("consume item", item.ID)
	return part.Name()
}

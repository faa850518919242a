package engine

import (
	"fmt"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// Take moves the item matching word from the room of c into its inventory.
// A non-empty from names a container or corpse, in the room or carried, to
// take the item out of.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Take(c *entity.Character, word, from string) (string, error) {
	if c.Room == 0 {
		return "", refuse("You are nowhere.")
	}
	var (
		item   *entity.Item
		source *entity.Item
		ok     bool
	)
	if from != "" {
		source, ok = w.arena.FindInRoom(c.Room, from)
		if !ok {
			source, ok = w.arena.FindInInventory(c.ID, from)
		}
		if !ok {
			return "", refuse("You don't see %s here.", from)
		}
		item, ok = w.findInside(source.ID, word)
		if !ok {
			return "", refuse("%s doesn't contain %s.", entity.Capitalize(source.Name()), word)
		}
	} else {
		item, ok = w.arena.FindInRoom(c.Room, word)
		if !ok {
			return "", refuse("You don't see %s here.", word)
		}
		if item.Model.Kind == entity.KindCorpse {
			return "", refuse("You can't pick up %s.", item.Name())
		}
	}
	carried := w.arena.Location(item.ID).Kind == entity.InContainer && source != nil &&
		w.arena.Location(source.ID).Kind == entity.InInventory
	if !carried && w.arena.CarryingWeight(c.ID)+w.arena.ItemWeight(item.ID) > c.MaxCarry() {
		return "", refuse("You can't carry %s.", item.Name())
	}
	if err := w.arena.GiveItem(c.ID, item.ID); err != nil {
		return "", fmt.Errorf("take item %d: %w", item.ID, err)
	}
	w.persistItems("take item", item.ID)
	if source != nil {
		w.Broadcast(c.Room, fmt.Sprintf("%s takes %s from %s.", entity.Capitalize(c.Name), item.Name(), source.Name()), c.ID)
		return fmt.Sprintf("You take %s from %s.", item.Name(), source.Name()), nil
	}
	w.Broadcast(c.Room, fmt.Sprintf("%s picks up %s.", entity.Capitalize(c.Name), item.Name()), c.ID)
	return fmt.Sprintf("You take %s.", item.Name()), nil
}

func (w *World) findInside(container entity.ID, word string) (*entity.Item, bool) {
	for _, id := range w.arena.Contents(container) {
		if it, ok := w.arena.Item(id); ok && it.Matches(word) {
			return it, true
		}
	}
	return nil, false
}

// Drop moves the carried item matching word into the room of c.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Drop(c *entity.Character, word string) (string, error) {
	if c.Room == 0 {
		return "", refuse("You are nowhere.")
	}
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return "", refuse("You don't have %s.", word)
	}
	if err := w.arena.PlaceItem(item.ID, c.Room); err != nil {
		return "", fmt.Errorf("drop item %d: %w", item.ID, err)
	}
	w.persistItems("drop item", item.ID)
	w.Broadcast(c.Room, fmt.Sprintf("%s drops %s.", entity.Capitalize(c.Name), item.Name()), c.ID)
	return fmt.Sprintf("You drop %s.", item.Name()), nil
}

func wieldable(m *entity.Model) bool {
	return m.IsWeapon() || m.Kind == entity.KindShield || m.Kind == entity.KindTool || m.Flags.Has(entity.FlagWieldable)
}

// Wield puts the carried item matching word in a free hand, right hand
// first. A two-handed item needs both hands free and occupies the right one.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Wield(c *entity.Character, word string) (string, error) {
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return "", refuse("You don't have %s.", word)
	}
	if !wieldable(item.Model) {
		return "", refuse("You can't wield %s.", item.Name())
	}
	right, rightBusy := w.arena.Equipped(c.ID, entity.SlotRightHand)
	_, leftBusy := w.arena.Equipped(c.ID, entity.SlotLeftHand)
	if rightBusy && right.Model.Flags.Has(entity.FlagTwoHand) {
		return "", refuse("You are holding %s with both hands.", right.Name())
	}

	slot := entity.SlotRightHand
	msg := fmt.Sprintf("You wield %s.", item.Name())
	switch {
	case item.Model.Flags.Has(entity.FlagTwoHand):
		if rightBusy || leftBusy {
			return "", refuse("You need both hands free to wield %s.", item.Name())
		}
		msg = fmt.Sprintf("You wield %s with both hands.", item.Name())
	case !rightBusy:
	case !leftBusy:
		slot = entity.SlotLeftHand
		msg = fmt.Sprintf("You wield %s in your left hand.", item.Name())
	default:
		return "", refuse("You have your hands full.")
	}
	if err := w.arena.Equip(c.ID, slot, item.ID); err != nil {
		return "", fmt.Errorf("wield item %d: %w", item.ID, err)
	}
	w.persistItems("wield item", item.ID)
	w.Broadcast(c.Room, fmt.Sprintf("%s wields %s.", entity.Capitalize(c.Name), item.Name()), c.ID)
	return msg, nil
}

// Wear puts the carried armor matching word on the slot of its model.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Wear(c *entity.Character, word string) (string, error) {
	item, ok := w.arena.FindInInventory(c.ID, word)
	if !ok {
		return "", refuse("You don't have %s.", word)
	}
	slot := item.Model.Slot
	wearable := item.Model.Kind == entity.KindArmor || item.Model.Flags.Has(entity.FlagWearable)
	if !wearable || slot == entity.SlotNone || slot == entity.SlotRightHand || slot == entity.SlotLeftHand {
		return "", refuse("You can't wear %s.", item.Name())
	}
	if worn, busy := w.arena.Equipped(c.ID, slot); busy {
		return "", refuse("You are already wearing %s on your %s.", worn.Name(), slot)
	}
	if err := w.arena.Equip(c.ID, slot, item.ID); err != nil {
		return "", fmt.Errorf("wear item %d: %w", item.ID, err)
	}
	w.persistItems("wear item", item.ID)
	w.Broadcast(c.Room, fmt.Sprintf("%s wears %s.", entity.Capitalize(c.Name), item.Name()), c.ID)
	return fmt.Sprintf("You wear %s on your %s.", item.Name(), slot), nil
}

// Remove moves the equipped item matching word back to the inventory.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Remove(c *entity.Character, word string) (string, error) {
	item, ok := w.arena.FindInEquipment(c.ID, word)
	if !ok {
		return "", refuse("You are not using %s.", word)
	}
	if err := w.arena.GiveItem(c.ID, item.ID); err != nil {
		return "", fmt.Errorf("remove item %d: %w", item.ID, err)
	}
	w.persistItems("remove item", item.ID)
	w.Broadcast(c.Room, fmt.Sprintf("%s removes %s.", entity.Capitalize(c.Name), item.Name()), c.ID)
	return fmt.Sprintf("You remove %s.", item.Name()), nil
}

var postureMessages = map[entity.Posture][2]string{
	entity.Stand:  {"You stand up.", "%s stands up."},
	entity.Crouch: {"You crouch down.", "%s crouches down."},
	entity.Prone:  {"You lie down on the ground.", "%s lies down on the ground."},
	entity.Sit:    {"You sit down.", "%s sits down."},
	entity.Rest:   {"You lie down and rest.", "%s lies down and rests."},
}

// SetPosture changes the posture of c. Sitting and resting are refused in
// combat, and any ongoing action is stopped first.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) SetPosture(c *entity.Character, p entity.Posture) (string, error) {
	if c.Posture == p {
		return "", refuse("You are already %s.", p)
	}
	if (p == entity.Sit || p == entity.Rest) && w.InCombat(c.ID) {
		return "", refuse("You are fighting for your life!")
	}
	if !w.InCombat(c.ID) {
		w.StopAction(c.ID)
	}
	c.Posture = p
	msgs := postureMessages[p]
	w.Broadcast(c.Room, fmt.Sprintf(msgs[1], entity.Capitalize(c.Name)), c.ID)
	return msgs[0], nil
}

package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// Populate creates the mobiles and items declared by the spawn tables of
// every area.
//
// Postcondition: Returns the number of mobiles and items created, and the
// joined errors of the entries that could not be spawned.
func (w *World) Populate() (mobiles, items int, err error) {
	var errs []error
	for _, area := range w.areas.Areas() {
		for _, spawn := range area.Mobiles {
			if _, err := w.SpawnMobile(spawn); err != nil {
				errs = append(errs, fmt.Errorf("area %d mobile %q: %w", area.Vnum, spawn.Name, err))
				continue
			}
			mobiles++
		}
		for _, spawn := range area.Items {
			if _, err := w.SpawnItem(spawn); err != nil {
				errs = append(errs, fmt.Errorf("area %d item %d: %w", area.Vnum, spawn.Model, err))
				continue
			}
			items++
		}
	}
	w.logger.Info("world populated", zap.Int("mobiles", mobiles), zap.Int("items", items))
	return mobiles, items, errors.Join(errs...)
}

// SpawnMobile creates one mobile from spawn, wielding its weapon.
func (w *World) SpawnMobile(spawn world.MobileSpawn) (*entity.Character, error) {
	race, ok := w.catalogue.Race(spawn.Race)
	if !ok {
		return nil, fmt.Errorf("race %q: %w", spawn.Race, entity.ErrNotFound)
	}
	if _, ok := w.areas.Room(spawn.Room); !ok {
		return nil, fmt.Errorf("room %d: %w", spawn.Room, entity.ErrNotFound)
	}
	var weapon *entity.Model
	if spawn.Weapon != 0 {
		weapon, ok = w.catalogue.Model(spawn.Weapon)
		if !ok {
			return nil, fmt.Errorf("weapon model %d: %w", spawn.Weapon, entity.ErrNotFound)
		}
	}
	c := entity.NewCharacter(spawn.Name, race, entity.Abilities(spawn.Abilities))
	c.Weight = race.Weight
	c.Aggressive = spawn.Aggressive
	c.Script = spawn.Script
	c.Room = spawn.Room
	w.arena.AddCharacter(c)
	if weapon != nil {
		item := w.arena.NewItem(weapon, 1)
		if err := w.arena.Equip(c.ID, entity.SlotRightHand, item.ID); err != nil {
			return nil, fmt.Errorf("equip %s: %w", weapon.Name, err)
		}
	}
	return c, nil
}

// SpawnItem places the items of spawn in their room.
func (w *World) SpawnItem(spawn world.ItemSpawn) (*entity.Item, error) {
	model, ok := w.catalogue.Model(spawn.Model)
	if !ok {
		return nil, fmt.Errorf("model %d: %w", spawn.Model, entity.ErrNotFound)
	}
	if _, ok := w.areas.Room(spawn.Room); !ok {
		return nil, fmt.Errorf("room %d: %w", spawn.Room, entity.ErrNotFound)
	}
	item := w.arena.NewItem(model, max(1, spawn.Quantity))
	if err := w.arena.PlaceItem(item.ID, spawn.Room); err != nil {
		return nil, err
	}
	return item, nil
}

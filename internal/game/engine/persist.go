package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/storage"
)

var locationNames = map[entity.LocationKind]string{
	entity.Nowhere:     storage.LocationNowhere,
	entity.InRoom:      storage.LocationRoom,
	entity.InInventory: storage.LocationInventory,
	entity.InEquipment: storage.LocationEquipment,
	entity.InContainer: storage.LocationContainer,
}

// ItemRecord snapshots item and its current location.
func (w *World) ItemRecord(item *entity.Item) storage.ItemRecord {
	loc := w.arena.Location(item.ID)
	return storage.ItemRecord{
		ID:           uint64(item.ID),
		Model:        item.Model.Vnum,
		Quantity:     item.Quantity,
		Condition:    item.Condition,
		Maker:        item.Maker,
		CustomName:   item.CustomName,
		CustomWeight: item.CustomWeight,
		Location:     locationNames[loc.Kind],
		Room:         int(loc.Room),
		Owner:        uint64(loc.Owner),
		Container:    uint64(loc.Container),
		Slot:         int(loc.Slot),
	}
}

// CharacterRecord snapshots the persistent state of c.
func (w *World) CharacterRecord(c *entity.Character) storage.CharacterRecord {
	var abilities [5]int
	for i := range abilities {
		abilities[i] = c.BaseAbility(entity.Ability(i))
	}
	race := ""
	if c.Race != nil {
		race = c.Race.Name
	}
	room := c.Room
	if room == 0 {
		room = w.areas.StartRoom()
	}
	return storage.CharacterRecord{
		ID:        uint64(c.ID),
		Name:      c.Name,
		Race:      race,
		Gender:    int(c.Gender),
		Abilities: abilities,
		Health:    c.Health(),
		Stamina:   c.Stamina(),
		Posture:   int(c.Posture),
		Room:      int(room),
		Hunger:    c.Hunger,
		Thirst:    c.Thirst,
		UpdatedAt: w.now(),
	}
}

// belongings returns every item owned by c, containers before contents.
func (w *World) belongings(c *entity.Character) []*entity.Item {
	var out []*entity.Item
	var walk func(id entity.ID)
	walk = func(id entity.ID) {
		item, ok := w.arena.Item(id)
		if !ok {
			return
		}
		out = append(out, item)
		for _, inner := range w.arena.Contents(id) {
			walk(inner)
		}
	}
	for _, id := range w.arena.Inventory(c.ID) {
		walk(id)
	}
	for _, id := range w.arena.Equipment(c.ID) {
		walk(id)
	}
	return out
}

func (w *World) submit(job storage.Job) {
	if err := w.journal.Submit(job); err != nil {
		w.logger.Debug("persistence job not queued", zap.String("operation", job.Name), zap.Error(err))
	}
}

// persistItems queues an update of the listed items as they are now.
func (w *World) persistItems(name string, ids ...entity.ID) {
	records := make([]storage.ItemRecord, 0, len(ids))
	for _, id := range ids {
		if item, ok := w.arena.Item(id); ok {
			records = append(records, w.ItemRecord(item))
		}
	}
	if len(records) == 0 {
		return
	}
	w.submit(storage.Job{Name: name, Apply: func(ctx context.Context, b storage.Batch) error {
		for _, rec := range records {
			if err := b.UpdateItem(ctx, rec); err != nil {
				return fmt.Errorf("update item %d: %w", rec.ID, err)
			}
		}
		return nil
	}})
}

// persistNewItem queues the insertion of item.
func (w *World) persistNewItem(name string, item *entity.Item) {
	rec := w.ItemRecord(item)
	w.submit(storage.Job{Name: name, Apply: func(ctx context.Context, b storage.Batch) error {
		return b.InsertItem(ctx, rec)
	}})
}

// persistDeleted queues the deletion of the listed items.
func (w *World) persistDeleted(name string, ids ...entity.ID) {
	w.submit(storage.Job{Name: name, Apply: func(ctx context.Context, b storage.Batch) error {
		for _, id := range ids {
			if err := b.DeleteItem(ctx, uint64(id)); err != nil {
				return fmt.Errorf("delete item %d: %w", id, err)
			}
		}
		return nil
	}})
}

// SaveCharacter queues a snapshot of player c and everything it owns in a
// single batch. Mobiles are not persisted.
func (w *World) SaveCharacter(c *entity.Character) {
	if c.IsMobile() {
		return
	}
	rec := w.CharacterRecord(c)
	items := w.belongings(c)
	records := make([]storage.ItemRecord, len(items))
	for i, item := range items {
		records[i] = w.ItemRecord(item)
	}
	w.submit(storage.Job{Name: "save character", Apply: func(ctx context.Context, b storage.Batch) error {
		if err := b.UpdateCharacter(ctx, rec); err != nil {
			return fmt.Errorf("update character %s: %w", rec.Name, err)
		}
		for _, item := range records {
			if err := b.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("update item %d: %w", item.ID, err)
			}
		}
		return nil
	}})
}

// NewPlayer creates a fresh player character in the start room of the world.
//
// Postcondition: the character is registered in the arena and queued for
// persistence.
func (w *World) NewPlayer(name, race string, gender entity.Gender, abilities entity.Abilities) (*entity.Character, error) {
	r, ok := w.catalogue.Race(race)
	if !ok {
		return nil, fmt.Errorf("race %q: %w", race, entity.ErrNotFound)
	}
	c := entity.NewCharacter(name, r, abilities)
	c.Player = true
	c.Gender = gender
	c.Weight = r.Weight
	c.Hunger, c.Thirst = 100, 100
	c.Room = w.areas.StartRoom()
	w.arena.AddCharacter(c)
	w.SaveCharacter(c)
	return c, nil
}

// RestoreCharacter rebuilds a player and its belongings from storage
// records and places it in its saved room.
//
// Postcondition: Returns an error, leaving the arena untouched, when the race
// or an item model is unknown.
func (w *World) RestoreCharacter(rec storage.CharacterRecord, items []storage.ItemRecord) (*entity.Character, error) {
	race, ok := w.catalogue.Race(rec.Race)
	if !ok {
		return nil, fmt.Errorf("race %q of %s: %w", rec.Race, rec.Name, entity.ErrNotFound)
	}
	restored := make([]*entity.Item, 0, len(items))
	var errs []error
	for _, ir := range items {
		model, ok := w.catalogue.Model(ir.Model)
		if !ok {
			errs = append(errs, fmt.Errorf("item %d model %d: %w", ir.ID, ir.Model, entity.ErrNotFound))
			continue
		}
		restored = append(restored, &entity.Item{
			ID:           entity.ID(ir.ID),
			Model:        model,
			Quantity:     ir.Quantity,
			Condition:    ir.Condition,
			Maker:        ir.Maker,
			CustomName:   ir.CustomName,
			CustomWeight: ir.CustomWeight,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c := entity.NewCharacter(rec.Name, race, entity.Abilities(rec.Abilities))
	c.ID = entity.ID(rec.ID)
	c.Player = true
	c.Gender = entity.Gender(rec.Gender)
	c.Posture = entity.Posture(rec.Posture)
	c.Weight = race.Weight
	c.Hunger, c.Thirst = rec.Hunger, rec.Thirst
	room := world.Vnum(rec.Room)
	if _, ok := w.areas.Room(room); !ok {
		room = w.areas.StartRoom()
	}
	c.Room = room
	w.arena.AddCharacter(c)
	c.SetHealth(rec.Health, true)
	c.SetStamina(rec.Stamina, true)

	for _, item := range restored {
		w.arena.RestoreItem(item)
	}
	for i, ir := range items {
		if err := w.placeRecord(restored[i].ID, c.ID, ir); err != nil {
			w.logger.Warn("restored item misplaced",
				zap.Uint64("item", ir.ID),
				zap.String("location", ir.Location),
				zap.Error(err),
			)
			if err := w.arena.GiveItem(c.ID, restored[i].ID); err != nil {
				w.fatal("restore item to inventory", err, zap.Uint64("item", ir.ID), zap.String("character", c.Name))
			}
		}
	}
	return c, nil
}

func (w *World) placeRecord(id, owner entity.ID, ir storage.ItemRecord) error {
	switch ir.Location {
	case storage.LocationEquipment:
		return w.arena.Equip(owner, entity.Slot(ir.Slot), id)
	case storage.LocationContainer:
		return w.arena.PutInside(entity.ID(ir.Container), id)
	case storage.LocationRoom:
		return w.arena.PlaceItem(id, world.Vnum(ir.Room))
	}
	return w.arena.GiveItem(owner, id)
}

// Logout saves player c and takes it and its belongings out of the world.
// The stored rows are kept.
func (w *World) Logout(c *entity.Character) {
	w.SaveCharacter(c)
	if c.Room != 0 {
		w.Broadcast(c.Room, fmt.Sprintf("%s leaves the game.", c.Name), c.ID)
	}
	w.Forget(c.ID)
	w.arena.RemoveCharacter(c.ID)
}

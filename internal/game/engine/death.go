package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
	"github.com/HexColors60/RadMud/internal/storage"
)

// corpseDecay is the hourly decay of corpses whose race has no corpse model.
const corpseDecay = 10

type revival struct {
	at   time.Time
	room world.Vnum
}

// Kill turns victim into a corpse holding everything it carried and wore,
// takes it out of the room and out of every fight. Mobiles are removed from
// the arena; players are revived after the revive delay.
func (w *World) Kill(victim *entity.Character) {
	room := victim.Room
	if room == 0 {
		w.fatal("kill without room", ErrNoRoom, zap.Uint64("character", uint64(victim.ID)))
		return
	}
	if victim.IsMobile() && victim.Script != "" {
		w.invoke(EventDeath, victim, nil, world.None)
	}
	corpse := w.arena.NewItem(w.corpseModel(victim), 1)
	corpse.CustomName = "the corpse of " + victim.Name
	corpse.CustomWeight = victim.Weight
	if err := w.arena.PlaceItem(corpse.ID, room); err != nil {
		w.fatal("place corpse", err)
	}
	held := append(w.arena.Inventory(victim.ID), w.arena.Equipment(victim.ID)...)
	for _, id := range held {
		if err := w.arena.PutInside(corpse.ID, id); err != nil {
			w.fatal("fill corpse", err, zap.Uint64("item", uint64(id)))
		}
	}
	corpseRecord := w.ItemRecord(corpse)
	records := make([]storage.ItemRecord, 0, len(held))
	for _, id := range held {
		if item, ok := w.arena.Item(id); ok {
			records = append(records, w.ItemRecord(item))
		}
	}
	w.submit(storage.Job{Name: "kill", Apply: func(ctx context.Context, b storage.Batch) error {
		if err := b.InsertItem(ctx, corpseRecord); err != nil {
			return fmt.Errorf("insert corpse: %w", err)
		}
		for _, rec := range records {
			if err := b.UpdateItem(ctx, rec); err != nil {
				return fmt.Errorf("update item %d: %w", rec.ID, err)
			}
		}
		return nil
	}})

	w.arena.DetachCharacter(victim.ID)
	w.Disengage(victim.ID)
	w.SetIdle(victim.ID)
	victim.InSight = nil
	w.recorder.CharacterKilled(victim.IsMobile())
	w.logger.Info("character killed",
		zap.String("name", victim.Name),
		zap.Bool("mobile", victim.IsMobile()),
		zap.Int("room", int(room)),
		zap.Int("items", len(held)),
	)
	if victim.IsMobile() {
		w.arena.RemoveCharacter(victim.ID)
		delete(w.trackers, victim.ID)
		return
	}
	w.dead[victim.ID] = revival{at: w.now().Add(w.reviveDelay), room: w.areas.StartRoomFor(room)}
	w.Send(victim.ID, "You are dead.")
}

func (w *World) corpseModel(victim *entity.Character) *entity.Model {
	if victim.Race != nil {
		if m, ok := w.catalogue.Model(victim.Race.CorpseModel); ok && m.Kind == entity.KindCorpse {
			return m
		}
	}
	return entity.NewCorpseModel(0, "corpse", corpseDecay)
}

// IsDead reports whether the player is waiting to be revived.
func (w *World) IsDead(id entity.ID) bool {
	_, ok := w.dead[id]
	return ok
}

// Revive brings back every dead player whose grace period is over, with
// full health and stamina in the start room of the zone it died in.
func (w *World) Revive() {
	now := w.now()
	for id, r := range w.dead {
		if now.Before(r.at) {
			continue
		}
		delete(w.dead, id)
		c, ok := w.Character(id)
		if !ok {
			continue
		}
		c.Restore()
		c.Posture = entity.Stand
		if err := w.arena.PlaceCharacter(id, r.room); err != nil {
			w.fatal("revive", err, zap.Uint64("character", uint64(id)))
			continue
		}
		name := "the world"
		if room, ok := w.areas.Room(r.room); ok {
			name = room.Name
		}
		w.Sendf(id, "You awaken in %s.", name)
		w.Send(id, w.Look(c))
		w.Broadcast(r.room, fmt.Sprintf("%s appears out of thin air.", entity.Capitalize(c.Name)), id)
		w.SaveCharacter(c)
	}
}

// Forget drops every side table entry of a character leaving the game.
func (w *World) Forget(id entity.ID) {
	w.Disengage(id)
	w.SetIdle(id)
	delete(w.trackers, id)
	delete(w.dead, id)
}

package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// Hour returns the in-game hour of day.
func (w *World) Hour() int { return w.hour }

// TicUpdate regenerates vitals, counts effects down and revives the dead.
func (w *World) TicUpdate() {
	for _, c := range w.arena.Characters() {
		if w.IsDead(c.ID) {
			continue
		}
		c.Regenerate()
		for _, fx := range c.ExpireEffects() {
			if fx.Kind == entity.EffectClearTargets {
				c.InSight = nil
			}
			if fx.ExpireMessage != "" {
				w.Send(c.ID, fx.ExpireMessage)
			}
		}
	}
	w.Revive()
}

// HourlyUpdate advances the clock to hour, runs the hourly behaviours, rots
// decaying items and snapshots every player.
func (w *World) HourlyUpdate(hour int) {
	w.hour = hour % 24
	for _, c := range w.arena.Characters() {
		if c.IsMobile() && c.Script != "" && c.Room != 0 {
			w.invoke(EventHourly, c, nil, world.None)
		}
	}
	w.decayItems()
	for _, c := range w.arena.Characters() {
		if c.IsMobile() || w.IsDead(c.ID) {
			continue
		}
		c.ConsumeNourishment()
		w.SaveCharacter(c)
	}
}

func (w *World) decayItems() {
	rotted := 0
	for _, item := range w.arena.Items() {
		if _, alive := w.arena.Item(item.ID); !alive {
			continue
		}
		if !item.Decay() {
			continue
		}
		loc := w.arena.Location(item.ID)
		var dropped []entity.ID
		if item.Model.Kind == entity.KindCorpse && loc.Kind == entity.InRoom {
			for _, id := range w.arena.Contents(item.ID) {
				if err := w.arena.PlaceItem(id, loc.Room); err == nil {
					dropped = append(dropped, id)
				}
			}
		}
		switch loc.Kind {
		case entity.InRoom:
			w.Broadcast(loc.Room, fmt.Sprintf("%s rots away.", entity.Capitalize(item.Name())))
		case entity.InInventory, entity.InEquipment:
			w.Sendf(loc.Owner, "%s rots away.", entity.Capitalize(item.Name()))
		}
		w.arena.DestroyItem(item.ID)
		w.persistItems("decay", dropped...)
		w.persistDeleted("decay", item.ID)
		rotted++
	}
	if rotted > 0 {
		w.logger.Debug("items decayed", zap.Int("count", rotted))
	}
}

// provoke makes the aggressive mobiles of room attack the player c.
func (w *World) provoke(room world.Vnum, c *entity.Character) {
	if c.IsMobile() {
		return
	}
	for _, id := range w.arena.CharactersIn(room) {
		mobile, ok := w.Character(id)
		if !ok || !mobile.IsMobile() || !mobile.Aggressive || w.InCombat(id) {
			continue
		}
		if _, err := w.Attack(mobile, c); err == nil {
			w.logger.Debug("aggressive mobile attacks",
				zap.String("mobile", mobile.Name),
				zap.String("target", c.Name),
			)
		}
	}
}

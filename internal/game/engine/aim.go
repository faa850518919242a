package engine

import (
	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

type aimPayload struct {
	target entity.ID
}

// NewAim builds an aim of actor at target. The cooldown grows with the
// distance between them.
func (w *World) NewAim(actor, target entity.ID) *Action {
	a := w.newAction(actor, KindAim)
	a.aim = &aimPayload{target: target}
	c, ok := w.Character(actor)
	t, tok := w.Character(target)
	if ok && tok {
		distance := 0
		if from, _, err := w.RoomOf(c); err == nil {
			if to, _, err := w.RoomOf(t); err == nil {
				distance = world.Distance(from.Coord, to.Coord)
			}
		}
		a.resetSeconds(max(1, distance))
	}
	return a
}

func (a *Action) checkAim(actor *entity.Character) error {
	if len(combat.ActiveWeapons(actor, a.world.arena, true)) == 0 {
		return refuse("You don't have any ranged weapon equipped.")
	}
	target, ok := a.world.Character(a.aim.target)
	if !ok || target.ID == actor.ID {
		return refuse("You don't see anyone to aim at.")
	}
	if !a.world.IsAtRange(actor, target, actor.ViewDistance()) {
		return refuse("%s is out of your line of sight.", entity.Capitalize(target.Name))
	}
	return nil
}

func (a *Action) performAim(actor *entity.Character) Status {
	if err := a.checkAim(actor); err != nil {
		return a.fail(err)
	}
	target, _ := a.world.Character(a.aim.target)
	a.world.Tracker(actor.ID).SetAimed(target.ID)
	a.world.Sendf(actor.ID, "You have %s in your sights...", target.Name)
	return Finished
}

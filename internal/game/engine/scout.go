package engine

import (
	"strings"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

type scoutPayload struct{}

// NewScout builds a scan of the surroundings of actor.
func (w *World) NewScout(actor entity.ID) *Action {
	a := w.newAction(actor, KindScout)
	a.scout = &scoutPayload{}
	if c, ok := w.Character(actor); ok {
		a.resetSeconds(max(1, 4-c.Log(entity.Perception, 0, 1)))
	}
	return a
}

func (a *Action) checkScout(actor *entity.Character) error {
	if _, _, err := a.world.RoomOf(actor); err != nil {
		return err
	}
	if combat.StaminaCost(actor, a.world.arena, nil) > actor.Stamina() {
		return refuse("You are too tired to scout the area.")
	}
	return nil
}

func (a *Action) performScout(actor *entity.Character) Status {
	if err := a.checkScout(actor); err != nil {
		return a.fail(err)
	}
	actor.RemStamina(combat.StaminaCost(actor, a.world.arena, nil), false)
	seen := a.world.CharactersInSight(actor, actor.ViewDistance())
	actor.InSight = actor.InSight[:0]
	if len(seen) == 0 {
		a.world.Send(actor.ID, "You have found nothing...")
		return Error
	}
	var b strings.Builder
	b.WriteString("Nearby you can see...\n")
	for _, c := range seen {
		b.WriteString("    " + c.Name + "\n")
		actor.InSight = append(actor.InSight, c.ID)
	}
	a.world.Send(actor.ID, b.String())
	actor.AddEffect(entity.Effect{
		Name:      "scouted targets",
		Kind:      entity.EffectClearTargets,
		Remaining: 2 + actor.Modifier(entity.Perception),
	})
	return Finished
}

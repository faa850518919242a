package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// meleeRange is the reach of every melee weapon.
const meleeRange = 1

type combatPayload struct {
	kind combat.Kind
}

// NewCombat builds a combat action of the given kind, due after one round.
func (w *World) NewCombat(actor entity.ID, kind combat.Kind) *Action {
	a := w.newAction(actor, KindCombat)
	a.combat = &combatPayload{kind: kind}
	if c, ok := w.Character(actor); ok {
		a.resetSeconds(combat.Cooldown(c, w.arena, kind))
	}
	return a
}

// CombatKind returns the kind of combat round, false when a is not a combat
// action.
func (a *Action) CombatKind() (combat.Kind, bool) {
	if a.combat == nil {
		return 0, false
	}
	return a.combat.kind, true
}

func (a *Action) checkCombat(actor *entity.Character) error {
	if a.world.Tracker(actor.ID).Empty() {
		return refuse("You are not fighting with anyone.")
	}
	return nil
}

func (a *Action) performCombat(actor *entity.Character) Status {
	if actor.Room == 0 {
		a.world.fatal("combat without room", ErrNoRoom, zap.Uint64("character", uint64(actor.ID)))
		return Error
	}
	switch a.combat.kind {
	case combat.Flee:
		return a.performFlee(actor)
	case combat.BasicRangedAttack:
		a.world.rangedRound(actor)
	default:
		a.world.meleeRound(actor)
	}
	next := combat.BasicMeleeAttack
	if a.combat.kind == combat.BasicRangedAttack && len(combat.ActiveWeapons(actor, a.world.arena, true)) > 0 {
		next = combat.BasicRangedAttack
	}
	return a.rearm(actor, next)
}

// rearm schedules the next round, or finishes the action when no opponent
// remains in view.
func (a *Action) rearm(actor *entity.Character, kind combat.Kind) Status {
	if !a.world.setNextCombatAction(a, actor, kind) {
		a.world.Send(actor.ID, a.Stop())
		return Finished
	}
	return Running
}

// setNextCombatAction drops opponents out of view and, when any remain,
// re-arms a for another round of kind.
func (w *World) setNextCombatAction(a *Action, actor *entity.Character, kind combat.Kind) bool {
	tracker := w.Tracker(actor.ID)
	for _, id := range tracker.Opponents() {
		opponent, ok := w.Character(id)
		if !ok || !w.IsAtRange(actor, opponent, actor.ViewDistance()) {
			tracker.Remove(id)
		}
	}
	if tracker.Empty() {
		return false
	}
	a.combat.kind = kind
	a.resetSeconds(combat.Cooldown(actor, w.arena, kind))
	return true
}

// IsAtRange reports whether target is in the same area as source, within
// distance and in line of sight.
func (w *World) IsAtRange(source, target *entity.Character, distance int) bool {
	from, area, err := w.RoomOf(source)
	if err != nil {
		return false
	}
	to, toArea, err := w.RoomOf(target)
	if err != nil || toArea != area {
		return false
	}
	return area.FastInSight(from.Coord, to.Coord, distance)
}

// nextOpponentAtRange returns preferred when it is a live opponent at range,
// otherwise the first tracked opponent at range.
func (w *World) nextOpponentAtRange(actor *entity.Character, distance int, preferred ...entity.ID) (*entity.Character, bool) {
	tracker := w.Tracker(actor.ID)
	for _, id := range preferred {
		if id == 0 || !tracker.Has(id) {
			continue
		}
		if c, ok := w.Character(id); ok && w.IsAtRange(actor, c, distance) {
			return c, true
		}
	}
	for _, id := range tracker.Opponents() {
		if c, ok := w.Character(id); ok && w.IsAtRange(actor, c, distance) {
			return c, true
		}
	}
	return nil, false
}

func (w *World) meleeRound(actor *entity.Character) {
	weapons := combat.ActiveWeapons(actor, w.arena, false)
	if len(weapons) == 0 {
		w.Send(actor.ID, "You do not have a valid weapon equipped.")
		return
	}
	bonus := combat.TwoHandedBonus(actor, weapons)
	for _, weapon := range weapons {
		enemy, ok := w.nextOpponentAtRange(actor, meleeRange, w.Tracker(actor.ID).Predefined())
		if !ok {
			w.Sendf(actor.ID, "You do not have opponents at range for %s.", weapon.Item.Name())
			continue
		}
		lo, hi, err := combat.DamageRange(weapon.Item)
		if err != nil {
			w.fatal("melee weapon without damage", err, zap.Uint64("item", uint64(weapon.Item.ID)))
			continue
		}
		w.strike(actor, enemy, weapon, len(weapons) > 1, lo, hi, bonus)
	}
}

func (w *World) rangedRound(actor *entity.Character) {
	weapons := combat.ActiveWeapons(actor, w.arena, true)
	if len(weapons) == 0 {
		w.Send(actor.ID, "You do not have a valid weapon equipped.")
		return
	}
	tracker := w.Tracker(actor.ID)
	for _, weapon := range weapons {
		spec, err := weapon.Item.Model.Ranged()
		if err != nil {
			w.fatal("ranged weapon without payload", err, zap.Uint64("item", uint64(weapon.Item.ID)))
			continue
		}
		projectile, ok := w.chamberedProjectile(weapon.Item)
		if !ok {
			w.Sendf(actor.ID, "You need to reload %s.", weapon.Item.Name())
			continue
		}
		enemy, ok := w.nextOpponentAtRange(actor, spec.Range, tracker.Aimed(), tracker.Predefined())
		if !ok {
			w.Sendf(actor.ID, "You do not have opponents at range for %s.", weapon.Item.Name())
			continue
		}
		bonus := 0
		if ps, err := projectile.Model.Projectile(); err == nil {
			bonus = ps.DamageBonus
		}
		if w.strike(actor, enemy, weapon, len(weapons) > 1, spec.MinDamage, spec.MaxDamage, bonus) {
			w.consumeProjectile(projectile)
		}
	}
}

// strike resolves one weapon against enemy. It returns false when the actor
// was too tired to attack.
func (w *World) strike(actor, enemy *entity.Character, weapon combat.Wielded, dual bool, lo, hi, bonus int) bool {
	weaponName := weapon.Item.Name()
	cost := combat.StaminaCost(actor, w.arena, weapon.Item)
	if cost > actor.Stamina() {
		w.Sendf(actor.ID, "You are too tired to attack with %s.", weaponName)
		w.logger.Debug("attack refused",
			zap.String("actor", actor.Name),
			zap.Int("stamina", actor.Stamina()),
			zap.Int("cost", cost),
		)
		return false
	}
	res := combat.ResolveAttack(w.roller, combat.AttackInput{
		Hand:       weapon.Hand,
		DualWield:  dual,
		ArmorClass: combat.ArmorClass(enemy, w.arena),
		MinDamage:  lo,
		MaxDamage:  hi,
		Bonus:      bonus,
	})
	w.logger.Debug("attack roll",
		zap.String("actor", actor.Name),
		zap.String("enemy", enemy.Name),
		zap.Int("natural", res.Natural),
		zap.Int("roll", res.Roll),
		zap.Int("ac", res.ArmorClass),
	)
	room := enemy.Room
	actorName, enemyName := actor.Name, enemy.Name
	if !res.Hit {
		w.Sendf(actor.ID, "You miss %s with %s.", enemyName, weaponName)
		w.Sendf(enemy.ID, "%s misses you with %s.", entity.Capitalize(actorName), weaponName)
		w.Broadcast(room, fmt.Sprintf("%s misses %s with %s.", entity.Capitalize(actorName), enemyName, weaponName), actor.ID, enemy.ID)
		actor.RemStamina(cost/2, true)
		return true
	}
	actor.RemStamina(cost, true)
	critical := ""
	if res.Critical {
		critical = "critically "
	}
	if !enemy.RemHealth(res.Damage, false) || enemy.Health() == 0 {
		w.Sendf(actor.ID, "You %shit %s with %s and kill %s.", critical, enemyName, weaponName, enemy.ObjectPronoun())
		w.Sendf(enemy.ID, "%s %shits you with %s and kills you.", entity.Capitalize(actorName), critical, weaponName)
		w.Broadcast(room, fmt.Sprintf("%s %shits %s with %s and kills %s.",
			entity.Capitalize(actorName), critical, enemyName, weaponName, enemy.ObjectPronoun()), actor.ID, enemy.ID)
		w.Kill(enemy)
		return true
	}
	w.Sendf(actor.ID, "You %shit %s with %s for %d.", critical, enemyName, weaponName, res.Damage)
	w.Sendf(enemy.ID, "%s %shits you with %s for %d.", entity.Capitalize(actorName), critical, weaponName, res.Damage)
	w.Broadcast(room, fmt.Sprintf("%s %shits %s with %s for %d.",
		entity.Capitalize(actorName), critical, enemyName, weaponName, res.Damage), actor.ID, enemy.ID)
	return true
}

func (a *Action) performFlee(actor *entity.Character) Status {
	w := a.world
	cost := combat.StaminaCost(actor, w.arena, nil)
	if cost > actor.Stamina() {
		w.Send(actor.ID, "You are too tired to flee.")
		return a.rearm(actor, combat.Flee)
	}
	actor.RemStamina(cost, true)
	attackers := 0
	for _, id := range w.Tracker(actor.ID).Opponents() {
		if c, ok := w.Character(id); ok && c.Room == actor.Room {
			attackers++
		}
	}
	roll := w.roller.D20() + actor.Modifier(entity.Agility)
	if roll < 10+attackers {
		w.Send(actor.ID, "You were not able to escape from your attackers.")
		return a.rearm(actor, combat.Flee)
	}
	w.Disengage(actor.ID)
	for _, dir := range world.Directions {
		dest, err := w.CanMoveTo(actor, dir)
		if err != nil {
			continue
		}
		w.Send(actor.ID, "You flee from the fight!")
		w.Broadcast(actor.Room, fmt.Sprintf("%s flees from the fight!", entity.Capitalize(actor.Name)), actor.ID)
		w.MoveTo(actor, dest, dir)
		break
	}
	return Finished
}

// Disengage removes id from every tracker and clears its own.
func (w *World) Disengage(id entity.ID) {
	for owner, t := range w.trackers {
		if owner != id {
			t.Remove(id)
		}
	}
	w.Tracker(id).Clear()
}

// InCombat reports whether the character is performing a combat action.
func (w *World) InCombat(id entity.ID) bool {
	return w.Action(id).Kind == KindCombat
}

// defaultKind picks the round a character fights with when dragged into
// combat.
func (w *World) defaultKind(c *entity.Character) combat.Kind {
	if len(combat.ActiveWeapons(c, w.arena, false)) == 0 && len(combat.ActiveWeapons(c, w.arena, true)) > 0 {
		return combat.BasicRangedAttack
	}
	return combat.BasicMeleeAttack
}

// StartCombat registers each party in the other's tracker and puts both in
// a combat action. The attacker focuses the defender.
func (w *World) StartCombat(attacker, defender *entity.Character, kind combat.Kind) {
	w.Tracker(attacker.ID).Add(defender.ID, 0)
	w.Tracker(attacker.ID).SetPredefined(defender.ID)
	w.Tracker(defender.ID).Add(attacker.ID, 0)
	if !w.InCombat(attacker.ID) {
		w.SetAction(w.NewCombat(attacker.ID, kind))
	} else if a := w.Action(attacker.ID); a.combat.kind != combat.Flee {
		a.combat.kind = kind
	}
	if !w.InCombat(defender.ID) {
		if msg := w.StopAction(defender.ID); msg != "" {
			w.Send(defender.ID, msg)
		}
		w.SetAction(w.NewCombat(defender.ID, w.defaultKind(defender)))
	}
}

// Attack makes attacker fight target in melee, or focuses target when it is
// already an opponent.
//
// Postcondition: Returns the message for the attacker, or a *CheckError.
func (w *World) Attack(attacker, target *entity.Character) (string, error) {
	if attacker.ID == target.ID {
		return "", refuse("You cannot attack yourself.")
	}
	if target.Room == 0 || attacker.Room == 0 {
		return "", refuse("You don't see %s anywhere.", target.Name)
	}
	if w.InCombat(attacker.ID) {
		tracker := w.Tracker(attacker.ID)
		if !tracker.Has(target.ID) {
			return "", refuse("You have already your share of troubles!")
		}
		if top, _ := tracker.Top(); top == target.ID && tracker.Predefined() == target.ID {
			return "", refuse("You are already doing your best to kill %s!", target.Name)
		}
		tracker.Focus(target.ID)
		return fmt.Sprintf("You focus your attacks on %s!", target.Name), nil
	}
	if !w.IsAtRange(attacker, target, meleeRange) {
		return "", refuse("%s is too far away.", entity.Capitalize(target.Name))
	}
	w.StartCombat(attacker, target, combat.BasicMeleeAttack)
	w.Sendf(target.ID, "%s attacks you!", entity.Capitalize(attacker.Name))
	w.Broadcast(attacker.Room, fmt.Sprintf("%s attacks %s!", entity.Capitalize(attacker.Name), target.Name), attacker.ID, target.ID)
	return fmt.Sprintf("You attack %s.", target.Name), nil
}

// Fire starts a ranged attack against the aimed target.
//
// Postcondition: Returns the message for the attacker, or a *CheckError.
func (w *World) Fire(attacker *entity.Character) (string, error) {
	weapons := combat.ActiveWeapons(attacker, w.arena, true)
	if len(weapons) == 0 {
		return "", refuse("You don't have any ranged weapon equipped.")
	}
	tracker := w.Tracker(attacker.ID)
	target, ok := w.Character(tracker.Aimed())
	if !ok || target.Room == 0 {
		return "", refuse("You first need to aim at someone or something.")
	}
	if !w.IsAtRange(attacker, target, attacker.ViewDistance()) {
		tracker.SetAimed(0)
		return "", refuse("You first need to aim at someone or something.")
	}
	if kind, ok := w.Action(attacker.ID).CombatKind(); ok && kind == combat.BasicRangedAttack && tracker.Has(target.ID) {
		return "", refuse("You are already doing your best to kill %s!", target.Name)
	}
	aimed := target.ID
	w.StartCombat(attacker, target, combat.BasicRangedAttack)
	tracker.SetAimed(aimed)
	w.Sendf(target.ID, "%s fires at you!", entity.Capitalize(attacker.Name))
	return fmt.Sprintf("You start firing at %s...", target.Name), nil
}

// Flee switches the combat action of c to escape attempts.
//
// Postcondition: Returns the message for c, or a *CheckError.
func (w *World) Flee(c *entity.Character) (string, error) {
	if w.Tracker(c.ID).Empty() {
		return "", refuse("You are not fighting with anyone.")
	}
	if kind, ok := w.Action(c.ID).CombatKind(); ok && kind == combat.Flee {
		return "", refuse("You are already trying to flee!")
	}
	w.SetAction(w.NewCombat(c.ID, combat.Flee))
	return "You look for a way out of the fight...", nil
}

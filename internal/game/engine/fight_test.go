package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

// duel starts Ayla (average, short sword) attacking Bren in the same room
// and advances the clock to her first round.
func duel(t *testing.T, f *fixture, brenAbilities entity.Abilities) (ayla, bren *entity.Character, round *engine.Action) {
	t.Helper()
	ayla = f.player("Ayla", average, roomAt(0, 0))
	f.wield(t, ayla, 10)
	bren = f.player("Bren", brenAbilities, roomAt(0, 0))
	msg, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	assert.Equal(t, "You attack Bren.", msg)
	round = f.world.Action(ayla.ID)
	require.Equal(t, engine.KindCombat, round.Kind)
	assert.Equal(t, f.clock.now().Add(8*time.Second), round.Deadline())
	f.clock.advance(8 * time.Second)
	return ayla, bren, round
}

func TestCombat_HitStaysRunningAndRearms(t *testing.T) {
	f := newFixture(t, 15, 4)
	ayla, bren, round := duel(t, f, nimble)
	require.Equal(t, 12, combat.ArmorClass(bren, f.arena))

	assert.Equal(t, engine.Running, round.Perform())
	assert.Equal(t, 34, bren.Health())
	assert.Equal(t, 46, ayla.Stamina())
	assert.Equal(t, f.clock.now().Add(8*time.Second), round.Deadline())
	assert.Contains(t, f.inbox.text(ayla.ID), "You hit Bren with a short sword for 6.")
	assert.Contains(t, f.inbox.text(bren.ID), "Ayla hits you with a short sword for 6.")
}

func TestCombat_MissCostsHalfStamina(t *testing.T) {
	f := newFixture(t, 5)
	ayla, bren, round := duel(t, f, nimble)

	assert.Equal(t, engine.Running, round.Perform())
	assert.Equal(t, 40, bren.Health())
	assert.Equal(t, 48, ayla.Stamina())
	assert.Contains(t, f.inbox.text(ayla.ID), "You miss Bren with a short sword.")
	assert.Contains(t, f.inbox.text(bren.ID), "Ayla misses you with a short sword.")
}

func TestCombat_NaturalTwentyDoubles(t *testing.T) {
	f := newFixture(t, 20, 1)
	_, bren, round := duel(t, f, entity.Abilities{10, 60, 10, 10, 10})
	require.Greater(t, combat.ArmorClass(bren, f.arena), 20)

	assert.Equal(t, engine.Running, round.Perform())
	assert.Equal(t, 34, bren.Health())
	assert.Contains(t, f.inbox.text(bren.ID), "Ayla critically hits you with a short sword for 6.")
}

func TestCombat_TwoHandedBonusBeforeCritical(t *testing.T) {
	f := newFixture(t, 20, 1)
	ayla := f.player("Ayla", entity.Abilities{14, 10, 10, 10, 10}, roomAt(0, 0))
	greatsword := f.arena.NewItem(entity.NewWeaponModel(30, "a greatsword", 6, entity.WeaponSpec{MinDamage: 3, MaxDamage: 8}, entity.FlagTwoHand), 1)
	require.NoError(t, f.arena.Equip(ayla.ID, entity.SlotRightHand, greatsword.ID))
	bren := f.player("Bren", average, roomAt(0, 0))
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	f.clock.advance(time.Minute)

	assert.Equal(t, engine.Running, f.world.Action(ayla.ID).Perform())
	assert.Equal(t, 40-(3+3)*2, bren.Health())
}

func TestCombat_DualWieldPenalty(t *testing.T) {
	f := newFixture(t, 15, 15)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.wield(t, ayla, 10)
	offhand := f.item(t, 10, 1)
	require.NoError(t, f.arena.Equip(ayla.ID, entity.SlotLeftHand, offhand.ID))
	bren := f.player("Bren", average, roomAt(0, 0))
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	f.clock.advance(time.Minute)

	assert.Equal(t, engine.Running, f.world.Action(ayla.ID).Perform())
	assert.Equal(t, 40, bren.Health(), "15-6 and 15-10 both miss armor class 10")
	assert.Equal(t, 46, ayla.Stamina())
}

func TestCombat_KillLeavesCorpseWithBelongings(t *testing.T) {
	f := newFixture(t, 15, 6)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.wield(t, ayla, 10)
	bren := f.player("Bren", average, roomAt(0, 0))
	f.wield(t, bren, 10)
	f.give(t, bren, 21, 1)
	f.give(t, bren, 20, 3)
	bren.SetHealth(5, true)
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	f.clock.advance(8 * time.Second)

	assert.Equal(t, engine.Finished, f.world.Action(ayla.ID).Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You hit Bren with a short sword and kill it.")
	assert.Contains(t, f.inbox.text(ayla.ID), "You stop fighting.")
	assert.Zero(t, bren.Room)
	assert.True(t, f.world.IsDead(bren.ID))
	assert.Equal(t, engine.KindWait, f.world.Action(bren.ID).Kind)
	assert.True(t, f.world.Tracker(bren.ID).Empty())
	assert.True(t, f.world.Tracker(ayla.ID).Empty())
	assert.Equal(t, []bool{false}, f.counters.kills)

	items := f.arena.ItemsIn(roomAt(0, 0))
	require.Len(t, items, 1)
	corpse, _ := f.arena.Item(items[0])
	assert.Equal(t, "the corpse of Bren", corpse.Name())
	assert.Equal(t, 70, corpse.Weight())
	assert.Len(t, f.arena.Contents(corpse.ID), 3)
	assert.Empty(t, f.arena.Inventory(bren.ID))
	assert.Empty(t, f.arena.Equipment(bren.ID))

	require.Equal(t, []string{"kill"}, f.queue.names())
	log := f.apply(t)
	require.Len(t, log.ops, 4)
	assert.Equal(t, "insert "+itoa(corpse.ID), log.ops[0], "corpse is inserted before its contents are updated")
	for _, rec := range log.items[1:] {
		assert.Equal(t, uint64(corpse.ID), rec.Container)
	}
}

func TestCombat_KilledPlayerIsRevived(t *testing.T) {
	f := newFixture(t, 15, 6)
	ayla := f.player("Ayla", average, roomAt(1, 1))
	f.wield(t, ayla, 10)
	bren := f.player("Bren", average, roomAt(1, 1))
	bren.SetHealth(1, true)
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	f.clock.advance(8 * time.Second)
	f.world.PerformActions()
	require.True(t, f.world.IsDead(bren.ID))

	f.clock.advance(5 * time.Second)
	f.world.TicUpdate()
	assert.True(t, f.world.IsDead(bren.ID), "still within the revive delay")

	f.clock.advance(5 * time.Second)
	f.world.TicUpdate()
	assert.False(t, f.world.IsDead(bren.ID))
	assert.Equal(t, roomAt(0, 0), bren.Room)
	assert.Equal(t, bren.MaxHealth(), bren.Health())
	assert.Contains(t, f.inbox.text(bren.ID), "You awaken in Plain 0,0.")
}

func TestCombat_KilledMobileIsRemoved(t *testing.T) {
	f := newFixture(t, 15, 6)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.wield(t, ayla, 10)
	rat := f.mobile("rat", roomAt(0, 0))
	rat.SetHealth(1, true)
	_, err := f.world.Attack(ayla, rat)
	require.NoError(t, err)
	f.clock.advance(8 * time.Second)
	f.world.PerformActions()

	_, ok := f.arena.Character(rat.ID)
	assert.False(t, ok)
	assert.Equal(t, []bool{true}, f.counters.kills)
	assert.Equal(t, engine.KindWait, f.world.Action(ayla.ID).Kind)
}

func TestCombat_OpponentOutOfViewDisengages(t *testing.T) {
	f := newFixture(t)
	ayla, bren, round := duel(t, f, average)
	require.NoError(t, f.arena.PlaceCharacter(bren.ID, roomAt(4, 4)))

	assert.Equal(t, engine.Finished, round.Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You do not have opponents at range for a short sword.")
	assert.Contains(t, f.inbox.text(ayla.ID), "You stop fighting.")
	assert.True(t, f.world.Tracker(ayla.ID).Empty())
	assert.Equal(t, 50, ayla.Stamina())
}

func TestCombat_OpponentInViewKeepsFighting(t *testing.T) {
	f := newFixture(t)
	ayla, bren, round := duel(t, f, average)
	require.NoError(t, f.arena.PlaceCharacter(bren.ID, roomAt(0, 2)))

	assert.Equal(t, engine.Running, round.Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You do not have opponents at range for a short sword.")
	assert.True(t, f.world.Tracker(ayla.ID).Has(bren.ID))
}

func TestAttack_FocusAndRefusals(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(0, 0))
	cara := f.player("Cara", average, roomAt(0, 0))
	dan := f.player("Dan", average, roomAt(0, 0))

	_, err := f.world.Attack(ayla, ayla)
	require.Error(t, err)

	_, err = f.world.Attack(ayla, bren)
	require.NoError(t, err)
	assert.True(t, f.world.Tracker(bren.ID).Has(ayla.ID), "pairing is symmetric")
	assert.True(t, f.world.InCombat(bren.ID))

	f.world.StartCombat(cara, ayla, combat.BasicMeleeAttack)
	assert.Equal(t, []entity.ID{bren.ID, cara.ID}, f.world.Tracker(ayla.ID).Opponents())

	msg, err := f.world.Attack(ayla, cara)
	require.NoError(t, err)
	assert.Equal(t, "You focus your attacks on Cara!", msg)
	assert.Equal(t, []entity.ID{cara.ID, bren.ID}, f.world.Tracker(ayla.ID).Opponents())

	_, err = f.world.Attack(ayla, cara)
	require.Error(t, err)
	assert.Equal(t, "You are already doing your best to kill Cara!", err.Error())

	_, err = f.world.Attack(ayla, dan)
	require.Error(t, err)
	assert.Equal(t, "You have already your share of troubles!", err.Error())
}

func TestFlee_Success(t *testing.T) {
	f := newFixture(t, 15)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.wield(t, ayla, 10)
	bren := f.player("Bren", average, roomAt(0, 0))
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)

	_, err = f.world.Flee(ayla)
	require.NoError(t, err)
	_, err = f.world.Flee(ayla)
	require.Error(t, err, "already fleeing")

	round := f.world.Action(ayla.ID)
	assert.Equal(t, f.clock.now().Add(7*time.Second), round.Deadline())
	f.clock.advance(7 * time.Second)
	assert.Equal(t, engine.Finished, round.Perform())
	assert.Equal(t, roomAt(0, 1), ayla.Room)
	assert.Equal(t, 47, ayla.Stamina())
	assert.False(t, f.world.Tracker(bren.ID).Has(ayla.ID))
	assert.True(t, f.world.Tracker(ayla.ID).Empty())
	assert.Contains(t, f.inbox.text(ayla.ID), "You flee from the fight!")
}

func TestFlee_Failure(t *testing.T) {
	f := newFixture(t, 2)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(0, 0))
	_, err := f.world.Attack(ayla, bren)
	require.NoError(t, err)
	_, err = f.world.Flee(ayla)
	require.NoError(t, err)

	round := f.world.Action(ayla.ID)
	f.clock.advance(time.Minute)
	assert.Equal(t, engine.Running, round.Perform())
	assert.Equal(t, roomAt(0, 0), ayla.Room)
	assert.Contains(t, f.inbox.text(ayla.ID), "You were not able to escape from your attackers.")
	kind, _ := round.CombatKind()
	assert.Equal(t, combat.Flee, kind)
}

func TestFlee_NotFighting(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	_, err := f.world.Flee(ayla)
	require.Error(t, err)
}

// archer equips Ayla with a longbow loaded with a quiver of arrows.
func archer(t *testing.T, f *fixture, arrows int) (ayla *entity.Character, bow, quiver, ammo *entity.Item) {
	t.Helper()
	ayla = f.player("Ayla", average, roomAt(0, 0))
	bow = f.wield(t, ayla, 11)
	quiver = f.item(t, 12, 1)
	require.NoError(t, f.arena.PutInside(bow.ID, quiver.ID))
	ammo = f.item(t, 13, arrows)
	require.NoError(t, f.arena.PutInside(quiver.ID, ammo.ID))
	return ayla, bow, quiver, ammo
}

func TestRanged_AimThenFire(t *testing.T) {
	f := newFixture(t, 15, 3)
	ayla, _, _, ammo := archer(t, f, 3)
	bren := f.player("Bren", average, roomAt(0, 2))

	_, err := f.world.Fire(ayla)
	require.Error(t, err)
	assert.Equal(t, "You first need to aim at someone or something.", err.Error())

	aim := f.world.NewAim(ayla.ID, bren.ID)
	require.NoError(t, aim.Check())
	assert.Equal(t, f.clock.now().Add(2*time.Second), aim.Deadline())
	f.clock.advance(2 * time.Second)
	assert.Equal(t, engine.Finished, aim.Perform())
	assert.Equal(t, bren.ID, f.world.Tracker(ayla.ID).Aimed())
	assert.Contains(t, f.inbox.text(ayla.ID), "You have Bren in your sights...")

	msg, err := f.world.Fire(ayla)
	require.NoError(t, err)
	assert.Equal(t, "You start firing at Bren...", msg)

	round := f.world.Action(ayla.ID)
	f.clock.advance(8 * time.Second)
	assert.Equal(t, engine.Running, round.Perform())
	assert.Equal(t, 35, bren.Health())
	assert.Equal(t, 46, ayla.Stamina())
	assert.Equal(t, 2, ammo.Quantity)
	kind, _ := round.CombatKind()
	assert.Equal(t, combat.BasicRangedAttack, kind)
}

func TestRanged_EmptyMagazineNeedsReload(t *testing.T) {
	f := newFixture(t)
	ayla, bow, quiver, ammo := archer(t, f, 1)
	f.arena.DestroyItem(ammo.ID)
	require.Empty(t, f.arena.Contents(quiver.ID))
	bren := f.player("Bren", average, roomAt(0, 1))
	f.world.Tracker(ayla.ID).SetAimed(bren.ID)

	_, err := f.world.Fire(ayla)
	require.NoError(t, err)
	f.clock.advance(time.Minute)
	assert.Equal(t, engine.Running, f.world.Action(ayla.ID).Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You need to reload "+bow.Name()+".")
	assert.Equal(t, 40, bren.Health())
}

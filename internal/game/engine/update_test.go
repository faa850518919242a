package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

func TestHourlyUpdate_CorpseRotsAndDropsContents(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	corpse := f.item(t, 900, 1)
	corpse.CustomName = "the corpse of Bren"
	require.NoError(t, f.arena.PlaceItem(corpse.ID, roomAt(0, 0)))
	sword := f.item(t, 10, 1)
	require.NoError(t, f.arena.PutInside(corpse.ID, sword.ID))

	for hour := 1; hour <= 4; hour++ {
		f.world.HourlyUpdate(hour)
	}
	_, ok := f.arena.Item(corpse.ID)
	require.True(t, ok, "decay 20 lasts five hours")

	f.world.HourlyUpdate(5)
	_, ok = f.arena.Item(corpse.ID)
	assert.False(t, ok)
	assert.Equal(t, entity.Location{Kind: entity.InRoom, Room: roomAt(0, 0)}, f.arena.Location(sword.ID))
	assert.Equal(t, 100, sword.Condition)
	assert.Contains(t, f.inbox.text(ayla.ID), "The corpse of Bren rots away.")
	assert.Contains(t, f.queue.names(), "decay")
}

func TestHourlyUpdate_NourishmentAndSnapshot(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	ayla.Hunger, ayla.Thirst = 100, 5
	f.mobile("a wolf", roomAt(1, 1))

	f.world.HourlyUpdate(7)
	assert.Equal(t, 90, ayla.Hunger)
	assert.Equal(t, 0, ayla.Thirst)
	assert.Equal(t, []string{"save character"}, f.queue.names(), "mobiles are not saved")

	log := f.apply(t)
	require.Len(t, log.characters, 1)
	assert.Equal(t, "Ayla", log.characters[0].Name)
	assert.Equal(t, 90, log.characters[0].Hunger)
}

func TestTicUpdate_RegeneratesAndExpiresEffects(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	ayla.RemStamina(10, true)
	ayla.InSight = []entity.ID{42}
	ayla.AddEffect(entity.Effect{
		Kind:          entity.EffectClearTargets,
		Name:          "scouted",
		ExpireMessage: "You have lost track of your surroundings.",
		Remaining:     1,
	})

	f.world.TicUpdate()
	assert.Greater(t, ayla.Stamina(), 40)
	assert.Empty(t, ayla.InSight)
	assert.Contains(t, f.inbox.text(ayla.ID), "You have lost track of your surroundings.")
}

func TestPopulate(t *testing.T) {
	f := newFixture(t)
	f.area.Mobiles = []world.MobileSpawn{
		{Name: "a wolf", Race: "human", Room: roomAt(2, 2), Abilities: [5]int{12, 12, 10, 8, 10}, Weapon: 10, Aggressive: true},
		{Name: "a ghost", Race: "spirit", Room: roomAt(2, 2)},
		{Name: "a lost dog", Race: "human", Room: 9999},
	}
	f.area.Items = []world.ItemSpawn{{Model: 20, Room: roomAt(1, 1), Quantity: 3}, {Model: 404, Room: roomAt(1, 1)}}

	mobiles, items, err := f.world.Populate()
	assert.Equal(t, 1, mobiles)
	assert.Equal(t, 1, items)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	wolf, ok := f.arena.FindCharacterIn(roomAt(2, 2), "wolf", 0)
	require.True(t, ok)
	assert.True(t, wolf.Aggressive)
	assert.Equal(t, 12, wolf.BaseAbility(entity.Strength))
	weapon, ok := f.arena.Equipped(wolf.ID, entity.SlotRightHand)
	require.True(t, ok)
	assert.Equal(t, 10, weapon.Model.Vnum)

	logs, ok := f.arena.FindInRoom(roomAt(1, 1), "log")
	require.True(t, ok)
	assert.Equal(t, 3, logs.Quantity)
}

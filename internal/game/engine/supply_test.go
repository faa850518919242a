package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

func TestPut_RespectsContainerBound(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(0, 0))
	pack := f.give(t, ayla, 30, 1)
	logs := f.give(t, ayla, 20, 2)
	f.give(t, ayla, 10, 1)

	msg, err := f.world.Put(ayla, "log", "backpack")
	require.NoError(t, err)
	assert.Equal(t, "You put a log (2) in a backpack.", msg)
	assert.Equal(t, entity.Location{Kind: entity.InContainer, Container: pack.ID}, f.arena.Location(logs.ID))
	assert.Contains(t, f.inbox.text(bren.ID), "Ayla puts a log (2) in a backpack.")
	assert.Equal(t, []string{"put item"}, f.queue.names())

	_, err = f.world.Put(ayla, "sword", "backpack")
	assert.EqualError(t, err, "A backpack can't hold a short sword.")
	_, err = f.world.Put(ayla, "backpack", "backpack")
	assert.EqualError(t, err, "You can't put a backpack inside itself.")
	_, err = f.world.Put(ayla, "backpack", "sword")
	assert.EqualError(t, err, "A short sword is not a container.")
	_, err = f.world.Put(ayla, "sword", "chest")
	assert.EqualError(t, err, "You don't see chest here.")
}

func TestPut_ContainerOnTheGround(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	pack := f.item(t, 30, 1)
	require.NoError(t, f.arena.PlaceItem(pack.ID, roomAt(0, 0)))
	sword := f.give(t, ayla, 10, 1)

	_, err := f.world.Put(ayla, "sword", "backpack")
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{sword.ID}, f.arena.Contents(pack.ID))

	msg, err := f.world.Take(ayla, "sword", "backpack")
	require.NoError(t, err)
	assert.Equal(t, "You take a short sword from a backpack.", msg)
}

func TestGive(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(0, 0))
	cara := f.player("Cara", average, roomAt(0, 0))
	sword := f.give(t, ayla, 10, 1)

	msg, err := f.world.Give(ayla, "sword", "bren")
	require.NoError(t, err)
	assert.Equal(t, "You give a short sword to Bren.", msg)
	assert.Equal(t, entity.Location{Kind: entity.InInventory, Owner: bren.ID}, f.arena.Location(sword.ID))
	assert.Contains(t, f.inbox.text(bren.ID), "Ayla gives you a short sword.")
	assert.Contains(t, f.inbox.text(cara.ID), "Ayla gives a short sword to Bren.")
	assert.NotContains(t, f.inbox.text(bren.ID), "to Bren")

	_, err = f.world.Give(ayla, "sword", "bren")
	assert.EqualError(t, err, "You don't have sword.")
	f.give(t, ayla, 10, 1)
	_, err = f.world.Give(ayla, "sword", "ghost")
	assert.EqualError(t, err, "You don't see ghost here.")
}

func TestEat_ConsumesOneUnit(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	ayla.Hunger = 50
	beans := f.give(t, ayla, 31, 2)

	msg, err := f.world.Eat(ayla, "beans")
	require.NoError(t, err)
	assert.Equal(t, "You eat a can of beans.", msg)
	assert.Equal(t, 80, ayla.Hunger)
	assert.Equal(t, 1, beans.Quantity)

	_, err = f.world.Eat(ayla, "beans")
	require.NoError(t, err)
	assert.Equal(t, 100, ayla.Hunger, "hunger is capped")
	_, alive := f.arena.Item(beans.ID)
	assert.False(t, alive)
	assert.Equal(t, []string{"consume item", "consume item"}, f.queue.names())

	f.give(t, ayla, 31, 1)
	_, err = f.world.Eat(ayla, "beans")
	assert.EqualError(t, err, "You are not hungry.")
}

func TestDrink(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.give(t, ayla, 32, 1)

	_, err := f.world.Drink(ayla, "water")
	assert.EqualError(t, err, "You are not thirsty.")
	_, err = f.world.Eat(ayla, "water")
	assert.EqualError(t, err, "You can't eat a bottle of water.")

	ayla.Thirst = 10
	msg, err := f.world.Drink(ayla, "water")
	require.NoError(t, err)
	assert.Equal(t, "You drink a bottle of water.", msg)
	assert.Equal(t, 50, ayla.Thirst)
	assert.Empty(t, f.arena.Inventory(ayla.ID))

	_, err = f.world.Drink(ayla, "water")
	assert.EqualError(t, err, "You don't have water.")
}

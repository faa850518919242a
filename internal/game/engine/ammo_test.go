package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

func TestLoad_SplitsStackIntoMagazine(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	quiver := f.give(t, ayla, 12, 1)
	arrows := f.give(t, ayla, 13, 10)

	load := f.world.NewLoad(ayla.ID, quiver.ID, arrows.ID, 4)
	require.NoError(t, load.Check())
	assert.Equal(t, f.clock.now().Add(3*time.Second), load.Deadline())
	f.clock.advance(3 * time.Second)
	require.Equal(t, engine.Finished, load.Perform())

	assert.Equal(t, 6, arrows.Quantity)
	inside := f.arena.Contents(quiver.ID)
	require.Len(t, inside, 1)
	loaded, _ := f.arena.Item(inside[0])
	assert.Equal(t, 4, loaded.Quantity)
	assert.Contains(t, f.inbox.text(ayla.ID), "You have loaded a quiver with 4 arrows.")

	again := f.world.NewLoad(ayla.ID, quiver.ID, arrows.ID, 6)
	f.clock.advance(time.Minute)
	require.Equal(t, engine.Finished, again.Perform())
	assert.Equal(t, 10, loaded.Quantity, "merged into the loaded stack")
	_, ok := f.arena.Item(arrows.ID)
	assert.False(t, ok)
}

func TestLoad_Refusals(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	quiver := f.give(t, ayla, 12, 1)
	arrows := f.give(t, ayla, 13, 30)
	logs := f.give(t, ayla, 20, 2)
	elsewhere := f.item(t, 13, 5)

	cases := []struct {
		name       string
		projectile entity.ID
		amount     int
	}{
		{name: "zero", projectile: arrows.ID, amount: 0},
		{name: "too many", projectile: arrows.ID, amount: 31},
		{name: "over capacity", projectile: arrows.ID, amount: 21},
		{name: "not a projectile", projectile: logs.ID, amount: 1},
		{name: "not held", projectile: elsewhere.ID, amount: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, f.world.NewLoad(ayla.ID, quiver.ID, tc.projectile, tc.amount).Check())
		})
	}
}

func TestReloadAndUnload(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bow := f.wield(t, ayla, 11)
	first := f.give(t, ayla, 12, 1)
	second := f.give(t, ayla, 12, 1)

	reload := f.world.NewReload(ayla.ID, bow.ID, first.ID)
	require.NoError(t, reload.Check())
	f.clock.advance(2 * time.Second)
	require.Equal(t, engine.Finished, reload.Perform())
	assert.Equal(t, []entity.ID{first.ID}, f.arena.Contents(bow.ID))
	assert.Contains(t, f.inbox.text(ayla.ID), "You have reloaded a longbow with a quiver.")

	swap := f.world.NewReload(ayla.ID, bow.ID, second.ID)
	f.clock.advance(2 * time.Second)
	require.Equal(t, engine.Finished, swap.Perform())
	assert.Equal(t, []entity.ID{second.ID}, f.arena.Contents(bow.ID))
	assert.Equal(t, entity.InInventory, f.arena.Location(first.ID).Kind)

	unload := f.world.NewUnload(ayla.ID, bow.ID)
	require.NoError(t, unload.Check())
	f.clock.advance(time.Second)
	require.Equal(t, engine.Finished, unload.Perform())
	assert.Empty(t, f.arena.Contents(bow.ID))
	assert.Equal(t, entity.InInventory, f.arena.Location(second.ID).Kind)

	assert.Error(t, f.world.NewUnload(ayla.ID, bow.ID).Check(), "already empty")
}

func TestReload_WrongMagazine(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	sword := f.wield(t, ayla, 10)
	quiver := f.give(t, ayla, 12, 1)
	assert.Error(t, f.world.NewReload(ayla.ID, sword.ID, quiver.ID).Check())
}

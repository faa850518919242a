package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

func TestBuild_ConsumesIngredientsAndWearsTools(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	fire := f.give(t, ayla, 22, 1)
	flint := f.give(t, ayla, 21, 1)
	logs := f.give(t, ayla, 20, 3)
	campfire, _ := f.cat.Building("campfire")

	build, err := f.world.NewBuild(ayla.ID, campfire)
	require.NoError(t, err)
	require.NoError(t, build.Check())
	assert.Equal(t, "building", build.Description())
	assert.Equal(t, engine.Running, build.Perform())

	f.clock.advance(4 * time.Second)
	assert.Equal(t, engine.Finished, build.Perform())
	assert.Equal(t, entity.InRoom, f.arena.Location(fire.ID).Kind)
	assert.Equal(t, 1, logs.Quantity)
	assert.Equal(t, 99, flint.Condition)
	assert.Contains(t, f.inbox.text(ayla.ID), "You have finished building a campfire.")
	assert.Less(t, ayla.Stamina(), 50)
}

func TestBuild_ExactQuantityDestroysStack(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.give(t, ayla, 22, 1)
	f.give(t, ayla, 21, 1)
	logs := f.give(t, ayla, 20, 2)
	campfire, _ := f.cat.Building("campfire")

	build, err := f.world.NewBuild(ayla.ID, campfire)
	require.NoError(t, err)
	f.clock.advance(4 * time.Second)
	require.Equal(t, engine.Finished, build.Perform())
	_, ok := f.arena.Item(logs.ID)
	assert.False(t, ok)
}

func TestBuild_MissingPieces(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	campfire, _ := f.cat.Building("campfire")

	_, err := f.world.NewBuild(ayla.ID, campfire)
	require.Error(t, err)
	assert.Equal(t, "You don't have a campfire.", err.Error())

	f.give(t, ayla, 22, 1)
	_, err = f.world.NewBuild(ayla.ID, campfire)
	assert.Equal(t, "You don't have the right tool: firestarter.", err.Error())

	f.give(t, ayla, 21, 1)
	f.give(t, ayla, 20, 1)
	_, err = f.world.NewBuild(ayla.ID, campfire)
	assert.Equal(t, "You don't have enough of wood.", err.Error())
}

func TestBuild_ShortfallConsumesNothing(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	fire := f.give(t, ayla, 22, 1)
	flint := f.give(t, ayla, 21, 1)
	logs := f.give(t, ayla, 20, 2)
	campfire, _ := f.cat.Building("campfire")
	build, err := f.world.NewBuild(ayla.ID, campfire)
	require.NoError(t, err)

	logs.Quantity = 1
	f.clock.advance(4 * time.Second)
	assert.Equal(t, engine.Error, build.Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You don't have enough of wood.")
	assert.Equal(t, entity.InInventory, f.arena.Location(fire.ID).Kind)
	assert.Equal(t, 1, logs.Quantity)
	assert.Equal(t, 100, flint.Condition)
	assert.Equal(t, 50, ayla.Stamina())
}

func TestBuild_ToolFallsIntoPieces(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.give(t, ayla, 22, 1)
	flint := f.give(t, ayla, 21, 1)
	flint.Condition = 1
	f.give(t, ayla, 20, 2)
	campfire, _ := f.cat.Building("campfire")
	build, err := f.world.NewBuild(ayla.ID, campfire)
	require.NoError(t, err)

	f.clock.advance(4 * time.Second)
	require.Equal(t, engine.Finished, build.Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "A flint falls into pieces.")
	_, ok := f.arena.Item(flint.ID)
	assert.False(t, ok)
}

func TestCraft_OutcomeGoesToInventory(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.give(t, ayla, 21, 1)
	f.give(t, ayla, 20, 1)
	arrows, _ := f.cat.Production("arrows")

	craft, err := f.world.NewCraft(ayla.ID, arrows)
	require.NoError(t, err)
	assert.Equal(t, "fletching", craft.Description())
	assert.Equal(t, "You stop fletching.", craft.Stop())
	f.clock.advance(3 * time.Second)
	require.Equal(t, engine.Finished, craft.Perform())

	made, ok := f.arena.FindInInventory(ayla.ID, "arrow")
	require.True(t, ok)
	assert.Equal(t, 5, made.Quantity)
	assert.Equal(t, "Ayla", made.Maker)
	assert.Contains(t, f.inbox.text(ayla.ID), "You have finished fletching an arrow (5).")
	assert.Contains(t, f.queue.names(), "craft")
}

func TestCraft_OverloadedMakerLeavesOutcomeOnGround(t *testing.T) {
	f := newFixture(t)
	logs := f.observe()
	ayla := f.player("Ayla", average, roomAt(0, 0))
	f.give(t, ayla, 21, 1)
	f.give(t, ayla, 20, 1)
	f.give(t, ayla, 22, 1)
	arrows, _ := f.cat.Production("arrows")

	craft, err := f.world.NewCraft(ayla.ID, arrows)
	require.NoError(t, err)
	f.clock.advance(3 * time.Second)
	require.Equal(t, engine.Finished, craft.Perform())

	made, ok := f.arena.FindInRoom(roomAt(0, 0), "arrow")
	require.True(t, ok)
	assert.Equal(t, 5, made.Quantity)
	assert.Contains(t, f.inbox.text(ayla.ID), "you leave it on the ground")
	assert.Zero(t, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

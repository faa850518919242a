package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/entity"
	"github.com/HexColors60/RadMud/internal/game/world"
)

func TestMove_CooldownGatesPerform(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	watcher := f.player("Cara", average, roomAt(0, 0))
	greeter := f.player("Bren", average, roomAt(1, 0))

	move := f.world.NewMove(ayla.ID, world.East)
	require.NoError(t, move.Check())
	assert.Equal(t, f.clock.now().Add(time.Second), move.Deadline())

	assert.Equal(t, engine.Running, move.Perform())
	assert.Equal(t, roomAt(0, 0), ayla.Room, "no side effects before the deadline")
	assert.Equal(t, 50, ayla.Stamina())

	f.clock.advance(time.Second)
	assert.Equal(t, engine.Finished, move.Perform())
	assert.Equal(t, roomAt(1, 0), ayla.Room)
	assert.Equal(t, 48, ayla.Stamina())
	assert.Contains(t, f.inbox.text(watcher.ID), "Ayla goes east.")
	assert.Contains(t, f.inbox.text(greeter.ID), "Ayla arrives from west.")
	assert.Contains(t, f.inbox.text(ayla.ID), "Plain 1,0")
}

func TestMove_CrouchedIsSlower(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	ayla.Posture = entity.Prone
	move := f.world.NewMove(ayla.ID, world.North)
	assert.Equal(t, f.clock.now().Add(3*time.Second), move.Deadline())
}

func TestCanMoveTo_Rules(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *fixture, c *entity.Character)
		dir   world.Direction
		want  string
	}{
		{
			name:  "sitting",
			setup: func(_ *fixture, c *entity.Character) { c.Posture = entity.Sit },
			dir:   world.North,
			want:  "You first need to stand up.",
		},
		{
			name:  "no exit",
			setup: func(*fixture, *entity.Character) {},
			dir:   world.West,
			want:  "You cannot go that way.",
		},
		{
			name:  "exhausted",
			setup: func(_ *fixture, c *entity.Character) { c.SetStamina(0, true) },
			dir:   world.North,
			want:  "You are too tired to move.",
		},
		{
			name: "no stairs",
			setup: func(f *fixture, _ *entity.Character) {
				r := f.room(roomAt(0, 0))
				r.Exits = append(r.Exits, world.Exit{Direction: world.Up, Destination: roomAt(1, 1)})
			},
			dir:  world.Up,
			want: "You can't go upstairs, there are no stairs.",
		},
		{
			name: "dangling exit",
			setup: func(f *fixture, _ *entity.Character) {
				r := f.room(roomAt(0, 0))
				r.Exits = append(r.Exits, world.Exit{Direction: world.Down, Destination: 999})
			},
			dir:  world.Down,
			want: "That direction can't take you anywhere.",
		},
		{
			name:  "closed door",
			setup: func(f *fixture, _ *entity.Character) { f.room(roomAt(1, 0)).Door = world.DoorClosed },
			dir:   world.East,
			want:  "Maybe you have to open that door first.",
		},
		{
			name: "pit",
			setup: func(f *fixture, _ *entity.Character) {
				r := f.room(roomAt(0, 1))
				r.Exits = append(r.Exits, world.Exit{Direction: world.Down, Destination: roomAt(4, 4)})
			},
			dir:  world.North,
			want: "Do you really want to fall in that pit?",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ayla := f.player("Ayla", average, roomAt(0, 0))
			tc.setup(f, ayla)
			_, err := f.world.CanMoveTo(ayla, tc.dir)
			var check *engine.CheckError
			require.True(t, errors.As(err, &check), "got %v", err)
			assert.Equal(t, tc.want, check.Message)
		})
	}
}

func TestCanMoveTo_NoMobExitRefusesMobilesSilently(t *testing.T) {
	f := newFixture(t)
	r := f.room(roomAt(0, 0))
	for i := range r.Exits {
		r.Exits[i].Flags |= world.ExitNoMob
	}
	rat := f.mobile("rat", roomAt(0, 0))
	ayla := f.player("Ayla", average, roomAt(0, 0))

	_, err := f.world.CanMoveTo(rat, world.North)
	require.Error(t, err)
	assert.Empty(t, err.Error())

	dest, err := f.world.CanMoveTo(ayla, world.North)
	require.NoError(t, err)
	assert.Equal(t, roomAt(0, 1), dest.Vnum)
}

func TestMove_StaleDestinationFails(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	move := f.world.NewMove(ayla.ID, world.East)
	require.NoError(t, move.Check())

	f.room(roomAt(1, 0)).Door = world.DoorClosed
	f.clock.advance(time.Second)
	assert.Equal(t, engine.Error, move.Perform())
	assert.Equal(t, roomAt(0, 0), ayla.Room)
	assert.Contains(t, f.inbox.text(ayla.ID), "Maybe you have to open that door first.")
}

func TestSetAction_SingleActiveAction(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	first := f.world.NewMove(ayla.ID, world.North)
	second := f.world.NewScout(ayla.ID)
	f.world.SetAction(first)
	f.world.SetAction(second)
	assert.Same(t, second, f.world.Action(ayla.ID))

	assert.Equal(t, "You stop scouting the area.", f.world.StopAction(ayla.ID))
	assert.Equal(t, engine.KindWait, f.world.Action(ayla.ID).Kind)
	assert.Empty(t, f.world.StopAction(ayla.ID))
}

func TestPerformActions_InstallsIdleWhenDone(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(4, 4))
	f.world.SetAction(f.world.NewMove(ayla.ID, world.North))
	f.world.SetAction(f.world.NewMove(bren.ID, world.East))

	f.world.PerformActions()
	assert.Equal(t, engine.KindMove, f.world.Action(ayla.ID).Kind)
	assert.Empty(t, f.counters.performed, "nothing is due yet")

	f.clock.advance(time.Second)
	f.world.PerformActions()
	assert.Equal(t, engine.KindWait, f.world.Action(ayla.ID).Kind)
	assert.Equal(t, engine.KindWait, f.world.Action(bren.ID).Kind)
	assert.Equal(t, roomAt(0, 1), ayla.Room)
	assert.Equal(t, roomAt(4, 4), bren.Room)
	assert.Equal(t, []string{"move/finished", "move/error"}, f.counters.performed)
}

func TestScout_FindsAndForgetsTargets(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	bren := f.player("Bren", average, roomAt(1, 1))
	f.player("Dara", average, roomAt(4, 4))

	scout := f.world.NewScout(ayla.ID)
	require.NoError(t, scout.Check())
	assert.Equal(t, f.clock.now().Add(4*time.Second), scout.Deadline())

	f.clock.advance(4 * time.Second)
	assert.Equal(t, engine.Finished, scout.Perform())
	assert.Equal(t, []entity.ID{bren.ID}, ayla.InSight)
	assert.Contains(t, f.inbox.text(ayla.ID), "Nearby you can see...\n    Bren\n")
	assert.True(t, ayla.Effects.Has(entity.EffectClearTargets))

	f.world.TicUpdate()
	assert.NotEmpty(t, ayla.InSight)
	f.world.TicUpdate()
	assert.Empty(t, ayla.InSight)
}

func TestScout_NothingFound(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	scout := f.world.NewScout(ayla.ID)
	f.clock.advance(4 * time.Second)
	assert.Equal(t, engine.Error, scout.Perform())
	assert.Contains(t, f.inbox.text(ayla.ID), "You have found nothing...")
}

func TestScout_TooTired(t *testing.T) {
	f := newFixture(t)
	ayla := f.player("Ayla", average, roomAt(0, 0))
	ayla.SetStamina(1, true)
	err := f.world.NewScout(ayla.ID).Check()
	require.Error(t, err)
	assert.Equal(t, "You are too tired to scout the area.", err.Error())
}

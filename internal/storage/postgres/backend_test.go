package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexColors60/RadMud/internal/storage"
	"github.com/HexColors60/RadMud/internal/storage/postgres"
	"github.com/HexColors60/RadMud/internal/testutil"
)

func apply(t *testing.T, backend *postgres.Backend, fn func(b storage.Batch) error) {
	t.Helper()
	ctx := context.Background()
	b, err := backend.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, fn(b))
	require.NoError(t, b.Commit(ctx))
}

func TestBackend_CharacterRoundTrip(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	backend := postgres.NewBackend(pc.RawPool)
	ctx := context.Background()

	rec := storage.CharacterRecord{
		ID: 10, Name: "Ayla", Race: "human", Gender: 2,
		Abilities: [5]int{10, 14, 12, 10, 8},
		Health:    30, Stamina: 44, Room: 101, Hunger: 90, Thirst: 80,
		UpdatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	quiver := storage.ItemRecord{ID: 11, Model: 12, Quantity: 1, Condition: 100, Location: storage.LocationInventory, Owner: 10}
	arrows := storage.ItemRecord{ID: 12, Model: 13, Quantity: 7, Condition: 100, Location: storage.LocationContainer, Container: 11}
	sword := storage.ItemRecord{ID: 13, Model: 10, Quantity: 1, Condition: 90, Location: storage.LocationEquipment, Owner: 10, Slot: 3}
	dropped := storage.ItemRecord{ID: 14, Model: 20, Quantity: 2, Condition: 100, Location: storage.LocationRoom, Room: 101}

	apply(t, backend, func(b storage.Batch) error {
		require.NoError(t, b.UpdateCharacter(ctx, rec))
		for _, it := range []storage.ItemRecord{quiver, arrows, sword, dropped} {
			require.NoError(t, b.InsertItem(ctx, it))
		}
		return nil
	})

	got, items, err := backend.LoadCharacter(ctx, "ayla")
	require.NoError(t, err)
	assert.Equal(t, rec.Abilities, got.Abilities)
	assert.Equal(t, 30, got.Health)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, []storage.ItemRecord{quiver, arrows, sword}, items)

	arrows.Quantity = 6
	rec.Room = 102
	apply(t, backend, func(b storage.Batch) error {
		require.NoError(t, b.UpdateItem(ctx, arrows))
		require.NoError(t, b.DeleteItem(ctx, sword.ID))
		return b.UpdateCharacter(ctx, rec)
	})
	got, items, err = backend.LoadCharacter(ctx, "Ayla")
	require.NoError(t, err)
	assert.Equal(t, 102, got.Room)
	assert.Equal(t, []storage.ItemRecord{quiver, arrows}, items)

	maxID, err := backend.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), maxID)
}

func TestBackend_RollbackDiscards(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	backend := postgres.NewBackend(pc.RawPool)
	ctx := context.Background()

	b, err := backend.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.UpdateCharacter(ctx, storage.CharacterRecord{ID: 1, Name: "Ghost", Race: "human", Room: 1}))
	require.NoError(t, b.Rollback(ctx))
	require.NoError(t, b.Rollback(ctx), "second rollback is harmless")

	_, _, err = backend.LoadCharacter(ctx, "Ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBackend_DuplicateInsertFails(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	backend := postgres.NewBackend(pc.RawPool)
	ctx := context.Background()
	it := storage.ItemRecord{ID: 5, Model: 10, Quantity: 1, Condition: 100}

	apply(t, backend, func(b storage.Batch) error { return b.InsertItem(ctx, it) })
	b, err := backend.Begin(ctx)
	require.NoError(t, err)
	assert.Error(t, b.InsertItem(ctx, it))
	require.NoError(t, b.Rollback(ctx))
}

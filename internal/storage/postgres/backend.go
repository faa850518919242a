package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HexColors60/RadMud/internal/storage"
)

// Backend persists characters and items in PostgreSQL.
type Backend struct {
	db *pgxpool.Pool
}

// NewBackend creates a Backend over db.
//
// Precondition: db must be a valid, open connection pool with the schema
// migrated.
func NewBackend(db *pgxpool.Pool) *Backend {
	return &Backend{db: db}
}

// Begin opens a transaction.
func (b *Backend) Begin(ctx context.Context) (storage.Batch, error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &batch{tx: tx}, nil
}

const characterColumns = `id, name, race, gender, abilities, health, stamina, posture, room, hunger, thirst, updated_at`

const itemColumns = `id, model, quantity, condition, maker, custom_name, custom_weight, location, room, owner, container, slot`

// LoadCharacter returns the character named name, case-insensitively, and
// every item it owns directly or through containers.
//
// Postcondition: Returns storage.ErrNotFound when no such character exists.
func (b *Backend) LoadCharacter(ctx context.Context, name string) (storage.CharacterRecord, []storage.ItemRecord, error) {
	var rec storage.CharacterRecord
	var abilities []int32
	err := b.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE LOWER(name) = LOWER($1)`,
		name,
	).Scan(&rec.ID, &rec.Name, &rec.Race, &rec.Gender, &abilities, &rec.Health, &rec.Stamina,
		&rec.Posture, &rec.Room, &rec.Hunger, &rec.Thirst, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.CharacterRecord{}, nil, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, nil, fmt.Errorf("querying character %s: %w", name, err)
	}
	for i := 0; i < len(rec.Abilities) && i < len(abilities); i++ {
		rec.Abilities[i] = int(abilities[i])
	}

	rows, err := b.db.Query(ctx,
		`WITH RECURSIVE owned AS (
			SELECT `+itemColumns+` FROM items
			 WHERE owner = $1 AND location IN ('inventory', 'equipment')
			UNION ALL
			SELECT i.id, i.model, i.quantity, i.condition, i.maker, i.custom_name, i.custom_weight,
			       i.location, i.room, i.owner, i.container, i.slot
			  FROM items i JOIN owned o ON i.container = o.id AND i.location = 'container'
		)
		SELECT `+itemColumns+` FROM owned ORDER BY id`,
		int64(rec.ID),
	)
	if err != nil {
		return storage.CharacterRecord{}, nil, fmt.Errorf("querying items of %s: %w", name, err)
	}
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return storage.CharacterRecord{}, nil, fmt.Errorf("scanning items of %s: %w", name, err)
	}
	return rec, items, nil
}

func scanItem(row pgx.CollectableRow) (storage.ItemRecord, error) {
	var it storage.ItemRecord
	err := row.Scan(&it.ID, &it.Model, &it.Quantity, &it.Condition, &it.Maker, &it.CustomName,
		&it.CustomWeight, &it.Location, &it.Room, &it.Owner, &it.Container, &it.Slot)
	return it, err
}

// MaxID returns the highest character or item ID stored.
func (b *Backend) MaxID(ctx context.Context) (uint64, error) {
	var id int64
	err := b.db.QueryRow(ctx,
		`SELECT GREATEST(
			COALESCE((SELECT MAX(id) FROM characters), 0),
			COALESCE((SELECT MAX(id) FROM items), 0))`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("querying max id: %w", err)
	}
	return uint64(id), nil
}

// batch applies storage operations inside one pgx transaction.
type batch struct {
	tx pgx.Tx
}

func (b *batch) InsertItem(ctx context.Context, it storage.ItemRecord) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		itemArgs(it)...,
	)
	if err != nil {
		return fmt.Errorf("inserting item %d: %w", it.ID, err)
	}
	return nil
}

// UpdateItem upserts, so an update whose insert was dropped still lands.
func (b *batch) UpdateItem(ctx context.Context, it storage.ItemRecord) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
			model = EXCLUDED.model, quantity = EXCLUDED.quantity, condition = EXCLUDED.condition,
			maker = EXCLUDED.maker, custom_name = EXCLUDED.custom_name,
			custom_weight = EXCLUDED.custom_weight, location = EXCLUDED.location,
			room = EXCLUDED.room, owner = EXCLUDED.owner, container = EXCLUDED.container,
			slot = EXCLUDED.slot`,
		itemArgs(it)...,
	)
	if err != nil {
		return fmt.Errorf("updating item %d: %w", it.ID, err)
	}
	return nil
}

func (b *batch) DeleteItem(ctx context.Context, id uint64) error {
	if _, err := b.tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	return nil
}

func (b *batch) UpdateCharacter(ctx context.Context, c storage.CharacterRecord) error {
	abilities := make([]int32, len(c.Abilities))
	for i, v := range c.Abilities {
		abilities[i] = int32(v)
	}
	_, err := b.tx.Exec(ctx,
		`INSERT INTO characters (`+characterColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
			race = EXCLUDED.race, gender = EXCLUDED.gender, abilities = EXCLUDED.abilities,
			health = EXCLUDED.health, stamina = EXCLUDED.stamina, posture = EXCLUDED.posture,
			room = EXCLUDED.room, hunger = EXCLUDED.hunger, thirst = EXCLUDED.thirst,
			updated_at = EXCLUDED.updated_at`,
		int64(c.ID), c.Name, c.Race, c.Gender, abilities, c.Health, c.Stamina,
		c.Posture, c.Room, c.Hunger, c.Thirst, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting character %s: %w", c.Name, err)
	}
	return nil
}

func (b *batch) Commit(ctx context.Context) error { return b.tx.Commit(ctx) }

func (b *batch) Rollback(ctx context.Context) error {
	if err := b.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func itemArgs(it storage.ItemRecord) []any {
	return []any{
		int64(it.ID), it.Model, it.Quantity, it.Condition, it.Maker, it.CustomName,
		it.CustomWeight, it.Location, it.Room, int64(it.Owner), int64(it.Container), it.Slot,
	}
}

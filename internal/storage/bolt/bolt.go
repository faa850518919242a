// Package bolt implements the storage backend and account store on an
// embedded bbolt file, for single-process deployments without PostgreSQL.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/HexColors60/RadMud/internal/storage"
)

var (
	bucketAccounts   = []byte("accounts")
	bucketCharacters = []byte("characters")
	bucketNames      = []byte("character_names")
	bucketItems      = []byte("items")
)

// Store is a bbolt database holding accounts, characters and items.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens or creates the database file at path and ensures every bucket
// exists.
//
// Postcondition: Returns an open Store or a non-nil error.
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketCharacters, bucketNames, bucketItems} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: create buckets: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the filesystem path of the database.
func (s *Store) Path() string { return s.db.Path() }

func idKey(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func nameKey(name string) []byte { return []byte(strings.ToLower(name)) }

// Begin opens a writable transaction. bbolt serialises writers, so the batch
// must be committed or rolled back before the next Begin.
func (s *Store) Begin(ctx context.Context) (storage.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := s.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("bolt: begin: %w", err)
	}
	return &batch{tx: tx}, nil
}

// LoadCharacter returns the character named name, case-insensitively, and
// every item it owns directly or through containers, in ID order.
//
// Postcondition: Returns storage.ErrNotFound when no such character exists.
func (s *Store) LoadCharacter(ctx context.Context, name string) (storage.CharacterRecord, []storage.ItemRecord, error) {
	var rec storage.CharacterRecord
	var items []storage.ItemRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketNames).Get(nameKey(name))
		if id == nil {
			return storage.ErrNotFound
		}
		data := tx.Bucket(bucketCharacters).Get(id)
		if data == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode character %s: %w", name, err)
		}
		all, err := decodeItems(tx)
		if err != nil {
			return err
		}
		items = owned(rec.ID, all)
		return nil
	})
	if err != nil {
		return storage.CharacterRecord{}, nil, err
	}
	return rec, items, nil
}

func decodeItems(tx *bbolt.Tx) ([]storage.ItemRecord, error) {
	var out []storage.ItemRecord
	err := tx.Bucket(bucketItems).ForEach(func(k, v []byte) error {
		var it storage.ItemRecord
		if err := json.Unmarshal(v, &it); err != nil {
			return fmt.Errorf("decode item %d: %w", binary.BigEndian.Uint64(k), err)
		}
		out = append(out, it)
		return nil
	})
	return out, err
}

// owned filters all, already in ID order, to the items reachable from owner.
func owned(owner uint64, all []storage.ItemRecord) []storage.ItemRecord {
	reach := make(map[uint64]bool)
	for _, it := range all {
		if it.Owner == owner && (it.Location == storage.LocationInventory || it.Location == storage.LocationEquipment) {
			reach[it.ID] = true
		}
	}
	for grown := true; grown; {
		grown = false
		for _, it := range all {
			if !reach[it.ID] && it.Location == storage.LocationContainer && reach[it.Container] {
				reach[it.ID] = true
				grown = true
			}
		}
	}
	var out []storage.ItemRecord
	for _, it := range all {
		if reach[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// MaxID returns the highest character or item ID stored.
func (s *Store) MaxID(ctx context.Context) (uint64, error) {
	var highest uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketCharacters, bucketItems} {
			if k, _ := tx.Bucket(name).Cursor().Last(); k != nil {
				highest = max(highest, binary.BigEndian.Uint64(k))
			}
		}
		return nil
	})
	return highest, err
}

// batch applies storage operations inside one bbolt write transaction.
type batch struct {
	tx *bbolt.Tx
}

func (b *batch) putItem(it storage.ItemRecord) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode item %d: %w", it.ID, err)
	}
	return b.tx.Bucket(bucketItems).Put(idKey(it.ID), data)
}

func (b *batch) InsertItem(_ context.Context, it storage.ItemRecord) error {
	if b.tx.Bucket(bucketItems).Get(idKey(it.ID)) != nil {
		return fmt.Errorf("insert item %d: already exists", it.ID)
	}
	return b.putItem(it)
}

// UpdateItem upserts, so an update whose insert was dropped still lands.
func (b *batch) UpdateItem(_ context.Context, it storage.ItemRecord) error {
	return b.putItem(it)
}

func (b *batch) DeleteItem(_ context.Context, id uint64) error {
	return b.tx.Bucket(bucketItems).Delete(idKey(id))
}

func (b *batch) UpdateCharacter(_ context.Context, c storage.CharacterRecord) error {
	names := b.tx.Bucket(bucketNames)
	if existing := names.Get(nameKey(c.Name)); existing != nil && binary.BigEndian.Uint64(existing) != c.ID {
		return fmt.Errorf("character name %q is taken", c.Name)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode character %s: %w", c.Name, err)
	}
	if err := b.tx.Bucket(bucketCharacters).Put(idKey(c.ID), data); err != nil {
		return err
	}
	return names.Put(nameKey(c.Name), idKey(c.ID))
}

func (b *batch) Commit(context.Context) error { return b.tx.Commit() }

func (b *batch) Rollback(context.Context) error {
	if err := b.tx.Rollback(); err != nil && !errors.Is(err, bbolt.ErrTxClosed) {
		return err
	}
	return nil
}

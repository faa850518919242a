// Package storage defines the persistence contract of the game: value
// records for characters and items, transactional batches, and the
// asynchronous journal that applies them off the game loop.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record lookup yields no results.
	ErrNotFound = errors.New("record not found")
	// ErrQueueFull is returned by Journal.Submit when the queue is saturated.
	ErrQueueFull = errors.New("persistence queue full")
	// ErrAccountNotFound is returned when an account lookup yields no results.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when creating a duplicate username.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Location kinds stored in ItemRecord.Location.
const (
	LocationNowhere   = ""
	LocationRoom      = "room"
	LocationInventory = "inventory"
	LocationEquipment = "equipment"
	LocationContainer = "container"
)

// ItemRecord is a value snapshot of an item.
type ItemRecord struct {
	ID           uint64 `json:"id"`
	Model        int    `json:"model"`
	Quantity     int    `json:"quantity"`
	Condition    int    `json:"condition"`
	Maker        string `json:"maker,omitempty"`
	CustomName   string `json:"custom_name,omitempty"`
	CustomWeight int    `json:"custom_weight,omitempty"`
	Location     string `json:"location"`
	Room         int    `json:"room,omitempty"`
	Owner        uint64 `json:"owner,omitempty"`
	Container    uint64 `json:"container,omitempty"`
	Slot         int    `json:"slot,omitempty"`
}

// CharacterRecord is a value snapshot of a player character.
type CharacterRecord struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Race      string    `json:"race"`
	Gender    int       `json:"gender"`
	Abilities [5]int    `json:"abilities"`
	Health    int       `json:"health"`
	Stamina   int       `json:"stamina"`
	Posture   int       `json:"posture"`
	Room      int       `json:"room"`
	Hunger    int       `json:"hunger"`
	Thirst    int       `json:"thirst"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is a login identity.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Batch is one persistence transaction.
type Batch interface {
	InsertItem(ctx context.Context, rec ItemRecord) error
	UpdateItem(ctx context.Context, rec ItemRecord) error
	DeleteItem(ctx context.Context, id uint64) error
	// UpdateCharacter inserts the character when it does not exist yet.
	UpdateCharacter(ctx context.Context, rec CharacterRecord) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Backend is a persistence implementation.
type Backend interface {
	Begin(ctx context.Context) (Batch, error)
	// LoadCharacter returns the character named name and every item it owns,
	// directly or through containers. ErrNotFound when absent.
	LoadCharacter(ctx context.Context, name string) (CharacterRecord, []ItemRecord, error)
	// MaxID returns the highest character or item ID ever stored.
	MaxID(ctx context.Context) (uint64, error)
}

// Accounts manages login identities.
type Accounts interface {
	Create(ctx context.Context, username, password string) (Account, error)
	Authenticate(ctx context.Context, username, password string) (Account, error)
}

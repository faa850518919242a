package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bbolt "go.etcd.io/bbolt"

	"github.com/HexColors60/RadMud/internal/storage"
)

// Create stores a new account with a bcrypt-hashed password. Usernames are
// stored lower-cased.
//
// Postcondition: Returns storage.ErrAccountExists if the username is taken.
func (s *Store) Create(_ context.Context, username, password string) (storage.Account, error) {
	hash, err := storage.HashPassword(password)
	if err != nil {
		return storage.Account{}, fmt.Errorf("hashing password: %w", err)
	}
	acct := storage.Account{
		Username:     strings.ToLower(username),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b.Get([]byte(acct.Username)) != nil {
			return storage.ErrAccountExists
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		acct.ID = int64(seq)
		data, err := json.Marshal(acct)
		if err != nil {
			return err
		}
		return b.Put([]byte(acct.Username), data)
	})
	if err != nil {
		return storage.Account{}, err
	}
	return acct, nil
}

// Authenticate verifies credentials and returns the matching account.
//
// Postcondition: Returns storage.ErrAccountNotFound or
// storage.ErrInvalidCredentials on failure.
func (s *Store) Authenticate(_ context.Context, username, password string) (storage.Account, error) {
	var acct storage.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get([]byte(strings.ToLower(username)))
		if data == nil {
			return storage.ErrAccountNotFound
		}
		return json.Unmarshal(data, &acct)
	})
	if err != nil {
		return storage.Account{}, err
	}
	if !storage.CheckPassword(password, acct.PasswordHash) {
		return storage.Account{}, storage.ErrInvalidCredentials
	}
	return acct, nil
}

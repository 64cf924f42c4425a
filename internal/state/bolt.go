package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/model"
	"go.etcd.io/bbolt"
)

const bucketName = "user_states"

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the state database at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(ctx context.Context, userID int64) (*model.UserState, error) {
	var st *model.UserState
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(key(userID))
		if data == nil {
			return nil
		}
		st = &model.UserState{}
		if err := json.Unmarshal(data, st); err != nil {
			return fmt.Errorf("unmarshaling state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *BoltStore) Put(ctx context.Context, state *model.UserState) error {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key(state.UserID), data)
	})
}

func (s *BoltStore) Delete(ctx context.Context, userID int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete(key(userID))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func key(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}

package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound is the store-level not-found sentinel; services translate
// it into the domain taxonomy.
var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// Package repository persists keyed records. Every mutation of the service runs
// inside one Update so that its writes commit together or not at all.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/bounty/internal/domain/keys"
)

// Store runs functions against a consistent view of the records.
type Store interface {
	// Update runs fn in a read-write transaction. If fn returns an error no
	// write made through the Tx is kept.
	Update(ctx context.Context, fn func(Tx) error) error

	// View runs fn in a read-only transaction. Writes fail with ErrReadOnly.
	View(ctx context.Context, fn func(Tx) error) error

	// Count returns the number of records in a namespace.
	Count(ctx context.Context, namespace string) (int, error)

	Close() error
}

// Tx reads and writes records by key.
type Tx interface {
	// Create stores a new record. Returns ErrAlreadyExists if the key is taken.
	Create(key keys.Key, rec any) error
	// Read decodes the record at key into out. Returns ErrNotFound if absent.
	Read(key keys.Key, out any) error
	// Write replaces an existing record. Returns ErrNotFound if absent.
	Write(key keys.Key, rec any) error
	// Exists reports whether a record is stored at key.
	Exists(key keys.Key) (bool, error)
}

func encode(key keys.Key, rec any) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCodec, key, err)
	}
	return b, nil
}

func decode(key keys.Key, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCodec, key, err)
	}
	return nil
}

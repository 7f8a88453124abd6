// Package idempotency remembers which item an Idempotency-Key created.
package idempotency

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("idempotency key not found")

const DefaultTTL = 24 * time.Hour

type Store interface {
	// Get returns the resource id saved for key, or ErrNotFound.
	Get(ctx context.Context, key string) (int64, error)
	// Save records id under key. An existing key keeps its first id.
	Save(ctx context.Context, key string, id int64) error
}

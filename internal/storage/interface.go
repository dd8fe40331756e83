package storage

import (
	"context"

	"github.com/eaglezone/eaglezone-bot/internal/model"
)

// PlayerStore defines persistence for player records, one document per id.
//
// UpdatePlayer is the only way to change an existing record. Implementations
// run mutate against the current stored state and commit the result only if
// that state has not changed in the meantime, re-running mutate on a fresh
// read when it has. If mutate returns an error nothing is written and the
// error is returned as-is.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// CreatePlayer fails with model.ErrPlayerExists if a record is already present
	CreatePlayer(ctx context.Context, player *model.Player) error
	// UpdatePlayer fails with model.ErrPlayerNotFound if no record exists
	UpdatePlayer(ctx context.Context, id model.PlayerID, mutate model.Mutation) (*model.Player, error)
	Close() error
}

// DefaultMaxRetries bounds optimistic retries of a conditional update
const DefaultMaxRetries = 32

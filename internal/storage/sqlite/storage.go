package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

//go:embed schema.sql
var schema string

// formatTimestamp converts time.Time to a UTC ISO8601 string
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// Storage is a SQLite-backed implementation of the storage interface.
// Players are stored as JSON documents next to a version column that
// conditional updates compare against.
type Storage struct {
	db         *sql.DB
	maxRetries int
}

// New opens (and if needed creates) the database at path
func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Storage{db: db, maxRetries: storage.DefaultMaxRetries}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.PlayerStore = (*Storage)(nil)

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var data string
	var version int64
	err := s.db.QueryRowContext(ctx, "SELECT data, version FROM players WHERE id = ?", string(id)).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal([]byte(data), &player); err != nil {
		return nil, fmt.Errorf("decoding player %s: %w", id, err)
	}
	player.Version = version
	if player.Friends == nil {
		player.Friends = []model.PlayerID{}
	}
	return &player, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	stored := player.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, version, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, string(stored.ID), stored.Version, string(data),
		formatTimestamp(stored.CreatedAt), formatTimestamp(stored.UpdatedAt))
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerExists
	}
	player.Version = stored.Version
	return nil
}

// UpdatePlayer commits mutate's result with UPDATE ... WHERE version = ?;
// zero affected rows means another writer got there first and the whole
// read-mutate-write is retried on fresh state.
func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, mutate model.Mutation) (*model.Player, error) {
	for i := 0; i < s.maxRetries; i++ {
		current, err := s.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}
		next.ID = current.ID
		next.Version = current.Version + 1

		data, err := json.Marshal(next)
		if err != nil {
			return nil, err
		}

		res, err := s.db.ExecContext(ctx, `
			UPDATE players SET data = ?, version = ?, updated_at = ?
			WHERE id = ? AND version = ?
		`, string(data), next.Version, formatTimestamp(next.UpdatedAt), string(id), current.Version)
		if err != nil {
			return nil, err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 1 {
			return next, nil
		}
		if err := storage.WaitRetry(ctx, i); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("update player %s: %w", id, model.ErrTooManyRetries)
}

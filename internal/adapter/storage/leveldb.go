package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

var _ port.KeyValueStorage = (*LevelDB)(nil)

// A LevelDB is the durable local key/value storage.
//
// Writes are synced to disk before Put returns.
type LevelDB struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (LevelDB, error) {
	const op = "OpenLevelDB"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return LevelDB{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("local storage is opened", "op", op, "path", path)
	return LevelDB{db}, nil
}

// OpenMemLevelDB opens a storage that lives in memory only.
func OpenMemLevelDB() (LevelDB, error) {
	const op = "OpenMemLevelDB"

	db, err := leveldb.Open(lvlstorage.NewMemStorage(), nil)
	if err != nil {
		return LevelDB{}, fmt.Errorf("%s: %w", op, err)
	}
	return LevelDB{db}, nil
}

func (s LevelDB) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "LevelDB.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%s: %q: %w", op, key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s LevelDB) Put(ctx context.Context, key string, value []byte) error {
	const op = "LevelDB.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Put([]byte(key), value, &opt.WriteOptions{Sync: true})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s LevelDB) Close() {
	const op = "LevelDB.Close"
	log := slog.With("op", op)

	log.Info("closing local storage...")

	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("local storage is closed")
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/autem/core/autem/model"

	_ "github.com/lib/pq"
)

//go:generate go tool mockgen -source storage.go -destination mock_storage.go -package storage

var (
	ErrTrustNotFound       = errors.New("trust not found")
	ErrInvalidBookmarkKind = errors.New("invalid bookmark kind")
)

// Storage interface defines the operations of a backend holding the trust
// index and the bookmarks of the users of a chain.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Trust index
	AddTrust(ctx context.Context, entry *model.TrustEntry) error
	SetTrustOwner(ctx context.Context, chainID uint64, address, owner common.Address) (bool, error)
	FindTrust(ctx context.Context, chainID uint64, address common.Address) (*model.TrustEntry, error)
	TrustsByOwner(ctx context.Context, chainID uint64, owner common.Address) ([]*model.TrustEntry, error)

	// Bookmarks
	AddBookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind, addresses []common.Address) error
	RemoveBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error)
	HasBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error)
	Bookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind) ([]common.Address, error)

	// Known initial parameters
	AddKnownParameters(ctx context.Context, params *model.KnownParameters) error
	KnownParameters(ctx context.Context, chainID uint64) ([]*model.KnownParameters, error)
}

// NewStorage initializes a storage backend based on the provided Config.
// If DSN is empty, it uses an in-memory storage; a redis:// or rediss:// DSN
// selects Redis and sqlite://<path> a local SQLite file; otherwise, it
// attempts to connect to a Postgres database.
func NewStorage(ctx context.Context, config Config) (Storage, error) {
	if config.DSN == "" {
		return NewMemory(), nil
	}

	if strings.HasPrefix(config.DSN, "redis://") || strings.HasPrefix(config.DSN, "rediss://") {
		opts, err := redis.ParseURL(config.DSN)
		if err != nil {
			return nil, stacktrace.Wrap(err)
		}
		store := NewRedis(redis.NewClient(opts))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}

	if path, ok := strings.CutPrefix(config.DSN, "sqlite://"); ok {
		store, err := NewSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := store.CreateSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}

	store := NewPostgres(db)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := store.CreateSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

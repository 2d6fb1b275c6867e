package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/autem/core/autem/model"
)

type (
	// Postgres struct provides a Bun database storage mechanism for the trust index and bookmarks.
	Postgres struct {
		db *bun.DB
	}
)

// NewPostgres initializes and returns a new instance of Postgres storage with an established database connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: bun.NewDB(db, pgdialect.New())}
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// Close closes the database connection pool.
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// AddTrust inserts a trust into the index. A trust already indexed is left untouched.
func (p *Postgres) AddTrust(ctx context.Context, entry *model.TrustEntry) error {
	_, err := p.db.NewInsert().Model(entry).On("CONFLICT (chain_id, address) DO NOTHING").Exec(ctx)
	if err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// SetTrustOwner updates the indexed owner and reports whether the trust was known.
func (p *Postgres) SetTrustOwner(ctx context.Context, chainID uint64, address, owner common.Address) (bool, error) {
	res, err := p.db.NewUpdate().Model((*model.TrustEntry)(nil)).
		Set("owner = ?", owner.Hex()).
		Where("chain_id = ?", chainID).
		Where("address = ?", address.Hex()).
		Exec(ctx)
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return rowsAffected > 0, nil
}

func (p *Postgres) FindTrust(ctx context.Context, chainID uint64, address common.Address) (*model.TrustEntry, error) {
	entry := new(model.TrustEntry)
	err := p.db.NewSelect().Model(entry).
		Where("chain_id = ?", chainID).
		Where("address = ?", address.Hex()).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrustNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return entry, nil
}

// TrustsByOwner returns the indexed trusts currently owned by owner, oldest first.
func (p *Postgres) TrustsByOwner(ctx context.Context, chainID uint64, owner common.Address) ([]*model.TrustEntry, error) {
	var entries []*model.TrustEntry
	err := p.db.NewSelect().Model(&entries).
		Where("chain_id = ?", chainID).
		Where("owner = ?", owner.Hex()).
		Order("block_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return entries, nil
}

// AddBookmarks adds addresses to the bookmark set of kind.
func (p *Postgres) AddBookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind, addresses []common.Address) error {
	if !kind.Valid() {
		return ErrInvalidBookmarkKind
	}
	if len(addresses) == 0 {
		return nil
	}
	entries := bookmarksFromAddresses(chainID, kind, dedup(addresses))
	_, err := p.db.NewInsert().Model(&entries).On("CONFLICT DO NOTHING").Exec(ctx)
	if err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// RemoveBookmark removes address from the set and reports whether it was there.
func (p *Postgres) RemoveBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	res, err := p.db.NewDelete().Model((*model.Bookmark)(nil)).
		Where("chain_id = ?", chainID).
		Where("kind = ?", kind).
		Where("address = ?", address.Hex()).
		Exec(ctx)
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return rowsAffected > 0, nil
}

func (p *Postgres) HasBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	exists, err := p.db.NewSelect().Model((*model.Bookmark)(nil)).
		Where("chain_id = ?", chainID).
		Where("kind = ?", kind).
		Where("address = ?", address.Hex()).
		Exists(ctx)
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return exists, nil
}

func (p *Postgres) Bookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind) ([]common.Address, error) {
	if !kind.Valid() {
		return nil, ErrInvalidBookmarkKind
	}
	var entries []*model.Bookmark
	err := p.db.NewSelect().Model(&entries).
		Where("chain_id = ?", chainID).
		Where("kind = ?", kind).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return addressesFromBookmarks(entries), nil
}

// AddKnownParameters remembers params. Parameters already known for the
// same address are kept.
func (p *Postgres) AddKnownParameters(ctx context.Context, params *model.KnownParameters) error {
	_, err := p.db.NewInsert().Model(params).On("CONFLICT (chain_id, address) DO NOTHING").Exec(ctx)
	if err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

func (p *Postgres) KnownParameters(ctx context.Context, chainID uint64) ([]*model.KnownParameters, error) {
	var entries []*model.KnownParameters
	err := p.db.NewSelect().Model(&entries).
		Where("chain_id = ?", chainID).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return entries, nil
}

package storage

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/autem/core/autem/model"
)

// SQLite keeps the trust index and bookmarks in a local SQLite file. The
// file is attached as the autem schema so the Bun models resolve unchanged.
type SQLite struct {
	*Postgres
}

// NewSQLite opens the database file at path. ":memory:" keeps it in memory.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	// ATTACH is per connection.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)
	sqldb.SetConnMaxIdleTime(0)

	if _, err := sqldb.ExecContext(ctx, "ATTACH DATABASE ? AS autem", path); err != nil {
		_ = sqldb.Close()
		return nil, stacktrace.Wrap(err)
	}
	return &SQLite{Postgres: &Postgres{db: bun.NewDB(sqldb, sqlitedialect.New())}}, nil
}

// seqTriggers number the rows of the ordered tables with their rowid, the
// way bigserial does in Postgres.
var seqTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS autem.bookmark_seq AFTER INSERT ON bookmark
	BEGIN UPDATE bookmark SET seq = NEW.rowid WHERE rowid = NEW.rowid; END`,
	`CREATE TRIGGER IF NOT EXISTS autem.known_parameters_seq AFTER INSERT ON known_parameters
	BEGIN UPDATE known_parameters SET seq = NEW.rowid WHERE rowid = NEW.rowid; END`,
}

// CreateSchema creates the tables when missing.
func (s *SQLite) CreateSchema(ctx context.Context) error {
	for _, m := range []any{
		(*model.TrustEntry)(nil),
		(*model.Bookmark)(nil),
		(*model.KnownParameters)(nil),
	} {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return stacktrace.Wrap(err)
		}
	}
	for _, trigger := range seqTriggers {
		if _, err := s.db.ExecContext(ctx, trigger); err != nil {
			return stacktrace.Wrap(err)
		}
	}
	return nil
}

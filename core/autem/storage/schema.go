package storage

import (
	"context"

	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/autem/core/autem/model"
)

// CreateSchema creates the autem schema and its tables when missing.
func (p *Postgres) CreateSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS autem"); err != nil {
		return stacktrace.Wrap(err)
	}
	for _, m := range []any{
		(*model.TrustEntry)(nil),
		(*model.Bookmark)(nil),
		(*model.KnownParameters)(nil),
	} {
		if _, err := p.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return stacktrace.Wrap(err)
		}
	}
	return nil
}

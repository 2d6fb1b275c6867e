package model

import (
	"time"

	"github.com/uptrace/bun"
)

type BookmarkKind string

const (
	// BookmarkKnown marks a trust the user follows.
	BookmarkKnown BookmarkKind = "known"
	// BookmarkHidden marks a trust the user asked not to be shown.
	BookmarkHidden BookmarkKind = "hidden"
)

func (k BookmarkKind) Valid() bool {
	return k == BookmarkKnown || k == BookmarkHidden
}

// Bookmark is a per chain set membership of a trust address.
type Bookmark struct {
	bun.BaseModel `bun:"table:autem.bookmark,alias:b"`
	ChainID       uint64       `bun:"chain_id,pk,type:bigint"`
	Address       string       `bun:"address,pk,type:text"`
	Kind          BookmarkKind `bun:"kind,pk,type:text"`
	CreatedAt     time.Time    `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
	Seq           int64        `bun:"seq,type:bigserial,nullzero"` // insertion order
}

package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zircuit-labs/autem/core/autem/model"
)

type (
	trustKey struct {
		chainID uint64
		address common.Address
	}

	bookmarkKey struct {
		chainID uint64
		kind    model.BookmarkKind
	}

	// Memory struct provides an in-memory storage mechanism for the trust
	// index and bookmarks. Lists keep insertion order.
	Memory struct {
		trusts     map[trustKey]*model.TrustEntry
		trustOrder []trustKey
		bookmarks  map[bookmarkKey][]common.Address
		known      map[uint64][]*model.KnownParameters
		// a single lock for all maps; this storage backs tests and devnets
		mu sync.RWMutex
	}
)

// NewMemory initializes and returns a new instance of Memory storage.
func NewMemory() *Memory {
	return &Memory{
		trusts:    map[trustKey]*model.TrustEntry{},
		bookmarks: map[bookmarkKey][]common.Address{},
		known:     map[uint64][]*model.KnownParameters{},
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// AddTrust records a trust. A trust already indexed is left untouched.
func (m *Memory) AddTrust(ctx context.Context, entry *model.TrustEntry) error {
	key := trustKey{chainID: entry.ChainID, address: common.HexToAddress(entry.Address)}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trusts[key]; ok {
		return nil
	}
	stored := *entry
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.trusts[key] = &stored
	m.trustOrder = append(m.trustOrder, key)
	return nil
}

// SetTrustOwner updates the indexed owner and reports whether the trust was known.
func (m *Memory) SetTrustOwner(ctx context.Context, chainID uint64, address, owner common.Address) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.trusts[trustKey{chainID: chainID, address: address}]
	if !ok {
		return false, nil
	}
	entry.Owner = owner.Hex()
	return true, nil
}

func (m *Memory) FindTrust(ctx context.Context, chainID uint64, address common.Address) (*model.TrustEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.trusts[trustKey{chainID: chainID, address: address}]
	if !ok {
		return nil, ErrTrustNotFound
	}
	found := *entry
	return &found, nil
}

// TrustsByOwner returns the indexed trusts currently owned by owner, oldest first.
func (m *Memory) TrustsByOwner(ctx context.Context, chainID uint64, owner common.Address) ([]*model.TrustEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*model.TrustEntry
	for _, key := range m.trustOrder {
		entry := m.trusts[key]
		if key.chainID == chainID && common.HexToAddress(entry.Owner) == owner {
			found := *entry
			entries = append(entries, &found)
		}
	}
	return entries, nil
}

// AddBookmarks adds addresses to the bookmark set of kind.
func (m *Memory) AddBookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind, addresses []common.Address) error {
	if !kind.Valid() {
		return ErrInvalidBookmarkKind
	}
	key := bookmarkKey{chainID: chainID, kind: kind}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookmarks[key] = dedup(append(m.bookmarks[key], addresses...))
	return nil
}

// RemoveBookmark removes address from the set and reports whether it was there.
func (m *Memory) RemoveBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	key := bookmarkKey{chainID: chainID, kind: kind}
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.bookmarks[key]
	i := slices.Index(current, address)
	if i < 0 {
		return false, nil
	}
	m.bookmarks[key] = slices.Delete(slices.Clone(current), i, i+1)
	return true, nil
}

func (m *Memory) HasBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.bookmarks[bookmarkKey{chainID: chainID, kind: kind}], address), nil
}

func (m *Memory) Bookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind) ([]common.Address, error) {
	if !kind.Valid() {
		return nil, ErrInvalidBookmarkKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.bookmarks[bookmarkKey{chainID: chainID, kind: kind}]), nil
}

// AddKnownParameters remembers params. Parameters already known for the
// same address are kept.
func (m *Memory) AddKnownParameters(ctx context.Context, params *model.KnownParameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, known := range m.known[params.ChainID] {
		if known.Address == params.Address {
			return nil
		}
	}
	stored := *params
	m.known[params.ChainID] = append(m.known[params.ChainID], &stored)
	return nil
}

func (m *Memory) KnownParameters(ctx context.Context, chainID uint64) ([]*model.KnownParameters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.KnownParameters, 0, len(m.known[chainID]))
	for _, known := range m.known[chainID] {
		copied := *known
		out = append(out, &copied)
	}
	return out, nil
}

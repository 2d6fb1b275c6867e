package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/zircuit-labs/autem/core/autem/model"
)

const redisKeyPrefix = "autem:" // autem:{chain_id}:...

type (
	// Redis struct provides a Redis storage mechanism for the trust index
	// and bookmarks. Ordered lists are sorted sets scored by a per-chain
	// insertion counter.
	Redis struct {
		client *redis.Client
	}
)

// NewRedis initializes and returns a new instance of Redis storage on client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) key(chainID uint64, parts ...string) string {
	k := fmt.Sprintf("%s%d", redisKeyPrefix, chainID)
	for _, part := range parts {
		k += ":" + part
	}
	return k
}

func (r *Redis) trustKey(chainID uint64, address common.Address) string {
	return r.key(chainID, "trust", address.Hex())
}

func (r *Redis) ownerKey(chainID uint64, owner common.Address) string {
	return r.key(chainID, "owner", owner.Hex())
}

func (r *Redis) bookmarkKey(chainID uint64, kind model.BookmarkKind) string {
	return r.key(chainID, "bookmark", string(kind))
}

func (r *Redis) knownKey(chainID uint64, address string) string {
	return r.key(chainID, "known", address)
}

func (r *Redis) next(ctx context.Context, chainID uint64) (float64, error) {
	seq, err := r.client.Incr(ctx, r.key(chainID, "seq")).Result()
	if err != nil {
		return 0, stacktrace.Wrap(err)
	}
	return float64(seq), nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// Close closes the client and its connection pool.
func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// AddTrust records a trust. A trust already indexed is left untouched.
func (r *Redis) AddTrust(ctx context.Context, entry *model.TrustEntry) error {
	stored := *entry
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return stacktrace.Wrap(err)
	}
	address := common.HexToAddress(entry.Address)
	added, err := r.client.SetNX(ctx, r.trustKey(entry.ChainID, address), data, 0).Result()
	if err != nil {
		return stacktrace.Wrap(err)
	}
	if !added {
		return nil
	}
	seq, err := r.next(ctx, entry.ChainID)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, r.key(entry.ChainID, "trusts"), redis.Z{Score: seq, Member: address.Hex()})
		pipe.ZAdd(ctx, r.ownerKey(entry.ChainID, common.HexToAddress(entry.Owner)), redis.Z{Score: seq, Member: address.Hex()})
		return nil
	})
	if err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// SetTrustOwner updates the indexed owner and reports whether the trust was known.
func (r *Redis) SetTrustOwner(ctx context.Context, chainID uint64, address, owner common.Address) (bool, error) {
	entry, err := r.FindTrust(ctx, chainID, address)
	if errors.Is(err, ErrTrustNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	seq, err := r.client.ZScore(ctx, r.key(chainID, "trusts"), address.Hex()).Result()
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	previous := common.HexToAddress(entry.Owner)
	entry.Owner = owner.Hex()
	data, err := json.Marshal(entry)
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.trustKey(chainID, address), data, 0)
		pipe.ZRem(ctx, r.ownerKey(chainID, previous), address.Hex())
		pipe.ZAdd(ctx, r.ownerKey(chainID, owner), redis.Z{Score: seq, Member: address.Hex()})
		return nil
	})
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return true, nil
}

func (r *Redis) FindTrust(ctx context.Context, chainID uint64, address common.Address) (*model.TrustEntry, error) {
	data, err := r.client.Get(ctx, r.trustKey(chainID, address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTrustNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	var entry model.TrustEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return &entry, nil
}

// TrustsByOwner returns the indexed trusts currently owned by owner, oldest first.
func (r *Redis) TrustsByOwner(ctx context.Context, chainID uint64, owner common.Address) ([]*model.TrustEntry, error) {
	members, err := r.client.ZRange(ctx, r.ownerKey(chainID, owner), 0, -1).Result()
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	keys := make([]string, 0, len(members))
	for _, member := range members {
		keys = append(keys, r.trustKey(chainID, common.HexToAddress(member)))
	}
	var entries []*model.TrustEntry
	err = r.loadJSON(ctx, keys, func(data []byte) error {
		var entry model.TrustEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// loadJSON fetches keys in one round trip and decodes every existing value.
func (r *Redis) loadJSON(ctx context.Context, keys []string, decode func([]byte) error) error {
	if len(keys) == 0 {
		return nil
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return stacktrace.Wrap(err)
	}
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(s)); err != nil {
			return stacktrace.Wrap(err)
		}
	}
	return nil
}

// AddBookmarks adds addresses to the bookmark set of kind.
func (r *Redis) AddBookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind, addresses []common.Address) error {
	if !kind.Valid() {
		return ErrInvalidBookmarkKind
	}
	addresses = dedup(addresses)
	if len(addresses) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(addresses))
	for _, address := range addresses {
		seq, err := r.next(ctx, chainID)
		if err != nil {
			return err
		}
		members = append(members, redis.Z{Score: seq, Member: address.Hex()})
	}
	if err := r.client.ZAddNX(ctx, r.bookmarkKey(chainID, kind), members...).Err(); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

// RemoveBookmark removes address from the set and reports whether it was there.
func (r *Redis) RemoveBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	removed, err := r.client.ZRem(ctx, r.bookmarkKey(chainID, kind), address.Hex()).Result()
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return removed > 0, nil
}

func (r *Redis) HasBookmark(ctx context.Context, chainID uint64, kind model.BookmarkKind, address common.Address) (bool, error) {
	if !kind.Valid() {
		return false, ErrInvalidBookmarkKind
	}
	err := r.client.ZScore(ctx, r.bookmarkKey(chainID, kind), address.Hex()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, stacktrace.Wrap(err)
	}
	return true, nil
}

func (r *Redis) Bookmarks(ctx context.Context, chainID uint64, kind model.BookmarkKind) ([]common.Address, error) {
	if !kind.Valid() {
		return nil, ErrInvalidBookmarkKind
	}
	members, err := r.client.ZRange(ctx, r.bookmarkKey(chainID, kind), 0, -1).Result()
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	addresses := make([]common.Address, 0, len(members))
	for _, member := range members {
		addresses = append(addresses, common.HexToAddress(member))
	}
	return addresses, nil
}

// AddKnownParameters remembers params. Parameters already known for the
// same address are kept.
func (r *Redis) AddKnownParameters(ctx context.Context, params *model.KnownParameters) error {
	stored := *params
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return stacktrace.Wrap(err)
	}
	added, err := r.client.SetNX(ctx, r.knownKey(params.ChainID, params.Address), data, 0).Result()
	if err != nil {
		return stacktrace.Wrap(err)
	}
	if !added {
		return nil
	}
	seq, err := r.next(ctx, params.ChainID)
	if err != nil {
		return err
	}
	if err := r.client.ZAdd(ctx, r.key(params.ChainID, "known"), redis.Z{Score: seq, Member: params.Address}).Err(); err != nil {
		return stacktrace.Wrap(err)
	}
	return nil
}

func (r *Redis) KnownParameters(ctx context.Context, chainID uint64) ([]*model.KnownParameters, error) {
	members, err := r.client.ZRange(ctx, r.key(chainID, "known"), 0, -1).Result()
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	keys := make([]string, 0, len(members))
	for _, member := range members {
		keys = append(keys, r.knownKey(chainID, member))
	}
	out := make([]*model.KnownParameters, 0, len(keys))
	err = r.loadJSON(ctx, keys, func(data []byte) error {
		var known model.KnownParameters
		if err := json.Unmarshal(data, &known); err != nil {
			return err
		}
		out = append(out, &known)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

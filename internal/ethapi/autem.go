package ethapi

import (
	"context"
	"errors"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/autem/autemlog"
	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/autem/duration"
	"github.com/zircuit-labs/autem/core/autem/metrics"
	"github.com/zircuit-labs/autem/core/autem/model"
	"github.com/zircuit-labs/autem/core/autem/ratelimiter"
	"github.com/zircuit-labs/autem/core/autem/storage"
	"github.com/zircuit-labs/autem/core/types"
)

//go:generate go tool mockgen -source autem.go -destination mock_autem.go -package ethapi

type (
	// AutemAPI serves trust derivation, reads and writes, and the user's
	// bookmarks under the autem namespace.
	AutemAPI struct {
		b          Backend
		storage    storage.Storage
		discoverer discoverer
		collector  *metrics.Collector
		deriver    *derive.Deriver
		factory    *contracts.FactoryBinding
		accounts   map[common.Address]struct{}
		limits     *ratelimiter.Manager
		limit      ratelimiter.Config
		logger     log.Logger
	}

	discoverer interface {
		Discover(ctx context.Context, owner common.Address) ([]common.Address, error)
	}

	CreateResult struct {
		Address         common.Address `json:"address"`
		TransactionHash common.Hash    `json:"transactionHash"`
		BlockNumber     hexutil.Uint64 `json:"blockNumber"`
	}

	TrustResult struct {
		Address     common.Address `json:"address"`
		Owner       common.Address `json:"owner"`
		Beneficiary common.Address `json:"beneficiary"`
		Window      *hexutil.Big   `json:"window"`
		WindowText  string         `json:"windowText"`
		LastPing    hexutil.Uint64 `json:"lastPing"`
		UnlocksAt   *hexutil.Big   `json:"unlocksAt"` // nil when the beneficiary never unlocks
		Metadata    string         `json:"metadata"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Balance     *hexutil.Big   `json:"balance"`
		AuthLevel   string         `json:"authLevel,omitempty"`
		Known       bool           `json:"known"`
		Hidden      bool           `json:"hidden"`
	}

	IndexedTrust struct {
		Address         common.Address `json:"address"`
		Owner           common.Address `json:"owner"`
		Beneficiary     common.Address `json:"beneficiary"`
		Window          *hexutil.Big   `json:"window"`
		Metadata        string         `json:"metadata"`
		BlockNumber     hexutil.Uint64 `json:"blockNumber"`
		TransactionHash common.Hash    `json:"transactionHash"`
	}

	KnownParametersResult struct {
		Address     common.Address `json:"address"`
		Owner       common.Address `json:"owner"`
		Beneficiary common.Address `json:"beneficiary"`
		Window      *hexutil.Big   `json:"window"`
		Metadata    string         `json:"metadata"`
	}
)

func NewAutemAPI(b Backend, store storage.Storage, discoverer discoverer, collector *metrics.Collector, cfg Config) *AutemAPI {
	accounts := make(map[common.Address]struct{}, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		accounts[account] = struct{}{}
	}
	return &AutemAPI{
		b:          b,
		storage:    store,
		discoverer: discoverer,
		collector:  collector,
		deriver:    derive.NewDeriver(b.FactoryAddress(), b.ImplementationAddress()),
		factory:    contracts.NewFactoryBinding(b.FactoryAddress(), b),
		accounts:   accounts,
		limits:     ratelimiter.NewManager(),
		limit:      cfg.RateLimit,
		logger:     autemlog.NewWith("rpc_handler", "autem_api"),
	}
}

func newIndexedTrust(entry *model.TrustEntry) *IndexedTrust {
	p := entry.Params()
	return &IndexedTrust{
		Address:         common.HexToAddress(entry.Address),
		Owner:           p.Owner,
		Beneficiary:     p.Beneficiary,
		Window:          (*hexutil.Big)(p.Window),
		Metadata:        p.Metadata,
		BlockNumber:     hexutil.Uint64(entry.BlockNumber),
		TransactionHash: common.HexToHash(entry.TxHash),
	}
}

func newKnownParametersResult(k *model.KnownParameters) *KnownParametersResult {
	p := k.Params()
	return &KnownParametersResult{
		Address:     common.HexToAddress(k.Address),
		Owner:       p.Owner,
		Beneficiary: p.Beneficiary,
		Window:      (*hexutil.Big)(p.Window),
		Metadata:    p.Metadata,
	}
}

// PredictAddress returns the address a trust with the given parameters is
// deployed at.
func (api *AutemAPI) PredictAddress(args CreateArgs) (common.Address, error) {
	p, err := args.Params()
	if err != nil {
		return common.Address{}, err
	}
	return api.deriver.Address(p)
}

// VerifyAddress reports whether address is the trust of the given parameters.
func (api *AutemAPI) VerifyAddress(address common.Address, args CreateArgs) (bool, error) {
	p, err := args.Params()
	if err != nil {
		return false, err
	}
	return api.deriver.Verify(address, p)
}

// Create deploys a trust through the factory. The initial parameters are
// stored before the transaction is sent, so the address can always be
// re-derived later.
func (api *AutemAPI) Create(ctx context.Context, args CreateArgs) (result *CreateResult, err error) {
	started := time.Now()
	defer func() { api.collector.ObserveCall("create", started, err) }()

	p, err := args.Params()
	if err != nil {
		return nil, err
	}
	if err := api.authorize(args.From); err != nil {
		return nil, err
	}
	predicted, err := api.deriver.Address(p)
	if err != nil {
		return nil, err
	}
	logger := api.logger.With("request_id", uuid.NewString(), "method", "create", "from", args.From, "trust", predicted)

	chainID := api.b.ChainID()
	if err := api.storage.AddKnownParameters(ctx, model.NewKnownParameters(chainID, predicted, p)); err != nil {
		logger.With("err", err).Warn("AddKnownParameters returned an error")
		return nil, ErrStorage
	}
	address, receipt, err := api.factory.Create(ctx, args.From, p)
	if err != nil {
		logger.Debug("Trust creation failed", "err", err)
		return nil, executionError(err)
	}
	if err := api.storage.AddBookmarks(ctx, chainID, model.BookmarkKnown, []common.Address{address}); err != nil {
		logger.With("err", err).Warn("AddBookmarks returned an error")
		return nil, ErrStorage
	}
	logger.Info("Created trust", "address", address, "hash", receipt.TxHash, "number", receipt.BlockNumber)
	return &CreateResult{
		Address:         address,
		TransactionHash: receipt.TxHash,
		BlockNumber:     hexutil.Uint64(receipt.BlockNumber),
	}, nil
}

// GetTrust reads the state of a trust. When caller is given, the result
// carries the authority the caller holds over the trust right now.
func (api *AutemAPI) GetTrust(ctx context.Context, address common.Address, caller *common.Address) (*TrustResult, error) {
	if !api.b.HasCode(address) {
		return nil, ErrNotATrust
	}
	info, err := contracts.NewTrust(address, api.b).Info(ctx)
	if err != nil {
		return nil, executionError(err)
	}
	chainID := api.b.ChainID()
	known, err := api.storage.HasBookmark(ctx, chainID, model.BookmarkKnown, address)
	if err != nil {
		api.logger.With("err", err).Warn("HasBookmark returned an error")
		return nil, ErrStorage
	}
	hidden, err := api.storage.HasBookmark(ctx, chainID, model.BookmarkHidden, address)
	if err != nil {
		api.logger.With("err", err).Warn("HasBookmark returned an error")
		return nil, ErrStorage
	}

	result := &TrustResult{
		Address:     address,
		Owner:       info.Owner,
		Beneficiary: info.Beneficiary,
		Window:      (*hexutil.Big)(info.Window),
		WindowText:  duration.FormatWindow(info.Window),
		LastPing:    hexutil.Uint64(info.LastPing),
		Metadata:    info.Metadata,
		Balance:     (*hexutil.Big)(api.b.BalanceAt(address).ToBig()),
		Known:       known,
		Hidden:      hidden,
	}
	state := info.State()
	if unlocks, ok := state.Unlocks(); ok {
		result.UnlocksAt = (*hexutil.Big)(unlocks.ToBig())
	}
	// Metadata written by another client may not follow the JSON layout.
	if m, err := contracts.DecodeMetadata(info.Metadata); err == nil {
		result.Name = m.Name
		result.Description = m.Description
	}
	if caller != nil {
		result.AuthLevel = state.AuthLevel(*caller, api.b.Now()).String()
	}
	return result, nil
}

func (api *AutemAPI) authorize(from common.Address) error {
	if _, ok := api.accounts[from]; !ok {
		return ErrUnknownAccount
	}
	limiter := api.limits.GetRateLimiter(ratelimiter.Config{
		Key:         from.Hex(),
		LimitPerSec: api.limit.LimitPerSec,
		BurstPerSec: api.limit.BurstPerSec,
	})
	if !limiter.Allow() {
		return ErrRateLimited
	}
	return nil
}

// send runs a write against the trust addressed by args on behalf of an
// unlocked account.
func (api *AutemAPI) send(ctx context.Context, method string, args SendArgs, write func(*contracts.Trust) (*types.Receipt, error)) (receipt *types.Receipt, err error) {
	started := time.Now()
	defer func() { api.collector.ObserveCall(method, started, err) }()

	if err := api.authorize(args.From); err != nil {
		return nil, err
	}
	if !api.b.HasCode(args.Trust) {
		return nil, ErrNotATrust
	}
	logger := api.logger.With("request_id", uuid.NewString(), "method", method, "from", args.From, "trust", args.Trust)

	receipt, err = write(contracts.NewTrust(args.Trust, api.b))
	if err != nil {
		logger.Debug("Trust transaction failed", "err", err)
		return nil, executionError(err)
	}
	logger.Info("Applied trust transaction", "hash", receipt.TxHash, "number", receipt.BlockNumber)
	return receipt, nil
}

func (api *AutemAPI) SetOwner(ctx context.Context, args SetAddressArgs) (*types.Receipt, error) {
	return api.send(ctx, "setOwner", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.SetOwner(ctx, args.From, args.Address)
	})
}

func (api *AutemAPI) SetBeneficiary(ctx context.Context, args SetAddressArgs) (*types.Receipt, error) {
	return api.send(ctx, "setBeneficiary", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.SetBeneficiary(ctx, args.From, args.Address)
	})
}

func (api *AutemAPI) SetWindow(ctx context.Context, args SetWindowArgs) (*types.Receipt, error) {
	if args.Window == nil || args.Window.Int == nil {
		return nil, ErrMissingWindow
	}
	return api.send(ctx, "setWindow", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.SetWindow(ctx, args.From, args.Window.Int)
	})
}

func (api *AutemAPI) SetMetadata(ctx context.Context, args SetMetadataArgs) (*types.Receipt, error) {
	return api.send(ctx, "setMetadata", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.SetMetadata(ctx, args.From, args.encoded())
	})
}

// Execute makes the trust call args.To with args.Value and args.Data.
func (api *AutemAPI) Execute(ctx context.Context, args ExecuteArgs) (*types.Receipt, error) {
	value, err := toUint256(args.Value)
	if err != nil {
		return nil, err
	}
	return api.send(ctx, "execute", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.Execute(ctx, args.From, args.To, value, args.Data)
	})
}

// Ping renews the timer of a trust.
func (api *AutemAPI) Ping(ctx context.Context, args SendArgs) (*types.Receipt, error) {
	return api.send(ctx, "ping", args, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.Ping(ctx, args.From)
	})
}

// Deposit sends value to a trust. Anyone can fund a trust.
func (api *AutemAPI) Deposit(ctx context.Context, args DepositArgs) (*types.Receipt, error) {
	value, err := toUint256(args.Value)
	if err != nil {
		return nil, err
	}
	return api.send(ctx, "deposit", args.SendArgs, func(t *contracts.Trust) (*types.Receipt, error) {
		return t.Deposit(ctx, args.From, value)
	})
}

func toUint256(v *hexutil.Big) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	value, overflow := uint256.FromBig(v.ToInt())
	if overflow || v.ToInt().Sign() < 0 {
		return nil, errors.New("value out of range")
	}
	return value, nil
}

// Discover returns the trusts owned by owner, found from the chain logs,
// without the ones the user has hidden.
func (api *AutemAPI) Discover(ctx context.Context, owner common.Address) (trusts []common.Address, err error) {
	started := time.Now()
	defer func() { api.collector.ObserveCall("discover", started, err) }()

	found, err := api.discoverer.Discover(ctx, owner)
	if err != nil {
		api.logger.With("err", err).Warn("Discover returned an error", "owner", owner)
		return nil, err
	}
	hidden, err := api.storage.Bookmarks(ctx, api.b.ChainID(), model.BookmarkHidden)
	if err != nil {
		api.logger.With("err", err).Warn("Bookmarks returned an error")
		return nil, ErrStorage
	}
	skip := mapset.NewThreadUnsafeSet(hidden...)
	trusts = make([]common.Address, 0, len(found))
	for _, addr := range found {
		if !skip.Contains(addr) {
			trusts = append(trusts, addr)
		}
	}
	return trusts, nil
}

// TrustsByOwner returns the indexed trusts created with owner as initial
// owner or transferred to it since.
func (api *AutemAPI) TrustsByOwner(ctx context.Context, owner common.Address) ([]*IndexedTrust, error) {
	entries, err := api.storage.TrustsByOwner(ctx, api.b.ChainID(), owner)
	if err != nil {
		api.logger.With("err", err).Warn("TrustsByOwner returned an error")
		return nil, ErrStorage
	}
	out := make([]*IndexedTrust, 0, len(entries))
	for _, entry := range entries {
		out = append(out, newIndexedTrust(entry))
	}
	return out, nil
}

// GetIndexedTrust returns the creation record of a trust.
func (api *AutemAPI) GetIndexedTrust(ctx context.Context, address common.Address) (*IndexedTrust, error) {
	entry, err := api.storage.FindTrust(ctx, api.b.ChainID(), address)
	if errors.Is(err, storage.ErrTrustNotFound) {
		return nil, ErrNotATrust
	}
	if err != nil {
		api.logger.With("err", err).Warn("FindTrust returned an error")
		return nil, ErrStorage
	}
	return newIndexedTrust(entry), nil
}

func (api *AutemAPI) KnownParameters(ctx context.Context) ([]*KnownParametersResult, error) {
	items, err := api.storage.KnownParameters(ctx, api.b.ChainID())
	if err != nil {
		api.logger.With("err", err).Warn("KnownParameters returned an error")
		return nil, ErrStorage
	}
	out := make([]*KnownParametersResult, 0, len(items))
	for _, item := range items {
		out = append(out, newKnownParametersResult(item))
	}
	return out, nil
}

func (api *AutemAPI) addBookmarks(ctx context.Context, kind model.BookmarkKind, addresses []common.Address) error {
	if err := api.storage.AddBookmarks(ctx, api.b.ChainID(), kind, addresses); err != nil {
		api.logger.With("err", err).Warn("AddBookmarks returned an error", "kind", kind)
		return ErrStorage
	}
	return nil
}

func (api *AutemAPI) removeBookmark(ctx context.Context, kind model.BookmarkKind, address common.Address) (bool, error) {
	removed, err := api.storage.RemoveBookmark(ctx, api.b.ChainID(), kind, address)
	if err != nil {
		api.logger.With("err", err).Warn("RemoveBookmark returned an error", "kind", kind)
		return false, ErrStorage
	}
	return removed, nil
}

func (api *AutemAPI) hasBookmark(ctx context.Context, kind model.BookmarkKind, address common.Address) (bool, error) {
	ok, err := api.storage.HasBookmark(ctx, api.b.ChainID(), kind, address)
	if err != nil {
		api.logger.With("err", err).Warn("HasBookmark returned an error", "kind", kind)
		return false, ErrStorage
	}
	return ok, nil
}

func (api *AutemAPI) bookmarks(ctx context.Context, kind model.BookmarkKind) ([]common.Address, error) {
	addrs, err := api.storage.Bookmarks(ctx, api.b.ChainID(), kind)
	if err != nil {
		api.logger.With("err", err).Warn("Bookmarks returned an error", "kind", kind)
		return nil, ErrStorage
	}
	return addrs, nil
}

// AddBookmarks remembers trusts. Only contracts are accepted.
func (api *AutemAPI) AddBookmarks(ctx context.Context, addresses []common.Address) error {
	for _, addr := range addresses {
		if !api.b.HasCode(addr) {
			return ErrNotATrust
		}
	}
	return api.addBookmarks(ctx, model.BookmarkKnown, addresses)
}

func (api *AutemAPI) RemoveBookmark(ctx context.Context, address common.Address) (bool, error) {
	return api.removeBookmark(ctx, model.BookmarkKnown, address)
}

func (api *AutemAPI) IsBookmarked(ctx context.Context, address common.Address) (bool, error) {
	return api.hasBookmark(ctx, model.BookmarkKnown, address)
}

func (api *AutemAPI) Bookmarks(ctx context.Context) ([]common.Address, error) {
	return api.bookmarks(ctx, model.BookmarkKnown)
}

// Hide excludes a trust from discovery results.
func (api *AutemAPI) Hide(ctx context.Context, address common.Address) error {
	return api.addBookmarks(ctx, model.BookmarkHidden, []common.Address{address})
}

func (api *AutemAPI) Unhide(ctx context.Context, address common.Address) (bool, error) {
	return api.removeBookmark(ctx, model.BookmarkHidden, address)
}

func (api *AutemAPI) IsHidden(ctx context.Context, address common.Address) (bool, error) {
	return api.hasBookmark(ctx, model.BookmarkHidden, address)
}

func (api *AutemAPI) HiddenTrusts(ctx context.Context) ([]common.Address, error) {
	return api.bookmarks(ctx, model.BookmarkHidden)
}

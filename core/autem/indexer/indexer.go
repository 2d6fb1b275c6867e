// Package indexer follows the chain, records every trust the factory
// creates and finds the trusts an account owns.
package indexer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/zircuit-labs/autem/core"
	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/metrics"
	"github.com/zircuit-labs/autem/core/autem/model"
	"github.com/zircuit-labs/autem/core/autem/storage"
	"github.com/zircuit-labs/autem/core/types"
)

const chainEventChanSize = 64

var ErrNilDependency = errors.New("nil dependency")

// Chain is the part of the ledger the indexer reads.
type Chain interface {
	contracts.Backend
	ChainID() uint64
	FactoryAddress() common.Address
	FilterLogs(ctx context.Context, q types.FilterQuery) ([]*types.Log, error)
	SubscribeChainEvent(ch chan<- core.ChainEvent) event.Subscription
}

// Indexer records trusts into storage as their creation blocks are sealed,
// and keeps the indexed owner current.
type Indexer struct {
	chain   Chain
	store   storage.Storage
	metrics *metrics.Collector
	pool    pond.Pool
	logger  log.Logger
	timeout time.Duration

	quit chan struct{}
	wg   sync.WaitGroup
}

// New returns an indexer. collector may be nil. pool bounds the owner
// checks of Discover.
func New(chain Chain, store storage.Storage, collector *metrics.Collector, pool pond.Pool, timeout time.Duration, logger log.Logger) (*Indexer, error) {
	if chain == nil || store == nil || pool == nil {
		return nil, ErrNilDependency
	}
	if logger == nil {
		logger = log.Root()
	}
	return &Indexer{
		chain:   chain,
		store:   store,
		metrics: collector,
		pool:    pool,
		logger:  logger,
		timeout: timeout,
		quit:    make(chan struct{}),
	}, nil
}

// Start subscribes to the chain and indexes blocks until Stop.
func (ix *Indexer) Start() {
	events := make(chan core.ChainEvent, chainEventChanSize)
	sub := ix.chain.SubscribeChainEvent(events)

	ix.wg.Add(1)
	go func() {
		defer ix.wg.Done()
		defer sub.Unsubscribe()
		for {
			select {
			case ev := <-events:
				ix.handle(ev)
			case err := <-sub.Err():
				if err != nil {
					ix.logger.Error("Chain subscription failed", "err", err)
				}
				return
			case <-ix.quit:
				return
			}
		}
	}()
}

// Stop terminates the indexing loop.
func (ix *Indexer) Stop() {
	close(ix.quit)
	ix.wg.Wait()
}

func (ix *Indexer) handle(ev core.ChainEvent) {
	ctx := context.Background()
	if ix.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ix.timeout)
		defer cancel()
	}
	if err := ix.Process(ctx, ev.Header, ev.Receipt); err != nil {
		ix.logger.Error("Failed to index block", "number", ev.Header.Number, "err", err)
	}
}

// Process indexes the logs of a sealed transaction.
func (ix *Indexer) Process(ctx context.Context, header *types.Header, receipt *types.Receipt) error {
	if ix.metrics != nil {
		ix.metrics.Observe(receipt, ix.chain.FactoryAddress())
	}
	if !receipt.Succeeded() {
		return nil
	}

	chainID := ix.chain.ChainID()
	setups := make(map[common.Address]*types.Log)
	for _, l := range receipt.Logs {
		if len(l.Topics) > 0 && l.Topics[0] == contracts.SetupEventID {
			setups[l.Address] = l
		}
	}
	for _, l := range receipt.Logs {
		if l.Address == ix.chain.FactoryAddress() {
			trust, _, _, err := contracts.ParseCreated(l)
			if err != nil {
				continue
			}
			setup, ok := setups[trust]
			if !ok {
				ix.logger.Warn("Created trust without setup log", "trust", trust, "tx", receipt.TxHash)
				continue
			}
			params, err := contracts.ParseSetup(setup)
			if err != nil {
				return err
			}
			entry := model.NewTrustEntry(chainID, trust, params, header.Number, receipt.TxHash, time.Unix(int64(header.Time), 0))
			if err := ix.store.AddTrust(ctx, entry); err != nil {
				return err
			}
			ix.logger.Info("Indexed trust", "trust", contracts.ShortAddress(trust, 4), "owner", params.Owner, "number", header.Number)
			continue
		}
		if newOwner, err := contracts.ParseSetOwner(l); err == nil {
			updated, err := ix.store.SetTrustOwner(ctx, chainID, l.Address, newOwner)
			if err != nil {
				return err
			}
			if updated {
				ix.logger.Debug("Updated trust owner", "trust", contracts.ShortAddress(l.Address, 4), "owner", newOwner)
			}
		}
	}
	return nil
}

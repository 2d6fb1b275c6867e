package indexer

import (
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/types"
)

// Candidates returns the emitters of Setup and SetOwner logs naming owner,
// in first appearance order. Any contract can emit such logs, so a
// candidate is not necessarily a trust of owner.
func (ix *Indexer) Candidates(ctx context.Context, owner common.Address) ([]common.Address, error) {
	logs, err := ix.chain.FilterLogs(ctx, types.FilterQuery{
		Topics: [][]common.Hash{
			{contracts.SetupEventID, contracts.SetOwnerEventID},
			{common.BytesToHash(owner.Bytes())},
		},
	})
	if err != nil {
		return nil, err
	}
	var candidates []common.Address
	for _, l := range logs {
		if !slices.Contains(candidates, l.Address) {
			candidates = append(candidates, l.Address)
		}
	}
	return candidates, nil
}

// Discover returns the trusts currently owned by owner. Candidates are
// confirmed by reading owner() concurrently on the pool; a candidate whose
// read fails is dropped.
func (ix *Indexer) Discover(ctx context.Context, owner common.Address) ([]common.Address, error) {
	candidates, err := ix.Candidates(ctx, owner)
	if err != nil {
		return nil, err
	}
	owned := make([]bool, len(candidates))
	group := ix.pool.NewGroupContext(ctx)
	for i, candidate := range candidates {
		group.Submit(func() {
			current, err := contracts.NewTrust(candidate, ix.chain).Owner(ctx)
			if err != nil {
				ix.logger.Debug("Dropped discovery candidate", "address", candidate, "err", err)
				return
			}
			owned[i] = current == owner
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var trusts []common.Address
	for i, candidate := range candidates {
		if owned[i] {
			trusts = append(trusts, candidate)
		}
	}
	ix.logger.Debug("Discovered trusts", "owner", owner, "candidates", len(candidates), "trusts", len(trusts))
	return trusts, nil
}

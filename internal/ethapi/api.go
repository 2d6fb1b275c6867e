// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package ethapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/types"
)

// BlockChainAPI provides an API to access the ledger.
type BlockChainAPI struct {
	b        Backend
	accounts []common.Address
}

// NewBlockChainAPI creates a new blockchain API.
func NewBlockChainAPI(b Backend, accounts []common.Address) *BlockChainAPI {
	return &BlockChainAPI{b: b, accounts: accounts}
}

// ChainId returns the configured chain id.
func (api *BlockChainAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(uint256.Int).SetUint64(api.b.ChainID()).ToBig())
}

// BlockNumber returns the block number of the chain head.
func (api *BlockChainAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.b.CurrentHeader().Number)
}

// Accounts returns the accounts the node sends transactions for.
func (api *BlockChainAPI) Accounts() []common.Address {
	return api.accounts
}

// GetBalance returns the amount of wei for the given address at the head.
func (api *BlockChainAPI) GetBalance(address common.Address) *hexutil.Big {
	return (*hexutil.Big)(api.b.BalanceAt(address).ToBig())
}

// GetTransactionCount returns the number of transactions the given address
// has sent.
func (api *BlockChainAPI) GetTransactionCount(address common.Address) hexutil.Uint64 {
	return hexutil.Uint64(api.b.NonceAt(address))
}

// GetHeaderByNumber returns the requested header, or nil if it does not exist.
func (api *BlockChainAPI) GetHeaderByNumber(number hexutil.Uint64) *types.Header {
	header, err := api.b.HeaderByNumber(uint64(number))
	if err != nil {
		return nil
	}
	return header
}

// GetTransactionReceipt returns the receipt of a sealed transaction, or nil
// if it is unknown.
func (api *BlockChainAPI) GetTransactionReceipt(hash common.Hash) *types.Receipt {
	receipt, ok := api.b.TransactionReceipt(hash)
	if !ok {
		return nil
	}
	return receipt
}

// Call executes the given message on top of the head state and returns the
// output. No change is persisted.
func (api *BlockChainAPI) Call(ctx context.Context, args CallArgs) (hexutil.Bytes, error) {
	msg := types.CallMsg{From: args.From, To: args.To, Data: args.data()}
	if args.Value != nil {
		value, overflow := uint256.FromBig(args.Value.ToInt())
		if overflow {
			return nil, errors.New("value out of range")
		}
		msg.Value = value
	}
	result, err := api.b.Call(ctx, msg)
	if err != nil {
		return nil, executionError(err)
	}
	return result, nil
}

// FilterCriteria selects logs by block range, emitter and topics.
type FilterCriteria struct {
	FromBlock *hexutil.Uint64  `json:"fromBlock"`
	ToBlock   *hexutil.Uint64  `json:"toBlock"`
	Addresses []common.Address `json:"address"`
	Topics    [][]common.Hash  `json:"topics"`
}

func (crit FilterCriteria) query() (types.FilterQuery, error) {
	var q types.FilterQuery
	if crit.FromBlock != nil {
		q.FromBlock = uint64(*crit.FromBlock)
	}
	if crit.ToBlock != nil {
		to := uint64(*crit.ToBlock)
		if to < q.FromBlock {
			return q, fmt.Errorf("invalid block range %d-%d", q.FromBlock, to)
		}
		q.ToBlock = &to
	}
	q.Addresses = crit.Addresses
	q.Topics = crit.Topics
	return q, nil
}

// GetLogs returns the logs matching the given criteria, in chain order.
func (api *BlockChainAPI) GetLogs(ctx context.Context, crit FilterCriteria) ([]*types.Log, error) {
	q, err := crit.query()
	if err != nil {
		return nil, err
	}
	logs, err := api.b.FilterLogs(ctx, q)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*types.Log{}
	}
	return logs, nil
}

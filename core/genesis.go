// Copyright 2014 The go-ethereum Authors
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

package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/state"
	"github.com/zircuit-labs/autem/core/types"
	"github.com/zircuit-labs/autem/core/vm"
	"github.com/zircuit-labs/autem/params"
)

var errGenesisNoFactory = errors.New("genesis has no factory address")

// GenesisAlloc specifies the initial balances of the genesis block.
type GenesisAlloc map[common.Address]*uint256.Int

// Genesis specifies the initial state of the ledger: funded accounts and the
// factory of the Autem deployment, whose constructor deploys the shared logic.
type Genesis struct {
	ChainID        uint64         `json:"chainId"`
	Timestamp      uint64         `json:"timestamp"`
	Alloc          GenesisAlloc   `json:"alloc"`
	FactoryAddress common.Address `json:"factory"`
	Limits         vm.LimitConfig `json:"limits"`

	// Programs are extra contracts placed at genesis.
	Programs map[common.Address]vm.Program `json:"-"`
}

// ImplementationAddress returns the address the factory deploys the logic at.
func (g *Genesis) ImplementationAddress() common.Address {
	return crypto.CreateAddress(g.FactoryAddress, 1)
}

// Commit writes the genesis state into statedb and returns the genesis header.
func (g *Genesis) Commit(statedb *state.StateDB) (*types.Header, error) {
	if g.FactoryAddress == (common.Address{}) {
		return nil, errGenesisNoFactory
	}
	for addr, balance := range g.Alloc {
		statedb.CreateAccount(addr)
		if balance != nil {
			statedb.AddBalance(addr, balance)
		}
	}
	header := &types.Header{Number: 0, Time: g.Timestamp}
	evm := vm.NewEVM(vm.BlockContext{BlockNumber: 0, Time: g.Timestamp}, vm.TxContext{}, statedb, nil)
	if _, err := evm.Deploy(g.FactoryAddress, contracts.NewFactory(), nil); err != nil {
		return nil, fmt.Errorf("deploying factory: %w", err)
	}
	for addr, prog := range g.Programs {
		if _, err := evm.Deploy(addr, prog, nil); err != nil {
			return nil, fmt.Errorf("deploying %v: %w", addr, err)
		}
	}
	statedb.Finalise()
	return header, nil
}

// DeveloperGenesisBlock returns a genesis for a local devnet with every
// account in faucets funded.
func DeveloperGenesisBlock(faucets []common.Address, balance *uint256.Int) *Genesis {
	alloc := make(GenesisAlloc, len(faucets))
	for _, addr := range faucets {
		alloc[addr] = new(uint256.Int).Set(balance)
	}
	return &Genesis{
		ChainID:        params.DefaultChainID,
		Alloc:          alloc,
		FactoryAddress: params.DefaultFactoryAddress,
	}
}

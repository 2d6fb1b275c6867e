package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/types"
)

// Backend is the part of the ledger the bindings need.
type Backend interface {
	Call(ctx context.Context, msg types.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

func call(ctx context.Context, backend Backend, contract abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	input, err := contract.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	ret, err := backend.Call(ctx, types.CallMsg{To: to, Data: input})
	if err != nil {
		return nil, err
	}
	out, err := contract.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return out, nil
}

func transact(ctx context.Context, backend Backend, contract abi.ABI, from, to common.Address, value *uint256.Int, method string, args ...any) (*types.Receipt, error) {
	input, err := contract.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return backend.SendTransaction(ctx, types.NewTransaction(from, to, value, input))
}

// TrustInfo is everything a trust exposes through its read accessors.
type TrustInfo struct {
	Address     common.Address `json:"address"`
	Owner       common.Address `json:"owner"`
	Beneficiary common.Address `json:"beneficiary"`
	Window      *big.Int       `json:"window"`
	LastPing    uint64         `json:"lastPing"`
	Metadata    string         `json:"metadata"`
}

// State returns the fields the authorization matrix is evaluated on.
func (i *TrustInfo) State() TrustState {
	return TrustState{
		Owner:       i.Owner,
		Beneficiary: i.Beneficiary,
		Window:      uint256.MustFromBig(i.Window),
		LastPing:    uint256.NewInt(i.LastPing),
	}
}

// Trust is a binding to a deployed trust.
type Trust struct {
	Address common.Address
	backend Backend
}

// NewTrust binds the trust at addr.
func NewTrust(addr common.Address, backend Backend) *Trust {
	return &Trust{Address: addr, backend: backend}
}

func (t *Trust) call(ctx context.Context, method string) (any, error) {
	out, err := call(ctx, t.backend, AutemABI, t.Address, method)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (t *Trust) Owner(ctx context.Context) (common.Address, error) {
	out, err := t.call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return out.(common.Address), nil
}

func (t *Trust) Beneficiary(ctx context.Context) (common.Address, error) {
	out, err := t.call(ctx, "beneficiary")
	if err != nil {
		return common.Address{}, err
	}
	return out.(common.Address), nil
}

func (t *Trust) Window(ctx context.Context) (*big.Int, error) {
	out, err := t.call(ctx, "window")
	if err != nil {
		return nil, err
	}
	return out.(*big.Int), nil
}

func (t *Trust) LastPing(ctx context.Context) (uint64, error) {
	out, err := t.call(ctx, "lastPing")
	if err != nil {
		return 0, err
	}
	return out.(uint64), nil
}

func (t *Trust) Metadata(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "metadata")
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Implementation returns the logic address the trust's proxy forwards to.
func (t *Trust) Implementation(ctx context.Context) (common.Address, error) {
	out, err := call(ctx, t.backend, ProxyABI, t.Address, "implementation")
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// Info reads every accessor of the trust.
func (t *Trust) Info(ctx context.Context) (*TrustInfo, error) {
	info := &TrustInfo{Address: t.Address}
	var err error
	if info.Owner, err = t.Owner(ctx); err != nil {
		return nil, err
	}
	if info.Beneficiary, err = t.Beneficiary(ctx); err != nil {
		return nil, err
	}
	if info.Window, err = t.Window(ctx); err != nil {
		return nil, err
	}
	if info.LastPing, err = t.LastPing(ctx); err != nil {
		return nil, err
	}
	if info.Metadata, err = t.Metadata(ctx); err != nil {
		return nil, err
	}
	return info, nil
}

func (t *Trust) transact(ctx context.Context, from common.Address, value *uint256.Int, method string, args ...any) (*types.Receipt, error) {
	return transact(ctx, t.backend, AutemABI, from, t.Address, value, method, args...)
}

func (t *Trust) Setup(ctx context.Context, from common.Address, p derive.Params) (*types.Receipt, error) {
	return t.transact(ctx, from, nil, "setup", p.Owner, p.Beneficiary, p.Window, p.Metadata)
}

func (t *Trust) SetOwner(ctx context.Context, from, owner common.Address) (*types.Receipt, error) {
	return t.transact(ctx, from, nil, "setOwner", owner)
}

func (t *Trust) SetBeneficiary(ctx context.Context, from, beneficiary common.Address) (*types.Receipt, error) {
	return t.transact(ctx, from, nil, "setBeneficiary", beneficiary)
}

func (t *Trust) SetWindow(ctx context.Context, from common.Address, window *big.Int) (*types.Receipt, error) {
	return t.transact(ctx, from, nil, "setWindow", window)
}

func (t *Trust) SetMetadata(ctx context.Context, from common.Address, metadata string) (*types.Receipt, error) {
	return t.transact(ctx, from, nil, "setMetadata", metadata)
}

// Execute makes the trust call to with value and data.
func (t *Trust) Execute(ctx context.Context, from, to common.Address, value *uint256.Int, data []byte) (*types.Receipt, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	return t.transact(ctx, from, nil, "execute", to, value.ToBig(), data)
}

// Ping renews the timer with an empty call of the trust to itself.
func (t *Trust) Ping(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return t.Execute(ctx, from, t.Address, nil, nil)
}

// Deposit sends value to the trust without calldata.
func (t *Trust) Deposit(ctx context.Context, from common.Address, value *uint256.Int) (*types.Receipt, error) {
	return t.backend.SendTransaction(ctx, types.NewTransaction(from, t.Address, value, nil))
}

// FactoryBinding is a binding to a deployed factory.
type FactoryBinding struct {
	Address common.Address
	backend Backend
}

// NewFactoryBinding binds the factory at addr.
func NewFactoryBinding(addr common.Address, backend Backend) *FactoryBinding {
	return &FactoryBinding{Address: addr, backend: backend}
}

func (f *FactoryBinding) Implementation(ctx context.Context) (common.Address, error) {
	out, err := call(ctx, f.backend, FactoryABI, f.Address, "implementation")
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// Create deploys a trust and returns its address, read from the Created log.
func (f *FactoryBinding) Create(ctx context.Context, from common.Address, p derive.Params) (common.Address, *types.Receipt, error) {
	receipt, err := transact(ctx, f.backend, FactoryABI, from, f.Address, nil, "create", p.Owner, p.Beneficiary, p.Window, p.Metadata)
	if err != nil {
		return common.Address{}, receipt, err
	}
	for _, l := range receipt.Logs {
		if l.Address != f.Address {
			continue
		}
		if trust, _, _, err := ParseCreated(l); err == nil {
			return trust, receipt, nil
		}
	}
	return common.Address{}, receipt, fmt.Errorf("no Created log in transaction %s", receipt.TxHash)
}

// Package derive computes the deterministic address of a trust from its
// creation parameters, without touching the ledger.
package derive

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// proxyCreationCode is the compiled creation bytecode of the minimal proxy.
// Its constructor takes the implementation address as its only argument.
var proxyCreationCode = common.FromHex("0x60a060405234801561001057600080fd5b5060405161019238038061019283398101604081905261002f91610044565b60601b6001600160601b031916608052610072565b600060208284031215610055578081fd5b81516001600160a01b038116811461006b578182fd5b9392505050565b60805160601c60ff61009360003960008181602a01526093015260ff6000f3fe608060405260043610601f5760003560e01c80635c60da1b14606b576025565b36602557005b6040517f00000000000000000000000000000000000000000000000000000000000000009036600082376000803683855af43d806000843e8180156067578184f35b8184fd5b348015607657600080fd5b50607d6091565b6040516088919060b5565b60405180910390f35b7f000000000000000000000000000000000000000000000000000000000000000081565b6001600160a01b039190911681526020019056fea2646970667358221220ddaea2eaa1781740bac90ac9e08409bcbaa52598ae7608eb6e94208e9250c3bf64736f6c63430008010033")

var (
	ErrWindowOverflow = errors.New("window does not fit in uint96")
	ErrNegativeWindow = errors.New("window is negative")
	ErrMissingWindow  = errors.New("window is missing")
)

// MaxWindow is the largest window a trust can be created with (2^96-1).
var MaxWindow = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

var saltArguments = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("uint96")},
	{Type: mustType("string")},
}

var addressArguments = abi.Arguments{{Type: mustType("address")}}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Params are the creation parameters of a trust.
type Params struct {
	Owner       common.Address `json:"owner"`
	Beneficiary common.Address `json:"beneficiary"`
	Window      *big.Int       `json:"window"`
	Metadata    string         `json:"metadata"`
}

// Validate checks that the parameters can be ABI encoded.
func (p Params) Validate() error {
	switch {
	case p.Window == nil:
		return ErrMissingWindow
	case p.Window.Sign() < 0:
		return ErrNegativeWindow
	case p.Window.Cmp(MaxWindow) > 0:
		return ErrWindowOverflow
	}
	return nil
}

// Salt returns keccak256(abi.encode(owner, beneficiary, uint96 window, metadata)).
func Salt(p Params) (common.Hash, error) {
	if err := p.Validate(); err != nil {
		return common.Hash{}, err
	}
	encoded, err := saltArguments.Pack(p.Owner, p.Beneficiary, p.Window, p.Metadata)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// ProxyInitCode returns the creation bytecode of a proxy bound to implementation.
func ProxyInitCode(implementation common.Address) []byte {
	arg, err := addressArguments.Pack(implementation)
	if err != nil {
		// An address always packs.
		panic(err)
	}
	code := make([]byte, 0, len(proxyCreationCode)+len(arg))
	code = append(code, proxyCreationCode...)
	return append(code, arg...)
}

// ProxyInitCodeHash returns keccak256 of the proxy creation bytecode.
func ProxyInitCodeHash(implementation common.Address) common.Hash {
	return crypto.Keccak256Hash(ProxyInitCode(implementation))
}

// Address returns the address the factory deploys the trust with the given
// parameters at.
func Address(factory, implementation common.Address, p Params) (common.Address, error) {
	salt, err := Salt(p)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.CreateAddress2(factory, salt, ProxyInitCodeHash(implementation).Bytes()), nil
}

// Deriver binds the factory and implementation addresses of a deployment.
type Deriver struct {
	Factory        common.Address
	Implementation common.Address
}

// NewDeriver returns a Deriver for the given deployment.
func NewDeriver(factory, implementation common.Address) *Deriver {
	return &Deriver{Factory: factory, Implementation: implementation}
}

// Address predicts the trust address for p.
func (d *Deriver) Address(p Params) (common.Address, error) {
	return Address(d.Factory, d.Implementation, p)
}

// Verify reports whether addr is the trust created with p.
func (d *Deriver) Verify(addr common.Address, p Params) (bool, error) {
	derived, err := d.Address(p)
	if err != nil {
		return false, err
	}
	return derived == addr, nil
}

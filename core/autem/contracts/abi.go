// Package contracts holds the native programs of an Autem deployment: the
// shared trust logic, the minimal proxy every trust lives behind, and the
// factory that deploys proxies at deterministic addresses.
package contracts

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const autemJSON = `[
	{"type":"function","name":"setup","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"},{"name":"beneficiary","type":"address"},{"name":"window","type":"uint96"},{"name":"metadata","type":"string"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"beneficiary","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"window","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint96"}]},
	{"type":"function","name":"lastPing","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint64"}]},
	{"type":"function","name":"metadata","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"setOwner","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"}],"outputs":[]},
	{"type":"function","name":"setBeneficiary","stateMutability":"nonpayable","inputs":[{"name":"beneficiary","type":"address"}],"outputs":[]},
	{"type":"function","name":"setWindow","stateMutability":"nonpayable","inputs":[{"name":"window","type":"uint96"}],"outputs":[]},
	{"type":"function","name":"setMetadata","stateMutability":"nonpayable","inputs":[{"name":"metadata","type":"string"}],"outputs":[]},
	{"type":"function","name":"execute","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bytes"}]},
	{"type":"event","name":"Setup","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true},{"name":"beneficiary","type":"address","indexed":true},{"name":"window","type":"uint96","indexed":false},{"name":"metadata","type":"string","indexed":false}]},
	{"type":"event","name":"SetOwner","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true}]},
	{"type":"event","name":"SetBeneficiary","anonymous":false,"inputs":[{"name":"beneficiary","type":"address","indexed":true}]},
	{"type":"event","name":"SetWindow","anonymous":false,"inputs":[{"name":"window","type":"uint96","indexed":false}]},
	{"type":"event","name":"SetMetadata","anonymous":false,"inputs":[{"name":"metadata","type":"string","indexed":false}]},
	{"type":"event","name":"Ping","anonymous":false,"inputs":[{"name":"caller","type":"address","indexed":true},{"name":"timestamp","type":"uint64","indexed":false}]},
	{"type":"event","name":"Execute","anonymous":false,"inputs":[{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false},{"name":"data","type":"bytes","indexed":false}]}
]`

const factoryJSON = `[
	{"type":"function","name":"create","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"},{"name":"beneficiary","type":"address"},{"name":"window","type":"uint96"},{"name":"metadata","type":"string"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"implementation","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"event","name":"Created","anonymous":false,"inputs":[{"name":"trust","type":"address","indexed":true},{"name":"owner","type":"address","indexed":true},{"name":"beneficiary","type":"address","indexed":true}]}
]`

const proxyJSON = `[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"implementation","type":"address"}]},
	{"type":"function","name":"implementation","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

var (
	// AutemABI is the interface of a trust, as seen through its proxy.
	AutemABI = mustParse(autemJSON)
	// FactoryABI is the interface of the factory.
	FactoryABI = mustParse(factoryJSON)
	// ProxyABI is the interface the proxy answers without forwarding.
	ProxyABI = mustParse(proxyJSON)
)

// Event topics, for log filtering.
var (
	SetupEventID          = AutemABI.Events["Setup"].ID
	SetOwnerEventID       = AutemABI.Events["SetOwner"].ID
	SetBeneficiaryEventID = AutemABI.Events["SetBeneficiary"].ID
	SetWindowEventID      = AutemABI.Events["SetWindow"].ID
	SetMetadataEventID    = AutemABI.Events["SetMetadata"].ID
	PingEventID           = AutemABI.Events["Ping"].ID
	ExecuteEventID        = AutemABI.Events["Execute"].ID
	CreatedEventID        = FactoryABI.Events["Created"].ID
)

var errIntegerRange = errors.New("integer argument out of range")

// unpackInputs decodes the arguments of a call to method. Unsigned integers
// narrower than 256 bits must fit their declared size; the decoder itself
// accepts any 32-byte word.
func unpackInputs(method *abi.Method, data []byte) ([]any, error) {
	args, err := method.Inputs.Unpack(data)
	if err != nil {
		return nil, err
	}
	for i, input := range method.Inputs {
		if input.Type.T != abi.UintTy || input.Type.Size == 256 {
			continue
		}
		if v, ok := args[i].(*big.Int); ok && v.BitLen() > input.Type.Size {
			return nil, errIntegerRange
		}
	}
	return args, nil
}

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

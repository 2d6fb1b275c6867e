package ethapi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/autem/duration"
)

// Window is a trust window in seconds. It decodes from a JSON number, a
// decimal or 0x-prefixed hex string, or a human duration such as "30 days".
type Window struct {
	*big.Int
}

func (w *Window) UnmarshalJSON(input []byte) error {
	var number json.Number
	if err := json.Unmarshal(input, &number); err == nil {
		v, ok := new(big.Int).SetString(number.String(), 10)
		if !ok {
			return fmt.Errorf("invalid window %s", number)
		}
		w.Int = v
		return nil
	}
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		v, err := hexutil.DecodeBig(s)
		if err != nil {
			return err
		}
		w.Int = v
		return nil
	}
	if v, ok := new(big.Int).SetString(s, 10); ok {
		w.Int = v
		return nil
	}
	v, err := duration.ParseWindow(s)
	if err != nil {
		return err
	}
	w.Int = v
	return nil
}

func (w Window) MarshalJSON() ([]byte, error) {
	if w.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(w.Int.String())
}

// CreateArgs are the parameters of a trust.
type CreateArgs struct {
	From        common.Address `json:"from"`
	Owner       common.Address `json:"owner"`
	Beneficiary common.Address `json:"beneficiary"`
	Window      *Window        `json:"window"`
	Metadata    *string        `json:"metadata"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// Params returns the derivation parameters. A raw metadata string wins
// over name and description.
func (args *CreateArgs) Params() (derive.Params, error) {
	if args.Window == nil || args.Window.Int == nil {
		return derive.Params{}, ErrMissingWindow
	}
	metadata := contracts.Metadata{Name: args.Name, Description: args.Description}.Encode()
	if args.Metadata != nil {
		metadata = *args.Metadata
	}
	p := derive.Params{
		Owner:       args.Owner,
		Beneficiary: args.Beneficiary,
		Window:      args.Window.Int,
		Metadata:    metadata,
	}
	return p, p.Validate()
}

// SendArgs address a write to a trust.
type SendArgs struct {
	From  common.Address `json:"from"`
	Trust common.Address `json:"trust"`
}

type SetAddressArgs struct {
	SendArgs
	Address common.Address `json:"address"`
}

type SetWindowArgs struct {
	SendArgs
	Window *Window `json:"window"`
}

type SetMetadataArgs struct {
	SendArgs
	Metadata    *string `json:"metadata"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

func (args *SetMetadataArgs) encoded() string {
	if args.Metadata != nil {
		return *args.Metadata
	}
	return contracts.Metadata{Name: args.Name, Description: args.Description}.Encode()
}

type ExecuteArgs struct {
	SendArgs
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

type DepositArgs struct {
	SendArgs
	Value *hexutil.Big `json:"value"`
}

// CallArgs are the arguments of eth_call.
type CallArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
	Input hexutil.Bytes  `json:"input"`
}

func (args *CallArgs) data() []byte {
	if len(args.Input) > 0 {
		return args.Input
	}
	return args.Data
}

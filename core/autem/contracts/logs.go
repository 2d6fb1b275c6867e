package contracts

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/types"
)

var ErrUnexpectedLog = errors.New("unexpected log")

func isEvent(l *types.Log, id common.Hash, topics int) bool {
	return len(l.Topics) == topics && l.Topics[0] == id
}

func topicAddress(topic common.Hash) common.Address {
	return common.BytesToAddress(topic.Bytes())
}

// ParseCreated decodes a Created log of the factory.
func ParseCreated(l *types.Log) (trust, owner, beneficiary common.Address, err error) {
	if !isEvent(l, CreatedEventID, 4) {
		return common.Address{}, common.Address{}, common.Address{}, ErrUnexpectedLog
	}
	return topicAddress(l.Topics[1]), topicAddress(l.Topics[2]), topicAddress(l.Topics[3]), nil
}

// ParseSetup decodes the parameters a trust was set up with.
func ParseSetup(l *types.Log) (derive.Params, error) {
	if !isEvent(l, SetupEventID, 3) {
		return derive.Params{}, ErrUnexpectedLog
	}
	out, err := AutemABI.Unpack("Setup", l.Data)
	if err != nil {
		return derive.Params{}, err
	}
	return derive.Params{
		Owner:       topicAddress(l.Topics[1]),
		Beneficiary: topicAddress(l.Topics[2]),
		Window:      out[0].(*big.Int),
		Metadata:    out[1].(string),
	}, nil
}

// ParseSetOwner returns the new owner announced by a SetOwner log.
func ParseSetOwner(l *types.Log) (common.Address, error) {
	if !isEvent(l, SetOwnerEventID, 2) {
		return common.Address{}, ErrUnexpectedLog
	}
	return topicAddress(l.Topics[1]), nil
}

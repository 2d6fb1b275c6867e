package contracts

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// AuthLevel is the authority a caller holds over a trust at a given time.
type AuthLevel int

const (
	Unauthorized AuthLevel = iota
	Locked
	Authorized
)

func (l AuthLevel) String() string {
	switch l {
	case Authorized:
		return "authorized"
	case Locked:
		return "locked"
	default:
		return "unauthorized"
	}
}

// TrustState is the stored state the authorization matrix is evaluated on.
type TrustState struct {
	Owner       common.Address
	Beneficiary common.Address
	Window      *uint256.Int
	LastPing    *uint256.Int
}

// Unlocks returns the first timestamp at which the beneficiary is authorized.
// ok is false when the sum does not fit in 256 bits, in which case the
// beneficiary never unlocks.
func (s TrustState) Unlocks() (at *uint256.Int, ok bool) {
	at, overflow := new(uint256.Int).AddOverflow(s.LastPing, s.Window)
	return at, !overflow
}

// AuthLevel evaluates the authorization matrix for caller at now.
func (s TrustState) AuthLevel(caller common.Address, now uint64) AuthLevel {
	switch caller {
	case s.Owner:
		return Authorized
	case s.Beneficiary:
		unlocks, ok := s.Unlocks()
		if !ok || uint256.NewInt(now).Lt(unlocks) {
			return Locked
		}
		return Authorized
	}
	return Unauthorized
}

func (l AuthLevel) err() error {
	switch l {
	case Authorized:
		return nil
	case Locked:
		return revert(ReasonStillLocked)
	}
	return revert(ReasonUnauthorized)
}

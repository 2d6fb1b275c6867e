package contracts

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid address")

// ShortAddress renders addr checksummed with only the first and last chars
// hex digits, as in 0x1234...abcd.
func ShortAddress(addr common.Address, chars int) string {
	hex := addr.Hex()[2:]
	if chars <= 0 || 2*chars >= len(hex) {
		return addr.Hex()
	}
	return "0x" + hex[:chars] + "..." + hex[len(hex)-chars:]
}

// ResolveAddress parses user input into an address. Surrounding spaces are
// ignored; the 0x prefix is optional.
func ResolveAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(input), nil
}

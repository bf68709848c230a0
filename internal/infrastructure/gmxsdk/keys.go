package gmxsdk

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("gmxsdk: invalid ABI type %q: %v", t, err))
	}
	return typ
}

var ( //nolint:gochecknoglobals
	stringArgs   = abi.Arguments{{Type: mustType("string")}}
	oiKeyArgs    = abi.Arguments{{Type: mustType("bytes32")}, {Type: mustType("address")}, {Type: mustType("address")}, {Type: mustType("bool")}}
	openInterest = hashString("OPEN_INTEREST")
)

// hashString mirrors keccak256(abi.encode(name)) used for DataStore key prefixes.
func hashString(name string) [32]byte {
	packed, err := stringArgs.Pack(name)
	if err != nil {
		panic(fmt.Sprintf("gmxsdk: pack key name %q: %v", name, err))
	}
	return crypto.Keccak256Hash(packed)
}

// OpenInterestKey is the DataStore key holding the open interest of one side of a market
// backed by one collateral token.
func OpenInterestKey(market, collateralToken string, isLong bool) ([32]byte, error) {
	packed, err := oiKeyArgs.Pack(openInterest, common.HexToAddress(market), common.HexToAddress(collateralToken), isLong)
	if err != nil {
		return [32]byte{}, fmt.Errorf("pack open interest key: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// FormatPositionKey renders a bytes32 position key as 0x-prefixed, zero-padded hex.
func FormatPositionKey(key *big.Int) string {
	if key == nil {
		key = new(big.Int)
	}
	return fmt.Sprintf("0x%064x", key)
}

package client

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"gmx_gateway/internal/domain/entity"
)

var panicSelector = []byte{0x4e, 0x48, 0x7b, 0x71} // Panic(uint256)

// Solidity panic codes, see https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
var panicReasons = map[uint64]string{ //nolint:gochecknoglobals
	0x01: "assertion failed",
	0x11: "arithmetic overflow or underflow",
	0x12: "division or modulo by zero",
	0x21: "invalid enum value",
	0x31: "pop on empty array",
	0x32: entity.KnownLimitationMarker,
	0x41: "out of memory",
	0x51: "call to zero-initialized function",
}

// decodeRevert turns JSON-RPC error data into a readable revert reason.
// data is normally the hex string the node attaches to execution-reverted errors.
func decodeRevert(data interface{}) (string, bool) {
	var raw []byte
	switch d := data.(type) {
	case string:
		b, err := hexutil.Decode(d)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = d
	default:
		return "", false
	}

	if len(raw) >= 4+32 && bytes.Equal(raw[:4], panicSelector) {
		code := new(big.Int).SetBytes(raw[4:36])
		if reason, ok := panicReasons[code.Uint64()]; ok && code.IsUint64() {
			return fmt.Sprintf("panic 0x%02x (%s)", code.Uint64(), reason), true
		}
		return fmt.Sprintf("panic 0x%x", code), true
	}

	if reason, err := abi.UnpackRevert(raw); err == nil {
		return reason, true
	}
	return "", false
}

package entity

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// CallRequestItem represents a single eth_call in a JSON-RPC batch.
type CallRequestItem struct {
	ID   string
	To   string
	Data []byte
}

// CallResultItem represents the result of a single eth_call from a batch.
type CallResultItem struct {
	RequestID string
	Data      []byte
	Error     error
}

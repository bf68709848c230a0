package entity

import (
	"errors"
	"strings"
)

// KnownLimitationMarker is the message fragment of the reader revert raised when
// the market price array does not cover every requested market.
const KnownLimitationMarker = "Array index is out of bounds"

var (
	// ErrUpstreamUnavailable is returned when market metadata came back with neither markets nor tokens.
	ErrUpstreamUnavailable = errors.New("upstream unavailable: no markets and no tokens returned")
	// ErrUnknownChain is returned for chain ids outside the profile table.
	ErrUnknownChain = errors.New("unknown chain id")
)

// ClientInputError is a request validation failure surfaced verbatim to the caller.
type ClientInputError struct {
	Message string
}

func (e *ClientInputError) Error() string {
	return e.Message
}

// IsKnownLimitation reports whether err carries the empty-price-array marker.
func IsKnownLimitation(err error) bool {
	return err != nil && strings.Contains(err.Error(), KnownLimitationMarker)
}

// IsClientInput reports whether err is a ClientInputError.
func IsClientInput(err error) bool {
	var target *ClientInputError
	return errors.As(err, &target)
}

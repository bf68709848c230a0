package entity

import "math/big"

// TokenPriceSnapshot is the min/max USD price of a whole token at query time.
// Prices use 30 decimals, the same convention as every USD value in the protocol.
type TokenPriceSnapshot struct {
	MinPrice *big.Int `json:"minPrice"`
	MaxPrice *big.Int `json:"maxPrice"`
}

// TokenData holds the details of a token known to the oracle.
type TokenData struct {
	Address     string              `json:"address"`
	Symbol      string              `json:"symbol"`
	Decimals    uint8               `json:"decimals"`
	IsSynthetic bool                `json:"isSynthetic"`
	Prices      *TokenPriceSnapshot `json:"prices,omitempty"`
}

// HasPrices reports whether both bounds of the price snapshot are present.
func (t TokenData) HasPrices() bool {
	return t.Prices != nil && t.Prices.MinPrice != nil && t.Prices.MaxPrice != nil
}

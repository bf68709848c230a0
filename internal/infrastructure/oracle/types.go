package oracle

// TokensResponse is the body of GET {oracle}/tokens.
type TokensResponse struct {
	Tokens []Token `json:"tokens"`
}

// Token is one token known to the oracle.
type Token struct {
	Symbol    string `json:"symbol"`
	Address   string `json:"address"`
	Decimals  uint8  `json:"decimals"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Ticker is one element of GET {oracle}/prices/tickers.
// Prices are decimal strings in contract precision (30 minus the token decimals).
type Ticker struct {
	TokenAddress string `json:"tokenAddress"`
	TokenSymbol  string `json:"tokenSymbol"`
	MinPrice     string `json:"minPrice"`
	MaxPrice     string `json:"maxPrice"`
	UpdatedAt    int64  `json:"updatedAt,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
}

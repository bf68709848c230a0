package entity

// PositionRecord is the canonical, flattened view of a position.
// Magnitudes are integers rendered as decimal strings; they never pass through floating point.
type PositionRecord struct {
	PositionKey                  string `json:"positionKey"`
	Market                       string `json:"market"`
	MarketAddress                string `json:"marketAddress"`
	Account                      string `json:"account"`
	IsLong                       bool   `json:"isLong"`
	SizeInUsd                    string `json:"sizeInUsd"`
	SizeInTokens                 string `json:"sizeInTokens"`
	CollateralAmount             string `json:"collateralAmount"`
	CollateralToken              string `json:"collateralToken"`
	ClaimableFundingFeeUsd       string `json:"claimableFundingFeeUsd"`
	ClaimableFundingFeeFormatted string `json:"claimableFundingFeeFormatted"`
}

// PositionWithFunding is a position returned by the by-key lookup together
// with the hourly funding factor for its own side.
type PositionWithFunding struct {
	PositionRecord
	FundingRateHourly    string `json:"fundingRateHourly"`
	FundingRateHourlyRaw string `json:"fundingRateHourlyRaw"`
}

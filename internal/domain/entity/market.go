package entity

import "math/big"

// MarketInfo identifies a trading market and carries the funding state needed
// to derive per-period funding factors. It is read-only and request scoped.
type MarketInfo struct {
	MarketTokenAddress string `json:"marketTokenAddress"`
	IndexTokenAddress  string `json:"indexTokenAddress"`
	LongTokenAddress   string `json:"longTokenAddress"`
	ShortTokenAddress  string `json:"shortTokenAddress"`
	IsSpotOnly         bool   `json:"isSpotOnly"`
	IsSameCollaterals  bool   `json:"isSameCollaterals"`
	IsDisabled         bool   `json:"isDisabled"`
	Name               string `json:"name"`

	IndexToken TokenData `json:"indexToken"`
	LongToken  TokenData `json:"longToken"`
	ShortToken TokenData `json:"shortToken"`

	LongsPayShorts         bool     `json:"longsPayShorts"`
	FundingFactorPerSecond *big.Int `json:"fundingFactorPerSecond"`
	LongInterestUsd        *big.Int `json:"longInterestUsd"`
	ShortInterestUsd       *big.Int `json:"shortInterestUsd"`
}

// PriceProps is a min/max price pair in contract precision.
type PriceProps struct {
	Min *big.Int
	Max *big.Int
}

// ContractMarketPrices is the (index, long, short) price triple the reader
// contract expects for a market.
type ContractMarketPrices struct {
	IndexTokenPrice PriceProps
	LongTokenPrice  PriceProps
	ShortTokenPrice PriceProps
}

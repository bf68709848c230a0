package gmxsdk

import (
	"fmt"
	"math/big"
	"strings"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/utils"
)

// MarketIndexName is "<INDEX>/USD", or SWAP-ONLY for markets without an index token.
func MarketIndexName(m entity.MarketInfo) string {
	if m.IsSpotOnly {
		return "SWAP-ONLY"
	}
	return m.IndexToken.Symbol + "/USD"
}

// MarketPoolName is "<LONG>-<SHORT>", collapsed to one symbol when both collaterals match.
func MarketPoolName(m entity.MarketInfo) string {
	if m.LongToken.Symbol == m.ShortToken.Symbol {
		return m.LongToken.Symbol
	}
	return m.LongToken.Symbol + "-" + m.ShortToken.Symbol
}

// MarketFullName is the human-readable market label, e.g. "ETH/USD [WETH-USDC]".
func MarketFullName(m entity.MarketInfo) string {
	return fmt.Sprintf("%s [%s]", MarketIndexName(m), MarketPoolName(m))
}

// ContractPrice converts a 30-decimal USD price per whole token into the per-unit
// precision the contracts use.
func ContractPrice(price *big.Int, decimals uint8) *big.Int {
	return new(big.Int).Quo(price, utils.ExpandDecimals(int(decimals)))
}

// MarketContractPrices builds the (index, long, short) min/max price triple of a market.
// Fresh snapshots from tokens take precedence over the ones embedded in the market.
// It reports false when any of the three tokens has no price.
func MarketContractPrices(m entity.MarketInfo, tokens map[string]entity.TokenData) (entity.ContractMarketPrices, bool) {
	index, ok := pricedToken(tokens, m.IndexTokenAddress, m.IndexToken)
	if !ok {
		return entity.ContractMarketPrices{}, false
	}
	long, ok := pricedToken(tokens, m.LongTokenAddress, m.LongToken)
	if !ok {
		return entity.ContractMarketPrices{}, false
	}
	short, ok := pricedToken(tokens, m.ShortTokenAddress, m.ShortToken)
	if !ok {
		return entity.ContractMarketPrices{}, false
	}

	return entity.ContractMarketPrices{
		IndexTokenPrice: contractPriceProps(index),
		LongTokenPrice:  contractPriceProps(long),
		ShortTokenPrice: contractPriceProps(short),
	}, true
}

func pricedToken(tokens map[string]entity.TokenData, address string, embedded entity.TokenData) (entity.TokenData, bool) {
	if token, _, ok := utils.LookupFold(tokens, address); ok && token.HasPrices() {
		return token, true
	}
	if embedded.HasPrices() {
		return embedded, true
	}
	return entity.TokenData{}, false
}

func contractPriceProps(t entity.TokenData) entity.PriceProps {
	return entity.PriceProps{
		Min: ContractPrice(t.Prices.MinPrice, t.Decimals),
		Max: ContractPrice(t.Prices.MaxPrice, t.Decimals),
	}
}

func isZeroAddress(address string) bool {
	return strings.EqualFold(address, entity.ZeroAddress)
}

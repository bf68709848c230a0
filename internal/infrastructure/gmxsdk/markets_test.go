package gmxsdk

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmx_gateway/internal/domain/entity"
)

func priced(symbol, addr string, decimals uint8, usd int64) entity.TokenData {
	p := mul(usd, e(30))
	return entity.TokenData{
		Address:  addr,
		Symbol:   symbol,
		Decimals: decimals,
		Prices:   &entity.TokenPriceSnapshot{MinPrice: p, MaxPrice: new(big.Int).Set(p)},
	}
}

func TestMarketFullName(t *testing.T) {
	eth := entity.TokenData{Symbol: "ETH"}
	usdc := entity.TokenData{Symbol: "USDC"}

	assert.Equal(t, "ETH/USD [ETH-USDC]", MarketFullName(entity.MarketInfo{IndexToken: eth, LongToken: eth, ShortToken: usdc}))
	assert.Equal(t, "ETH/USD [ETH]", MarketFullName(entity.MarketInfo{IndexToken: eth, LongToken: eth, ShortToken: eth}))
	assert.Equal(t, "SWAP-ONLY [ETH-USDC]", MarketFullName(entity.MarketInfo{IsSpotOnly: true, LongToken: eth, ShortToken: usdc}))
}

func TestMarketContractPrices(t *testing.T) {
	tokens := map[string]entity.TokenData{
		wethAddr: priced("ETH", wethAddr, 18, 3000),
		usdcAddr: priced("USDC", usdcAddr, 6, 1),
	}
	m := entity.MarketInfo{IndexTokenAddress: wethAddr, LongTokenAddress: wethAddr, ShortTokenAddress: usdcAddr}

	prices, ok := MarketContractPrices(m, tokens)
	require.True(t, ok)
	assert.Equal(t, 0, mul(3000, e(12)).Cmp(prices.IndexTokenPrice.Min))
	assert.Equal(t, 0, e(24).Cmp(prices.ShortTokenPrice.Max))

	m.ShortTokenAddress = unknownToken
	_, ok = MarketContractPrices(m, tokens)
	assert.False(t, ok)

	m.ShortToken = priced("DAI", unknownToken, 18, 1)
	_, ok = MarketContractPrices(m, tokens)
	assert.True(t, ok, "embedded snapshot is used when the token table lacks one")
}

func TestOpenInterestKey(t *testing.T) {
	a, err := OpenInterestKey(ethMarket, wethAddr, true)
	require.NoError(t, err)
	b, err := OpenInterestKey(ethMarket, wethAddr, false)
	require.NoError(t, err)
	c, err := OpenInterestKey(ethMarket, usdcAddr, true)
	require.NoError(t, err)
	again, err := OpenInterestKey(ethMarket, wethAddr, true)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, again)
}

func TestFormatPositionKey(t *testing.T) {
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000ff", FormatPositionKey(big.NewInt(255)))
	assert.Len(t, FormatPositionKey(nil), 66)
}

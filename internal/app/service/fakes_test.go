package service

import (
	"context"
	"math/big"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/probe"
)

const (
	ethMarket = "0x70d95587d40A2caf56bd97485aB3Eec10Bee6336"
	btcMarket = "0x47c031236e19d024b42f8AE6780E44A573170703"
	oddMarket = "0x3333333333333333333333333333333333333333"
	wethAddr  = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	usdcAddr  = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	btcAddr   = "0x47904963fc8b2340414262125aF798B9655E58Cd"
	unpriced  = "0x4444444444444444444444444444444444444444"
	account   = "0x9999999999999999999999999999999999999999"
)

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func usd(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pow10(30))
}

func token(symbol, addr string, decimals uint8, price int64) entity.TokenData {
	t := entity.TokenData{Address: addr, Symbol: symbol, Decimals: decimals}
	if price > 0 {
		t.Prices = &entity.TokenPriceSnapshot{MinPrice: usd(price), MaxPrice: usd(price)}
	}
	return t
}

// fixtures: a priced ETH market, a priced BTC market and a market whose short token has no price.
func fixtures() (map[string]entity.MarketInfo, map[string]entity.TokenData) {
	weth := token("ETH", wethAddr, 18, 3000)
	usdc := token("USDC", usdcAddr, 6, 1)
	btc := token("BTC", btcAddr, 8, 60000)
	odd := token("ODD", unpriced, 18, 0)

	markets := map[string]entity.MarketInfo{
		ethMarket: {
			MarketTokenAddress: ethMarket, IndexTokenAddress: wethAddr, LongTokenAddress: wethAddr, ShortTokenAddress: usdcAddr,
			Name: "ETH/USD [ETH-USDC]", IndexToken: weth, LongToken: weth, ShortToken: usdc,
			LongsPayShorts: true, FundingFactorPerSecond: pow10(22), LongInterestUsd: big.NewInt(200), ShortInterestUsd: big.NewInt(100),
		},
		btcMarket: {
			MarketTokenAddress: btcMarket, IndexTokenAddress: btcAddr, LongTokenAddress: wethAddr, ShortTokenAddress: usdcAddr,
			Name: "BTC/USD [ETH-USDC]", IndexToken: btc, LongToken: weth, ShortToken: usdc,
			FundingFactorPerSecond: new(big.Int), LongInterestUsd: new(big.Int), ShortInterestUsd: new(big.Int),
		},
		oddMarket: {
			MarketTokenAddress: oddMarket, IndexTokenAddress: wethAddr, LongTokenAddress: wethAddr, ShortTokenAddress: unpriced,
			Name: "ETH/USD [ETH-ODD]", IndexToken: weth, LongToken: weth, ShortToken: odd,
		},
	}
	tokens := map[string]entity.TokenData{wethAddr: weth, usdcAddr: usdc, btcAddr: btc, unpriced: odd}
	return markets, tokens
}

type fakeGMXClient struct {
	markets    map[string]entity.MarketInfo
	tokens     map[string]entity.TokenData
	marketsErr error

	sdkRecords []probe.Record
	sdkErr     error
	sdkCalls   int
	sdkMarkets map[string]entity.MarketInfo

	contractRecords []probe.Record
	contractErr     error
	contractCalls   int
	contractMarkets []string
	contractPrices  []entity.ContractMarketPrices
}

func newFakeGMXClient() *fakeGMXClient {
	markets, tokens := fixtures()
	return &fakeGMXClient{markets: markets, tokens: tokens}
}

func (f *fakeGMXClient) Profile() entity.NetworkProfile {
	return entity.NetworkProfile{ChainID: 42161}
}

func (f *fakeGMXClient) MarketsInfo(context.Context) (map[string]entity.MarketInfo, map[string]entity.TokenData, error) {
	return f.markets, f.tokens, f.marketsErr
}

func (f *fakeGMXClient) Positions(_ context.Context, _ string, markets map[string]entity.MarketInfo, _ map[string]entity.TokenData) ([]probe.Record, error) {
	f.sdkCalls++
	f.sdkMarkets = markets
	return f.sdkRecords, f.sdkErr
}

func (f *fakeGMXClient) AccountPositionInfoList(_ context.Context, _ string, marketAddresses []string, prices []entity.ContractMarketPrices) ([]probe.Record, error) {
	f.contractCalls++
	f.contractMarkets = marketAddresses
	f.contractPrices = prices
	return f.contractRecords, f.contractErr
}

type fakeProvider struct {
	client *fakeGMXClient
	err    error
}

func (p *fakeProvider) GetClient(context.Context, uint64) (port.GMXClient, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.client, nil
}

func (p *fakeProvider) Ready(uint64) bool { return p.err == nil }

// contractPosition builds a record in the reader's nested shape.
func contractPosition(key int64, market string, isLong bool, claimLong *big.Int) probe.Record {
	return probe.Record{
		"positionKey": big.NewInt(key),
		"position": probe.Record{
			"addresses": probe.Record{"account": account, "market": market, "collateralToken": usdcAddr},
			"numbers":   probe.Record{"sizeInUsd": usd(1000), "sizeInTokens": pow10(17), "collateralAmount": big.NewInt(500_000_000)},
			"flags":     probe.Record{"isLong": isLong},
		},
		"fees": probe.Record{"funding": probe.Record{"claimableLongTokenAmount": claimLong}},
	}
}

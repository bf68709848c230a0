// Package gmxsdk reads GMX v2 market and position state from the oracle REST API and
// the Reader and DataStore contracts.
package gmxsdk

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/oracle"
	"gmx_gateway/internal/pkg/probe"
	"gmx_gateway/internal/pkg/utils"
)

// ContractCaller performs eth_call requests.
type ContractCaller interface {
	Call(ctx context.Context, to string, data []byte) ([]byte, error)
	BatchCall(ctx context.Context, requests []entity.CallRequestItem) ([]entity.CallResultItem, error)
}

// PriceOracle serves token metadata and price tickers.
type PriceOracle interface {
	Tokens(ctx context.Context) ([]oracle.Token, error)
	Tickers(ctx context.Context) ([]oracle.Ticker, error)
}

// SDK is the read client of one GMX deployment.
type SDK struct {
	profile  entity.NetworkProfile
	caller   ContractCaller
	oracle   PriceOracle
	pageSize *big.Int
	logger   *zap.Logger
}

// New creates an SDK. pageSize bounds the reader's list queries.
func New(profile entity.NetworkProfile, caller ContractCaller, priceOracle PriceOracle, pageSize int64, logger *zap.Logger) *SDK {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &SDK{
		profile:  profile,
		caller:   caller,
		oracle:   priceOracle,
		pageSize: big.NewInt(pageSize),
		logger:   logger.Named("GMXSDK").With(zap.String("network", profile.Identifier)),
	}
}

// Profile returns the network profile of this SDK.
func (s *SDK) Profile() entity.NetworkProfile {
	return s.profile
}

// MarketsInfo loads tokens, prices and markets concurrently, then the funding state of every
// perpetual market whose three tokens are priced. Markets referencing unknown tokens are skipped.
func (s *SDK) MarketsInfo(ctx context.Context) (map[string]entity.MarketInfo, map[string]entity.TokenData, error) {
	var (
		oracleTokens []oracle.Token
		tickers      []oracle.Ticker
		rawMarkets   []probe.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		oracleTokens, err = s.oracle.Tokens(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tickers, err = s.oracle.Tickers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rawMarkets, err = s.readMarkets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	tokens := s.buildTokensData(oracleTokens, tickers)

	markets := make(map[string]entity.MarketInfo, len(rawMarkets))
	for _, rec := range rawMarkets {
		info, ok := s.resolveMarket(rec, tokens)
		if !ok {
			continue
		}
		markets[info.MarketTokenAddress] = info
	}

	if err := s.loadFundingState(ctx, markets, tokens); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("Markets info loaded", zap.Int("markets", len(markets)), zap.Int("tokens", len(tokens)))
	return markets, tokens, nil
}

// Positions reads the account's positions across every supplied market and returns them as
// flat records keyed by a hex position key. The price array must cover every market;
// otherwise the read fails with the out-of-bounds error the reader itself would raise.
func (s *SDK) Positions(ctx context.Context, account string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error) {
	addresses := utils.SortedKeysFold(markets)
	if len(addresses) == 0 {
		return []probe.Record{}, nil
	}

	prices := make([]entity.ContractMarketPrices, 0, len(addresses))
	for _, addr := range addresses {
		p, ok := MarketContractPrices(markets[addr], tokens)
		if !ok {
			continue
		}
		prices = append(prices, p)
	}
	if len(prices) < len(addresses) {
		return nil, fmt.Errorf("market prices cover %d of %d markets: %s", len(prices), len(addresses), entity.KnownLimitationMarker)
	}

	infos, err := s.AccountPositionInfoList(ctx, account, addresses, prices)
	if err != nil {
		return nil, err
	}

	out := make([]probe.Record, 0, len(infos))
	for _, info := range infos {
		out = append(out, flattenPositionInfo(info))
	}
	return out, nil
}

// AccountPositionInfoList calls Reader.getAccountPositionInfoList. marketAddresses and prices are index aligned.
func (s *SDK) AccountPositionInfoList(ctx context.Context, account string, marketAddresses []string, prices []entity.ContractMarketPrices) ([]probe.Record, error) {
	markets := make([]common.Address, len(marketAddresses))
	for i, addr := range marketAddresses {
		markets[i] = common.HexToAddress(addr)
	}

	data, err := packCall(getAccountPositionInfoListMethod,
		common.HexToAddress(s.profile.DataStoreAddress),
		common.HexToAddress(s.profile.ReferralStorageAddress),
		common.HexToAddress(account),
		markets,
		prices,
		common.Address{},
		big.NewInt(0),
		s.pageSize,
	)
	if err != nil {
		return nil, err
	}

	out, err := s.caller.Call(ctx, s.profile.ReaderAddress, data)
	if err != nil {
		return nil, fmt.Errorf("getAccountPositionInfoList: %w", err)
	}
	decoded, err := unpackSingle(getAccountPositionInfoListMethod, out)
	if err != nil {
		return nil, err
	}
	return recordList(decoded), nil
}

func (s *SDK) readMarkets(ctx context.Context) ([]probe.Record, error) {
	data, err := packCall(getMarketsMethod, common.HexToAddress(s.profile.DataStoreAddress), big.NewInt(0), s.pageSize)
	if err != nil {
		return nil, err
	}
	out, err := s.caller.Call(ctx, s.profile.ReaderAddress, data)
	if err != nil {
		return nil, fmt.Errorf("getMarkets: %w", err)
	}
	decoded, err := unpackSingle(getMarketsMethod, out)
	if err != nil {
		return nil, err
	}
	return recordList(decoded), nil
}

// buildTokensData joins oracle tokens with their tickers. Ticker prices are scaled to
// 30-decimal USD per whole token. The native token is added at the zero address with
// the wrapped native token's prices.
func (s *SDK) buildTokensData(tokens []oracle.Token, tickers []oracle.Ticker) map[string]entity.TokenData {
	byAddress := make(map[string]oracle.Ticker, len(tickers))
	for _, t := range tickers {
		byAddress[strings.ToLower(t.TokenAddress)] = t
	}

	out := make(map[string]entity.TokenData, len(tokens)+1)
	for _, tok := range tokens {
		data := entity.TokenData{
			Address:     tok.Address,
			Symbol:      tok.Symbol,
			Decimals:    tok.Decimals,
			IsSynthetic: tok.Synthetic,
		}
		if ticker, ok := byAddress[strings.ToLower(tok.Address)]; ok {
			prices, err := parseTickerPrices(ticker, tok.Decimals)
			if err != nil {
				s.logger.Warn("Skipping unparsable ticker", zap.String("token", tok.Symbol), zap.Error(err))
			} else {
				data.Prices = prices
			}
		}
		out[tok.Address] = data
	}

	if _, _, ok := utils.LookupFold(out, entity.ZeroAddress); !ok && s.profile.WrappedNativeTokenAddress != "" {
		if wrapped, _, ok := utils.LookupFold(out, s.profile.WrappedNativeTokenAddress); ok {
			out[entity.ZeroAddress] = entity.TokenData{
				Address:  entity.ZeroAddress,
				Symbol:   s.profile.NativeSymbol,
				Decimals: wrapped.Decimals,
				Prices:   wrapped.Prices,
			}
		}
	}
	return out
}

func parseTickerPrices(t oracle.Ticker, decimals uint8) (*entity.TokenPriceSnapshot, error) {
	minPrice, err := probe.ToBigInt(t.MinPrice)
	if err != nil {
		return nil, fmt.Errorf("minPrice: %w", err)
	}
	maxPrice, err := probe.ToBigInt(t.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("maxPrice: %w", err)
	}
	scale := utils.ExpandDecimals(int(decimals))
	return &entity.TokenPriceSnapshot{
		MinPrice: minPrice.Mul(minPrice, scale),
		MaxPrice: maxPrice.Mul(maxPrice, scale),
	}, nil
}

var ( //nolint:gochecknoglobals
	marketTokenField = probe.NewField("marketToken", "marketToken")
	indexTokenField  = probe.NewField("indexToken", "indexToken")
	longTokenField   = probe.NewField("longToken", "longToken")
	shortTokenField  = probe.NewField("shortToken", "shortToken")
)

func (s *SDK) resolveMarket(rec probe.Record, tokens map[string]entity.TokenData) (entity.MarketInfo, bool) {
	info := entity.MarketInfo{
		MarketTokenAddress: marketTokenField.String(rec),
		IndexTokenAddress:  indexTokenField.String(rec),
		LongTokenAddress:   longTokenField.String(rec),
		ShortTokenAddress:  shortTokenField.String(rec),
	}
	info.IsSpotOnly = isZeroAddress(info.IndexTokenAddress)
	info.IsSameCollaterals = strings.EqualFold(info.LongTokenAddress, info.ShortTokenAddress)

	var ok bool
	if info.IndexToken, _, ok = utils.LookupFold(tokens, info.IndexTokenAddress); !ok && !info.IsSpotOnly {
		s.logger.Debug("Skipping market with unknown index token", zap.String("market", info.MarketTokenAddress))
		return entity.MarketInfo{}, false
	}
	if info.LongToken, _, ok = utils.LookupFold(tokens, info.LongTokenAddress); !ok {
		s.logger.Debug("Skipping market with unknown long token", zap.String("market", info.MarketTokenAddress))
		return entity.MarketInfo{}, false
	}
	if info.ShortToken, _, ok = utils.LookupFold(tokens, info.ShortTokenAddress); !ok {
		s.logger.Debug("Skipping market with unknown short token", zap.String("market", info.MarketTokenAddress))
		return entity.MarketInfo{}, false
	}

	info.Name = MarketFullName(info)
	info.FundingFactorPerSecond = new(big.Int)
	info.LongInterestUsd = new(big.Int)
	info.ShortInterestUsd = new(big.Int)
	return info, true
}

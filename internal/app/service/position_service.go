package service

import (
	"context"
	"strings"

	"gmx_gateway/internal/app/normalize"
	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/gmxsdk"
	"gmx_gateway/internal/pkg/metrics"
	"gmx_gateway/internal/pkg/probe"
	"gmx_gateway/internal/pkg/utils"
)

const (
	hourInSeconds       = 3600
	rateDisplayDecimals = 4
)

// PositionServiceImpl implements port.PositionService.
type PositionServiceImpl struct {
	data   port.MarketDataClient
	logger port.Logger
}

// NewPositionService creates a new instance of PositionServiceImpl.
func NewPositionService(data port.MarketDataClient, l port.Logger) port.PositionService {
	return &PositionServiceImpl{data: data, logger: l}
}

// GetAllPositions lists positions through the SDK path. Records whose market is unknown are kept.
func (s *PositionServiceImpl) GetAllPositions(ctx context.Context, chainID uint64, account, marketFilter string) ([]entity.PositionRecord, error) {
	markets, tokens, ok, err := s.loadMarkets(ctx, chainID, account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.PositionRecord{}, nil
	}

	scoped := scopeMarkets(markets, marketFilter)
	if len(scoped) == 0 {
		s.logger.Debug("Market filter matched no market", "market", marketFilter)
		return []entity.PositionRecord{}, nil
	}

	raws, err := s.data.FetchPositionsViaSDK(ctx, chainID, account, scoped, tokens)
	if err != nil {
		return nil, err
	}
	return s.normalizeAll(raws, normalize.New(markets, tokens, normalize.KeepUnresolved), account)
}

// GetPositionsWithFunding lists positions through the direct reader call.
func (s *PositionServiceImpl) GetPositionsWithFunding(ctx context.Context, chainID uint64, account, marketFilter string) ([]entity.PositionRecord, error) {
	markets, tokens, ok, err := s.loadMarkets(ctx, chainID, account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.PositionRecord{}, nil
	}

	scoped := scopeMarkets(markets, marketFilter)
	if len(scoped) == 0 {
		s.logger.Debug("Market filter matched no market", "market", marketFilter)
		return []entity.PositionRecord{}, nil
	}

	raws, err := s.data.FetchPositionsViaContract(ctx, chainID, account, utils.SortedKeysFold(scoped), markets, tokens)
	if err != nil {
		return nil, err
	}
	return s.normalizeAll(raws, normalize.New(markets, tokens, normalize.KeepUnresolved), account)
}

// GetPositionByKey finds one position by full or partial key. Positions in unknown markets
// are not considered. It returns nil without error when nothing matches.
func (s *PositionServiceImpl) GetPositionByKey(ctx context.Context, chainID uint64, account, key string) (*entity.PositionWithFunding, error) {
	if strings.TrimSpace(key) == "" {
		return nil, &entity.ClientInputError{Message: "Position key is required. Use ?key=0x..."}
	}

	markets, tokens, ok, err := s.loadMarkets(ctx, chainID, account)
	if !ok || err != nil {
		return nil, err
	}

	raws, err := s.data.FetchPositionsViaContract(ctx, chainID, account, utils.SortedKeysFold(markets), markets, tokens)
	if err != nil {
		return nil, err
	}

	n := normalize.New(markets, tokens, normalize.DropUnresolved)
	var (
		records    []entity.PositionRecord
		recMarkets []*entity.MarketInfo
		keys       []string
	)
	for _, raw := range raws {
		rec, market, ok, err := n.Normalize(raw, account)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.NormalizedPositionsTotal.WithLabelValues("dropped").Inc()
			continue
		}
		records = append(records, rec)
		recMarkets = append(recMarkets, market)
		keys = append(keys, rec.PositionKey)
	}

	idx := matchPositionKey(keys, key)
	if idx < 0 {
		s.logger.Debug("No position matched key", "account", account, "key", key, "candidates", len(keys))
		return nil, nil
	}

	rate := gmxsdk.FundingFactorPerPeriod(*recMarkets[idx], records[idx].IsLong, hourInSeconds)
	return &entity.PositionWithFunding{
		PositionRecord:       records[idx],
		FundingRateHourly:    utils.FormatRatePercentage(rate, rateDisplayDecimals),
		FundingRateHourlyRaw: rate.String(),
	}, nil
}

// loadMarkets fetches market metadata. The empty price array failure yields ok=false and no error.
func (s *PositionServiceImpl) loadMarkets(ctx context.Context, chainID uint64, account string) (map[string]entity.MarketInfo, map[string]entity.TokenData, bool, error) {
	markets, tokens, err := s.data.FetchMarketsAndTokens(ctx, chainID)
	if err == nil {
		return markets, tokens, true, nil
	}
	if entity.IsKnownLimitation(err) {
		metrics.KnownLimitationTotal.WithLabelValues("markets").Inc()
		s.logger.Warn("Market read hit the empty price array limitation, returning no positions",
			"chain_id", chainID, "account", account, "error", err)
		return nil, nil, false, nil
	}
	return nil, nil, false, err
}

func (s *PositionServiceImpl) normalizeAll(raws []probe.Record, n *normalize.Normalizer, account string) ([]entity.PositionRecord, error) {
	out := make([]entity.PositionRecord, 0, len(raws))
	for _, raw := range raws {
		rec, market, ok, err := n.Normalize(raw, account)
		if err != nil {
			s.logger.Error("Failed to normalize position", "account", account, "error", err)
			return nil, err
		}
		if !ok {
			metrics.NormalizedPositionsTotal.WithLabelValues("dropped").Inc()
			continue
		}
		if market == nil {
			metrics.NormalizedPositionsTotal.WithLabelValues("unresolved").Inc()
		} else {
			metrics.NormalizedPositionsTotal.WithLabelValues("resolved").Inc()
		}
		out = append(out, rec)
	}
	return out, nil
}

// scopeMarkets narrows markets to the one matching filter, case-insensitively.
// An empty filter keeps every market.
func scopeMarkets(markets map[string]entity.MarketInfo, filter string) map[string]entity.MarketInfo {
	if strings.TrimSpace(filter) == "" {
		return markets
	}
	m, key, ok := utils.LookupFold(markets, strings.TrimSpace(filter))
	if !ok {
		return map[string]entity.MarketInfo{}
	}
	return map[string]entity.MarketInfo{key: m}
}

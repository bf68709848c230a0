package service

import (
	"context"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/gmxsdk"
	"gmx_gateway/internal/pkg/utils"
)

// FundingServiceImpl implements port.FundingService.
type FundingServiceImpl struct {
	data   port.MarketDataClient
	logger port.Logger
}

// NewFundingService creates a new instance of FundingServiceImpl.
func NewFundingService(data port.MarketDataClient, l port.Logger) port.FundingService {
	return &FundingServiceImpl{data: data, logger: l}
}

// GetFundingFees returns the hourly funding factor of both sides of every market, ordered by market address.
func (s *FundingServiceImpl) GetFundingFees(ctx context.Context, chainID uint64) ([]entity.FundingRateSample, error) {
	markets, _, err := s.data.FetchMarketsAndTokens(ctx, chainID)
	if err != nil {
		return nil, err
	}

	samples := make([]entity.FundingRateSample, 0, len(markets))
	for _, addr := range utils.SortedKeysFold(markets) {
		m := markets[addr]
		long := gmxsdk.FundingFactorPerPeriod(m, true, hourInSeconds)
		short := gmxsdk.FundingFactorPerPeriod(m, false, hourInSeconds)
		samples = append(samples, entity.FundingRateSample{
			Market:   m.Name,
			Long:     utils.FormatRatePercentage(long, rateDisplayDecimals),
			Short:    utils.FormatRatePercentage(short, rateDisplayDecimals),
			LongRaw:  long.String(),
			ShortRaw: short.String(),
		})
	}

	s.logger.Debug("Computed funding fees", "chain_id", chainID, "markets", len(samples))
	return samples, nil
}

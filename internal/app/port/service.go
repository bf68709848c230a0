package port

import (
	"context"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/probe"
)

// MarketDataClient fetches and pre-processes upstream data for the services.
type MarketDataClient interface {
	FetchMarketsAndTokens(ctx context.Context, chainID uint64) (map[string]entity.MarketInfo, map[string]entity.TokenData, error)
	FetchPositionsViaSDK(ctx context.Context, chainID uint64, account string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error)
	FetchPositionsViaContract(ctx context.Context, chainID uint64, account string, marketAddresses []string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error)
}

// PositionService defines the position read operations exposed over HTTP.
type PositionService interface {
	// GetAllPositions lists the account's positions, optionally limited to one market.
	GetAllPositions(ctx context.Context, chainID uint64, account, marketFilter string) ([]entity.PositionRecord, error)

	// GetPositionsWithFunding lists the account's positions through the direct contract read.
	GetPositionsWithFunding(ctx context.Context, chainID uint64, account, marketFilter string) ([]entity.PositionRecord, error)

	// GetPositionByKey returns the first position whose key matches, or nil when none does.
	GetPositionByKey(ctx context.Context, chainID uint64, account, key string) (*entity.PositionWithFunding, error)
}

// FundingService defines the funding fee read operation exposed over HTTP.
type FundingService interface {
	GetFundingFees(ctx context.Context, chainID uint64) ([]entity.FundingRateSample, error)
}

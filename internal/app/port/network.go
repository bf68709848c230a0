package port

import (
	"context"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/probe"
)

// NetworkProfileProvider defines the interface for providing network profiles.
type NetworkProfileProvider interface {
	// GetAllProfiles returns all supported profiles ordered by chain id.
	GetAllProfiles() []entity.NetworkProfile

	// GetProfileByChainID returns the profile and true if the chain is supported.
	GetProfileByChainID(chainID uint64) (entity.NetworkProfile, bool)
}

// GMXClient is the per-chain read client for the GMX v2 contracts and oracle.
type GMXClient interface {
	// Profile returns the network profile this client was built for.
	Profile() entity.NetworkProfile

	// MarketsInfo returns market metadata with funding state and token metadata with price snapshots,
	// both keyed by address.
	MarketsInfo(ctx context.Context) (map[string]entity.MarketInfo, map[string]entity.TokenData, error)

	// Positions reads every position of account across the supplied markets and returns flat records.
	Positions(ctx context.Context, account string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error)

	// AccountPositionInfoList performs the raw reader call; marketAddresses and prices are index aligned.
	AccountPositionInfoList(ctx context.Context, account string, marketAddresses []string, prices []entity.ContractMarketPrices) ([]probe.Record, error)
}

// GMXClientProvider defines the interface for providing per-chain GMX clients.
type GMXClientProvider interface {
	GetClient(ctx context.Context, chainID uint64) (GMXClient, error)
	// Ready reports whether a client for chainID has already been initialised.
	Ready(chainID uint64) bool
}

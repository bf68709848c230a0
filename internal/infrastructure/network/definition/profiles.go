package networkdefinition

import (
	"fmt"
	"sort"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
)

// Predefined GMX v2 deployments.
var ( //nolint:gochecknoglobals // Global for definitions
	Arbitrum = entity.NetworkProfile{
		ChainID:                   42161,
		Name:                      "Arbitrum One",
		Identifier:                "arbitrum",
		NativeSymbol:              "ETH",
		WrappedNativeTokenAddress: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // WETH on Arbitrum
		PrimaryRPCURL:             "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:           []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		OracleURL:                 "https://arbitrum-api.gmxinfra.io",
		SubsquidURL:               "https://gmx.squids.live/gmx-synthetics-arbitrum:prod/api/graphql",
		BlockExplorerURL:          "https://arbiscan.io",
		DataStoreAddress:          "0xFD70de6b91282D8017aA4E741e9Ae325CAb992d8",
		ReaderAddress:             "0x5Ca84c34a381434786738735265b9f3FD814b824",
		ReferralStorageAddress:    "0xe6fab3F0c7199b0d34d7FbE83394fc0e0D06e99d",
	}
	Avalanche = entity.NetworkProfile{
		ChainID:                   43114,
		Name:                      "Avalanche C-Chain",
		Identifier:                "avalanche",
		NativeSymbol:              "AVAX",
		WrappedNativeTokenAddress: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // WAVAX
		PrimaryRPCURL:             "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:           []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		OracleURL:                 "https://avalanche-api.gmxinfra.io",
		SubsquidURL:               "https://gmx.squids.live/gmx-synthetics-avalanche:prod/api/graphql",
		BlockExplorerURL:          "https://snowtrace.io",
		DataStoreAddress:          "0x2F0b22339414ADeD7D5F06f9D604c7fF5b2fe3f6",
		ReaderAddress:             "0xBAD04dDcc5CC284A86493aFA75D2BEb970C72216",
		ReferralStorageAddress:    "0x827ED045002eCdAbEb6e2b0d1604cf5fC3d322F8",
	}
)

var allKnownProfiles = map[uint64]entity.NetworkProfile{ //nolint:gochecknoglobals
	Arbitrum.ChainID:  Arbitrum,
	Avalanche.ChainID: Avalanche,
}

// NetworkProfileProvider serves the static profile table with config overrides applied.
type NetworkProfileProvider struct {
	logger   port.Logger
	profiles map[uint64]entity.NetworkProfile
}

// NewNetworkProfileProvider creates the provider. rpcOverrides maps chain id to an RPC URL
// that replaces the profile's primary endpoint; the original primary becomes the first fallback.
func NewNetworkProfileProvider(log port.Logger, rpcOverrides map[uint64]string) *NetworkProfileProvider {
	p := &NetworkProfileProvider{
		logger:   log,
		profiles: make(map[uint64]entity.NetworkProfile, len(allKnownProfiles)),
	}

	for chainID, profile := range allKnownProfiles {
		if override, ok := rpcOverrides[chainID]; ok && override != "" {
			fallbacks := append([]string{profile.PrimaryRPCURL}, profile.FallbackRPCURLs...)
			profile.PrimaryRPCURL = override
			profile.FallbackRPCURLs = fallbacks
			p.logger.Info("RPC override applied", "network", profile.Identifier, "rpc_primary", override)
		}
		p.profiles[chainID] = profile
	}

	for chainID := range rpcOverrides {
		if _, ok := allKnownProfiles[chainID]; !ok {
			p.logger.Warn(fmt.Sprintf("RPC override configured for unsupported chain %d, ignoring.", chainID))
		}
	}

	return p
}

// GetAllProfiles returns every profile ordered by chain id.
func (p *NetworkProfileProvider) GetAllProfiles() []entity.NetworkProfile {
	if p == nil {
		return []entity.NetworkProfile{}
	}
	out := make([]entity.NetworkProfile, 0, len(p.profiles))
	for _, profile := range p.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// GetProfileByChainID returns the profile for chainID.
func (p *NetworkProfileProvider) GetProfileByChainID(chainID uint64) (entity.NetworkProfile, bool) {
	if p == nil {
		return entity.NetworkProfile{}, false
	}
	profile, ok := p.profiles[chainID]
	return profile, ok
}

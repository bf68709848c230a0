package service

import (
	"context"
	"fmt"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/gmxsdk"
	"gmx_gateway/internal/pkg/metrics"
	"gmx_gateway/internal/pkg/probe"
	"gmx_gateway/internal/pkg/utils"
)

// ExternalDataClient implements port.MarketDataClient on top of per-chain GMX clients.
type ExternalDataClient struct {
	clients port.GMXClientProvider
	logger  port.Logger
}

// NewExternalDataClient creates a new instance of ExternalDataClient.
func NewExternalDataClient(clients port.GMXClientProvider, l port.Logger) *ExternalDataClient {
	return &ExternalDataClient{clients: clients, logger: l}
}

// FetchMarketsAndTokens returns market and token metadata for the chain.
// It fails with entity.ErrUpstreamUnavailable when both come back empty.
func (c *ExternalDataClient) FetchMarketsAndTokens(ctx context.Context, chainID uint64) (map[string]entity.MarketInfo, map[string]entity.TokenData, error) {
	client, err := c.clients.GetClient(ctx, chainID)
	if err != nil {
		return nil, nil, err
	}

	markets, tokens, err := client.MarketsInfo(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch markets info", "chain_id", chainID, "error", err)
		return nil, nil, fmt.Errorf("fetch markets info: %w", err)
	}
	if len(markets) == 0 && len(tokens) == 0 {
		return nil, nil, entity.ErrUpstreamUnavailable
	}

	c.logger.Debug("Fetched markets and tokens", "chain_id", chainID, "markets", len(markets), "tokens", len(tokens))
	return markets, tokens, nil
}

// FetchPositionsViaSDK reads positions across every supplied market.
func (c *ExternalDataClient) FetchPositionsViaSDK(ctx context.Context, chainID uint64, account string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error) {
	client, err := c.clients.GetClient(ctx, chainID)
	if err != nil {
		return nil, err
	}

	records, err := client.Positions(ctx, account, markets, tokens)
	if err != nil {
		return c.degrade("sdk", account, err)
	}
	if records == nil {
		records = []probe.Record{}
	}
	return records, nil
}

// FetchPositionsViaContract calls the reader directly for the given markets. Markets that are
// unknown or lack a complete price triple are left out of the call.
func (c *ExternalDataClient) FetchPositionsViaContract(ctx context.Context, chainID uint64, account string, marketAddresses []string, markets map[string]entity.MarketInfo, tokens map[string]entity.TokenData) ([]probe.Record, error) {
	addresses := make([]string, 0, len(marketAddresses))
	prices := make([]entity.ContractMarketPrices, 0, len(marketAddresses))
	for _, addr := range marketAddresses {
		m, _, ok := utils.LookupFold(markets, addr)
		if !ok {
			continue
		}
		p, ok := gmxsdk.MarketContractPrices(m, tokens)
		if !ok {
			c.logger.Debug("Excluding market without complete prices", "market", addr)
			continue
		}
		addresses = append(addresses, addr)
		prices = append(prices, p)
	}
	if len(addresses) == 0 {
		return []probe.Record{}, nil
	}

	client, err := c.clients.GetClient(ctx, chainID)
	if err != nil {
		return nil, err
	}

	records, err := client.AccountPositionInfoList(ctx, account, addresses, prices)
	if err != nil {
		return c.degrade("contract", account, err)
	}
	if len(records) == 0 {
		return []probe.Record{}, nil
	}
	return records, nil
}

// degrade turns the known empty-price-array failure into an empty result.
func (c *ExternalDataClient) degrade(path, account string, err error) ([]probe.Record, error) {
	if entity.IsKnownLimitation(err) {
		metrics.KnownLimitationTotal.WithLabelValues(path).Inc()
		c.logger.Warn("Position read hit the empty price array limitation, returning no positions",
			"path", path, "account", account, "error", err)
		return []probe.Record{}, nil
	}
	c.logger.Error("Position read failed", "path", path, "account", account, "error", err)
	return nil, fmt.Errorf("read positions: %w", err)
}

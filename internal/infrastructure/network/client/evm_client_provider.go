package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/infrastructure/configloader"
	"gmx_gateway/internal/infrastructure/gmxsdk"
	"gmx_gateway/internal/infrastructure/oracle"
)

// ClientFactory builds the GMX client for one network profile.
type ClientFactory func(ctx context.Context, profile entity.NetworkProfile) (port.GMXClient, error)

// gmxClientProvider implements the port.GMXClientProvider interface.
// Clients live for the whole process; concurrent first requests for a chain share one initialisation.
type gmxClientProvider struct {
	profiles          port.NetworkProfileProvider
	clients           *cache.Cache
	group             singleflight.Group
	factory           ClientFactory
	connectionTimeout time.Duration
	loggerInfo        func(msg string, args ...any)
	loggerError       func(msg string, args ...any)
}

// NewGMXClientProvider creates a provider that builds clients with NewGMXClientFactory.
func NewGMXClientProvider(
	cfg *configloader.Config,
	profiles port.NetworkProfileProvider,
	zapLogger *zap.Logger,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) port.GMXClientProvider {
	return NewGMXClientProviderWithFactory(profiles, NewGMXClientFactory(cfg, zapLogger),
		time.Duration(cfg.RPCClient.ConnectionTimeoutSeconds)*time.Second, loggerInfo, loggerError)
}

// NewGMXClientProviderWithFactory creates a provider with a custom client factory.
func NewGMXClientProviderWithFactory(
	profiles port.NetworkProfileProvider,
	factory ClientFactory,
	connectionTimeout time.Duration,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) port.GMXClientProvider {
	if connectionTimeout <= 0 {
		connectionTimeout = 10 * time.Second
	}
	return &gmxClientProvider{
		profiles:          profiles,
		clients:           cache.New(cache.NoExpiration, 0),
		factory:           factory,
		connectionTimeout: connectionTimeout,
		loggerInfo:        loggerInfo,
		loggerError:       loggerError,
	}
}

// NewGMXClientFactory returns the production factory: an EVM client over the profile's RPC
// endpoints and an oracle client, combined into a gmxsdk.SDK.
func NewGMXClientFactory(cfg *configloader.Config, zapLogger *zap.Logger) ClientFactory {
	return func(ctx context.Context, profile entity.NetworkProfile) (port.GMXClient, error) {
		evmClient, err := NewEVMClient(ctx, profile, EVMClientOptions{
			ConnectionTimeout: time.Duration(cfg.RPCClient.ConnectionTimeoutSeconds) * time.Second,
			RPCCallTimeout:    time.Duration(cfg.RPCClient.CallTimeoutSeconds) * time.Second,
			RateLimit:         rate.Limit(cfg.RPCClient.RateLimitPerSecond),
			Burst:             cfg.RPCClient.Burst,
			MaxCallsPerBatch:  cfg.RPCClient.MaxCallsPerBatch,
		}, zapLogger.Named("EVMClient"))
		if err != nil {
			return nil, err
		}
		oracleClient := oracle.NewClient(profile.OracleURL, time.Duration(cfg.Oracle.RequestTimeoutMillis)*time.Millisecond, zapLogger)
		return gmxsdk.New(profile, evmClient, oracleClient, cfg.GMX.ReaderPageSize, zapLogger), nil
	}
}

// GetClient returns the client for chainID, creating it on first use.
func (p *gmxClientProvider) GetClient(ctx context.Context, chainID uint64) (port.GMXClient, error) {
	key := strconv.FormatUint(chainID, 10)
	if c, ok := p.clients.Get(key); ok {
		return c.(port.GMXClient), nil
	}

	v, err, shared := p.group.Do(key, func() (interface{}, error) {
		if c, ok := p.clients.Get(key); ok {
			return c, nil
		}

		profile, ok := p.profiles.GetProfileByChainID(chainID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", entity.ErrUnknownChain, chainID)
		}

		// The client outlives the request that triggered its creation.
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.connectionTimeout)
		defer cancel()

		p.loggerInfo("Creating new GMX client", "network", profile.Identifier, "rpc_primary", profile.PrimaryRPCURL)
		c, err := p.factory(initCtx, profile)
		if err != nil {
			p.loggerError("Failed to create GMX client", "network", profile.Identifier, "error", err)
			return nil, fmt.Errorf("failed to create GMX client for %s: %w", profile.Name, err)
		}

		p.clients.Set(key, c, cache.NoExpiration)
		p.loggerInfo("Successfully created and cached new GMX client", "network", profile.Identifier)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.loggerInfo("Shared in-flight GMX client initialisation", "chain_id", chainID)
	}
	return v.(port.GMXClient), nil
}

// Ready reports whether the client for chainID has been created.
func (p *gmxClientProvider) Ready(chainID uint64) bool {
	_, ok := p.clients.Get(strconv.FormatUint(chainID, 10))
	return ok
}

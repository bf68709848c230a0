package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gmx_gateway/internal/domain/entity"
	"gmx_gateway/internal/pkg/metrics"
	"gmx_gateway/internal/pkg/utils"
)

// EVMClient performs read-only contract calls against one chain.
type EVMClient struct {
	ethClient        *ethclient.Client
	profile          entity.NetworkProfile
	rpcCallTimeout   time.Duration
	limiter          *rate.Limiter
	maxCallsPerBatch int
	logger           *zap.Logger
}

// EVMClientOptions groups the tunables of an EVMClient.
type EVMClientOptions struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	RateLimit         rate.Limit
	Burst             int
	MaxCallsPerBatch  int
}

// NewEVMClient dials the profile's primary RPC endpoint, then each fallback in order.
func NewEVMClient(ctx context.Context, profile entity.NetworkProfile, opts EVMClientOptions, logger *zap.Logger) (*EVMClient, error) {
	rpcURLs := append([]string{profile.PrimaryRPCURL}, profile.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectionTimeout)
		client, err := ethclient.DialContext(dialCtx, rpcURL)
		cancel()

		if err == nil {
			logger.Info("Connected to RPC", zap.String("network", profile.Identifier), zap.String("rpc", rpcURL))
			maxBatch := opts.MaxCallsPerBatch
			if maxBatch <= 0 {
				maxBatch = 100
			}
			return &EVMClient{
				ethClient:        client,
				profile:          profile,
				rpcCallTimeout:   opts.RPCCallTimeout,
				limiter:          rate.NewLimiter(opts.RateLimit, opts.Burst),
				maxCallsPerBatch: maxBatch,
				logger:           logger,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		logger.Warn("RPC dial failed", zap.String("network", profile.Identifier), zap.String("rpc", rpcURL), zap.Error(err))
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", profile.Name, lastErr)
}

// Call performs a single eth_call at the latest block.
func (c *EVMClient) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	addr := common.HexToAddress(to)
	start := time.Now()
	out, err := c.ethClient.CallContract(callCtx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	metrics.UpstreamCallDuration.WithLabelValues("eth_call", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, wrapCallError(to, err)
	}
	return out, nil
}

// BatchCall sends eth_call requests as JSON-RPC batches of at most maxCallsPerBatch elements.
// Per-call failures are reported on the matching result item; the returned error covers transport failures only.
func (c *EVMClient) BatchCall(ctx context.Context, requests []entity.CallRequestItem) ([]entity.CallResultItem, error) {
	if len(requests) == 0 {
		return []entity.CallResultItem{}, nil
	}

	results := make([]entity.CallResultItem, 0, len(requests))
	for _, chunk := range utils.Batch(requests, c.maxCallsPerBatch) {
		chunkResults, err := c.batchCallChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		results = append(results, chunkResults...)
	}
	return results, nil
}

func (c *EVMClient) batchCallChunk(ctx context.Context, requests []entity.CallRequestItem) ([]entity.CallResultItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	batchElems := make([]rpc.BatchElem, len(requests))
	outputs := make([]hexutil.Bytes, len(requests))
	results := make([]entity.CallResultItem, len(requests))

	for i, reqItem := range requests {
		results[i] = entity.CallResultItem{RequestID: reqItem.ID}
		callArgs := map[string]interface{}{
			"to":   common.HexToAddress(reqItem.To),
			"data": hexutil.Bytes(reqItem.Data),
		}
		batchElems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs, "latest"},
			Result: &outputs[i],
		}
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	start := time.Now()
	err := c.ethClient.Client().BatchCallContext(rpcCallCtx, batchElems)
	metrics.UpstreamCallDuration.WithLabelValues("eth_call_batch", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	for i, elem := range batchElems {
		if elem.Error != nil {
			results[i].Error = wrapCallError(requests[i].To, elem.Error)
			continue
		}
		results[i].Data = outputs[i]
	}
	return results, nil
}

// Profile returns the network profile of this client.
func (c *EVMClient) Profile() entity.NetworkProfile {
	return c.profile
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func wrapCallError(to string, err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := decodeRevert(dataErr.ErrorData()); ok {
			return fmt.Errorf("call to %s reverted: %s: %w", to, reason, err)
		}
	}
	return fmt.Errorf("call to %s failed: %w", to, err)
}

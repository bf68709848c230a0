package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"gmx_gateway/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client reads token metadata and price tickers from the GMX oracle REST API.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates an oracle client for baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{Name: "gmx_gateway"},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("OracleClient"),
	}
}

// Tokens returns every token the oracle lists.
func (c *Client) Tokens(ctx context.Context) ([]Token, error) {
	var body TokensResponse
	if err := c.get(ctx, "tokens", "/tokens", &body); err != nil {
		return nil, err
	}
	if len(body.Tokens) == 0 {
		c.logger.Warn("Oracle returned 200 OK with no tokens", zap.String("baseURL", c.baseURL))
	}
	return body.Tokens, nil
}

// Tickers returns the latest min/max price of every token.
func (c *Client) Tickers(ctx context.Context) ([]Ticker, error) {
	var tickers []Ticker
	if err := c.get(ctx, "tickers", "/prices/tickers", &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}

func (c *Client) get(ctx context.Context, operation, path string, out interface{}) (err error) {
	requestURL := c.baseURL + path
	c.logger.Debug("Requesting oracle", zap.String("url", requestURL))

	start := time.Now()
	defer func() {
		metrics.UpstreamCallDuration.WithLabelValues("oracle_"+operation, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	}()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to oracle", zap.String("url", requestURL), zap.Error(err))
			return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		c.logger.Error("Failed to execute request to oracle (with default timeout)", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Oracle request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return fmt.Errorf("oracle request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		c.logger.Error("Failed to unmarshal oracle response", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to unmarshal oracle response from %s: %w", requestURL, err)
	}
	return nil
}

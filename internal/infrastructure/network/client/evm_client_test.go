package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"gmx_gateway/internal/domain/entity"
)

const revertingInput = "0xdead"

type rpcRequest struct {
	ID     jsoniter.RawMessage   `json:"id"`
	Method string                `json:"method"`
	Params []jsoniter.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      jsoniter.RawMessage `json:"id"`
	Result  interface{}         `json:"result,omitempty"`
	Error   *rpcError           `json:"error,omitempty"`
}

// rpcNode is a minimal eth_call endpoint: it echoes the call input back as the
// return data and reverts with Panic(0x32) for revertingInput.
type rpcNode struct {
	mu      sync.Mutex
	batches []int
	singles int
}

func (n *rpcNode) answer(req rpcRequest) rpcResponse {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	if req.Method != "eth_call" || len(req.Params) == 0 {
		resp.Error = &rpcError{Code: -32601, Message: "method not found"}
		return resp
	}

	var args struct {
		Input string `json:"input"`
		Data  string `json:"data"`
	}
	if err := jsoniter.Unmarshal(req.Params[0], &args); err != nil {
		resp.Error = &rpcError{Code: -32602, Message: err.Error()}
		return resp
	}
	input := args.Input
	if input == "" {
		input = args.Data
	}

	if input == revertingInput {
		resp.Error = &rpcError{Code: 3, Message: "execution reverted", Data: panicData(0x32)}
		return resp
	}
	resp.Result = input
	return resp
}

func (n *rpcNode) batchSizes() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.batches...)
}

func (n *rpcNode) singleCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.singles
}

func (n *rpcNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []rpcRequest
		if err := jsoniter.Unmarshal(body, &reqs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.mu.Lock()
		n.batches = append(n.batches, len(reqs))
		n.mu.Unlock()

		resps := make([]rpcResponse, len(reqs))
		for i, req := range reqs {
			resps[i] = n.answer(req)
		}
		_ = jsoniter.NewEncoder(w).Encode(resps)
		return
	}

	var req rpcRequest
	if err := jsoniter.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.singles++
	n.mu.Unlock()
	_ = jsoniter.NewEncoder(w).Encode(n.answer(req))
}

func setupEVMClient(t *testing.T, handler http.Handler, maxCallsPerBatch int) *EVMClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	profile := entity.NetworkProfile{ChainID: 42161, Name: "Arbitrum", Identifier: "arbitrum", PrimaryRPCURL: srv.URL}
	c, err := NewEVMClient(context.Background(), profile, EVMClientOptions{
		ConnectionTimeout: time.Second,
		RPCCallTimeout:    5 * time.Second,
		RateLimit:         rate.Inf,
		Burst:             1,
		MaxCallsPerBatch:  maxCallsPerBatch,
	}, zapNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func callRequests(n int) []entity.CallRequestItem {
	reqs := make([]entity.CallRequestItem, n)
	for i := range reqs {
		reqs[i] = entity.CallRequestItem{
			ID:   fmt.Sprintf("call-%d", i),
			To:   "0x0537C767cDAC0726c76Bb89e92904fe28fd02fE1",
			Data: []byte{0xca, 0xfe, byte(i)},
		}
	}
	return reqs
}

func TestEVMClient_BatchCallChunksByLimit(t *testing.T) {
	node := &rpcNode{}
	c := setupEVMClient(t, node, 2)

	reqs := callRequests(5)
	results, err := c.BatchCall(context.Background(), reqs)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, node.batchSizes())
	require.Len(t, results, 5)
	for i, res := range results {
		assert.Equal(t, reqs[i].ID, res.RequestID)
		assert.NoError(t, res.Error)
		assert.Equal(t, reqs[i].Data, res.Data)
	}
}

func TestEVMClient_BatchCallMapsElementErrors(t *testing.T) {
	node := &rpcNode{}
	c := setupEVMClient(t, node, 10)

	reqs := callRequests(3)
	reqs[1].Data = hexutil.MustDecode(revertingInput)

	results, err := c.BatchCall(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Error)
	assert.NoError(t, results[2].Error)
	assert.Equal(t, reqs[2].Data, results[2].Data)

	require.Error(t, results[1].Error)
	assert.Equal(t, "call-1", results[1].RequestID)
	assert.Nil(t, results[1].Data)
	assert.True(t, entity.IsKnownLimitation(results[1].Error), results[1].Error.Error())
}

func TestEVMClient_BatchCallEmpty(t *testing.T) {
	node := &rpcNode{}
	c := setupEVMClient(t, node, 10)

	results, err := c.BatchCall(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, node.batchSizes())
}

func TestEVMClient_BatchCallTransportFailure(t *testing.T) {
	c := setupEVMClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}), 10)

	results, err := c.BatchCall(context.Background(), callRequests(2))
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "RPC batch call failed")
}

func TestEVMClient_Call(t *testing.T) {
	node := &rpcNode{}
	c := setupEVMClient(t, node, 10)

	out, err := c.Call(context.Background(), "0x0537C767cDAC0726c76Bb89e92904fe28fd02fE1", []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, out)

	_, err = c.Call(context.Background(), "0x0537C767cDAC0726c76Bb89e92904fe28fd02fE1", hexutil.MustDecode(revertingInput))
	require.Error(t, err)
	assert.True(t, entity.IsKnownLimitation(err), err.Error())
	assert.Contains(t, err.Error(), "reverted")
	assert.Equal(t, 2, node.singleCalls())
}

func TestNewEVMClient_FallsBackToNextRPC(t *testing.T) {
	srv := httptest.NewServer(&rpcNode{})
	t.Cleanup(srv.Close)

	profile := entity.NetworkProfile{
		Identifier:      "arbitrum",
		Name:            "Arbitrum",
		PrimaryRPCURL:   "ftp://unsupported.example",
		FallbackRPCURLs: []string{srv.URL},
	}
	c, err := NewEVMClient(context.Background(), profile, EVMClientOptions{
		ConnectionTimeout: time.Second,
		RPCCallTimeout:    time.Second,
		RateLimit:         rate.Inf,
		Burst:             1,
	}, zapNop())
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Call(context.Background(), "0x0537C767cDAC0726c76Bb89e92904fe28fd02fE1", []byte{0x0a})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a}, out)
}

func TestNewEVMClient_AllRPCsFail(t *testing.T) {
	profile := entity.NetworkProfile{Name: "Arbitrum", PrimaryRPCURL: "ftp://a.example", FallbackRPCURLs: []string{"ftp://b.example"}}
	_, err := NewEVMClient(context.Background(), profile, EVMClientOptions{ConnectionTimeout: time.Second}, zapNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all RPC connection attempts failed")
}

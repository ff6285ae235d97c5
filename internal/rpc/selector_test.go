package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// methodServer answers JSON-RPC calls from a method -> hex result table.
// Unknown methods get a JSON-RPC error.
func methodServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if res, ok := results[req.Method]; ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, res)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"":            AlgorithmFastest,
		"fastest":     AlgorithmFastest,
		"round-robin": AlgorithmRoundRobin,
		"failover":    AlgorithmFailover,
	} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAlgorithm("random")
	assert.Error(t, err)
}

func TestConnectVerifiesChainID(t *testing.T) {
	srv := methodServer(t, map[string]string{"eth_chainId": "0x5afd", "eth_blockNumber": "0x1"})

	c, err := Connect(context.Background(), []string{srv.URL}, "fastest", 23293, logger.NoopLogger{})
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, srv.URL, c.URL())
}

func TestConnectRejectsWrongChain(t *testing.T) {
	srv := methodServer(t, map[string]string{"eth_chainId": "0x1"})

	_, err := Connect(context.Background(), []string{srv.URL}, "fastest", 23293, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 23293")
}

func TestConnectUnknownAlgorithm(t *testing.T) {
	_, err := Connect(context.Background(), []string{"http://localhost:8545"}, "random", 23293, nil)
	assert.Error(t, err)
}

func TestConnectNoURLs(t *testing.T) {
	_, err := Connect(context.Background(), nil, "", 23293, nil)
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

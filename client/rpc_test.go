package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcNode answers JSON-RPC calls with the result registered for the
// method.
func rpcNode(t *testing.T, results map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{} `json:"id"`
			Method string      `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, ok := results[req.Method]
		if !ok {
			t.Errorf("unexpected method %q", req.Method)
			http.Error(w, "unknown method", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRPCConn(t *testing.T) {
	hash := solana.Hash{4, 5, 6}
	owner := swaptest.NewAddress()
	srv := rpcNode(t, map[string]interface{}{
		"getLatestBlockhash": map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value": map[string]interface{}{
				"blockhash":            hash.String(),
				"lastValidBlockHeight": 160,
			},
		},
		"getMinimumBalanceForRentExemption": 2039280,
		"getAccountInfo": map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value": map[string]interface{}{
				"lamports":   42,
				"owner":      owner.String(),
				"executable": false,
				"rentEpoch":  0,
				"data":       []string{"AQID", "base64"},
			},
		},
	})
	conn := NewRPCConn(srv.URL)
	ctx := context.Background()

	got, err := conn.GetLatestBlockhash(ctx)
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	rent, err := conn.GetMinimumBalanceForRentExemption(ctx, 165)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), rent)

	acc, err := conn.GetAccountInfo(ctx, swaptest.NewAddress())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), acc.Lamports)
	assert.Equal(t, owner, acc.Owner)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)
}

func TestRPCConnAccountNotFound(t *testing.T) {
	srv := rpcNode(t, map[string]interface{}{
		"getAccountInfo": map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value":   nil,
		},
	})
	_, err := NewRPCConn(srv.URL).GetAccountInfo(context.Background(), swaptest.NewAddress())
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
}

func TestRPCConnUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err := NewRPCConn(srv.URL).GetLatestBlockhash(context.Background())
	assert.True(t, errors.ErrNetwork.Is(err), "unexpected error: %+v", err)
}

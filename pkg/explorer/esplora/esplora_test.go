package esplora_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/permavault/permavault-daemon/pkg/explorer/esplora"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestService(t *testing.T, handler http.HandlerFunc) explorer.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := esplora.NewService(esplora.Config{
		URL:         server.URL,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		RateLimit:   1000,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name string
		cfg  esplora.Config
	}{
		{"missing_url", esplora.Config{}},
		{"bad_scheme", esplora.Config{URL: "ftp://localhost"}},
		{"negative_attempts", esplora.Config{URL: "http://localhost", MaxAttempts: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := esplora.NewService(tt.cfg)
			require.Error(t, err)
			require.Nil(t, svc)
		})
	}
}

func TestGetUnspents(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/address/bc1qtest/utxo", r.URL.Path)
		io.WriteString(w, `[
			{"txid":"aa","vout":0,"value":500,"status":{"confirmed":true,"block_height":100}},
			{"txid":"bb","vout":3,"value":1000,"status":{"confirmed":false}}
		]`)
	})

	utxos, err := svc.GetUnspents(ctx, "bc1qtest")
	require.NoError(t, err)
	require.Len(t, utxos, 2)
	require.Equal(t, "aa:0", utxos[0].Key())
	require.True(t, utxos[0].Status.Confirmed)
	require.Equal(t, uint64(1000), utxos[1].Value)
	require.Equal(t, uint64(1500), explorer.TotalValue(utxos))
}

func TestGetUnspentsMalformed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"a list"}`)
	})

	_, err := svc.GetUnspents(ctx, "bc1qtest")
	require.ErrorIs(t, err, explorer.ErrMalformedResponse)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"1":20.5,"6":7.1,"144":1.2}`)
	})

	estimates, err := svc.GetFeeEstimates(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, 7.1, estimates["6"])
}

func TestGiveUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := svc.GetFeeEstimates(ctx)
	require.ErrorIs(t, err, explorer.ErrUpstreamUnavailable)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "Invalid Bitcoin address")
	})

	_, err := svc.GetUnspents(ctx, "nope")
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var httpErr *explorer.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
}

func TestGetBalance(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/address/bc1qtest", r.URL.Path)
		io.WriteString(w, `{
			"address":"bc1qtest",
			"chain_stats":{"funded_txo_sum":10000,"spent_txo_sum":2500},
			"mempool_stats":{"funded_txo_sum":300,"spent_txo_sum":0}
		}`)
	})

	balance, err := svc.GetBalance(ctx, "bc1qtest")
	require.NoError(t, err)
	require.Equal(t, int64(7800), balance)
}

func TestBroadcastTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/tx", r.URL.Path)
			require.Equal(t, "text/plain", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			require.Equal(t, "0200beef", string(body))
			io.WriteString(w, "c0ffee\n")
		})

		txid, err := svc.BroadcastTransaction(ctx, "0200beef")
		require.NoError(t, err)
		require.Equal(t, "c0ffee", txid)
	})

	t.Run("rejected_is_not_retried", func(t *testing.T) {
		var calls int32
		msg := "sendrawtransaction RPC error: min relay fee not met"
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, msg)
		})

		txid, err := svc.BroadcastTransaction(ctx, "0200beef")
		require.Error(t, err)
		require.Empty(t, txid)
		require.Equal(t, msg, err.Error())
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BackScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBacktestSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/backtest", r.URL.Path)

		var req models.EngineBacktestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "BTCUSDT", req.Symbol)
		assert.Equal(t, "1h", req.Interval)

		_ = json.NewEncoder(w).Encode(models.EngineBacktestResponse{
			Success: true,
			Data: &models.BacktestPayload{
				Results: models.BacktestResults{
					Statistics: models.BacktestStatistics{TotalReturn: 12.5, TotalTrades: 7},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	resp, err := c.RunBacktest(context.Background(), models.EngineBacktestRequest{Symbol: "BTCUSDT", Interval: "1h"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.InDelta(t, 12.5, resp.Data.Results.Statistics.TotalReturn, 0.001)
	assert.Equal(t, 7, resp.Data.Results.Statistics.TotalTrades)
}

func TestRunBacktestEnvelopeFailurePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.EngineBacktestResponse{Success: false, Error: "no data available"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	resp, err := c.RunBacktest(context.Background(), models.EngineBacktestRequest{Symbol: "BTCUSDT"})

	// Business failure is not a transport error.
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "no data available", resp.Error)
}

func TestRunBacktestDecodesEnvelopeOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.EngineBacktestResponse{Success: false, Error: "invalid date range"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	resp, err := c.RunBacktest(context.Background(), models.EngineBacktestRequest{Symbol: "BTCUSDT"})

	// A 400 carrying the engine envelope is a business failure, not a
	// transport error.
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid date range", resp.Error)
}

func TestRunBacktestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.RunBacktest(context.Background(), models.EngineBacktestRequest{Symbol: "BTCUSDT"})
	require.Error(t, err)
}

func TestSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/symbols", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.EngineSymbolsResponse{
			Success: true,
			Data: []models.SymbolInfo{
				{Symbol: "BTCUSDT", BaseAsset: "BTC", QuoteAsset: "USDT"},
				{Symbol: "ETHUSDT", BaseAsset: "ETH", QuoteAsset: "USDT"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	infos, err := c.Symbols(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "BTCUSDT", infos[0].Symbol)
}

func TestSymbolsEnvelopeFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.EngineSymbolsResponse{Success: false, Error: "exchange unavailable"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.Symbols(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange unavailable")
}

func TestKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/klines", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.EngineKlinesResponse{
			Success: true,
			Data:    []models.ChartCandle{{Timestamp: "2024-01-01 00:00:00", Close: 42000}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	resp, err := c.Klines(context.Background(), models.EngineKlinesRequest{Symbol: "BTCUSDT", Interval: "1h"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.InDelta(t, 42000, resp.Data[0].Close, 0.001)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BackScan/internal/domain/models"
	"BackScan/internal/service/ratelimit"
	"BackScan/internal/usecase"
	applogger "BackScan/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	gate    chan struct{}
	respond func(symbol string) (*models.EngineBacktestResponse, error)
}

func (s *stubEngine) RunBacktest(_ context.Context, req models.EngineBacktestRequest) (*models.EngineBacktestResponse, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.respond != nil {
		return s.respond(req.Symbol)
	}
	return &models.EngineBacktestResponse{
		Success: true,
		Data: &models.BacktestPayload{
			Results: models.BacktestResults{
				Statistics: models.BacktestStatistics{TotalReturn: 10, WinRate: 50, TotalTrades: 4, FinalBalance: 11000, MaxDrawdown: 2},
			},
		},
	}, nil
}

func (s *stubEngine) Klines(context.Context, models.EngineKlinesRequest) (*models.EngineKlinesResponse, error) {
	return &models.EngineKlinesResponse{Success: true}, nil
}

type stubCatalog struct {
	infos []models.SymbolInfo
	err   error
}

func (s *stubCatalog) Symbols(context.Context) ([]models.SymbolInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.infos, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordJob(string)                 {}
func (nopMetrics) RecordEngineCall(string, float64) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) SetScanProgress(int, int)         {}

type fixture struct {
	e      *echo.Echo
	runner *usecase.ScanRunner
	store  *usecase.ResultStore
}

func newFixture(t *testing.T, eng *stubEngine, limiter *ratelimit.Limiter) *fixture {
	t.Helper()
	return newFixtureWithCatalog(t, eng, &stubCatalog{infos: []models.SymbolInfo{{Symbol: "BTCUSDT"}, {Symbol: "ETHUSDT"}}}, limiter)
}

func newFixtureWithCatalog(t *testing.T, eng *stubEngine, cat *stubCatalog, limiter *ratelimit.Limiter) *fixture {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	store := usecase.NewResultStore()
	runner := usecase.NewScanRunner(eng, cat, store, nopMetrics{}, l)
	hub := NewStreamHub(l)
	h := NewScanEchoHandler(l, runner, store, eng, cat, hub, limiter, 2)

	e := echo.New()
	h.RegisterRoutes(e)
	return &fixture{e: e, runner: runner, store: store}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) waitIdle(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for f.runner.Running() {
		if time.Now().After(deadline) {
			t.Fatal("scan did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type pageEnvelope struct {
	Status int         `json:"status"`
	Data   models.Page `json:"data"`
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) models.Page {
	t.Helper()
	var env pageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, http.StatusOK, env.Status)
	return env.Data
}

func bodyStatus(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var env struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Status
}

func seedRecords(f *fixture) {
	f.store.Add(models.ResultRecord{Symbol: "BTCUSDT", TotalReturn: 12, Status: models.StatusSuccess})
	f.store.Add(models.ResultRecord{Symbol: "ETHUSDT", TotalReturn: -3, Status: models.StatusSuccess})
	f.store.Add(models.ResultRecord{Symbol: "ADAUSDT", Status: models.StatusFailedPrefix + "no data available"})
}

func TestScanStatusIdle(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodGet, "/api/scan/status", "")

	var env struct {
		Data models.Progress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Data.Running)
	assert.Equal(t, "No scan in progress", env.Data.Message)
}

func TestScanStartAndComplete(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)

	rec := f.do(http.MethodPost, "/api/scan/start", `{
		"symbols": ["BTCUSDT"],
		"params": {"start_date": "2024-01-01", "end_date": "2024-06-01"}
	}`)
	require.Equal(t, http.StatusOK, bodyStatus(t, rec))

	f.waitIdle(t)
	records := f.store.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "BTCUSDT", records[0].Symbol)
	assert.Equal(t, models.StatusSuccess, records[0].Status)
}

// A request context dies as soon as the handler returns. The run must keep
// going regardless, so this test goes through a live server rather than
// ServeHTTP with a recorder, whose context is never cancelled.
func TestScanSurvivesRequestCompletion(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	srv := httptest.NewServer(f.e)
	defer srv.Close()

	body := `{
		"symbols": ["BTCUSDT", "ETHUSDT", "SOLUSDT"],
		"params": {"start_date": "2024-01-01", "end_date": "2024-06-01"}
	}`
	resp, err := http.Post(srv.URL+"/api/scan/start", echo.MIMEApplicationJSON, strings.NewReader(body))
	require.NoError(t, err)
	var env struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, env.Status)

	f.waitIdle(t)
	records := f.store.Snapshot()
	require.Len(t, records, 3)
	for i, sym := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		assert.Equal(t, sym, records[i].Symbol)
		assert.Equal(t, models.StatusSuccess, records[i].Status)
	}
	assert.Equal(t, models.OutcomeCompleted, f.runner.Status().Outcome)
}

func TestScanStartCatalogFailureIsBadGateway(t *testing.T) {
	cat := &stubCatalog{err: errors.New("exchange info: connection refused")}
	f := newFixtureWithCatalog(t, &stubEngine{}, cat, nil)

	rec := f.do(http.MethodPost, "/api/scan/start", `{
		"symbols": [],
		"params": {"start_date": "2024-01-01", "end_date": "2024-06-01"}
	}`)
	assert.Equal(t, http.StatusBadGateway, bodyStatus(t, rec))
	assert.Zero(t, f.store.Len())
}

func TestScanStartRejectsInvalidDates(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)

	rec := f.do(http.MethodPost, "/api/scan/start", `{
		"symbols": ["BTCUSDT"],
		"params": {"start_date": "2024-06-01", "end_date": "2024-01-01"}
	}`)
	assert.Equal(t, http.StatusBadRequest, bodyStatus(t, rec))
	assert.Zero(t, f.store.Len())
}

func TestScanStartConflictsWhileRunning(t *testing.T) {
	gate := make(chan struct{})
	f := newFixture(t, &stubEngine{gate: gate}, nil)

	body := `{"symbols": ["BTCUSDT"], "params": {"start_date": "2024-01-01", "end_date": "2024-06-01"}}`
	rec := f.do(http.MethodPost, "/api/scan/start", body)
	require.Equal(t, http.StatusOK, bodyStatus(t, rec))

	rec = f.do(http.MethodPost, "/api/scan/start", body)
	assert.Equal(t, http.StatusConflict, bodyStatus(t, rec))

	close(gate)
	f.waitIdle(t)
}

func TestScanStopIsIdempotent(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodPost, "/api/scan/stop", "")
	assert.Equal(t, http.StatusOK, bodyStatus(t, rec))
}

func TestViewFilterResetsPage(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	seedRecords(f)

	// Page size 2 over 3 records: move to page 2 first.
	page := decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"page": 2}`))
	require.Equal(t, 2, page.Page)

	// Changing the filter snaps back to page 1.
	page = decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"filter": "USDT"}`))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalFiltered)
}

func TestViewSortKeepsPage(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	seedRecords(f)

	page := decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"page": 2}`))
	require.Equal(t, 2, page.Page)

	page = decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"sort_key": "total_return", "sort_order": "desc"}`))
	assert.Equal(t, 2, page.Page)
}

func TestViewSameFilterKeepsPage(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	seedRecords(f)

	decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"filter": "USDT"}`))
	page := decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"page": 2}`))
	require.Equal(t, 2, page.Page)

	// Re-sending the identical filter is not a change.
	page = decodePage(t, f.do(http.MethodPut, "/api/scan/view", `{"filter": "USDT"}`))
	assert.Equal(t, 2, page.Page)
}

func TestViewRejectsUnknownSortKey(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodPut, "/api/scan/view", `{"sort_key": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, bodyStatus(t, rec))
}

func TestResultsQueryFilterResetsPage(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	seedRecords(f)

	page := decodePage(t, f.do(http.MethodGet, "/api/scan/results?page=2", ""))
	require.Equal(t, 2, page.Page)

	page = decodePage(t, f.do(http.MethodGet, "/api/scan/results?filter=BTC", ""))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalFiltered)
}

func TestExportEmptyStoreWarns(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodGet, "/api/scan/export", "")
	assert.Equal(t, http.StatusNotFound, bodyStatus(t, rec))
}

func TestExportStreamsCSV(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	seedRecords(f)

	rec := f.do(http.MethodGet, "/api/scan/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "backtest_results.csv")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Symbol,Total Return (%),Win Rate (%),Total Trades,Final Balance,Max Drawdown (%),Status", lines[0])
	assert.Contains(t, lines[3], `"Failed: no data available"`)
}

func TestSymbolsEndpoint(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodGet, "/api/symbols", "")

	var env struct {
		Data []models.SymbolInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "BTCUSDT", env.Data[0].Symbol)
}

func TestBacktestEndpointRateLimited(t *testing.T) {
	f := newFixture(t, &stubEngine{}, ratelimit.New(1, 0.0001))

	body := `{"symbol": "BTCUSDT", "start_date": "2024-01-01", "end_date": "2024-06-01"}`
	rec := f.do(http.MethodPost, "/api/backtest", body)
	require.Equal(t, http.StatusOK, bodyStatus(t, rec))

	rec = f.do(http.MethodPost, "/api/backtest", body)
	assert.Equal(t, http.StatusTooManyRequests, bodyStatus(t, rec))
}

func TestBacktestEndpointValidation(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodPost, "/api/backtest", `{"start_date": "2024-01-01", "end_date": "2024-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, bodyStatus(t, rec))
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t, &stubEngine{}, nil)
	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

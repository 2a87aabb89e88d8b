package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
	"BackScan/internal/service/ratelimit"
	"BackScan/internal/usecase"
	xhttp "BackScan/pkg/http"
	xlogger "BackScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanEchoHandler exposes the scan control surface over Echo. It owns the
// view state on behalf of the UI: the store and projector stay pure, the
// handler applies the filter-resets-page rule on mutation.
type ScanEchoHandler struct {
	logger  *xlogger.Logger
	runner  *usecase.ScanRunner
	store   *usecase.ResultStore
	engine  drepo.Engine
	catalog drepo.Catalog
	hub     *StreamHub
	limiter *ratelimit.Limiter

	mu   sync.Mutex
	view models.ViewState
}

// NewScanEchoHandler wires the handler. pageSize fixes the page size for the
// process lifetime; limiter may be nil to leave ad-hoc engine calls
// unthrottled.
func NewScanEchoHandler(
	logger *xlogger.Logger,
	runner *usecase.ScanRunner,
	store *usecase.ResultStore,
	engine drepo.Engine,
	catalog drepo.Catalog,
	hub *StreamHub,
	limiter *ratelimit.Limiter,
	pageSize int,
) *ScanEchoHandler {
	return &ScanEchoHandler{
		logger:  logger,
		runner:  runner,
		store:   store,
		engine:  engine,
		catalog: catalog,
		hub:     hub,
		limiter: limiter,
		view:    models.DefaultViewState(pageSize),
	}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/symbols", h.Symbols)
	g.POST("/backtest", h.Backtest)
	g.POST("/klines", h.Klines)
	g.POST("/scan/start", h.StartScan)
	g.POST("/scan/stop", h.StopScan)
	g.GET("/scan/status", h.ScanStatus)
	g.GET("/scan/results", h.ScanResults)
	g.PUT("/scan/view", h.UpdateView)
	g.GET("/scan/export", h.ExportResults)

	e.GET("/ws/scan", h.hub.Serve)
	e.GET("/healthz", h.Health)
}

// Symbols returns the tradable instrument catalog, cache-backed.
func (h *ScanEchoHandler) Symbols(c echo.Context) error {
	infos, err := h.catalog.Symbols(c.Request().Context())
	if err != nil {
		h.logger.Error("symbol catalog error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_CATALOG", "", err.Error(), http.StatusBadGateway))
	}
	return xhttp.SuccessResponse(c, infos)
}

// Backtest runs a single-symbol backtest and returns the full engine result
// including chart data.
func (h *ScanEchoHandler) Backtest(c echo.Context) error {
	if !h.allowEngineCall(c) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many engine requests", http.StatusTooManyRequests))
	}
	req := &models.BacktestRunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params := req.StrategyParams()
	if err := params.Validate(); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	job := models.Job{Symbol: req.Symbol, Params: params}
	resp, err := h.engine.RunBacktest(c.Request().Context(), models.NewEngineBacktestRequest(job))
	if err != nil {
		h.logger.Error("backtest call failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_ENGINE", "", err.Error(), http.StatusBadGateway))
	}
	if !resp.Success {
		return xhttp.BadRequestResponse(c, resp.Error)
	}
	return xhttp.SuccessResponse(c, resp.Data)
}

// Klines proxies a candle fetch for the charting collaborator.
func (h *ScanEchoHandler) Klines(c echo.Context) error {
	if !h.allowEngineCall(c) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many engine requests", http.StatusTooManyRequests))
	}
	req := &models.KlinesFetchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	resp, err := h.engine.Klines(c.Request().Context(), models.EngineKlinesRequest{
		Symbol:    req.Symbol,
		Interval:  req.Interval,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.logger.Error("klines call failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_ENGINE", "", err.Error(), http.StatusBadGateway))
	}
	if !resp.Success {
		return xhttp.BadRequestResponse(c, resp.Error)
	}
	return xhttp.SuccessResponse(c, resp.Data)
}

// StartScan begins a run. Validation failures and an already-active run are
// rejected before any job is dispatched.
func (h *ScanEchoHandler) StartScan(c echo.Context) error {
	req := &models.ScanStartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	err := h.runner.Start(c.Request().Context(), req.Symbols, req.Params)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrRunActive):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RUN_ACTIVE", "", err.Error(), http.StatusConflict))
	case errors.Is(err, usecase.ErrCatalog):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_CATALOG", "", err.Error(), http.StatusBadGateway))
	default:
		return xhttp.BadRequestResponse(c, err.Error())
	}

	// Fresh run, fresh view.
	h.mu.Lock()
	h.view = models.DefaultViewState(h.view.PageSize)
	h.mu.Unlock()

	return xhttp.SuccessResponse(c, h.runner.Status())
}

// StopScan requests a cooperative stop. Stopping when nothing runs is fine.
func (h *ScanEchoHandler) StopScan(c echo.Context) error {
	h.runner.RequestStop()
	return xhttp.SuccessResponse(c, h.runner.Status())
}

// ScanStatus returns the progress snapshot.
func (h *ScanEchoHandler) ScanStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.runner.Status())
}

// ScanResults applies any view changes from the query string and returns the
// projected page.
func (h *ScanEchoHandler) ScanResults(c echo.Context) error {
	req := &models.ScanResultsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.mu.Lock()
	if req.SortKey != "" {
		h.view.SortKey = strings.ToLower(req.SortKey)
	}
	if req.SortOrder != "" {
		h.view.SortOrder = strings.ToLower(req.SortOrder)
	}
	if c.QueryParams().Has("filter") && req.Filter != h.view.Filter {
		h.view.Filter = req.Filter
		h.view.Page = 1
	}
	if req.Page > 0 {
		h.view.Page = req.Page
	}
	view := h.view
	h.mu.Unlock()

	page := usecase.Project(h.store.Snapshot(), view)
	return xhttp.SuccessResponse(c, page)
}

// UpdateView applies a partial view-state mutation and returns the page
// under the new view.
func (h *ScanEchoHandler) UpdateView(c echo.Context) error {
	req := &models.ViewUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.mu.Lock()
	if req.SortKey != nil {
		h.view.SortKey = strings.ToLower(*req.SortKey)
	}
	if req.SortOrder != nil {
		h.view.SortOrder = strings.ToLower(*req.SortOrder)
	}
	if req.Filter != nil && *req.Filter != h.view.Filter {
		h.view.Filter = *req.Filter
		h.view.Page = 1
	}
	if req.Page != nil {
		h.view.Page = *req.Page
	}
	view := h.view
	h.mu.Unlock()

	page := usecase.Project(h.store.Snapshot(), view)
	return xhttp.SuccessResponse(c, page)
}

// ExportResults streams the full unfiltered store as CSV.
func (h *ScanEchoHandler) ExportResults(c echo.Context) error {
	records := h.store.Snapshot()
	csv, err := usecase.ExportCSV(records)
	if err != nil {
		if errors.Is(err, usecase.ErrNoResults) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("export failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="backtest_results.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(csv))
}

// Health reports liveness.
func (h *ScanEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// allowEngineCall applies the per-client token bucket on endpoints that hit
// the engine outside the scan loop's own throttle.
func (h *ScanEchoHandler) allowEngineCall(c echo.Context) bool {
	if h.limiter == nil {
		return true
	}
	return h.limiter.Allow(c.RealIP())
}

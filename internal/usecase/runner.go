package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
	applogger "BackScan/pkg/logger"
)

// ErrRunActive is returned when a scan start is rejected because one is
// already in flight. At most one run per runner.
var ErrRunActive = errors.New("a scan is already running")

// ErrCatalog wraps a symbol catalog failure during run seeding.
var ErrCatalog = errors.New("symbol catalog unavailable")

// interJobDelay throttles request rate against the remote engine. One call
// in flight at a time plus this fixed pause is the backpressure contract;
// it is deliberately not configurable and applies even after a failed job.
const interJobDelay = 500 * time.Millisecond

// ResultSink receives one record per completed job.
type ResultSink interface {
	Add(rec models.ResultRecord)
	Reset()
}

// ScanRunner drives one backtest call per symbol, sequentially, classifies
// each outcome into exactly one ResultRecord, and reports progress after
// every append. Cancellation is cooperative: the stop flag is checked at the
// top of each iteration and never aborts a call already in flight.
type ScanRunner struct {
	engine  drepo.Engine
	catalog drepo.Catalog
	sink    ResultSink
	metrics drepo.Metrics
	logger  *applogger.Logger
	delay   time.Duration

	mu         sync.Mutex
	running    bool
	current    int
	total      int
	symbol     string
	lastStatus string
	outcome    models.RunOutcome
	observers  []drepo.RunObserver

	stop atomic.Bool
}

// NewScanRunner creates a runner writing results into sink.
func NewScanRunner(engine drepo.Engine, catalog drepo.Catalog, sink ResultSink, metrics drepo.Metrics, logger *applogger.Logger) *ScanRunner {
	return &ScanRunner{
		engine:  engine,
		catalog: catalog,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
		delay:   interJobDelay,
	}
}

// AddObserver registers an observer. Observers are notified synchronously on
// the runner's own goroutine, so record k's notification always precedes
// record k+1's.
func (r *ScanRunner) AddObserver(obs drepo.RunObserver) {
	r.mu.Lock()
	r.observers = append(r.observers, obs)
	r.mu.Unlock()
}

// Start begins a run over the given symbols. An empty list seeds the run
// from the symbol catalog. Parameter validation happens before any state is
// touched; a catalog failure aborts with no records produced. The job loop
// runs on its own goroutine; Start returns once it is underway.
func (r *ScanRunner) Start(ctx context.Context, symbols []string, params models.StrategyParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrRunActive
	}
	r.running = true
	r.current = 0
	r.total = 0
	r.symbol = ""
	r.lastStatus = ""
	r.outcome = models.OutcomeNone
	r.stop.Store(false)
	r.mu.Unlock()

	r.sink.Reset()

	if len(symbols) == 0 {
		infos, err := r.catalog.Symbols(ctx)
		if err != nil {
			r.metrics.RecordError("catalog")
			r.finish(models.OutcomeAborted)
			return fmt.Errorf("%w: %v", ErrCatalog, err)
		}
		symbols = make([]string, 0, len(infos))
		for _, s := range infos {
			symbols = append(symbols, s.Symbol)
		}
	}

	r.mu.Lock()
	r.total = len(symbols)
	r.mu.Unlock()

	r.logger.Info("scan started",
		applogger.Int("symbols", len(symbols)),
		applogger.String("interval", params.Interval),
		applogger.String("range", params.StartDate+".."+params.EndDate),
	)

	// The job loop outlives the caller; an HTTP request context is cancelled
	// as soon as the handler returns, which must not stop the run.
	go r.run(context.WithoutCancel(ctx), symbols, params)
	return nil
}

// RequestStop sets the cooperative stop flag. The in-flight job finishes and
// its record is still appended; no further jobs are dispatched.
func (r *ScanRunner) RequestStop() {
	r.stop.Store(true)
}

// Running reports whether a run is active.
func (r *ScanRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Status returns the current progress snapshot.
func (r *ScanRunner) Status() models.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusLocked()
}

func (r *ScanRunner) statusLocked() models.Progress {
	msg, percent := FormatProgress(r.current, r.total, r.symbol)
	return models.Progress{
		Running:    r.running,
		Current:    r.current,
		Total:      r.total,
		Symbol:     r.symbol,
		LastStatus: r.lastStatus,
		Percent:    percent,
		Message:    msg,
		Outcome:    r.outcome,
	}
}

func (r *ScanRunner) run(ctx context.Context, symbols []string, params models.StrategyParams) {
	outcome := models.OutcomeCompleted

	for i, sym := range symbols {
		if r.stop.Load() {
			outcome = models.OutcomeStopped
			break
		}

		job := models.Job{Symbol: sym, Params: params}
		rec := r.execute(ctx, job)
		r.sink.Add(rec)
		r.metrics.RecordJob(recordClass(rec))
		r.metrics.SetScanProgress(i+1, len(symbols))

		r.mu.Lock()
		r.current = i + 1
		r.symbol = sym
		r.lastStatus = rec.Status
		prog := r.statusLocked()
		observers := r.observers
		r.mu.Unlock()

		for _, obs := range observers {
			obs.OnRecord(rec, prog)
		}

		if i < len(symbols)-1 && !r.stop.Load() {
			time.Sleep(r.delay)
		}
	}

	r.finish(outcome)
}

// execute performs one backtest call and classifies the outcome into exactly
// one record. Job-level failures never propagate; they become records.
func (r *ScanRunner) execute(ctx context.Context, job models.Job) models.ResultRecord {
	start := time.Now()
	resp, err := r.engine.RunBacktest(ctx, models.NewEngineBacktestRequest(job))
	r.metrics.RecordEngineCall("backtest", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError("engine_call")
		r.logger.Warn("backtest call failed",
			applogger.String("symbol", job.Symbol),
			applogger.Error(err),
		)
		return models.ErrorRecord(job.Symbol, err.Error())
	}
	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = "unknown error"
		}
		r.logger.Warn("backtest rejected",
			applogger.String("symbol", job.Symbol),
			applogger.String("reason", reason),
		)
		return models.FailedRecord(job.Symbol, reason)
	}
	if resp.Data == nil {
		r.metrics.RecordError("engine_payload")
		return models.ErrorRecord(job.Symbol, "empty response payload")
	}

	stats := resp.Data.Results.Statistics
	return models.ResultRecord{
		Symbol:       job.Symbol,
		TotalReturn:  stats.TotalReturn,
		WinRate:      stats.WinRate,
		TotalTrades:  stats.TotalTrades,
		FinalBalance: stats.FinalBalance,
		MaxDrawdown:  stats.MaxDrawdown,
		Status:       models.StatusSuccess,
	}
}

func (r *ScanRunner) finish(outcome models.RunOutcome) {
	r.mu.Lock()
	r.running = false
	r.symbol = ""
	r.outcome = outcome
	prog := r.statusLocked()
	observers := r.observers
	r.mu.Unlock()

	for _, obs := range observers {
		obs.OnFinished(outcome, prog)
	}

	r.logger.Info("scan finished",
		applogger.String("outcome", string(outcome)),
		applogger.Int("records", prog.Current),
		applogger.Int("total", prog.Total),
	)
}

func recordClass(rec models.ResultRecord) string {
	switch {
	case rec.Succeeded():
		return "success"
	case strings.HasPrefix(rec.Status, models.StatusFailedPrefix):
		return "failed"
	default:
		return "error"
	}
}

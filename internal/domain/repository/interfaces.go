package repository

import (
	"context"

	"BackScan/internal/domain/models"
)

// Engine is the remote backtest computation service. RunBacktest returns the
// engine envelope for both success and business failure; a non-nil error
// means the call itself failed (network, decode, non-2xx).
type Engine interface {
	RunBacktest(ctx context.Context, req models.EngineBacktestRequest) (*models.EngineBacktestResponse, error)
	Klines(ctx context.Context, req models.EngineKlinesRequest) (*models.EngineKlinesResponse, error)
}

// Catalog lists tradable instruments.
type Catalog interface {
	Symbols(ctx context.Context) ([]models.SymbolInfo, error)
}

// Publisher emits scan events for downstream consumers.
type Publisher interface {
	PublishRecord(ctx context.Context, rec models.ResultRecord, prog models.Progress) error
	PublishOutcome(ctx context.Context, outcome models.RunOutcome, prog models.Progress) error
	Close() error
}

// RunObserver receives a notification per completed job and one terminal
// notification per run. Implementations decide when and whether to repaint.
type RunObserver interface {
	OnRecord(rec models.ResultRecord, prog models.Progress)
	OnFinished(outcome models.RunOutcome, prog models.Progress)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordJob(status string)
	RecordEngineCall(op string, seconds float64)
	RecordError(kind string)
	SetScanProgress(current, total int)
}

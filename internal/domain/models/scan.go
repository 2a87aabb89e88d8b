package models

import (
	"fmt"
	"strings"

	"BackScan/pkg/util"
)

// Record status forms. Failed covers business-level rejections reported by
// the engine, Error covers transport-level failures of the call itself.
const (
	StatusSuccess      = "Success"
	StatusFailedPrefix = "Failed: "
	StatusErrorPrefix  = "Error: "
)

// StrategyParams is the fixed parameter set shared by every job in one scan.
// Only the symbol varies between jobs.
type StrategyParams struct {
	Interval   string  `json:"interval" yaml:"interval" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 2h 4h 1d"`
	StartDate  string  `json:"start_date" yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" yaml:"end_date" validate:"required,datetime=2006-01-02"`
	Leverage   float64 `json:"leverage" yaml:"leverage" default:"1" validate:"gte=1,lte=125"`
	Margin     float64 `json:"margin" yaml:"margin" default:"100" validate:"gte=1,lte=100"`
	Balance    float64 `json:"balance" yaml:"balance" default:"10000" validate:"gt=0"`
	MACDFast   int     `json:"macd_fast" yaml:"macd_fast" default:"12" validate:"gte=1"`
	MACDSlow   int     `json:"macd_slow" yaml:"macd_slow" default:"26" validate:"gte=1"`
	MACDSignal int     `json:"macd_signal" yaml:"macd_signal" default:"9" validate:"gte=1"`
	SMALength  int     `json:"sma_length" yaml:"sma_length" default:"200" validate:"gte=1"`
	TPBase     float64 `json:"tp_base" yaml:"tp_base" default:"0.75" validate:"gt=0"`
	StopLoss   float64 `json:"stop_loss" yaml:"stop_loss" default:"1.50" validate:"gt=0"`
	MaxTPs     int     `json:"max_tps" yaml:"max_tps" default:"10" validate:"gte=1"`
	TPClose    float64 `json:"tp_close" yaml:"tp_close" default:"25" validate:"gt=0"`
}

// Validate checks the constraints that struct tags cannot express. It must
// pass before any job is dispatched.
func (p *StrategyParams) Validate() error {
	if err := util.ValidateDateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	if p.Leverage < 1 || p.Leverage > 125 {
		return fmt.Errorf("leverage %.0f out of range [1,125]", p.Leverage)
	}
	if p.Margin < 1 || p.Margin > 100 {
		return fmt.Errorf("margin %.0f out of range [1,100]", p.Margin)
	}
	return nil
}

// Job is one unit of work: a symbol plus the run's parameter set. Immutable
// once built; consumed exactly once by the runner.
type Job struct {
	Symbol string
	Params StrategyParams
}

// ResultRecord is the outcome of one job. The shape is uniform regardless of
// outcome: on failure all numeric fields are zero and Status carries the
// reason. Every dispatched job yields exactly one record.
type ResultRecord struct {
	Symbol       string  `json:"symbol"`
	TotalReturn  float64 `json:"total_return"`
	WinRate      float64 `json:"win_rate"`
	TotalTrades  int     `json:"total_trades"`
	FinalBalance float64 `json:"final_balance"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Status       string  `json:"status"`
}

// Succeeded reports whether the record came from a successful backtest.
func (r ResultRecord) Succeeded() bool { return r.Status == StatusSuccess }

// FailedRecord builds a zero-filled record for a business-level rejection.
func FailedRecord(symbol, reason string) ResultRecord {
	return ResultRecord{Symbol: symbol, Status: StatusFailedPrefix + reason}
}

// ErrorRecord builds a zero-filled record for a transport-level failure.
func ErrorRecord(symbol, reason string) ResultRecord {
	return ResultRecord{Symbol: symbol, Status: StatusErrorPrefix + reason}
}

// RunOutcome distinguishes how a scan ended.
type RunOutcome string

const (
	OutcomeNone      RunOutcome = ""
	OutcomeCompleted RunOutcome = "completed"
	OutcomeStopped   RunOutcome = "stopped"
	OutcomeAborted   RunOutcome = "aborted"
)

// Progress is a snapshot of where a scan stands.
type Progress struct {
	Running    bool       `json:"running"`
	Current    int        `json:"current"`
	Total      int        `json:"total"`
	Symbol     string     `json:"symbol,omitempty"`
	LastStatus string     `json:"last_status,omitempty"`
	Percent    float64    `json:"percent"`
	Message    string     `json:"message"`
	Outcome    RunOutcome `json:"outcome,omitempty"`
}

// Sort keys accepted by the view projector. Each maps to one ResultRecord
// field.
const (
	SortBySymbol       = "symbol"
	SortByTotalReturn  = "total_return"
	SortByWinRate      = "win_rate"
	SortByTotalTrades  = "total_trades"
	SortByFinalBalance = "final_balance"
	SortByMaxDrawdown  = "max_drawdown"
	SortByStatus       = "status"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ViewState drives the filter/sort/paginate projection. Owned by the control
// surface, never persisted.
type ViewState struct {
	SortKey   string `json:"sort_key"`
	SortOrder string `json:"sort_order"`
	Filter    string `json:"filter"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// DefaultViewState returns the view applied before any client input.
func DefaultViewState(pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = 20
	}
	return ViewState{
		SortKey:   SortBySymbol,
		SortOrder: OrderAsc,
		Page:      1,
		PageSize:  pageSize,
	}
}

// ValidSortKey reports whether key names a sortable ResultRecord field.
func ValidSortKey(key string) bool {
	switch strings.ToLower(key) {
	case SortBySymbol, SortByTotalReturn, SortByWinRate, SortByTotalTrades,
		SortByFinalBalance, SortByMaxDrawdown, SortByStatus:
		return true
	}
	return false
}

// Page is the projector output handed to the rendering collaborator.
type Page struct {
	Records       []ResultRecord `json:"records"`
	TotalFiltered int            `json:"total_filtered"`
	TotalPages    int            `json:"total_pages"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
}

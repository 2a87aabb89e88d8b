package models

// Requests for the scan control surface. Defined in domain for consistency
// and reuse across handlers.

// ScanStartRequest starts a run. An empty symbol list means "scan the whole
// catalog"; the runner seeds the list from the symbol catalog in that case.
type ScanStartRequest struct {
	Symbols []string       `json:"symbols" validate:"omitempty,dive,required"`
	Params  StrategyParams `json:"params"`
}

// ScanResultsRequest selects the projected page. Fields left empty keep the
// current view state.
type ScanResultsRequest struct {
	SortKey   string `query:"sort_key" json:"sort_key" validate:"omitempty,oneof=symbol total_return win_rate total_trades final_balance max_drawdown status"`
	SortOrder string `query:"sort_order" json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Filter    string `query:"filter" json:"filter"`
	Page      int    `query:"page" json:"page" validate:"omitempty,gte=1"`
}

// ViewUpdateRequest is a partial view-state mutation. Nil pointers leave the
// corresponding field untouched.
type ViewUpdateRequest struct {
	SortKey   *string `json:"sort_key,omitempty" validate:"omitempty,oneof=symbol total_return win_rate total_trades final_balance max_drawdown status"`
	SortOrder *string `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
	Filter    *string `json:"filter,omitempty"`
	Page      *int    `json:"page,omitempty" validate:"omitempty,gte=1"`
}

// BacktestRunRequest runs a single-symbol backtest and returns the full
// result including chart data. Defaults mirror the engine's own.
type BacktestRunRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	Interval   string  `json:"interval" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 2h 4h 1d"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Leverage   float64 `json:"leverage" default:"1" validate:"gte=1,lte=125"`
	Margin     float64 `json:"margin" default:"100" validate:"gte=1,lte=100"`
	Balance    float64 `json:"balance" default:"10000" validate:"gt=0"`
	MACDFast   int     `json:"macd_fast" default:"12" validate:"gte=1"`
	MACDSlow   int     `json:"macd_slow" default:"26" validate:"gte=1"`
	MACDSignal int     `json:"macd_signal" default:"9" validate:"gte=1"`
	SMALength  int     `json:"sma_length" default:"200" validate:"gte=1"`
	TPBase     float64 `json:"tp_base" default:"0.75" validate:"gt=0"`
	StopLoss   float64 `json:"stop_loss" default:"1.50" validate:"gt=0"`
	MaxTPs     int     `json:"max_tps" default:"10" validate:"gte=1"`
	TPClose    float64 `json:"tp_close" default:"25" validate:"gt=0"`
}

// StrategyParams converts the request to the shared parameter form.
func (r *BacktestRunRequest) StrategyParams() StrategyParams {
	return StrategyParams{
		Interval:   r.Interval,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Leverage:   r.Leverage,
		Margin:     r.Margin,
		Balance:    r.Balance,
		MACDFast:   r.MACDFast,
		MACDSlow:   r.MACDSlow,
		MACDSignal: r.MACDSignal,
		SMALength:  r.SMALength,
		TPBase:     r.TPBase,
		StopLoss:   r.StopLoss,
		MaxTPs:     r.MaxTPs,
		TPClose:    r.TPClose,
	}
}

// KlinesFetchRequest fetches raw candles for one symbol and date range.
type KlinesFetchRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	Interval  string `json:"interval" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 2h 4h 1d"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

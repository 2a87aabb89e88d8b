package models

// Wire types for the remote backtest engine. The engine speaks a flat JSON
// envelope: {success, data, error}. Transport failures never reach these
// types; they surface as Go errors from the client.

// EngineBacktestRequest is the flat field set the engine expects for one
// backtest call.
type EngineBacktestRequest struct {
	Symbol     string  `json:"symbol"`
	Interval   string  `json:"interval"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Leverage   float64 `json:"leverage"`
	Margin     float64 `json:"margin"`
	Balance    float64 `json:"balance"`
	MACDFast   int     `json:"macd_fast"`
	MACDSlow   int     `json:"macd_slow"`
	MACDSignal int     `json:"macd_signal"`
	SMALength  int     `json:"sma_length"`
	TPBase     float64 `json:"tp_base"`
	StopLoss   float64 `json:"stop_loss"`
	MaxTPs     int     `json:"max_tps"`
	TPClose    float64 `json:"tp_close"`
}

// NewEngineBacktestRequest flattens a job into the engine's request shape.
func NewEngineBacktestRequest(job Job) EngineBacktestRequest {
	p := job.Params
	return EngineBacktestRequest{
		Symbol:     job.Symbol,
		Interval:   p.Interval,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Leverage:   p.Leverage,
		Margin:     p.Margin,
		Balance:    p.Balance,
		MACDFast:   p.MACDFast,
		MACDSlow:   p.MACDSlow,
		MACDSignal: p.MACDSignal,
		SMALength:  p.SMALength,
		TPBase:     p.TPBase,
		StopLoss:   p.StopLoss,
		MaxTPs:     p.MaxTPs,
		TPClose:    p.TPClose,
	}
}

// BacktestStatistics is the summary block inside a successful engine
// response.
type BacktestStatistics struct {
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`
	TotalReturn    float64 `json:"total_return"`
	TotalPnL       float64 `json:"total_pnl"`
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	WinRate        float64 `json:"win_rate"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	LeverageUsed   float64 `json:"leverage_used"`
}

// BacktestTrade is one closed trade inside the engine results.
type BacktestTrade struct {
	EntryTime  string  `json:"entry_time"`
	ExitTime   string  `json:"exit_time"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Position   string  `json:"position"`
	PnL        float64 `json:"pnl"`
	Commission float64 `json:"commission"`
}

// BacktestResults groups the statistics, the trade list, and the TP/SL
// levels produced by one engine run.
type BacktestResults struct {
	Statistics BacktestStatistics `json:"statistics"`
	Trades     []BacktestTrade    `json:"trades"`
	TPSLLevels []TPSLLevel        `json:"tp_sl_levels"`
}

// TPSLLevel is one take-profit or stop-loss level on the price chart.
type TPSLLevel struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
	Label string  `json:"label,omitempty"`
}

// ChartCandle is one OHLCV point with indicator overlays, passed through to
// the charting collaborator untouched.
type ChartCandle struct {
	Timestamp string   `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	Volume    float64  `json:"volume"`
	MACD      *float64 `json:"macd"`
	MACDSig   *float64 `json:"macd_signal"`
	MACDHist  *float64 `json:"macd_histogram"`
	FastMA    *float64 `json:"fast_ma"`
	SlowMA    *float64 `json:"slow_ma"`
	Signal    int      `json:"signal"`
}

// BacktestPayload is the data member of a successful backtest response.
type BacktestPayload struct {
	Results   BacktestResults `json:"results"`
	ChartData []ChartCandle   `json:"chart_data"`
}

// EngineBacktestResponse is the full backtest envelope.
type EngineBacktestResponse struct {
	Success bool             `json:"success"`
	Data    *BacktestPayload `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// SymbolInfo is one tradable instrument in the catalog.
type SymbolInfo struct {
	Symbol     string `json:"symbol"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}

// EngineSymbolsResponse is the symbol catalog envelope.
type EngineSymbolsResponse struct {
	Success bool         `json:"success"`
	Data    []SymbolInfo `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// EngineKlinesRequest asks the engine for raw candles.
type EngineKlinesRequest struct {
	Symbol    string `json:"symbol"`
	Interval  string `json:"interval"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// EngineKlinesResponse is the candle fetch envelope. Candles are passed
// through opaque; this service never inspects them.
type EngineKlinesResponse struct {
	Success bool          `json:"success"`
	Data    []ChartCandle `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

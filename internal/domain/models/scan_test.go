package models

import "testing"

func validParams() StrategyParams {
	return StrategyParams{
		Interval:  "1h",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-01",
		Leverage:  1,
		Margin:    100,
		Balance:   10000,
	}
}

func TestStrategyParamsValidate(t *testing.T) {
	p := validParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStrategyParamsValidateDateOrder(t *testing.T) {
	p := validParams()
	p.StartDate, p.EndDate = p.EndDate, p.StartDate
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for inverted dates")
	}
}

func TestStrategyParamsValidateLeverageBounds(t *testing.T) {
	p := validParams()
	p.Leverage = 126
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for leverage above limit")
	}
	p.Leverage = 0.5
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for leverage below limit")
	}
}

func TestStrategyParamsValidateMarginBounds(t *testing.T) {
	p := validParams()
	p.Margin = 101
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for margin above limit")
	}
}

func TestRecordConstructors(t *testing.T) {
	f := FailedRecord("BTCUSDT", "no data available")
	if f.Status != "Failed: no data available" {
		t.Fatalf("unexpected status %q", f.Status)
	}
	if f.Succeeded() {
		t.Fatalf("failed record must not report success")
	}
	if f.TotalReturn != 0 || f.FinalBalance != 0 || f.TotalTrades != 0 {
		t.Fatalf("failure record must be zero-filled")
	}

	e := ErrorRecord("BTCUSDT", "connection refused")
	if e.Status != "Error: connection refused" {
		t.Fatalf("unexpected status %q", e.Status)
	}
}

func TestDefaultViewState(t *testing.T) {
	v := DefaultViewState(25)
	if v.SortKey != SortBySymbol || v.SortOrder != OrderAsc || v.Page != 1 || v.PageSize != 25 {
		t.Fatalf("unexpected default view %+v", v)
	}
	if DefaultViewState(0).PageSize != 20 {
		t.Fatalf("expected fallback page size")
	}
}

func TestValidSortKey(t *testing.T) {
	for _, key := range []string{"symbol", "total_return", "win_rate", "total_trades", "final_balance", "max_drawdown", "status"} {
		if !ValidSortKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}
	if ValidSortKey("bogus") {
		t.Fatalf("expected bogus key to be invalid")
	}
}

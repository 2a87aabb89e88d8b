package usecase

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"BackScan/internal/domain/models"
)

// ErrNoResults is returned when an export is requested against an empty
// store. Callers surface it as a warning, not a failure.
var ErrNoResults = errors.New("no results to export")

const exportHeader = "Symbol,Total Return (%),Win Rate (%),Total Trades,Final Balance,Max Drawdown (%),Status"

// WriteCSV serializes the full record set to w in store order. The view's
// filter and sort never apply here — export is always the unfiltered whole.
// Numeric fields are formatted to two decimals and the status field is
// always double-quoted, since failure reasons may contain the separator.
func WriteCSV(w io.Writer, records []models.ResultRecord) error {
	if len(records) == 0 {
		return ErrNoResults
	}
	if _, err := fmt.Fprintln(w, exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		_, err := fmt.Fprintf(w, "%s,%.2f,%.2f,%d,%.2f,%.2f,%s\n",
			r.Symbol,
			r.TotalReturn,
			r.WinRate,
			r.TotalTrades,
			r.FinalBalance,
			r.MaxDrawdown,
			quoteField(r.Status),
		)
		if err != nil {
			return fmt.Errorf("write record %s: %w", r.Symbol, err)
		}
	}
	return nil
}

// ExportCSV is WriteCSV into a string.
func ExportCSV(records []models.ResultRecord) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// quoteField wraps a value in double quotes, doubling any embedded quotes
// per RFC 4180.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

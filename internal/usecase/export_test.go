package usecase

import (
	"strings"
	"testing"

	"BackScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVFormat(t *testing.T) {
	records := []models.ResultRecord{
		{Symbol: "BTCUSDT", TotalReturn: 12.5, WinRate: 60.123, TotalTrades: 10, FinalBalance: 11250.456, MaxDrawdown: 4.2, Status: models.StatusSuccess},
		{Symbol: "ETHUSDT", Status: models.StatusFailedPrefix + "no data available"},
	}

	out, err := ExportCSV(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Symbol,Total Return (%),Win Rate (%),Total Trades,Final Balance,Max Drawdown (%),Status", lines[0])
	assert.Equal(t, `BTCUSDT,12.50,60.12,10,11250.46,4.20,"Success"`, lines[1])
	assert.Equal(t, `ETHUSDT,0.00,0.00,0,0.00,0.00,"Failed: no data available"`, lines[2])
}

func TestExportCSVStoreOrder(t *testing.T) {
	records := []models.ResultRecord{
		{Symbol: "ZZZ", Status: models.StatusSuccess},
		{Symbol: "AAA", Status: models.StatusSuccess},
	}

	out, err := ExportCSV(records)
	require.NoError(t, err)

	// Export is store order, never the view's sort.
	zzz := strings.Index(out, "ZZZ")
	aaa := strings.Index(out, "AAA")
	assert.Less(t, zzz, aaa)
}

func TestExportCSVQuotesEmbeddedQuotes(t *testing.T) {
	records := []models.ResultRecord{
		{Symbol: "XRPUSDT", Status: models.StatusErrorPrefix + `engine said "no"`},
	}

	out, err := ExportCSV(records)
	require.NoError(t, err)
	assert.Contains(t, out, `"Error: engine said ""no"""`)
}

func TestExportCSVEmpty(t *testing.T) {
	_, err := ExportCSV(nil)
	assert.ErrorIs(t, err, ErrNoResults)
}

package usecase

import (
	"testing"

	"BackScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.ResultRecord {
	return []models.ResultRecord{
		{Symbol: "BTCUSDT", TotalReturn: 12.5, WinRate: 60, TotalTrades: 10, FinalBalance: 11250, MaxDrawdown: 4.2, Status: models.StatusSuccess},
		{Symbol: "ETHUSDT", TotalReturn: -3.1, WinRate: 40, TotalTrades: 8, FinalBalance: 9690, MaxDrawdown: 7.9, Status: models.StatusSuccess},
		{Symbol: "ADAUSDT", Status: models.StatusFailedPrefix + "no data available"},
		{Symbol: "BNBUSDT", TotalReturn: 12.5, WinRate: 55, TotalTrades: 12, FinalBalance: 11250, MaxDrawdown: 3.3, Status: models.StatusSuccess},
	}
}

func TestProjectFilterCaseInsensitive(t *testing.T) {
	view := models.DefaultViewState(20)
	view.Filter = "btc"

	page := Project(sampleRecords(), view)

	require.Len(t, page.Records, 1)
	assert.Equal(t, "BTCUSDT", page.Records[0].Symbol)
	assert.Equal(t, 1, page.TotalFiltered)
	assert.Equal(t, 1, page.TotalPages)
}

func TestProjectFilterMatchesSubstring(t *testing.T) {
	view := models.DefaultViewState(20)
	view.Filter = "USDT"

	page := Project(sampleRecords(), view)
	assert.Equal(t, 4, page.TotalFiltered)
}

func TestProjectSortDescending(t *testing.T) {
	view := models.DefaultViewState(20)
	view.SortKey = models.SortByWinRate
	view.SortOrder = models.OrderDesc

	page := Project(sampleRecords(), view)

	require.Len(t, page.Records, 4)
	assert.Equal(t, "BTCUSDT", page.Records[0].Symbol)
	assert.Equal(t, "BNBUSDT", page.Records[1].Symbol)
	// Zero-filled failure record sorts last.
	assert.Equal(t, "ADAUSDT", page.Records[3].Symbol)
}

func TestProjectSortTiesKeepInsertionOrder(t *testing.T) {
	view := models.DefaultViewState(20)
	view.SortKey = models.SortByTotalReturn
	view.SortOrder = models.OrderDesc

	// BTCUSDT and BNBUSDT tie on total return; BTCUSDT was inserted first.
	page := Project(sampleRecords(), view)

	require.Len(t, page.Records, 4)
	assert.Equal(t, "BTCUSDT", page.Records[0].Symbol)
	assert.Equal(t, "BNBUSDT", page.Records[1].Symbol)

	// Recomputing the projection must not reshuffle the tie.
	again := Project(sampleRecords(), view)
	assert.Equal(t, page.Records, again.Records)
}

func TestProjectPagination(t *testing.T) {
	view := models.DefaultViewState(3)

	page := Project(sampleRecords(), view)
	require.Len(t, page.Records, 3)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 4, page.TotalFiltered)

	view.Page = 2
	page = Project(sampleRecords(), view)
	require.Len(t, page.Records, 1)
}

func TestProjectPagePastEndIsEmpty(t *testing.T) {
	view := models.DefaultViewState(20)
	view.Page = 99

	page := Project(sampleRecords(), view)
	assert.Empty(t, page.Records)
	assert.Equal(t, 4, page.TotalFiltered)
	assert.Equal(t, 99, page.Page)
}

func TestProjectEmptyStore(t *testing.T) {
	page := Project(nil, models.DefaultViewState(20))
	assert.Empty(t, page.Records)
	assert.Equal(t, 0, page.TotalFiltered)
	assert.Equal(t, 0, page.TotalPages)
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	view := models.DefaultViewState(20)
	view.SortKey = models.SortByWinRate
	view.SortOrder = models.OrderDesc

	Project(records, view)

	// Snapshot order must survive the projection's sort.
	assert.Equal(t, "BTCUSDT", records[0].Symbol)
	assert.Equal(t, "ETHUSDT", records[1].Symbol)
}

func TestProjectUnknownSortKeyKeepsOrder(t *testing.T) {
	view := models.DefaultViewState(20)
	view.SortKey = "bogus"

	page := Project(sampleRecords(), view)
	require.Len(t, page.Records, 4)
	assert.Equal(t, "BTCUSDT", page.Records[0].Symbol)
}

package usecase

import (
	"sort"
	"strings"

	"BackScan/internal/domain/models"
)

// Project derives the visible page from a record snapshot and a view state:
// filter, then sort, then paginate. Pure function — identical inputs always
// yield identical output, and ties keep their store (insertion) order so the
// page does not reshuffle as new records stream in.
func Project(records []models.ResultRecord, view models.ViewState) models.Page {
	pageSize := view.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	pageNum := view.Page
	if pageNum <= 0 {
		pageNum = 1
	}

	filtered := filterRecords(records, view.Filter)
	sortRecords(filtered, view.SortKey, view.SortOrder)

	totalFiltered := len(filtered)
	totalPages := (totalFiltered + pageSize - 1) / pageSize

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	var pageRecords []models.ResultRecord
	if start < totalFiltered {
		if end > totalFiltered {
			end = totalFiltered
		}
		pageRecords = filtered[start:end]
	} else {
		// A page past the end is an empty page, never an error.
		pageRecords = []models.ResultRecord{}
	}

	return models.Page{
		Records:       pageRecords,
		TotalFiltered: totalFiltered,
		TotalPages:    totalPages,
		Page:          pageNum,
		PageSize:      pageSize,
	}
}

// filterRecords keeps records whose symbol contains the substring,
// case-insensitively. An empty filter passes everything.
func filterRecords(records []models.ResultRecord, filter string) []models.ResultRecord {
	if filter == "" {
		return append([]models.ResultRecord(nil), records...)
	}
	needle := strings.ToLower(filter)
	out := make([]models.ResultRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Symbol), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords orders records in place by the given key and direction.
// SliceStable preserves insertion order between equal keys.
func sortRecords(records []models.ResultRecord, key, order string) {
	cmp := comparator(key)
	if cmp == nil {
		return
	}
	desc := strings.EqualFold(order, models.OrderDesc)
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// comparator returns a three-way compare for the sort key. The explicit
// equal branch is what keeps ties stable; a bare 1/-1 comparator would let
// equal records swap between recomputations.
func comparator(key string) func(a, b models.ResultRecord) int {
	switch strings.ToLower(key) {
	case models.SortBySymbol:
		return func(a, b models.ResultRecord) int {
			return compareStringsFold(a.Symbol, b.Symbol)
		}
	case models.SortByTotalReturn:
		return func(a, b models.ResultRecord) int {
			return compareFloats(a.TotalReturn, b.TotalReturn)
		}
	case models.SortByWinRate:
		return func(a, b models.ResultRecord) int {
			return compareFloats(a.WinRate, b.WinRate)
		}
	case models.SortByTotalTrades:
		return func(a, b models.ResultRecord) int {
			return compareFloats(float64(a.TotalTrades), float64(b.TotalTrades))
		}
	case models.SortByFinalBalance:
		return func(a, b models.ResultRecord) int {
			return compareFloats(a.FinalBalance, b.FinalBalance)
		}
	case models.SortByMaxDrawdown:
		return func(a, b models.ResultRecord) int {
			return compareFloats(a.MaxDrawdown, b.MaxDrawdown)
		}
	case models.SortByStatus:
		return func(a, b models.ResultRecord) int {
			return compareStringsFold(a.Status, b.Status)
		}
	}
	return nil
}

func compareStringsFold(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package presenter

import (
	"cmp"
	"sort"
	"strings"
)

// SortKeys lists the table columns rows can be sorted by, in display order.
var SortKeys = []string{"ticker", "close", "label", "rsi", "volume_ratio", "ma20"}

var rowCompare = map[string]func(a, b Row) int{
	"ticker":       func(a, b Row) int { return strings.Compare(a.Ticker, b.Ticker) },
	"close":        func(a, b Row) int { return cmp.Compare(a.Close, b.Close) },
	"label":        func(a, b Row) int { return strings.Compare(a.Label, b.Label) },
	"rsi":          func(a, b Row) int { return cmp.Compare(a.RSI, b.RSI) },
	"volume_ratio": func(a, b Row) int { return cmp.Compare(a.VolumeRatio, b.VolumeRatio) },
	"ma20":         func(a, b Row) int { return cmp.Compare(a.MA20, b.MA20) },
	"score":        func(a, b Row) int { return cmp.Compare(a.Score, b.Score) },
}

// ValidSortKey reports whether rows can be sorted by key.
func ValidSortKey(key string) bool {
	_, ok := rowCompare[key]
	return ok
}

// SortRows returns a copy of rows ordered by the named column. Ties keep
// their rank order. An unknown key returns the rows in rank order.
func SortRows(rows []Row, key string, desc bool) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	compare, ok := rowCompare[key]
	if !ok {
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return compare(sorted[i], sorted[j]) > 0
		}
		return compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}

package presenter

import (
	"strings"
	"testing"
)

func rowTickers(rows []Row) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Ticker
	}
	return strings.Join(out, ",")
}

func TestSortRows(t *testing.T) {
	ranked := []Row{
		{Ticker: "ADRO", Close: 2500, RSI: 61.2, VolumeRatio: 2.1, MA20: 2400, Label: "BREAKOUT", Score: 3},
		{Ticker: "BBCA", Close: 9500, RSI: 48.5, VolumeRatio: 0.9, MA20: 9300, Label: "SWING BUY (DIP)", Score: 2},
		{Ticker: "ANTM", Close: 1500, RSI: 48.5, VolumeRatio: 1.1, MA20: 1400, Label: "NEUTRAL", Score: 0},
		{Ticker: "TLKM", Close: 3000, RSI: 35.0, VolumeRatio: 0.7, MA20: 3200, Label: "AVOID", Score: -1},
	}
	tests := []struct {
		key  string
		desc bool
		want string
	}{
		{"", false, "ADRO,BBCA,ANTM,TLKM"},
		{"bogus", true, "ADRO,BBCA,ANTM,TLKM"},
		{"ticker", false, "ADRO,ANTM,BBCA,TLKM"},
		{"ticker", true, "TLKM,BBCA,ANTM,ADRO"},
		{"close", false, "ANTM,ADRO,TLKM,BBCA"},
		{"rsi", false, "TLKM,BBCA,ANTM,ADRO"},
		{"rsi", true, "ADRO,BBCA,ANTM,TLKM"},
		{"volume_ratio", true, "ADRO,ANTM,BBCA,TLKM"},
		{"ma20", false, "ANTM,ADRO,TLKM,BBCA"},
		{"label", false, "TLKM,ADRO,ANTM,BBCA"},
		{"score", true, "ADRO,BBCA,ANTM,TLKM"},
	}
	for _, tt := range tests {
		if got := rowTickers(SortRows(ranked, tt.key, tt.desc)); got != tt.want {
			t.Errorf("SortRows(%q, desc=%v) = %s, want %s", tt.key, tt.desc, got, tt.want)
		}
	}
	if ranked[0].Ticker != "ADRO" || ranked[3].Ticker != "TLKM" {
		t.Error("SortRows must not reorder its input")
	}
}

func TestValidSortKey(t *testing.T) {
	for _, k := range SortKeys {
		if !ValidSortKey(k) {
			t.Errorf("%s should be sortable", k)
		}
	}
	if ValidSortKey("color") {
		t.Error("color should not be sortable")
	}
}

package calculator

import (
	"errors"
	"math"

	"SwingHunter/internal/model"
)

// PriceRange scans all bars and returns the highest high and lowest low.
func PriceRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// PaddedRange widens [low, high] by pct of its span on both sides,
// never going below zero. A flat range is widened by pct of the price.
func PaddedRange(high, low, pct float64) (float64, float64) {
	span := high - low
	if span <= 0 {
		span = math.Abs(high)
	}
	pad := span * pct
	lo := low - pad
	if lo < 0 {
		lo = 0
	}
	return high + pad, lo
}

package calculator

import "math"

// Neutral RSI reported when the window saw no price movement at all.
const neutralRSI = 50.0

// RSISeries computes the RSI aligned to closes using simple (non-Wilder)
// averages of the trailing `period` gains and losses.
//
// Index i is defined once `period` deltas exist (i >= period); earlier
// indexes are NaN. A window without losses saturates at 100, a window
// without any movement reports 50.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		gain /= float64(period)
		loss /= float64(period)
		out[i] = rsiFromAverages(gain, loss)
	}
	return out
}

func rsiFromAverages(gain, loss float64) float64 {
	if loss == 0 {
		if gain == 0 {
			return neutralRSI
		}
		return 100.0
	}
	rs := gain / loss
	return 100.0 - 100.0/(1.0+rs)
}

package indicators

// SMA returns the simple moving average of the last period values, or
// (0, false) when the series is shorter than period.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	var sum float64
	for _, v := range closes[len(closes)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// RSI computes the Wilder-style relative strength index over the given
// period from a close series. Zero average loss over the window yields
// exactly 100. Returns (0, false) when the series is too short.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remainder of the series.
	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// Cross reports whether the fast/slow MA ordering flipped between the
// previous bar and the current bar. golden is true for an upward flip
// (fast moves from at-or-below to above slow), death for the downward
// flip. Both are false when the series cannot support the slow period
// plus one prior bar.
func Cross(closes []float64, fastPeriod, slowPeriod int) (golden, death bool, fast, slow float64) {
	if len(closes) < slowPeriod+1 {
		return false, false, 0, 0
	}

	fast, _ = SMA(closes, fastPeriod)
	slow, _ = SMA(closes, slowPeriod)
	prev := closes[:len(closes)-1]
	fastPrev, _ := SMA(prev, fastPeriod)
	slowPrev, _ := SMA(prev, slowPeriod)

	golden = fastPrev <= slowPrev && fast > slow
	death = fastPrev >= slowPrev && fast < slow
	return golden, death, fast, slow
}

package chrono

import "math"

// quantileEpsilon snaps interpolation positions that are numerically on an
// order statistic to that statistic.
const quantileEpsilon = 1e-3

// quantile estimates the q-quantile of ascending sorted samples using the
// position (n+1)*q over 1-based order statistics, interpolating linearly
// between neighbors.
func quantile(sorted []uint8, q float64) float32 {
	n := len(sorted)
	p := float64(n+1) * q
	k := math.Floor(p)
	frac := p - k
	low := int(k) - 1
	switch {
	case low < 0:
		return float32(sorted[0])
	case low >= n-1:
		return float32(sorted[n-1])
	}
	lo := float64(sorted[low])
	hi := float64(sorted[low+1])
	switch {
	case frac < quantileEpsilon:
		return float32(lo)
	case frac > 1-quantileEpsilon:
		return float32(hi)
	default:
		return float32(lo + (hi-lo)*frac)
	}
}

// median is the 0.5 quantile.
func median(sorted []uint8) float32 {
	return quantile(sorted, 0.5)
}

// quartiles returns (Q1, median, Q3).
func quartiles(sorted []uint8) (float32, float32, float32) {
	return quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)
}

package chrono

import "testing"

func TestQuartilesSevenSamples(t *testing.T) {
	sorted := []uint8{0, 1, 2, 3, 4, 5, 6}
	q1, med, q3 := quartiles(sorted)
	if q1 != 1 || med != 3 || q3 != 5 {
		t.Fatalf("quartiles = (%v, %v, %v), want (1, 3, 5)", q1, med, q3)
	}
}

func TestMedianInterpolatesEvenCount(t *testing.T) {
	if got := median([]uint8{0, 10}); got != 5 {
		t.Fatalf("median([0 10]) = %v, want 5", got)
	}
	if got := median([]uint8{0, 0, 255, 255}); got != 127.5 {
		t.Fatalf("median = %v, want 127.5", got)
	}
}

func TestQuantileClampsAtEdges(t *testing.T) {
	sorted := []uint8{10, 20, 30}
	if got := quantile(sorted, 0); got != 10 {
		t.Fatalf("quantile(0) = %v, want first sample", got)
	}
	if got := quantile(sorted, 1); got != 30 {
		t.Fatalf("quantile(1) = %v, want last sample", got)
	}
}

func TestQuantileSnapsNearOrderStatistics(t *testing.T) {
	// n=3, q=0.5: p=2.0 lands exactly on the second order statistic.
	if got := quantile([]uint8{10, 20, 30}, 0.5); got != 20 {
		t.Fatalf("median of 3 = %v, want 20", got)
	}
}

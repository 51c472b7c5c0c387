package chrono_test

import (
	"math"
	"testing"

	"chronophoto/internal/chrono"
)

func TestParseThresholdAbsolute(t *testing.T) {
	th, err := chrono.ParseThreshold("abs/0.05/0.2")
	if err != nil {
		t.Fatalf("ParseThreshold: %v", err)
	}
	if !th.Absolute() {
		t.Fatal("expected absolute threshold")
	}
	if got, want := th.Min(), float32(0.05*255); !close32(got, want) {
		t.Fatalf("Min = %v, want %v", got, want)
	}
	if got, want := th.Max(), float32(0.2*255); !close32(got, want) {
		t.Fatalf("Max = %v, want %v", got, want)
	}
}

func TestParseThresholdDefaultsMaxToMin(t *testing.T) {
	th, err := chrono.ParseThreshold("rel/3.0")
	if err != nil {
		t.Fatalf("ParseThreshold: %v", err)
	}
	if th.Min() != 3 || th.Max() != 3 {
		t.Fatalf("bounds = (%v, %v), want (3, 3)", th.Min(), th.Max())
	}
	// Degenerate bounds produce a step function.
	if got := th.BlendValue(2.999); got != 0 {
		t.Fatalf("BlendValue below = %v, want 0", got)
	}
	if got := th.BlendValue(3.001); got != 1 {
		t.Fatalf("BlendValue above = %v, want 1", got)
	}
}

func TestParseThresholdErrors(t *testing.T) {
	for _, s := range []string{"", "abs", "abs/x", "pct/0.1/0.2", "abs/0.1/0.2/0.3/0.4"} {
		if _, err := chrono.ParseThreshold(s); err == nil {
			t.Fatalf("ParseThreshold(%q): expected error", s)
		}
	}
}

func TestNewThresholdRejectsInvertedBounds(t *testing.T) {
	if _, err := chrono.RelThreshold(2, 1); err == nil {
		t.Fatal("expected error for max below min")
	}
}

func TestBlendValueLinearRamp(t *testing.T) {
	th, err := chrono.AbsThreshold(0.05, 0.2)
	if err != nil {
		t.Fatalf("AbsThreshold: %v", err)
	}
	min, max := th.Min(), th.Max()
	if got := th.BlendValue(min); got != 0 {
		t.Fatalf("BlendValue(min) = %v, want 0", got)
	}
	if got := th.BlendValue(max); got != 1 {
		t.Fatalf("BlendValue(max) = %v, want 1", got)
	}
	mid := (min + max) / 2
	if got := th.BlendValue(mid); !close32(got, 0.5) {
		t.Fatalf("BlendValue(mid) = %v, want 0.5", got)
	}
}

func close32(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

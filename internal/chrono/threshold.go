package chrono

import (
	"fmt"
	"strconv"
	"strings"
)

// Threshold classifies a frame's distance from the per-pixel center and maps
// distances to blend strength. Absolute thresholds are expressed in fractions
// of the color range and scaled to sample units (x255) at construction;
// relative thresholds are in inter-quartile ranges.
type Threshold struct {
	absolute bool
	min      float32
	max      float32
	scale    float32
}

// NewThreshold builds a threshold; max must not be below min.
func NewThreshold(absolute bool, min, max float32) (Threshold, error) {
	if max < min {
		return Threshold{}, fmt.Errorf("threshold: max %v below min %v", max, min)
	}
	t := Threshold{absolute: absolute, min: min, max: max}
	if max > min {
		t.scale = 1 / (max - min)
	}
	return t, nil
}

// AbsThreshold builds an absolute threshold from color-range fractions.
func AbsThreshold(min, max float32) (Threshold, error) {
	return NewThreshold(true, min*255, max*255)
}

// RelThreshold builds a relative (IQR-scaled) threshold.
func RelThreshold(min, max float32) (Threshold, error) {
	return NewThreshold(false, min, max)
}

// ParseThreshold parses "abs/0.05/0.2" or "rel/3.0" style strings. A missing
// upper bound defaults to the lower one, which degenerates BlendValue to a
// step function.
func ParseThreshold(s string) (Threshold, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Threshold{}, fmt.Errorf("threshold %q: expected (abs|rel)/<min>[/<max>]", s)
	}
	var absolute bool
	switch parts[0] {
	case "abs", "absolute":
		absolute = true
	case "rel", "relative":
		absolute = false
	default:
		return Threshold{}, fmt.Errorf("threshold %q: mode must be abs or rel", s)
	}
	min, err := strconv.ParseFloat(parts[1], 32)
	if err != nil {
		return Threshold{}, fmt.Errorf("threshold %q: invalid lower bound", s)
	}
	max := min
	if len(parts) == 3 {
		max, err = strconv.ParseFloat(parts[2], 32)
		if err != nil {
			return Threshold{}, fmt.Errorf("threshold %q: invalid upper bound", s)
		}
	}
	if absolute {
		return AbsThreshold(float32(min), float32(max))
	}
	return RelThreshold(float32(min), float32(max))
}

// Absolute reports whether distances are measured in sample units rather
// than inter-quartile ranges.
func (t Threshold) Absolute() bool { return t.absolute }

// Min returns the outlier classification bound in internal units.
func (t Threshold) Min() float32 { return t.min }

// Max returns the full-blend bound in internal units.
func (t Threshold) Max() float32 { return t.max }

// BlendValue maps a distance to blend strength: 0 at or below min, 1 at or
// above max, linear between.
func (t Threshold) BlendValue(dist float32) float32 {
	switch {
	case dist <= t.min:
		return 0
	case dist >= t.max:
		return 1
	default:
		return (dist - t.min) * t.scale
	}
}

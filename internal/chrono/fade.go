package chrono

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FadeMode controls extrapolation outside the keyframe span.
type FadeMode int

const (
	// FadeClamp holds the edge keyframe value outside the span.
	FadeClamp FadeMode = iota
	// FadeRepeat wraps frame indices around the span.
	FadeRepeat
)

// FadeKey is one keyframe of a fade curve.
type FadeKey struct {
	Frame int
	Value float32
}

// Fade is a temporal weighting curve attenuating outlier blend strength, a
// piecewise-linear function over frame indices. In absolute mode the curve is
// indexed by source frame position; in relative mode by distance from the end
// of the window. The zero value is the identity curve (1.0 everywhere).
type Fade struct {
	mode     FadeMode
	absolute bool
	keys     []FadeKey
	defined  bool
}

// NewFade builds a fade curve from at least two keyframes; keys are sorted by
// frame and must not repeat a frame index.
func NewFade(mode FadeMode, absolute bool, keys []FadeKey) (Fade, error) {
	if len(keys) < 2 {
		return Fade{}, fmt.Errorf("fade: need at least 2 keyframes, got %d", len(keys))
	}
	sorted := make([]FadeKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Frame == sorted[i-1].Frame {
			return Fade{}, fmt.Errorf("fade: duplicate keyframe at frame %d", sorted[i].Frame)
		}
	}
	return Fade{mode: mode, absolute: absolute, keys: sorted, defined: true}, nil
}

// NoFade returns the identity curve.
func NoFade() Fade { return Fade{} }

// ParseFade parses "clamp/abs/0:0/10:1" style strings: mode, indexing, then
// frame:value keyframes.
func ParseFade(s string) (Fade, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 4 {
		return Fade{}, fmt.Errorf("fade %q: expected (clamp|repeat)/(abs|rel)/<frame>:<value>/...", s)
	}
	var mode FadeMode
	switch parts[0] {
	case "clamp":
		mode = FadeClamp
	case "repeat":
		mode = FadeRepeat
	default:
		return Fade{}, fmt.Errorf("fade %q: mode must be clamp or repeat", s)
	}
	var absolute bool
	switch parts[1] {
	case "abs", "absolute":
		absolute = true
	case "rel", "relative":
		absolute = false
	default:
		return Fade{}, fmt.Errorf("fade %q: indexing must be abs or rel", s)
	}
	keys := make([]FadeKey, 0, len(parts)-2)
	for _, part := range parts[2:] {
		frameStr, valueStr, ok := strings.Cut(part, ":")
		if !ok {
			return Fade{}, fmt.Errorf("fade %q: keyframe %q must be <frame>:<value>", s, part)
		}
		frame, err := strconv.Atoi(frameStr)
		if err != nil {
			return Fade{}, fmt.Errorf("fade %q: invalid keyframe frame %q", s, frameStr)
		}
		value, err := strconv.ParseFloat(valueStr, 32)
		if err != nil {
			return Fade{}, fmt.Errorf("fade %q: invalid keyframe value %q", s, valueStr)
		}
		keys = append(keys, FadeKey{Frame: frame, Value: float32(value)})
	}
	return NewFade(mode, absolute, keys)
}

// Defined reports whether the curve carries keyframes. Undefined curves are
// the constant 1.0.
func (f Fade) Defined() bool { return f.defined }

// Absolute reports whether the curve is indexed by source frame position.
func (f Fade) Absolute() bool { return f.absolute }

// Value evaluates the curve at the given frame index.
func (f Fade) Value(frame int) float32 {
	if !f.defined {
		return 1
	}
	first := f.keys[0]
	last := f.keys[len(f.keys)-1]
	if f.mode == FadeRepeat {
		span := last.Frame - first.Frame
		frame = first.Frame + mod(frame-first.Frame, span+1)
	}
	if frame <= first.Frame {
		return first.Value
	}
	if frame >= last.Frame {
		return last.Value
	}
	hi := sort.Search(len(f.keys), func(i int) bool { return f.keys[i].Frame >= frame })
	k1 := f.keys[hi]
	if k1.Frame == frame {
		return k1.Value
	}
	k0 := f.keys[hi-1]
	t := float32(frame-k0.Frame) / float32(k1.Frame-k0.Frame)
	return k0.Value + (k1.Value-k0.Value)*t
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

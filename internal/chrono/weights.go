package chrono

import (
	"fmt"
	"strconv"
	"strings"
)

// Weights scales each channel's contribution to the outlier distance. A zero
// weight excludes the channel entirely; a negative weight flips the sign of
// its contribution.
type Weights [4]float32

// DefaultWeights weighs the three color channels equally and ignores alpha.
func DefaultWeights() Weights {
	return Weights{1, 1, 1, 0}
}

// ParseWeights parses up to four slash-separated floats; omitted trailing
// channels default to zero.
func ParseWeights(s string) (Weights, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 4 {
		return Weights{}, fmt.Errorf("weights %q: at most 4 channels", s)
	}
	var w Weights
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return Weights{}, fmt.Errorf("weights %q: invalid value %q", s, part)
		}
		w[i] = float32(v)
	}
	return w, nil
}

// Enabled reports whether the channel participates in the distance.
func (w Weights) Enabled(ch int) bool {
	return ch < len(w) && w[ch] != 0
}

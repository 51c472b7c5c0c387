package chrono

import "fmt"

// BackgroundMode selects the pixel emitted where no outlier wins, i.e. the
// static scene.
type BackgroundMode int

const (
	// BackgroundFirst uses the first non-outlier frame.
	BackgroundFirst BackgroundMode = iota
	// BackgroundRandom uses a uniformly sampled non-outlier frame.
	BackgroundRandom
	// BackgroundAverage uses the mean of all frames, with outlier
	// contributions removed algebraically.
	BackgroundAverage
	// BackgroundMedian uses the per-channel median.
	BackgroundMedian
)

// ParseBackgroundMode parses first|random|average|median.
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch s {
	case "first":
		return BackgroundFirst, nil
	case "random":
		return BackgroundRandom, nil
	case "average":
		return BackgroundAverage, nil
	case "median":
		return BackgroundMedian, nil
	default:
		return 0, fmt.Errorf("background mode %q: must be one of first, random, average, median", s)
	}
}

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundRandom:
		return "random"
	case BackgroundAverage:
		return "average"
	case BackgroundMedian:
		return "median"
	default:
		return "first"
	}
}

// OutlierMode selects the representative sample(s) when a pixel has outliers.
type OutlierMode int

const (
	// OutlierFirst uses the earliest outlier.
	OutlierFirst OutlierMode = iota
	// OutlierLast uses the latest outlier.
	OutlierLast
	// OutlierExtreme uses the maximum-distance outlier.
	OutlierExtreme
	// OutlierAverage uses the mean of all outlier samples.
	OutlierAverage
	// OutlierAllForward composites every outlier over the background in
	// ascending frame order.
	OutlierAllForward
	// OutlierAllBackward composites every outlier in descending frame order.
	OutlierAllBackward
)

// ParseOutlierMode parses first|last|extreme|average|forward|backward.
func ParseOutlierMode(s string) (OutlierMode, error) {
	switch s {
	case "first":
		return OutlierFirst, nil
	case "last":
		return OutlierLast, nil
	case "extreme":
		return OutlierExtreme, nil
	case "average":
		return OutlierAverage, nil
	case "forward":
		return OutlierAllForward, nil
	case "backward":
		return OutlierAllBackward, nil
	default:
		return 0, fmt.Errorf("outlier mode %q: must be one of first, last, extreme, average, forward, backward", s)
	}
}

func (m OutlierMode) String() string {
	switch m {
	case OutlierLast:
		return "last"
	case OutlierExtreme:
		return "extreme"
	case OutlierAverage:
		return "average"
	case OutlierAllForward:
		return "forward"
	case OutlierAllBackward:
		return "backward"
	default:
		return "first"
	}
}

// Package imgio handles the image boundary of a run: enumerating input files
// from a glob pattern, selecting a frame range, decoding files into packed
// 8-bit rasters, and encoding output buffers.
package imgio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FrameRange selects a subset of the listed frames: the arithmetic sequence
// start..end stepped by step, clipped to the available index range. End < 0
// means "through the last frame".
type FrameRange struct {
	Start int
	End   int
	Step  int
}

// ParseFrameRange parses "start/end/step" with "." accepted as an open bound
// or default step, e.g. "10/500/2" or "0/./2".
func ParseFrameRange(s string) (FrameRange, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return FrameRange{}, fmt.Errorf("frame range %q: expected start/end/step", s)
	}
	parse := func(part string, open int) (int, error) {
		if part == "." || part == "" {
			return open, nil
		}
		return strconv.Atoi(part)
	}
	start, err := parse(parts[0], 0)
	if err != nil {
		return FrameRange{}, fmt.Errorf("frame range %q: invalid start", s)
	}
	end, err := parse(parts[1], -1)
	if err != nil {
		return FrameRange{}, fmt.Errorf("frame range %q: invalid end", s)
	}
	step, err := parse(parts[2], 1)
	if err != nil || step <= 0 {
		return FrameRange{}, fmt.Errorf("frame range %q: step must be positive", s)
	}
	if start < 0 {
		start = 0
	}
	return FrameRange{Start: start, End: end, Step: step}, nil
}

// Indices returns the selected index sequence for n available frames.
func (r FrameRange) Indices(n int) []int {
	end := r.End
	if end < 0 || end > n-1 {
		end = n - 1
	}
	var out []int
	for i := r.Start; i <= end; i += r.Step {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	return out
}

// List expands a glob pattern into a lexicographically ordered file list,
// optionally reduced by a frame range.
func List(pattern string, frames *FrameRange) ([]string, error) {
	files, _, err := ListIndexed(pattern, frames)
	return files, err
}

// ListIndexed is List plus the source index of each returned file within the
// full match list, which absolute fade curves key on.
func ListIndexed(pattern string, frames *FrameRange) ([]string, []int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("pattern %q matched no files", pattern)
	}
	sort.Strings(matches)
	if frames == nil {
		idx := make([]int, len(matches))
		for i := range idx {
			idx[i] = i
		}
		return matches, idx, nil
	}
	idx := frames.Indices(len(matches))
	if len(idx) == 0 {
		return nil, nil, fmt.Errorf("frame range selects no files from %d matches", len(matches))
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = matches[j]
	}
	return out, idx, nil
}

package chrono

import (
	"math"
	"math/rand"
	"slices"
	"sort"

	"chronophoto/internal/raster"
)

// Options is the immutable engine configuration shared by all workers.
type Options struct {
	Threshold  Threshold
	Background BackgroundMode
	Outlier    OutlierMode
	Weights    Weights
	Fade       Fade
	// MaxSamples caps the number of frames used to estimate the per-pixel
	// center and scale; 0 uses every frame. The full frame set is always
	// scanned for outliers.
	MaxSamples int
}

// PixelInfo is the per-pixel diagnostic output next to the composited color.
type PixelInfo struct {
	// Blend is the reported blend strength, round(255*blend).
	Blend uint8
	// Outlier reports whether any frame was classified as an outlier.
	Outlier bool
	// Warning reports that every frame was an outlier and the background
	// policy had to fall back.
	Warning bool
}

// Engine computes composite pixels from frame-by-channel sample matrices.
// One engine serves a whole run; workers hold private Scratch state.
type Engine struct {
	opts     Options
	channels int
	frames   int
	// sampleIdx is the cached random frame subset used for center/scale
	// estimation, ascending; nil means all frames.
	sampleIdx []int
}

// NewEngine builds an engine for composites over the given window length.
// The sub-sampling subset is drawn once from rng and reused for every pixel
// of the run.
func NewEngine(opts Options, channels, frames int, rng *rand.Rand) *Engine {
	e := &Engine{opts: opts, channels: channels, frames: frames}
	if opts.MaxSamples > 0 && opts.MaxSamples < frames {
		idx := rng.Perm(frames)[:opts.MaxSamples]
		sort.Ints(idx)
		e.sampleIdx = idx
	}
	return e
}

// Frames returns the window length the engine was built for.
func (e *Engine) Frames() int { return e.frames }

// Scratch is per-worker mutable state: sort buffers, the outlier list, the
// index permutation for random background sampling, and the worker's RNG.
// Reused across every pixel the worker computes; carries no semantic state
// between pixels.
type Scratch struct {
	rng      *rand.Rand
	matrix   []uint8
	values   []uint8
	outliers []outlierSample
	order    []int
	acc      []float32
	repr     []uint8

	center   [4]float32
	scaleInv [4]float32
	mean     [4]float32
	outSum   [4]float32
}

type outlierSample struct {
	frame  int
	distSq float32
}

// NewScratch allocates worker state. Each worker needs its own seed so runs
// stay deterministic under parallel execution.
func (e *Engine) NewScratch(seed int64) *Scratch {
	sampleN := e.frames
	if e.sampleIdx != nil {
		sampleN = len(e.sampleIdx)
	}
	order := make([]int, e.frames)
	for i := range order {
		order[i] = i
	}
	return &Scratch{
		rng:      rand.New(rand.NewSource(seed)),
		matrix:   make([]uint8, e.frames*e.channels),
		values:   make([]uint8, e.channels*sampleN),
		outliers: make([]outlierSample, 0, e.frames),
		order:    order,
		acc:      make([]float32, e.channels),
		repr:     make([]uint8, e.channels),
	}
}

// ComputePixel composites one output pixel from the frame-by-channel matrix.
// offset is the window's first source frame index, used by absolute fade
// curves. The composited color is written to pixel (channels bytes).
func (e *Engine) ComputePixel(sc *Scratch, matrix []uint8, offset int, pixel []uint8) PixelInfo {
	n := e.frames
	ch := e.channels
	t := e.opts.Threshold
	w := e.opts.Weights

	e.estimate(sc, matrix)

	// Outlier scan over the full frame set.
	minSq := t.Min() * t.Min()
	needSum := e.opts.Background == BackgroundAverage
	sc.outliers = sc.outliers[:0]
	maxDistSq := float32(0)
	maxFrame := 0
	for c := 0; c < ch; c++ {
		sc.outSum[c] = 0
	}
	for f := 0; f < n; f++ {
		sample := matrix[f*ch : f*ch+ch]
		var distSq float32
		for c := 0; c < ch; c++ {
			if w[c] == 0 {
				continue
			}
			diff := sc.center[c] - float32(sample[c])
			if !t.Absolute() {
				diff *= sc.scaleInv[c]
			}
			d := w[c] * diff
			if w[c] < 0 {
				distSq -= d * d
			} else {
				distSq += d * d
			}
		}
		if distSq >= minSq {
			if len(sc.outliers) == 0 || distSq > maxDistSq {
				maxDistSq = distSq
				maxFrame = f
			}
			sc.outliers = append(sc.outliers, outlierSample{frame: f, distSq: distSq})
			if needSum {
				for c := 0; c < ch; c++ {
					sc.outSum[c] += float32(sample[c])
				}
			}
		}
	}
	k := len(sc.outliers)

	info := PixelInfo{Outlier: k > 0}
	info.Warning = e.background(sc, matrix, k, pixel)
	if k == 0 {
		return info
	}

	switch e.opts.Outlier {
	case OutlierAllForward:
		info.Blend = e.blendAll(sc, matrix, offset, pixel, false)
	case OutlierAllBackward:
		info.Blend = e.blendAll(sc, matrix, offset, pixel, true)
	default:
		sample, dist, frame := e.representative(sc, matrix, maxDistSq, maxFrame)
		blend := e.fadeAt(offset, frame) * t.BlendValue(dist)
		raster.BlendInto(pixel, sample, blend)
		info.Blend = uint8(math.Round(float64(blend) * 255))
	}
	return info
}

// estimate computes the per-channel mean over all frames and the robust
// center (and inverse scale in relative mode) over the sampled subset.
func (e *Engine) estimate(sc *Scratch, matrix []uint8) {
	n := e.frames
	ch := e.channels
	sampleN := n
	for c := 0; c < ch; c++ {
		sc.mean[c] = 0
	}
	for f := 0; f < n; f++ {
		for c := 0; c < ch; c++ {
			sc.mean[c] += float32(matrix[f*ch+c])
		}
	}
	for c := 0; c < ch; c++ {
		sc.mean[c] /= float32(n)
	}

	if e.sampleIdx == nil {
		for f := 0; f < n; f++ {
			for c := 0; c < ch; c++ {
				sc.values[c*sampleN+f] = matrix[f*ch+c]
			}
		}
	} else {
		sampleN = len(e.sampleIdx)
		for si, f := range e.sampleIdx {
			for c := 0; c < ch; c++ {
				sc.values[c*sampleN+si] = matrix[f*ch+c]
			}
		}
	}

	absolute := e.opts.Threshold.Absolute()
	for c := 0; c < ch; c++ {
		sorted := sc.values[c*sampleN : c*sampleN+sampleN]
		slices.Sort(sorted)
		if absolute {
			sc.center[c] = median(sorted)
			continue
		}
		q1, med, q3 := quartiles(sorted)
		sc.center[c] = med
		iqr := q3 - q1
		if iqr == 0 {
			iqr = 1
		}
		sc.scaleInv[c] = 1 / iqr
	}
}

// background fills pixel with the policy-selected background and reports
// whether the all-outliers fallback fired.
func (e *Engine) background(sc *Scratch, matrix []uint8, k int, pixel []uint8) bool {
	n := e.frames
	ch := e.channels
	switch e.opts.Background {
	case BackgroundAverage:
		warn := false
		for c := 0; c < ch; c++ {
			v := sc.mean[c]
			if k > 0 && k < n {
				fn := float32(n)
				fk := float32(k)
				v = sc.mean[c]*fn/(fn-fk) - sc.outSum[c]/fn
			} else if k == n {
				warn = true
			}
			pixel[c] = clampByte(v)
		}
		return warn
	case BackgroundMedian:
		for c := 0; c < ch; c++ {
			pixel[c] = clampByte(sc.center[c])
		}
		return false
	case BackgroundRandom:
		pick, warn := e.randomBackground(sc, k)
		copy(pixel, matrix[pick*ch:pick*ch+ch])
		return warn
	default: // BackgroundFirst
		pick := -1
		next := 0
		for f := 0; f < n; f++ {
			if next < k && sc.outliers[next].frame == f {
				next++
				continue
			}
			pick = f
			break
		}
		warn := false
		if pick < 0 {
			pick = 0
			warn = true
		}
		copy(pixel, matrix[pick*ch:pick*ch+ch])
		return warn
	}
}

// randomBackground samples uniformly over non-outlier frames by swapping
// outlier indices out of the draw range, then undoing the swaps so the
// permutation stays the identity for the next pixel.
func (e *Engine) randomBackground(sc *Scratch, k int) (int, bool) {
	n := e.frames
	if k == 0 {
		return sc.rng.Intn(n), false
	}
	if k == n {
		return sc.rng.Intn(n), true
	}
	m := n
	for j := k - 1; j >= 0; j-- {
		f := sc.outliers[j].frame
		m--
		sc.order[f], sc.order[m] = sc.order[m], sc.order[f]
	}
	pick := sc.order[sc.rng.Intn(n-k)]
	for j := 0; j < k; j++ {
		f := sc.outliers[j].frame
		sc.order[f], sc.order[m] = sc.order[m], sc.order[f]
		m++
	}
	return pick, false
}

// representative picks the single outlier sample per the selection mode.
// Returns the sample slice, its distance, and the frame index used for fade
// lookup.
func (e *Engine) representative(sc *Scratch, matrix []uint8, maxDistSq float32, maxFrame int) ([]uint8, float32, int) {
	ch := e.channels
	k := len(sc.outliers)
	switch e.opts.Outlier {
	case OutlierLast:
		o := sc.outliers[k-1]
		return matrix[o.frame*ch : o.frame*ch+ch], sqrt32(o.distSq), o.frame
	case OutlierExtreme:
		return matrix[maxFrame*ch : maxFrame*ch+ch], sqrt32(maxDistSq), maxFrame
	case OutlierAverage:
		if k == 1 {
			o := sc.outliers[0]
			return matrix[o.frame*ch : o.frame*ch+ch], sqrt32(o.distSq), o.frame
		}
		for c := 0; c < ch; c++ {
			sc.acc[c] = 0
		}
		var distSum float32
		for _, o := range sc.outliers {
			for c := 0; c < ch; c++ {
				sc.acc[c] += float32(matrix[o.frame*ch+c])
			}
			distSum += sqrt32(o.distSq)
		}
		for c := 0; c < ch; c++ {
			sc.repr[c] = clampByte(sc.acc[c] / float32(k))
		}
		return sc.repr, distSum / float32(k), maxFrame
	default: // OutlierFirst
		o := sc.outliers[0]
		return matrix[o.frame*ch : o.frame*ch+ch], sqrt32(o.distSq), o.frame
	}
}

// blendAll composites every outlier over the background in frame order and
// returns the combined blend byte, 255*(1 - prod(1-blend_i)).
func (e *Engine) blendAll(sc *Scratch, matrix []uint8, offset int, pixel []uint8, backward bool) uint8 {
	ch := e.channels
	t := e.opts.Threshold
	for c := 0; c < ch; c++ {
		sc.acc[c] = float32(pixel[c])
	}
	remaining := float32(1)
	k := len(sc.outliers)
	for i := 0; i < k; i++ {
		o := sc.outliers[i]
		if backward {
			o = sc.outliers[k-1-i]
		}
		blend := e.fadeAt(offset, o.frame) * t.BlendValue(sqrt32(o.distSq))
		if blend <= 0 {
			continue
		}
		raster.BlendIntoFloat(sc.acc, matrix[o.frame*ch:o.frame*ch+ch], blend)
		remaining *= 1 - blend
	}
	raster.RoundToBytes(pixel, sc.acc)
	return uint8(math.Round(float64(1-remaining) * 255))
}

// fadeAt evaluates the fade curve for a window-local frame index. Absolute
// curves index by source frame position, relative curves by distance from the
// window end.
func (e *Engine) fadeAt(offset, frame int) float32 {
	f := e.opts.Fade
	if !f.Defined() {
		return 1
	}
	if f.Absolute() {
		return f.Value(offset + frame)
	}
	return f.Value(e.frames - frame - 1)
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(float64(v)))
}

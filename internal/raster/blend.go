package raster

import "math"

// BlendInto blends src over dst in place: dst += (src-dst)*f, rounded to the
// nearest integer. f outside [0,1] is clamped to full transparency/opacity.
func BlendInto(dst []uint8, src []uint8, f float32) {
	if f <= 0 {
		return
	}
	if f >= 1 {
		copy(dst, src)
		return
	}
	for i := range dst {
		d := float32(dst[i])
		dst[i] = uint8(math.Round(float64(d + (float32(src[i])-d)*f)))
	}
}

// BlendIntoFloat blends 8-bit src over a float accumulator holding values in
// the [0, 255] range. Used by the progressive all-outlier compositing path,
// which must not round between steps.
func BlendIntoFloat(dst []float32, src []uint8, f float32) {
	if f <= 0 {
		return
	}
	if f >= 1 {
		for i, v := range src {
			dst[i] = float32(v)
		}
		return
	}
	for i := range dst {
		dst[i] += (float32(src[i]) - dst[i]) * f
	}
}

// RoundToBytes converts a float pixel accumulator back to 8-bit samples.
func RoundToBytes(dst []uint8, src []float32) {
	for i, v := range src {
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		dst[i] = uint8(math.Round(float64(v)))
	}
}

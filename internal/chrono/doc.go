// Package chrono implements the per-pixel statistical compositing engine and
// its configuration value types.
//
// For every output pixel the engine receives the frame-by-channel sample
// matrix reconstructed from the time-sliced store, estimates a robust center
// (and, in relative mode, scale) per channel, classifies frames whose weighted
// distance from the center exceeds the threshold as outliers, selects a
// background from the remaining frames, and blends the selected outlier
// sample(s) over it. Moving subjects end up as the blended outliers; the
// static scene survives as the background.
package chrono

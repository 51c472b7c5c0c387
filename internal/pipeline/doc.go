// Package pipeline orchestrates a full compositing run: listing input
// frames, optional shake analysis, time-slicing into band files, per-pixel
// compositing, and writing the output images. It owns the run temp
// directory, the run lock, and the worker pools.
package pipeline

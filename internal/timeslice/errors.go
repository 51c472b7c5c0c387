package timeslice

import "errors"

var (
	// ErrLayoutMismatch reports a frame whose sample layout differs from the
	// layout captured from the first frame. The write aborts.
	ErrLayoutMismatch = errors.New("frame layout mismatch")

	// ErrChunkLength reports chunks within one band that decompress to
	// different lengths. The read aborts.
	ErrChunkLength = errors.New("chunk length mismatch")

	// ErrNoFrames reports a write phase that ended without any input frames.
	ErrNoFrames = errors.New("no input frames")
)

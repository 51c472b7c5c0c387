package timeslice

import (
	"log/slog"
	"os"

	"chronophoto/internal/raster"
)

// Store is the result of a completed write phase: one band file per spatial
// slice, spanning every frame of the run.
type Store struct {
	Paths     []string
	Layout    raster.Layout
	Frames    int
	BandBytes int
	// Written is the total compressed payload size across all bands.
	Written int64
}

// Remove deletes all band files. Failures are logged and skipped; a consumer
// that got this far has its output already.
func (s *Store) Remove(logger *slog.Logger) {
	for _, path := range s.Paths {
		if err := os.Remove(path); err != nil && logger != nil {
			logger.Warn("delete band file", "path", path, "error", err)
		}
	}
}

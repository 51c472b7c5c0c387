package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"chronophoto/internal/chrono"
	"chronophoto/internal/config"
	"chronophoto/internal/imgio"
	"chronophoto/internal/raster"
	"chronophoto/internal/shake"
	"chronophoto/internal/timeslice"
)

// Options carries the resolved settings for one compositing run. Enum and
// curve fields are already parsed; the CLI layer maps flag strings onto them.
type Options struct {
	Pattern    string
	Frames     *imgio.FrameRange
	OutputPath string
	// BlendPath, when set, additionally writes the blend diagnostic raster.
	BlendPath string

	Threshold  chrono.Threshold
	Background chrono.BackgroundMode
	Outlier    chrono.OutlierMode
	Weights    chrono.Weights
	Fade       chrono.Fade
	Quality    int

	Compression timeslice.Compression
	Slicing     timeslice.SliceLength
	// Seed fixes the run RNG; 0 seeds from the clock.
	Seed       int64
	MaxSamples int

	SliceWorkers int
	PixelWorkers int

	// VideoFrames selects video synthesis when positive: output frame k
	// composites the source window [k*VideoStride, k*VideoStride+Window).
	VideoFrames int
	VideoStride int
	Window      int

	ShakeAnchors []shake.Anchor
	ShakeParams  shake.Params

	Progress bool
}

// Summary aggregates run statistics for reporting.
type Summary struct {
	InputFrames   int
	OutputFrames  int
	FailedFrames  int
	Bands         int
	BytesWritten  int64
	OutlierPixels int64
	Warnings      int64
	Seed          int64
	Elapsed       time.Duration
}

// Run executes a full compositing run and returns its summary. In video mode
// a failed output frame does not stop the remaining frames; the combined
// error is returned after all frames finished.
func Run(cfg *config.Config, opts Options, logger *slog.Logger) (*Summary, error) {
	start := time.Now()

	if err := validate(&opts); err != nil {
		return nil, err
	}

	files, err := imgio.List(opts.Pattern, opts.Frames)
	if err != nil {
		return nil, Wrap(ErrValidation, "list", "", err)
	}
	logger.Info("input frames listed", "pattern", opts.Pattern, "frames", len(files))

	var crops []raster.Crop
	if len(opts.ShakeAnchors) > 0 {
		crops, err = analyzeShake(files, opts, logger)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(cfg.Paths.TempDir, 0o755); err != nil {
		return nil, Wrap(ErrConfiguration, "temp", "create temp root", err)
	}
	lock := flock.New(filepath.Join(cfg.Paths.TempDir, "chronophoto.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, Wrap(ErrConfiguration, "lock", "acquire run lock", err)
	}
	if !ok {
		return nil, Wrap(ErrLocked, "lock", "temp directory is in use by another run", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release run lock", "error", err)
		}
	}()

	tempDir, err := os.MkdirTemp(cfg.Paths.TempDir, "run-")
	if err != nil {
		return nil, Wrap(ErrConfiguration, "temp", "create run directory", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logger.Warn("remove run directory", "path", tempDir, "error", err)
		}
	}()

	store, err := sliceFrames(files, crops, tempDir, opts, logger)
	if err != nil {
		return nil, err
	}
	defer store.Remove(logger)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("frames sliced",
		"frames", store.Frames,
		"bands", len(store.Paths),
		"bytes", store.Written,
		"seed", seed)

	summary := &Summary{
		InputFrames:  store.Frames,
		Bands:        len(store.Paths),
		BytesWritten: store.Written,
		Seed:         seed,
	}

	if opts.VideoFrames > 0 {
		err = runVideo(store, opts, seed, summary, logger)
	} else {
		err = runSingle(store, opts, seed, summary, logger)
	}
	summary.Elapsed = time.Since(start)
	if err != nil {
		return summary, err
	}

	if summary.Warnings > 0 {
		logger.Warn("pixels with all frames outliers used the background fallback",
			"pixels", summary.Warnings)
	}
	return summary, nil
}

func validate(opts *Options) error {
	if strings.TrimSpace(opts.Pattern) == "" {
		return Wrap(ErrValidation, "options", "input pattern is required", nil)
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return Wrap(ErrValidation, "options", "output path is required", nil)
	}
	if opts.VideoFrames > 0 {
		if opts.Window <= 0 {
			return Wrap(ErrValidation, "options", "video synthesis requires a positive window", nil)
		}
		if opts.VideoStride <= 0 {
			opts.VideoStride = 1
		}
	}
	if opts.PixelWorkers <= 0 {
		opts.PixelWorkers = runtime.NumCPU()
	}
	if opts.SliceWorkers <= 0 {
		opts.SliceWorkers = runtime.NumCPU()
	}
	return nil
}

func analyzeShake(files []string, opts Options, logger *slog.Logger) ([]raster.Crop, error) {
	bar := newBar(opts.Progress, len(files), "analyzing")
	offsets, err := shake.Analyze(files, opts.ShakeAnchors, opts.ShakeParams, func(done, total int) {
		barSet(bar, done)
	})
	barFinish(bar)
	if err != nil {
		return nil, Wrap(ErrProcessing, "shake", "", err)
	}

	first, err := imgio.DecodeFrame(files[0])
	if err != nil {
		return nil, Wrap(ErrProcessing, "shake", "decode reference frame", err)
	}
	for i, off := range offsets {
		logger.Debug("shake offset", "frame", i, "dx", off.DX, "dy", off.DY, "score", off.Score)
	}
	return shake.CropsFor(offsets, first.Layout), nil
}

func sliceFrames(files []string, crops []raster.Crop, dir string, opts Options, logger *slog.Logger) (*timeslice.Store, error) {
	slicer := timeslice.NewSlicer(dir, uuid.NewString(), opts.Compression, opts.Slicing, opts.SliceWorkers)
	bar := newBar(opts.Progress, len(files), "slicing")
	for i, file := range files {
		frame, err := imgio.DecodeFrame(file)
		if err != nil {
			return nil, Wrap(ErrProcessing, "slice", fmt.Sprintf("decode %s", file), err)
		}
		if crops != nil {
			frame = crops[i].Apply(frame)
		}
		if err := slicer.Add(frame); err != nil {
			return nil, Wrap(ErrProcessing, "slice", file, err)
		}
		barSet(bar, i+1)
	}
	barFinish(bar)

	store, err := slicer.Finish()
	if err != nil {
		return nil, Wrap(ErrProcessing, "slice", "", err)
	}
	return store, nil
}

func runSingle(store *timeslice.Store, opts Options, seed int64, summary *Summary, logger *slog.Logger) error {
	bar := newBar(opts.Progress, len(store.Paths), "compositing")
	res, err := compositeWindow(store, opts, nil, 0, seed, opts.PixelWorkers, func(done, total int) {
		barSet(bar, done)
	})
	barFinish(bar)
	if err != nil {
		return Wrap(ErrProcessing, "composite", "", err)
	}

	if err := saveResult(opts.OutputPath, opts.BlendPath, res, store.Layout, opts.Quality); err != nil {
		return err
	}
	logger.Info("output written", "path", opts.OutputPath,
		"outlier_pixels", res.OutlierPixels, "warnings", res.Warnings)

	summary.OutputFrames = 1
	summary.OutlierPixels = res.OutlierPixels
	summary.Warnings = res.Warnings
	return nil
}

// runVideo composites opts.VideoFrames output frames in parallel. Each frame
// uses a single-worker processor so total pixel parallelism stays at
// opts.PixelWorkers.
func runVideo(store *timeslice.Store, opts Options, seed int64, summary *Summary, logger *slog.Logger) error {
	windows := make([][]int, 0, opts.VideoFrames)
	for k := 0; k < opts.VideoFrames; k++ {
		w := window(k, opts.VideoStride, opts.Window, store.Frames)
		if len(w) == 0 {
			logger.Warn("output frame window is past the input sequence, skipping",
				"frame", k, "start", k*opts.VideoStride)
			continue
		}
		windows = append(windows, w)
	}

	bar := newBar(opts.Progress, len(windows), "compositing")
	var (
		mu     sync.Mutex
		failed []error
		done   int
	)
	sem := make(chan struct{}, opts.PixelWorkers)
	var wg sync.WaitGroup
	for k, win := range windows {
		wg.Add(1)
		sem <- struct{}{}
		go func(k int, win []int) {
			defer wg.Done()
			defer func() { <-sem }()

			frameSeed := seed + int64(k)*1_000_003
			res, err := compositeWindow(store, opts, win, win[0], frameSeed, 1, nil)
			if err == nil {
				outPath := numberedPath(opts.OutputPath, k)
				blendPath := ""
				if opts.BlendPath != "" {
					blendPath = numberedPath(opts.BlendPath, k)
				}
				err = saveResult(outPath, blendPath, res, store.Layout, opts.Quality)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			barSet(bar, done)
			if err != nil {
				logger.Error("output frame failed", "frame", k, "error", err)
				failed = append(failed, fmt.Errorf("frame %d: %w", k, err))
				return
			}
			summary.OutputFrames++
			summary.OutlierPixels += res.OutlierPixels
			summary.Warnings += res.Warnings
		}(k, win)
	}
	wg.Wait()
	barFinish(bar)

	summary.FailedFrames = len(failed)
	if len(failed) > 0 {
		return Wrap(ErrProcessing, "composite",
			fmt.Sprintf("%d of %d output frames failed", len(failed), len(windows)),
			errors.Join(failed...))
	}
	return nil
}

func compositeWindow(store *timeslice.Store, opts Options, win []int, offset int, seed int64, workers int, progress func(done, total int)) (*chrono.Result, error) {
	frames := store.Frames
	if win != nil {
		frames = len(win)
	}
	engine := chrono.NewEngine(chrono.Options{
		Threshold:  opts.Threshold,
		Background: opts.Background,
		Outlier:    opts.Outlier,
		Weights:    opts.Weights,
		Fade:       opts.Fade,
		MaxSamples: opts.MaxSamples,
	}, store.Layout.Channels, frames, newRand(seed))

	proc := chrono.NewProcessor(engine, opts.Compression, workers, seed)
	return proc.Process(store, win, offset, progress)
}

func saveResult(outPath, blendPath string, res *chrono.Result, layout raster.Layout, quality int) error {
	if err := imgio.Save(outPath, res.Image, layout, quality); err != nil {
		return Wrap(ErrProcessing, "save", outPath, err)
	}
	if blendPath != "" {
		if err := imgio.Save(blendPath, res.Blend, layout, quality); err != nil {
			return Wrap(ErrProcessing, "save", blendPath, err)
		}
	}
	return nil
}

// window returns the ascending source indices of output frame k, clipped to
// the input sequence.
func window(k, stride, size, total int) []int {
	start := k * stride
	end := start + size
	if end > total {
		end = total
	}
	if start >= end {
		return nil
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return indices
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// numberedPath inserts a five digit frame number before the extension, so
// out.png becomes out-00000.png.
func numberedPath(path string, k int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%05d%s", strings.TrimSuffix(path, ext), k, ext)
}

package chrono

import (
	"fmt"
	"sync"
	"sync/atomic"

	"chronophoto/internal/timeslice"
)

// Result is a composited output frame plus its blend/diagnostic raster and
// run counters.
type Result struct {
	// Image is the composited raster, in the store's layout.
	Image []uint8
	// Blend holds round(255*blend) in the color channels and 255 alpha,
	// same layout; useful for debugging threshold settings.
	Blend []uint8
	// OutlierPixels counts pixels with at least one outlier frame.
	OutlierPixels int64
	// Warnings counts pixels where every frame was an outlier and the
	// background policy fell back.
	Warnings int64
}

// Processor composites one output frame from a time-sliced store. Pixels
// within a band are fanned out across workers, each owning private scratch
// state, so the hot loop allocates nothing per pixel.
type Processor struct {
	engine  *Engine
	comp    timeslice.Compression
	workers int
	seed    int64
}

// NewProcessor builds a processor around an engine. workers bounds pixel
// parallelism; seed derives the per-worker RNG states.
func NewProcessor(engine *Engine, comp timeslice.Compression, workers int, seed int64) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{engine: engine, comp: comp, workers: workers, seed: seed}
}

// Process composites the frames selected by window (nil = all frames of the
// store, otherwise ascending source indices matching the engine's window
// length). offset is the window's first source index, for absolute fade
// curves. progress, when non-nil, is invoked after each band.
func (p *Processor) Process(store *timeslice.Store, window []int, offset int, progress func(done, total int)) (*Result, error) {
	layout := store.Layout
	frames := p.engine.Frames()
	if window != nil && len(window) != frames {
		return nil, fmt.Errorf("window holds %d frames, engine expects %d", len(window), frames)
	}
	if window == nil && store.Frames != frames {
		return nil, fmt.Errorf("store holds %d frames, engine expects %d", store.Frames, frames)
	}

	res := &Result{
		Image: make([]uint8, layout.ByteSize()),
		Blend: make([]uint8, layout.ByteSize()),
	}

	var data []byte
	var warnings, outliers atomic.Int64
	scratches := make([]*Scratch, p.workers)
	for i := range scratches {
		scratches[i] = p.engine.NewScratch(p.seed + int64(i))
	}

	for band, path := range store.Paths {
		var (
			reader *timeslice.BandReader
			err    error
		)
		if window == nil {
			reader, err = timeslice.NewBandReader(path, p.comp)
		} else {
			reader, err = timeslice.NewSelectiveBandReader(path, p.comp, window)
		}
		if err != nil {
			return nil, err
		}
		var count int
		data, count, err = reader.ReadAll(data[:0])
		chunkSize := reader.ChunkSize()
		reader.Close()
		if err != nil {
			return nil, err
		}
		if count != frames {
			return nil, fmt.Errorf("band %s yielded %d frames, expected %d", path, count, frames)
		}
		if chunkSize%layout.WidthStride != 0 {
			return nil, fmt.Errorf("band %s holds %d bytes per frame, not pixel aligned (stride %d); use rows or pixels slicing",
				path, chunkSize, layout.WidthStride)
		}
		p.processBand(data, chunkSize, band*store.BandBytes, offset, scratches, res, &warnings, &outliers)
		if progress != nil {
			progress(band+1, len(store.Paths))
		}
	}

	res.Warnings = warnings.Load()
	res.OutlierPixels = outliers.Load()
	return res, nil
}

// processBand composites all pixels of one reconstructed band. data holds
// frames*chunkSize bytes, frame-major; base is the band's byte offset in the
// output buffers.
func (p *Processor) processBand(data []byte, chunkSize, base, offset int, scratches []*Scratch, res *Result, warnings, outliers *atomic.Int64) {
	ch := p.engine.channels
	stride := ch
	pixels := chunkSize / stride
	frames := p.engine.Frames()

	workers := len(scratches)
	if workers > pixels {
		workers = pixels
	}
	per := (pixels + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * per
		end := start + per
		if end > pixels {
			end = pixels
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(sc *Scratch, start, end int) {
			defer wg.Done()
			matrix := sc.matrix
			var warned, outlied int64
			for px := start; px < end; px++ {
				for f := 0; f < frames; f++ {
					copy(matrix[f*ch:f*ch+ch], data[f*chunkSize+px*stride:f*chunkSize+px*stride+ch])
				}
				out := res.Image[base+px*stride : base+px*stride+ch]
				info := p.engine.ComputePixel(sc, matrix, offset, out)
				blendPix := res.Blend[base+px*stride : base+px*stride+ch]
				for c := 0; c < ch; c++ {
					if c == 3 {
						blendPix[c] = 255
					} else {
						blendPix[c] = info.Blend
					}
				}
				if info.Warning {
					warned++
				}
				if info.Outlier {
					outlied++
				}
			}
			warnings.Add(warned)
			outliers.Add(outlied)
		}(scratches[w], start, end)
	}
	wg.Wait()
}

package timeslice

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chronophoto/internal/raster"
)

// bandWriter appends length-prefixed compressed chunks to one band file.
type bandWriter struct {
	path string
	file *os.File
	bw   *bufio.Writer
	comp Compression
	buf  bytes.Buffer
}

func newBandWriter(path string, comp Compression) (*bandWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create band file %s: %w", path, err)
	}
	return &bandWriter{path: path, file: file, bw: bufio.NewWriter(file), comp: comp}, nil
}

// writeChunk compresses data and appends one [length][payload] record.
// Returns the compressed payload size.
func (w *bandWriter) writeChunk(data []byte) (int, error) {
	w.buf.Reset()
	if err := w.comp.compress(&w.buf, data); err != nil {
		return 0, fmt.Errorf("compress chunk for %s: %w", w.path, err)
	}
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(w.buf.Len()))
	if _, err := w.bw.Write(length[:]); err != nil {
		return 0, fmt.Errorf("write chunk to %s: %w", w.path, err)
	}
	if _, err := w.bw.Write(w.buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write chunk to %s: %w", w.path, err)
	}
	return w.buf.Len(), nil
}

func (w *bandWriter) close() error {
	if err := w.bw.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush band file %s: %w", w.path, err)
	}
	return w.file.Close()
}

// Slicer transposes an ordered frame sequence into band files. Frames must be
// added in input order; chunk position i within a band identifies frame i.
type Slicer struct {
	dir     string
	id      string
	comp    Compression
	slices  SliceLength
	workers int

	layout    raster.Layout
	captured  bool
	bandBytes int
	bands     []*bandWriter
	frames    int
	written   int64
}

// NewSlicer prepares a slicer writing into dir. The id keys the band file
// names so concurrent runs sharing a temp root cannot collide. workers bounds
// the per-frame band fan-out; values below 1 mean serial.
func NewSlicer(dir, id string, comp Compression, slices SliceLength, workers int) *Slicer {
	if workers < 1 {
		workers = 1
	}
	return &Slicer{dir: dir, id: id, comp: comp, slices: slices, workers: workers}
}

// Add appends one frame to every band. The first frame fixes the layout and
// creates the band files; later frames must match it exactly.
func (s *Slicer) Add(frame raster.Frame) error {
	if !s.captured {
		if err := s.capture(frame.Layout); err != nil {
			return err
		}
	} else if !frame.Layout.SameAs(s.layout) {
		return fmt.Errorf("%w: frame %d has layout %s, expected %s",
			ErrLayoutMismatch, s.frames, frame.Layout, s.layout)
	}
	if err := s.appendBands(frame.Samples); err != nil {
		return err
	}
	s.frames++
	return nil
}

func (s *Slicer) capture(layout raster.Layout) error {
	s.layout = layout
	s.bandBytes = s.slices.Bytes(layout)
	count := s.slices.Count(layout)
	s.bands = make([]*bandWriter, count)
	for i := range s.bands {
		path := filepath.Join(s.dir, fmt.Sprintf("band-%s-%05d.bin", s.id, i))
		w, err := newBandWriter(path, s.comp)
		if err != nil {
			s.abort()
			return err
		}
		s.bands[i] = w
	}
	s.captured = true
	return nil
}

// appendBands fans the frame's byte ranges out across the band writers. Each
// writer owns its own file, so bands of one frame can run in parallel over
// the shared read-only sample buffer.
func (s *Slicer) appendBands(samples []byte) error {
	workers := s.workers
	if workers > len(s.bands) {
		workers = len(s.bands)
	}
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := i * s.bandBytes
				end := start + s.bandBytes
				if end > len(samples) {
					end = len(samples)
				}
				n, err := s.bands[i].writeChunk(samples[start:end])
				mu.Lock()
				if err != nil && first == nil {
					first = err
				}
				s.written += int64(n)
				mu.Unlock()
			}
		}()
	}
	for i := range s.bands {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return first
}

// Finish flushes and closes every band file and returns the resulting store.
func (s *Slicer) Finish() (*Store, error) {
	if s.frames == 0 {
		s.abort()
		return nil, ErrNoFrames
	}
	paths := make([]string, len(s.bands))
	for i, w := range s.bands {
		paths[i] = w.path
		if err := w.close(); err != nil {
			s.abort()
			return nil, err
		}
	}
	return &Store{
		Paths:     paths,
		Layout:    s.layout,
		Frames:    s.frames,
		BandBytes: s.bandBytes,
		Written:   s.written,
	}, nil
}

// abort closes and removes any band files created so far.
func (s *Slicer) abort() {
	for _, w := range s.bands {
		if w == nil {
			continue
		}
		w.file.Close()
		os.Remove(w.path)
	}
	s.bands = nil
	s.captured = false
}

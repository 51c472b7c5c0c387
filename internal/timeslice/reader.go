package timeslice

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// BandReader streams decoded chunks from one band file in frame order. A
// short read on the length prefix or the payload is the normal end-of-stream
// signal, not an error: appends may have been cut off, and everything before
// the truncation is still valid.
type BandReader struct {
	path string
	file *os.File
	br   *bufio.Reader
	comp Compression

	// indices, when non-nil, is the ascending set of frame indices to decode;
	// other chunks are skipped without decompression.
	indices []int
	next    int
	pos     int

	payload   []byte
	chunkSize int
}

// NewBandReader opens a band file for full sequential reading.
func NewBandReader(path string, comp Compression) (*BandReader, error) {
	return newReader(path, comp, nil)
}

// NewSelectiveBandReader opens a band file and decodes only the chunks whose
// frame index appears in the ascending indices list.
func NewSelectiveBandReader(path string, comp Compression, indices []int) (*BandReader, error) {
	return newReader(path, comp, indices)
}

func newReader(path string, comp Compression, indices []int) (*BandReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open band file %s: %w", path, err)
	}
	return &BandReader{
		path:    path,
		file:    file,
		br:      bufio.NewReaderSize(file, 1<<16),
		comp:    comp,
		indices: indices,
	}, nil
}

// ReadChunk appends the next selected chunk's decompressed samples to dst and
// returns the grown slice and the chunk size. ok is false at end-of-stream.
// Every chunk of one reader must decompress to the same length; a differing
// chunk yields ErrChunkLength.
func (r *BandReader) ReadChunk(dst []byte) (out []byte, n int, ok bool, err error) {
	for {
		if r.indices != nil && r.next >= len(r.indices) {
			return dst, 0, false, nil
		}
		length, ok := r.readLength()
		if !ok {
			return dst, 0, false, nil
		}
		if r.indices != nil && r.indices[r.next] != r.pos {
			r.pos++
			if _, err := r.br.Discard(int(length)); err != nil {
				// Truncated tail mid-skip: treat as end-of-stream.
				return dst, 0, false, nil
			}
			continue
		}
		if cap(r.payload) < int(length) {
			r.payload = make([]byte, length)
		}
		payload := r.payload[:length]
		if _, err := io.ReadFull(r.br, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return dst, 0, false, nil
			}
			return dst, 0, false, fmt.Errorf("read chunk from %s: %w", r.path, err)
		}
		r.pos++
		if r.indices != nil {
			r.next++
		}
		dst, n, err = r.comp.decompress(dst, payload)
		if err != nil {
			return dst, 0, false, fmt.Errorf("decompress chunk %d of %s: %w", r.pos-1, r.path, err)
		}
		if r.chunkSize == 0 {
			r.chunkSize = n
		} else if n != r.chunkSize {
			return dst, 0, false, fmt.Errorf("%w: chunk %d of %s decompressed to %d bytes, expected %d",
				ErrChunkLength, r.pos-1, r.path, n, r.chunkSize)
		}
		return dst, n, true, nil
	}
}

// readLength reads the 4-byte big-endian chunk length. ok is false when the
// stream ends before a full prefix.
func (r *BandReader) readLength() (uint32, bool) {
	var prefix [4]byte
	if _, err := io.ReadFull(r.br, prefix[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(prefix[:]), true
}

// ChunkSize returns the decompressed chunk length observed so far (0 before
// the first chunk).
func (r *BandReader) ChunkSize() int {
	return r.chunkSize
}

// Close releases the underlying file.
func (r *BandReader) Close() error {
	return r.file.Close()
}

// ReadAll drains the reader into a single buffer and returns the sample data
// along with the number of chunks read.
func (r *BandReader) ReadAll(dst []byte) ([]byte, int, error) {
	count := 0
	for {
		var (
			ok  bool
			err error
		)
		dst, _, ok, err = r.ReadChunk(dst)
		if err != nil {
			return dst, count, err
		}
		if !ok {
			return dst, count, nil
		}
		count++
	}
}

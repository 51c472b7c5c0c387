package timeslice

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Scheme identifies the chunk payload compression format.
type Scheme int

const (
	SchemeGzip Scheme = iota
	SchemeZlib
	SchemeDeflate
)

// DefaultLevel is used when a compression string carries no explicit level.
const DefaultLevel = 6

// Compression is the per-run chunk codec configuration. The scheme and level
// are fixed for all bands of a run.
type Compression struct {
	Scheme Scheme
	Level  int
}

// ParseCompression parses strings like "gzip", "zlib/9" or "deflate/1".
func ParseCompression(s string) (Compression, error) {
	name, lvl, hasLevel := strings.Cut(s, "/")
	level := DefaultLevel
	if hasLevel {
		n, err := strconv.Atoi(lvl)
		if err != nil || n < 1 || n > 9 {
			return Compression{}, fmt.Errorf("compression %q: level must be 1-9", s)
		}
		level = n
	}
	switch name {
	case "gzip":
		return Compression{Scheme: SchemeGzip, Level: level}, nil
	case "zlib":
		return Compression{Scheme: SchemeZlib, Level: level}, nil
	case "deflate":
		return Compression{Scheme: SchemeDeflate, Level: level}, nil
	default:
		return Compression{}, fmt.Errorf("compression %q: must be one of gzip, zlib, deflate", s)
	}
}

func (c Compression) String() string {
	var name string
	switch c.Scheme {
	case SchemeZlib:
		name = "zlib"
	case SchemeDeflate:
		name = "deflate"
	default:
		name = "gzip"
	}
	return fmt.Sprintf("%s/%d", name, c.Level)
}

// compress writes the compressed form of data into buf.
func (c Compression) compress(buf *bytes.Buffer, data []byte) error {
	var (
		w   io.WriteCloser
		err error
	)
	switch c.Scheme {
	case SchemeZlib:
		w, err = zlib.NewWriterLevel(buf, c.Level)
	case SchemeDeflate:
		w, err = flate.NewWriter(buf, c.Level)
	default:
		w, err = gzip.NewWriterLevel(buf, c.Level)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Close()
}

// decompress appends the decompressed payload to dst and returns the extended
// slice along with the number of decompressed bytes.
func (c Compression) decompress(dst []byte, payload []byte) ([]byte, int, error) {
	var (
		r   io.ReadCloser
		err error
	)
	src := bytes.NewReader(payload)
	switch c.Scheme {
	case SchemeZlib:
		r, err = zlib.NewReader(src)
	case SchemeDeflate:
		r = flate.NewReader(src)
	default:
		r, err = gzip.NewReader(src)
	}
	if err != nil {
		return dst, 0, err
	}
	start := len(dst)
	out := bytes.NewBuffer(dst)
	if _, err := io.Copy(out, r); err != nil {
		r.Close()
		return dst, 0, err
	}
	if err := r.Close(); err != nil {
		return dst, 0, err
	}
	grown := out.Bytes()
	return grown, len(grown) - start, nil
}

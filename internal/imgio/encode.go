package imgio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"chronophoto/internal/raster"
)

// DefaultQuality is used for lossy encoders when the caller passes 0.
const DefaultQuality = 95

// Save encodes a sample buffer to the path, choosing the format from the
// file extension (png, jpg/jpeg, tif/tiff, bmp). quality applies to lossy
// formats and must be within 1-100.
func Save(path string, samples []byte, layout raster.Layout, quality int) error {
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", quality)
	}
	img := imageFromSamples(samples, layout)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer file.Close()

	if err := encode(file, img, filepath.Ext(path), quality); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}

func encode(w io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

func imageFromSamples(samples []byte, layout raster.Layout) image.Image {
	rect := image.Rect(0, 0, layout.Width, layout.Height)
	if layout.Channels == 4 {
		img := image.NewNRGBA(rect)
		for y := 0; y < layout.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+layout.Width*4],
				samples[y*layout.HeightStride:])
		}
		return img
	}
	img := image.NewNRGBA(rect)
	for y := 0; y < layout.Height; y++ {
		for x := 0; x < layout.Width; x++ {
			src := layout.Index(x, y)
			dst := y*img.Stride + x*4
			img.Pix[dst] = samples[src]
			img.Pix[dst+1] = samples[src+1]
			img.Pix[dst+2] = samples[src+2]
			img.Pix[dst+3] = 255
		}
	}
	return img
}

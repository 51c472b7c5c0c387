package imgio

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"chronophoto/internal/raster"
)

// DecodeFrame reads and decodes one image file into a packed 8-bit frame.
// Sources with an alpha channel decode to 4 channels, everything else to 3.
func DecodeFrame(path string) (raster.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	return frameFromImage(img), nil
}

func frameFromImage(img image.Image) raster.Frame {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		layout := raster.NewLayout(w, h, 4)
		out := make([]byte, layout.ByteSize())
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			copy(out[y*layout.HeightStride:], row)
		}
		return raster.Frame{Layout: layout, Samples: out}
	case *image.Gray:
		layout := raster.NewLayout(w, h, 3)
		out := make([]byte, layout.ByteSize())
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := src.Pix[y*src.Stride+x]
				i := layout.Index(x, y)
				out[i], out[i+1], out[i+2] = v, v, v
			}
		}
		return raster.Frame{Layout: layout, Samples: out}
	default:
		// RGBA, YCbCr, paletted and anything else goes through the generic
		// color model; output is 3-channel RGB.
		layout := raster.NewLayout(w, h, 3)
		out := make([]byte, layout.ByteSize())
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				i := layout.Index(x, y)
				out[i] = uint8(r >> 8)
				out[i+1] = uint8(g >> 8)
				out[i+2] = uint8(b >> 8)
			}
		}
		return raster.Frame{Layout: layout, Samples: out}
	}
}

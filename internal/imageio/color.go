package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// StdinPath is the color path that reads from standard input.
const StdinPath = "-"

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// decodeFile opens and decodes any registered image format.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// DecodeColor decodes an image and returns it as tightly packed RGBA with
// its origin at (0,0), so Pix can be handed to the mesh builder directly.
func DecodeColor(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("color: decode: %w", err)
	}
	return ToNRGBA(img), nil
}

// LoadColor reads a color image from disk, or from stdin when path is "-".
func LoadColor(path string) (*image.NRGBA, error) {
	if path == StdinPath {
		return DecodeColor(stdin)
	}
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts src to a zero-origin NRGBA image with stride 4*width.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// FitColor resamples img to width x height when the sizes differ.
func FitColor(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

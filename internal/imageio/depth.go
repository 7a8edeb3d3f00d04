// Package imageio loads depth maps and color images into the flat buffers
// the mesh builder consumes.
package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
)

// Depth loading errors.
var (
	ErrDepthSize      = errors.New("depth data size does not match dimensions")
	ErrDepthDimension = errors.New("invalid depth dimensions")
)

// Depth is a row-major grid of depth samples.
type Depth struct {
	Samples []float32
	Width   int
	Height  int
}

// Range returns the smallest and largest sample.
func (d *Depth) Range() (lo, hi float32) {
	if len(d.Samples) == 0 {
		return 0, 0
	}
	lo, hi = d.Samples[0], d.Samples[0]
	for _, z := range d.Samples[1:] {
		lo = min(lo, z)
		hi = max(hi, z)
	}
	return lo, hi
}

// Scale multiplies every sample by s.
func (d *Depth) Scale(s float32) {
	for i := range d.Samples {
		d.Samples[i] *= s
	}
}

// DecodeDepthRaw parses little-endian float32 samples, one per pixel, no
// header and no padding.
func DecodeDepthRaw(data []byte, width, height int) (*Depth, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDepthDimension, width, height)
	}
	if want := width * height * 4; len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDepthSize, len(data), want)
	}

	d := &Depth{
		Samples: make([]float32, width*height),
		Width:   width,
		Height:  height,
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, d.Samples); err != nil {
		return nil, fmt.Errorf("reading depth samples: %w", err)
	}
	return d, nil
}

// LoadDepthRaw reads a raw float32 depth file from disk.
func LoadDepthRaw(path string, width, height int) (*Depth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading depth file: %w", err)
	}
	return DecodeDepthRaw(data, width, height)
}

// DepthFromImage converts a grayscale depth image to samples in [0,1].
// 16-bit sources keep their full precision. With invert set, white maps to
// 0 instead of 1.
func DepthFromImage(img image.Image, invert bool) *Depth {
	b := img.Bounds()
	d := &Depth{
		Samples: make([]float32, b.Dx()*b.Dy()),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			v := float32(g.Y) / 65535.0
			if invert {
				v = 1 - v
			}
			d.Samples[i] = v
			i++
		}
	}
	return d
}

// LoadDepthImage decodes a depth image (PNG, JPEG, GIF, TGA or WebP).
func LoadDepthImage(path string, invert bool) (*Depth, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("depth: %w", err)
	}
	return DepthFromImage(img, invert), nil
}

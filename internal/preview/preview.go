// Package preview renders which parts of an input survive background
// culling, for a quick visual check before meshing.
package preview

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// Render returns the color image with every sample that belongs to no
// accepted quad cleared to transparent black.
func Render(depth []float32, color []uint8, width, height int) (*image.NRGBA, error) {
	if err := mesh.CheckInput(depth, color, width, height); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	mask := mesh.AcceptedMask(depth, width, height)
	for i, keep := range mask {
		if keep {
			copy(img.Pix[i*4:i*4+4], color[i*4:i*4+4])
			img.Pix[i*4+3] = 255
		}
	}
	return img, nil
}

// RenderDepth maps depth samples to a grayscale image, near (small depth)
// dark and far bright. Background and NaN samples stay transparent.
func RenderDepth(depth []float32, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	var hi float32
	for _, z := range depth {
		if !isNaN(z) {
			hi = max(hi, z)
		}
	}
	if hi <= 0 {
		return img
	}

	for i, z := range depth {
		if z < mesh.BackgroundThreshold || isNaN(z) {
			continue
		}
		v := uint8(min(z/hi, 1)*255 + 0.5)
		img.Pix[i*4] = v
		img.Pix[i*4+1] = v
		img.Pix[i*4+2] = v
		img.Pix[i*4+3] = 255
	}
	return img
}

func isNaN(z float32) bool {
	return math.IsNaN(float64(z))
}

// Save encodes img as lossless WebP.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("preview: WebP encode: %w", err)
	}
	return f.Close()
}

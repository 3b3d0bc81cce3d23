// Package imaging loads, resizes and saves images for the CLI demos.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// MaxPixels caps the size of a scaled image
const MaxPixels = 1 << 26

var (
	// ErrInvalidScale is returned for scale factors below 1
	ErrInvalidScale = errors.New("imaging: scale factor must be at least 1")
	// ErrTooLarge is returned when a scaled image would exceed MaxPixels
	ErrTooLarge = errors.New("imaging: scaled image too large")
)

// Load decodes a PNG, JPEG or GIF file
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img as PNG at path
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Scale enlarges img by an integer factor
func Scale(img image.Image, factor int) (*image.RGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScale, factor)
	}

	b := img.Bounds()
	pixels := int64(b.Dx()) * int64(b.Dy())
	// factor is bounded first so factor*factor cannot overflow
	if factor > MaxPixels || (pixels > 0 && int64(factor)*int64(factor) > MaxPixels/pixels) {
		return nil, fmt.Errorf("%w: %dx%d by %d exceeds %d pixels", ErrTooLarge, b.Dx(), b.Dy(), factor, MaxPixels)
	}

	return Fit(img, b.Dx()*factor, b.Dy()*factor), nil
}

// Fit resizes img to exactly width x height with Catmull-Rom resampling
func Fit(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

package canvas

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
	"red":   "#ff0000",
	"green": "#008000",
	"blue":  "#0000ff",
	"gray":  "#808080",
}

// ParseColor: accepts a small set of named colors or a #rrggbb hex string
func ParseColor(name string) (colorful.Color, error) {
	hex := strings.ToLower(strings.TrimSpace(name))
	if named, ok := namedColors[hex]; ok {
		hex = named
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", name, err)
	}
	return c, nil
}

// Render rasterises the surface. Each rectangle is outlined 1px wide;
// a zero-area rectangle paints exactly the pixel at its corner.
func (s *Surface) Render() (image.Image, error) {
	dc, err := s.draw()
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG writes the rendered surface as PNG
func (s *Surface) EncodePNG(w io.Writer) error {
	dc, err := s.draw()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func (s *Surface) draw() (*gg.Context, error) {
	bg, err := ParseColor(s.background)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetLineWidth(1)

	for _, shape := range s.Shapes() {
		outline, err := ParseColor(shape.Outline)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", shape.ID, err)
		}
		dc.SetColor(outline)

		x1, x2 := order(shape.X1, shape.X2)
		y1, y2 := order(shape.Y1, shape.Y2)

		if x1 == x2 && y1 == y2 {
			// out of bounds pixels are dropped by the backing image
			dc.SetPixel(x1, y1)
			continue
		}

		// half-pixel offset keeps 1px strokes on pixel centres
		dc.DrawRectangle(float64(x1)+0.5, float64(y1)+0.5, float64(x2-x1), float64(y2-y1))
		dc.Stroke()
	}

	return dc, nil
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

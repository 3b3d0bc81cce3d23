package canvas

import (
	"errors"
	"sync"
)

const (
	DefaultWidth      = 400
	DefaultHeight     = 400
	DefaultBackground = "white"
	DefaultOutline    = "black"
)

// ErrClosed is returned when drawing on a surface that has been torn down
var ErrClosed = errors.New("canvas: surface closed")

// Shape is a rectangle stamped on the surface.
// A zero-area rectangle (X1 == X2, Y1 == Y2) marks a single point.
type Shape struct {
	ID      int    `json:"id"`
	Kind    string `json:"kind"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	X2      int    `json:"x2"`
	Y2      int    `json:"y2"`
	Outline string `json:"outline"`
}

// Options configure a new surface
type Options struct {
	Width      int
	Height     int
	Background string
}

// Surface: append-only drawing region owned by a room
type Surface struct {
	width      int
	height     int
	background string
	shapes     []Shape
	nextID     int
	closed     bool
	mu         sync.RWMutex
}

// NewSurface: creates a surface, zero option fields fall back to 400x400 white
func NewSurface(opts Options) *Surface {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}

	return &Surface{
		width:      opts.Width,
		height:     opts.Height,
		background: opts.Background,
		nextID:     1,
	}
}

func (s *Surface) Width() int         { return s.width }
func (s *Surface) Height() int        { return s.height }
func (s *Surface) Background() string { return s.background }

// CreateRectangle: appends a rectangle outline, coordinates outside the
// bounds are kept as-is and clipped at render time
func (s *Surface) CreateRectangle(x1, y1, x2, y2 int) (Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Shape{}, ErrClosed
	}

	shape := Shape{
		ID:      s.nextID,
		Kind:    "rectangle",
		X1:      x1,
		Y1:      y1,
		X2:      x2,
		Y2:      y2,
		Outline: DefaultOutline,
	}
	s.nextID++
	s.shapes = append(s.shapes, shape)
	return shape, nil
}

// Shapes: snapshot of all shapes in insertion order
func (s *Surface) Shapes() []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Shape, len(s.shapes))
	copy(snapshot, s.shapes)
	return snapshot
}

// Len returns the number of shapes drawn so far
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.shapes)
}

// Close: tears the surface down. Shapes stay readable.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

// Closed reports whether Close has been called
func (s *Surface) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}

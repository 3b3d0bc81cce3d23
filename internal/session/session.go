package session

import (
	"log/slog"

	"sketchpad/internal/canvas"
	"sketchpad/internal/event"
)

// Observer is told about every shape a session draws
type Observer func(ev event.Event, shape canvas.Shape)

// Session: drawing session, the only writer of its surface
type Session struct {
	surface  *canvas.Surface
	observer Observer
	logger   *slog.Logger
}

// New: creates a session that owns surface
func New(surface *canvas.Surface, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		surface: surface,
		logger:  logger,
	}
}

// Observe sets the callback run after each drawn shape
func (s *Session) Observe(o Observer) {
	s.observer = o
}

// Surface exposes the owned surface for reads
func (s *Session) Surface() *canvas.Surface {
	return s.surface
}

// HandlePress stamps a point at the press position
func (s *Session) HandlePress(ev event.Event) error {
	return s.stamp(ev)
}

// HandleRelease does nothing; the release binding only needs to exist.
func (s *Session) HandleRelease(ev event.Event) error {
	return nil
}

// HandleDrag stamps a point at the current pointer position. A drag
// produces one point per motion event, never joined into a line.
func (s *Session) HandleDrag(ev event.Event) error {
	return s.stamp(ev)
}

// Bind registers the three primary-button handlers on d
func (s *Session) Bind(d *event.Dispatcher) {
	d.Bind(event.ButtonPress, s.HandlePress)
	d.Bind(event.ButtonRelease, s.HandleRelease)
	d.Bind(event.Motion, s.HandleDrag)
}

// Close: teardown path, further draws fail with canvas.ErrClosed
func (s *Session) Close() {
	s.surface.Close()
	s.logger.Debug("drawing session closed", "shapes", s.surface.Len())
}

func (s *Session) stamp(ev event.Event) error {
	shape, err := s.surface.CreateRectangle(ev.X, ev.Y, ev.X, ev.Y)
	if err != nil {
		return err
	}

	s.logger.Debug("point stamped", "event", ev.Kind.String(), "x", ev.X, "y", ev.Y, "shape", shape.ID)
	if s.observer != nil {
		s.observer(ev, shape)
	}
	return nil
}

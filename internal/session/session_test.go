package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/canvas"
	"sketchpad/internal/event"
)

func newBoundSession(t *testing.T) (*Session, *event.Dispatcher) {
	t.Helper()

	s := New(canvas.NewSurface(canvas.Options{}), nil)
	d := event.NewDispatcher()
	s.Bind(d)
	return s, d
}

func press(x, y int) event.Event   { return event.Event{Kind: event.ButtonPress, X: x, Y: y} }
func drag(x, y int) event.Event    { return event.Event{Kind: event.Motion, X: x, Y: y} }
func release(x, y int) event.Event { return event.Event{Kind: event.ButtonRelease, X: x, Y: y} }

func TestPressStampsPointAtEventPosition(t *testing.T) {
	s, _ := newBoundSession(t)

	require.NoError(t, s.HandlePress(press(37, 210)))

	shapes := s.Surface().Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, 37, shapes[0].X1)
	assert.Equal(t, 210, shapes[0].Y1)
	assert.Equal(t, shapes[0].X1, shapes[0].X2)
	assert.Equal(t, shapes[0].Y1, shapes[0].Y2)
}

func TestDragAppendsOneShapePerEventInOrder(t *testing.T) {
	s, d := newBoundSession(t)
	path := [][2]int{{1, 1}, {2, 1}, {2, 1}, {3, 2}, {5, 8}}

	for _, p := range path {
		require.NoError(t, d.Dispatch(drag(p[0], p[1])))
	}

	shapes := s.Surface().Shapes()
	require.Len(t, shapes, len(path))
	for i, p := range path {
		assert.Equal(t, p[0], shapes[i].X1)
		assert.Equal(t, p[1], shapes[i].Y1)
	}
}

func TestReleaseNeverMutatesSurface(t *testing.T) {
	s, d := newBoundSession(t)
	require.NoError(t, d.Dispatch(press(4, 4)))

	before := s.Surface().Len()
	require.NoError(t, d.Dispatch(release(4, 4)))
	require.NoError(t, d.Dispatch(release(100, 100)))

	assert.Equal(t, before, s.Surface().Len())
}

func TestSameEventTwiceDrawsTwice(t *testing.T) {
	s, _ := newBoundSession(t)

	require.NoError(t, s.HandlePress(press(9, 9)))
	require.NoError(t, s.HandlePress(press(9, 9)))

	shapes := s.Surface().Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, shapes[0].X1, shapes[1].X1)
	assert.Equal(t, shapes[0].Y1, shapes[1].Y1)
	assert.NotEqual(t, shapes[0].ID, shapes[1].ID)
}

func TestPressDragReleaseScenario(t *testing.T) {
	s, d := newBoundSession(t)

	require.NoError(t, d.Dispatch(press(10, 10)))
	require.Equal(t, 1, s.Surface().Len())
	first := s.Surface().Shapes()[0]
	assert.Equal(t, 10, first.X1)
	assert.Equal(t, 10, first.Y1)

	require.NoError(t, d.Dispatch(drag(12, 12)))
	require.NoError(t, d.Dispatch(drag(15, 15)))
	assert.Equal(t, 3, s.Surface().Len())

	require.NoError(t, d.Dispatch(release(15, 15)))
	assert.Equal(t, 3, s.Surface().Len())
}

func TestObserverSeesEachShape(t *testing.T) {
	s, d := newBoundSession(t)
	var seen []canvas.Shape
	s.Observe(func(ev event.Event, shape canvas.Shape) {
		seen = append(seen, shape)
	})

	require.NoError(t, d.Dispatch(press(1, 2)))
	require.NoError(t, d.Dispatch(release(1, 2)))
	require.NoError(t, d.Dispatch(drag(3, 4)))

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].ID)
	assert.Equal(t, 2, seen[1].ID)
}

func TestClosedSessionRejectsEvents(t *testing.T) {
	s, d := newBoundSession(t)
	s.Close()

	assert.ErrorIs(t, d.Dispatch(press(1, 1)), canvas.ErrClosed)
	assert.NoError(t, d.Dispatch(release(1, 1)))
	assert.Equal(t, 0, s.Surface().Len())
}

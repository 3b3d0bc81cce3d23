package room

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"sketchpad/internal/canvas"
	"sketchpad/internal/event"
	"sketchpad/internal/session"
	"sketchpad/internal/user"
)

var (
	ErrRoomFull = errors.New("room is full")
	ErrCapacity = errors.New("server at maximum room capacity")
	ErrNoCode   = errors.New("room code missing")
)

// Room: one shared drawing surface and the users looking at it
type Room struct {
	Code           string
	Connections    map[string]*user.User
	UserColors     map[string]string // userID -> color (room-specific)
	LastActive     time.Time
	CreatedAt      time.Time
	session        *session.Session
	dispatcher     *event.Dispatcher
	colorGenerator *user.ColorGenerator
	pending        []canvas.Shape
	drawMu         sync.Mutex
	mu             sync.RWMutex
}

// New: builds a room with its own surface, session and bindings
func New(code string, opts canvas.Options, logger *slog.Logger) *Room {
	now := time.Now()
	r := &Room{
		Code:           code,
		Connections:    make(map[string]*user.User),
		UserColors:     make(map[string]string),
		LastActive:     now,
		CreatedAt:      now,
		session:        session.New(canvas.NewSurface(opts), logger.With("room", code)),
		dispatcher:     event.NewDispatcher(),
		colorGenerator: user.NewColorGenerator(),
	}

	r.session.Bind(r.dispatcher)
	r.session.Observe(func(_ event.Event, shape canvas.Shape) {
		r.pending = append(r.pending, shape)
	})
	return r
}

// Join: adds user to room and assigns a colour
func (r *Room) Join(u *user.User, maxRoomSize int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, already := r.Connections[u.ID]; !already && len(r.Connections) >= maxRoomSize {
		return ErrRoomFull
	}

	r.Connections[u.ID] = u
	if _, hasColor := r.UserColors[u.ID]; !hasColor {
		r.UserColors[u.ID] = r.colorGenerator.NextColor()
	}
	r.LastActive = time.Now()

	return nil
}

// Leave: remove user from room
func (r *Room) Leave(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.Connections[u.ID]; ok && current == u {
		delete(r.Connections, u.ID)
	}
	r.LastActive = time.Now()
}

// Pointer: dispatches ev through the room's bindings and returns the
// shapes it drew. Events are handled one at a time.
func (r *Room) Pointer(ev event.Event) ([]canvas.Shape, error) {
	r.drawMu.Lock()
	defer r.drawMu.Unlock()

	r.pending = nil
	err := r.dispatcher.Dispatch(ev)
	drawn := r.pending
	r.pending = nil

	r.mu.Lock()
	r.LastActive = time.Now()
	r.mu.Unlock()

	return drawn, err
}

// Surface returns the room's drawing surface
func (r *Room) Surface() *canvas.Surface {
	return r.session.Surface()
}

// ShapeCount: number of shapes on the surface
func (r *Room) ShapeCount() int {
	return r.session.Surface().Len()
}

// ConnectionCount: number of users in room
func (r *Room) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Connections)
}

// GetConnections: returns snapshot of current connections (for broadcasting)
func (r *Room) GetConnections() map[string]*user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]*user.User, len(r.Connections))
	for k, v := range r.Connections {
		snapshot[k] = v
	}
	return snapshot
}

// RemoveConnection: removes user connection from room (cleanup after failed broadcast)
func (r *Room) RemoveConnection(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Connections, userID)
}

// GetUserColor: returns the user's color in this room
func (r *Room) GetUserColor(userID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.UserColors[userID]
}

// Close: window teardown, the surface stops accepting shapes
func (r *Room) Close() {
	r.drawMu.Lock()
	defer r.drawMu.Unlock()

	r.session.Close()
}

// Closed reports whether the room has been torn down
func (r *Room) Closed() bool {
	return r.session.Surface().Closed()
}

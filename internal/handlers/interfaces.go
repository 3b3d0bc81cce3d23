package handlers

import (
	"time"

	"sketchpad/internal/canvas"
	"sketchpad/internal/event"
	"sketchpad/internal/room"
	"sketchpad/internal/user"
)

// Broadcaster defines the broadcast operation for sending messages to room users
type Broadcaster interface {
	Broadcast(rm room.RoomConnections, msg []byte, sender *user.User)
}

// SessionProvider defines the cursor bookkeeping handlers need
type SessionProvider interface {
	LastCursor(userID string) (time.Time, bool)
	UpdateLastCursor(userID string, t time.Time)
}

// DrawingRoom is the room surface handlers draw on
type DrawingRoom interface {
	room.RoomConnections

	Pointer(ev event.Event) ([]canvas.Shape, error)
	ShapeCount() int
	GetUserColor(userID string) string
}

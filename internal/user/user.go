package user

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// UserSession persists across reconnects
type UserSession struct {
	UserID           string
	SessionToken     string
	LastSeen         time.Time
	LastCursorUpdate time.Time
	RateLimiter      *rate.Limiter

	// a resumed session can join from several connections at once
	lastRoom string
	roomMu   sync.Mutex
}

// SetLastRoom records roomCode and returns the room recorded before it
func (s *UserSession) SetLastRoom(roomCode string) (previous string) {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()

	previous, s.lastRoom = s.lastRoom, roomCode
	return previous
}

// LastRoom returns the room the session joined most recently
func (s *UserSession) LastRoom() string {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()

	return s.lastRoom
}

// Conn is the part of a websocket connection a user writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// User represents a connected user
type User struct {
	ID         string
	Session    *UserSession
	Connection Conn
	writeMu    sync.Mutex
}

// WriteMessage: serialises writes, gorilla connections allow one writer at a time
func (u *User) WriteMessage(messageType int, data []byte) error {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	return u.Connection.WriteMessage(messageType, data)
}

// WriteText sends a text frame
func (u *User) WriteText(data []byte) error {
	return u.WriteMessage(websocket.TextMessage, data)
}

// GenerateUUID generates a random id for user identification
func GenerateUUID() string {
	return randomHex(16)
}

// GenerateSessionToken generates the token a client presents to resume its session
func GenerateSessionToken() string {
	return randomHex(32)
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

package room

import (
	"log/slog"
	"sync"
	"time"

	"sketchpad/internal/canvas"
	"sketchpad/internal/middleware"
	"sketchpad/internal/user"
)

// Manager manages all rooms in the application
type Manager struct {
	rooms        map[string]*Room
	surface      canvas.Options
	synchronizer *Synchronizer
	logger       *slog.Logger
	mu           sync.RWMutex
}

// NewManager: rooms it creates get surfaces built from opts
func NewManager(opts canvas.Options, synchronizer *Synchronizer, logger *slog.Logger) *Manager {
	return &Manager{
		rooms:        make(map[string]*Room),
		surface:      opts,
		synchronizer: synchronizer,
		logger:       logger,
	}
}

// CreateRoom: returns the room for roomCode, creating it under the room limit
func (rm *Manager) CreateRoom(roomCode string, maxRooms int) (*Room, error) {
	if roomCode == "" {
		return nil, ErrNoCode
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if existing, ok := rm.rooms[roomCode]; ok {
		return existing, nil
	}

	if len(rm.rooms) >= maxRooms {
		return nil, ErrCapacity
	}

	r := New(roomCode, rm.surface, rm.logger)
	rm.rooms[roomCode] = r
	rm.logger.Info("room created", "room", roomCode)
	return r, nil
}

// JoinRoom adds a user to a room, creating it if necessary, then syncs
// the surface to the user
func (rm *Manager) JoinRoom(roomCode string, session *user.UserSession, u *user.User, rl *middleware.RateLimit) (*Room, error) {
	r, err := rm.CreateRoom(roomCode, rl.MaxRooms)
	if err != nil {
		return nil, err
	}

	if err := r.Join(u, rl.MaxRoomSize); err != nil {
		return nil, err
	}

	if previous := session.SetLastRoom(roomCode); previous == roomCode {
		rm.logger.Info("user rejoined room", "user", u.ID, "room", roomCode)
	}

	if err := rm.synchronizer.SyncNewUser(r, u); err != nil {
		r.Leave(u)
		return nil, err
	}

	return r, nil
}

// GetRoom: checks if a room exists and returns it
func (rm *Manager) GetRoom(roomCode string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	r, exists := rm.rooms[roomCode]
	return r, exists
}

// RoomCount returns the total number of rooms
func (rm *Manager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	return len(rm.rooms)
}

// CloseRoom tears a room down and forgets it
func (rm *Manager) CloseRoom(roomCode string) bool {
	rm.mu.Lock()
	r, exists := rm.rooms[roomCode]
	delete(rm.rooms, roomCode)
	rm.mu.Unlock()

	if exists {
		r.Close()
	}
	return exists
}

// Cleanup removes expired rooms
func (rm *Manager) Cleanup() {
	rm.mu.Lock()
	now := time.Now()

	// Room removed if 1 hour empty or 24 hours old
	var expired []*Room
	for code, r := range rm.rooms {
		r.mu.RLock()
		empty := len(r.Connections) == 0
		inactive := now.Sub(r.LastActive) > 1*time.Hour
		old := now.Sub(r.CreatedAt) > 24*time.Hour
		r.mu.RUnlock()

		if (inactive && empty) || old {
			delete(rm.rooms, code)
			expired = append(expired, r)
		}
	}
	rm.mu.Unlock()

	for _, r := range expired {
		r.Close()
		rm.logger.Info("room expired", "room", r.Code, "shapes", r.ShapeCount())
	}
}

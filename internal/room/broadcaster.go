package room

import (
	"log/slog"
	"sync"

	"sketchpad/internal/user"
)

// RoomConnections: minimum interface for broadcasting
type RoomConnections interface {
	GetConnections() map[string]*user.User
	RemoveConnection(userID string)
}

// Broadcaster: handles broadcasting messages to room users
type Broadcaster struct {
	logger *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{logger: logger}
}

// Broadcast: sends msg to every user in the room except sender.
// A nil sender reaches everyone.
func (b *Broadcaster) Broadcast(rm RoomConnections, msg []byte, sender *user.User) {
	connections := rm.GetConnections()

	users := make([]*user.User, 0, len(connections))
	for _, u := range connections {
		if u != sender {
			users = append(users, u)
		}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failedUsers []*user.User

	for _, u := range users {
		wg.Add(1)
		go func(usr *user.User) {
			defer wg.Done()

			if err := usr.WriteText(msg); err != nil {
				b.logger.Warn("broadcast failed", "user", usr.ID, "err", err)
				mu.Lock()
				failedUsers = append(failedUsers, usr)
				mu.Unlock()
			}
		}(u)
	}

	wg.Wait()

	for _, u := range failedUsers {
		rm.RemoveConnection(u.ID)
		u.Connection.Close()
	}
}

package room

import (
	"encoding/json"
	"fmt"

	"sketchpad/internal/canvas"
	"sketchpad/internal/user"
)

// SyncMessage carries the whole surface to a newly joined user
type SyncMessage struct {
	Type       string         `json:"type"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Background string         `json:"background"`
	Shapes     []canvas.Shape `json:"shapes"`
}

// Synchronizer: handles synchronizing room state to new users
type Synchronizer struct{}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// SyncNewUser sends every shape on the room's surface to u
func (s *Synchronizer) SyncNewUser(rm *Room, u *user.User) error {
	surface := rm.Surface()
	msg := SyncMessage{
		Type:       "sync",
		Width:      surface.Width(),
		Height:     surface.Height(),
		Background: surface.Background(),
		Shapes:     surface.Shapes(),
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync message: %w", err)
	}

	if err := u.WriteText(msgBytes); err != nil {
		return fmt.Errorf("failed to send sync message: %w", err)
	}

	return nil
}

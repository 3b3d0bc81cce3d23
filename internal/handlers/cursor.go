package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"sketchpad/internal/message"
	"sketchpad/internal/user"
)

const cursorInterval = 33 * time.Millisecond // ~30fps

// CursorMoved is relayed to the other users of the room
type CursorMoved struct {
	Type   string  `json:"type"`
	UserID string  `json:"userId"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// CursorHandler handles cursor position update messages
type CursorHandler struct {
	validator   *message.Validator
	sessionMgr  SessionProvider
	broadcaster Broadcaster
	now         func() time.Time
}

func NewCursorHandler(validator *message.Validator, sessionMgr SessionProvider, broadcaster Broadcaster) *CursorHandler {
	return &CursorHandler{
		validator:   validator,
		sessionMgr:  sessionMgr,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// Handle processes cursor messages with server-side throttling
func (h *CursorHandler) Handle(rm DrawingRoom, u *user.User, raw []byte) error {
	var msg message.Cursor
	if err := h.validator.Decode(raw, &msg); err != nil {
		return err
	}

	now := h.now()
	last, exists := h.sessionMgr.LastCursor(u.ID)
	if !exists {
		return fmt.Errorf("session not found")
	}

	if !last.IsZero() && now.Sub(last) < cursorInterval {
		return nil // throttled
	}
	h.sessionMgr.UpdateLastCursor(u.ID, now)

	out, err := json.Marshal(CursorMoved{
		Type:   "cursor",
		UserID: h.validator.SanitizeString(u.ID),
		Color:  rm.GetUserColor(u.ID),
		X:      msg.X,
		Y:      msg.Y,
	})
	if err != nil {
		return fmt.Errorf("marshal cursor message: %w", err)
	}

	h.broadcaster.Broadcast(rm, out, u)
	return nil
}

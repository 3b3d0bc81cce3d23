package handlers

import (
	"encoding/json"
	"fmt"

	"sketchpad/internal/canvas"
	"sketchpad/internal/event"
	"sketchpad/internal/message"
	"sketchpad/internal/middleware"
	"sketchpad/internal/user"
)

// ShapeAdded is broadcast to the whole room for every stamped shape
type ShapeAdded struct {
	Type   string       `json:"type"`
	Event  string       `json:"event"`
	UserID string       `json:"userId"`
	Color  string       `json:"color"`
	Shape  canvas.Shape `json:"shape"`
}

// PointerHandler: turns pointer messages into dispatched events
type PointerHandler struct {
	validator   *message.Validator
	config      *middleware.RateLimit
	broadcaster Broadcaster
}

func NewPointerHandler(validator *message.Validator, config *middleware.RateLimit, broadcaster Broadcaster) *PointerHandler {
	return &PointerHandler{
		validator:   validator,
		config:      config,
		broadcaster: broadcaster,
	}
}

// Handle: validates, dispatches on the room, broadcasts new shapes
func (h *PointerHandler) Handle(rm DrawingRoom, u *user.User, raw []byte) error {
	var msg message.Pointer
	if err := h.validator.Decode(raw, &msg); err != nil {
		return err
	}

	kind, err := event.ParseKind(msg.Event)
	if err != nil {
		return err
	}

	if kind != event.ButtonRelease && !h.config.CanAddShape(rm) {
		return fmt.Errorf("room at maximum shape capacity")
	}

	drawn, err := rm.Pointer(event.Event{Kind: kind, X: *msg.X, Y: *msg.Y})
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", kind, err)
	}

	userID := h.validator.SanitizeString(u.ID)
	color := rm.GetUserColor(u.ID)
	for _, shape := range drawn {
		out, err := json.Marshal(ShapeAdded{
			Type:   "shapeAdded",
			Event:  kind.String(),
			UserID: userID,
			Color:  color,
			Shape:  shape,
		})
		if err != nil {
			return fmt.Errorf("marshal broadcast message: %w", err)
		}
		// sender included so it learns the shape id
		h.broadcaster.Broadcast(rm, out, nil)
	}

	return nil
}

package handlers

import (
	"encoding/json"
	"fmt"

	"sketchpad/internal/message"
	"sketchpad/internal/middleware"
	"sketchpad/internal/user"
)

// MessageRouter routes incoming messages to appropriate handlers
type MessageRouter struct {
	pointerHandler *PointerHandler
	cursorHandler  *CursorHandler
	userHandler    *UserHandler
}

func NewMessageRouter(
	validator *message.Validator,
	config *middleware.RateLimit,
	sessionMgr SessionProvider,
	broadcaster Broadcaster,
) *MessageRouter {
	return &MessageRouter{
		pointerHandler: NewPointerHandler(validator, config, broadcaster),
		cursorHandler:  NewCursorHandler(validator, sessionMgr, broadcaster),
		userHandler:    NewUserHandler(),
	}
}

// Route: process a message via appropriate handler
func (mr *MessageRouter) Route(rm DrawingRoom, u *user.User, msg []byte) error {
	var envelope message.Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		return fmt.Errorf("unmarshal base message: %w", err)
	}

	switch envelope.Type {
	case "":
		return fmt.Errorf("missing message type")
	case "getUserId":
		return mr.userHandler.HandleGetUserID(u)
	case "pointer":
		return mr.pointerHandler.Handle(rm, u, msg)
	case "cursor":
		return mr.cursorHandler.Handle(rm, u, msg)
	default:
		return fmt.Errorf("unknown message type: %s", envelope.Type)
	}
}

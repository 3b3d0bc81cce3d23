package transport

import (
	"fmt"
	"log/slog"
	"time"

	"sketchpad/internal/message"
	"sketchpad/internal/user"
)

// MessageReader is the read side of a websocket connection
type MessageReader interface {
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
}

// Authenticator: handles WebSocket authentication
type Authenticator struct {
	sessionMgr *user.SessionManager
	validator  *message.Validator
	logger     *slog.Logger
}

func NewAuthenticator(sessionMgr *user.SessionManager, validator *message.Validator, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		sessionMgr: sessionMgr,
		validator:  validator,
		logger:     logger,
	}
}

// AuthResult contains the results of authentication
type AuthResult struct {
	UserID    string
	Session   *user.UserSession
	IsNewUser bool
}

// Authenticate: reads the authenticate frame from a new connection.
// A known token resumes its session, anything else starts a new user.
func (a *Authenticator) Authenticate(conn MessageReader, timeout time.Duration) (*AuthResult, error) {
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to receive auth message: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	var msg message.Authenticate
	if err := a.validator.Decode(raw, &msg); err != nil {
		return nil, fmt.Errorf("invalid auth message: %w", err)
	}

	if msg.Token != "" {
		if session, ok := a.sessionMgr.GetSessionByToken(msg.Token); ok {
			a.sessionMgr.GetOrCreate(session.UserID) // refresh last seen
			a.logger.Info("returning user authenticated", "user", session.UserID)
			return &AuthResult{
				UserID:  session.UserID,
				Session: session,
			}, nil
		}
		a.logger.Info("invalid or expired token, treating as new user")
	}

	userID := user.GenerateUUID()
	a.logger.Info("new user created", "user", userID)
	return &AuthResult{
		UserID:    userID,
		Session:   a.sessionMgr.GetOrCreate(userID),
		IsNewUser: true,
	}, nil
}

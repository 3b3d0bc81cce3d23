package user

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SessionManager tracks sessions by user id and by token
type SessionManager struct {
	sessions      map[string]*UserSession // userID -> session
	tokenToUserID map[string]string       // token -> userID
	limit         rate.Limit
	burst         int
	ttl           time.Duration
	mu            sync.RWMutex
}

// NewSessionManager: messagesPerSecond and burst size each new session's limiter
func NewSessionManager(messagesPerSecond float64, burst int) *SessionManager {
	return &SessionManager{
		sessions:      make(map[string]*UserSession),
		tokenToUserID: make(map[string]string),
		limit:         rate.Limit(messagesPerSecond),
		burst:         burst,
		ttl:           1 * time.Hour,
	}
}

// GetOrCreate: gets an existing session or creates a new one
func (sm *SessionManager) GetOrCreate(userID string) *UserSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[userID]
	if exists {
		session.LastSeen = time.Now()
		return session
	}

	token := GenerateSessionToken()
	session = &UserSession{
		UserID:       userID,
		SessionToken: token,
		LastSeen:     time.Now(),
		RateLimiter:  rate.NewLimiter(sm.limit, sm.burst),
	}
	sm.sessions[userID] = session
	sm.tokenToUserID[token] = userID
	return session
}

// ValidateToken: returns the userID bound to token
func (sm *SessionManager) ValidateToken(token string) (string, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userID, exists := sm.tokenToUserID[token]
	if !exists {
		return "", false
	}

	session, sessionExists := sm.sessions[userID]
	if !sessionExists {
		return "", false
	}

	session.LastSeen = time.Now()
	return userID, true
}

// GetSessionByToken: retrieve session by token
func (sm *SessionManager) GetSessionByToken(token string) (*UserSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userID, exists := sm.tokenToUserID[token]
	if !exists {
		return nil, false
	}

	session, sessionExists := sm.sessions[userID]
	return session, sessionExists
}

// UpdateTokenMapping: rebinds a session to token, dropping its old token
func (sm *SessionManager) UpdateTokenMapping(token string, userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[userID]; exists {
		delete(sm.tokenToUserID, session.SessionToken)
		session.SessionToken = token
	}
	sm.tokenToUserID[token] = userID
}

// LastCursor: gets the last cursor update time for a user session
func (sm *SessionManager) LastCursor(userID string) (time.Time, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[userID]; exists {
		return session.LastCursorUpdate, true
	}
	return time.Time{}, false
}

// UpdateLastCursor: updates the last cursor update time for a user session
func (sm *SessionManager) UpdateLastCursor(userID string, t time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[userID]; exists {
		session.LastCursorUpdate = t
	}
}

// Remove: drops a session and its token
func (sm *SessionManager) Remove(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[userID]; exists {
		delete(sm.tokenToUserID, session.SessionToken)
	}
	delete(sm.sessions, userID)
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// Cleanup: removes sessions not seen within the ttl
func (sm *SessionManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for userID, session := range sm.sessions {
		if now.Sub(session.LastSeen) > sm.ttl {
			delete(sm.tokenToUserID, session.SessionToken)
			delete(sm.sessions, userID)
		}
	}
}

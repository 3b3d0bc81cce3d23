package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sketchpad/internal/handlers"
	"sketchpad/internal/middleware"
	"sketchpad/internal/room"
	"sketchpad/internal/user"

	"github.com/gorilla/websocket"
)

const (
	authTimeout = 5 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10 // pings at 90% of pong deadline
	writeWait   = 10 * time.Second
)

// Server wires the HTTP and WebSocket endpoints to the room state
type Server struct {
	Config        *middleware.RateLimit
	IPRateLimiter *middleware.IPRateLimit
	Sessions      *user.SessionManager
	Rooms         *room.Manager
	Router        *handlers.MessageRouter
	Authenticator *Authenticator
	Logger        *slog.Logger

	upgrader websocket.Upgrader
}

// NewServer: allowedOrigins empty or containing "*" accepts any origin
func NewServer(
	config *middleware.RateLimit,
	ipRateLimiter *middleware.IPRateLimit,
	sessions *user.SessionManager,
	rooms *room.Manager,
	router *handlers.MessageRouter,
	authenticator *Authenticator,
	allowedOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		Config:        config,
		IPRateLimiter: ipRateLimiter,
		Sessions:      sessions,
		Rooms:         rooms,
		Router:        router,
		Authenticator: authenticator,
		Logger:        logger,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}

		for _, a := range allowed {
			a = strings.TrimSpace(a)
			if a == "*" || origin == a {
				return true
			}
		}
		return false
	}
}

// Routes registers /ws and /canvas.png
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/canvas.png", s.HandleCanvasPNG)
	return mux
}

// HandleCanvasPNG renders a room's surface
func (s *Server) HandleCanvasPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rm, ok := s.Rooms.GetRoom(r.URL.Query().Get("room"))
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := rm.Surface().EncodePNG(w); err != nil {
		s.Logger.Error("render canvas", "room", rm.Code, "err", err)
	}
}

// HandleWebSocket: upgrades HTTP to WebSocket, authenticates and joins the room
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := middleware.ClientIP(r)
	if !s.IPRateLimiter.Allow(clientIP) {
		s.Logger.Warn("rate limit exceeded", "ip", clientIP)
		http.Error(w, "Too many connections", http.StatusTooManyRequests)
		return
	}

	roomCode := r.URL.Query().Get("room")
	if roomCode == "" {
		http.Error(w, "room code missing", http.StatusBadRequest)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("failed to upgrade connection", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(int64(s.Config.MaxMessageSize) * 2)

	auth, err := s.Authenticator.Authenticate(conn, authTimeout)
	if err != nil {
		s.Logger.Warn("authentication failed", "err", err)
		return
	}

	u := &user.User{
		ID:         auth.UserID,
		Session:    auth.Session,
		Connection: conn,
	}
	logger := s.Logger.With("user", u.ID, "room", roomCode)

	if err := s.send(u, map[string]interface{}{
		"type":   "authenticated",
		"userId": u.ID,
		"token":  auth.Session.SessionToken, // client keeps this to resume
	}); err != nil {
		logger.Warn("failed to send auth response", "err", err)
		return
	}

	rm, err := s.Rooms.JoinRoom(roomCode, auth.Session, u, s.Config)
	if err != nil {
		logger.Warn("failed to join room", "err", err)
		s.send(u, map[string]interface{}{"type": "error", "message": err.Error()})
		return
	}
	defer rm.Leave(u)

	surface := rm.Surface()
	if err := s.send(u, map[string]interface{}{
		"type":       "room_joined",
		"room":       roomCode,
		"color":      rm.GetUserColor(u.ID),
		"width":      surface.Width(),
		"height":     surface.Height(),
		"background": surface.Background(),
	}); err != nil {
		logger.Warn("failed to send room joined response", "err", err)
		return
	}

	logger.Info("user joined room")
	s.run(conn, rm, u, logger)
	logger.Info("user left room")
}

func (s *Server) send(u *user.User, payload map[string]interface{}) error {
	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return u.WriteText(msg)
}

// run: read loop with ping/pong keepalive
func (s *Server) run(conn *websocket.Conn, rm *room.Room, u *user.User, logger *slog.Logger) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed", "err", err)
			}
			return
		}

		if !s.Config.ValidateMessageSize(len(msg)) {
			logger.Warn("message too large", "bytes", len(msg))
			continue
		}

		if !u.Session.RateLimiter.Allow() {
			logger.Warn("message rate limit exceeded")
			continue
		}

		if err := s.Router.Route(rm, u, msg); err != nil {
			logger.Warn("error handling message", "err", err)
			continue
		}
	}
}

package transport

import (
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/canvas"
	"sketchpad/internal/handlers"
	"sketchpad/internal/message"
	"sketchpad/internal/middleware"
	"sketchpad/internal/room"
	"sketchpad/internal/user"
)

func newTestServer(t *testing.T, origins []string) (*Server, *httptest.Server) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	config := &middleware.RateLimit{
		MaxRoomSize:       4,
		MaxShapes:         1000,
		MaxMessageSize:    1024,
		MaxRooms:          4,
		MessagesPerSecond: 1000,
		BurstSize:         1000,
	}
	validator := message.NewValidator()
	sessions := user.NewSessionManager(config.MessagesPerSecond, config.BurstSize)
	broadcaster := room.NewBroadcaster(logger)

	s := NewServer(
		config,
		middleware.NewIPRateLimit(time.Millisecond, 100),
		sessions,
		room.NewManager(canvas.Options{}, room.NewSynchronizer(), logger),
		handlers.NewMessageRouter(validator, config, sessions, broadcaster),
		NewAuthenticator(sessions, validator, logger),
		origins,
		logger,
	)

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, roomCode string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=" + roomCode
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// join authenticates and drains the handshake frames
func join(t *testing.T, ts *httptest.Server, roomCode, token string) (*websocket.Conn, map[string]interface{}, map[string]interface{}) {
	t.Helper()

	conn := dial(t, ts, roomCode)
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "authenticate", "token": token}))

	auth := readJSON(t, conn)
	require.Equal(t, "authenticated", auth["type"])
	sync := readJSON(t, conn)
	require.Equal(t, "sync", sync["type"])
	joined := readJSON(t, conn)
	require.Equal(t, "room_joined", joined["type"])
	return conn, auth, sync
}

func pointer(t *testing.T, conn *websocket.Conn, ev string, x, y int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "pointer", "event": ev, "x": x, "y": y}))
}

func TestDrawingSessionOverWebSocket(t *testing.T) {
	s, ts := newTestServer(t, nil)
	artist, _, _ := join(t, ts, "demo", "")
	watcher, _, _ := join(t, ts, "demo", "")

	pointer(t, artist, "press", 10, 10)
	pointer(t, artist, "drag", 12, 12)
	pointer(t, artist, "drag", 15, 15)
	pointer(t, artist, "release", 15, 15)

	want := [][2]float64{{10, 10}, {12, 12}, {15, 15}}
	for _, p := range want {
		msg := readJSON(t, watcher)
		require.Equal(t, "shapeAdded", msg["type"])
		shape := msg["shape"].(map[string]interface{})
		assert.Equal(t, p[0], shape["x1"])
		assert.Equal(t, p[1], shape["y1"])
	}

	// the artist sees its own shapes too
	for range want {
		assert.Equal(t, "shapeAdded", readJSON(t, artist)["type"])
	}

	rm, ok := s.Rooms.GetRoom("demo")
	require.True(t, ok)
	assert.Eventually(t, func() bool { return rm.ShapeCount() == 3 }, time.Second, 10*time.Millisecond)
}

func TestLateJoinerReceivesSync(t *testing.T) {
	_, ts := newTestServer(t, nil)
	artist, _, _ := join(t, ts, "demo", "")

	pointer(t, artist, "press", 3, 4)
	readJSON(t, artist)

	_, _, sync := join(t, ts, "demo", "")
	shapes := sync["shapes"].([]interface{})
	require.Len(t, shapes, 1)
	assert.Equal(t, float64(400), sync["width"])
}

func TestTokenResumesUser(t *testing.T) {
	_, ts := newTestServer(t, nil)
	first, auth, _ := join(t, ts, "demo", "")
	first.Close()

	_, again, _ := join(t, ts, "demo", auth["token"].(string))
	assert.Equal(t, auth["userId"], again["userId"])
}

func TestMissingRoomCode(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOriginCheck(t *testing.T) {
	_, ts := newTestServer(t, []string{"https://draw.example"})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=demo"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://draw.example")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestCanvasPNG(t *testing.T) {
	_, ts := newTestServer(t, nil)
	artist, _, _ := join(t, ts, "demo", "")
	pointer(t, artist, "press", 1, 1)
	readJSON(t, artist)

	resp, err := http.Get(ts.URL + "/canvas.png?room=demo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())

	missing, err := http.Get(ts.URL + "/canvas.png?room=nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{" https://a.example ", "https://b.example"})
	r := httptest.NewRequest("GET", "/ws", nil)

	assert.True(t, check(r), "no origin header")
	r.Header.Set("Origin", "https://a.example")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://c.example")
	assert.False(t, check(r))

	assert.True(t, originChecker([]string{"*"})(r))
}

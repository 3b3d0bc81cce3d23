// Package viewer shows a single image and reports where it was clicked.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"sketchpad/internal/event"
	"sketchpad/internal/imaging"
	"sketchpad/internal/message"
)

const (
	Width  = 1000
	Height = 800

	queueSize = 64
)

// Viewer holds the resized image and the clicks reported on it
type Viewer struct {
	image      *image.RGBA
	out        io.Writer
	dispatcher *event.Dispatcher
	events     chan event.Event
	validator  *message.Validator
	logger     *slog.Logger
	clicks     []image.Point
	outMu      sync.Mutex
}

// New: resizes img to the viewer size, click reports are written to out
func New(img image.Image, out io.Writer, logger *slog.Logger) *Viewer {
	v := &Viewer{
		image:      imaging.Fit(img, Width, Height),
		out:        out,
		dispatcher: event.NewDispatcher(),
		events:     make(chan event.Event, queueSize),
		validator:  message.NewValidator(),
		logger:     logger,
	}
	v.Bind(v.dispatcher)
	return v
}

// Bind registers the press handler on d
func (v *Viewer) Bind(d *event.Dispatcher) {
	d.Bind(event.ButtonPress, v.HandlePress)
}

// Run feeds queued clicks through the dispatcher until ctx is cancelled
func (v *Viewer) Run(ctx context.Context) error {
	return v.dispatcher.Run(ctx, v.events, func(ev event.Event, err error) {
		v.logger.Error("report click", "x", ev.X, "y", ev.Y, "err", err)
	})
}

// HandlePress reports the click position
func (v *Viewer) HandlePress(ev event.Event) error {
	v.outMu.Lock()
	defer v.outMu.Unlock()

	v.clicks = append(v.clicks, image.Pt(ev.X, ev.Y))
	_, err := fmt.Fprintln(v.out, "clicked at: ", ev.X, ev.Y)
	return err
}

// Clicks returns every reported click in order
func (v *Viewer) Clicks() []image.Point {
	v.outMu.Lock()
	defer v.outMu.Unlock()

	out := make([]image.Point, len(v.clicks))
	copy(out, v.clicks)
	return out
}

// Image returns the resized image
func (v *Viewer) Image() *image.RGBA {
	return v.image
}

// Routes: GET /image.png and POST /click
func (v *Viewer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", v.handleImage)
	mux.HandleFunc("/click", v.handleClick)
	return mux
}

func (v *Viewer) handleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, v.image); err != nil {
		v.logger.Error("encode image", "err", err)
	}
}

func (v *Viewer) handleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1024))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	var click message.Click
	if err := v.validator.Decode(body, &click); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if *click.X >= Width || *click.Y >= Height {
		http.Error(w, fmt.Sprintf("click outside %dx%d image", Width, Height), http.StatusBadRequest)
		return
	}

	ev := event.Event{Kind: event.ButtonPress, X: *click.X, Y: *click.Y}
	select {
	case v.events <- ev:
	default:
		http.Error(w, "too many pending clicks", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]int{"x": ev.X, "y": ev.Y})
}

package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"press":             ButtonPress,
		"<Button-1>":        ButtonPress,
		"release":           ButtonRelease,
		"<ButtonRelease-1>": ButtonRelease,
		"drag":              Motion,
		"<B1-Motion>":       Motion,
	}

	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("<Button-3>")
	assert.Error(t, err)
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "<B1-Motion>", Motion.Sequence())
	assert.Equal(t, "drag", Motion.String())
	assert.Equal(t, "release", ButtonRelease.String())
}

func TestDispatchUsesBinding(t *testing.T) {
	d := NewDispatcher()
	var got []Event
	d.Bind(ButtonPress, func(ev Event) error {
		got = append(got, ev)
		return nil
	})

	require.NoError(t, d.Dispatch(Event{Kind: ButtonPress, X: 3, Y: 4}))
	assert.Equal(t, []Event{{Kind: ButtonPress, X: 3, Y: 4}}, got)
}

func TestDispatchUnbound(t *testing.T) {
	d := NewDispatcher()

	err := d.Dispatch(Event{Kind: Motion})
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestBindReplaces(t *testing.T) {
	d := NewDispatcher()
	calls := ""
	d.Bind(ButtonPress, func(Event) error { calls += "a"; return nil })
	d.Bind(ButtonPress, func(Event) error { calls += "b"; return nil })

	require.NoError(t, d.Dispatch(Event{Kind: ButtonPress}))
	assert.Equal(t, "b", calls)
}

func TestDispatchReturnsHandlerError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	d.Bind(ButtonRelease, func(Event) error { return boom })

	assert.ErrorIs(t, d.Dispatch(Event{Kind: ButtonRelease}), boom)
}

func TestRunDispatchesInOrder(t *testing.T) {
	d := NewDispatcher()
	var seen []int
	d.Bind(Motion, func(ev Event) error {
		seen = append(seen, ev.X)
		return nil
	})

	events := make(chan Event, 3)
	events <- Event{Kind: Motion, X: 1}
	events <- Event{Kind: ButtonPress, X: 2}
	events <- Event{Kind: Motion, X: 3}
	close(events)

	var failed []Event
	err := d.Run(context.Background(), events, func(ev Event, err error) {
		failed = append(failed, ev)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, seen)
	assert.Equal(t, []Event{{Kind: ButtonPress, X: 2}}, failed)
}

func TestRunStopsOnCancel(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, make(chan Event), nil)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("event loop did not stop")
	}
}

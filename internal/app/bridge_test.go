package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.aimuz.me/voicelab/hotkey"
)

// recordingSink collects event names in arrival order.
type recordingSink struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (r *recordingSink) Emit(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	return r.err
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func runBridge(t *testing.T, b *Bridge, edges <-chan hotkey.Edge) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, edges)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitEvents(t *testing.T, r *recordingSink, n int) []string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %v", n, r.snapshot())
	return nil
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBridgeForwardsEdges(t *testing.T) {
	b := NewBridge()
	a, c := &recordingSink{}, &recordingSink{}
	b.Subscribe(a)
	b.Subscribe(c)

	edges := make(chan hotkey.Edge, 4)
	runBridge(t, b, edges)

	edges <- hotkey.Pressed
	edges <- hotkey.Released

	want := []string{EventPTTStart, EventPTTStop}
	assertEvents(t, waitEvents(t, a, 2), want)
	assertEvents(t, waitEvents(t, c, 2), want)

	if b.Gestures() != 1 {
		t.Errorf("Gestures() = %d, want 1", b.Gestures())
	}
	if b.Held() {
		t.Error("Held() = true after release")
	}
}

func TestBridgeUnsubscribe(t *testing.T) {
	b := NewBridge()
	kept, gone := &recordingSink{}, &recordingSink{}
	b.Subscribe(kept)
	unsubscribe := b.Subscribe(gone)
	unsubscribe()
	unsubscribe()

	b.dispatch(hotkey.Pressed)

	assertEvents(t, kept.snapshot(), []string{EventPTTStart})
	if got := gone.snapshot(); len(got) != 0 {
		t.Errorf("unsubscribed sink got %v", got)
	}
}

func TestBridgeIgnoresDeliveryFailures(t *testing.T) {
	b := NewBridge()
	failing := &recordingSink{err: errors.New("channel closed")}
	b.Subscribe(failing)
	b.Subscribe(SinkFunc(func(string) error { panic("listener gone") }))
	ok := &recordingSink{}
	b.Subscribe(ok)

	b.dispatch(hotkey.Pressed)
	b.dispatch(hotkey.Released)

	assertEvents(t, ok.snapshot(), []string{EventPTTStart, EventPTTStop})
	assertEvents(t, failing.snapshot(), []string{EventPTTStart, EventPTTStop})
}

func TestBridgeNoListeners(t *testing.T) {
	b := NewBridge()
	b.dispatch(hotkey.Pressed)
	b.dispatch(hotkey.Released)
	if b.Gestures() != 1 {
		t.Errorf("Gestures() = %d, want 1", b.Gestures())
	}
}

func TestBridgeRunStopsOnClose(t *testing.T) {
	edges := make(chan hotkey.Edge)
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewBridge().Run(context.Background(), edges)
	}()
	close(edges)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the edge channel closed")
	}
}

func TestBridgeGestureIDs(t *testing.T) {
	b := NewBridge()
	if got := b.Gesture(); got != "" {
		t.Fatalf("Gesture() = %q before any press, want empty", got)
	}

	b.dispatch(hotkey.Pressed)
	first := b.Gesture()
	if first == "" {
		t.Fatal("Gesture() empty while held")
	}
	b.dispatch(hotkey.Pressed) // auto-repeat stays in the same gesture
	if got := b.Gesture(); got != first {
		t.Errorf("Gesture() = %q after repeat, want %q", got, first)
	}
	b.dispatch(hotkey.Released)
	if got := b.Gesture(); got != first {
		t.Errorf("Gesture() = %q after release, want last id %q", got, first)
	}

	b.dispatch(hotkey.Pressed)
	if got := b.Gesture(); got == first || got == "" {
		t.Errorf("Gesture() = %q for a new press, want a fresh id", got)
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.aimuz.me/voicelab/hotkey"
)

// Sink is a UI-layer listener for push-to-talk notifications.
type Sink interface {
	Emit(name string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string) error

func (f SinkFunc) Emit(name string) error { return f(name) }

// Bridge forwards hotkey edges to every subscribed sink as ptt-start and
// ptt-stop notifications. Delivery failures are dropped: the key event
// already happened and cannot be replayed.
type Bridge struct {
	mu    sync.RWMutex
	sinks map[int]Sink
	next  int

	state    sync.Mutex
	held     bool
	gestures int
	gesture  string
}

// NewBridge creates a bridge with no subscribers.
func NewBridge() *Bridge {
	return &Bridge{sinks: make(map[int]Sink)}
}

// Subscribe adds s to the broadcast list. The returned func removes it.
func (b *Bridge) Subscribe(s Sink) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.sinks[id] = s
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.sinks, id)
			b.mu.Unlock()
		})
	}
}

// Run consumes edges until the channel closes or ctx is done.
// Should be called in a goroutine.
func (b *Bridge) Run(ctx context.Context, edges <-chan hotkey.Edge) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-edges:
			if !ok {
				return
			}
			b.dispatch(e)
		}
	}
}

func (b *Bridge) dispatch(e hotkey.Edge) {
	var name string

	b.state.Lock()
	switch e {
	case hotkey.Pressed:
		name = EventPTTStart
		if !b.held {
			b.gesture = uuid.NewString()
		}
		b.held = true
	case hotkey.Released:
		name = EventPTTStop
		b.held = false
		b.gestures++
	default:
		b.state.Unlock()
		return
	}
	gesture := b.gesture
	b.state.Unlock()

	slog.Debug("push-to-talk edge", "event", name, "gesture", gesture)
	b.broadcast(name)
}

func (b *Bridge) broadcast(name string) {
	b.mu.RLock()
	sinks := make([]Sink, 0, len(b.sinks))
	for _, s := range b.sinks {
		sinks = append(sinks, s)
	}
	b.mu.RUnlock()

	if len(sinks) == 0 {
		slog.Debug("no listeners for event", "event", name)
		return
	}
	for _, s := range sinks {
		if err := emitSafe(s, name); err != nil {
			slog.Debug("emit event", "event", name, "error", err)
		}
	}
}

func emitSafe(s Sink, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return s.Emit(name)
}

// Held reports whether a gesture is in progress.
func (b *Bridge) Held() bool {
	b.state.Lock()
	defer b.state.Unlock()
	return b.held
}

// Gestures returns the number of completed press/release cycles.
func (b *Bridge) Gestures() int {
	b.state.Lock()
	defer b.state.Unlock()
	return b.gestures
}

// Gesture returns the id of the gesture in progress, or of the last one once
// released. It is empty before the first press.
func (b *Bridge) Gesture() string {
	b.state.Lock()
	defer b.state.Unlock()
	return b.gesture
}

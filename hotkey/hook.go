package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// ErrNotRunning is returned when stopping a source that was never started.
var ErrNotRunning = errors.New("hotkey source not running")

// HookSource watches a binding through a low-level keyboard hook.
// gohook runs one global hook per process, so only one HookSource may run at a time.
type HookSource struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	// overridable in tests
	start func() chan hook.Event
	end   func()
}

// NewHookSource creates a source backed by gohook.
func NewHookSource() *HookSource {
	return &HookSource{
		start: func() chan hook.Event { return hook.Start() },
		end:   hook.End,
	}
}

// Start resolves the binding to key codes and begins consuming hook events.
func (s *HookSource) Start(b Binding, deliver func(Edge)) error {
	mods, key, err := hookCodes(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return fmt.Errorf("keyboard hook: %w", ErrAlreadyRegistered)
	}

	events := s.start()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(events, newComboTracker(mods, key), deliver, s.stop, s.done)
	return nil
}

func (s *HookSource) loop(events <-chan hook.Event, t *comboTracker, deliver func(Edge), stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var (
				edge  Edge
				fired bool
			)
			switch ev.Kind {
			case hook.KeyHold:
				edge, fired = t.keyDown(ev.Keycode)
			case hook.KeyUp:
				edge, fired = t.keyUp(ev.Keycode)
			}
			if fired {
				deliver(edge)
			}
		}
	}
}

// Stop ends the hook and waits for the event loop to exit.
func (s *HookSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return ErrNotRunning
	}
	close(s.stop)
	s.end()
	<-s.done
	s.stop, s.done = nil, nil
	return nil
}

// hookCodes maps binding names onto gohook raw key codes. Each modifier also
// matches its right-hand variant when the key table has one.
func hookCodes(b Binding) ([][]uint16, uint16, error) {
	key, ok := hook.Keycode[strings.ToLower(b.Key)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedKey, b.Key)
	}

	mods := make([][]uint16, 0, len(b.Modifiers))
	for _, m := range b.Modifiers {
		name := strings.ToLower(m)
		code, ok := hook.Keycode[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %q", ErrUnsupportedKey, m)
		}
		codes := []uint16{code}
		if right, ok := hook.Keycode["r"+name]; ok && right != code {
			codes = append(codes, right)
		}
		mods = append(mods, codes)
	}

	slog.Debug("resolved hook key codes", "binding", b.String(), "key", key, "modifiers", mods)
	return mods, key, nil
}

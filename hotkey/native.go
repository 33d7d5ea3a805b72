package hotkey

import (
	"fmt"
	"strings"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// Only modifiers and keys present on every platform golang.design/x/hotkey supports.
var (
	nativeModifiers = map[string]xhotkey.Modifier{
		"ctrl":  xhotkey.ModCtrl,
		"shift": xhotkey.ModShift,
	}
	nativeKeys = map[string]xhotkey.Key{
		"space":  xhotkey.KeySpace,
		"tab":    xhotkey.KeyTab,
		"return": xhotkey.KeyReturn,
		"escape": xhotkey.KeyEscape,
	}
)

// NativeSource registers a binding as an OS-level shortcut. The OS rejects
// combinations already claimed by another process.
type NativeSource struct {
	mu   sync.Mutex
	hk   *xhotkey.Hotkey
	stop chan struct{}
	done chan struct{}
}

// NewNativeSource creates a source backed by golang.design/x/hotkey.
func NewNativeSource() *NativeSource {
	return &NativeSource{}
}

func nativeCombo(b Binding) ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := nativeKeys[strings.ToLower(b.Key)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedKey, b.Key)
	}
	mods := make([]xhotkey.Modifier, 0, len(b.Modifiers))
	for _, m := range b.Modifiers {
		mod, ok := nativeModifiers[strings.ToLower(m)]
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %q", ErrUnsupportedKey, m)
		}
		mods = append(mods, mod)
	}
	return mods, key, nil
}

// Start registers the shortcut with the OS.
func (s *NativeSource) Start(b Binding, deliver func(Edge)) error {
	mods, key, err := nativeCombo(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hk != nil {
		return fmt.Errorf("native hotkey: %w", ErrAlreadyRegistered)
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("os shortcut registration: %w", err)
	}

	s.hk = hk
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(hk, deliver, s.stop, s.done)
	return nil
}

func (s *NativeSource) loop(hk *xhotkey.Hotkey, deliver func(Edge), stop, done chan struct{}) {
	defer close(done)
	down, up := hk.Keydown(), hk.Keyup()
	for {
		select {
		case <-stop:
			return
		case <-down:
			deliver(Pressed)
		case <-up:
			deliver(Released)
		}
	}
}

// Stop unregisters the shortcut.
func (s *NativeSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hk == nil {
		return ErrNotRunning
	}
	close(s.stop)
	<-s.done

	err := s.hk.Unregister()
	s.hk, s.stop, s.done = nil, nil, nil
	if err != nil {
		return fmt.Errorf("os shortcut unregistration: %w", err)
	}
	return nil
}

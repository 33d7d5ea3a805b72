// Package hotkey registers a process-global keyboard shortcut and reports its
// press/release edges on a bounded channel.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrAlreadyRegistered is returned when a binding is registered twice in one process.
var ErrAlreadyRegistered = errors.New("binding already registered")

// ErrUnsupportedKey is returned when a source cannot express a binding.
var ErrUnsupportedKey = errors.New("unsupported key")

// DefaultBuffer is the edge channel capacity used when no option overrides it.
const DefaultBuffer = 16

// minBuffer holds one Pressed plus the slot reserved for its Released.
const minBuffer = 2

// Edge is a transition of the bound key combination.
type Edge int

const (
	Pressed Edge = iota + 1
	Released
)

func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// Binding is a key combination: zero or more modifiers plus one key.
// Names follow the gohook key table ("ctrl", "shift", "alt", "cmd", "space", ...).
type Binding struct {
	Modifiers []string
	Key       string
}

// CtrlSpace is the push-to-talk binding.
var CtrlSpace = Binding{Modifiers: []string{"ctrl"}, Key: "space"}

// String renders the binding for display, e.g. "Ctrl+Space".
func (b Binding) String() string {
	parts := make([]string, 0, len(b.Modifiers)+1)
	for _, m := range b.Modifiers {
		parts = append(parts, title(m))
	}
	parts = append(parts, title(b.Key))
	return strings.Join(parts, "+")
}

func (b Binding) id() string {
	return strings.ToLower(b.String())
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Source is an OS backend that watches one binding.
// deliver may be called from any goroutine, including OS hook threads.
type Source interface {
	Start(b Binding, deliver func(Edge)) error
	Stop() error
}

// RegistrationError reports that a binding could not be registered.
type RegistrationError struct {
	Binding Binding
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register hotkey %s: %v", e.Binding, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

var (
	registryMu sync.Mutex
	registry   = map[string]bool{}
)

// Option configures a Listener.
type Option func(*Listener)

// WithBuffer sets the edge channel capacity. Values below 2 are raised to 2.
func WithBuffer(n int) Option {
	return func(l *Listener) {
		l.buffer = max(n, minBuffer)
	}
}

// WithCollapseRepeats folds repeated Pressed edges of one gesture into one.
func WithCollapseRepeats(collapse bool) Option {
	return func(l *Listener) { l.collapse = collapse }
}

// Listener owns a registered binding and the channel its edges arrive on.
type Listener struct {
	binding  Binding
	source   Source
	buffer   int
	collapse bool

	mu     sync.Mutex
	edges  chan Edge
	held   bool
	closed bool
}

// Register claims b for this process and starts src. Only one live
// registration per binding is allowed.
func Register(b Binding, src Source, opts ...Option) (*Listener, error) {
	l := &Listener{
		binding: b,
		source:  src,
		buffer:  DefaultBuffer,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.edges = make(chan Edge, l.buffer)

	registryMu.Lock()
	defer registryMu.Unlock()

	if registry[b.id()] {
		return nil, &RegistrationError{Binding: b, Err: ErrAlreadyRegistered}
	}
	if err := src.Start(b, l.deliver); err != nil {
		return nil, &RegistrationError{Binding: b, Err: err}
	}
	registry[b.id()] = true

	slog.Info("hotkey registered", "binding", b.String())
	return l, nil
}

// Binding returns the registered combination.
func (l *Listener) Binding() Binding {
	return l.binding
}

// Edges returns the channel of press/release edges. It is closed by Close.
func (l *Listener) Edges() <-chan Edge {
	return l.edges
}

// Held reports whether the combination is currently down.
func (l *Listener) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// deliver never blocks. While a gesture is held one slot stays reserved
// for its Released, so a queued Pressed is never left without its pair.
// A Pressed that would eat the reserved slot is dropped instead; a dropped
// first Pressed leaves the gesture unheld and its Released is dropped too.
func (l *Listener) deliver(e Edge) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	switch e {
	case Pressed:
		if l.held && l.collapse {
			return
		}
		if len(l.edges)+2 > cap(l.edges) {
			slog.Warn("hotkey edge dropped", "binding", l.binding.String(), "edge", e.String())
			return
		}
		l.edges <- e
		l.held = true
	case Released:
		// No release without a press for the same gesture.
		if !l.held {
			return
		}
		// Only deliver sends, and the reserved slot guarantees room.
		l.edges <- e
		l.held = false
	}
}

// Close stops the source, releases the binding and closes the edge channel.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.edges)
	l.mu.Unlock()

	err := l.source.Stop()

	registryMu.Lock()
	delete(registry, l.binding.id())
	registryMu.Unlock()

	if err != nil {
		return fmt.Errorf("stop hotkey source: %w", err)
	}
	slog.Info("hotkey unregistered", "binding", l.binding.String())
	return nil
}

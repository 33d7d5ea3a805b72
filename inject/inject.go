// Package inject types text into whichever application holds OS input focus.
package inject

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidText is returned for text that is not valid UTF-8.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Keyboard is an open input-simulation context.
type Keyboard interface {
	Text(s string) error
	Close() error
}

// Backend opens input-simulation contexts.
type Backend interface {
	Name() string
	Open() (Keyboard, error)
}

// InjectionError describes a failed injection. Characters typed before the
// failure stay typed.
type InjectionError struct {
	Op  string // "validate", "open" or "type"
	Err error
}

func (e *InjectionError) Error() string {
	if e.Err == nil {
		return "inject text: " + e.Op + " failed"
	}
	return fmt.Sprintf("inject text: %s: %v", e.Op, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }

// Injector types strings through a Backend, one context per call.
type Injector struct {
	backend   Backend
	normalize bool
}

// Option configures an Injector.
type Option func(*Injector)

// WithNormalize toggles NFC normalisation of text before typing.
func WithNormalize(on bool) Option {
	return func(i *Injector) { i.normalize = on }
}

// New creates an Injector on top of backend. Normalisation is on by default.
func New(backend Backend, opts ...Option) *Injector {
	i := &Injector{backend: backend, normalize: true}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Backend returns the name of the underlying backend.
func (i *Injector) Backend() string {
	return i.backend.Name()
}

// Inject types text at the current focus. Empty text succeeds without
// touching the OS. Calls are independent: the same text twice is typed twice.
func (i *Injector) Inject(text string) (err error) {
	if text == "" {
		return nil
	}
	if !utf8.ValidString(text) {
		return &InjectionError{Op: "validate", Err: ErrInvalidText}
	}
	if i.normalize {
		text = norm.NFC.String(text)
	}

	var (
		op = "open"
		kb Keyboard
	)
	defer func() {
		if r := recover(); r != nil {
			err = &InjectionError{Op: op, Err: fmt.Errorf("backend %s panicked: %v", i.backend.Name(), r)}
			if op == "type" {
				i.closeQuietly(kb)
			}
		}
	}()

	kb, err = i.backend.Open()
	if err != nil {
		return &InjectionError{Op: "open", Err: err}
	}

	op = "type"
	if err := kb.Text(text); err != nil {
		i.closeQuietly(kb)
		return &InjectionError{Op: "type", Err: err}
	}

	// The text is already typed; a failed release is not an injection failure.
	i.closeQuietly(kb)

	slog.Debug("text injected", "backend", i.backend.Name(), "runes", utf8.RuneCountInString(text))
	return nil
}

// closeQuietly releases kb, logging an error or panic from Close. It runs on
// every path that opened a keyboard, including a panic while typing.
func (i *Injector) closeQuietly(kb Keyboard) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("close keyboard panicked", "backend", i.backend.Name(), "panic", r)
		}
	}()
	if err := kb.Close(); err != nil {
		slog.Warn("close keyboard", "backend", i.backend.Name(), "error", err)
	}
}

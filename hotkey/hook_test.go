package hotkey

import (
	"errors"
	"testing"
	"time"

	hook "github.com/robotn/gohook"
)

func newTestHookSource(events chan hook.Event) *HookSource {
	return &HookSource{
		start: func() chan hook.Event { return events },
		end:   func() {},
	}
}

func TestHookSourceEdges(t *testing.T) {
	events := make(chan hook.Event, 8)
	src := newTestHookSource(events)

	edges := make(chan Edge, 8)
	if err := src.Start(CtrlSpace, func(e Edge) { edges <- e }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer src.Stop()

	ctrl, space := hook.Keycode["ctrl"], hook.Keycode["space"]
	events <- hook.Event{Kind: hook.KeyHold, Keycode: ctrl}
	events <- hook.Event{Kind: hook.KeyHold, Keycode: space}
	events <- hook.Event{Kind: hook.KeyUp, Keycode: space}
	events <- hook.Event{Kind: hook.KeyUp, Keycode: ctrl}

	for _, want := range []Edge{Pressed, Released} {
		select {
		case got := <-edges:
			if got != want {
				t.Errorf("edge = %v, want %v", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %v", want)
		}
	}

	select {
	case e := <-edges:
		t.Errorf("unexpected extra edge %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHookSourceStartTwice(t *testing.T) {
	src := newTestHookSource(make(chan hook.Event))
	if err := src.Start(CtrlSpace, func(Edge) {}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer src.Stop()

	if err := src.Start(CtrlSpace, func(Edge) {}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestHookSourceStopNotRunning(t *testing.T) {
	src := newTestHookSource(make(chan hook.Event))
	if err := src.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestHookCodesUnsupported(t *testing.T) {
	tests := []Binding{
		{Modifiers: []string{"ctrl"}, Key: "no-such-key"},
		{Modifiers: []string{"hyper"}, Key: "space"},
	}
	for _, b := range tests {
		if _, _, err := hookCodes(b); !errors.Is(err, ErrUnsupportedKey) {
			t.Errorf("hookCodes(%v) error = %v, want ErrUnsupportedKey", b, err)
		}
	}
}

func TestNativeComboUnsupported(t *testing.T) {
	if _, _, err := nativeCombo(Binding{Modifiers: []string{"cmd"}, Key: "space"}); !errors.Is(err, ErrUnsupportedKey) {
		t.Errorf("nativeCombo() error = %v, want ErrUnsupportedKey", err)
	}
	if _, _, err := nativeCombo(CtrlSpace); err != nil {
		t.Errorf("nativeCombo(CtrlSpace) error = %v", err)
	}
}

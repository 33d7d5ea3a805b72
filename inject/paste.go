package inject

import (
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// DefaultRestoreDelay is how long the pasted text stays on the clipboard
// before the previous contents are put back.
const DefaultRestoreDelay = 150 * time.Millisecond

// clipboardSettle gives the clipboard owner time to publish new contents.
const clipboardSettle = 80 * time.Millisecond

// PasteBackend puts the text on the clipboard and sends the platform paste
// chord. The previous clipboard text is restored when the keyboard closes.
type PasteBackend struct {
	RestoreDelay time.Duration

	access         func() error
	available      func() bool
	readClipboard  func() (string, error)
	writeClipboard func(string) error
	newChord       func() (chord, error)
	sleep          func(time.Duration)

	mu    sync.Mutex
	chord chord // built on first Open, reused after
}

var _ Backend = (*PasteBackend)(nil)

// chord sends one key combination.
type chord interface {
	Launching() error
}

// NewPasteBackend creates a clipboard paste backend.
func NewPasteBackend(restoreDelay time.Duration) *PasteBackend {
	if restoreDelay <= 0 {
		restoreDelay = DefaultRestoreDelay
	}
	return &PasteBackend{
		RestoreDelay:   restoreDelay,
		access:         checkEventAccess,
		available:      func() bool { return !clipboard.Unsupported },
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
		newChord:       newPasteChord,
		sleep:          time.Sleep,
	}
}

func newPasteChord() (chord, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("create key bonding: %w", err)
	}
	if bondingSettle > 0 {
		time.Sleep(bondingSettle)
	}
	setPasteModifier(&kb)
	kb.SetKeys(keybd_event.VK_V)
	return &kb, nil
}

func (b *PasteBackend) Name() string { return "paste" }

// Open snapshots the clipboard. The paste chord is built on the first call;
// on Linux that costs a one-off uinput settle delay.
func (b *PasteBackend) Open() (Keyboard, error) {
	if err := b.CheckAccess(); err != nil {
		return nil, err
	}
	if !b.available() {
		return nil, fmt.Errorf("clipboard unavailable on this system")
	}
	c, err := b.pasteChord()
	if err != nil {
		return nil, err
	}
	prev, err := b.readClipboard()
	if err != nil {
		// An empty or non-text clipboard is not fatal; nothing to restore.
		prev = ""
	}
	return &pasteKeyboard{b: b, chord: c, prev: prev}, nil
}

// CheckAccess reports whether the paste chord will reach the focused
// application.
func (b *PasteBackend) CheckAccess() error {
	if b.access == nil {
		return nil
	}
	return b.access()
}

func (b *PasteBackend) pasteChord() (chord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chord != nil {
		return b.chord, nil
	}
	c, err := b.newChord()
	if err != nil {
		return nil, err
	}
	b.chord = c
	return c, nil
}

type pasteKeyboard struct {
	b      *PasteBackend
	chord  chord
	prev   string
	pasted bool
}

func (k *pasteKeyboard) Text(s string) error {
	if err := k.b.writeClipboard(s); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	k.pasted = true
	k.b.sleep(clipboardSettle)
	if err := k.chord.Launching(); err != nil {
		return fmt.Errorf("send paste chord: %w", err)
	}
	return nil
}

func (k *pasteKeyboard) Close() error {
	if !k.pasted {
		return nil
	}
	k.b.sleep(k.b.RestoreDelay)
	if err := k.b.writeClipboard(k.prev); err != nil {
		return fmt.Errorf("restore clipboard: %w", err)
	}
	return nil
}

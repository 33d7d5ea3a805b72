package inject

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// typeChunk is the rune count typed between delays.
const typeChunk = 32

// TypeBackend synthesizes one key event per character with robotgo.
type TypeBackend struct {
	// Delay in milliseconds between chunks of typeChunk runes. Zero types
	// the whole string in one call.
	DelayMs int

	access  func() error
	typeStr func(string)
	sleep   func(int)
}

var _ Backend = (*TypeBackend)(nil)

// NewTypeBackend creates a robotgo backend.
func NewTypeBackend(delayMs int) *TypeBackend {
	return &TypeBackend{
		DelayMs: delayMs,
		access:  checkTypingAccess,
		typeStr: func(s string) { robotgo.TypeStr(s) },
		sleep:   robotgo.MilliSleep,
	}
}

func (b *TypeBackend) Name() string { return "type" }

// Open checks that the OS will accept synthetic keystrokes and returns a
// keyboard. robotgo keeps no per-call state.
func (b *TypeBackend) Open() (Keyboard, error) {
	if b.typeStr == nil {
		return nil, fmt.Errorf("type backend not initialized")
	}
	if err := b.CheckAccess(); err != nil {
		return nil, err
	}
	return &typeKeyboard{b: b}, nil
}

// CheckAccess reports whether the OS accepts synthetic keystrokes from this
// process.
func (b *TypeBackend) CheckAccess() error {
	if b.access == nil {
		return nil
	}
	return b.access()
}

type typeKeyboard struct {
	b *TypeBackend
}

func (k *typeKeyboard) Text(s string) error {
	if k.b.DelayMs <= 0 {
		k.b.typeStr(s)
		return nil
	}
	for i, chunk := range chunkRunes(s, typeChunk) {
		if i > 0 {
			k.b.sleep(k.b.DelayMs)
		}
		k.b.typeStr(chunk)
	}
	return nil
}

func (k *typeKeyboard) Close() error { return nil }

// chunkRunes splits s into pieces of at most n runes without breaking a rune.
func chunkRunes(s string, n int) []string {
	var (
		chunks []string
		start  int
		count  int
	)
	for i := range s {
		if count == n {
			chunks = append(chunks, s[start:i])
			start, count = i, 0
		}
		count++
	}
	if start < len(s) {
		chunks = append(chunks, s[start:])
	}
	return chunks
}

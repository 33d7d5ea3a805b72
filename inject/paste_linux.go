//go:build linux

package inject

import (
	"time"

	"github.com/micmonay/keybd_event"
)

// uinput needs time to announce the virtual device before its first event.
const bondingSettle = 2 * time.Second

func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasCTRL(true)
}

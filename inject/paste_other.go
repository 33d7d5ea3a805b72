//go:build !darwin && !linux

package inject

import "github.com/micmonay/keybd_event"

const bondingSettle = 0

func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasCTRL(true)
}

package hotkey

// comboTracker turns raw key up/down codes into edges of one combination.
// A modifier may map to several codes (left and right ctrl).
type comboTracker struct {
	modifiers [][]uint16
	key       uint16
	pressed   map[uint16]bool
	active    bool
}

func newComboTracker(modifiers [][]uint16, key uint16) *comboTracker {
	return &comboTracker{
		modifiers: modifiers,
		key:       key,
		pressed:   make(map[uint16]bool),
	}
}

func (t *comboTracker) modifiersHeld() bool {
	for _, codes := range t.modifiers {
		held := false
		for _, c := range codes {
			if t.pressed[c] {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}

// keyDown reports Pressed for every key-down of the bound key while the
// modifiers are held, OS auto-repeat included.
func (t *comboTracker) keyDown(code uint16) (Edge, bool) {
	if code != t.key {
		t.pressed[code] = true
		return 0, false
	}
	if !t.modifiersHeld() {
		return 0, false
	}
	t.active = true
	return Pressed, true
}

// keyUp reports Released when the key or a required modifier goes up while
// the combination is active.
func (t *comboTracker) keyUp(code uint16) (Edge, bool) {
	if code != t.key {
		delete(t.pressed, code)
		if t.active && !t.modifiersHeld() {
			t.active = false
			return Released, true
		}
		return 0, false
	}
	if !t.active {
		return 0, false
	}
	t.active = false
	return Released, true
}

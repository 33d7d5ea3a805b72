//go:build linux

package inject

import "os"

// robotgo types through XTest, which needs an X server (XWayland counts).
func checkTypingAccess() error {
	if os.Getenv("DISPLAY") == "" {
		return ErrNoDisplay
	}
	return nil
}

// The paste chord goes through uinput and needs no display.
func checkEventAccess() error {
	return nil
}

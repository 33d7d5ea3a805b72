//go:build darwin

package inject

/*
#cgo LDFLAGS: -framework ApplicationServices

#include <ApplicationServices/ApplicationServices.h>

static int isProcessTrusted() {
    return AXIsProcessTrusted() ? 1 : 0;
}
*/
import "C"

// Without the Accessibility grant macOS silently discards posted events.
func checkTypingAccess() error {
	if C.isProcessTrusted() == 0 {
		return ErrNoAccessibility
	}
	return nil
}

func checkEventAccess() error {
	return checkTypingAccess()
}

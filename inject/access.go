package inject

import "errors"

var (
	// ErrNoAccessibility is returned when the OS has not granted this process
	// permission to post synthetic input.
	ErrNoAccessibility = errors.New("accessibility permission not granted")

	// ErrNoDisplay is returned when there is no X display to type into.
	ErrNoDisplay = errors.New("no X display available")
)

// accessChecker is implemented by backends that can tell ahead of time
// whether the OS will deliver their events.
type accessChecker interface {
	CheckAccess() error
}

// CheckAccess reports whether the backend can reach the focused application.
// Backends without a check are assumed to have access.
func (i *Injector) CheckAccess() error {
	if ac, ok := i.backend.(accessChecker); ok {
		return ac.CheckAccess()
	}
	return nil
}

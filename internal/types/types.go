// Package types provides shared type definitions for the application.
package types

// Status is the push-to-talk state reported to the frontend.
type Status struct {
	Hotkey   string `json:"hotkey"`   // e.g. "Ctrl+Space"
	Held     bool   `json:"held"`     // Whether the hotkey is currently down
	Gestures int    `json:"gestures"` // Completed press/release cycles since startup
	Gesture  string `json:"gesture"`  // Id of the current or last gesture, matches the "gesture" log attr
	Injector string `json:"injector"` // Active text injection backend ("type" or "paste")
}

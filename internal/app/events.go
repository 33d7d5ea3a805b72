// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication. The push-to-talk pair carries no
// payload; accessibility-permission carries a bool.
const (
	EventPTTStart          = "ptt-start"
	EventPTTStop           = "ptt-stop"
	EventAccessibilityPerm = "accessibility-permission"
)

// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.aimuz.me/voicelab/config"
	"go.aimuz.me/voicelab/hotkey"
	"go.aimuz.me/voicelab/inject"
	"go.aimuz.me/voicelab/internal/types"

	"github.com/wailsapp/wails/v3/pkg/application"
)

var errNoApp = errors.New("wails app not initialized")

// Service provides application functionality bound to Wails.
// The frontend listens for ptt-start/ptt-stop and calls InjectText with the
// final transcript.
type Service struct {
	// mu guards the fields set by Init, which runs on the startup hook
	// while bound methods may already be called from the frontend.
	mu  sync.RWMutex
	cfg *config.Config

	// UI reference - set via Init
	app *application.App

	bridge   *Bridge
	listener *hotkey.Listener
	injector *inject.Injector

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{version: version, bridge: NewBridge()}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service to the Wails app and registers the push-to-talk
// hotkey. A registration failure is fatal to startup. Call it once the
// application has started: native registration needs the OS event loop.
func (s *Service) Init(app *application.App, cfg *config.Config) error {
	s.mu.Lock()
	s.app = app
	s.mu.Unlock()
	return s.start(cfg, newHotkeySource(cfg), newInjectBackend(cfg), eventSink{app: app})
}

// start is Init without Wails, so tests can supply their own source, backend and sink.
func (s *Service) start(cfg *config.Config, src hotkey.Source, backend inject.Backend, sink Sink) error {
	injector := inject.New(backend, inject.WithNormalize(cfg.NormalizeText()))

	s.mu.Lock()
	s.cfg = cfg
	s.injector = injector
	s.mu.Unlock()

	listener, err := hotkey.Register(hotkey.CtrlSpace, src, hotkey.WithCollapseRepeats(cfg.CollapseRepeats))
	if err != nil {
		return err
	}

	if sink != nil {
		s.bridge.Subscribe(sink)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.listener = listener
	s.cancel = cancel
	s.mu.Unlock()
	s.wg.Go(func() { s.bridge.Run(ctx, listener.Edges()) })

	slog.Info("push-to-talk ready",
		"hotkey", listener.Binding().String(),
		"hotkey_backend", cfg.HotkeyBackend,
		"injector", injector.Backend(),
	)
	s.reportAccess()
	return nil
}

// reportAccess tells the frontend up front whether typed text will land.
// A denied check is not fatal: the grant can arrive while the app runs.
func (s *Service) reportAccess() {
	granted := s.GetAccessibilityPermission()
	s.emit(EventAccessibilityPerm, granted)
	if granted {
		slog.Info("accessibility permission granted")
	} else {
		slog.Warn("accessibility permission denied", "error", s.currentInjector().CheckAccess())
	}
}

func (s *Service) emit(name string, data any) {
	s.mu.RLock()
	app := s.app
	s.mu.RUnlock()
	if app != nil {
		app.Event.Emit(name, data)
	}
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	s.mu.Lock()
	listener, cancel := s.listener, s.cancel
	s.listener, s.cancel = nil, nil
	s.mu.Unlock()

	if listener != nil {
		if err := listener.Close(); err != nil {
			slog.Error("close hotkey listener", "error", err)
		}
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Service) currentInjector() *inject.Injector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.injector
}

// InjectText types text at the current OS input focus. The returned error,
// if any, carries a human-readable description for the frontend.
func (s *Service) InjectText(text string) error {
	injector := s.currentInjector()
	if injector == nil {
		return errors.New("inject text: service not initialized")
	}
	if err := injector.Inject(text); err != nil {
		slog.Error("inject text", "error", err)
		return err
	}
	return nil
}

// GetAccessibilityPermission returns whether the OS will deliver synthetic
// input from this process.
func (s *Service) GetAccessibilityPermission() bool {
	injector := s.currentInjector()
	if injector == nil {
		return false
	}
	return injector.CheckAccess() == nil
}

// GetHotkey returns the push-to-talk key combination for display.
func (s *Service) GetHotkey() string {
	return hotkey.CtrlSpace.String()
}

// GetStatus returns the current push-to-talk status.
func (s *Service) GetStatus() types.Status {
	st := types.Status{
		Hotkey:   s.GetHotkey(),
		Held:     s.bridge.Held(),
		Gestures: s.bridge.Gestures(),
		Gesture:  s.bridge.Gesture(),
	}
	if injector := s.currentInjector(); injector != nil {
		st.Injector = injector.Backend()
	}
	return st
}

// eventSink broadcasts notifications on the Wails event bus.
type eventSink struct {
	app *application.App
}

func (e eventSink) Emit(name string) error {
	if e.app == nil {
		return fmt.Errorf("emit %s: %w", name, errNoApp)
	}
	e.app.Event.Emit(name)
	return nil
}

func newHotkeySource(cfg *config.Config) hotkey.Source {
	if cfg.HotkeyBackend == config.BackendHook {
		slog.Warn("hook backend cannot detect a conflicting Ctrl+Space owner")
		return hotkey.NewHookSource()
	}
	return hotkey.NewNativeSource()
}

func newInjectBackend(cfg *config.Config) inject.Backend {
	if cfg.InjectMode == config.ModePaste {
		return inject.NewPasteBackend(time.Duration(cfg.PasteRestoreMs) * time.Millisecond)
	}
	return inject.NewTypeBackend(cfg.TypeDelayMs)
}

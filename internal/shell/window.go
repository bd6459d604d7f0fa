package shell

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
)

// WindowConfig describes a window created at build time.
type WindowConfig struct {
	Label   string
	Title   string
	Width   float64
	Height  float64
	X       float64
	Y       float64
	Visible bool
}

// Window is a headless application window. All state is guarded by mu so
// commands on HTTP goroutines and tray handlers on the event loop can both
// touch it.
type Window struct {
	mu       sync.RWMutex
	label    string
	title    string
	visible  bool
	focused  bool
	position types.Position
	size     types.Size

	// onFocus lets the runtime clear focus on the other windows.
	onFocus func(*Window)
}

func newWindow(cfg WindowConfig) (*Window, error) {
	if cfg.Label == "" {
		return nil, fmt.Errorf("window label cannot be empty")
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, fmt.Errorf("window %q has a negative size", cfg.Label)
	}
	return &Window{
		label:    cfg.Label,
		title:    cfg.Title,
		visible:  cfg.Visible,
		position: types.Position{X: cfg.X, Y: cfg.Y},
		size:     types.Size{Width: cfg.Width, Height: cfg.Height},
	}, nil
}

// Label returns the unique window label
func (w *Window) Label() string {
	return w.label
}

// Title returns the window title
func (w *Window) Title() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.title
}

// IsVisible reports whether the window is shown
func (w *Window) IsVisible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// IsFocused reports whether the window has input focus
func (w *Window) IsFocused() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.focused
}

// Show makes the window visible
func (w *Window) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	return nil
}

// Hide makes the window invisible and drops its focus
func (w *Window) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	w.focused = false
	return nil
}

// SetFocus gives the window input focus. Hidden windows cannot take focus.
func (w *Window) SetFocus() error {
	w.mu.Lock()
	if !w.visible {
		w.mu.Unlock()
		return fmt.Errorf("window %q is hidden", w.label)
	}
	w.focused = true
	hook := w.onFocus
	w.mu.Unlock()

	if hook != nil {
		hook(w)
	}
	return nil
}

func (w *Window) blur() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = false
}

// Position returns the window's top-left corner
func (w *Window) Position() types.Position {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.position
}

// SetPosition moves the window
func (w *Window) SetPosition(p types.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = p
}

// Size returns the window's outer size
func (w *Window) Size() types.Size {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.size
}

// SetSize resizes the window
func (w *Window) SetSize(s types.Size) error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("window %q: negative size", w.label)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = s
	return nil
}

// Snapshot returns a copy of the window state
func (w *Window) Snapshot() types.WindowSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return types.WindowSnapshot{
		Label:    w.label,
		Title:    w.title,
		Visible:  w.visible,
		Focused:  w.focused,
		Position: w.position,
		Size:     w.size,
	}
}

// Restore applies a saved position, size and visibility. Focus and title are
// not restored.
func (w *Window) Restore(s types.WindowSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = s.Position
	if s.Size.Width > 0 && s.Size.Height > 0 {
		w.size = s.Size
	}
	w.visible = s.Visible
	if !w.visible {
		w.focused = false
	}
}

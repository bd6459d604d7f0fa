package window

import (
	"errors"
	"fmt"
)

// MainLabel is the label of the primary application window.
const MainLabel = "main"

// ErrWindowNotFound matches every failure to resolve a window label.
var ErrWindowNotFound = errors.New("window not found")

// WindowNotFoundError reports a label the runtime does not know.
type WindowNotFoundError struct {
	Label string
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window %q not found", e.Label)
}

func (e *WindowNotFoundError) Unwrap() error {
	return ErrWindowNotFound
}

// UserMessage is the text shown to the UI.
func (e *WindowNotFoundError) UserMessage() string {
	return "Window not found"
}

// Window is the part of a host window the controller drives.
type Window interface {
	Label() string
	IsVisible() bool
	Show() error
}

// Focuser is implemented by windows that can take input focus.
type Focuser interface {
	SetFocus() error
}

// Resolver looks windows up by label.
type Resolver interface {
	Window(label string) (Window, bool)
}

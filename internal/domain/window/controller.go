package window

import (
	"go.uber.org/zap"
)

// Controller makes the main window visible on request.
type Controller struct {
	resolver Resolver
	label    string
	logger   *zap.Logger
}

// NewController creates a controller. A nil logger uses zap.L().
func NewController(resolver Resolver, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.L()
	}
	return &Controller{resolver: resolver, label: MainLabel, logger: logger}
}

// WithLabel points the controller at a main window with a different label.
func (c *Controller) WithLabel(label string) *Controller {
	c.label = label
	return c
}

func (c *Controller) main() (Window, error) {
	w, ok := c.resolver.Window(c.label)
	if !ok {
		return nil, &WindowNotFoundError{Label: c.label}
	}
	return w, nil
}

// Reveal shows the main window and gives it focus. A window that is already
// visible is left alone.
func (c *Controller) Reveal() error {
	w, err := c.main()
	if err != nil {
		return err
	}
	if w.IsVisible() {
		return nil
	}
	if err := w.Show(); err != nil {
		return err
	}
	return focus(w)
}

// HandleTrayEvent reveals and focuses the main window on a left click and
// ignores everything else. Failures are logged because tray callbacks have
// no caller to return them to.
func (c *Controller) HandleTrayEvent(ev TrayEvent) {
	if ev.Kind != TrayLeftClick {
		return
	}

	w, err := c.main()
	if err == nil {
		if !w.IsVisible() {
			err = w.Show()
		}
		if err == nil {
			err = focus(w)
		}
	}
	if err != nil {
		c.logger.Warn("Tray click could not reveal main window",
			zap.String("event", ev.Kind.String()),
			zap.Error(err))
		return
	}

	c.logger.Debug("Main window revealed from tray")
}

func focus(w Window) error {
	if f, ok := w.(Focuser); ok {
		return f.SetFocus()
	}
	return nil
}

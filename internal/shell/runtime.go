package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrEventQueueFull is returned when the event loop cannot keep up.
	ErrEventQueueFull = errors.New("event queue full")
	// ErrStopped is returned for work posted after the loop ended.
	ErrStopped = errors.New("runtime stopped")
)

// Provider is a capability initialised once while the runtime is built.
type Provider interface {
	Name() string
	Setup(rt *Runtime) error
}

// Shutdowner is implemented by providers holding resources.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// TrayHandler receives tray events on the event loop.
type TrayHandler func(window.TrayEvent)

// Observer records runtime events.
type Observer interface {
	TrayEvent(kind string)
}

// ExitStatus is how the event loop ended.
type ExitStatus struct {
	Code    int
	Restart bool
}

// ShutdownTimeout bounds provider shutdown after the loop ends.
const ShutdownTimeout = 5 * time.Second

// Runtime owns the windows and runs the event loop.
type Runtime struct {
	mu      sync.RWMutex
	windows map[string]*Window
	order   []string

	commands     *commands.Registry
	providers    []Provider
	trayHandlers []TrayHandler
	observer     Observer
	logger       *zap.Logger

	tasks    chan func()
	exit     chan ExitStatus
	done     chan struct{}
	doneOnce sync.Once
	shutdown sync.Once
}

func newRuntime(registry *commands.Registry, logger *zap.Logger, queueSize int) *Runtime {
	return &Runtime{
		windows:  make(map[string]*Window),
		commands: registry,
		logger:   logger,
		tasks:    make(chan func(), queueSize),
		exit:     make(chan ExitStatus, 1),
		done:     make(chan struct{}),
	}
}

func (r *Runtime) addWindow(cfg WindowConfig) (*Window, error) {
	w, err := newWindow(cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.windows[w.label]; exists {
		return nil, fmt.Errorf("window %q already exists", w.label)
	}
	w.onFocus = r.focusChanged
	r.windows[w.label] = w
	r.order = append(r.order, w.label)
	return w, nil
}

// focusChanged keeps at most one window focused.
func (r *Runtime) focusChanged(focused *Window) {
	for _, w := range r.Windows() {
		if w != focused {
			w.blur()
		}
	}
}

// Window implements window.Resolver.
func (r *Runtime) Window(label string) (window.Window, bool) {
	w, ok := r.Lookup(label)
	if !ok {
		return nil, false
	}
	return w, true
}

// Lookup returns the concrete window for label.
func (r *Runtime) Lookup(label string) (*Window, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[label]
	return w, ok
}

// Windows returns all windows in creation order.
func (r *Runtime) Windows() []*Window {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Window, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.windows[label])
	}
	return out
}

// Commands returns the command registry.
func (r *Runtime) Commands() *commands.Registry {
	return r.commands
}

// RegisterCommands adds cmds to the registry, stopping at the first
// rejected one.
func (r *Runtime) RegisterCommands(cmds ...commands.Command) error {
	for _, cmd := range cmds {
		if err := r.commands.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.logger
}

// RunOnMain queues fn for the event loop.
func (r *Runtime) RunOnMain(fn func()) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}

	select {
	case r.tasks <- fn:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// DispatchTrayEvent delivers ev to the tray handlers on the event loop.
func (r *Runtime) DispatchTrayEvent(ev window.TrayEvent) error {
	if r.observer != nil {
		r.observer.TrayEvent(ev.Kind.String())
	}
	return r.RunOnMain(func() {
		for _, h := range r.trayHandlers {
			h(ev)
		}
	})
}

// RequestExit ends the event loop with code. Only the first request counts.
func (r *Runtime) RequestExit(code int) {
	r.requestStop(ExitStatus{Code: code})
}

// RequestRestart ends the event loop and asks the caller to start again.
func (r *Runtime) RequestRestart() {
	r.requestStop(ExitStatus{Restart: true})
}

func (r *Runtime) requestStop(status ExitStatus) {
	select {
	case r.exit <- status:
	default:
	}
}

// Run drives the event loop until ctx ends or exit is requested, then shuts
// the providers down.
func (r *Runtime) Run(ctx context.Context) ExitStatus {
	status := r.loop(ctx)
	r.doneOnce.Do(func() { close(r.done) })

	shutdownCtx, cancel := contextWithShutdownTimeout()
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("Provider shutdown failed", zap.Error(err))
	}
	return status
}

func (r *Runtime) loop(ctx context.Context) ExitStatus {
	for {
		select {
		case <-ctx.Done():
			return ExitStatus{}
		case status := <-r.exit:
			r.logger.Info("Exit requested",
				zap.Int("code", status.Code),
				zap.Bool("restart", status.Restart))
			return status
		case task := <-r.tasks:
			r.runTask(task)
		}
	}
}

func (r *Runtime) runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Event loop task panicked", zap.Any("panic", rec))
		}
	}()
	task()
}

// Shutdown stops providers in reverse setup order. It runs once.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var err error
	r.shutdown.Do(func() {
		err = shutdownProviders(ctx, r.providers)
	})
	return err
}

func shutdownProviders(ctx context.Context, providers []Provider) error {
	var err error
	for i := len(providers) - 1; i >= 0; i-- {
		s, ok := providers[i].(Shutdowner)
		if !ok {
			continue
		}
		if e := s.Shutdown(ctx); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", providers[i].Name(), e))
		}
	}
	return err
}

func contextWithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ShutdownTimeout)
}

package shell

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"go.uber.org/zap"
)

// DefaultQueueSize is the event loop's buffered capacity.
const DefaultQueueSize = 64

// Builder collects runtime configuration. It can be built once.
type Builder struct {
	windows   []WindowConfig
	providers []Provider
	commands  []commands.Command
	tray      []TrayHandler
	registry  *commands.Registry
	observer  Observer
	logger    *zap.Logger
	queueSize int
	built     bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{queueSize: DefaultQueueSize}
}

// Window adds a window created before any provider runs.
func (b *Builder) Window(cfg WindowConfig) *Builder {
	b.windows = append(b.windows, cfg)
	return b
}

// Provider adds a provider. Providers are set up in the order added.
func (b *Builder) Provider(p Provider) *Builder {
	b.providers = append(b.providers, p)
	return b
}

// Command registers commands before providers are set up.
func (b *Builder) Command(cmds ...commands.Command) *Builder {
	b.commands = append(b.commands, cmds...)
	return b
}

// OnTrayEvent adds a tray handler.
func (b *Builder) OnTrayEvent(h TrayHandler) *Builder {
	b.tray = append(b.tray, h)
	return b
}

// WithRegistry uses an existing command registry.
func (b *Builder) WithRegistry(r *commands.Registry) *Builder {
	b.registry = r
	return b
}

// WithObserver records runtime events.
func (b *Builder) WithObserver(o Observer) *Builder {
	b.observer = o
	return b
}

// WithLogger sets the runtime logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// QueueSize sets the event loop capacity.
func (b *Builder) QueueSize(n int) *Builder {
	b.queueSize = n
	return b
}

// Build creates windows, registers commands and sets providers up in order.
// If a provider fails, the ones already set up are shut down.
func (b *Builder) Build() (*Runtime, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if b.queueSize <= 0 {
		return nil, fmt.Errorf("invalid queue size %d", b.queueSize)
	}
	logger := b.logger
	if logger == nil {
		logger = zap.L()
	}
	registry := b.registry
	if registry == nil {
		registry = commands.NewRegistry()
	}

	rt := newRuntime(registry, logger, b.queueSize)
	rt.observer = b.observer

	for _, cfg := range b.windows {
		if _, err := rt.addWindow(cfg); err != nil {
			return nil, err
		}
	}

	for _, cmd := range b.commands {
		if err := registry.Register(cmd); err != nil {
			return nil, err
		}
	}

	for _, p := range b.providers {
		if err := p.Setup(rt); err != nil {
			ctx, cancel := contextWithShutdownTimeout()
			defer cancel()
			if serr := shutdownProviders(ctx, rt.providers); serr != nil {
				logger.Error("Provider cleanup failed", zap.Error(serr))
			}
			return nil, fmt.Errorf("setup provider %s: %w", p.Name(), err)
		}
		rt.providers = append(rt.providers, p)
		logger.Debug("Provider ready", zap.String("provider", p.Name()))
	}

	rt.trayHandlers = append(rt.trayHandlers, b.tray...)
	return rt, nil
}

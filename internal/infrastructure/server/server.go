package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/GriffinCanCode/deskshell/internal/api/http"
	"github.com/GriffinCanCode/deskshell/internal/api/middleware"
	"github.com/GriffinCanCode/deskshell/internal/api/ws"
	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/deskshell/internal/providers/filesystem"
	httpProvider "github.com/GriffinCanCode/deskshell/internal/providers/http"
	"github.com/GriffinCanCode/deskshell/internal/providers/osinfo"
	"github.com/GriffinCanCode/deskshell/internal/providers/process"
	"github.com/GriffinCanCode/deskshell/internal/providers/updater"
	"github.com/GriffinCanCode/deskshell/internal/providers/windowstate"
	"github.com/GriffinCanCode/deskshell/internal/shared/paths"
	"github.com/GriffinCanCode/deskshell/internal/shell"
)

// HTTPShutdownTimeout bounds the graceful HTTP shutdown.
const HTTPShutdownTimeout = 5 * time.Second

// Server is the composed application.
type Server struct {
	config  *config.Config
	paths   paths.App
	logger  *logging.Logger
	metrics *monitoring.Metrics
	hub     *ws.Hub
	runtime *shell.Runtime
	router  *gin.Engine

	restoreGlobals func()
	closeOnce      sync.Once
	closeErr       error
}

type options struct {
	stdout    io.Writer
	stderr    io.Writer
	errOut    zapcore.WriteSyncer
	providers []shell.Provider
}

// Option customises composition.
type Option func(*options)

// WithStdout replaces the stdout sink's destination.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr replaces where sink failures and breaker transitions are
// reported.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithProvider adds a provider after the built-in ones.
func WithProvider(p shell.Provider) Option {
	return func(o *options) { o.providers = append(o.providers, p) }
}

// newOptions applies opts. Sink failures and breaker transitions share one
// locked writer since either may fire from any goroutine.
func newOptions(opts []Option) options {
	o := options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	o.errOut = zapcore.Lock(zapcore.AddSync(o.stderr))
	return o
}

// New composes the application from cfg. Any failure aborts composition and
// releases everything opened so far.
func New(cfg *config.Config, opts ...Option) (s *Server, err error) {
	o := newOptions(opts)

	var cleanup []func() error
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanup) - 1; i >= 0; i-- {
			_ = cleanup[i]()
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appPaths, err := paths.Resolve(cfg.App.Identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if cfg.Logging.Dir != "" {
		appPaths.LogDir = cfg.Logging.Dir
	}

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(metrics)
	cleanup = append(cleanup, func() error { hub.Close(); return nil })

	registry, err := buildSinks(cfg, appPaths, hub, o)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, registry.Close)

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("initial log level: %w", err)
	}
	gate, err := logging.NewGate(level)
	if err != nil {
		return nil, err
	}

	logger := logging.New(gate, registry,
		logging.WithObserver(metrics),
		logging.WithErrorOutput(o.errOut),
		logging.WithDevelopment(cfg.Logging.Development),
	)
	metrics.LevelChanged(level.String())
	restoreGlobals := zap.ReplaceGlobals(logger.Logger)
	cleanup = append(cleanup, func() error { restoreGlobals(); return nil })

	rt, err := buildRuntime(cfg, appPaths, logger, metrics, o)
	if err != nil {
		return nil, err
	}
	cleanup = append(cleanup, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shell.ShutdownTimeout)
		defer cancel()
		return rt.Shutdown(ctx)
	})

	s = &Server{
		config:         cfg,
		paths:          appPaths,
		logger:         logger,
		metrics:        metrics,
		hub:            hub,
		runtime:        rt,
		restoreGlobals: restoreGlobals,
	}
	s.router = s.buildRouter()

	logger.Info("Application initialized",
		zap.String("identifier", cfg.App.Identifier),
		zap.String("version", cfg.App.Version),
		zap.String("log_dir", appPaths.LogDir),
		zap.String("level", level.String()),
		zap.Int("sinks", len(logger.Sinks())),
	)
	return s, nil
}

func buildSinks(cfg *config.Config, appPaths paths.App, hub *ws.Hub, o options) (*logging.Registry, error) {
	var sinks []*logging.Sink
	closeAll := func() {
		for _, sink := range sinks {
			_ = sink.Close()
		}
	}

	if cfg.Logging.Stdout {
		sinks = append(sinks, logging.NewStdoutSink(o.stdout, cfg.Logging.Development))
	}

	settings := resilience.DefaultSettings()
	settings.OnStateChange = func(name string, from, to resilience.State) {
		fmt.Fprintf(o.errOut, "%s circuit breaker %s -> %s\n", name, from, to)
	}
	dir, err := logging.NewDirectorySink(logging.DirectoryConfig{
		Dir:        appPaths.LogDir,
		FileName:   cfg.LogFileName(),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Breaker:    resilience.New("log-directory", settings),
	})
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("directory log sink: %w", err)
	}
	sinks = append(sinks, dir)

	if cfg.Logging.UI {
		sinks = append(sinks, logging.NewUISink(hub))
	}

	registry, err := logging.NewRegistry(sinks...)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("log sinks: %w", err)
	}
	return registry, nil
}

func buildRuntime(cfg *config.Config, appPaths paths.App, logger *logging.Logger, metrics *monitoring.Metrics, o options) (*shell.Runtime, error) {
	fs, err := filesystem.New(filesystem.DirScope(appPaths.LogDir), filesystem.DirScope(appPaths.DataDir))
	if err != nil {
		return nil, err
	}
	up, err := updater.New(cfg.Update.Repo, cfg.App.Version)
	if err != nil {
		return nil, err
	}

	httpCfg := httpProvider.DefaultConfig()
	httpCfg.UserAgent = cfg.App.Identifier + "/" + cfg.App.Version

	stateFile := cfg.Window.StateFile
	if stateFile == "" {
		stateFile = filepath.Join(appPaths.DataDir, "window-state.yaml")
	}

	var controller *window.Controller
	builder := shell.NewBuilder().
		WithRegistry(commands.NewRegistry().WithObserver(metrics)).
		WithObserver(metrics).
		WithLogger(logger.Logger).
		Window(shell.WindowConfig{
			Label:   cfg.Window.Label,
			Title:   cfg.WindowTitle(),
			Width:   cfg.Window.Width,
			Height:  cfg.Window.Height,
			Visible: cfg.Window.Visible,
		}).
		Provider(windowstate.New(windowstate.Options{Path: stateFile})).
		Provider(fs).
		Provider(httpProvider.New(httpCfg)).
		Provider(osinfo.New()).
		Provider(process.New()).
		Provider(updater.NewProvider(up)).
		Command(commands.LogCommands(logger)...).
		OnTrayEvent(func(ev window.TrayEvent) { controller.HandleTrayEvent(ev) })
	for _, p := range o.providers {
		builder.Provider(p)
	}

	rt, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build shell runtime: %w", err)
	}

	controller = window.NewController(rt, logger.Named("window")).WithLabel(cfg.Window.Label)
	if err := rt.RegisterCommands(commands.ShowMainWindow(controller)); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Server) buildRouter() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.AccessLog(s.logger.Named("http")))

	handlers := httpapi.NewHandlers(httpapi.Options{
		Invoker: s.runtime.Commands(),
		Tray:    s.runtime,
		Emitter: s.logger,
		Metrics: s.metrics,
		Version: s.config.App.Version,
		Logger:  s.logger.Named("http"),
	})
	wsHandler := ws.NewHandler(s.hub, s.runtime.Commands(), s.logger.Named("ipc"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.GET("/commands", handlers.ListCommands)
	router.GET("/ipc", wsHandler.HandleConnection)

	limited := router.Group("/")
	if s.config.RateLimit.Enabled {
		limited.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		}))
	}
	limited.POST("/invoke/:command", handlers.Invoke)
	limited.POST("/logs", handlers.StreamLogs)

	if s.config.Debug.TrayEndpoint {
		s.logger.Warn("Debug tray endpoint enabled")
		router.POST("/tray", handlers.InjectTray)
	}
	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Runtime returns the shell runtime.
func (s *Server) Runtime() *shell.Runtime { return s.runtime }

// Logger returns the logging façade.
func (s *Server) Logger() *logging.Logger { return s.logger }

// Metrics returns the metrics collector.
func (s *Server) Metrics() *monitoring.Metrics { return s.metrics }

// Paths returns the resolved application directories.
func (s *Server) Paths() paths.App { return s.paths }

// Run serves HTTP on the configured address and drives the event loop until
// ctx ends or exit is requested. Everything is shut down before it returns.
func (s *Server) Run(ctx context.Context) (shell.ExitStatus, error) {
	ln, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		_ = s.Close()
		return shell.ExitStatus{Code: 1}, fmt.Errorf("listen on %s: %w", s.config.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) (shell.ExitStatus, error) {
	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		err := httpSrv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			cancel()
		}
		serveErr <- err
	}()

	s.logger.Info("Starting IPC server", zap.String("addr", ln.Addr().String()))
	status := s.runtime.Run(loopCtx)

	s.logger.Info("Shutting down", zap.Int("code", status.Code), zap.Bool("restart", status.Restart))
	s.hub.Close()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), HTTPShutdownTimeout)
	defer cancelShutdown()
	err := httpSrv.Shutdown(shutdownCtx)
	if serr := <-serveErr; serr != nil {
		err = multierr.Append(err, fmt.Errorf("serve: %w", serr))
		if status.Code == 0 {
			status.Code = 1
		}
	}

	return status, multierr.Append(err, s.Close())
}

// Close shuts the providers down, flushes and closes the sinks and restores
// the global zap logger. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shell.ShutdownTimeout)
		defer cancel()
		s.closeErr = s.runtime.Shutdown(ctx)
		s.hub.Close()
		s.closeErr = multierr.Append(s.closeErr, s.logger.Close())
		s.restoreGlobals()
	})
	return s.closeErr
}

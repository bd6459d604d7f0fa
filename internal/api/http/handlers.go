package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Invoker runs and lists commands.
type Invoker interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) (*types.Result, error)
	List(category *types.Category) []types.CommandDef
}

// TrayDispatcher injects tray events into the event loop.
type TrayDispatcher interface {
	DispatchTrayEvent(ev window.TrayEvent) error
}

// Emitter accepts records forwarded from the UI.
type Emitter interface {
	Emit(r logging.Record)
	Level() logging.Level
}

// Handlers contains HTTP request handlers
type Handlers struct {
	invoker Invoker
	tray    TrayDispatcher
	emitter Emitter
	metrics *monitoring.Metrics
	version string
	logger  *zap.Logger
}

// Options wires the handler dependencies. Tray and Metrics may be nil.
type Options struct {
	Invoker Invoker
	Tray    TrayDispatcher
	Emitter Emitter
	Metrics *monitoring.Metrics
	Version string
	Logger  *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		invoker: opts.Invoker,
		tray:    opts.Tray,
		emitter: opts.Emitter,
		metrics: opts.Metrics,
		version: opts.Version,
		logger:  logger,
	}
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "deskshell",
		"version": h.version,
		"endpoints": gin.H{
			"invoke":   "POST /invoke/:command",
			"commands": "GET /commands",
			"health":   "GET /health",
			"metrics":  "GET /metrics",
			"ipc":      "GET /ipc",
			"logs":     "POST /logs",
		},
	})
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":    "healthy",
		"version":   h.version,
		"log_level": h.emitter.Level(),
		"timestamp": time.Now().Unix(),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// ListCommands returns every registered command, optionally filtered with
// ?category=.
func (h *Handlers) ListCommands(c *gin.Context) {
	var filter *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		filter = &cat
	}
	defs := h.invoker.List(filter)
	c.JSON(http.StatusOK, gin.H{
		"commands": defs,
		"count":    len(defs),
	})
}

// Invoke runs the command named in the path with the JSON object body as its
// arguments. An empty body means no arguments.
func (h *Handlers) Invoke(c *gin.Context) {
	name := c.Param("command")

	args, err := readArgs(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Failure("arguments must be a JSON object"))
		return
	}

	result, err := h.invoker.Execute(c.Request.Context(), name, args)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, commands.ErrUnknownCommand):
		c.JSON(http.StatusNotFound, result)
	default:
		h.logger.Debug("Command failed", zap.String("command", name), zap.Error(err))
		c.JSON(http.StatusBadRequest, result)
	}
}

func readArgs(body io.Reader) (map[string]interface{}, error) {
	if body == nil {
		return map[string]interface{}{}, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	args := map[string]interface{}{}
	if len(data) == 0 {
		return args, nil
	}
	if err := sonic.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// TrayRequest is the body of POST /tray.
type TrayRequest struct {
	Kind     string          `json:"kind" binding:"required"`
	Position window.Position `json:"position"`
	Size     window.Size     `json:"size"`
}

// InjectTray feeds a synthetic tray event into the event loop. It is only
// routed when the debug tray endpoint is enabled.
func (h *Handlers) InjectTray(c *gin.Context) {
	var req TrayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := window.ParseTrayEventKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.tray == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tray unavailable"})
		return
	}

	ev := window.TrayEvent{Kind: kind, Position: req.Position, Size: req.Size}
	if err := h.tray.DispatchTrayEvent(ev); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": kind.String()})
}

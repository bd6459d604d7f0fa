package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/GriffinCanCode/deskshell/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
)

type trayRecorder struct {
	events []window.TrayEvent
	err    error
}

func (r *trayRecorder) DispatchTrayEvent(ev window.TrayEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

type fixture struct {
	router *gin.Engine
	logger *logging.Logger
	logs   *observer.ObservedLogs
	tray   *trayRecorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, logs := testutil.NewObservedLogger(t, logging.InfoLevel)
	registry := commands.NewRegistry()
	registry.MustRegister(commands.LogCommands(logger)...)

	tray := &trayRecorder{}
	h := NewHandlers(Options{
		Invoker: registry,
		Tray:    tray,
		Emitter: logger,
		Metrics: monitoring.NewMetrics(),
		Version: "1.2.3",
	})

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/commands", h.ListCommands)
	router.POST("/invoke/:command", h.Invoke)
	router.POST("/logs", h.StreamLogs)
	router.POST("/tray", h.InjectTray)

	return &fixture{router: router, logger: logger, logs: logs, tray: tray}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestInvokeSetLogLevel(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/invoke/set_log_level", `{"level":"DEBUG"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, logging.DebugLevel, f.logger.Level())
}

func TestInvokeInvalidLevel(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/invoke/set_log_level", `{"level":"verbose"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid log level", resp["error"])
	assert.Equal(t, logging.InfoLevel, f.logger.Level())
}

func TestInvokeUnknownCommand(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/invoke/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Unknown command: nope", resp["error"])
}

func TestInvokeRejectsNonObjectBody(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/invoke/get_log_level", `["info"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestInvokeEmptyBody(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/invoke/get_log_level", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "info", data["level"])
}

func TestListCommands(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodGet, "/commands", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), resp["count"])

	_, resp = f.do(t, http.MethodGet, "/commands?category=window", "")
	assert.Equal(t, float64(0), resp["count"])
}

func TestHealthAndRoot(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])
	assert.Equal(t, "info", resp["log_level"])
	assert.Contains(t, resp, "metrics")

	_, resp = f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, "deskshell", resp["service"])
}

func TestStreamLogs(t *testing.T) {
	f := setup(t)

	body := `{"source":"ui","entries":[
		{"id":"a","level":"error","message":"boom","context":{"component":"Dock"}},
		{"id":"b","level":"debug","message":"hidden"},
		{"id":"c","level":"verbose","message":"also hidden"}
	]}`
	w, resp := f.do(t, http.MethodPost, "/logs", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), resp["entries_received"])

	entries := f.logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, "ui", entries[0].LoggerName)
	assert.Equal(t, "Dock", entries[0].ContextMap()["component"])
	assert.Equal(t, "ui", entries[0].ContextMap()["source"])
}

func TestStreamLogsValidation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"wrong source", `{"source":"native","entries":[{"level":"info","message":"x"}]}`},
		{"no entries", `{"source":"ui","entries":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := f.do(t, http.MethodPost, "/logs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, f.logs.Len())
}

func TestInjectTray(t *testing.T) {
	f := setup(t)

	w, resp := f.do(t, http.MethodPost, "/tray", `{"kind":"left_click","position":{"x":4,"y":5}}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "left_click", resp["queued"])
	require.Len(t, f.tray.events, 1)
	assert.Equal(t, window.TrayLeftClick, f.tray.events[0].Kind)
	assert.Equal(t, float64(4), f.tray.events[0].Position.X)

	w, _ = f.do(t, http.MethodPost, "/tray", `{"kind":"wiggle"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.tray.err = shell.ErrEventQueueFull
	w, _ = f.do(t, http.MethodPost, "/tray", `{"kind":"enter"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// UILogEntry represents a log entry from the UI
type UILogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context"`
	Timestamp string                 `json:"timestamp"`
}

// UILogStreamRequest represents a batch of logs from the UI
type UILogStreamRequest struct {
	Source  string       `json:"source"`
	Entries []UILogEntry `json:"entries"`
}

// StreamLogs takes a batch of UI log entries and passes each through the
// severity gate like any native record.
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log request format"})
		return
	}
	if req.Source != "ui" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log source"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No log entries provided"})
		return
	}

	for _, entry := range req.Entries {
		h.emitter.Emit(uiRecord(entry))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

// uiRecord converts an entry. "verbose" maps to trace; unknown levels are
// logged at info.
func uiRecord(entry UILogEntry) logging.Record {
	level, err := logging.ParseLevel(entry.Level)
	if err != nil {
		if strings.EqualFold(entry.Level, "verbose") {
			level = logging.TraceLevel
		} else {
			level = logging.InfoLevel
		}
	}

	fields := make([]zap.Field, 0, len(entry.Context)+3)
	fields = append(fields, zap.String("source", "ui"))
	if entry.ID != "" {
		fields = append(fields, zap.String("ui_log_id", entry.ID))
	}
	if entry.Timestamp != "" {
		fields = append(fields, zap.String("ui_timestamp", entry.Timestamp))
	}
	for key, value := range entry.Context {
		fields = append(fields, zap.Any(key, value))
	}

	r := logging.NewRecord(level, entry.Message, fields...)
	r.LoggerName = "ui"
	r.Caller = zapcore.EntryCaller{}
	return r
}

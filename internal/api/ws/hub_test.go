package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRecorder struct {
	mu       sync.Mutex
	conns    int
	messages map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{messages: make(map[string]int)}
}

func (r *countingRecorder) IncWSConnections() { r.mu.Lock(); r.conns++; r.mu.Unlock() }
func (r *countingRecorder) DecWSConnections() { r.mu.Lock(); r.conns--; r.mu.Unlock() }
func (r *countingRecorder) RecordWSMessage(direction, msgType string) {
	r.mu.Lock()
	r.messages[direction+"/"+msgType]++
	r.mu.Unlock()
}

func (r *countingRecorder) connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns
}

func (r *countingRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[key]
}

type fakeInvoker struct{}

func (fakeInvoker) Execute(_ context.Context, name string, args map[string]interface{}) (*types.Result, error) {
	if name != "echo" {
		return types.Failure("Unknown command: " + name), errors.New("unknown")
	}
	return types.Success(args), nil
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	rec := newCountingRecorder()
	hub := NewHub(rec)
	hub.buffer = 1

	c, ok := hub.register()
	require.True(t, ok)
	assert.Equal(t, 1, hub.Len())
	assert.Equal(t, 1, rec.connections())

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Equal(t, []byte("a"), <-c.send)
	assert.Equal(t, 1, rec.count("out/log"))
	assert.Equal(t, 1, rec.count("dropped/log"))

	hub.unregister(c)
	hub.unregister(c)
	assert.Equal(t, 0, hub.Len())
	assert.Equal(t, 0, rec.connections())
}

func TestHubCloseRejectsNewClients(t *testing.T) {
	hub := NewHub(nil)
	c, ok := hub.register()
	require.True(t, ok)

	hub.Close()
	_, open := <-c.send
	assert.False(t, open)

	_, ok = hub.register()
	assert.False(t, ok)
	assert.NotPanics(t, func() { hub.Broadcast([]byte("late")) })
}

func TestReplyAfterCloseIsDropped(t *testing.T) {
	rec := newCountingRecorder()
	hub := NewHub(rec)
	h := NewHandler(hub, fakeInvoker{}, zap.NewNop())
	c, ok := hub.register()
	require.True(t, ok)

	hub.Close()
	assert.NotPanics(t, func() {
		h.reply(c, types.WSMessage{Type: types.MessagePong})
	})
	assert.False(t, c.trySend([]byte("late")))
	assert.NotPanics(t, c.close)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Zero(t, rec.messages["out/"+types.MessagePong])
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", NewHandler(hub, fakeInvoker{}, zap.NewNop()).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) types.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg types.WSMessage
	require.NoError(t, sonic.Unmarshal(data, &msg))
	return msg
}

func TestHandlerInvoke(t *testing.T) {
	srv := newTestServer(t, NewHub(nil))
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(types.WSMessage{
		Type:    types.MessageInvoke,
		ID:      "1",
		Command: "echo",
		Args:    map[string]interface{}{"v": "x"},
	}))
	msg := readMessage(t, conn)
	assert.Equal(t, types.MessageResult, msg.Type)
	assert.Equal(t, "1", msg.ID)
	require.NotNil(t, msg.Result)
	assert.True(t, msg.Result.Success)
	assert.Equal(t, "x", msg.Result.Data["v"])

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: types.MessageInvoke, ID: "2", Command: "nope"}))
	msg = readMessage(t, conn)
	require.NotNil(t, msg.Result)
	assert.False(t, msg.Result.Success)
	require.NotNil(t, msg.Result.Error)
	assert.Equal(t, "Unknown command: nope", *msg.Result.Error)
}

func TestHandlerPingAndErrors(t *testing.T) {
	srv := newTestServer(t, NewHub(nil))
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: types.MessagePing}))
	assert.Equal(t, types.MessagePong, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, types.MessageError, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: "bogus", ID: "9"}))
	msg := readMessage(t, conn)
	assert.Equal(t, types.MessageError, msg.Type)
	assert.Equal(t, "9", msg.ID)

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: types.MessageInvoke, ID: "3"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "command required", msg.Message)
}

func TestHandlerReceivesBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := newTestServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Broadcast([]byte(`{"type":"log","record":{"msg":"hi"}}`))

	msg := readMessage(t, conn)
	assert.Equal(t, types.MessageLog, msg.Type)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

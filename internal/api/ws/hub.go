package ws

import (
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/shared/id"
)

// Recorder receives connection and message counts.
type Recorder interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

type nopRecorder struct{}

func (nopRecorder) IncWSConnections()              {}
func (nopRecorder) DecWSConnections()              {}
func (nopRecorder) RecordWSMessage(string, string) {}

// DefaultSendBuffer is the number of frames queued per client.
const DefaultSendBuffer = 256

// Hub tracks connected clients. Broadcast never blocks and never logs, so it
// is safe to call from inside a log sink.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	closed   bool
	recorder Recorder
	buffer   int
}

// NewHub creates an empty hub. A nil recorder disables metrics.
func NewHub(recorder Recorder) *Hub {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hub{
		clients:  make(map[*client]struct{}),
		recorder: recorder,
		buffer:   DefaultSendBuffer,
	}
}

// client is one connection's outbound queue.
type client struct {
	id   id.ClientID
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// trySend queues frame unless the buffer is full or the client is closed.
func (c *client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (h *Hub) register() (*client, bool) {
	c := &client{id: id.NewClientID(), send: make(chan []byte, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[c] = struct{}{}
	h.recorder.IncWSConnections()
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.recorder.DecWSConnections()
}

// Broadcast queues frame for every client. Clients with a full queue miss
// the frame.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.trySend(frame) {
			h.recorder.RecordWSMessage("out", "log")
		} else {
			h.recorder.RecordWSMessage("dropped", "log")
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
		h.recorder.DecWSConnections()
	}
}

// Package id generates sortable, prefixed identifiers for requests and IPC
// clients.
//
// IDs are ULIDs (lexicographically sortable by creation time) with a short
// type prefix so they read well in logs:
//
//	req_01HZX3J5T6G0M3S8Q2V1W7Y9KB
//	client_01HZX3J5T6G0M3S8Q2V1W7Y9KC
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an HTTP request or IPC invocation
type RequestID string

// ClientID identifies an IPC websocket connection
type ClientID string

const (
	RequestPrefix = "req"
	ClientPrefix  = "client"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(nil)
	})
	return defaultGenerator
}

// NewGenerator creates a generator. A nil entropy source means crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix creates a prefixed ULID string
func (g *Generator) WithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().WithPrefix(RequestPrefix))
}

// NewClientID generates a new IPC client ID
func NewClientID() ClientID {
	return ClientID(Default().WithPrefix(ClientPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id ClientID) String() string  { return string(id) }

// Timestamp extracts the creation time from a prefixed or bare ID
func Timestamp(s string) (time.Time, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	parsed, err := ulid.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

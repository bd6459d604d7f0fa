package logging

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Registry is the ordered, fixed set of sinks. It never changes after
// construction, so readers need no lock.
type Registry struct {
	sinks []*Sink
}

// NewRegistry validates and freezes the sink list.
func NewRegistry(sinks ...*Sink) (*Registry, error) {
	seen := make(map[string]struct{}, len(sinks))
	frozen := make([]*Sink, 0, len(sinks))
	for i, s := range sinks {
		if s == nil {
			return nil, fmt.Errorf("sink %d is nil", i)
		}
		if s.name == "" {
			return nil, errors.New("sink name is required")
		}
		if _, dup := seen[s.name]; dup {
			return nil, fmt.Errorf("sink %q already registered", s.name)
		}
		seen[s.name] = struct{}{}
		frozen = append(frozen, s)
	}
	return &Registry{sinks: frozen}, nil
}

// Sinks returns the sinks in registration order.
func (r *Registry) Sinks() []*Sink {
	out := make([]*Sink, len(r.sinks))
	copy(out, r.sinks)
	return out
}

// Len returns the number of sinks.
func (r *Registry) Len() int {
	return len(r.sinks)
}

// Lookup returns the first sink of the given kind.
func (r *Registry) Lookup(kind SinkKind) (*Sink, bool) {
	for _, s := range r.sinks {
		if s.kind == kind {
			return s, true
		}
	}
	return nil, false
}

// Sync flushes every sink.
func (r *Registry) Sync() error {
	var err error
	for _, s := range r.sinks {
		err = multierr.Append(err, s.Sync())
	}
	return err
}

// Close closes every sink, reporting all failures.
func (r *Registry) Close() error {
	var err error
	for _, s := range r.sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

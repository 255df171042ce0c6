package publishers

import (
	"context"
	"fmt"
	"sync"
)

// Builder creates a Publisher from its configuration.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry interface {
	Register(pubType string, builder Builder) error
	PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty builder registry.
func NewRegistry() Registry {
	return &registry{builders: make(map[string]Builder)}
}

func (r *registry) Register(pubType string, builder Builder) error {
	if pubType == "" {
		return fmt.Errorf("publisher type is empty")
	}
	if builder == nil {
		return fmt.Errorf("builder for type %q is nil", pubType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[pubType]; exists {
		return fmt.Errorf("builder for type %q already registered", pubType)
	}
	r.builders[pubType] = builder
	return nil
}

func (r *registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	r.mu.RLock()
	builder, ok := r.builders[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no builder registered for publisher type %q", cfg.Type)
	}
	return builder(ctx, cfg, log)
}

// DefaultRegistry returns a registry with all built-in publisher types.
func DefaultRegistry() Registry {
	reg := NewRegistry()
	// Registrations cannot collide on a fresh registry.
	_ = reg.Register(TypeQueue, newQueuePublisher)
	_ = reg.Register(TypeHTTP, newHTTPPublisher)
	return reg
}

// BuildAll constructs publishers for every enabled config entry.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	log = ensureLogger(log)

	out := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		if !cfg.EnabledValue() {
			continue
		}
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		out = append(out, pub)
	}
	return out, nil
}

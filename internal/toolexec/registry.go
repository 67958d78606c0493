// Package toolexec implements the tool execution pipeline: a tool
// registry, input validation, a permission gateway, vendor quotas and a
// DAG executor that dispatches plan steps to vendor adapters and
// normalizes the outcome.
package toolexec

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// Registry holds the tool descriptors available to plan execution.
// The set is populated at construction time; Update and Unregister
// exist for administrative paths and are guarded by the same lock.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]domain.ToolDescriptor
}

// NewRegistry returns an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]domain.ToolDescriptor)}
}

func validateDescriptor(d domain.ToolDescriptor) error {
	if d.Name == "" {
		return fmt.Errorf("op=toolexec.validateDescriptor: %w: missing tool name", domain.ErrInvalidArgument)
	}
	if d.Vendor == "" {
		return fmt.Errorf("op=toolexec.validateDescriptor: %w: tool %q has no vendor", domain.ErrInvalidArgument, d.Name)
	}
	if d.InputSchema.Type == "" {
		return fmt.Errorf("op=toolexec.validateDescriptor: %w: tool %q has no input schema", domain.ErrInvalidArgument, d.Name)
	}
	return nil
}

// Register adds a new tool. Registering an existing name fails with
// ErrConflict; use Update to replace a descriptor.
func (r *Registry) Register(d domain.ToolDescriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[d.Name]; ok {
		return fmt.Errorf("op=toolexec.(*Registry).Register: %w: tool %q already registered", domain.ErrConflict, d.Name)
	}
	r.tools[d.Name] = d
	slog.Debug("tool registered",
		slog.String("tool", d.Name),
		slog.String("vendor", d.Vendor))
	return nil
}

// Update replaces the descriptor of an already registered tool.
func (r *Registry) Update(d domain.ToolDescriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[d.Name]; !ok {
		return fmt.Errorf("op=toolexec.(*Registry).Update: %w: tool %q", domain.ErrNotFound, d.Name)
	}
	r.tools[d.Name] = d
	return nil
}

// Unregister removes a tool by name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; !ok {
		return fmt.Errorf("op=toolexec.(*Registry).Unregister: %w: tool %q", domain.ErrNotFound, name)
	}
	delete(r.tools, name)
	return nil
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (domain.ToolDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	if !ok {
		return domain.ToolDescriptor{}, fmt.Errorf("op=toolexec.(*Registry).Get: %w: tool %q", domain.ErrNotFound, name)
	}
	return d, nil
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []domain.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ToolDescriptor, 0, len(r.tools))
	for _, d := range r.tools {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Package provider collects the concrete model adapters behind the
// domain.ModelProvider port and resolves them by provider name for the
// dispatcher.
package provider

import (
	"sort"
	"sync"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// Directory maps provider names to their adapters. Registration happens
// at startup; lookups are concurrent.
type Directory struct {
	mu       sync.RWMutex
	adapters map[string]domain.ModelProvider
}

// NewDirectory builds a directory holding the given adapters, keyed by
// their Name().
func NewDirectory(providers ...domain.ModelProvider) *Directory {
	d := &Directory{adapters: make(map[string]domain.ModelProvider, len(providers))}
	for _, p := range providers {
		d.Register(p)
	}
	return d
}

// Register adds or replaces the adapter under its own name. Nil
// adapters are ignored.
func (d *Directory) Register(p domain.ModelProvider) {
	if p == nil || p.Name() == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.adapters[p.Name()] = p
}

// Get resolves an adapter by provider name.
func (d *Directory) Get(name string) (domain.ModelProvider, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.adapters[name]
	return p, ok
}

// Available reports whether the named provider is registered and its
// adapter is ready to serve calls.
func (d *Directory) Available(name string) bool {
	p, ok := d.Get(name)
	return ok && p.Available()
}

// Names returns the registered provider names, sorted.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.adapters))
	for name := range d.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

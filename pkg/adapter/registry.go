package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Factory creates an unconnected adapter. A nil logger means discard.
type Factory func(*slog.Logger) Adapter

// factories maps a lower-cased target type to its constructor. Driver
// packages fill it from init(), so a binary only knows the targets it links.
var factories = struct {
	sync.RWMutex
	m map[string]Factory
}{m: map[string]Factory{}}

// Register makes a target type available. Names are case-insensitive and a
// later registration replaces an earlier one.
func Register(name string, factory Factory) {
	factories.Lock()
	factories.m[strings.ToLower(name)] = factory
	factories.Unlock()
}

// Get returns the factory registered for name.
func Get(name string) (Factory, bool) {
	factories.RLock()
	defer factories.RUnlock()
	f, ok := factories.m[strings.ToLower(name)]
	return f, ok
}

// IsRegistered reports whether name is a known target type.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// ListAdapters returns the registered target types in sorted order.
func ListAdapters() []string {
	factories.RLock()
	names := make([]string, 0, len(factories.m))
	for name := range factories.m {
		names = append(names, name)
	}
	factories.RUnlock()
	sort.Strings(names)
	return names
}

// NewAdapter builds the adapter for cfg.Type. It does not connect.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// UnknownAdapterError names a target type no driver package registered.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q (available: %s); check target.type in leapsp.yaml",
		e.Type, strings.Join(e.Available, ", "))
}

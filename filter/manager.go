package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Manager holds named filters, such as presets loaded from config
type Manager struct {
	compiler          Compiler
	defaultExpression string
	filters           map[string]CompiledFilter
	mu                sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithDefaultExpression sets the expression used when neither an explicit
// expression nor a preset is requested
func WithDefaultExpression(expression string) ManagerOption {
	return func(m *Manager) {
		m.defaultExpression = expression
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	// Compile all filters first
	for name, expr := range filters {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve picks the filter to apply. Priority: explicit expression > preset >
// default. A nil filter with a nil error means no filtering.
func (m *Manager) Resolve(expression, preset string) (CompiledFilter, error) {
	if strings.TrimSpace(expression) != "" {
		return m.compiler.Compile(expression)
	}

	if preset != "" {
		if filter, ok := m.GetFilter(preset); ok {
			return filter, nil
		}
		return nil, fmt.Errorf("preset '%s' not found in config", preset)
	}

	if m.defaultExpression != "" {
		return m.compiler.Compile(m.defaultExpression)
	}

	return nil, nil
}

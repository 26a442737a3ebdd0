package status

import (
	"sort"
	"sync"
)

// MetricMap maps names to metric cells of type T.
// Lookup takes a lock; the returned pointer is stable and lock-free to use.
type MetricMap[T any] struct {
	mu    sync.RWMutex
	cells map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{cells: make(map[string]*T)}
}

// Get returns the cell for name, allocating it on first use
func (m *MetricMap[T]) Get(name string) *T {
	m.mu.RLock()
	cell, ok := m.cells[name]
	m.mu.RUnlock()
	if ok {
		return cell
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cell, ok = m.cells[name]; ok {
		return cell
	}
	cell = new(T)
	m.cells[name] = cell
	return cell
}

// Has reports whether name has been registered
func (m *MetricMap[T]) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cells[name]
	return ok
}

// Keys returns the registered names in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for every cell in name order
func (m *MetricMap[T]) Range(fn func(name string, cell *T)) {
	for _, k := range m.Keys() {
		fn(k, m.Get(k))
	}
}

// Len returns the number of cells
func (m *MetricMap[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cells)
}

package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor opens a slot at location. The meaning of location is up to
// the backend (a directory for file, a database path for sqlite).
type Constructor func(location string) (Slot, error)

var (
	registryMu   sync.RWMutex
	constructors = make(map[string]Constructor)
)

// Register makes a slot backend available by name.
// Backends call this from their init() function.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	constructors[name] = constructor
}

// Open opens the named backend at location.
func Open(name, location string) (Slot, error) {
	registryMu.RLock()
	constructor, ok := constructors[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend: %q (available: %v)", name, Names())
	}
	return constructor(location)
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

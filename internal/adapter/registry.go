package adapter

import (
	"fmt"
	"sort"
	"sync"

	"RefDesk/internal/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	factoryMu       sync.RWMutex
	factoryRegistry = make(map[string]interfaces.SourceFactory)
)

// Register is called from the init function of each source kind.
func Register(kind string, factory interfaces.SourceFactory) {
	if factory == nil {
		panic(fmt.Sprintf("source factory for %q is nil", kind))
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factoryRegistry[kind]; exists {
		logrus.Warnf("source kind %s registered twice, overriding", kind)
	}
	factoryRegistry[kind] = factory
}

// GetFactory returns the factory registered for kind.
func GetFactory(kind string) (interfaces.SourceFactory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	factory, ok := factoryRegistry[kind]
	return factory, ok
}

// ListFactories returns the registered kinds, sorted.
func ListFactories() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	kinds := make([]string, 0, len(factoryRegistry))
	for k := range factoryRegistry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

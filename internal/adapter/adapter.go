package adapter

import (
	"fmt"
	"sort"

	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// SourceRegistry holds one TableSource per configured source name.
type SourceRegistry struct {
	logger  *logrus.Logger
	sources map[string]interfaces.TableSource
}

// NewSourceRegistry instantiates every configured source through the factory
// of its kind. Sources with an unknown kind or a bad config are logged and
// skipped; the loader then reports them as absent.
func NewSourceRegistry(cfg *config.Config, logger *logrus.Logger) *SourceRegistry {
	r := &SourceRegistry{
		logger:  logger,
		sources: make(map[string]interfaces.TableSource),
	}
	logger.WithField("kinds", ListFactories()).Debug("registered source kinds")

	for name, sourceCfg := range cfg.Sources {
		sourceCfg := sourceCfg
		log := logger.WithFields(logrus.Fields{"source": name, "kind": sourceCfg.Kind})

		factory, ok := GetFactory(sourceCfg.Kind)
		if !ok {
			log.Error("no factory for source kind")
			continue
		}
		src, err := factory(name, &sourceCfg, logger)
		if err != nil {
			log.WithError(err).Error("source init failed")
			continue
		}
		r.sources[name] = src
	}
	logger.WithField("sources", r.Names()).Info("table sources ready")
	return r
}

// NewStaticRegistry wraps already-built sources, mostly for tests.
func NewStaticRegistry(logger *logrus.Logger, sources ...interfaces.TableSource) *SourceRegistry {
	r := &SourceRegistry{logger: logger, sources: make(map[string]interfaces.TableSource)}
	for _, s := range sources {
		r.sources[s.Name()] = s
	}
	return r
}

// Get returns the source registered under name.
func (r *SourceRegistry) Get(name string) (interfaces.TableSource, error) {
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("source %s not configured (configured: %v)", name, r.Names())
	}
	return src, nil
}

// Names lists configured source names, sorted.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for n := range r.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

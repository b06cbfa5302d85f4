package repository

import (
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
)

type registryImpl struct {
	configs []collection.Config
	byAddr  map[domain.Address]*collection.Config
}

// NewRegistry builds the in-memory collection registry from configuration.
// The set is fixed for the process lifetime.
func NewRegistry(configs []collection.Config) collection.Registry {
	im := &registryImpl{
		configs: configs,
		byAddr:  make(map[domain.Address]*collection.Config, len(configs)),
	}
	for i := range configs {
		cfg := &im.configs[i]
		im.byAddr[cfg.Address.ToLower()] = cfg
	}
	return im
}

func (im *registryImpl) All() []collection.Config {
	return im.configs
}

func (im *registryImpl) Get(addr domain.Address) (*collection.Config, bool) {
	cfg, ok := im.byAddr[addr.ToLower()]
	return cfg, ok
}

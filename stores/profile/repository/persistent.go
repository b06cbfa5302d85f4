package repository

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/profile"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider"
)

type impl struct {
	cache cache.Service
}

// NewPersistent keeps profile records on the persistent provider so display
// names survive restarts. Records are advisory, losing them only costs a
// re-resolve.
func NewPersistent(p provider.Provider, ttl time.Duration) profile.Repo {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &impl{
		cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxProfile,
			Cache: p,
		}),
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*profile.Profile, error) {
	p := profile.Profile{}
	if err := im.cache.Get(c, keys.CacheKey(address.ToLowerStr()), &p); err != nil {
		if err == cache.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (im *impl) Store(c ctx.Ctx, p *profile.Profile) error {
	return im.cache.Set(c, keys.CacheKey(p.Address.ToLowerStr()), p)
}

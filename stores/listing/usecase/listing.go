package usecase

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

const defaultPageSize = 100

type ListingUseCaseCfg struct {
	Repo     listing.Repo
	PageSize uint64
	CacheTtl time.Duration
}

type impl struct {
	repo     listing.Repo
	pageSize uint64
	cache    cache.Service
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	ttl := cfg.CacheTtl
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &impl{
		repo:     cfg.Repo,
		pageSize: pageSize,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   "listing_cache",
			Cache: primitive.NewPrimitive("listing_cache", 64),
		}),
	}
}

func (im *impl) GetByCollection(c ctx.Ctx, assetContract domain.Address) (*listing.Page, error) {
	key := keys.CacheKey(assetContract.ToLowerStr())
	page := listing.Page{}
	if err := im.cache.GetByFunc(c, key, &page, func() (interface{}, error) {
		return im.fetchAll(c, assetContract)
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

func (im *impl) GetActiveByCollection(c ctx.Ctx, assetContract domain.Address) (*listing.Page, error) {
	page, err := im.GetByCollection(c, assetContract)
	if err != nil {
		return nil, err
	}
	active := make([]*listing.Listing, 0, len(page.Listings))
	for _, l := range page.Listings {
		if l.Status == listing.StatusCreated {
			active = append(active, l)
		}
	}
	return &listing.Page{Listings: active, Total: page.Total}, nil
}

func (im *impl) Invalidate(c ctx.Ctx, assetContract domain.Address) error {
	return im.cache.Del(c, keys.CacheKey(assetContract.ToLowerStr()))
}

// fetchAll pages through the contract's listing view. The total is read
// first and pages are pulled until it is covered; an unexpectedly empty
// page ends the loop so a contract-side count drift cannot spin forever.
func (im *impl) fetchAll(c ctx.Ctx, assetContract domain.Address) (*listing.Page, error) {
	total, err := im.repo.CountByCollection(c, assetContract)
	if err != nil {
		return nil, err
	}
	listings := make([]*listing.Listing, 0, total)
	for start := uint64(0); start < total; start += im.pageSize {
		count := im.pageSize
		if remaining := total - start; remaining < count {
			count = remaining
		}
		batch, err := im.repo.FindByCollection(c, assetContract, start, count)
		if err != nil {
			c.WithFields(log.Fields{
				"assetContract": assetContract,
				"start":         start,
				"count":         count,
				"err":           err,
			}).Error("repo.FindByCollection failed")
			return nil, err
		}
		if len(batch) == 0 {
			c.WithFields(log.Fields{
				"assetContract": assetContract,
				"start":         start,
				"total":         total,
			}).Warn("listing page came back empty before total was covered")
			break
		}
		listings = append(listings, batch...)
	}
	return &listing.Page{Listings: listings, Total: len(listings)}, nil
}

package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/viney-shih/goroutines"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/domain/tokenstatus"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/chain/contract"
)

const defaultTtl = 24 * time.Hour

// checkRecord is the cached outcome of the two on-chain checks. Expiry is
// deliberately absent, it is recomputed from the clock on every read.
type checkRecord struct {
	IsNotApproved   bool      `json:"isNotApproved"`
	IsOwnerMismatch bool      `json:"isOwnerMismatch"`
	CheckedAt       time.Time `json:"checkedAt"`
}

type ReconcilerCfg struct {
	Erc721      contract.Erc721Contract
	Marketplace domain.Address
	Cache       cache.Service
	// Ttl is how long a check outcome stays fresh, default 24h
	Ttl time.Duration
	// Workers sizes the background recheck pool
	Workers int
}

type impl struct {
	erc721      contract.Erc721Contract
	marketplace domain.Address
	cache       cache.Service
	ttl         time.Duration
	pool        *goroutines.Pool

	bgCtx    ctx.Ctx
	bgCancel func()
	wg       sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(cfg *ReconcilerCfg) tokenstatus.Reconciler {
	ttl := cfg.Ttl
	if ttl == 0 {
		ttl = defaultTtl
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	bgCtx, cancel := ctx.WithCancel(ctx.Background())
	return &impl{
		erc721:      cfg.Erc721,
		marketplace: cfg.Marketplace,
		cache:       cfg.Cache,
		ttl:         ttl,
		pool:        goroutines.NewPool(workers, goroutines.WithTaskQueueLength(1024)),
		bgCtx:       bgCtx,
		bgCancel:    cancel,
		inflight:    make(map[string]struct{}),
	}
}

func (im *impl) Reconcile(c ctx.Ctx, assetContract domain.Address, listings []*listing.Listing) (tokenstatus.Snapshot, error) {
	now := time.Now()
	snapshot := make(tokenstatus.Snapshot, len(listings))
	for _, l := range listings {
		d := &tokenstatus.Derived{
			ListingId: l.ListingId,
			IsExpired: l.IsExpired(now),
		}
		rec := checkRecord{}
		err := im.cache.Get(c, im.key(assetContract, l.ListingId), &rec)
		if err == nil && now.Sub(rec.CheckedAt) < im.ttl {
			d.IsNotApproved = rec.IsNotApproved
			d.IsOwnerMismatch = rec.IsOwnerMismatch
			d.Known = true
			d.CheckedAt = rec.CheckedAt
		} else {
			im.warm(c, assetContract, l)
		}
		snapshot[l.ListingId] = d
	}
	return snapshot, nil
}

func (im *impl) Refresh(c ctx.Ctx, assetContract domain.Address, listings []*listing.Listing) (tokenstatus.Snapshot, error) {
	now := time.Now()
	snapshot := make(tokenstatus.Snapshot, len(listings))
	for _, l := range listings {
		d := &tokenstatus.Derived{
			ListingId: l.ListingId,
			IsExpired: l.IsExpired(now),
		}
		if rec, err := im.check(c, assetContract, l); err != nil {
			// fail open, the flags stay unknown
			c.WithFields(log.Fields{
				"assetContract": assetContract,
				"listingId":     l.ListingId,
				"err":           err,
			}).Warn("status check failed")
		} else {
			d.IsNotApproved = rec.IsNotApproved
			d.IsOwnerMismatch = rec.IsOwnerMismatch
			d.Known = true
			d.CheckedAt = rec.CheckedAt
		}
		snapshot[l.ListingId] = d
	}
	return snapshot, nil
}

func (im *impl) Close() {
	im.bgCancel()
	im.wg.Wait()
	im.pool.Release()
}

// warm schedules a background recheck for one listing, deduplicating ids
// already in flight so a hot collection does not queue the same work twice.
func (im *impl) warm(c ctx.Ctx, assetContract domain.Address, l *listing.Listing) {
	key := im.key(assetContract, l.ListingId)

	im.mu.Lock()
	if _, busy := im.inflight[key]; busy {
		im.mu.Unlock()
		return
	}
	im.inflight[key] = struct{}{}
	im.mu.Unlock()

	im.wg.Add(1)
	err := im.pool.Schedule(func() {
		defer im.wg.Done()
		defer func() {
			im.mu.Lock()
			delete(im.inflight, key)
			im.mu.Unlock()
		}()
		if im.bgCtx.Err() != nil {
			return
		}
		if _, err := im.check(im.bgCtx, assetContract, l); err != nil {
			im.bgCtx.WithFields(log.Fields{
				"assetContract": assetContract,
				"listingId":     l.ListingId,
				"err":           err,
			}).Warn("background status check failed")
		}
	})
	if err != nil {
		im.wg.Done()
		im.mu.Lock()
		delete(im.inflight, key)
		im.mu.Unlock()
		c.WithField("err", err).Warn("pool.Schedule failed")
	}
}

// check runs both on-chain checks and stores the outcome. An ownerOf failure
// reads as the zero address, which flags a mismatch: burned tokens must not
// look buyable.
func (im *impl) check(c ctx.Ctx, assetContract domain.Address, l *listing.Listing) (*checkRecord, error) {
	approved, err := im.erc721.IsApprovedForAll(c, assetContract.ToLowerStr(), string(l.Creator), string(im.marketplace))
	if err != nil {
		return nil, err
	}

	tokenId, err := l.TokenId.ToBigInt()
	if err != nil {
		return nil, err
	}
	currentOwner := domain.EmptyAddress
	if res, err := im.erc721.OwnerOf(c, assetContract.ToLowerStr(), tokenId); err == nil {
		currentOwner = domain.Address(res)
	}

	rec := &checkRecord{
		IsNotApproved:   !approved,
		IsOwnerMismatch: !currentOwner.Equals(l.Creator),
		CheckedAt:       time.Now(),
	}
	if err := im.cache.Set(c, im.key(assetContract, l.ListingId), rec); err != nil {
		c.WithField("err", err).Warn("cache.Set failed")
	}
	return rec, nil
}

func (im *impl) key(assetContract domain.Address, listingId uint64) string {
	return keys.CacheKey(assetContract.ToLowerStr(), fmt.Sprint(listingId))
}

package tokenstatus

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/listing"
)

// Derived is the advisory, client-computed annotation for one listing. It is
// never authoritative: the contract performs its own checks at execution
// time, so these flags only warn, they must not block an attempt.
type Derived struct {
	ListingId       uint64 `json:"listingId"`
	IsExpired       bool   `json:"isExpired"`
	IsNotApproved   bool   `json:"isNotApproved"`
	IsOwnerMismatch bool   `json:"isOwnerMismatch"`
	// Known is false while the on-chain checks for this id are still pending.
	// IsExpired is valid regardless, it needs no network read.
	Known     bool      `json:"known"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Purchasable reports whether the buy action should be offered. An expired
// listing is never purchasable; the other two flags only apply once known.
func (d *Derived) Purchasable() bool {
	if d.IsExpired {
		return false
	}
	if !d.Known {
		return true // fail open
	}
	return !d.IsNotApproved && !d.IsOwnerMismatch
}

// Snapshot maps listing id to its current annotation.
type Snapshot map[uint64]*Derived

type Reconciler interface {
	// Reconcile returns the current snapshot for the given listings
	// immediately, kicking off background computation for ids that are
	// unknown or stale. Partial results are expected.
	Reconcile(c ctx.Ctx, contract domain.Address, listings []*listing.Listing) (Snapshot, error)
	// Refresh recomputes every listing's flags synchronously.
	Refresh(c ctx.Ctx, contract domain.Address, listings []*listing.Listing) (Snapshot, error)
	// Close cancels in-flight background work and waits for it to stop.
	Close()
}

package listing

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

type Status uint8

const (
	StatusUnset Status = iota
	StatusCreated
	StatusCompleted
	StatusCancelled
)

// Listing mirrors one marketplace sale offer as stored on chain. The client
// never mutates a listing locally, it only re-fetches.
type Listing struct {
	ListingId      uint64           `json:"listingId"`
	Creator        domain.Address   `json:"listingCreator"`
	AssetContract  domain.Address   `json:"assetContract"`
	TokenId        domain.TokenId   `json:"tokenId"`
	Quantity       uint64           `json:"quantity"`
	Currency       domain.Address   `json:"currency"`
	PricePerToken  string           `json:"pricePerToken"`
	StartTimestamp int64            `json:"startTimestamp"`
	EndTimestamp   int64            `json:"endTimestamp"`
	Reserved       bool             `json:"reserved"`
	TokenType      domain.TokenType `json:"tokenType"`
	Status         Status           `json:"status"`
}

// IsExpired is derived purely from the end timestamp against wall clock, so
// it is always current and never cached.
func (l *Listing) IsExpired(now time.Time) bool {
	return l.EndTimestamp > 0 && now.Unix() > l.EndTimestamp
}

// Page is a consistent snapshot of all listings for one collection, taken
// from one on-chain read sequence at the block observed at call time.
type Page struct {
	Listings []*Listing `json:"listings"`
	Total    int        `json:"total"`
}

// Repo reads listings straight from the marketplace contract.
type Repo interface {
	CountByCollection(ctx.Ctx, domain.Address) (uint64, error)
	FindByCollection(c ctx.Ctx, assetContract domain.Address, startIndex, count uint64) ([]*Listing, error)
}

type UseCase interface {
	GetByCollection(ctx.Ctx, domain.Address) (*Page, error)
	// GetActiveByCollection keeps only listings with status created.
	GetActiveByCollection(ctx.Ctx, domain.Address) (*Page, error)
	// Invalidate drops the cached snapshot for a collection. Call it after
	// any transaction touching that collection's listings.
	Invalidate(ctx.Ctx, domain.Address) error
}

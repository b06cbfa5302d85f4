package profile

import (
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

// Profile is the per-wallet display record. Everything in it is advisory and
// re-derivable; the cache copy is never a source of truth.
type Profile struct {
	Address     domain.Address `json:"address"`
	DisplayName string         `json:"displayName"`
	Avatar      string         `json:"avatar,omitempty"`
	// NftCount is the cached holdings total from the block explorer,
	// best-effort and zero when the explorer is unreachable.
	NftCount  int   `json:"nftCount"`
	UpdatedAt int64 `json:"updatedAt"`
}

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Profile, error)
	Store(c ctx.Ctx, p *Profile) error
}

type UseCase interface {
	Get(c ctx.Ctx, address domain.Address) (*Profile, error)
}

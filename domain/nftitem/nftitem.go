package nftitem

import (
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
	"github.com/inkmarket/goapi/domain/metadata"
)

// Source tags where an owned-asset record came from. Records are normalized
// into OwnedAsset once, at the boundary, so consumers never branch on shape.
type Source string

const (
	SourceOnChain  Source = "onchain"
	SourceRegistry Source = "registry"
)

type Id struct {
	ChainId         domain.ChainId `json:"chainId"`
	ContractAddress domain.Address `json:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId"`
}

// OwnedAsset is a token-ownership record for one wallet. It reflects the
// latest observed chain state only; ownership is not historized here.
type OwnedAsset struct {
	ChainId         domain.ChainId   `json:"chainId"`
	ContractAddress domain.Address   `json:"contractAddress"`
	// TokenId is empty for a registry name with no metadata cross-reference.
	TokenId   domain.TokenId   `json:"tokenId,omitempty"`
	TokenType domain.TokenType `json:"tokenType"`
	Owner     domain.Address   `json:"owner"`
	Source    Source           `json:"source"`
	// Name is the registry name for registry entries, or the metadata name
	// once joined.
	Name string `json:"name,omitempty"`
	// Unindexed marks a registry name that matched no metadata entry. It is
	// surfaced rather than dropped so the caller can still render the name.
	Unindexed bool           `json:"unindexed,omitempty"`
	Metadata  *metadata.Meta `json:"metadata"`
}

func (a *OwnedAsset) ToId() *Id {
	return &Id{ChainId: a.ChainId, ContractAddress: a.ContractAddress, TokenId: a.TokenId}
}

// CollectionResult carries one collection's resolution outcome. Collections
// are independent failure domains: one failing does not affect the others.
type CollectionResult struct {
	Contract domain.Address `json:"contract"`
	Assets   []*OwnedAsset  `json:"assets"`
	Error    string         `json:"error,omitempty"`
}

// Resolver determines which tokens a wallet currently holds across the
// configured collections.
type Resolver interface {
	Resolve(c ctx.Ctx, owner domain.Address) ([]*CollectionResult, error)
	ResolveCollection(c ctx.Ctx, cfg *collection.Config, owner domain.Address) ([]*OwnedAsset, error)
}

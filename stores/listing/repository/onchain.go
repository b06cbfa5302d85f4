package repository

import (
	"math/big"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/service/chain/contract"
)

type impl struct {
	marketplace contract.MarketplaceContract
	chainId     domain.ChainId
}

// NewOnChain creates the listing repo reading straight from the marketplace
// contract. There is no indexer in between, the contract view functions are
// the source of truth.
func NewOnChain(marketplace contract.MarketplaceContract, chainId domain.ChainId) listing.Repo {
	return &impl{
		marketplace: marketplace,
		chainId:     chainId,
	}
}

func (im *impl) CountByCollection(c ctx.Ctx, assetContract domain.Address) (uint64, error) {
	total, err := im.marketplace.TotalListingsByCollection(c, assetContract.ToCommon())
	if err != nil {
		c.WithFields(log.Fields{
			"assetContract": assetContract,
			"err":           err,
		}).Error("marketplace.TotalListingsByCollection failed")
		return 0, err
	}
	return total.Uint64(), nil
}

func (im *impl) FindByCollection(c ctx.Ctx, assetContract domain.Address, startIndex, count uint64) ([]*listing.Listing, error) {
	raws, err := im.marketplace.GetListingsByCollection(
		c,
		assetContract.ToCommon(),
		new(big.Int).SetUint64(startIndex),
		new(big.Int).SetUint64(count),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"assetContract": assetContract,
			"startIndex":    startIndex,
			"count":         count,
			"err":           err,
		}).Error("marketplace.GetListingsByCollection failed")
		return nil, err
	}
	listings := make([]*listing.Listing, 0, len(raws))
	for i := range raws {
		listings = append(listings, toListing(&raws[i]))
	}
	return listings, nil
}

func toListing(raw *contract.RawListing) *listing.Listing {
	tokenType := domain.TokenType721
	if raw.TokenType == 1 {
		tokenType = domain.TokenType1155
	}
	return &listing.Listing{
		ListingId:      raw.ListingId.Uint64(),
		Creator:        domain.Address(raw.ListingCreator.String()).ToLower(),
		AssetContract:  domain.Address(raw.AssetContract.String()).ToLower(),
		TokenId:        domain.TokenIdFromBigInt(raw.TokenId),
		Quantity:       raw.Quantity.Uint64(),
		Currency:       domain.Address(raw.Currency.String()),
		PricePerToken:  raw.PricePerToken.String(),
		StartTimestamp: raw.StartTimestamp.Int64(),
		EndTimestamp:   raw.EndTimestamp.Int64(),
		Reserved:       raw.Reserved,
		TokenType:      tokenType,
		Status:         listing.Status(raw.Status),
	}
}

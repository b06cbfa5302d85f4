package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/inkmarket/goapi/base/abi"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/chain"
	"golang.org/x/xerrors"
)

// RawListing mirrors the tuple layout returned by getListingsByCollection.
// Field order matters for abi.ConvertType.
type RawListing struct {
	ListingId      *big.Int
	ListingCreator common.Address
	AssetContract  common.Address
	TokenId        *big.Int
	Quantity       *big.Int
	Currency       common.Address
	PricePerToken  *big.Int
	StartTimestamp *big.Int
	EndTimestamp   *big.Int
	Reserved       bool
	TokenType      uint8
	Status         uint8
}

type MarketplaceContract interface {
	TotalListingsByCollection(ctx bCtx.Ctx, assetContract common.Address) (*big.Int, error)
	GetListingsByCollection(ctx bCtx.Ctx, assetContract common.Address, startIndex, count *big.Int) ([]RawListing, error)
}

type marketplace struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      int32
	addr         common.Address
}

func NewMarketplace(chainService chain.Client, chainId int32, addr common.Address) MarketplaceContract {
	return &marketplace{
		abi:          baseabi.MarketplaceABI,
		chainService: chainService,
		chainId:      chainId,
		addr:         addr,
	}
}

func (m *marketplace) TotalListingsByCollection(ctx bCtx.Ctx, assetContract common.Address) (*big.Int, error) {
	method := "totalListingsByCollection"
	unpacked, err := m.chainService.Call(ctx, m.chainId, m.addr, nil, m.abi, method, assetContract)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (m *marketplace) GetListingsByCollection(ctx bCtx.Ctx, assetContract common.Address, startIndex, count *big.Int) ([]RawListing, error) {
	method := "getListingsByCollection"
	unpacked, err := m.chainService.Call(ctx, m.chainId, m.addr, nil, m.abi, method, assetContract, startIndex, count)
	if err != nil {
		return nil, err
	}
	out, ok := ethabi.ConvertType(unpacked[0], new([]RawListing)).(*[]RawListing)
	if !ok {
		return nil, xerrors.Errorf("unexpected listing tuple shape")
	}
	return *out, nil
}

package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/inkmarket/goapi/base/abi"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/chain"
)

var (
	erc721InterfaceId     = interfaceId("80ac58cd")
	enumerableInterfaceId = interfaceId("780e9d63")
)

func interfaceId(hex string) [4]byte {
	var id [4]byte
	copy(id[:], common.Hex2Bytes(hex))
	return id
}

type Erc721Contract interface {
	Supports721Interface(ctx bCtx.Ctx, addr string) (bool, error)
	SupportsEnumerableInterface(ctx bCtx.Ctx, addr string) (bool, error)
	OwnerOf(ctx bCtx.Ctx, addr string, tokenId *big.Int) (string, error)
	BalanceOf(ctx bCtx.Ctx, addr string, owner string) (*big.Int, error)
	IsApprovedForAll(ctx bCtx.Ctx, addr string, owner, operator string) (bool, error)
	TokenOfOwnerByIndex(ctx bCtx.Ctx, addr string, owner string, index *big.Int) (*big.Int, error)
	TotalSupply(ctx bCtx.Ctx, addr string) (*big.Int, error)
	NextTokenIdToMint(ctx bCtx.Ctx, addr string) (*big.Int, error)
	StartTokenId(ctx bCtx.Ctx, addr string) (*big.Int, error)
}

type erc721 struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      int32
}

func NewErc721(chainService chain.Client, chainId int32) Erc721Contract {
	return &erc721{
		abi:          baseabi.ERC721TokenABI,
		chainService: chainService,
		chainId:      chainId,
	}
}

func (e *erc721) Supports721Interface(ctx bCtx.Ctx, addr string) (bool, error) {
	method := "supportsInterface"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *erc721) SupportsEnumerableInterface(ctx bCtx.Ctx, addr string) (bool, error) {
	method := "supportsInterface"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, enumerableInterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *erc721) OwnerOf(ctx bCtx.Ctx, addr string, tokenId *big.Int) (string, error) {
	method := "ownerOf"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, tokenId)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

func (e *erc721) BalanceOf(ctx bCtx.Ctx, addr string, owner string) (*big.Int, error) {
	method := "balanceOf"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc721) IsApprovedForAll(ctx bCtx.Ctx, addr string, owner, operator string) (bool, error) {
	method := "isApprovedForAll"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *erc721) TokenOfOwnerByIndex(ctx bCtx.Ctx, addr string, owner string, index *big.Int) (*big.Int, error) {
	method := "tokenOfOwnerByIndex"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner), index)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc721) TotalSupply(ctx bCtx.Ctx, addr string) (*big.Int, error) {
	method := "totalSupply"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc721) NextTokenIdToMint(ctx bCtx.Ctx, addr string) (*big.Int, error) {
	method := "nextTokenIdToMint"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc721) StartTokenId(ctx bCtx.Ctx, addr string) (*big.Int, error) {
	method := "startTokenId"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

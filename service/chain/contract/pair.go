package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/inkmarket/goapi/base/abi"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/chain"
)

type PairContract interface {
	GetReserves(ctx bCtx.Ctx, addr string) (reserve0, reserve1 *big.Int, err error)
	Token0(ctx bCtx.Ctx, addr string) (string, error)
	Token1(ctx bCtx.Ctx, addr string) (string, error)
}

type pair struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      int32
}

func NewPair(chainService chain.Client, chainId int32) PairContract {
	return &pair{
		abi:          baseabi.PairABI,
		chainService: chainService,
		chainId:      chainId,
	}
}

func (p *pair) GetReserves(ctx bCtx.Ctx, addr string) (*big.Int, *big.Int, error) {
	method := "getReserves"
	unpacked, err := p.chainService.Call(ctx, p.chainId, common.HexToAddress(addr), nil, p.abi, method)
	if err != nil {
		return nil, nil, err
	}
	return unpacked[0].(*big.Int), unpacked[1].(*big.Int), nil
}

func (p *pair) Token0(ctx bCtx.Ctx, addr string) (string, error) {
	method := "token0"
	unpacked, err := p.chainService.Call(ctx, p.chainId, common.HexToAddress(addr), nil, p.abi, method)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

func (p *pair) Token1(ctx bCtx.Ctx, addr string) (string, error) {
	method := "token1"
	unpacked, err := p.chainService.Call(ctx, p.chainId, common.HexToAddress(addr), nil, p.abi, method)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

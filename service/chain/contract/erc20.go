package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/inkmarket/goapi/base/abi"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/chain"
)

type Erc20Contract interface {
	BalanceOf(ctx bCtx.Ctx, addr string, owner string) (*big.Int, error)
	Allowance(ctx bCtx.Ctx, addr string, owner, spender string) (*big.Int, error)
	Decimals(ctx bCtx.Ctx, addr string) (uint8, error)
}

type erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      int32
}

func NewErc20(chainService chain.Client, chainId int32) Erc20Contract {
	return &erc20{
		abi:          baseabi.ERC20TokenABI,
		chainService: chainService,
		chainId:      chainId,
	}
}

func (e *erc20) BalanceOf(ctx bCtx.Ctx, addr string, owner string) (*big.Int, error) {
	method := "balanceOf"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc20) Allowance(ctx bCtx.Ctx, addr string, owner, spender string) (*big.Int, error) {
	method := "allowance"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method, common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *erc20) Decimals(ctx bCtx.Ctx, addr string) (uint8, error) {
	method := "decimals"
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr), nil, e.abi, method)
	if err != nil {
		return 0, err
	}
	return unpacked[0].(uint8), nil
}

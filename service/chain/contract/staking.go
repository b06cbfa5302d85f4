package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/inkmarket/goapi/base/abi"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/service/chain"
)

type StakingContract interface {
	TotalStaked(ctx bCtx.Ctx) (*big.Int, error)
	StakedBalances(ctx bCtx.Ctx, user string) (*big.Int, error)
	GetPendingRewards(ctx bCtx.Ctx, user string) (*big.Int, error)
}

type staking struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      int32
	addr         common.Address
}

func NewStaking(chainService chain.Client, chainId int32, addr common.Address) StakingContract {
	return &staking{
		abi:          baseabi.StakingABI,
		chainService: chainService,
		chainId:      chainId,
		addr:         addr,
	}
}

func (s *staking) TotalStaked(ctx bCtx.Ctx) (*big.Int, error) {
	method := "totalStaked"
	unpacked, err := s.chainService.Call(ctx, s.chainId, s.addr, nil, s.abi, method)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (s *staking) StakedBalances(ctx bCtx.Ctx, user string) (*big.Int, error) {
	method := "stakedBalances"
	unpacked, err := s.chainService.Call(ctx, s.chainId, s.addr, nil, s.abi, method, common.HexToAddress(user))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (s *staking) GetPendingRewards(ctx bCtx.Ctx, user string) (*big.Int, error) {
	method := "getPendingRewards"
	unpacked, err := s.chainService.Call(ctx, s.chainId, s.addr, nil, s.abi, method, common.HexToAddress(user))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

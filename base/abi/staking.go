package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var StakingABI abi.ABI

var stakingABI = `[{"type":"event","anonymous":false,"name":"Staked","inputs":[{"type":"address","name":"user","indexed":true},{"type":"uint256","name":"amount"}]},{"type":"function","name":"totalStaked","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"uint256"}]},{"type":"function","name":"stakedBalances","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"user"}],"outputs":[{"type":"uint256"}]},{"type":"function","name":"getPendingRewards","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"user"}],"outputs":[{"type":"uint256"}]},{"type":"function","name":"stake","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"amount"}],"outputs":[]},{"type":"function","name":"unstake","constant":false,"stateMutability":"payable","payable":true,"inputs":[{"type":"uint256","name":"amount"}],"outputs":[]},{"type":"function","name":"claim","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[],"outputs":[]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(stakingABI))
	if err != nil {
		panic("Failed to parse staking abi")
	}
	StakingABI = _abi
}

type StakedLog struct {
	User   common.Address // indexed
	Amount *big.Int
}

func ToStakedLog(log *types.Log) (*StakedLog, error) {
	var staked StakedLog
	if err := StakingABI.UnpackIntoInterface(&staked, "Staked", log.Data); err != nil {
		return nil, err
	}
	staked.User = common.BytesToAddress(log.Topics[1].Bytes())
	return &staked, nil
}

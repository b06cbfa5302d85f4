package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var PairABI abi.ABI

var pairABI = `[{"type":"function","name":"getReserves","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"uint112","name":"reserve0"},{"type":"uint112","name":"reserve1"},{"type":"uint32","name":"blockTimestampLast"}]},{"type":"function","name":"token0","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"address"}]},{"type":"function","name":"token1","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"address"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(pairABI))
	if err != nil {
		panic("Failed to parse pair abi")
	}
	PairABI = _abi
}

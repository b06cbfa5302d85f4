package chain

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/inkmarket/goapi/base/backoff"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	bEthereum "github.com/inkmarket/goapi/base/ethereum"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/base/metrics"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

const callAttempts = 3

type ClientCfg struct {
	RpcUrls map[int32]string
	// MaxInflight caps concurrent RPC calls per chain. Zero means no cap.
	MaxInflight int
}

type Client interface {
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
	BlockNumber(bCtx.Ctx, int32) (uint64, error)
	HeaderByNumber(bCtx.Ctx, int32, *big.Int) (*types.Header, error)
	FilterLogs(bCtx.Ctx, int32, ethereum.FilterQuery) ([]types.Log, error)
}

type clientImpl struct {
	clients map[int32]*bEthereum.ThrottledClient
	met     metrics.Service
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var anyerr error
	clients := make(map[int32]*bEthereum.ThrottledClient)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		n := cfg.MaxInflight
		if n <= 0 {
			n = 64
		}
		clients[chainId] = bEthereum.NewThrottledClient(client, n)
	}
	return &clientImpl{
		clients: clients,
		met:     metrics.New("chain"),
	}, anyerr
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}

	defer c.met.BumpTime("call.latency", "method", method).End()

	res, err := c.withRetry(ctx, func() ([]byte, error) {
		return client.CallContract(ctx, msg, blk)
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"method": method,
		}).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) BlockNumber(ctx bCtx.Ctx, chainId int32) (uint64, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return 0, ErrUnsupportedChain
	}
	return client.BlockNumber(ctx)
}

func (c *clientImpl) HeaderByNumber(ctx bCtx.Ctx, chainId int32, number *big.Int) (*types.Header, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	return client.HeaderByNumber(ctx, number)
}

func (c *clientImpl) FilterLogs(ctx bCtx.Ctx, chainId int32, q ethereum.FilterQuery) ([]types.Log, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	return client.FilterLogs(ctx, q)
}

// withRetry retries transient RPC failures with capped exponential backoff.
// Reverts are retried too, at this layer they are indistinguishable from
// provider hiccups; the fixed attempt count bounds the cost.
func (c *clientImpl) withRetry(ctx bCtx.Ctx, fn func() ([]byte, error)) ([]byte, error) {
	var lastErr error
	bo := backoff.NewExponential(200*time.Millisecond, 2*time.Second)
	for i := 0; i < callAttempts; i++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i < callAttempts-1 {
			if err := bo.Backoff(ctx); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

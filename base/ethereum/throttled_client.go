package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ThrottledClient caps concurrent in-flight RPC calls with a token pool so a
// burst of reads cannot trip the provider's rate limit.
type ThrottledClient struct {
	*ethclient.Client
	tokens chan struct{}
}

func NewThrottledClient(client *ethclient.Client, n int) *ThrottledClient {
	tokens := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		tokens <- struct{}{}
	}
	return &ThrottledClient{
		Client: client,
		tokens: tokens,
	}
}

func (c *ThrottledClient) BlockNumber(ctx context.Context) (uint64, error) {
	if !c.before(ctx) {
		return 0, ctx.Err()
	}
	defer c.after()
	return c.Client.BlockNumber(ctx)
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if !c.before(ctx) {
		return nil, ctx.Err()
	}
	defer c.after()
	return c.Client.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) FilterLogs(ctx context.Context, filter ethereum.FilterQuery) ([]types.Log, error) {
	if !c.before(ctx) {
		return nil, ctx.Err()
	}
	defer c.after()
	return c.Client.FilterLogs(ctx, filter)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	if !c.before(ctx) {
		return nil, ctx.Err()
	}
	defer c.after()
	return c.Client.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	if !c.before(ctx) {
		return nil, ctx.Err()
	}
	defer c.after()
	return c.Client.CodeAt(ctx, address, number)
}

func (c *ThrottledClient) before(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.tokens:
		return true
	}
}

func (c *ThrottledClient) after() {
	c.tokens <- struct{}{}
}

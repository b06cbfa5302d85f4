package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

var errDown = errors.New("down")

const (
	token = domain.Address("0x00000000000000000000000000000000000000t1")
	weth  = "0x0000000000000000000000000000000000000Ee1"
	pool  = "0x00000000000000000000000000000000000000d1"
)

type fakeDex struct {
	price decimal.Decimal
	err   error
}

func (f *fakeDex) GetPrice(c ctx.Ctx, t string) (decimal.Decimal, error) {
	return f.price, f.err
}

type fakeGecko struct {
	price decimal.Decimal
	err   error
}

func (f *fakeGecko) GetPrice(c ctx.Ctx, id string) (decimal.Decimal, error) {
	return f.price, f.err
}

type fakePair struct {
	token0             string
	reserve0, reserve1 *big.Int
	err                error
}

func (f *fakePair) GetReserves(c ctx.Ctx, addr string) (*big.Int, *big.Int, error) {
	return f.reserve0, f.reserve1, f.err
}

func (f *fakePair) Token0(c ctx.Ctx, addr string) (string, error) {
	return f.token0, f.err
}

func (f *fakePair) Token1(c ctx.Ctx, addr string) (string, error) {
	return weth, f.err
}

func TestDexScreenerFirst(t *testing.T) {
	req := require.New(t)
	uc := New(&PriceUseCaseCfg{
		Dex:       &fakeDex{price: decimal.NewFromFloat(1.5)},
		Pair:      &fakePair{err: errDown},
		Coingecko: &fakeGecko{err: errDown},
	})

	q, err := uc.GetUsdPrice(ctx.Background(), token)
	req.NoError(err)
	req.Equal("dexscreener", q.Source)
	req.True(q.Usd.Equal(decimal.NewFromFloat(1.5)))
}

func TestPoolReserveFallback(t *testing.T) {
	req := require.New(t)
	uc := New(&PriceUseCaseCfg{
		Dex: &fakeDex{err: errDown},
		Pair: &fakePair{
			token0:   string(token),
			reserve0: big.NewInt(1000), // token side
			reserve1: big.NewInt(2),    // weth side
		},
		Coingecko: &fakeGecko{price: decimal.NewFromInt(2000)},
		Pools:     map[domain.Address]string{token: pool},
	})

	q, err := uc.GetUsdPrice(ctx.Background(), token)
	req.NoError(err)
	req.Equal("pool", q.Source)
	// 2/1000 eth per token * 2000 usd
	req.True(q.Usd.Equal(decimal.NewFromInt(4)), q.Usd.String())
}

func TestNativeTokenGoesToCoingecko(t *testing.T) {
	req := require.New(t)
	uc := New(&PriceUseCaseCfg{
		Dex:       &fakeDex{err: errDown},
		Pair:      &fakePair{err: errDown},
		Coingecko: &fakeGecko{price: decimal.NewFromInt(3000)},
	})

	q, err := uc.GetUsdPrice(ctx.Background(), domain.NativeTokenAddress)
	req.NoError(err)
	req.Equal("coingecko", q.Source)
	req.True(q.Usd.Equal(decimal.NewFromInt(3000)))
}

func TestAllSourcesDown(t *testing.T) {
	req := require.New(t)
	uc := New(&PriceUseCaseCfg{
		Dex:       &fakeDex{err: errDown},
		Pair:      &fakePair{err: errDown},
		Coingecko: &fakeGecko{err: errDown},
		Pools:     map[domain.Address]string{token: pool},
	})

	_, err := uc.GetUsdPrice(ctx.Background(), token)
	req.ErrorIs(err, domain.ErrPriceUnavailable)
}

package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/price"
	"github.com/inkmarket/goapi/service/chain/contract"
	"github.com/inkmarket/goapi/service/coingecko"
	"github.com/inkmarket/goapi/service/dexscreener"
)

const ethCoingeckoId = "ethereum"

type PriceUseCaseCfg struct {
	Dex       dexscreener.Client
	Pair      contract.PairContract
	Coingecko coingecko.Client
	// Pools maps a token to a token/weth pool used as the price source of
	// last resort
	Pools map[domain.Address]string
}

type impl struct {
	dex       dexscreener.Client
	pair      contract.PairContract
	coingecko coingecko.Client
	pools     map[domain.Address]string
}

func New(cfg *PriceUseCaseCfg) price.UseCase {
	pools := make(map[domain.Address]string, len(cfg.Pools))
	for token, pool := range cfg.Pools {
		pools[token.ToLower()] = pool
	}
	return &impl{
		dex:       cfg.Dex,
		pair:      cfg.Pair,
		coingecko: cfg.Coingecko,
		pools:     pools,
	}
}

func (im *impl) GetUsdPrice(c ctx.Ctx, token domain.Address) (*price.Quote, error) {
	if token.Equals(domain.NativeTokenAddress) {
		usd, err := im.coingecko.GetPrice(c, ethCoingeckoId)
		if err != nil {
			return nil, err
		}
		return &price.Quote{Token: token, Usd: usd, Source: "coingecko"}, nil
	}

	if usd, err := im.dex.GetPrice(c, token.ToLowerStr()); err == nil && usd.IsPositive() {
		return &price.Quote{Token: token.ToLower(), Usd: usd, Source: "dexscreener"}, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"token": token,
			"err":   err,
		}).Warn("dexscreener price lookup failed, trying pool reserves")
	}

	if usd, err := im.fromPoolReserves(c, token); err == nil {
		return &price.Quote{Token: token.ToLower(), Usd: usd, Source: "pool"}, nil
	} else {
		c.WithFields(log.Fields{
			"token": token,
			"err":   err,
		}).Warn("pool reserve pricing failed")
	}

	return nil, domain.ErrPriceUnavailable
}

// fromPoolReserves estimates a token's usd price from its weth pool: the
// reserve ratio gives the eth price, coingecko converts eth to usd. Both
// sides are assumed to be 18-decimal tokens.
func (im *impl) fromPoolReserves(c ctx.Ctx, token domain.Address) (decimal.Decimal, error) {
	pool, ok := im.pools[token.ToLower()]
	if !ok {
		return decimal.Zero, domain.ErrPriceUnavailable
	}

	token0, err := im.pair.Token0(c, pool)
	if err != nil {
		return decimal.Zero, err
	}
	reserve0, reserve1, err := im.pair.GetReserves(c, pool)
	if err != nil {
		return decimal.Zero, err
	}

	tokenReserve := decimal.NewFromBigInt(reserve0, 0)
	quoteReserve := decimal.NewFromBigInt(reserve1, 0)
	if !token.Equals(domain.Address(token0)) {
		tokenReserve, quoteReserve = quoteReserve, tokenReserve
	}
	if tokenReserve.IsZero() {
		return decimal.Zero, domain.ErrPriceUnavailable
	}

	ethUsd, err := im.coingecko.GetPrice(c, ethCoingeckoId)
	if err != nil {
		return decimal.Zero, err
	}

	return quoteReserve.Div(tokenReserve).Mul(ethUsd), nil
}

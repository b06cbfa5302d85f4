package dexscreener

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

const api = "https://api.dexscreener.com/latest/dex"

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "dexscreener_cache",
			Cache: primitive.NewPrimitive("dexscreener_cache", 4),
		}),
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	cache   cache.Service
}

func (c *client) GetPrice(ctx bCtx.Ctx, token string) (decimal.Decimal, error) {
	key := keys.CacheKey(strings.ToLower(token))
	var price decimal.Decimal
	if err := c.cache.GetByFunc(ctx, key, &price, func() (interface{}, error) {
		return c.getPrice(ctx, token)
	}); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

func (c *client) getPrice(ctx bCtx.Ctx, token string) (*decimal.Decimal, error) {
	url := fmt.Sprintf("%s/tokens/%s", api, token)
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return &decimal.Zero, err
	}
	resp := TokensResponse{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return &decimal.Zero, err
	}

	// the same token shows up in many pools, trust the deepest one
	var best *Pair
	for i := range resp.Pairs {
		p := &resp.Pairs[i]
		if !strings.EqualFold(p.BaseToken.Address, token) || p.PriceUsd == "" {
			continue
		}
		if best == nil || p.Liquidity.Usd > best.Liquidity.Usd {
			best = p
		}
	}
	if best == nil {
		ctx.WithField("token", token).Warn(ErrNoPairs)
		return &decimal.Zero, ErrNoPairs
	}
	price, err := decimal.NewFromString(best.PriceUsd)
	if err != nil {
		ctx.WithFields(log.Fields{
			"priceUsd": best.PriceUsd,
			"err":      err,
		}).Error("decimal.NewFromString failed")
		return &decimal.Zero, err
	}
	return &price, nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}

package coingecko

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

const api = "https://api.coingecko.com/api/v3"

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "coingecko_cache",
			Cache: primitive.NewPrimitive("coingecko_cache", 4),
		}),
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	cache   cache.Service
}

func (c *client) GetPrice(ctx bCtx.Ctx, id string) (decimal.Decimal, error) {
	key := keys.CacheKey(id)
	var price decimal.Decimal
	if err := c.cache.GetByFunc(ctx, key, &price, func() (interface{}, error) {
		return c.getPrice(ctx, id)
	}); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

func (c *client) getPrice(ctx bCtx.Ctx, id string) (*decimal.Decimal, error) {
	params := url.Values{
		"ids":           {id},
		"vs_currencies": {"usd"},
	}
	url := fmt.Sprintf("%s/simple/price?%s", api, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return &decimal.Zero, err
	}
	resp := SimplePrice{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return &decimal.Zero, err
	}
	entry, ok := resp[id]
	if !ok || entry.Usd == 0 {
		ctx.WithField("id", id).Error(ErrPriceMissing)
		return &decimal.Zero, ErrPriceMissing
	}
	price := decimal.NewFromFloat(entry.Usd)
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

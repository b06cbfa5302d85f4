package zns

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain/keys"
	"github.com/inkmarket/goapi/service/cache"
	"github.com/inkmarket/goapi/service/cache/provider/primitive"
)

const api = "https://zns.bio/api"

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		chainId: cfg.ChainId,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   5 * time.Minute,
			Pfx:   "zns_cache",
			Cache: primitive.NewPrimitive("zns_cache", 4),
		}),
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	chainId int32
	cache   cache.Service
}

func (c *client) ResolveAddress(ctx bCtx.Ctx, address string) (*AddressRecord, error) {
	key := keys.CacheKey("address", strings.ToLower(address))
	record := AddressRecord{}
	if err := c.cache.GetByFunc(ctx, key, &record, func() (interface{}, error) {
		return c.resolveAddress(ctx, address)
	}); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *client) resolveAddress(ctx bCtx.Ctx, address string) (*AddressRecord, error) {
	params := url.Values{
		"chain":   {fmt.Sprint(c.chainId)},
		"address": {address},
	}
	url := fmt.Sprintf("%s/resolveAddress?%s", api, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return nil, err
	}
	resp := resolveAddressResponse{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	if resp.Code != 200 {
		ctx.WithField("code", resp.Code).Warn(ErrBadCode)
		return nil, ErrBadCode
	}
	return &AddressRecord{
		Domains:       resp.UserOwnedDomains,
		PrimaryDomain: resp.PrimaryDomain,
	}, nil
}

func (c *client) ResolveDomain(ctx bCtx.Ctx, domain string) (string, error) {
	key := keys.CacheKey("domain", strings.ToLower(domain))
	var address string
	if err := c.cache.GetByFunc(ctx, key, &address, func() (interface{}, error) {
		addr, err := c.resolveDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		return &addr, nil
	}); err != nil {
		return "", err
	}
	return address, nil
}

func (c *client) resolveDomain(ctx bCtx.Ctx, domain string) (string, error) {
	params := url.Values{
		"chain":  {fmt.Sprint(c.chainId)},
		"domain": {domain},
	}
	url := fmt.Sprintf("%s/resolveDomain?%s", api, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return "", err
	}
	resp := resolveDomainResponse{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return "", err
	}
	if resp.Code != 200 {
		ctx.WithField("code", resp.Code).Warn(ErrBadCode)
		return "", ErrBadCode
	}
	return resp.Address, nil
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

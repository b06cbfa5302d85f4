package blockscout

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	bCtx "github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/log"
)

const defaultMaxPages = 20

func NewClient(cfg *ClientCfg) Client {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &client{
		client:   cfg.HttpClient,
		timeout:  cfg.Timeout,
		baseUrl:  cfg.BaseUrl,
		maxPages: maxPages,
	}
}

type client struct {
	client   http.Client
	timeout  time.Duration
	baseUrl  string
	maxPages int
}

func (c *client) GetNftHoldings(ctx bCtx.Ctx, address string) ([]NftInstance, error) {
	var (
		items      []NftInstance
		pageParams map[string]interface{}
	)
	for page := 0; page < c.maxPages; page++ {
		params := url.Values{"type": {"ERC-721"}}
		for k, v := range pageParams {
			params.Set(k, fmt.Sprint(v))
		}
		url := fmt.Sprintf("%s/addresses/%s/nft?%s", c.baseUrl, address, params.Encode())
		data, err := c.get(ctx, url)
		if err != nil {
			ctx.WithFields(log.Fields{
				"url": url,
				"err": err,
			}).Error("c.get failed")
			return nil, err
		}
		resp := nftPage{}
		if err := json.Unmarshal(data, &resp); err != nil {
			ctx.WithField("err", err).Error("json.Unmarshal failed")
			return nil, err
		}
		items = append(items, resp.Items...)
		if len(resp.NextPageParams) == 0 {
			break
		}
		pageParams = resp.NextPageParams
	}
	return items, nil
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

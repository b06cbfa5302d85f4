package dexscreener

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	bCtx "github.com/inkmarket/goapi/base/ctx"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrNoPairs         = errors.New("no pairs for token")
)

type Client interface {
	// GetPrice returns the usd price of an erc20 token, taken from the
	// deepest pool quoting it.
	GetPrice(ctx bCtx.Ctx, token string) (decimal.Decimal, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
}

type TokenInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Liquidity struct {
	Usd float64 `json:"usd"`
}

type Pair struct {
	ChainId   string    `json:"chainId"`
	DexId     string    `json:"dexId"`
	BaseToken TokenInfo `json:"baseToken"`
	PriceUsd  string    `json:"priceUsd"`
	Liquidity Liquidity `json:"liquidity"`
}

type TokensResponse struct {
	Pairs []Pair `json:"pairs"`
}

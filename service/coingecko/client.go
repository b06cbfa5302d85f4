package coingecko

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	bCtx "github.com/inkmarket/goapi/base/ctx"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrPriceMissing    = errors.New("price missing from response")
)

type Client interface {
	// GetPrice returns the usd price for a coingecko token id, ex: ethereum
	GetPrice(bCtx.Ctx, string) (decimal.Decimal, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
}

type PriceData struct {
	Usd float64 `json:"usd"`
}

type SimplePrice map[string]PriceData

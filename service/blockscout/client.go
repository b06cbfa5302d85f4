package blockscout

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/inkmarket/goapi/base/ctx"
)

var ErrStatusCodeNotOk = errors.New("http.status != 200")

// Client reads the blockscout v2 rest api. Used as a bulk shortcut when a
// collection supports neither enumeration nor a cheap scan, the explorer
// already has the token inventory indexed.
type Client interface {
	// GetNftHoldings pages through every erc721 the address holds.
	GetNftHoldings(ctx bCtx.Ctx, address string) ([]NftInstance, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	// BaseUrl, ex: https://explorer.inkonchain.com/api/v2
	BaseUrl string
	// MaxPages bounds pagination for addresses holding huge inventories
	MaxPages int
}

type NftToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Type    string `json:"type"`
}

type NftInstance struct {
	Id    string   `json:"id"`
	Token NftToken `json:"token"`
}

type nftPage struct {
	Items          []NftInstance          `json:"items"`
	NextPageParams map[string]interface{} `json:"next_page_params"`
}

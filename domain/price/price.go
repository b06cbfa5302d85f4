package price

import (
	"github.com/shopspring/decimal"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

// Quote is one resolved usd price with the source that produced it, so the
// caller can tell a market quote from a pool-derived estimate.
type Quote struct {
	Token  domain.Address  `json:"token"`
	Usd    decimal.Decimal `json:"usd"`
	Source string          `json:"source"`
}

type UseCase interface {
	// GetUsdPrice resolves a token's usd price, falling through the
	// configured sources until one answers.
	GetUsdPrice(c ctx.Ctx, token domain.Address) (*Quote, error)
}

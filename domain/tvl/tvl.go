package tvl

import (
	"github.com/inkmarket/goapi/base/ctx"
)

// SeriesSource distinguishes replayed chain data from fabricated sample
// data. Fabrication never happens inside the fetch path; the caller opts in
// and the tag travels with the series so the UI can label it.
type SeriesSource string

const (
	SourceChain     SeriesSource = "chain"
	SourceSynthetic SeriesSource = "synthetic"
)

type Point struct {
	Timestamp    int64   `json:"timestamp"` // unix milliseconds
	Value        float64 `json:"value"`     // USD
	TokensAmount float64 `json:"tokensAmount"`
	BlockNumber  uint64  `json:"blockNumber,omitempty"`
	TxIndex      uint    `json:"txIndex,omitempty"`
	Description  string  `json:"description,omitempty"`
}

type Series struct {
	Source SeriesSource `json:"source"`
	Points []Point      `json:"points"`
}

func (s *Series) Current() float64 {
	if s == nil || len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Value
}

type UseCase interface {
	// History replays transfer events into a staked-balance series. It never
	// fabricates data: on total failure it returns an error and the caller
	// decides whether to fall back to Synthetic.
	History(c ctx.Ctx) (*Series, error)
}

package usecase

import (
	"math"
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain/tvl"
)

type syntheticImpl struct {
	days  int
	base  float64
	price float64
}

// NewSyntheticTvl returns a generator of plainly fabricated sample data for
// demos and local development. It is a separate constructor on purpose:
// nothing in the fetch path can fall through to it, wiring it in is an
// explicit deployment decision and every series it emits is tagged.
func NewSyntheticTvl(days int, baseTokens, tokenUsd float64) tvl.UseCase {
	if days <= 0 {
		days = 30
	}
	return &syntheticImpl{days: days, base: baseTokens, price: tokenUsd}
}

func (im *syntheticImpl) History(c ctx.Ctx) (*tvl.Series, error) {
	now := time.Now()
	points := make([]tvl.Point, 0, im.days)
	for i := 0; i < im.days; i++ {
		t := now.AddDate(0, 0, i-im.days+1)
		growth := 1 + 0.02*float64(i)
		wobble := 1 + 0.05*math.Sin(float64(i)/3)
		tokens := im.base * growth * wobble
		points = append(points, tvl.Point{
			Timestamp:    t.UnixNano() / int64(time.Millisecond),
			Value:        tokens * im.price,
			TokensAmount: tokens,
			Description:  "sample data",
		})
	}
	return &tvl.Series{Source: tvl.SourceSynthetic, Points: points}, nil
}

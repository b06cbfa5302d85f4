package usecase

import (
	"time"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/healthcheck"
	"github.com/inkmarket/goapi/service/chain"
)

type impl struct {
	chain   chain.Client
	chainId domain.ChainId
}

func New(chainClient chain.Client, chainId domain.ChainId) healthcheck.UseCase {
	return &impl{
		chain:   chainClient,
		chainId: chainId,
	}
}

// Check reports rpc liveness. The service has no datastore of its own, the
// chain connection is the only dependency worth probing.
func (im *impl) Check(c ctx.Ctx) *healthcheck.Status {
	c, cancel := ctx.WithTimeout(c, 2*time.Second)
	defer cancel()

	status := &healthcheck.Status{ChainId: int32(im.chainId)}
	block, err := im.chain.BlockNumber(c, int32(im.chainId))
	if err != nil {
		c.WithField("err", err).Error("rpc ping failed")
		status.Detail = err.Error()
		return status
	}
	status.Ok = true
	status.Block = block
	return status
}

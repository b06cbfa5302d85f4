package ens

import (
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain"
)

type ENS interface {
	Resolve(ctx ctx.Ctx, name string) (domain.Address, error)
	ReverseResolve(ctx ctx.Ctx, address domain.Address) (string, error)
	// Avatar reads the avatar text record of a name, empty when unset.
	Avatar(ctx ctx.Ctx, name string) (string, error)
}

package healthcheck

import (
	"github.com/inkmarket/goapi/base/ctx"
)

type Status struct {
	Ok      bool   `json:"ok"`
	ChainId int32  `json:"chainId"`
	Block   uint64 `json:"block,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type UseCase interface {
	Check(c ctx.Ctx) *Status
}

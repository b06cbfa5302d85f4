package http

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/staking"
	"github.com/inkmarket/goapi/domain/tvl"
	"github.com/inkmarket/goapi/middleware"
)

type handler struct {
	staking staking.UseCase
	tvl     tvl.UseCase
}

func New(e *echo.Echo, staking staking.UseCase, tvl tvl.UseCase) {
	h := &handler{
		staking,
		tvl,
	}

	g := e.Group("/staking")

	g.GET("/tvl", h.Tvl, middleware.CacheHttp(5*time.Minute))

	g.GET("/leaderboard", h.Leaderboard, middleware.CacheHttp(1*time.Minute))

	g.GET("/overview/:address", h.Overview)
}

func (h *handler) Tvl(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	series, err := h.tvl.History(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, series)
}

func (h *handler) Leaderboard(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	board, err := h.staking.GetLeaderboard(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, board)
}

func (h *handler) Overview(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Address domain.Address `param:"address" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Address)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	overview, err := h.staking.GetOverview(ctx, p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, overview)
}

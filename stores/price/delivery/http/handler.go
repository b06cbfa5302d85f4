package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/price"
)

type handler struct {
	price price.UseCase
}

func New(e *echo.Echo, price price.UseCase) {
	h := &handler{
		price,
	}

	g := e.Group("/price")

	g.GET("/:token", h.Get)
}

func (h *handler) Get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Token domain.Address `param:"token" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Token)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	quote, err := h.price.GetUsdPrice(ctx, p.Token)
	if err == domain.ErrPriceUnavailable {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, quote)
}

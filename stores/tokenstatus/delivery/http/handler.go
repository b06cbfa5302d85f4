package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/domain/tokenstatus"
)

type handler struct {
	listing    listing.UseCase
	reconciler tokenstatus.Reconciler
}

func New(e *echo.Echo, listing listing.UseCase, reconciler tokenstatus.Reconciler) {
	h := &handler{
		listing,
		reconciler,
	}

	g := e.Group("/tokenstatus")

	g.GET("/:contract", h.Get)

	g.POST("/:contract/refresh", h.Refresh)
}

func (h *handler) Get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Contract domain.Address `param:"contract" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Contract)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	page, err := h.listing.GetActiveByCollection(ctx, p.Contract)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	snapshot, err := h.reconciler.Reconcile(ctx, p.Contract, page.Listings)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, snapshot)
}

func (h *handler) Refresh(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Contract domain.Address `param:"contract" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Contract)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	page, err := h.listing.GetActiveByCollection(ctx, p.Contract)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	snapshot, err := h.reconciler.Refresh(ctx, p.Contract, page.Listings)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, snapshot)
}

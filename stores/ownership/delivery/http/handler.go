package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
	"github.com/inkmarket/goapi/domain/nftitem"
)

type handler struct {
	resolver nftitem.Resolver
	registry collection.Registry
}

func New(e *echo.Echo, resolver nftitem.Resolver, registry collection.Registry) {
	h := &handler{
		resolver,
		registry,
	}

	g := e.Group("/ownership")

	g.GET("/:owner", h.Resolve)

	g.GET("/:owner/:contract", h.ResolveCollection)
}

func (h *handler) Resolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Owner domain.Address `param:"owner" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Owner)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	results, err := h.resolver.Resolve(ctx, p.Owner)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, results)
}

func (h *handler) ResolveCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Owner    domain.Address `param:"owner" validate:"required"`
		Contract domain.Address `param:"contract" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Owner)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	cfg, ok := h.registry.Get(p.Contract)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrUnknownCollection)
	}

	assets, err := h.resolver.ResolveCollection(ctx, cfg, p.Owner)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, assets)
}

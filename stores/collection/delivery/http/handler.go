package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/collection"
	"github.com/inkmarket/goapi/middleware"
)

type handler struct {
	registry collection.Registry
}

func New(e *echo.Echo, registry collection.Registry) {
	h := &handler{
		registry,
	}

	g := e.Group("/collections")

	g.GET("", h.List, middleware.CacheHttp(30*time.Second))

	g.GET("/:contract", h.Get)
}

func (h *handler) List(c echo.Context) error {
	_ = c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.registry.All())
}

func (h *handler) Get(c echo.Context) error {
	_ = c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Contract domain.Address `param:"contract" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cfg, ok := h.registry.Get(p.Contract)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrUnknownCollection)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

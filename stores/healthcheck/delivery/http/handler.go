package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck healthcheck.UseCase
}

func New(e *echo.Echo, us healthcheck.UseCase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	status := h.healthCheck.Check(context)
	if !status.Ok {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

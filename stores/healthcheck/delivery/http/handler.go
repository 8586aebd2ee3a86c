package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	hcdomain "github.com/x-xyz/nftmarket/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
	storage     string
}

type healthResp struct {
	Healthy string `json:"healthy"`
	Storage string `json:"storage"`
}

// New registers GET /health, storage is echoed back to tell mongo and memory deployments apart
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase, storage string) {
	handler := &healthCheckHandler{
		healthCheck: us,
		storage:     storage,
	}
	e.GET("/health", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	if err := h.healthCheck.Check(context); err != nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err.Error())
	}
	return delivery.MakeJsonResp(c, http.StatusOK, healthResp{Healthy: "ok", Storage: h.storage})
}

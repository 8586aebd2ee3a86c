package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

var errStatus = []struct {
	kind   error
	status int
}{
	{domain.ErrBadParamInput, http.StatusBadRequest},
	{domain.ErrInvalidAddress, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{query.ErrNotFound, http.StatusNotFound},
	{domain.ErrNoPermission, http.StatusForbidden},
	{domain.ErrCapacity, http.StatusTooManyRequests},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInsufficient, http.StatusPaymentRequired},
	{domain.ErrNotImplemented, http.StatusNotImplemented},
}

// StatusOf maps an error kind to its http status, falling back to def.
func StatusOf(err error, def int) int {
	for _, es := range errStatus {
		if errors.Is(err, es.kind) {
			return es.status
		}
	}
	return def
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

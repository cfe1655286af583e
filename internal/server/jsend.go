package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// envelope is the jsend body. RequestID repeats the X-Request-Id header.
type envelope struct {
	Status    string `json:"status"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func reply(c echo.Context, code int, env envelope) error {
	env.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(code, env)
}

func success(c echo.Context, data any) error {
	return reply(c, http.StatusOK, envelope{Status: statusSuccess, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return reply(c, code, envelope{Status: statusFail, Message: message})
}

func failValidation(c echo.Context, fieldErrors map[string]string) error {
	return reply(c, http.StatusBadRequest, envelope{
		Status:  statusFail,
		Message: "Validation failed",
		Data:    map[string]any{"validation_errors": fieldErrors},
	})
}

func failUnsegmentable(c echo.Context) error {
	return fail(c, http.StatusUnprocessableEntity, "Document could not be segmented")
}

func failCacheDisabled(c echo.Context) error {
	return fail(c, http.StatusNotFound, "Cache is disabled")
}

func internalError(c echo.Context, message string) error {
	return reply(c, http.StatusInternalServerError, envelope{
		Status:  statusError,
		Message: message,
		Code:    http.StatusInternalServerError,
	})
}

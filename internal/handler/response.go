package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a success envelope; a zero code means 200.
func Success(c echo.Context, code int, message string, data any) error {
	return respond(c, code, http.StatusOK, APIResponse{Status: StatusSuccess, Message: message, Data: data})
}

// Error writes an error envelope without data; a zero code means 500.
func Error(c echo.Context, code int, message string) error {
	return ErrorWithData(c, code, message, nil)
}

// ErrorWithData writes an error envelope that still carries a payload, such as
// a rejected form for the client to redisplay.
func ErrorWithData(c echo.Context, code int, message string, data any) error {
	return respond(c, code, http.StatusInternalServerError, APIResponse{Status: StatusError, Message: message, Data: data})
}

func respond(c echo.Context, code, fallback int, payload APIResponse) error {
	if code == 0 {
		code = fallback
	}
	return c.JSON(code, payload)
}

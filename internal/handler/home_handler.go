package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/service"
)

// HomeHandler serves the landing page aggregate.
type HomeHandler struct {
	home *service.HomeService
}

// NewHomeHandler wires the handler.
func NewHomeHandler(home *service.HomeService) *HomeHandler {
	return &HomeHandler{home: home}
}

// Home handles GET /home. Failed sections carry their own error message, so
// the page itself always answers 200.
func (h *HomeHandler) Home(c echo.Context) error {
	return Success(c, http.StatusOK, "home retrieved", h.home.Home(c.Request().Context()))
}

// Health handles GET /healthz.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "ok", nil)
}

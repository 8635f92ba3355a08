package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/service"
)

// CategoriesHandler serves the category grid and category pages.
type CategoriesHandler struct {
	listings *service.ListingsService
}

// NewCategoriesHandler wires the handler.
func NewCategoriesHandler(listings *service.ListingsService) *CategoriesHandler {
	return &CategoriesHandler{listings: listings}
}

// List handles GET /categories and reports how many listings each category has.
func (h *CategoriesHandler) List(c echo.Context) error {
	counts, err := h.listings.CategoryCounts(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to count categories")
	}
	return Success(c, http.StatusOK, "categories retrieved", counts)
}

// Detail handles GET /categories/:name?q=&location=.
func (h *CategoriesHandler) Detail(c echo.Context) error {
	page, err := h.listings.Category(c.Request().Context(), c.Param("name"), c.QueryParam("q"), c.QueryParam("location"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return Error(c, http.StatusNotFound, "category not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load category")
	}
	return Success(c, http.StatusOK, "category retrieved", page)
}

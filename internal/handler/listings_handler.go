package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/service"
)

// ListingsHandler serves business search, detail and featured listings.
type ListingsHandler struct {
	listings *service.ListingsService
	featured *service.FeaturedService
}

// NewListingsHandler wires the handler.
func NewListingsHandler(listings *service.ListingsService, featured *service.FeaturedService) *ListingsHandler {
	return &ListingsHandler{listings: listings, featured: featured}
}

// Search handles GET /search?q=&location=&category=.
func (h *ListingsHandler) Search(c echo.Context) error {
	query := dto.ListingQuery{
		Category: c.QueryParam("category"),
		Term:     c.QueryParam("q"),
		Location: c.QueryParam("location"),
	}

	result, err := h.listings.Search(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return Error(c, http.StatusNotFound, "category not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load businesses")
	}

	message := "businesses retrieved"
	if result.LocationFallback {
		message = "no businesses matched that location, showing all matches"
	}
	return Success(c, http.StatusOK, message, result)
}

// Business handles GET /businesses/:id and /businesses/:id/:slug.
func (h *ListingsHandler) Business(c echo.Context) error {
	tile, err := h.listings.Business(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return Error(c, http.StatusNotFound, "business not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load business")
	}
	return Success(c, http.StatusOK, "business retrieved", tile)
}

// Featured handles GET /businesses/featured.
func (h *ListingsHandler) Featured(c echo.Context) error {
	result, err := h.featured.Featured(c.Request().Context())
	if err != nil {
		return ErrorWithData(c, http.StatusInternalServerError, "featured listings are unavailable right now", result)
	}
	return Success(c, http.StatusOK, "featured businesses retrieved", result)
}

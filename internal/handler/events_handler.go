package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/service"
)

// EventsHandler serves community events.
type EventsHandler struct {
	events *service.EventsService
}

// NewEventsHandler wires the handler.
func NewEventsHandler(events *service.EventsService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /events.
func (h *EventsHandler) List(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load events")
	}
	return Success(c, http.StatusOK, "events retrieved", events)
}

// Upcoming handles GET /events/upcoming.
func (h *EventsHandler) Upcoming(c echo.Context) error {
	events, err := h.events.Upcoming(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load upcoming events")
	}
	return Success(c, http.StatusOK, "upcoming events retrieved", events)
}

// Detail handles GET /events/:id.
func (h *EventsHandler) Detail(c echo.Context) error {
	event, err := h.events.Event(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return Error(c, http.StatusNotFound, "event not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load event")
	}
	return Success(c, http.StatusOK, "event retrieved", event)
}

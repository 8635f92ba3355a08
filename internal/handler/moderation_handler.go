package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/dto"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/service"
)

// ModerationHandler lets administrators review submitted listings.
type ModerationHandler struct {
	moderation *service.ModerationService
}

// NewModerationHandler wires the handler.
func NewModerationHandler(moderation *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// Pending handles GET /admin/submissions.
func (h *ModerationHandler) Pending(c echo.Context) error {
	pending, err := h.moderation.Pending(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list submissions")
	}
	return Success(c, http.StatusOK, "pending submissions retrieved", pending)
}

// Approve handles POST /admin/submissions/:id/approve.
func (h *ModerationHandler) Approve(c echo.Context) error {
	return h.decide(c, h.moderation.Approve, "submission approved")
}

// Reject handles POST /admin/submissions/:id/reject.
func (h *ModerationHandler) Reject(c echo.Context) error {
	return h.decide(c, h.moderation.Reject, "submission rejected")
}

func (h *ModerationHandler) decide(c echo.Context, action func(ctx context.Context, id string) error, message string) error {
	var req dto.ModerationRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return Error(c, http.StatusBadRequest, "invalid payload")
		}
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := action(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrBusinessNotFound):
			return Error(c, http.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrNotPending):
			return Error(c, http.StatusConflict, err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "failed to moderate submission")
		}
	}

	event := zerolog.Ctx(ctx).Info().Str("business_id", id)
	if identity := middlewarepkg.IdentityFromContext(c); identity != nil {
		event = event.Str("moderator", identity.Subject)
	}
	event.Str("note", req.Note).Msg(message)

	return Success(c, http.StatusOK, message, map[string]string{"id": id})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/dto"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/service"
)

// SubmissionHandler accepts new listings from signed-in owners.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler wires the handler.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit handles POST /businesses. Every failure echoes the submitted form.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var req dto.SubmitBusinessRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	identity := middlewarepkg.IdentityFromContext(c)
	resp, err := h.submissions.Submit(c.Request().Context(), identity, req)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrAuthenticationRequired):
			return ErrorWithData(c, http.StatusUnauthorized, service.ErrAuthenticationRequired.Error(), dto.SubmissionError{Form: req})
		case errors.As(err, &validationErr):
			return ErrorWithData(c, http.StatusUnprocessableEntity, "please correct the highlighted fields", dto.SubmissionError{Form: req, Fields: validationErr.Fields})
		default:
			return ErrorWithData(c, http.StatusInternalServerError, service.ErrSubmissionFailed.Error(), dto.SubmissionError{Form: req})
		}
	}

	return Success(c, http.StatusCreated, "listing submitted for review", resp)
}

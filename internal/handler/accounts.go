package handler

import (
	"errors"
	"net/http"

	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/service"
)

// accountFailure maps account service errors onto a status and client message.
// fallback is used for store failures, which are never shown to clients.
func accountFailure(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, repository.ErrEmailDuplicate):
		return http.StatusConflict, "email already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrInvalidUserID), errors.Is(err, service.ErrInvalidAccount):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, fallback
	}
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/dto"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/service"
)

// AuthHandler serves local account sign-up and sign-in.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register. New accounts always get the user role.
func (h *AuthHandler) Register(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.authService.Register(ctx, dto.RegisterRequest(creds))
	if err != nil {
		code, msg := accountFailure(err, "unable to register user")
		if code == http.StatusInternalServerError {
			zerolog.Ctx(ctx).Error().Err(err).Msg("register account")
		}
		return Error(c, code, msg)
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Msg("account registered")
	return Success(c, http.StatusCreated, "registration successful", user)
}

// Login handles POST /auth/login and answers with a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.authService.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		code, msg := accountFailure(err, "unable to authenticate")
		if code == http.StatusInternalServerError {
			zerolog.Ctx(ctx).Error().Err(err).Msg("login")
		}
		return Error(c, code, msg)
	}

	return Success(c, http.StatusOK, "login successful", token)
}

// Me handles GET /auth/me and describes the signed-in caller, whichever
// provider issued the token.
func Me(c echo.Context) error {
	identity := middlewarepkg.IdentityFromContext(c)
	if identity == nil {
		return Error(c, http.StatusUnauthorized, "not signed in")
	}
	return Success(c, http.StatusOK, "identity retrieved", dto.IdentityResponse{
		Subject:  identity.Subject,
		Email:    identity.Email,
		Role:     identity.Role,
		Provider: identity.Provider,
	})
}

// bindCredentials decodes an email/password payload shared by sign-up and sign-in.
func bindCredentials(c echo.Context) (dto.LoginRequest, error) {
	var creds dto.LoginRequest
	if err := c.Bind(&creds); err != nil {
		return dto.LoginRequest{}, errors.New("invalid payload")
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return dto.LoginRequest{}, errors.New("email and password are required")
	}
	return creds, nil
}

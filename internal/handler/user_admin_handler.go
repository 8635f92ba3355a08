package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/dto"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/service"
)

// UserAdminHandler lets administrators manage local accounts.
type UserAdminHandler struct {
	users *service.UserService
}

// NewUserAdminHandler constructs a handler instance.
func NewUserAdminHandler(users *service.UserService) *UserAdminHandler {
	return &UserAdminHandler{users: users}
}

// List handles GET /admin/users.
func (h *UserAdminHandler) List(c echo.Context) error {
	records, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "failed to list users")
	}
	return Success(c, http.StatusOK, "users retrieved", records)
}

// Create handles POST /admin/users.
func (h *UserAdminHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "failed to create user")
	}

	h.audit(c, "user created", user.ID)
	return Success(c, http.StatusCreated, "user created", user)
}

// Update handles PATCH /admin/users/:id. Only the fields present are changed.
func (h *UserAdminHandler) Update(c echo.Context) error {
	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.fail(c, err, "failed to update user")
	}

	h.audit(c, "user updated", user.ID)
	return Success(c, http.StatusOK, "user updated", user)
}

// Delete handles DELETE /admin/users/:id.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return h.fail(c, err, "failed to delete user")
	}

	h.audit(c, "user deleted", id)
	return Success(c, http.StatusOK, "user deleted", nil)
}

func (h *UserAdminHandler) fail(c echo.Context, err error, fallback string) error {
	code, msg := accountFailure(err, fallback)
	if code == http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg(fallback)
	}
	return Error(c, code, msg)
}

func (h *UserAdminHandler) audit(c echo.Context, action, userID string) {
	event := zerolog.Ctx(c.Request().Context()).Info().Str("user_id", userID)
	if admin := middlewarepkg.IdentityFromContext(c); admin != nil {
		event = event.Str("admin", admin.Subject)
	}
	event.Msg(action)
}

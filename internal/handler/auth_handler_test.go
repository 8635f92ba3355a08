package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/rainbowlistings/directory/internal/auth"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/service"
)

func newAuthHandler(repo *stubUsersRepo) *AuthHandler {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthHandler(service.NewAuthService(repo, jwtManager))
}

func TestAuthHandlerRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		repo       *stubUsersRepo
		wantStatus int
	}{
		{
			name:       "invalid payload",
			body:       "{",
			repo:       &stubUsersRepo{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			body:       dto.RegisterRequest{Email: "  "},
			repo:       &stubUsersRepo{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       dto.RegisterRequest{Email: "user@example.com", Password: "short"},
			repo:       &stubUsersRepo{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: dto.RegisterRequest{Email: "user@example.com", Password: "password123"},
			repo: &stubUsersRepo{create: func(ctx context.Context, email, hash, role string) (*entity.User, error) {
				return nil, repository.ErrEmailDuplicate
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name: "store failure",
			body: dto.RegisterRequest{Email: "user@example.com", Password: "password123"},
			repo: &stubUsersRepo{create: func(ctx context.Context, email, hash, role string) (*entity.User, error) {
				return nil, errors.New("db down")
			}},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "success",
			body: dto.RegisterRequest{Email: "User@Example.com", Password: "password123"},
			repo: &stubUsersRepo{create: func(ctx context.Context, email, hash, role string) (*entity.User, error) {
				if email != "user@example.com" || role != service.RoleUser {
					return nil, errors.New("unexpected input")
				}
				return &entity.User{ID: uuid.New(), Email: email, Role: role}, nil
			}},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", tt.body), rec)

			if err := newAuthHandler(tt.repo).Register(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				var user dto.UserResponse
				decodeEnvelope(t, rec, &user)
				if user.Email != "user@example.com" || user.Role != service.RoleUser {
					t.Fatalf("unexpected user: %+v", user)
				}
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	stored := &entity.User{ID: uuid.New(), Email: "admin@example.com", PasswordHash: string(hash), Role: service.RoleAdmin}

	tests := []struct {
		name       string
		body       any
		repo       *stubUsersRepo
		wantStatus int
	}{
		{
			name:       "invalid payload",
			body:       "{",
			repo:       &stubUsersRepo{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       dto.LoginRequest{Email: "admin@example.com"},
			repo:       &stubUsersRepo{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown user",
			body: dto.LoginRequest{Email: "nobody@example.com", Password: "password123"},
			repo: &stubUsersRepo{findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, repository.ErrUserNotFound
			}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			body: dto.LoginRequest{Email: "admin@example.com", Password: "not-the-password"},
			repo: &stubUsersRepo{findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "store failure",
			body: dto.LoginRequest{Email: "admin@example.com", Password: "password123"},
			repo: &stubUsersRepo{findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("db down")
			}},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "success",
			body: dto.LoginRequest{Email: "admin@example.com", Password: "password123"},
			repo: &stubUsersRepo{findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", tt.body), rec)

			if err := newAuthHandler(tt.repo).Login(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var token dto.LoginResponse
				decodeEnvelope(t, rec, &token)
				if token.AccessToken == "" || token.Role != service.RoleAdmin || token.TokenType != "Bearer" {
					t.Fatalf("unexpected token response: %+v", token)
				}
			}
		})
	}
}

func TestMe(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middlewarepkg.ContextKeyIdentity, &auth.Identity{Subject: "google:123", Email: "g@example.com", Role: auth.RoleUser, Provider: auth.ProviderGoogle})

	if err := Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var identity dto.IdentityResponse
	decodeEnvelope(t, rec, &identity)
	if identity.Subject != "google:123" || identity.Provider != auth.ProviderGoogle {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	rec = httptest.NewRecorder()
	c = echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	if err := Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

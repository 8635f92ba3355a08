package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rainbowlistings/directory/internal/auth"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/repository"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates credential validation, registration and token issuance.
type AuthService struct {
	users    repository.UsersRepository
	jwt      *auth.JWTManager
	accounts *UserService
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, accounts: NewUserService(users)}
}

// Login validates credentials and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dto.LoginResponse{}, errors.New("email and password must not be empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.TTL().Seconds()),
		Role:        user.Role,
	}, nil
}

// Register creates a regular account for self-service sign-up.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.accounts.CreateUser(ctx, dto.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     RoleUser,
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const minPasswordLength = 8

var (
	// ErrInvalidUserID is returned for identifiers that are not UUIDs.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidAccount wraps every account input problem.
	ErrInvalidAccount = errors.New("invalid account details")
)

// UserService encapsulates account administration.
type UserService struct {
	repo repository.UsersRepository
}

// NewUserService builds a new UserService instance.
func NewUserService(repo repository.UsersRepository) *UserService {
	return &UserService{repo: repo}
}

// ListUsers returns all accounts as DTOs.
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses, nil
}

// CreateUser creates an account with the supplied role, defaulting to a regular user.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	email, err := normalizeAccountEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = RoleUser
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, email, hashed, role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, repository.ErrEmailDuplicate
		}
		return nil, err
	}

	resp := toUserResponse(*user)
	return &resp, nil
}

// UpdateUser mutates selected account fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	var emailPtr *string
	if req.Email != nil {
		email, err := normalizeAccountEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		emailPtr = &email
	}

	var rolePtr *string
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if err := validateRole(role); err != nil {
			return nil, err
		}
		rolePtr = &role
	}

	var passwordPtr *string
	if req.Password != nil {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordPtr = &hashed
	}

	user, err := s.repo.Update(ctx, userID, emailPtr, passwordPtr, rolePtr)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(*user)
	return &resp, nil
}

// DeleteUser removes an account by id.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidUserID
	}
	return s.repo.Delete(ctx, userID)
}

func toUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func normalizeAccountEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidAccount)
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: email address is not valid", ErrInvalidAccount)
	}
	return email, nil
}

func validateRole(role string) error {
	switch role {
	case RoleUser, RoleAdmin:
		return nil
	default:
		return fmt.Errorf("%w: role must be %s or %s", ErrInvalidAccount, RoleUser, RoleAdmin)
	}
}

func hashPassword(password string) (string, error) {
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidAccount, minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

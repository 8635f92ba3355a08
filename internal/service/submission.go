package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/auth"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

var (
	// ErrAuthenticationRequired is returned when a submission has no signed-in owner.
	ErrAuthenticationRequired = errors.New("you must be signed in to submit a listing")
	// ErrSubmissionFailed is returned when the store rejects a valid submission.
	ErrSubmissionFailed = errors.New("your listing could not be submitted, please try again")
)

// SubmissionNotifier is told about every stored submission.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, business entity.Business) error
}

// SubmissionService turns listing forms into pending business records.
type SubmissionService struct {
	repo      repository.BusinessesRepository
	validator *FormValidator
	notifier  SubmissionNotifier
}

// NewSubmissionService wires the submission flow. notifier may be nil.
func NewSubmissionService(repo repository.BusinessesRepository, validator *FormValidator, notifier SubmissionNotifier) *SubmissionService {
	return &SubmissionService{repo: repo, validator: validator, notifier: notifier}
}

// Submit stores the form as a pending, unverified listing owned by identity.
// The store is never touched without an identity or with an invalid form.
func (s *SubmissionService) Submit(ctx context.Context, identity *auth.Identity, req dto.SubmitBusinessRequest) (dto.SubmissionResponse, error) {
	if identity == nil || strings.TrimSpace(identity.Subject) == "" {
		return dto.SubmissionResponse{}, ErrAuthenticationRequired
	}

	form, err := s.validator.Validate(ctx, req)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	record := &entity.Business{
		Name:        form.Name,
		Category:    &form.Category,
		Categories:  []string{form.Category},
		Description: &form.Description,
		Address:     &form.Address,
		City:        &form.City,
		State:       &form.State,
		ZIP:         &form.ZIP,
		Phone:       &form.Phone,
		Email:       &form.Email,
		Website:     optional(form.Website),
		Socials: entity.SocialLinks{
			Facebook:  form.Socials.Facebook,
			Instagram: form.Socials.Instagram,
			Twitter:   form.Socials.Twitter,
			LinkedIn:  form.Socials.LinkedIn,
		},
		Verified: false,
		Status:   entity.StatusPending,
		OwnerID:  identity.Subject,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("owner_id", identity.Subject).Msg("store listing submission")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("business_id", created.ID).Str("owner_id", identity.Subject).Msg("listing submitted for review")

	if s.notifier != nil {
		if err := s.notifier.NotifySubmission(ctx, *created); err != nil {
			logger.Warn().Err(err).Str("business_id", created.ID).Msg("submission notification failed")
		}
	}

	return dto.SubmissionResponse{ID: created.ID, Status: created.Status}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

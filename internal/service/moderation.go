package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

// ErrNotPending is returned when moderating a listing that is not awaiting review.
var ErrNotPending = errors.New("listing is not awaiting review")

// PendingSubmission is a listing awaiting review, with its owner.
type PendingSubmission struct {
	dto.BusinessTile
	OwnerID string `json:"owner_id"`
}

// ModerationService lets administrators review submitted listings.
type ModerationService struct {
	repo repository.BusinessesRepository
}

// NewModerationService creates a moderation service.
func NewModerationService(repo repository.BusinessesRepository) *ModerationService {
	return &ModerationService{repo: repo}
}

// Pending lists submissions awaiting review, oldest first.
func (s *ModerationService) Pending(ctx context.Context) ([]PendingSubmission, error) {
	records, err := s.repo.ListByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	out := make([]PendingSubmission, 0, len(records))
	for _, record := range records {
		tile, ok := NormalizeBusiness(record)
		if !ok {
			continue
		}
		out = append(out, PendingSubmission{BusinessTile: tile, OwnerID: record.OwnerID})
	}
	return out, nil
}

// Approve publishes a pending submission and marks it verified.
func (s *ModerationService) Approve(ctx context.Context, id string) error {
	return s.decide(ctx, id, entity.StatusApproved, true)
}

// Reject hides a pending submission for good.
func (s *ModerationService) Reject(ctx context.Context, id string) error {
	return s.decide(ctx, id, entity.StatusRejected, false)
}

func (s *ModerationService) decide(ctx context.Context, id, status string, verified bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return repository.ErrBusinessNotFound
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != entity.StatusPending {
		return ErrNotPending
	}
	if err := s.repo.UpdateStatus(ctx, id, status, verified); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("business_id", id).Str("status", status).Msg("submission moderated")
	return nil
}

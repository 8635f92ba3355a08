package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

const (
	// FeaturedLimit is the number of newest listings shown on the landing page.
	FeaturedLimit = 6

	// FeaturedMaxRetries bounds how often a failed featured fetch is retried.
	FeaturedMaxRetries = 3

	defaultFeaturedBackoff = 2 * time.Second

	// featuredWindow leaves room for submissions still awaiting moderation,
	// which are the newest records but never featured.
	featuredWindow = 4 * FeaturedLimit
)

// FeaturedService serves the newest listings, retrying failed fetches with a
// linearly growing delay.
type FeaturedService struct {
	repo       repository.BusinessesRepository
	backoff    time.Duration
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewFeaturedService creates a featured service. The n-th retry waits n*backoff.
func NewFeaturedService(repo repository.BusinessesRepository, backoff time.Duration) *FeaturedService {
	if backoff <= 0 {
		backoff = defaultFeaturedBackoff
	}
	return &FeaturedService{
		repo:       repo,
		backoff:    backoff,
		maxRetries: FeaturedMaxRetries,
		sleep:      sleepContext,
	}
}

// Featured returns the newest listings. A failed fetch is retried up to three
// times; the error of the last attempt is returned once retries run out.
func (s *FeaturedService) Featured(ctx context.Context) (dto.FeaturedResult, error) {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries+1; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * s.backoff
			logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("retrying featured listings fetch")
			if err := s.sleep(ctx, delay); err != nil {
				return dto.FeaturedResult{Attempts: attempt - 1}, fmt.Errorf("featured listings: %w", err)
			}
		}

		records, err := s.repo.ListRecent(ctx, featuredWindow)
		if err == nil {
			return dto.FeaturedResult{
				Businesses: SelectFeatured(records, FeaturedLimit),
				Attempts:   attempt,
			}, nil
		}
		lastErr = err
	}

	logger.Error().Err(lastErr).Int("attempts", s.maxRetries+1).Msg("featured listings unavailable")
	return dto.FeaturedResult{Attempts: s.maxRetries + 1}, fmt.Errorf("featured listings after %d attempts: %w", s.maxRetries+1, lastErr)
}

// SelectFeatured re-sorts records newest first and keeps limit of them.
// Records without a creation time keep their fetch order after dated ones.
func SelectFeatured(records []entity.Business, limit int) []dto.BusinessTile {
	tiles := dedupeTiles(records)
	sort.SliceStable(tiles, func(i, j int) bool {
		a, b := tiles[i].CreatedAt, tiles[j].CreatedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	if len(tiles) > limit {
		tiles = tiles[:limit]
	}
	return tiles
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rainbowlistings/directory/internal/dto"
)

// Section messages shown when part of the landing page could not be loaded.
const (
	categoriesUnavailable = "Categories are unavailable right now."
	featuredUnavailable   = "Featured listings are unavailable right now."
	upcomingUnavailable   = "Upcoming events are unavailable right now."
)

// HomeService assembles the landing page.
type HomeService struct {
	listings *ListingsService
	featured *FeaturedService
	events   *EventsService
}

// NewHomeService composes the landing page from the other services.
func NewHomeService(listings *ListingsService, featured *FeaturedService, events *EventsService) *HomeService {
	return &HomeService{listings: listings, featured: featured, events: events}
}

// Home loads the category grid, featured listings and upcoming events
// concurrently. A failing section carries a message instead of its items.
func (s *HomeService) Home(ctx context.Context) dto.HomeResponse {
	var (
		resp dto.HomeResponse
		g    errgroup.Group
	)
	logger := zerolog.Ctx(ctx)

	g.Go(func() error {
		counts, err := s.listings.CategoryCounts(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("home: category counts")
			resp.Categories.Error = categoriesUnavailable
			return nil
		}
		resp.Categories.Items = counts
		return nil
	})

	g.Go(func() error {
		featured, err := s.featured.Featured(ctx)
		if err != nil {
			resp.Featured.Error = featuredUnavailable
			return nil
		}
		resp.Featured.Items = featured.Businesses
		return nil
	})

	g.Go(func() error {
		upcoming, err := s.events.Upcoming(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("home: upcoming events")
			resp.Upcoming.Error = upcomingUnavailable
			return nil
		}
		resp.Upcoming.Items = upcoming
		return nil
	})

	_ = g.Wait()
	return resp
}

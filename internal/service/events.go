package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

const (
	// UpcomingEventsLimit is the size of the landing page events widget.
	UpcomingEventsLimit = 3
	untitledEvent       = "Untitled Event"
)

// EventsService serves the event listing views.
type EventsService struct {
	repo repository.EventsRepository
}

// NewEventsService creates an events service over the events store.
func NewEventsService(repo repository.EventsRepository) *EventsService {
	return &EventsService{repo: repo}
}

// List returns every event, earliest first.
func (s *EventsService) List(ctx context.Context) ([]dto.EventTile, error) {
	records, err := s.repo.ListByDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return NormalizeEvents(records), nil
}

// Upcoming returns the first events of the date-ordered list for the
// landing widget.
func (s *EventsService) Upcoming(ctx context.Context) ([]dto.EventTile, error) {
	records, err := s.repo.ListEarliest(ctx, UpcomingEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch upcoming events: %w", err)
	}

	tiles := NormalizeEvents(records)
	if len(tiles) > UpcomingEventsLimit {
		tiles = tiles[:UpcomingEventsLimit]
	}
	return tiles, nil
}

// Event returns a single event.
func (s *EventsService) Event(ctx context.Context, id string) (dto.EventTile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.EventTile{}, repository.ErrEventNotFound
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.EventTile{}, err
	}
	return NormalizeEvent(*record), nil
}

// NormalizeEvent maps a stored event onto a tile, defaulting every optional field.
func NormalizeEvent(e entity.Event) dto.EventTile {
	title := deref(e.Title)
	if title == "" {
		title = untitledEvent
	}
	price := deref(e.Price)
	tile := dto.EventTile{
		ID:           e.ID,
		Title:        title,
		Description:  deref(e.Description),
		Date:         deref(e.Date),
		StartTime:    deref(e.StartTime),
		EndTime:      deref(e.EndTime),
		Location:     deref(e.Location),
		City:         deref(e.City),
		State:        deref(e.State),
		Price:        price,
		IsFree:       isFreePrice(price),
		ImageURL:     deref(e.ImageURL),
		BusinessName: deref(e.BusinessName),
		Category:     deref(e.Category),
	}
	if e.Capacity != nil {
		tile.Capacity = *e.Capacity
	}
	return tile
}

// NormalizeEvents normalizes, deduplicates by id (last occurrence wins) and
// orders by date ascending. Undated events go last.
func NormalizeEvents(records []entity.Event) []dto.EventTile {
	byID := make(map[string]int, len(records))
	tiles := make([]dto.EventTile, 0, len(records))
	for _, record := range records {
		tile := NormalizeEvent(record)
		if idx, seen := byID[tile.ID]; seen {
			tiles[idx] = tile
			continue
		}
		byID[tile.ID] = len(tiles)
		tiles = append(tiles, tile)
	}

	sort.SliceStable(tiles, func(i, j int) bool {
		a, b := tiles[i].Date, tiles[j].Date
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
	return tiles
}

// isFreePrice treats an empty price, "free" and a numeric zero as free admission.
func isFreePrice(price string) bool {
	p := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(price)), "$")
	if p == "" || p == "free" {
		return true
	}
	if v, err := strconv.ParseFloat(p, 64); err == nil {
		return v == 0
	}
	return false
}

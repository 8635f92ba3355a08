package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

func event(id, title, date string) entity.Event {
	e := entity.Event{ID: id, Title: stringPtr(title)}
	if date != "" {
		e.Date = stringPtr(date)
	}
	return e
}

func eventTitles(tiles []dto.EventTile) []string {
	titles := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		titles = append(titles, tile.Title)
	}
	return titles
}

func TestNormalizeEvent(t *testing.T) {
	capacity := 80
	tile := NormalizeEvent(entity.Event{
		ID:       "e1",
		Title:    stringPtr("  "),
		Date:     stringPtr("2024-06-28"),
		City:     stringPtr(" Austin "),
		Capacity: &capacity,
		Price:    stringPtr("$0.00"),
	})

	want := dto.EventTile{
		ID:       "e1",
		Title:    "Untitled Event",
		Date:     "2024-06-28",
		City:     "Austin",
		Capacity: 80,
		Price:    "$0.00",
		IsFree:   true,
	}
	if diff := cmp.Diff(want, tile); diff != "" {
		t.Fatalf("tile mismatch (-want +got):\n%s", diff)
	}
}

func TestIsFreePrice(t *testing.T) {
	tests := map[string]bool{
		"":       true,
		"Free":   true,
		"0":      true,
		"$0":     true,
		"$15":    false,
		"10.50":  false,
		"Donate": false,
	}
	for price, want := range tests {
		if got := isFreePrice(price); got != want {
			t.Errorf("isFreePrice(%q) = %v, want %v", price, got, want)
		}
	}
}

func TestNormalizeEventsOrdersByDate(t *testing.T) {
	records := []entity.Event{
		event("1", "Drag Brunch", "2024-07-04"),
		event("2", "Someday", ""),
		event("3", "Pride Parade", "2024-06-30"),
		event("1", "Drag Brunch (rescheduled)", "2024-07-05"),
		event("4", "Book Club", "2024-06-01"),
	}

	got := NormalizeEvents(records)
	want := []string{"Book Club", "Pride Parade", "Drag Brunch (rescheduled)", "Someday"}
	if diff := cmp.Diff(want, eventTitles(got)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestEventsService_Upcoming(t *testing.T) {
	var gotLimit int
	repo := &mockEventsRepository{
		listEarliest: func(ctx context.Context, limit int) ([]entity.Event, error) {
			gotLimit = limit
			return []entity.Event{
				event("4", "Next Month", "2024-07-15"),
				event("1", "Last Year", "2023-06-14"),
				event("3", "Next Week", "2024-06-22"),
				event("2", "Today", "2024-06-15"),
			}, nil
		},
	}
	service := NewEventsService(repo)

	got, err := service.Upcoming(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != UpcomingEventsLimit {
		t.Fatalf("unexpected limit %d", gotLimit)
	}
	if diff := cmp.Diff([]string{"Last Year", "Today", "Next Week"}, eventTitles(got)); diff != "" {
		t.Fatalf("unexpected upcoming (-want +got):\n%s", diff)
	}

	repo.listEarliest = func(ctx context.Context, limit int) ([]entity.Event, error) {
		return nil, errors.New("store offline")
	}
	if _, err := service.Upcoming(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEventsService_ListAndEvent(t *testing.T) {
	repo := &mockEventsRepository{
		listByDate: func(ctx context.Context) ([]entity.Event, error) {
			return []entity.Event{event("2", "Later", "2024-08-01"), event("1", "Sooner", "2024-07-01")}, nil
		},
		findByID: func(ctx context.Context, id string) (*entity.Event, error) {
			if id != "1" {
				return nil, repository.ErrEventNotFound
			}
			e := event("1", "Sooner", "2024-07-01")
			return &e, nil
		},
	}
	service := NewEventsService(repo)

	list, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Sooner", "Later"}, eventTitles(list)); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}

	tile, err := service.Event(context.Background(), "1")
	if err != nil || tile.Title != "Sooner" {
		t.Fatalf("unexpected event %+v, err %v", tile, err)
	}
	for _, id := range []string{"", "missing"} {
		if _, err := service.Event(context.Background(), id); !errors.Is(err, repository.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound for %q, got %v", id, err)
		}
	}
}

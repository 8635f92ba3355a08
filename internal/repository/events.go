package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainbowlistings/directory/internal/entity"
)

const eventColumns = `
            id::text,
            title,
            description,
            date,
            start_time,
            end_time,
            location,
            city,
            state,
            capacity,
            price,
            image_url,
            business_name,
            category,
            created_at`

// PGXEventsRepository implements EventsRepository using pgx.
type PGXEventsRepository struct {
	pool pgxPool
}

// NewPGXEventsRepository wires a pgx backed events repository.
func NewPGXEventsRepository(pool *pgxpool.Pool) *PGXEventsRepository {
	return &PGXEventsRepository{pool: pool}
}

// ListByDate returns every event ordered by date ascending.
func (r *PGXEventsRepository) ListByDate(ctx context.Context) ([]entity.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListEarliest returns the first limit events by ascending date.
func (r *PGXEventsRepository) ListEarliest(ctx context.Context, limit int) ([]entity.Event, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.pool.Query(ctx, `
        SELECT `+eventColumns+`
        FROM events
        ORDER BY date ASC NULLS LAST
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list earliest events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// FindByID retrieves a single event.
func (r *PGXEventsRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrEventNotFound
	}

	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, parsed)
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEventNotFound
	}
	return &events[0], nil
}

func scanEvents(rows pgx.Rows) ([]entity.Event, error) {
	var events []entity.Event
	for rows.Next() {
		var (
			e            entity.Event
			title        sql.NullString
			description  sql.NullString
			date         sql.NullString
			startTime    sql.NullString
			endTime      sql.NullString
			location     sql.NullString
			city         sql.NullString
			state        sql.NullString
			capacity     sql.NullInt64
			price        sql.NullString
			imageURL     sql.NullString
			businessName sql.NullString
			category     sql.NullString
			createdAt    sql.NullTime
		)

		err := rows.Scan(
			&e.ID,
			&title,
			&description,
			&date,
			&startTime,
			&endTime,
			&location,
			&city,
			&state,
			&capacity,
			&price,
			&imageURL,
			&businessName,
			&category,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.Title = nullStringToPtr(title)
		e.Description = nullStringToPtr(description)
		e.Date = nullStringToPtr(date)
		e.StartTime = nullStringToPtr(startTime)
		e.EndTime = nullStringToPtr(endTime)
		e.Location = nullStringToPtr(location)
		e.City = nullStringToPtr(city)
		e.State = nullStringToPtr(state)
		if capacity.Valid {
			cast := int(capacity.Int64)
			e.Capacity = &cast
		}
		e.Price = nullStringToPtr(price)
		e.ImageURL = nullStringToPtr(imageURL)
		e.BusinessName = nullStringToPtr(businessName)
		e.Category = nullStringToPtr(category)
		e.CreatedAt = nullTimeToPtr(createdAt)

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

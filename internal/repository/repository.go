package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainbowlistings/directory/internal/entity"
)

var (
	// ErrBusinessNotFound is returned when no business matches the identifier.
	ErrBusinessNotFound = errors.New("business not found")
	// ErrEventNotFound is returned when no event matches the identifier.
	ErrEventNotFound = errors.New("event not found")
)

// BusinessesRepository describes the store operations on the businesses collection.
type BusinessesRepository interface {
	ListAll(ctx context.Context) ([]entity.Business, error)
	ListByCategory(ctx context.Context, category string) ([]entity.Business, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Business, error)
	ListByStatus(ctx context.Context, status string) ([]entity.Business, error)
	FindByID(ctx context.Context, id string) (*entity.Business, error)
	Create(ctx context.Context, business *entity.Business) (*entity.Business, error)
	UpdateStatus(ctx context.Context, id, status string, verified bool) error
	BulkUpsert(ctx context.Context, records []BulkUpsertBusinessInput) (BulkUpsertResult, error)
}

// EventsRepository describes the store operations on the events collection.
type EventsRepository interface {
	ListByDate(ctx context.Context) ([]entity.Event, error)
	ListEarliest(ctx context.Context, limit int) ([]entity.Event, error)
	FindByID(ctx context.Context, id string) (*entity.Event, error)
}

// BulkUpsertBusinessInput represents the fields accepted by CSV ingestion.
type BulkUpsertBusinessInput struct {
	Name        string
	Address     string
	Categories  []string
	Description *string
	City        *string
	State       *string
	ZIP         *string
	Phone       *string
	Email       *string
	Website     *string
	ImageURL    *string
	Rating      *float64
	RatingCount *int
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// pgxPool is the subset of *pgxpool.Pool used by the Postgres repositories.
type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

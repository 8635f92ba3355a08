package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

type execFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

func (f execFunc) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f(ctx, sql, args...)
}

func TestMigrate(t *testing.T) {
	var applied string
	err := Migrate(context.Background(), execFunc(func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		applied = sql
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, table := range []string{"users", "businesses", "events"} {
		if !strings.Contains(applied, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema missing table %s", table)
		}
	}
	if !strings.Contains(applied, "WHERE owner_id = ''") {
		t.Fatalf("schema missing partial import index")
	}

	failing := execFunc(func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("permission denied")
	})
	if err := Migrate(context.Background(), failing); err == nil {
		t.Fatalf("expected error when exec fails")
	}
}

func TestSchema(t *testing.T) {
	if !strings.Contains(Schema(), "users_email_key") {
		t.Fatalf("expected users email constraint in schema")
	}
}

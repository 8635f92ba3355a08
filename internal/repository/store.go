package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"github.com/rainbowlistings/directory/internal/config"
	"github.com/rainbowlistings/directory/internal/database"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Businesses BusinessesRepository
	Events     EventsRepository
	// Users is nil on backends without local accounts.
	Users UsersRepository

	pool *pgxpool.Pool
}

// Open connects to the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Businesses: NewPGXBusinessesRepository(pool),
			Events:     NewPGXEventsRepository(pool),
			Users:      NewPGXUsersRepository(pool),
			pool:       pool,
		}, nil
	case config.BackendFirestore:
		client, err := NewFirestoreClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Database, firestoreOptions(cfg.Firestore)...)
		if err != nil {
			return nil, err
		}
		return &Store{
			Businesses: NewFirestoreBusinessesRepository(client),
			Events:     NewFirestoreEventsRepository(client),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// Migrate applies the relational schema. Document backends need none.
func (s *Store) Migrate(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return database.Migrate(ctx, s.pool)
}

// Close releases the underlying connections.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func firestoreOptions(cfg config.FirestoreConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		// Emulator endpoints accept unauthenticated requests.
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

type mockUsersRepository struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	findByID    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	create      func(ctx context.Context, email, passwordHash, role string) (*entity.User, error)
	list        func(ctx context.Context) ([]entity.User, error)
	update      func(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, errors.New("findByEmail not implemented")
}

func (m *mockUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockUsersRepository) Create(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, email, passwordHash, role)
	}
	return nil, errors.New("create not implemented")
}

func (m *mockUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockUsersRepository) Update(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
	if m.update != nil {
		return m.update(ctx, id, email, passwordHash, role)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

type mockBusinessesRepository struct {
	listAll        func(ctx context.Context) ([]entity.Business, error)
	listByCategory func(ctx context.Context, category string) ([]entity.Business, error)
	listRecent     func(ctx context.Context, limit int) ([]entity.Business, error)
	listByStatus   func(ctx context.Context, status string) ([]entity.Business, error)
	findByID       func(ctx context.Context, id string) (*entity.Business, error)
	create         func(ctx context.Context, business *entity.Business) (*entity.Business, error)
	updateStatus   func(ctx context.Context, id, status string, verified bool) error
	bulk           func(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error)
}

func (m *mockBusinessesRepository) ListAll(ctx context.Context) ([]entity.Business, error) {
	if m.listAll != nil {
		return m.listAll(ctx)
	}
	return nil, errors.New("ListAll not implemented")
}

func (m *mockBusinessesRepository) ListByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	if m.listByCategory != nil {
		return m.listByCategory(ctx, category)
	}
	return nil, errors.New("ListByCategory not implemented")
}

func (m *mockBusinessesRepository) ListRecent(ctx context.Context, limit int) ([]entity.Business, error) {
	if m.listRecent != nil {
		return m.listRecent(ctx, limit)
	}
	return nil, errors.New("ListRecent not implemented")
}

func (m *mockBusinessesRepository) ListByStatus(ctx context.Context, status string) ([]entity.Business, error) {
	if m.listByStatus != nil {
		return m.listByStatus(ctx, status)
	}
	return nil, errors.New("ListByStatus not implemented")
}

func (m *mockBusinessesRepository) FindByID(ctx context.Context, id string) (*entity.Business, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockBusinessesRepository) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if m.create != nil {
		return m.create(ctx, business)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockBusinessesRepository) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	if m.updateStatus != nil {
		return m.updateStatus(ctx, id, status, verified)
	}
	return errors.New("UpdateStatus not implemented")
}

func (m *mockBusinessesRepository) BulkUpsert(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error) {
	if m.bulk != nil {
		return m.bulk(ctx, records)
	}
	return repository.BulkUpsertResult{}, errors.New("BulkUpsert not implemented")
}

type mockEventsRepository struct {
	listByDate   func(ctx context.Context) ([]entity.Event, error)
	listEarliest func(ctx context.Context, limit int) ([]entity.Event, error)
	findByID     func(ctx context.Context, id string) (*entity.Event, error)
}

func (m *mockEventsRepository) ListByDate(ctx context.Context) ([]entity.Event, error) {
	if m.listByDate != nil {
		return m.listByDate(ctx)
	}
	return nil, errors.New("ListByDate not implemented")
}

func (m *mockEventsRepository) ListEarliest(ctx context.Context, limit int) ([]entity.Event, error) {
	if m.listEarliest != nil {
		return m.listEarliest(ctx, limit)
	}
	return nil, errors.New("ListEarliest not implemented")
}

func (m *mockEventsRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(`
- id: 1
  name: Restaurants
  color: bg-red-500
- id: 2
  name: Bars & Nightlife
  color: bg-purple-600
- id: 3
  name: Bakeries
  color: bg-pink-400
`))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return cat
}

func stringPtr(value string) *string {
	return &value
}

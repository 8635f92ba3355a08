package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

type stubUsersRepo struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	list        func(ctx context.Context) ([]entity.User, error)
	create      func(ctx context.Context, email, passwordHash, role string) (*entity.User, error)
	update      func(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Create(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
	if s.create != nil {
		return s.create(ctx, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) List(ctx context.Context) ([]entity.User, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
	if s.update != nil {
		return s.update(ctx, id, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return errors.New("not implemented")
}

type stubBusinessesRepo struct {
	records      []entity.Business
	err          error
	created      []*entity.Business
	createErr    error
	bulk         func(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error)
	statusUpdate func(id, status string, verified bool) error
}

func (s *stubBusinessesRepo) ListAll(ctx context.Context) ([]entity.Business, error) {
	return s.records, s.err
}

func (s *stubBusinessesRepo) ListByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.Business
	for _, record := range s.records {
		for _, name := range record.AllCategories() {
			if name == category {
				out = append(out, record)
				break
			}
		}
	}
	return out, nil
}

func (s *stubBusinessesRepo) ListRecent(ctx context.Context, limit int) ([]entity.Business, error) {
	return s.records, s.err
}

func (s *stubBusinessesRepo) ListByStatus(ctx context.Context, status string) ([]entity.Business, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.Business
	for _, record := range s.records {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubBusinessesRepo) FindByID(ctx context.Context, id string) (*entity.Business, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.records {
		if s.records[i].ID == id {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, repository.ErrBusinessNotFound
}

func (s *stubBusinessesRepo) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, business)
	out := *business
	out.ID = "created-1"
	return &out, nil
}

func (s *stubBusinessesRepo) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	if s.statusUpdate != nil {
		return s.statusUpdate(id, status, verified)
	}
	return nil
}

func (s *stubBusinessesRepo) BulkUpsert(ctx context.Context, records []repository.BulkUpsertBusinessInput) (repository.BulkUpsertResult, error) {
	if s.bulk != nil {
		return s.bulk(ctx, records)
	}
	return repository.BulkUpsertResult{Inserted: len(records), Total: len(records)}, nil
}

type stubEventsRepo struct {
	records []entity.Event
	err     error
}

func (s *stubEventsRepo) ListByDate(ctx context.Context) ([]entity.Event, error) {
	return s.records, s.err
}

func (s *stubEventsRepo) ListEarliest(ctx context.Context, limit int) ([]entity.Event, error) {
	return s.records, s.err
}

func (s *stubEventsRepo) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.records {
		if s.records[i].ID == id {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, repository.ErrEventNotFound
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body []byte
	switch v := payload.(type) {
	case nil:
	case string:
		body = []byte(v)
	default:
		body, _ = json.Marshal(v)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// decodeEnvelope decodes the shared envelope, unmarshalling data into out when given.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) APIResponse {
	t.Helper()
	var raw struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	if out != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return APIResponse{Status: raw.Status, Message: raw.Message}
}

func multipartRequest(t *testing.T, field, filename, content string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func strPtr(value string) *string {
	return &value
}

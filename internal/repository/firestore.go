package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"github.com/rainbowlistings/directory/internal/entity"
)

const (
	businessesCollection = "businesses"
	eventsCollection     = "events"
	firestorePageSize    = 300
	// firestoreMaxWrites is the largest batch a single commit accepts.
	firestoreMaxWrites = 500
	serverRequestTime  = "REQUEST_TIME"
)

// importNamespace derives stable document IDs for CSV imported businesses.
var importNamespace = uuid.MustParse("0e5c3f5e-4f0b-4a8e-9a7c-6d2b1f3e8c41")

// FirestoreClient wraps the Firestore REST documents service for one database.
type FirestoreClient struct {
	docs       *firestore.ProjectsDatabasesDocumentsService
	httpClient *http.Client
	baseURL    string
	database   string
	parent     string
	now        func() time.Time
}

// NewFirestoreClient connects to the documents root of projects/<project>/databases/<database>.
func NewFirestoreClient(ctx context.Context, projectID, database string, opts ...option.ClientOption) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}
	if database == "" {
		database = "(default)"
	}
	httpOpts := append([]option.ClientOption{option.WithScopes(firestore.DatastoreScope)}, opts...)
	httpClient, endpoint, err := htransport.NewClient(ctx, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore transport: %w", err)
	}
	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(endpoint))
	}
	svc, err := firestore.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore service: %w", err)
	}
	dbName := fmt.Sprintf("projects/%s/databases/%s", projectID, database)
	return &FirestoreClient{
		docs:       svc.Projects.Databases.Documents,
		httpClient: httpClient,
		baseURL:    svc.BasePath,
		database:   dbName,
		parent:     dbName + "/documents",
		now:        time.Now,
	}, nil
}

func (c *FirestoreClient) docName(collection, id string) string {
	return c.parent + "/" + collection + "/" + id
}

func (c *FirestoreClient) listAll(ctx context.Context, collection string) ([]fsDocument, error) {
	var docs []fsDocument
	err := c.docs.List(c.parent, collection).
		PageSize(firestorePageSize).
		Pages(ctx, func(page *firestore.ListDocumentsResponse) error {
			for _, doc := range page.Documents {
				decoded, err := decodeDocument(doc)
				if err != nil {
					return err
				}
				docs = append(docs, decoded)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// runQuery posts a structured query against the documents root. The generated
// RunQuery call expects a single response object while the REST endpoint
// streams a JSON array, so the request goes through the same authenticated
// transport and the array is decoded here.
func (c *FirestoreClient) runQuery(ctx context.Context, query *firestore.StructuredQuery) ([]fsDocument, error) {
	body, err := json.Marshal(&firestore.RunQueryRequest{StructuredQuery: query})
	if err != nil {
		return nil, fmt.Errorf("marshal firestore query: %w", err)
	}
	target := googleapi.ResolveRelative(c.baseURL, "v1/"+c.parent+":runQuery")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build firestore query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run firestore query: %w", err)
	}
	defer googleapi.CloseBody(resp)
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("run firestore query: %w", err)
	}

	var results []firestore.RunQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode firestore query results: %w", err)
	}
	docs := make([]fsDocument, 0, len(results))
	for _, result := range results {
		if result.Document == nil {
			continue
		}
		decoded, err := decodeDocument(result.Document)
		if err != nil {
			return nil, err
		}
		docs = append(docs, decoded)
	}
	return docs, nil
}

// commit applies writes in batches; each batch is atomic on its own.
func (c *FirestoreClient) commit(ctx context.Context, writes []*firestore.Write) ([]*firestore.WriteResult, string, error) {
	var (
		results    []*firestore.WriteResult
		commitTime string
	)
	for start := 0; start < len(writes); start += firestoreMaxWrites {
		end := min(start+firestoreMaxWrites, len(writes))
		resp, err := c.docs.Commit(c.database, &firestore.CommitRequest{Writes: writes[start:end]}).
			Context(ctx).
			Do()
		if err != nil {
			return results, commitTime, err
		}
		results = append(results, resp.WriteResults...)
		commitTime = resp.CommitTime
	}
	return results, commitTime, nil
}

func collectionQuery(collection string) *firestore.StructuredQuery {
	return &firestore.StructuredQuery{From: []*firestore.CollectionSelector{{CollectionId: collection}}}
}

func fieldEquals(field, op string, value *firestore.Value) *firestore.Filter {
	return &firestore.Filter{FieldFilter: &firestore.FieldFilter{
		Field: &firestore.FieldReference{FieldPath: field},
		Op:    op,
		Value: value,
	}}
}

func orderBy(field, direction string) []*firestore.Order {
	return []*firestore.Order{{Field: &firestore.FieldReference{FieldPath: field}, Direction: direction}}
}

func stringValue(value string) *firestore.Value {
	return &firestore.Value{StringValue: value, ForceSendFields: []string{"StringValue"}}
}

func serverTimestamps(fields ...string) []*firestore.FieldTransform {
	out := make([]*firestore.FieldTransform, 0, len(fields))
	for _, field := range fields {
		out = append(out, &firestore.FieldTransform{FieldPath: field, SetToServerValue: serverRequestTime})
	}
	return out
}

func mustExist(exists bool) *firestore.Precondition {
	return &firestore.Precondition{Exists: exists, ForceSendFields: []string{"Exists"}}
}

// transformedTime returns the server timestamp of the first field transform,
// falling back to the commit time.
func transformedTime(result *firestore.WriteResult, commitTime string) *time.Time {
	if result != nil && len(result.TransformResults) > 0 && result.TransformResults[0] != nil {
		if ts := parseTimestamp(result.TransformResults[0].TimestampValue); ts != nil {
			return ts
		}
	}
	return parseTimestamp(commitTime)
}

func (c *FirestoreClient) get(ctx context.Context, collection, id string) (*fsDocument, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}
	doc, err := c.docs.Get(c.docName(collection, id)).Context(ctx).Do()
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	decoded, err := decodeDocument(doc)
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}

func isStatus(err error, code int) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// FirestoreBusinessesRepository implements BusinessesRepository on Firestore.
type FirestoreBusinessesRepository struct {
	client *FirestoreClient
}

// NewFirestoreBusinessesRepository wires the businesses collection.
func NewFirestoreBusinessesRepository(client *FirestoreClient) *FirestoreBusinessesRepository {
	return &FirestoreBusinessesRepository{client: client}
}

// ListAll returns every document in the businesses collection.
func (r *FirestoreBusinessesRepository) ListAll(ctx context.Context) ([]entity.Business, error) {
	docs, err := r.client.listAll(ctx, businessesCollection)
	if err != nil {
		return nil, err
	}
	return businessesFromDocuments(docs), nil
}

// ListByCategory matches the category against both the list and the legacy field.
func (r *FirestoreBusinessesRepository) ListByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	query := collectionQuery(businessesCollection)
	query.Where = &firestore.Filter{CompositeFilter: &firestore.CompositeFilter{
		Op: "OR",
		Filters: []*firestore.Filter{
			fieldEquals("categories", "ARRAY_CONTAINS", stringValue(category)),
			fieldEquals("category", "EQUAL", stringValue(category)),
		},
	}}
	docs, err := r.client.runQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list businesses by category: %w", err)
	}
	return businessesFromDocuments(docs), nil
}

// ListRecent returns up to limit businesses, newest first.
func (r *FirestoreBusinessesRepository) ListRecent(ctx context.Context, limit int) ([]entity.Business, error) {
	if limit <= 0 {
		limit = 6
	}
	query := collectionQuery(businessesCollection)
	query.OrderBy = orderBy("createdAt", "DESCENDING")
	query.Limit = int64(limit)
	docs, err := r.client.runQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recent businesses: %w", err)
	}
	return businessesFromDocuments(docs), nil
}

// ListByStatus returns businesses with the given submission status, oldest first.
func (r *FirestoreBusinessesRepository) ListByStatus(ctx context.Context, status string) ([]entity.Business, error) {
	query := collectionQuery(businessesCollection)
	query.Where = fieldEquals("status", "EQUAL", stringValue(status))
	docs, err := r.client.runQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list businesses by status: %w", err)
	}
	matched := businessesFromDocuments(docs)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].CreatedAt, matched[j].CreatedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
	return matched, nil
}

func businessesFromDocuments(docs []fsDocument) []entity.Business {
	businesses := make([]entity.Business, 0, len(docs))
	for _, doc := range docs {
		businesses = append(businesses, businessFromDocument(doc))
	}
	return businesses
}

// FindByID retrieves a single business document.
func (r *FirestoreBusinessesRepository) FindByID(ctx context.Context, id string) (*entity.Business, error) {
	doc, err := r.client.get(ctx, businessesCollection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrBusinessNotFound
	}
	b := businessFromDocument(*doc)
	return &b, nil
}

// Create stores a new business document under a generated identifier. The
// creation and update timestamps are assigned by the server.
func (r *FirestoreBusinessesRepository) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if business == nil {
		return nil, fmt.Errorf("business payload is nil")
	}

	created := *business
	created.ID = uuid.NewString()
	created.CreatedAt = nil
	created.UpdatedAt = nil

	doc, err := businessFields(&created).document()
	if err != nil {
		return nil, err
	}
	doc.Name = r.client.docName(businessesCollection, created.ID)

	results, commitTime, err := r.client.commit(ctx, []*firestore.Write{{
		Update:           doc,
		CurrentDocument:  mustExist(false),
		UpdateTransforms: serverTimestamps("createdAt", "updatedAt"),
	}})
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	var result *firestore.WriteResult
	if len(results) > 0 {
		result = results[0]
	}
	created.CreatedAt = transformedTime(result, commitTime)
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

// UpdateStatus sets the moderation status and verification flag of an existing business.
func (r *FirestoreBusinessesRepository) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	if id == "" || strings.Contains(id, "/") {
		return ErrBusinessNotFound
	}
	now := r.client.now().UTC()
	w := fieldWriter{}
	w.plain("status", status)
	w.boolean("verified", verified)
	w.timestamp("updatedAt", &now)

	doc, err := w.document()
	if err != nil {
		return err
	}
	_, err = r.client.docs.Patch(r.client.docName(businessesCollection, id), doc).
		UpdateMaskFieldPaths(w.keys()...).
		CurrentDocumentExists(true).
		Context(ctx).
		Do()
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("update business status: %w", err)
	}
	return nil
}

// BulkUpsert writes imported records under IDs derived from name and address,
// so repeated imports update instead of duplicating. New documents get a
// server-assigned creation time.
func (r *FirestoreBusinessesRepository) BulkUpsert(ctx context.Context, records []BulkUpsertBusinessInput) (BulkUpsertResult, error) {
	var (
		result BulkUpsertResult
		writes []*firestore.Write
	)
	queued := make(map[string]bool, len(records))
	for _, record := range records {
		id := uuid.NewSHA1(importNamespace, []byte(strings.ToLower(record.Name)+"\x00"+strings.ToLower(record.Address))).String()

		exists := queued[id]
		if !exists {
			existing, err := r.client.get(ctx, businessesCollection, id)
			if err != nil {
				return BulkUpsertResult{}, err
			}
			exists = existing != nil
		}
		queued[id] = true

		w := bulkFields(record)
		transforms := serverTimestamps("updatedAt")
		if !exists {
			w.boolean("verified", false)
			w.plain("status", "")
			w.plain("ownerId", "")
			transforms = serverTimestamps("createdAt", "updatedAt")
		}

		doc, err := w.document()
		if err != nil {
			return BulkUpsertResult{}, err
		}
		doc.Name = r.client.docName(businessesCollection, id)
		writes = append(writes, &firestore.Write{
			Update:           doc,
			UpdateMask:       &firestore.DocumentMask{FieldPaths: w.keys()},
			CurrentDocument:  mustExist(exists),
			UpdateTransforms: transforms,
		})

		if !exists {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if _, _, err := r.client.commit(ctx, writes); err != nil {
		return BulkUpsertResult{}, fmt.Errorf("bulk upsert businesses: %w", err)
	}
	return result, nil
}

// FirestoreEventsRepository implements EventsRepository on Firestore.
type FirestoreEventsRepository struct {
	client *FirestoreClient
}

// NewFirestoreEventsRepository wires the events collection.
func NewFirestoreEventsRepository(client *FirestoreClient) *FirestoreEventsRepository {
	return &FirestoreEventsRepository{client: client}
}

// ListByDate returns every dated event ordered by date ascending.
func (r *FirestoreEventsRepository) ListByDate(ctx context.Context) ([]entity.Event, error) {
	return r.listByDate(ctx, 0)
}

// ListEarliest returns the first limit events by ascending date.
func (r *FirestoreEventsRepository) ListEarliest(ctx context.Context, limit int) ([]entity.Event, error) {
	if limit <= 0 {
		limit = 3
	}
	return r.listByDate(ctx, limit)
}

func (r *FirestoreEventsRepository) listByDate(ctx context.Context, limit int) ([]entity.Event, error) {
	query := collectionQuery(eventsCollection)
	query.OrderBy = orderBy("date", "ASCENDING")
	query.Limit = int64(limit)
	docs, err := r.client.runQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events by date: %w", err)
	}
	events := make([]entity.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, eventFromDocument(doc))
	}
	return events, nil
}

// FindByID retrieves a single event document.
func (r *FirestoreEventsRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	doc, err := r.client.get(ctx, eventsCollection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrEventNotFound
	}
	e := eventFromDocument(*doc)
	return &e, nil
}

package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	firestore "google.golang.org/api/firestore/v1"

	"github.com/rainbowlistings/directory/internal/entity"
)

// fsDocument mirrors the REST wire shape of a Firestore document.
type fsDocument struct {
	Name       string             `json:"name"`
	Fields     map[string]fsValue `json:"fields"`
	CreateTime string             `json:"createTime,omitempty"`
	UpdateTime string             `json:"updateTime,omitempty"`
}

type fsValue struct {
	StringValue    *string      `json:"stringValue,omitempty"`
	BooleanValue   *bool        `json:"booleanValue,omitempty"`
	IntegerValue   *json.Number `json:"integerValue,omitempty"`
	DoubleValue    *float64     `json:"doubleValue,omitempty"`
	TimestampValue *string      `json:"timestampValue,omitempty"`
	NullValue      *string      `json:"nullValue,omitempty"`
	ArrayValue     *fsArray     `json:"arrayValue,omitempty"`
	MapValue       *fsMap       `json:"mapValue,omitempty"`
}

type fsArray struct {
	Values []fsValue `json:"values,omitempty"`
}

type fsMap struct {
	Fields map[string]fsValue `json:"fields,omitempty"`
}

func decodeDocument(doc *firestore.Document) (fsDocument, error) {
	var out fsDocument
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("marshal firestore document: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode firestore document: %w", err)
	}
	return out, nil
}

// documentID returns the last path segment of a document resource name.
func documentID(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

type fieldReader map[string]fsValue

func (f fieldReader) str(key string) *string {
	v, ok := f[key]
	if !ok || v.StringValue == nil {
		return nil
	}
	val := *v.StringValue
	return &val
}

func (f fieldReader) boolean(key string) bool {
	v, ok := f[key]
	return ok && v.BooleanValue != nil && *v.BooleanValue
}

func (f fieldReader) integer(key string) *int {
	v, ok := f[key]
	if !ok {
		return nil
	}
	switch {
	case v.IntegerValue != nil:
		n, err := v.IntegerValue.Int64()
		if err != nil {
			return nil
		}
		cast := int(n)
		return &cast
	case v.DoubleValue != nil:
		cast := int(*v.DoubleValue)
		return &cast
	}
	return nil
}

func (f fieldReader) float(key string) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	switch {
	case v.DoubleValue != nil:
		val := *v.DoubleValue
		return &val
	case v.IntegerValue != nil:
		n, err := v.IntegerValue.Float64()
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

func (f fieldReader) strings(key string) []string {
	v, ok := f[key]
	if !ok || v.ArrayValue == nil {
		return nil
	}
	var out []string
	for _, item := range v.ArrayValue.Values {
		if item.StringValue != nil {
			out = append(out, *item.StringValue)
		}
	}
	return out
}

func (f fieldReader) nested(key string) fieldReader {
	v, ok := f[key]
	if !ok || v.MapValue == nil {
		return fieldReader{}
	}
	return fieldReader(v.MapValue.Fields)
}

// timestamp accepts native timestamps, RFC 3339 strings and epoch milliseconds.
// Anything else yields nil.
func (f fieldReader) timestamp(key string) *time.Time {
	v, ok := f[key]
	if !ok {
		return nil
	}
	switch {
	case v.TimestampValue != nil:
		return parseTimestamp(*v.TimestampValue)
	case v.StringValue != nil:
		return parseTimestamp(*v.StringValue)
	case v.IntegerValue != nil:
		ms, err := v.IntegerValue.Int64()
		if err != nil {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}

func parseTimestamp(raw string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}

func businessFromDocument(doc fsDocument) entity.Business {
	f := fieldReader(doc.Fields)
	socials := f.nested("socialLinks")

	b := entity.Business{
		ID:              documentID(doc.Name),
		Category:        f.str("category"),
		Categories:      f.strings("categories"),
		Description:     f.str("description"),
		Address:         f.str("address"),
		City:            f.str("city"),
		State:           f.str("state"),
		ZIP:             f.str("zip"),
		Phone:           f.str("phone"),
		Email:           f.str("email"),
		Website:         f.str("website"),
		ImageURL:        f.str("imageUrl"),
		Rating:          f.float("rating"),
		RatingCount:     f.integer("ratingCount"),
		Verified:        f.boolean("verified"),
		LGBTQWelcome:    f.boolean("lgbtqWelcome"),
		FriendlyStaff:   f.boolean("friendlyStaff"),
		LGBTQOwned:      f.boolean("lgbtqOwned"),
		SafeEnvironment: f.boolean("safeEnvironment"),
		CreatedAt:       f.timestamp("createdAt"),
		UpdatedAt:       f.timestamp("updatedAt"),
	}
	if name := f.str("name"); name != nil {
		b.Name = *name
	}
	if status := f.str("status"); status != nil {
		b.Status = *status
	}
	if owner := f.str("ownerId"); owner != nil {
		b.OwnerID = *owner
	}
	for key, dst := range map[string]*string{
		"facebook":  &b.Socials.Facebook,
		"instagram": &b.Socials.Instagram,
		"twitter":   &b.Socials.Twitter,
		"linkedin":  &b.Socials.LinkedIn,
	} {
		if val := socials.str(key); val != nil {
			*dst = *val
		}
	}
	if b.CreatedAt == nil && doc.CreateTime != "" {
		b.CreatedAt = parseTimestamp(doc.CreateTime)
	}
	return b
}

func eventFromDocument(doc fsDocument) entity.Event {
	f := fieldReader(doc.Fields)
	e := entity.Event{
		ID:           documentID(doc.Name),
		Title:        f.str("title"),
		Description:  f.str("description"),
		Date:         f.str("date"),
		StartTime:    f.str("startTime"),
		EndTime:      f.str("endTime"),
		Location:     f.str("location"),
		City:         f.str("city"),
		State:        f.str("state"),
		Capacity:     f.integer("capacity"),
		Price:        f.str("price"),
		ImageURL:     f.str("imageUrl"),
		BusinessName: f.str("businessName"),
		Category:     f.str("category"),
		CreatedAt:    f.timestamp("createdAt"),
	}
	// Dates are sometimes stored as native timestamps.
	if e.Date == nil {
		if ts := f.timestamp("date"); ts != nil {
			day := ts.UTC().Format("2006-01-02")
			e.Date = &day
		}
	}
	if e.CreatedAt == nil && doc.CreateTime != "" {
		e.CreatedAt = parseTimestamp(doc.CreateTime)
	}
	return e
}

// fieldWriter accumulates wire-format values for a document write.
type fieldWriter map[string]any

func (w fieldWriter) str(key string, value *string) {
	if value == nil {
		return
	}
	w[key] = map[string]any{"stringValue": *value}
}

func (w fieldWriter) plain(key, value string) {
	w[key] = map[string]any{"stringValue": value}
}

func (w fieldWriter) boolean(key string, value bool) {
	w[key] = map[string]any{"booleanValue": value}
}

func (w fieldWriter) integer(key string, value *int) {
	if value == nil {
		return
	}
	w[key] = map[string]any{"integerValue": strconv.Itoa(*value)}
}

func (w fieldWriter) float(key string, value *float64) {
	if value == nil {
		return
	}
	w[key] = map[string]any{"doubleValue": *value}
}

func (w fieldWriter) strings(key string, values []string) {
	items := make([]any, 0, len(values))
	for _, v := range values {
		items = append(items, map[string]any{"stringValue": v})
	}
	w[key] = map[string]any{"arrayValue": map[string]any{"values": items}}
}

func (w fieldWriter) timestamp(key string, value *time.Time) {
	if value == nil {
		return
	}
	w[key] = map[string]any{"timestampValue": value.UTC().Format(time.RFC3339Nano)}
}

func (w fieldWriter) nested(key string, inner fieldWriter) {
	w[key] = map[string]any{"mapValue": map[string]any{"fields": map[string]any(inner)}}
}

func (w fieldWriter) keys() []string {
	out := make([]string, 0, len(w))
	for k := range w {
		out = append(out, k)
	}
	return out
}

// document converts the accumulated fields into the client's request type.
func (w fieldWriter) document() (*firestore.Document, error) {
	raw, err := json.Marshal(map[string]any{"fields": map[string]any(w)})
	if err != nil {
		return nil, fmt.Errorf("marshal firestore fields: %w", err)
	}
	var doc firestore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("build firestore document: %w", err)
	}
	// Zero values are dropped by the client encoder unless forced.
	for key, v := range doc.Fields {
		wire, _ := w[key].(map[string]any)
		for wireName, goName := range forcedScalars {
			if _, ok := wire[wireName]; ok {
				v.ForceSendFields = append(v.ForceSendFields, goName)
			}
		}
		doc.Fields[key] = v
	}
	return &doc, nil
}

var forcedScalars = map[string]string{
	"stringValue":  "StringValue",
	"booleanValue": "BooleanValue",
	"integerValue": "IntegerValue",
	"doubleValue":  "DoubleValue",
}

func businessFields(b *entity.Business) fieldWriter {
	w := fieldWriter{}
	w.plain("name", b.Name)
	w.str("category", b.Category)
	w.strings("categories", b.Categories)
	w.str("description", b.Description)
	w.str("address", b.Address)
	w.str("city", b.City)
	w.str("state", b.State)
	w.str("zip", b.ZIP)
	w.str("phone", b.Phone)
	w.str("email", b.Email)
	w.str("website", b.Website)
	w.str("imageUrl", b.ImageURL)
	w.float("rating", b.Rating)
	w.integer("ratingCount", b.RatingCount)
	w.boolean("verified", b.Verified)
	w.boolean("lgbtqWelcome", b.LGBTQWelcome)
	w.boolean("friendlyStaff", b.FriendlyStaff)
	w.boolean("lgbtqOwned", b.LGBTQOwned)
	w.boolean("safeEnvironment", b.SafeEnvironment)

	socials := fieldWriter{}
	for key, val := range map[string]string{
		"facebook":  b.Socials.Facebook,
		"instagram": b.Socials.Instagram,
		"twitter":   b.Socials.Twitter,
		"linkedin":  b.Socials.LinkedIn,
	} {
		if val != "" {
			socials.plain(key, val)
		}
	}
	w.nested("socialLinks", socials)

	w.plain("status", b.Status)
	w.plain("ownerId", b.OwnerID)
	w.timestamp("createdAt", b.CreatedAt)
	w.timestamp("updatedAt", b.UpdatedAt)
	return w
}

func bulkFields(record BulkUpsertBusinessInput) fieldWriter {
	w := fieldWriter{}
	w.plain("name", record.Name)
	w.plain("address", record.Address)
	w.strings("categories", record.Categories)
	w.str("description", record.Description)
	w.str("city", record.City)
	w.str("state", record.State)
	w.str("zip", record.ZIP)
	w.str("phone", record.Phone)
	w.str("email", record.Email)
	w.str("website", record.Website)
	w.str("imageUrl", record.ImageURL)
	w.float("rating", record.Rating)
	w.integer("ratingCount", record.RatingCount)
	return w
}

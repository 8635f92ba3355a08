package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/repository"
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// ImportService bulk loads directory listings from spreadsheets.
type ImportService struct {
	repo    repository.BusinessesRepository
	catalog *catalog.Catalog
}

// NewImportService creates a new instance of ImportService.
func NewImportService(repo repository.BusinessesRepository, cat *catalog.Catalog) *ImportService {
	return &ImportService{repo: repo, catalog: cat}
}

var (
	requiredCSVHeaders = []string{"name", "address"}
	optionalCSVHeaders = []string{"categories", "description", "city", "state", "zip", "phone", "email", "website", "image_url", "rating", "rating_count"}
)

// ImportBusinessesCSV ingests listings from a CSV reader. Rows without a name
// or address are skipped; categories are separated by ';' or '|'.
func (s *ImportService) ImportBusinessesCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}

	var (
		records []repository.BulkUpsertBusinessInput
		skipped int
		rowNum  = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}
		rowNum++

		col := func(name string) string {
			idx, ok := indexMap[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := collapseSpaces(col("name"))
		address := collapseSpaces(col("address"))
		if name == "" || address == "" {
			skipped++
			continue
		}

		categories, catErr := s.parseCategories(col("categories"))
		if catErr != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("%v on row %d", catErr, rowNum)}
		}

		rating, parseErr := parseOptionalFloat(col("rating"))
		if parseErr != nil || (rating != nil && (*rating < 0 || *rating > 5)) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid rating value on row %d", rowNum)}
		}

		ratingCount, parseCountErr := parseOptionalInt(col("rating_count"))
		if parseCountErr != nil || (ratingCount != nil && *ratingCount < 0) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid rating_count value on row %d", rowNum)}
		}

		records = append(records, repository.BulkUpsertBusinessInput{
			Name:        name,
			Address:     address,
			Categories:  categories,
			Description: normalizeString(col("description")),
			City:        normalizeString(col("city")),
			State:       normalizeString(col("state")),
			ZIP:         normalizeString(col("zip")),
			Phone:       normalizeString(col("phone")),
			Email:       normalizeString(strings.ToLower(col("email"))),
			Website:     normalizeString(col("website")),
			ImageURL:    normalizeString(col("image_url")),
			Rating:      rating,
			RatingCount: ratingCount,
		})
	}

	result, err := s.repo.BulkUpsert(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Skipped:  skipped,
		Total:    result.Total,
	}, nil
}

func (s *ImportService) parseCategories(raw string) ([]string, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' })
	var out []string
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cat, err := s.catalog.Lookup(part)
		if err != nil {
			return nil, fmt.Errorf("unknown category %q", part)
		}
		if _, dup := seen[cat.Name]; dup {
			continue
		}
		seen[cat.Name] = struct{}{}
		out = append(out, cat.Name)
	}
	return out, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		index[key] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

// ImportColumns lists every column understood by the importer.
func ImportColumns() []string {
	return append(append([]string(nil), requiredCSVHeaders...), optionalCSVHeaders...)
}

func parseOptionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

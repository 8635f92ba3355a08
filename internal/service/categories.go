package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
)

// CategoryCounts scans the whole businesses collection and counts listings per category.
func (s *ListingsService) CategoryCounts(ctx context.Context) ([]dto.CategoryCount, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch businesses for category counts: %w", err)
	}
	return CountCategories(s.catalog, records), nil
}

// CountCategories returns one entry per catalogue category, in catalogue order.
// A record naming a category in both its list and its legacy field counts once;
// names outside the catalogue are ignored. Names match exactly, as the
// store's category queries do.
func CountCategories(cat *catalog.Catalog, records []entity.Business) []dto.CategoryCount {
	categories := cat.All()
	index := make(map[string]int, len(categories))
	counts := make([]dto.CategoryCount, len(categories))
	for i, c := range categories {
		index[c.Name] = i
		counts[i] = dto.CategoryCount{Category: c}
	}

	for _, record := range records {
		if !isPublished(record) || strings.TrimSpace(record.Name) == "" {
			continue
		}
		counted := make(map[int]struct{})
		for _, name := range record.AllCategories() {
			i, ok := index[name]
			if !ok {
				continue
			}
			if _, dup := counted[i]; dup {
				continue
			}
			counted[i] = struct{}{}
			counts[i].Count++
		}
	}
	return counts
}

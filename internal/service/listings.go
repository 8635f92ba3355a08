package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/dto"
	"github.com/rainbowlistings/directory/internal/entity"
	"github.com/rainbowlistings/directory/internal/repository"
)

// UncategorizedLabel is assigned to listings that name no category at all.
const UncategorizedLabel = "Uncategorized"

// ListingsService serves the business listing views.
type ListingsService struct {
	repo    repository.BusinessesRepository
	catalog *catalog.Catalog
}

// NewListingsService creates a listings service over the businesses store.
func NewListingsService(repo repository.BusinessesRepository, cat *catalog.Catalog) *ListingsService {
	return &ListingsService{repo: repo, catalog: cat}
}

// Search fetches every business (or those of one category), then runs the filter stage.
func (s *ListingsService) Search(ctx context.Context, query dto.ListingQuery) (dto.SearchResult, error) {
	var (
		records []entity.Business
		err     error
	)
	if category := strings.TrimSpace(query.Category); category != "" {
		cat, lookupErr := s.catalog.Lookup(category)
		if lookupErr != nil {
			return dto.SearchResult{}, lookupErr
		}
		records, err = s.repo.ListByCategory(ctx, cat.Name)
	} else {
		records, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return dto.SearchResult{}, fmt.Errorf("fetch businesses: %w", err)
	}

	return FilterBusinesses(NormalizeBusinesses(records), query.Term, query.Location), nil
}

// Category returns a category's metadata together with its filtered listings.
func (s *ListingsService) Category(ctx context.Context, name, term, location string) (dto.CategoryListing, error) {
	cat, err := s.catalog.Lookup(name)
	if err != nil {
		return dto.CategoryListing{}, err
	}

	records, err := s.repo.ListByCategory(ctx, cat.Name)
	if err != nil {
		return dto.CategoryListing{}, fmt.Errorf("fetch category %q: %w", cat.Name, err)
	}

	return dto.CategoryListing{
		Category:     cat,
		SearchResult: FilterBusinesses(NormalizeBusinesses(records), term, location),
	}, nil
}

// Business returns a single listing. Unnamed or unpublished records are reported as not found.
func (s *ListingsService) Business(ctx context.Context, id string) (dto.BusinessTile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.BusinessTile{}, repository.ErrBusinessNotFound
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.BusinessTile{}, err
	}
	if !isPublished(*record) {
		return dto.BusinessTile{}, repository.ErrBusinessNotFound
	}
	tile, ok := NormalizeBusiness(*record)
	if !ok {
		return dto.BusinessTile{}, repository.ErrBusinessNotFound
	}
	return tile, nil
}

// isPublished hides submissions that are awaiting or failed moderation.
// Records seeded without a status are public.
func isPublished(b entity.Business) bool {
	return b.Status != entity.StatusPending && b.Status != entity.StatusRejected
}

// NormalizeBusiness maps a stored record onto a tile, defaulting every optional
// field. It reports false for records without a usable name.
func NormalizeBusiness(b entity.Business) (dto.BusinessTile, bool) {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return dto.BusinessTile{}, false
	}

	categories := nonEmpty(b.Categories)
	if len(categories) == 0 && b.Category != nil && strings.TrimSpace(*b.Category) != "" {
		categories = []string{strings.TrimSpace(*b.Category)}
	}
	if len(categories) == 0 {
		categories = []string{UncategorizedLabel}
	}

	tile := dto.BusinessTile{
		ID:              b.ID,
		Slug:            Slugify(name),
		Name:            name,
		Categories:      categories,
		Description:     deref(b.Description),
		Address:         deref(b.Address),
		City:            deref(b.City),
		State:           deref(b.State),
		ZIP:             deref(b.ZIP),
		Phone:           deref(b.Phone),
		Email:           deref(b.Email),
		Website:         deref(b.Website),
		ImageURL:        deref(b.ImageURL),
		Verified:        b.Verified,
		LGBTQWelcome:    b.LGBTQWelcome,
		FriendlyStaff:   b.FriendlyStaff,
		LGBTQOwned:      b.LGBTQOwned,
		SafeEnvironment: b.SafeEnvironment,
		Socials: dto.SocialLinks{
			Facebook:  b.Socials.Facebook,
			Instagram: b.Socials.Instagram,
			Twitter:   b.Socials.Twitter,
			LinkedIn:  b.Socials.LinkedIn,
		},
		CreatedAt: b.CreatedAt,
	}
	if b.Rating != nil {
		tile.Rating = *b.Rating
	}
	if b.RatingCount != nil {
		tile.RatingCount = *b.RatingCount
	}
	return tile, true
}

// NormalizeBusinesses normalizes, drops unnamed and unpublished records,
// deduplicates by id (the last occurrence wins) and sorts by name.
func NormalizeBusinesses(records []entity.Business) []dto.BusinessTile {
	tiles := dedupeTiles(records)
	SortByName(tiles)
	return tiles
}

func dedupeTiles(records []entity.Business) []dto.BusinessTile {
	byID := make(map[string]int, len(records))
	tiles := make([]dto.BusinessTile, 0, len(records))
	for _, record := range records {
		if !isPublished(record) {
			continue
		}
		tile, ok := NormalizeBusiness(record)
		if !ok {
			continue
		}
		if idx, seen := byID[tile.ID]; seen {
			tiles[idx] = tile
			continue
		}
		byID[tile.ID] = len(tiles)
		tiles = append(tiles, tile)
	}
	return tiles
}

// SortByName orders tiles by name using English collation, ignoring case.
// Equal names fall back to the identifier so the order is deterministic.
func SortByName(tiles []dto.BusinessTile) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(tiles, func(i, j int) bool {
		if c := col.CompareString(tiles[i].Name, tiles[j].Name); c != 0 {
			return c < 0
		}
		return tiles[i].ID < tiles[j].ID
	})
}

// Slugify derives a URL path segment from a business name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(strings.ToLower(name)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
			dash = false
		case r == '&':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
			}
			b.WriteString("and-")
			dash = true
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "listing"
	}
	return slug
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

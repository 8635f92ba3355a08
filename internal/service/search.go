package service

import (
	"strings"

	"github.com/rainbowlistings/directory/internal/dto"
)

// FilterBusinesses applies the free-text term and the location to tiles.
//
// When both are given and nothing matches them together, the location is
// dropped and the result is flagged with LocationFallback, provided the term
// alone finds something. Results are always ordered by name.
func FilterBusinesses(tiles []dto.BusinessTile, term, location string) dto.SearchResult {
	term = strings.TrimSpace(term)
	location = strings.TrimSpace(location)

	result := dto.SearchResult{Term: term, Location: location}

	matched := filterTiles(tiles, term, location)
	if len(matched) == 0 && term != "" && location != "" {
		if termOnly := filterTiles(tiles, term, ""); len(termOnly) > 0 {
			matched = termOnly
			result.LocationFallback = true
		}
	}

	SortByName(matched)
	result.Businesses = matched
	result.Total = len(matched)
	return result
}

func filterTiles(tiles []dto.BusinessTile, term, location string) []dto.BusinessTile {
	needle := strings.ToLower(term)
	place := strings.ToLower(location)

	matched := make([]dto.BusinessTile, 0, len(tiles))
	for _, tile := range tiles {
		if needle != "" && !matchesTerm(tile, needle) {
			continue
		}
		if place != "" && !matchesLocation(tile, place) {
			continue
		}
		matched = append(matched, tile)
	}
	return matched
}

// matchesTerm expects a lower-cased needle.
func matchesTerm(tile dto.BusinessTile, needle string) bool {
	if strings.Contains(strings.ToLower(tile.Name), needle) {
		return true
	}
	for _, category := range tile.Categories {
		if strings.Contains(strings.ToLower(category), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(tile.Description), needle)
}

// matchesLocation expects a lower-cased place and compares against "city, state".
func matchesLocation(tile dto.BusinessTile, place string) bool {
	return strings.Contains(strings.ToLower(tile.City+", "+tile.State), place)
}

package dto

import "github.com/rainbowlistings/directory/internal/entity"

// CategoryCount pairs a category with the number of businesses listing it.
type CategoryCount struct {
	entity.Category
	Count int `json:"count"`
}

// CategoryListing is the category page: its metadata plus matching listings.
type CategoryListing struct {
	Category entity.Category `json:"category"`
	SearchResult
}

package entity

import "time"

// Event is a community event as held by the store.
type Event struct {
	ID           string     `json:"id"`
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Date         *string    `json:"date,omitempty"`
	StartTime    *string    `json:"start_time,omitempty"`
	EndTime      *string    `json:"end_time,omitempty"`
	Location     *string    `json:"location,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"`
	Price        *string    `json:"price,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	BusinessName *string    `json:"business_name,omitempty"`
	Category     *string    `json:"category,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

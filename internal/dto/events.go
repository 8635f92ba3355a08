package dto

// EventTile is a normalized, display-ready event record.
type EventTile struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Location     string `json:"location"`
	City         string `json:"city"`
	State        string `json:"state"`
	Capacity     int    `json:"capacity"`
	Price        string `json:"price"`
	IsFree       bool   `json:"is_free"`
	ImageURL     string `json:"image_url"`
	BusinessName string `json:"business_name"`
	Category     string `json:"category"`
}

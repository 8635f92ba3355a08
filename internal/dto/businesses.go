package dto

import "time"

// BusinessTile is a normalized, display-ready business record.
type BusinessTile struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	Name            string      `json:"name"`
	Categories      []string    `json:"categories"`
	Description     string      `json:"description"`
	Address         string      `json:"address"`
	City            string      `json:"city"`
	State           string      `json:"state"`
	ZIP             string      `json:"zip"`
	Phone           string      `json:"phone"`
	Email           string      `json:"email"`
	Website         string      `json:"website"`
	ImageURL        string      `json:"image_url"`
	Rating          float64     `json:"rating"`
	RatingCount     int         `json:"rating_count"`
	Verified        bool        `json:"verified"`
	LGBTQWelcome    bool        `json:"lgbtq_welcome"`
	FriendlyStaff   bool        `json:"friendly_staff"`
	LGBTQOwned      bool        `json:"lgbtq_owned"`
	SafeEnvironment bool        `json:"safe_environment"`
	Socials         SocialLinks `json:"socials"`
	CreatedAt       *time.Time  `json:"created_at,omitempty"`
}

// SocialLinks mirrors the optional social profile URLs of a listing.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// ListingQuery carries the optional constraints of a listing request.
type ListingQuery struct {
	Category string
	Term     string
	Location string
}

// SearchResult is the output of the filter stage.
type SearchResult struct {
	Businesses       []BusinessTile `json:"businesses"`
	Total            int            `json:"total"`
	Term             string         `json:"term,omitempty"`
	Location         string         `json:"location,omitempty"`
	LocationFallback bool           `json:"location_fallback"`
}

// FeaturedResult reports featured listings and how many fetch attempts it took.
type FeaturedResult struct {
	Businesses []BusinessTile `json:"businesses"`
	Attempts   int            `json:"attempts"`
}

// SubmitBusinessRequest is the listing submission form.
type SubmitBusinessRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZIP         string `json:"zip"`
	Facebook    string `json:"facebook,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
}

// SubmissionResponse confirms a stored submission.
type SubmissionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmissionError is returned with failed submissions so the form can be
// redisplayed with the values the user entered.
type SubmissionError struct {
	Form   SubmitBusinessRequest `json:"form"`
	Fields map[string]string     `json:"fields,omitempty"`
}

// ModerationRequest captures an optional note for approve/reject actions.
type ModerationRequest struct {
	Note string `json:"note,omitempty"`
}

package entity

import "time"

// Submission statuses for business records.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Business is a directory listing as held by the store. Optional attributes are
// pointers so that absent fields can be told apart from zero values.
type Business struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Category        *string     `json:"category,omitempty"`
	Categories      []string    `json:"categories,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Address         *string     `json:"address,omitempty"`
	City            *string     `json:"city,omitempty"`
	State           *string     `json:"state,omitempty"`
	ZIP             *string     `json:"zip,omitempty"`
	Phone           *string     `json:"phone,omitempty"`
	Email           *string     `json:"email,omitempty"`
	Website         *string     `json:"website,omitempty"`
	ImageURL        *string     `json:"image_url,omitempty"`
	Rating          *float64    `json:"rating,omitempty"`
	RatingCount     *int        `json:"rating_count,omitempty"`
	Verified        bool        `json:"verified"`
	LGBTQWelcome    bool        `json:"lgbtq_welcome"`
	FriendlyStaff   bool        `json:"friendly_staff"`
	LGBTQOwned      bool        `json:"lgbtq_owned"`
	SafeEnvironment bool        `json:"safe_environment"`
	Socials         SocialLinks `json:"socials"`
	Status          string      `json:"status,omitempty"`
	OwnerID         string      `json:"owner_id,omitempty"`
	CreatedAt       *time.Time  `json:"created_at,omitempty"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}

// SocialLinks stores the optional social profile URLs of a business.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// AllCategories returns the category names of the record, combining the legacy
// single-category field with the list field without duplicates.
func (b Business) AllCategories() []string {
	seen := make(map[string]struct{}, len(b.Categories)+1)
	out := make([]string, 0, len(b.Categories)+1)
	for _, name := range b.Categories {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if b.Category != nil && *b.Category != "" {
		if _, ok := seen[*b.Category]; !ok {
			out = append(out, *b.Category)
		}
	}
	return out
}

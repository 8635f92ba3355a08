package dto

// HomeSection wraps one landing-page section so a failure renders as a message
// instead of failing the whole page.
type HomeSection[T any] struct {
	Items T      `json:"items"`
	Error string `json:"error,omitempty"`
}

// HomeResponse aggregates the landing page widgets.
type HomeResponse struct {
	Categories HomeSection[[]CategoryCount] `json:"categories"`
	Featured   HomeSection[[]BusinessTile]  `json:"featured"`
	Upcoming   HomeSection[[]EventTile]     `json:"upcoming_events"`
}

package dto

// PromptSearchRequest represents a free-form search prompt such as "bakery in Austin".
type PromptSearchRequest struct {
	Prompt string `json:"prompt"`
}

// PromptSearchResponse echoes the interpreted parameters along with the results.
type PromptSearchResponse struct {
	Prompt string `json:"prompt"`
	SearchResult
}

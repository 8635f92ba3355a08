package dto

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}

// IdentityResponse describes the signed-in caller.
type IdentityResponse struct {
	Subject  string `json:"subject"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Provider string `json:"provider"`
}

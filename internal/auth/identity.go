package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// Identity providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// RoleUser is granted to identities that carry no role of their own.
const RoleUser = "user"

// ErrInvalidToken is returned when no verifier accepts a bearer token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller attached to a request.
type Identity struct {
	Subject  string
	Email    string
	Role     string
	Provider string
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// GoogleVerifier accepts Google-issued ID tokens for a single OAuth client.
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier validates ID tokens whose audience is clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate}
}

// Verify checks the token signature, expiry and audience with Google's public keys.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := g.validate(ctx, token, g.audience)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}
	if payload.Subject == "" {
		return nil, errors.New("google id token has no subject")
	}

	email, _ := payload.Claims["email"].(string)
	return &Identity{
		Subject:  ProviderGoogle + ":" + payload.Subject,
		Email:    strings.ToLower(email),
		Role:     RoleUser,
		Provider: ProviderGoogle,
	}, nil
}

// ChainVerifier tries each verifier in order and returns the first identity.
type ChainVerifier []Verifier

// Verify implements Verifier.
func (c ChainVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	for _, v := range c {
		if v == nil {
			continue
		}
		if identity, err := v.Verify(ctx, token); err == nil {
			return identity, nil
		}
	}
	return nil, ErrInvalidToken
}

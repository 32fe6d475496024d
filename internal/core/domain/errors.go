package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrInvalidState indicates the OAuth state token is unknown, expired,
	// or already consumed. The callback must be rejected before any
	// token exchange takes place.
	ErrInvalidState = errors.New("invalid or expired state")

	// ErrCredentialsNotFound indicates no credentials are cached for the
	// (user, org, provider) tuple; the caller must re-run authorization.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrProviderNotFound indicates an unknown or unregistered provider
	ErrProviderNotFound = errors.New("provider not found")

	// ErrNoRefreshToken indicates stored credentials carry no refresh token
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// TokenExchangeError is returned when the provider's token endpoint
// answers with a non-2xx status. The upstream status and body are
// carried verbatim so callers can surface them; these requests are
// never retried (an authorization code is single-use).
type TokenExchangeError struct {
	Grant      string // "authorization_code" or "refresh_token"
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("%s grant rejected: status %d: %s", e.Grant, e.StatusCode, e.Body)
}

// OAuthProviderError is returned when the provider redirects back with
// an error instead of an authorization code.
type OAuthProviderError struct {
	Code        string
	Description string
}

func (e *OAuthProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider returned error: %s", e.Code)
	}
	return fmt.Sprintf("provider returned error: %s: %s", e.Code, e.Description)
}

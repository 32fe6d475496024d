package driven

import (
	"context"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

// OAuthClient performs the authorization-code grant against one provider's
// OAuth endpoints. Implementations are configured with the provider's
// client id, client secret, and redirect URI at construction.
type OAuthClient interface {
	// AuthorizeURL constructs the provider authorization URL for the given
	// state token. Pure function; no network call.
	AuthorizeURL(state string) string

	// ExchangeCode exchanges an authorization code for tokens.
	// A non-2xx response surfaces as *domain.TokenExchangeError and is
	// never retried: the code is single-use, so a retry cannot succeed.
	ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error)

	// Refresh exchanges a refresh token for new tokens. Same failure
	// shape as ExchangeCode; safe to retry only on transport errors,
	// not on a provider-rejected refresh token.
	Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error)
}

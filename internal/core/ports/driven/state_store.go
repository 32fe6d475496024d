package driven

import (
	"context"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

// StatePayload is the tenant binding stored alongside a state token.
type StatePayload struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

// StateStore manages anti-CSRF state tokens for OAuth authorization flows.
// Tokens are single-use and expire after a short period; a token that is
// missing from the store (never issued, already consumed, or expired) is
// invalid and validation fails closed.
type StateStore interface {
	// Issue generates an unguessable state token bound to (userID, orgID)
	// and stores it with a short expiry. The token embeds the provider
	// name and a cryptographically random component.
	Issue(ctx context.Context, provider domain.ProviderType, userID, orgID string) (string, error)

	// Consume atomically looks up and deletes the state token, ensuring
	// single-use semantics even under concurrent callbacks.
	// Returns domain.ErrInvalidState if the token does not exist.
	Consume(ctx context.Context, provider domain.ProviderType, state string) (*StatePayload, error)
}

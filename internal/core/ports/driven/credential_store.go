package driven

import (
	"context"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

// CredentialStore persists OAuth credentials per (user, org, provider).
// Entries carry a fixed retention TTL; the store's own expiry is the sole
// mechanism for natural aging and says nothing about whether the access
// token is still valid upstream.
type CredentialStore interface {
	// Put upserts credentials, overwriting any prior value and resetting
	// the retention TTL.
	Put(ctx context.Context, provider domain.ProviderType, userID, orgID string, creds *domain.Credentials) error

	// Get retrieves credentials for the exact (provider, userID, orgID)
	// tuple. Returns domain.ErrCredentialsNotFound when absent or expired.
	Get(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error)

	// Delete removes credentials. Idempotent; succeeds even if nothing
	// was present.
	Delete(ctx context.Context, provider domain.ProviderType, userID, orgID string) error
}

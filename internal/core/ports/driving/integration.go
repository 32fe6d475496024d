package driving

import (
	"context"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

// AuthorizeRequest starts an OAuth authorization flow for a tenant.
type AuthorizeRequest struct {
	Provider domain.ProviderType `json:"provider"`
	UserID   string              `json:"user_id"`
	OrgID    string              `json:"org_id"`
}

// AuthorizeResponse carries the URL to redirect the user to.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// CallbackRequest carries the query parameters the provider redirected
// back with.
type CallbackRequest struct {
	Provider         domain.ProviderType `json:"provider"`
	Code             string              `json:"code"`
	State            string              `json:"state"`
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description"`
}

// CallbackResponse reports a completed authorization. The interactive
// popup is expected to close itself on receipt.
type CallbackResponse struct {
	Provider domain.ProviderType `json:"provider"`
	UserID   string              `json:"user_id"`
	OrgID    string              `json:"org_id"`
}

// IntegrationService orchestrates the OAuth credential lifecycle and
// resource listing for all supported providers.
type IntegrationService interface {
	// Authorize issues a state token and builds the provider
	// authorization URL. Concurrent calls for the same tenant are safe
	// and produce independent state tokens.
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error)

	// Callback completes the flow: validates and consumes the state
	// token (fail closed), exchanges the code, and stores the obtained
	// credentials. Returns domain.ErrInvalidState for an unknown,
	// expired, or replayed state before any exchange takes place.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)

	// GetCredentials returns the cached credentials for the tenant, or
	// domain.ErrCredentialsNotFound when re-authorization is required.
	GetCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error)

	// DeleteCredentials revokes the cached credentials. Idempotent.
	DeleteCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) error

	// RefreshCredentials exchanges the stored refresh token for new
	// tokens and re-stores them. Returns domain.ErrNoRefreshToken when
	// the stored credentials carry none.
	RefreshCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error)

	// LoadItems lists the provider's resources as normalized items using
	// the supplied credentials. Best-effort per entity type.
	LoadItems(ctx context.Context, provider domain.ProviderType, creds *domain.Credentials) ([]domain.IntegrationItem, error)
}

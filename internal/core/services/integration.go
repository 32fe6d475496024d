package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers"
	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
	"github.com/custodia-labs/integra-core/internal/core/ports/driving"
)

// Ensure integrationService implements IntegrationService
var _ driving.IntegrationService = (*integrationService)(nil)

// IntegrationServiceConfig holds configuration for the integration service.
type IntegrationServiceConfig struct {
	// StateStore issues and consumes anti-CSRF state tokens.
	StateStore driven.StateStore

	// CredentialStore persists OAuth credentials per tenant.
	CredentialStore driven.CredentialStore

	// Registry provides the OAuth client and resource fetcher per provider.
	Registry *providers.Registry

	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// integrationService implements the IntegrationService interface.
type integrationService struct {
	stateStore      driven.StateStore
	credentialStore driven.CredentialStore
	registry        *providers.Registry
	logger          *slog.Logger
}

// NewIntegrationService creates a new integration service.
func NewIntegrationService(cfg IntegrationServiceConfig) driving.IntegrationService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &integrationService{
		stateStore:      cfg.StateStore,
		credentialStore: cfg.CredentialStore,
		registry:        cfg.Registry,
		logger:          logger,
	}
}

// Authorize starts an OAuth authorization flow: it issues a state token
// bound to the tenant and builds the provider authorization URL. No side
// effect beyond the issued state; concurrent calls for the same tenant
// produce independent tokens, one per open authorization tab.
func (s *integrationService) Authorize(ctx context.Context, req driving.AuthorizeRequest) (*driving.AuthorizeResponse, error) {
	if req.UserID == "" || req.OrgID == "" {
		return nil, fmt.Errorf("%w: user_id and org_id are required", domain.ErrInvalidInput)
	}

	client, err := s.registry.OAuthClient(req.Provider)
	if err != nil {
		return nil, err
	}

	state, err := s.stateStore.Issue(ctx, req.Provider, req.UserID, req.OrgID)
	if err != nil {
		return nil, fmt.Errorf("issue state: %w", err)
	}

	return &driving.AuthorizeResponse{
		AuthorizationURL: client.AuthorizeURL(state),
		State:            state,
	}, nil
}

// Callback completes the flow. The state token is validated and consumed
// before anything else; an unknown, expired, or replayed state rejects
// the callback without any token-exchange network call. The exchange and
// the credential write are not transactional: a Put failure after a
// successful exchange loses the obtained token, which is logged
// distinctly from the expected error cases.
func (s *integrationService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if req.Error != "" {
		return nil, &domain.OAuthProviderError{
			Code:        req.Error,
			Description: req.ErrorDescription,
		}
	}
	if req.Code == "" || req.State == "" {
		return nil, fmt.Errorf("%w: code and state are required", domain.ErrInvalidInput)
	}

	payload, err := s.stateStore.Consume(ctx, req.Provider, req.State)
	if err != nil {
		return nil, err
	}

	client, err := s.registry.OAuthClient(req.Provider)
	if err != nil {
		return nil, err
	}

	creds, err := client.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if err := s.credentialStore.Put(ctx, req.Provider, payload.UserID, payload.OrgID, creds); err != nil {
		s.logger.Error("obtained token lost: credential store write failed after successful exchange",
			"provider", req.Provider,
			"user_id", payload.UserID,
			"org_id", payload.OrgID,
			"error", err)
		return nil, fmt.Errorf("store credentials: %w", err)
	}

	s.logger.Info("authorization completed",
		"provider", req.Provider,
		"user_id", payload.UserID,
		"org_id", payload.OrgID)

	return &driving.CallbackResponse{
		Provider: req.Provider,
		UserID:   payload.UserID,
		OrgID:    payload.OrgID,
	}, nil
}

// GetCredentials returns the cached credentials for the tenant.
func (s *integrationService) GetCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error) {
	if _, err := s.registry.OAuthClient(provider); err != nil {
		return nil, err
	}
	return s.credentialStore.Get(ctx, provider, userID, orgID)
}

// DeleteCredentials revokes the cached credentials. Idempotent.
func (s *integrationService) DeleteCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) error {
	if _, err := s.registry.OAuthClient(provider); err != nil {
		return err
	}
	return s.credentialStore.Delete(ctx, provider, userID, orgID)
}

// RefreshCredentials exchanges the stored refresh token for new tokens
// and re-stores them under the same tenant key. Providers that do not
// rotate refresh tokens return none on refresh, so the previous one is
// carried over.
func (s *integrationService) RefreshCredentials(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error) {
	client, err := s.registry.OAuthClient(provider)
	if err != nil {
		return nil, err
	}

	stored, err := s.credentialStore.Get(ctx, provider, userID, orgID)
	if err != nil {
		return nil, err
	}
	if !stored.HasRefreshToken() {
		return nil, domain.ErrNoRefreshToken
	}

	creds, err := client.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		return nil, err
	}
	if creds.RefreshToken == "" {
		creds.RefreshToken = stored.RefreshToken
	}

	if err := s.credentialStore.Put(ctx, provider, userID, orgID, creds); err != nil {
		return nil, fmt.Errorf("store refreshed credentials: %w", err)
	}

	return creds, nil
}

// LoadItems lists the provider's resources using the supplied
// credentials. Listing is best-effort per entity type.
func (s *integrationService) LoadItems(ctx context.Context, provider domain.ProviderType, creds *domain.Credentials) ([]domain.IntegrationItem, error) {
	fetcher, err := s.registry.Fetcher(provider)
	if err != nil {
		return nil, err
	}
	return fetcher.ListItems(ctx, creds)
}

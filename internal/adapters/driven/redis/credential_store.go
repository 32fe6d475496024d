package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

const (
	credentialPrefix = "credentials:"

	// credentialTTL is the retention period for cached credentials.
	// It is a storage policy only and is deliberately independent of the
	// token's own expires_in; Redis expiry is the sole deletion
	// mechanism for natural aging.
	credentialTTL = 24 * time.Hour
)

// CredentialStore implements driven.CredentialStore using Redis.
// Credentials are keyed by (provider, user, org) so retrieval is only
// possible for the exact tenant tuple that stored them.
type CredentialStore struct {
	client *redis.Client
}

// NewCredentialStore creates a new Redis-backed CredentialStore
func NewCredentialStore(client *redis.Client) *CredentialStore {
	return &CredentialStore{client: client}
}

// Put upserts credentials with the fixed retention TTL, overwriting any
// prior value.
func (s *CredentialStore) Put(ctx context.Context, provider domain.ProviderType, userID, orgID string, creds *domain.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := s.client.Set(ctx, credentialKey(provider, userID, orgID), data, credentialTTL).Err(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

// Get retrieves credentials for the exact (provider, userID, orgID) tuple
func (s *CredentialStore) Get(ctx context.Context, provider domain.ProviderType, userID, orgID string) (*domain.Credentials, error) {
	data, err := s.client.Get(ctx, credentialKey(provider, userID, orgID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return &creds, nil
}

// Delete removes credentials. Idempotent.
func (s *CredentialStore) Delete(ctx context.Context, provider domain.ProviderType, userID, orgID string) error {
	if err := s.client.Del(ctx, credentialKey(provider, userID, orgID)).Err(); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

func credentialKey(provider domain.ProviderType, userID, orgID string) string {
	return credentialPrefix + string(provider) + ":" + userID + ":" + orgID
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

func testCredentials() *domain.Credentials {
	return &domain.Credentials{
		AccessToken:  "tok",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		TokenType:    "Bearer",
	}
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u1", "org1", testCredentials()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessToken != "tok" {
		t.Errorf("expected AccessToken tok, got %s", got.AccessToken)
	}
	if got.RefreshToken != "refresh" {
		t.Errorf("expected RefreshToken refresh, got %s", got.RefreshToken)
	}
	if got.ExpiresIn != 3600 {
		t.Errorf("expected ExpiresIn 3600, got %d", got.ExpiresIn)
	}
	if got.TokenType != "Bearer" {
		t.Errorf("expected TokenType Bearer, got %s", got.TokenType)
	}
}

func TestCredentialStore_Get_NotFound(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1")
	if err != domain.ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound, got %v", err)
	}
}

func TestCredentialStore_TenantIsolation(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u2", "org2", testCredentials()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Credentials are retrievable only for the exact tuple that stored
	// them; any differing user, org, or provider misses.
	cases := []struct {
		name     string
		provider domain.ProviderType
		userID   string
		orgID    string
	}{
		{"different user", domain.ProviderTypeHubSpot, "u1", "org2"},
		{"different org", domain.ProviderTypeHubSpot, "u2", "org1"},
		{"different provider", domain.ProviderTypeNotion, "u2", "org2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Get(ctx, tc.provider, tc.userID, tc.orgID)
			if err != domain.ErrCredentialsNotFound {
				t.Errorf("expected ErrCredentialsNotFound, got %v", err)
			}
		})
	}
}

func TestCredentialStore_Put_Overwrites(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u1", "org1", testCredentials()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := testCredentials()
	updated.AccessToken = "tok2"
	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u1", "org1", updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessToken != "tok2" {
		t.Errorf("expected overwritten AccessToken tok2, got %s", got.AccessToken)
	}
}

func TestCredentialStore_RetentionExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u1", "org1", testCredentials()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Just before the 24h retention TTL the entry is still there
	mr.FastForward(credentialTTL - time.Minute)
	if _, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != nil {
		t.Fatalf("expected credentials before TTL, got %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != domain.ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound after TTL, got %v", err)
	}
}

func TestCredentialStore_Delete_Idempotent(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewCredentialStore(client)
	ctx := context.Background()

	// Deleting something that was never stored succeeds
	if err := store.Delete(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Put(ctx, domain.ProviderTypeHubSpot, "u1", "org1", testCredentials()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != domain.ErrCredentialsNotFound {
		t.Errorf("expected ErrCredentialsNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, domain.ProviderTypeHubSpot, "u1", "org1"); err != nil {
		t.Fatalf("second delete should succeed: %v", err)
	}
}

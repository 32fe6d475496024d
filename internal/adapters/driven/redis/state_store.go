package redis

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

const (
	statePrefix = "state:"

	// stateTTL bounds how long a pending authorization attempt stays valid
	stateTTL = 10 * time.Minute
)

// StateStore implements driven.StateStore using Redis.
// State tokens expire via Redis TTL and are consumed atomically with a
// Lua script so two concurrent callbacks cannot both succeed on one token.
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a new Redis-backed StateStore
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Issue generates a state token bound to (userID, orgID) and stores it
// with a 10-minute expiry. The token embeds the provider name plus a
// random UUID component; randomness, not just uniqueness, is what makes
// a forged callback infeasible.
func (s *StateStore) Issue(ctx context.Context, provider domain.ProviderType, userID, orgID string) (string, error) {
	u := uuid.New()
	token := fmt.Sprintf("%s_%s_%s_%s", provider, userID, orgID, hex.EncodeToString(u[:]))

	data, err := json.Marshal(driven.StatePayload{UserID: userID, OrgID: orgID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal state payload: %w", err)
	}

	if err := s.client.Set(ctx, stateKey(provider, token), data, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to save state: %w", err)
	}

	return token, nil
}

// consumeScript is a Lua script for atomic get-and-delete of a state
// token. Checking and deleting in one round trip closes the TOCTOU
// window that would otherwise allow a state token to be replayed.
var consumeScript = redis.NewScript(`
	local value = redis.call("get", KEYS[1])
	if value then
		redis.call("del", KEYS[1])
	end
	return value
`)

// Consume atomically retrieves and deletes the state token.
// A token that is missing (never issued, already consumed, or expired)
// yields domain.ErrInvalidState.
func (s *StateStore) Consume(ctx context.Context, provider domain.ProviderType, state string) (*driven.StatePayload, error) {
	result, err := consumeScript.Run(ctx, s.client, []string{stateKey(provider, state)}).Result()
	if err == redis.Nil {
		return nil, domain.ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume state: %w", err)
	}

	data, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected state value type %T", result)
	}

	var payload driven.StatePayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state payload: %w", err)
	}

	return &payload, nil
}

func stateKey(provider domain.ProviderType, state string) string {
	return statePrefix + string(provider) + ":" + state
}

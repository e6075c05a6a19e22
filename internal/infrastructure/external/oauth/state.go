package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateManager manages OAuth state tokens for CSRF protection, backed by Redis
// so state survives restarts and works across replicas
type StateManager struct {
	client     *redis.Client
	expiration time.Duration
}

// NewStateManager creates a new state manager
func NewStateManager(client *redis.Client) *StateManager {
	return &StateManager{
		client:     client,
		expiration: 15 * time.Minute,
	}
}

func stateKey(state string) string {
	return fmt.Sprintf("meetact:oauth:state:%s", state)
}

// GenerateState generates a random state token and stores it with expiry
func (sm *StateManager) GenerateState(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.URLEncoding.EncodeToString(b)

	if err := sm.client.Set(ctx, stateKey(state), "valid", sm.expiration).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return state, nil
}

// ValidateState checks a state token and consumes it (one-time use)
func (sm *StateManager) ValidateState(ctx context.Context, state string) bool {
	key := stateKey(state)

	value, err := sm.client.Get(ctx, key).Result()
	if err != nil || value != "valid" {
		return false
	}

	sm.client.Del(ctx, key)

	return true
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records tokens signed out before their expiry.
type RevocationStore struct {
	client   *redis.Client
	fallback time.Duration
	now      func() time.Time
}

// NewRevocationStore builds a store. fallback bounds how long tokens without
// an expiry stay revoked.
func NewRevocationStore(client *redis.Client, fallback time.Duration) *RevocationStore {
	return &RevocationStore{client: client, fallback: fallback, now: time.Now}
}

// Revoke marks the token identified by claims as unusable.
func (s *RevocationStore) Revoke(ctx context.Context, claims *Claims) error {
	if s == nil || s.client == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := s.fallback
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s == nil || s.client == nil || tokenID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, revocationKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("auth: check revocation: %w", err)
	}
	return true, nil
}

func revocationKey(id string) string {
	return "auth:revoked:" + id
}

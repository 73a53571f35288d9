package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/pkg/cache"
)

// cacheSessionStore keeps checkout session values in the shared cache
type cacheSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionStore(cache cache.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{
		cache: cache,
		ttl:   ttl,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, model.SessionStoredMethodID)
}

func (s *cacheSessionStore) GetStoredMethodID(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}

	var storedMethodID string
	found, err := s.cache.Get(ctx, sessionKey(sessionID), &storedMethodID)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return "", nil
	}

	// Sliding expiry: an active checkout keeps its selection. A failed refresh
	// only shortens the selection's life, the value read is still valid.
	if err := s.cache.Expire(ctx, sessionKey(sessionID), s.ttl); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh session ttl")
	}
	return storedMethodID, nil
}

func (s *cacheSessionStore) SetStoredMethodID(ctx context.Context, sessionID, storedMethodID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	if err := s.cache.Set(ctx, sessionKey(sessionID), storedMethodID, s.ttl); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *cacheSessionStore) ClearStoredMethodID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.cache.Delete(ctx, sessionKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

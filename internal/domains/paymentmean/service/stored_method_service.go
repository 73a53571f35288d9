package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/repository"
)

// =====================================================
// STORED METHOD SERVICE
// =====================================================
type StoredMethodService interface {
	// Disable removes a stored payment method of the user at Adyen and forgets
	// any session or preference selection pointing at it
	Disable(ctx context.Context, userID uuid.UUID, sessionID, storedMethodID string) error
}

type storedMethodService struct {
	storedMethodGateway gateway.StoredMethodGateway
	preferenceRepo      repository.UserPreferenceRepository
	sessions            repository.SessionStore
}

func NewStoredMethodService(
	storedMethodGateway gateway.StoredMethodGateway,
	preferenceRepo repository.UserPreferenceRepository,
	sessions repository.SessionStore,
) StoredMethodService {
	return &storedMethodService{
		storedMethodGateway: storedMethodGateway,
		preferenceRepo:      preferenceRepo,
		sessions:            sessions,
	}
}

func (s *storedMethodService) Disable(ctx context.Context, userID uuid.UUID, sessionID, storedMethodID string) error {
	// Step 1: Disable at Adyen
	if err := s.storedMethodGateway.DisableStoredPaymentMethod(ctx, storedMethodID, userID.String()); err != nil {
		return err
	}

	// Step 2: Forget session selection
	selected, err := s.sessions.GetStoredMethodID(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to read session after disabling stored method")
	}
	if selected == storedMethodID {
		if err := s.sessions.ClearStoredMethodID(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to clear session selection: %w", err)
		}
	}

	// Step 3: Forget preference
	if err := s.preferenceRepo.ClearStoredMethod(ctx, userID, storedMethodID); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("stored_method_id", storedMethodID).
		Msg("stored payment method disabled")

	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/internal/domains/paymentmean/repository"
)

// =====================================================
// CHECKOUT SERVICE INTERFACE
// =====================================================
type CheckoutService interface {
	// PaymentMeans returns the enriched, visible payment means for the checkout
	PaymentMeans(ctx context.Context, checkout model.CheckoutContext) (model.PaymentMeanCollection, error)

	// ShippingPayment builds the shipping/payment step view, preselecting the
	// stored method chosen in the session or saved as user preference
	ShippingPayment(ctx context.Context, checkout model.CheckoutContext) (*model.ShippingPaymentView, error)

	// SelectStoredMethod remembers the stored method chosen in this session
	SelectStoredMethod(ctx context.Context, sessionID, storedMethodID string) error

	// GetPreference returns model.ErrPreferenceNotFound when none is saved
	GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error)

	// SavePreference sets (or clears, with nil) the user's preferred stored method
	SavePreference(ctx context.Context, userID uuid.UUID, storedMethodID *string) (*model.UserPreference, error)
}

// =====================================================
// CHECKOUT SERVICE IMPLEMENTATION
// =====================================================
type checkoutService struct {
	paymentMeanRepo repository.PaymentMeanRepository
	preferenceRepo  repository.UserPreferenceRepository
	sessions        repository.SessionStore
	provider        EnrichedPaymentMeanProvider
}

func NewCheckoutService(
	paymentMeanRepo repository.PaymentMeanRepository,
	preferenceRepo repository.UserPreferenceRepository,
	sessions repository.SessionStore,
	provider EnrichedPaymentMeanProvider,
) CheckoutService {
	return &checkoutService{
		paymentMeanRepo: paymentMeanRepo,
		preferenceRepo:  preferenceRepo,
		sessions:        sessions,
		provider:        provider,
	}
}

func (s *checkoutService) PaymentMeans(
	ctx context.Context,
	checkout model.CheckoutContext,
) (model.PaymentMeanCollection, error) {
	// Step 1: Load native payment means
	rows, err := s.paymentMeanRepo.ListActive(ctx)
	if err != nil {
		return model.PaymentMeanCollection{}, fmt.Errorf("failed to load payment means: %w", err)
	}

	// Step 2: Enrich with Adyen
	paymentMeans, err := s.provider.Provide(ctx, model.PaymentMeanCollectionFromRows(rows), checkout)
	if err != nil {
		return model.PaymentMeanCollection{}, err
	}

	// Step 3: Hide what must not be rendered
	return paymentMeans.FilterExcludeHidden(), nil
}

// ShippingPayment builds the shipping/payment view
//
// Flow:
//  1. Load the displayable payment means
//  2. Attach the user preference (logged-in users only)
//  3. Preselect the payment the basket already carries
//  4. Skip stored-method resolution on XHR requests
//  5. Resolve the stored method id: session first, then the user preference
//     when the preselected payment is the umbrella mean
//  6. Select the payment mean representing that stored method, if any
func (s *checkoutService) ShippingPayment(
	ctx context.Context,
	checkout model.CheckoutContext,
) (*model.ShippingPaymentView, error) {
	// Step 1: Payment means
	paymentMeans, err := s.PaymentMeans(ctx, checkout)
	if err != nil {
		return nil, err
	}

	view := &model.ShippingPaymentView{
		PaymentMeans: paymentMeans.ToRawList(),
	}

	// Step 2: User preference
	preference, err := s.findPreference(ctx, checkout.UserID)
	if err != nil {
		return nil, err
	}
	if preference != nil {
		view.UserPreference = preference.ToView()
	}

	// Step 3: Current basket payment
	if checkout.PreselectedPaymentID != 0 {
		if preselected, ok := paymentMeans.FetchByID(checkout.PreselectedPaymentID); ok {
			raw := preselected.Raw()
			view.SelectedPayment = &raw
			view.FormPayment = strconv.Itoa(raw.ID)
		}
	}

	// Step 4: XHR reloads keep the view as is
	if checkout.IsXHR {
		return view, nil
	}

	// Step 5: Stored method id
	storedMethodID, err := s.sessions.GetStoredMethodID(ctx, checkout.SessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", checkout.SessionID).Msg("failed to read stored method from session")
	}
	if storedMethodID == "" {
		storedMethodID = preselectedStoredMethodID(paymentMeans, checkout.PreselectedPaymentID, view.UserPreference)
	}
	if storedMethodID == "" {
		return view, nil
	}

	// Step 6: Select the stored method mean
	storedMean, ok := paymentMeans.FetchByStoredMethodID(storedMethodID)
	if !ok {
		return view, nil
	}

	raw := storedMean.Raw()
	view.SelectedPayment = &raw
	view.FormPayment = storedMean.AdyenStoredMethodUmbrellaID()

	return view, nil
}

func (s *checkoutService) SelectStoredMethod(ctx context.Context, sessionID, storedMethodID string) error {
	if err := s.sessions.SetStoredMethodID(ctx, sessionID, storedMethodID); err != nil {
		return fmt.Errorf("failed to select stored method: %w", err)
	}
	return nil
}

func (s *checkoutService) GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	return s.preferenceRepo.GetByUserID(ctx, userID)
}

func (s *checkoutService) SavePreference(
	ctx context.Context,
	userID uuid.UUID,
	storedMethodID *string,
) (*model.UserPreference, error) {
	preference := &model.UserPreference{
		UserID:         userID,
		StoredMethodID: storedMethodID,
	}

	if err := s.preferenceRepo.Upsert(ctx, preference); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Bool("has_stored_method", storedMethodID != nil).
		Msg("user payment preference saved")

	return preference, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *checkoutService) findPreference(ctx context.Context, userID *uuid.UUID) (*model.UserPreference, error) {
	if userID == nil {
		return nil, nil
	}

	preference, err := s.preferenceRepo.GetByUserID(ctx, *userID)
	if errors.Is(err, model.ErrPreferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user preference: %w", err)
	}
	return preference, nil
}

// preselectedStoredMethodID returns the preferred stored method only when the
// basket's payment is the umbrella mean
func preselectedStoredMethodID(
	paymentMeans model.PaymentMeanCollection,
	preselectedPaymentID int,
	preference *model.UserPreferenceView,
) string {
	if preference == nil || preference.StoredMethodID == "" {
		return ""
	}

	umbrella, ok := paymentMeans.FetchStoredMethodUmbrellaPaymentMean()
	if !ok || umbrella.ID() != preselectedPaymentID {
		return ""
	}

	return preference.StoredMethodID
}

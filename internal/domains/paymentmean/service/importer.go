package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/internal/domains/paymentmean/repository"
)

// PaymentMeanNamePrefix prefixes the names of imported payment means
const PaymentMeanNamePrefix = "adyen_"

// =====================================================
// PAYMENT METHOD IMPORTER
// =====================================================

// PaymentMethodImporter mirrors the Adyen payment methods of the merchant
// account into the store's payment means
type PaymentMethodImporter interface {
	// Import fetches the methods for the default country and currency and
	// imports each non-stored one
	Import(ctx context.Context) ([]model.ImportResult, error)

	// ImportMethod creates or updates the payment mean of one method
	ImportMethod(ctx context.Context, paymentMethod model.PaymentMethod) model.ImportResult
}

type paymentMethodImporter struct {
	paymentMethodService gateway.PaymentMethodService
	paymentMeanRepo      repository.PaymentMeanRepository
	countryCode          string
	currency             string
}

func NewPaymentMethodImporter(
	paymentMethodService gateway.PaymentMethodService,
	paymentMeanRepo repository.PaymentMeanRepository,
	countryCode, currency string,
) PaymentMethodImporter {
	return &paymentMethodImporter{
		paymentMethodService: paymentMethodService,
		paymentMeanRepo:      paymentMeanRepo,
		countryCode:          countryCode,
		currency:             currency,
	}
}

func (i *paymentMethodImporter) Import(ctx context.Context) ([]model.ImportResult, error) {
	paymentMethods, err := i.paymentMethodService.GetPaymentMethods(ctx, model.PaymentMethodOptions{
		CountryCode: i.countryCode,
		Currency:    i.currency,
		Value:       decimal.Zero,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment methods for import: %w", err)
	}

	results := make([]model.ImportResult, 0, paymentMethods.Count())
	for _, paymentMethod := range paymentMethods.FilterExcludeStored().All() {
		results = append(results, i.ImportMethod(ctx, paymentMethod))
	}

	return results, nil
}

// ImportMethod imports one Adyen payment method
//
// Flow:
// 1. Find the payment mean by code, or prepare a new one
// 2. Reject duplicates by name
// 3. Persist the payment mean
// 4. Fail when no id was assigned
// 5. Write the adyen_type attribute
//
// Edge Cases:
// - Name taken by another payment mean -> PM004
// - No id after persisting -> PM005
func (i *paymentMethodImporter) ImportMethod(ctx context.Context, paymentMethod model.PaymentMethod) model.ImportResult {
	identifier := paymentMethod.Identifier()

	var result model.ImportResult
	err := i.paymentMeanRepo.WithTransaction(ctx, func(repo repository.PaymentMeanRepository) error {
		// Step 1: Provide payment mean
		existing, err := repo.FindByCode(ctx, identifier)
		if err != nil {
			return err
		}
		paymentMean, status := providePaymentMean(existing, paymentMethod)

		// Step 2: Duplicate check
		exists, err := paymentMeanExists(ctx, repo, paymentMean)
		if err != nil {
			return err
		}
		if exists {
			return model.NewPaymentExistsError(paymentMean.Name)
		}

		// Step 3: Persist
		if status == model.ImportStatusCreated {
			err = repo.Create(ctx, paymentMean)
		} else {
			err = repo.Update(ctx, paymentMean)
		}
		if err != nil {
			return err
		}

		// Step 4: Verify id
		if paymentMean.ID == 0 {
			return model.NewPaymentNotImportedError(identifier)
		}

		// Step 5: Attribute
		if err := repo.WriteAttribute(ctx, paymentMean.ID, identifier); err != nil {
			return err
		}

		result = model.ImportSuccess(identifier, paymentMean.ID, status)
		return nil
	})

	if err != nil {
		log.Error().Err(err).Str("identifier", identifier).Msg("failed to import Adyen payment method")
		return model.ImportFailure(identifier, err)
	}

	log.Info().
		Str("identifier", identifier).
		Int("payment_mean_id", *result.PaymentMeanID).
		Str("status", result.Status).
		Msg("Adyen payment method imported")

	return result
}

func providePaymentMean(existing *model.RawPaymentMean, paymentMethod model.PaymentMethod) (*model.RawPaymentMean, string) {
	if existing == nil {
		return &model.RawPaymentMean{
			Name:        PaymentMeanNamePrefix + paymentMethod.Identifier(),
			Description: paymentMethod.Name(),
			Source:      model.SourceTypeAdyen,
			Active:      true,
		}, model.ImportStatusCreated
	}

	updated := *existing
	updated.Description = paymentMethod.Name()
	updated.Source = model.SourceTypeAdyen
	return &updated, model.ImportStatusUpdated
}

func paymentMeanExists(
	ctx context.Context,
	repo repository.PaymentMeanRepository,
	paymentMean *model.RawPaymentMean,
) (bool, error) {
	if paymentMean.ID == 0 {
		return repo.ExistsByName(ctx, paymentMean.Name)
	}
	return repo.ExistsDuplicate(ctx, paymentMean)
}

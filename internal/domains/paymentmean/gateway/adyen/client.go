package adyen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// ADYEN CHECKOUT CLIENT
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) (gateway.AdyenGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Adyen config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// =====================================================
// PAYMENT METHODS
// =====================================================

func (c *Client) GetPaymentMethods(
	ctx context.Context,
	opts model.PaymentMethodOptions,
) (model.PaymentMethodCollection, error) {
	// Step 1: Build request
	req := paymentMethodsRequest{
		MerchantAccount:  c.config.MerchantAccount,
		CountryCode:      opts.CountryCode,
		ShopperReference: opts.ShopperReference,
		Channel:          DefaultChannel,
	}
	if opts.Currency != "" {
		req.Amount = &Amount{
			Currency: opts.Currency,
			Value:    ToMinorUnits(opts.Value, opts.Currency),
		}
	}

	// Step 2: Call API
	var resp paymentMethodsResponse
	if err := c.do(ctx, http.MethodPost, c.config.GetPaymentMethodsURL(), req, &resp); err != nil {
		return model.PaymentMethodCollection{}, fmt.Errorf("%w: %w", model.ErrGatewayUnavailable, err)
	}

	log.Debug().
		Str("country", opts.CountryCode).
		Str("currency", opts.Currency).
		Int("methods", len(resp.PaymentMethods)).
		Int("stored_methods", len(resp.StoredPaymentMethods)).
		Msg("Adyen payment methods fetched")

	// Step 3: Build collection
	return model.PaymentMethodCollectionFromRaw(resp.PaymentMethods, resp.StoredPaymentMethods), nil
}

// =====================================================
// STORED PAYMENT METHODS
// =====================================================

func (c *Client) DisableStoredPaymentMethod(
	ctx context.Context,
	storedMethodID, shopperReference string,
) error {
	if storedMethodID == "" {
		return fmt.Errorf("stored_method_id is required")
	}
	if shopperReference == "" {
		return fmt.Errorf("shopper_reference is required")
	}

	query := url.Values{}
	query.Set("merchantAccount", c.config.MerchantAccount)
	query.Set("shopperReference", shopperReference)
	endpoint := c.config.GetStoredPaymentMethodURL(url.PathEscape(storedMethodID)) + "?" + query.Encode()

	err := c.do(ctx, http.MethodDelete, endpoint, nil, nil)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.isStoredMethodNotFound() {
		return model.NewStoredMethodNotFoundError(storedMethodID)
	}
	return fmt.Errorf("%w: failed to disable stored payment method: %w", model.ErrGatewayUnavailable, err)
}

// =====================================================
// TRANSPORT
// =====================================================

func (c *Client) do(ctx context.Context, method, endpoint string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyJSON)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call Adyen API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if len(bodyBytes) > 0 {
			_ = json.Unmarshal(bodyBytes, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if dest == nil || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

package adyen

import (
	"fmt"
	"strings"
	"time"
)

// =====================================================
// ADYEN CONFIGURATION
// =====================================================

const (
	EnvironmentTest = "test"
	EnvironmentLive = "live"

	DefaultAPIVersion = "v71"
	DefaultChannel    = "Web"
)

type Config struct {
	APIKey          string        // X-API-Key credential
	MerchantAccount string        // Adyen merchant account
	Environment     string        // "test" or "live"
	LivePrefix      string        // Live endpoint prefix, required for live
	CheckoutURL     string        // Overrides the derived endpoint (tests, proxies)
	APIVersion      string        // Checkout API version (default: "v71")
	Timeout         time.Duration // HTTP timeout (default: 30s)
}

// NewConfig creates Adyen configuration
func NewConfig(apiKey, merchantAccount, environment, livePrefix string) *Config {
	return &Config{
		APIKey:          apiKey,
		MerchantAccount: merchantAccount,
		Environment:     environment,
		LivePrefix:      livePrefix,
		APIVersion:      DefaultAPIVersion,
		Timeout:         30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("Adyen APIKey is required")
	}
	if c.MerchantAccount == "" {
		return fmt.Errorf("Adyen MerchantAccount is required")
	}
	if c.Environment != EnvironmentTest && c.Environment != EnvironmentLive {
		return fmt.Errorf("Adyen Environment must be %q or %q", EnvironmentTest, EnvironmentLive)
	}
	if c.Environment == EnvironmentLive && c.LivePrefix == "" && c.CheckoutURL == "" {
		return fmt.Errorf("Adyen LivePrefix is required for live environment")
	}
	return nil
}

func (c *Config) IsLive() bool {
	return c.Environment == EnvironmentLive
}

// GetCheckoutURL returns the versioned Checkout API base URL
func (c *Config) GetCheckoutURL() string {
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	if c.CheckoutURL != "" {
		return strings.TrimRight(c.CheckoutURL, "/") + "/" + version
	}
	if c.IsLive() {
		return fmt.Sprintf("https://%s-checkout-live.adyenpayments.com/checkout/%s", c.LivePrefix, version)
	}
	return "https://checkout-test.adyen.com/" + version
}

func (c *Config) GetPaymentMethodsURL() string {
	return c.GetCheckoutURL() + "/paymentMethods"
}

func (c *Config) GetStoredPaymentMethodURL(storedMethodID string) string {
	return c.GetCheckoutURL() + "/storedPaymentMethods/" + storedMethodID
}

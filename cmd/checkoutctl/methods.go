package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"adyen-checkout-backend/internal/config"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/pkg/container"
)

type methodsOptions struct {
	country  string
	currency string
	value    string
	shopper  string
	timeout  time.Duration
}

// methodRow is one line of `checkoutctl methods`
type methodRow struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Type       string `json:"type" yaml:"type"`
	Name       string `json:"name" yaml:"name"`
	Brand      string `json:"brand,omitempty" yaml:"brand,omitempty"`
	StoredID   string `json:"storedId,omitempty" yaml:"storedId,omitempty"`
}

func newMethodsCmd(root *rootOptions) *cobra.Command {
	opts := &methodsOptions{}

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the Adyen payment methods available for a checkout",
		Long: `Calls Adyen /paymentMethods with the given country, currency and cart value.
With --shopper the shopper's stored methods are listed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			paymentOptions, err := opts.paymentMethodOptions(cfg.Checkout)
			if err != nil {
				return err
			}

			adyenGateway, err := container.NewAdyenGateway(cfg.Adyen)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			methods, err := adyenGateway.GetPaymentMethods(ctx, paymentOptions)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), root.output, methodRows(methods), methodTable)
		},
	}

	cmd.Flags().StringVar(&opts.country, "country", "", "ISO country code (default CHECKOUT_DEFAULT_COUNTRY)")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "ISO currency code (default CHECKOUT_DEFAULT_CURRENCY)")
	cmd.Flags().StringVar(&opts.value, "value", "1", "cart value in major units")
	cmd.Flags().StringVar(&opts.shopper, "shopper", "", "shopper reference, to include stored methods")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Adyen request timeout")

	return cmd
}

func (o *methodsOptions) paymentMethodOptions(checkout config.CheckoutConfig) (model.PaymentMethodOptions, error) {
	value, err := decimal.NewFromString(o.value)
	if err != nil {
		return model.PaymentMethodOptions{}, fmt.Errorf("invalid --value %q: %w", o.value, err)
	}
	if value.IsNegative() {
		return model.PaymentMethodOptions{}, fmt.Errorf("invalid --value %q: must not be negative", o.value)
	}

	country := strings.ToUpper(o.country)
	if country == "" {
		country = checkout.DefaultCountry
	}
	currency := strings.ToUpper(o.currency)
	if currency == "" {
		currency = checkout.DefaultCurrency
	}

	return model.PaymentMethodOptions{
		CountryCode:      country,
		Currency:         currency,
		Value:            value,
		ShopperReference: o.shopper,
	}, nil
}

func methodRows(methods model.PaymentMethodCollection) []methodRow {
	rows := make([]methodRow, 0, methods.Count())
	for _, method := range methods.All() {
		rows = append(rows, methodRow{
			Identifier: method.Identifier(),
			Type:       method.Type(),
			Name:       method.Name(),
			Brand:      method.Brand(),
			StoredID:   method.StoredID(),
		})
	}
	return rows
}

func methodTable(data interface{}) ([]string, [][]string) {
	rows := data.([]methodRow)

	lines := make([][]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, []string{row.Identifier, row.Type, row.Name, row.Brand, row.StoredID})
	}
	return []string{"IDENTIFIER", "TYPE", "NAME", "BRAND", "STORED ID"}, lines
}

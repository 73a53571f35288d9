package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	output string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "checkoutctl",
		Short: "Operator CLI for the Adyen checkout backend",
		Long: `Inspect the Adyen payment methods offered to shoppers and import them
into the store's payment means, either inline or through the worker queue.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json or yaml")

	rootCmd.AddCommand(newMethodsCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))

	return rootCmd
}

package cli

import (
	"github.com/spf13/cobra"

	"rateconv/internal/currency"
	"rateconv/internal/display"
)

func newRatesCommand(a *app) *cobra.Command {
	var codes []string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Fetch every configured currency as a base and print the rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bases := a.cfg.Currencies
			if len(codes) > 0 {
				normalized, err := currency.NormalizeList(codes)
				if err != nil {
					return err
				}
				bases = normalized
			}

			result := a.aggregator.FetchAll(cmd.Context(), bases)
			return display.WriteTable(cmd.OutOrStdout(), result, bases)
		},
	}

	cmd.Flags().StringSliceVar(&codes, "currencies", nil, "Currencies to fetch (defaults to the configured list)")

	return cmd
}

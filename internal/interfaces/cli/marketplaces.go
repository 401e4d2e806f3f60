package cli

import (
	"github.com/spf13/cobra"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// marketplacesResult renders the marketplace table.
type marketplacesResult struct {
	Marketplaces []ktypes.Marketplace `json:"marketplaces"`
}

func (r marketplacesResult) TableHeaders() []string {
	return []string{"CODE", "COUNTRY", "HOST", "LOCALE", "CURRENCY"}
}

func (r marketplacesResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Marketplaces))
	for _, m := range r.Marketplaces {
		rows = append(rows, []string{m.Code, m.Country, m.Host, m.Locale, m.Currency})
	}
	return rows
}

func newMarketplacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marketplaces",
		Short: "List the supported marketplaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.requestContext(cmd)
			defer cancel()

			markets, err := cliCtx.Client.Keywords().Marketplaces(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd, marketplacesResult{Marketplaces: markets})
		},
	}
}

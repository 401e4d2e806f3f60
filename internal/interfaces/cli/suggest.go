package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// suggestResult renders the expansion outcome as a numbered list.
type suggestResult struct {
	ktypes.SeedSuggestions
}

func (r suggestResult) TableHeaders() []string {
	return []string{"#", "SUGGESTION"}
}

func (r suggestResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Suggestions))
	for i, s := range r.Suggestions {
		rows = append(rows, []string{strconv.Itoa(i + 1), s})
	}
	return rows
}

func newSuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <seed>",
		Short: "Expand a seed keyword into related suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.requestContext(cmd)
			defer cancel()

			result, err := cliCtx.Client.Keywords().Suggest(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printResult(cmd, suggestResult{result})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum suggestions to return (0 = server default)")
	return cmd
}

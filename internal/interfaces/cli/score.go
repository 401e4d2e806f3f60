package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// scoreResult renders one score record as a key/value table.
type scoreResult struct {
	ktypes.ScoreRecord
}

func (r scoreResult) TableHeaders() []string {
	return []string{"FIELD", "VALUE"}
}

func (r scoreResult) TableRows() [][]string {
	return [][]string{
		{"keyword", r.Keyword},
		{"category", r.Category.Title()},
		{"magnet score", strconv.Itoa(r.MagnetScore)},
		{"intent score", strconv.Itoa(r.IntentScore)},
		{"search volume", strconv.Itoa(r.SearchVolume)},
		{"competition", fmt.Sprintf("%s (%.2f)", r.CompetitionLevel, r.CompetitionScore)},
		{"estimated cpc", fmt.Sprintf("%.2f %s", r.EstimatedCPC, r.Currency)},
		{"optimal bid", fmt.Sprintf("%.2f %s", r.SuggestedBids.Optimal, r.Currency)},
		{"trend", fmt.Sprintf("%+.1f%% (%s)", r.TrendPercentage, r.TrendDirection)},
		{"confidence", fmt.Sprintf("%.2f", r.Confidence)},
		{"data source", r.DataSource},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <keyword>",
		Short: "Score a single keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.requestContext(cmd)
			defer cancel()

			record, err := cliCtx.Client.Keywords().Score(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, scoreResult{record})
		},
	}
}

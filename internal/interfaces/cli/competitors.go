package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// competitorResult renders a persisted competitor report.
type competitorResult struct {
	ktypes.AnalysisRecord
}

func (r competitorResult) TableHeaders() []string {
	return []string{"KEYWORD", "SCORE", "VOLUME", "COMPETITION", "CPC"}
}

func (r competitorResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Report.CompetitorKeywords))
	for _, rec := range r.Report.CompetitorKeywords {
		rows = append(rows, []string{
			rec.Keyword,
			strconv.Itoa(rec.MagnetScore),
			strconv.Itoa(rec.SearchVolume),
			string(rec.CompetitionLevel),
			fmt.Sprintf("%.2f", rec.EstimatedCPC),
		})
	}
	return rows
}

func newCompetitorsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "competitors <keyword>",
		Short: "Analyze the competitor keyword landscape around a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.requestContext(cmd)
			defer cancel()

			rec, err := cliCtx.Client.Analyses().Analyze(ctx, args[0], limit)
			if err != nil {
				return err
			}

			if cliCtx.Verbose {
				s := rec.Report.Summary
				fmt.Fprintf(cmd.OutOrStdout(), "analysis %s: %d keywords, avg score %.1f, avg cpc %.2f %s\n",
					rec.ID, rec.Report.TotalFound, s.AverageMagnetScore, s.AverageCPC, rec.Report.Currency)
			}
			return printResult(cmd, competitorResult{rec})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum competitor keywords (0 = server default)")
	return cmd
}

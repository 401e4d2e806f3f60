package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// bulkResult renders a bulk analysis as one row per keyword.
type bulkResult struct {
	ktypes.BulkAnalysis
}

func (r bulkResult) TableHeaders() []string {
	return []string{"KEYWORD", "SCORE", "VOLUME", "COMPETITION", "CPC", "SOURCE"}
}

func (r bulkResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, rec := range r.Results {
		rows = append(rows, []string{
			rec.Keyword,
			strconv.Itoa(rec.MagnetScore),
			strconv.Itoa(rec.SearchVolume),
			string(rec.CompetitionLevel),
			fmt.Sprintf("%.2f", rec.EstimatedCPC),
			rec.DataSource,
		})
	}
	return rows
}

// readKeywordFile reads one keyword per line, skipping blanks and comments.
func readKeywordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	return keywords, scanner.Err()
}

func newBulkCmd() *cobra.Command {
	var (
		file  string
		async bool
		jobID string
	)

	cmd := &cobra.Command{
		Use:   "bulk [keywords...]",
		Short: "Score a batch of keywords",
		Long:  "Score a batch of keywords given as arguments or read from a file\n(one per line). With --async the batch is enqueued for background\nprocessing; poll the returned job with --job.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.requestContext(cmd)
			defer cancel()

			if jobID != "" {
				job, err := cliCtx.Client.Keywords().BulkJob(ctx, jobID)
				if err != nil {
					return err
				}
				if job.Status == ktypes.JobStatusCompleted && job.Result != nil {
					return printResult(cmd, bulkResult{*job.Result})
				}
				return printJSON(cmd, job)
			}

			keywords := args
			if file != "" {
				fromFile, err := readKeywordFile(file)
				if err != nil {
					return err
				}
				keywords = append(keywords, fromFile...)
			}
			if len(keywords) == 0 {
				return fmt.Errorf("no keywords given; pass them as arguments or via --file")
			}

			if async {
				accepted, err := cliCtx.Client.Keywords().BulkAsync(ctx, keywords)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %s enqueued (%d keywords); poll with: keyrank bulk --job %s\n",
					accepted.JobID, len(keywords), accepted.JobID)
				return nil
			}

			analysis, err := cliCtx.Client.Keywords().Bulk(ctx, keywords)
			if err != nil {
				return err
			}
			return printResult(cmd, bulkResult{analysis})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one keyword per line")
	cmd.Flags().BoolVar(&async, "async", false, "enqueue the batch instead of waiting")
	cmd.Flags().StringVar(&jobID, "job", "", "fetch the status of an async job")
	return cmd
}

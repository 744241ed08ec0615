package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"intervox/internal/api"
	"intervox/internal/interview"
)

func newMetricsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show aggregate pipeline metrics for the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				metrics, err := client.Metrics(cmd.Context())
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, metrics)
				}

				out := cmd.OutOrStdout()
				statusRows := make([][]string, 0, len(metrics.ByStatus))
				for _, status := range interview.AllStatuses() {
					if count, ok := metrics.ByStatus[status.String()]; ok {
						statusRows = append(statusRows, []string{
							displayStatus(status), strconv.Itoa(count),
						})
					}
				}
				if len(statusRows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"Status", "Count"},
						statusRows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}

				if len(metrics.BySentiment) > 0 {
					sentimentRows := make([][]string, 0, len(metrics.BySentiment))
					for _, label := range []string{"positive", "neutral", "negative"} {
						if count, ok := metrics.BySentiment[label]; ok {
							sentimentRows = append(sentimentRows, []string{
								displaySentiment(label), strconv.Itoa(count),
							})
						}
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Sentiment", "Count"},
						sentimentRows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}

				if len(metrics.TopKeywords) > 0 {
					keywordRows := make([][]string, 0, len(metrics.TopKeywords))
					for _, kw := range metrics.TopKeywords {
						keywordRows = append(keywordRows, []string{kw.Term, strconv.Itoa(kw.Count)})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Keyword", "Count"},
						keywordRows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")
	return cmd
}

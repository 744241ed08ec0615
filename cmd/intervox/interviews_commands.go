package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intervox/internal/api"
	"intervox/internal/interview"
)

func newInterviewsCommand(ctx *commandContext) *cobra.Command {
	interviewsCmd := &cobra.Command{
		Use:     "interviews",
		Aliases: []string{"iv"},
		Short:   "Inspect and manage interview records",
	}

	interviewsCmd.AddCommand(newInterviewsListCommand(ctx))
	interviewsCmd.AddCommand(newInterviewsShowCommand(ctx))
	interviewsCmd.AddCommand(newInterviewsDeleteCommand(ctx))
	interviewsCmd.AddCommand(newInterviewsRetryCommand(ctx))
	interviewsCmd.AddCommand(newInterviewsExportCommand(ctx))

	return interviewsCmd
}

func newInterviewsListCommand(ctx *commandContext) *cobra.Command {
	var (
		pageFlag   int
		limitFlag  int
		statusFlag string
		searchFlag string
		jsonFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, err := parseStatusFilter(statusFlag)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				records, meta, err := client.List(cmd.Context(), api.ListQuery{
					Page:   pageFlag,
					Limit:  limitFlag,
					Status: statusFilter,
					Search: searchFlag,
				})
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, map[string]any{"interviews": records, "meta": meta})
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No interviews found")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.ID,
						truncate(record.Title, 40),
						displayStatus(record.Status),
						displaySentiment(record.Sentiment()),
						formatSize(record.FileSize),
						formatWhen(record.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Status", "Sentiment", "Size", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				if meta.Pages > 1 {
					fmt.Fprintf(out, "Page %d of %d (%d total)\n", meta.Page, meta.Pages, meta.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&pageFlag, "page", 0, "Page number")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Page size")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by pipeline status")
	cmd.Flags().StringVar(&searchFlag, "search", "", "Search titles and transcripts")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newInterviewsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show INTERVIEW_ID",
		Short: "Display one interview in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				record, err := client.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, record)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderInterviewDetail(record))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of formatted text")
	return cmd
}

func renderInterviewDetail(record interview.Interview) string {
	var b strings.Builder

	title := record.Title
	if title == "" {
		title = record.OriginalName
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "  %-12s %s\n", "ID:", record.ID)
	fmt.Fprintf(&b, "  %-12s %s\n", "Status:", displayStatus(record.Status))
	fmt.Fprintf(&b, "  %-12s %s (%s)\n", "File:", record.OriginalName, formatSize(record.FileSize))
	fmt.Fprintf(&b, "  %-12s %s\n", "Duration:", formatDuration(record.DurationSeconds))
	fmt.Fprintf(&b, "  %-12s %s\n", "Updated:", formatWhen(record.UpdatedAt))
	if len(record.Tags) > 0 {
		fmt.Fprintf(&b, "  %-12s %s\n", "Tags:", strings.Join(record.Tags, ", "))
	}
	if record.ErrorMessage != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "Error:", record.ErrorMessage)
	}

	if record.Transcript != nil && record.Transcript.Text != "" {
		fmt.Fprintf(&b, "\nTranscript (%s, confidence %.2f):\n  %s\n",
			record.Transcript.LanguageCode, record.Transcript.Confidence,
			truncate(record.Transcript.Text, 400))
	}
	if record.Analysis != nil {
		fmt.Fprintf(&b, "\nAnalysis (%s):\n", record.Analysis.ModelUsed)
		fmt.Fprintf(&b, "  %-12s %s (%.2f)\n", "Sentiment:",
			displaySentiment(record.Analysis.SentimentOverall), record.Analysis.SentimentScore)
		if record.Analysis.Summary != "" {
			fmt.Fprintf(&b, "  %-12s %s\n", "Summary:", record.Analysis.Summary)
		}
	} else if record.SentimentOverall != "" {
		fmt.Fprintf(&b, "  %-12s %s (early)\n", "Sentiment:", displaySentiment(record.SentimentOverall))
	}
	return b.String()
}

func newInterviewsDeleteCommand(ctx *commandContext) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "delete INTERVIEW_ID",
		Short: "Delete an interview permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yesFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete interview %s? [y/N] ", args[0])
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			return ctx.withClient(func(client *api.Client) error {
				if err := client.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newInterviewsRetryCommand(ctx *commandContext) *cobra.Command {
	var analyseFlag bool
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "retry INTERVIEW_ID",
		Short: "Re-run processing for a stalled or failed interview",
		Long: "Re-run processing for a stalled or failed interview.\n\n" +
			"By default transcription is requested again; --analyse re-runs\n" +
			"only the analysis stage on an existing transcript.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			err := ctx.withClient(func(client *api.Client) error {
				record, err := client.GetStatus(cmd.Context(), id)
				if err != nil {
					return err
				}
				if record.Status == interview.StatusCompleted && !analyseFlag {
					return fmt.Errorf("interview %s is already completed", id)
				}
				if analyseFlag {
					if err := client.Analyse(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Analysis requested for %s\n", id)
					return nil
				}
				if err := client.Transcribe(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Transcription requested for %s\n", id)
				return nil
			})
			if err != nil {
				return err
			}
			if watchFlag {
				return watchInterviews(cmd, ctx, []string{id})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&analyseFlag, "analyse", false, "Re-run analysis instead of transcription")
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Follow pipeline progress afterwards")
	return cmd
}

func newInterviewsExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "export INTERVIEW_ID",
		Short: "Print the transcript download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(formatFlag))
			switch format {
			case "txt", "json", "srt":
			default:
				return fmt.Errorf("unsupported export format %q (txt, json, srt)", formatFlag)
			}
			return ctx.withClient(func(client *api.Client) error {
				fmt.Fprintln(cmd.OutOrStdout(), client.ExportURL(args[0], format))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "txt", "Export format: txt, json, or srt")
	return cmd
}

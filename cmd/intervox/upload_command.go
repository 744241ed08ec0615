package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"intervox/internal/session"
	"intervox/internal/uploads"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var templateFlag string
	var titleFlag string
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload media files and queue them for transcription",
		Long: "Upload media files and queue them for transcription.\n\n" +
			"Files are validated locally, uploaded one at a time, and each\n" +
			"successful upload immediately requests transcription. A failed\n" +
			"file is reported and skipped; the rest of the batch continues.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			sessionMgr, err := ctx.sessionManager()
			if err != nil {
				return err
			}
			if titleFlag != "" && len(args) > 1 {
				return errors.New("--title applies to a single file")
			}

			out := cmd.OutOrStdout()
			mgr := uploads.New(client, sessionMgr,
				uploads.WithMaxFileBytes(cfg.MaxFileBytes()),
				uploads.WithLogger(logger))
			mgr.SetTemplateID(templateFlag)

			enqueued := 0
			for _, path := range args {
				item, err := mgr.Enqueue(path)
				if err != nil {
					var rejection *uploads.Rejection
					if errors.As(err, &rejection) {
						fmt.Fprintf(out, "Skipping %v\n", rejection)
						continue
					}
					return err
				}
				if titleFlag != "" {
					if err := mgr.UpdateTitle(item.ID, titleFlag); err != nil {
						return err
					}
				}
				enqueued++
			}
			if enqueued == 0 {
				return errors.New("no files accepted for upload")
			}

			uploaded, err := mgr.UploadAll(cmd.Context())
			if err != nil {
				if errors.Is(err, session.ErrNotAuthenticated) {
					return errors.New("not logged in; run `intervox auth login`")
				}
				return err
			}

			fmt.Fprintln(out, renderUploadResults(mgr.Items()))

			if watchFlag && len(uploaded) > 0 {
				return watchInterviews(cmd, ctx, uploaded)
			}
			if len(uploaded) < enqueued {
				return fmt.Errorf("%d of %d files failed to upload", enqueued-len(uploaded), enqueued)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateFlag, "template", "", "Analysis template id applied to the batch")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Display title (single file only)")
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Follow pipeline progress after uploading")
	return cmd
}

func renderUploadResults(items []uploads.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		detail := item.InterviewID
		if item.Err != "" {
			detail = truncate(item.Err, 60)
		}
		rows = append(rows, []string{
			item.Title,
			formatSize(item.Size),
			string(item.Status),
			detail,
		})
	}
	return renderTable(
		[]string{"Title", "Size", "Result", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	)
}

package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"intervox/internal/interview"
	"intervox/internal/realtime"
	"intervox/internal/statussync"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch INTERVIEW_ID...",
		Short: "Follow interviews until they complete or fail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchInterviews(cmd, ctx, args)
		},
	}
}

// watchInterviews streams status changes for the given interviews to stdout
// until every one reaches a terminal status. Push events and polling feed
// the same synchronizer, so a dropped websocket degrades to poll cadence
// instead of stalling.
func watchInterviews(cmd *cobra.Command, cc *commandContext, ids []string) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return err
	}
	client, err := cc.apiClient()
	if err != nil {
		return err
	}
	mgr, err := cc.sessionManager()
	if err != nil {
		return err
	}

	unique := make([]string, 0, len(ids))
	pending := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := pending[id]; seen {
			continue
		}
		pending[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return errors.New("no interview ids to watch")
	}

	out := cmd.OutOrStdout()
	colorize := stdoutIsTerminal()
	done := make(chan struct{})

	var (
		mu        sync.Mutex
		completed int
		failed    int
	)
	notify := func(record interview.Interview) {
		mu.Lock()
		fmt.Fprintln(out, renderProgressLine(record, colorize))
		if record.Status.IsTerminal() {
			if _, waiting := pending[record.ID]; waiting {
				delete(pending, record.ID)
				if record.Status == interview.StatusFailed {
					failed++
				} else {
					completed++
				}
				if len(pending) == 0 {
					close(done)
				}
			}
		}
		mu.Unlock()
	}

	syncer := statussync.New(client,
		statussync.WithInterval(time.Duration(cfg.Workflow.PollInterval)*time.Second),
		statussync.WithLogger(logger),
		statussync.WithNotify(notify))
	defer syncer.Stop()

	channel := realtime.New(cfg.WebsocketURL(), mgr, realtime.WithLogger(logger))
	channel.SetHandler(syncer.ApplyRealtimeEvent)
	channel.Start(cmd.Context())
	defer channel.Stop()

	syncer.Watch(cmd.Context(), unique...)

	select {
	case <-done:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "Done: %d completed, %d failed\n", completed, failed)
	if failed > 0 && completed == 0 {
		return errors.New("all watched interviews failed")
	}
	return nil
}

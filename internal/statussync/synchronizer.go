package statussync

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"intervox/internal/interview"
	"intervox/internal/logging"
)

// DefaultInterval is the poll cadence used when none is configured.
const DefaultInterval = 5 * time.Second

// Fetcher retrieves the lightweight status record for one interview.
// *api.Client satisfies it.
type Fetcher interface {
	GetStatus(ctx context.Context, id string) (interview.Interview, error)
}

// Option customises Synchronizer construction.
type Option func(*Synchronizer)

// WithInterval overrides the poll cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Synchronizer) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotify registers a callback invoked after every accepted state change.
// The callback runs outside the synchronizer lock and may call back in.
func WithNotify(notify func(interview.Interview)) Option {
	return func(s *Synchronizer) {
		s.notify = notify
	}
}

// Synchronizer tracks a set of interviews and reconciles polled and pushed
// updates into one monotonic state per interview.
type Synchronizer struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
	notify   func(interview.Interview)

	mu      sync.Mutex
	held    map[string]interview.Interview
	cancels map[string]context.CancelFunc
	stopped bool

	wg sync.WaitGroup
}

// New builds a Synchronizer over the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		fetcher:  fetcher,
		interval: DefaultInterval,
		logger:   logging.NewNop(),
		held:     make(map[string]interview.Interview),
		cancels:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch starts tracking the given interviews. Each one gets its own poll
// loop that fetches immediately and then on every tick. Already-watched and
// already-terminal interviews are left alone.
func (s *Synchronizer) Watch(ctx context.Context, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, running := s.cancels[id]; running {
			continue
		}
		held, known := s.held[id]
		if !known {
			s.held[id] = interview.Interview{ID: id}
		} else if held.Status.IsTerminal() {
			continue
		}

		pollCtx, cancel := context.WithCancel(ctx)
		s.cancels[id] = cancel
		s.wg.Add(1)
		go s.pollLoop(pollCtx, id)
	}
}

func (s *Synchronizer) pollLoop(ctx context.Context, id string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.pollOnce(ctx, id)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Synchronizer) pollOnce(ctx context.Context, id string) {
	record, err := s.fetcher.GetStatus(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		// Keep the last known state; the next tick retries.
		s.logger.Debug("status poll failed",
			logging.String("interview_id", id), logging.Error(err))
		return
	}
	if record.ID == "" {
		record.ID = id
	}
	s.ApplyFetchedInterview(record)
}

// ApplyFetchedInterview reconciles a full record obtained from the backend,
// whether by the internal poll loops or by a caller that fetched one itself.
func (s *Synchronizer) ApplyFetchedInterview(record interview.Interview) {
	if record.ID == "" {
		return
	}
	s.mu.Lock()
	merged, changed := interview.Merge(s.held[record.ID], record)
	s.finishUpdateLocked(merged, changed)
}

// ApplyRealtimeEvent reconciles a push event. Events for interviews that are
// not being tracked are discarded.
func (s *Synchronizer) ApplyRealtimeEvent(ev interview.RealtimeEvent) {
	if ev.InterviewID == "" {
		return
	}
	s.mu.Lock()
	held, tracked := s.held[ev.InterviewID]
	if !tracked {
		s.mu.Unlock()
		return
	}
	merged, changed := interview.ApplyEvent(held, ev)
	s.finishUpdateLocked(merged, changed)
}

// finishUpdateLocked stores an accepted update, retires the poll loop on a
// terminal status, and fires the notify callback. The lock is released here.
func (s *Synchronizer) finishUpdateLocked(merged interview.Interview, changed bool) {
	if !changed {
		s.mu.Unlock()
		return
	}
	s.held[merged.ID] = merged
	if merged.Status.IsTerminal() {
		s.cancelLocked(merged.ID)
		s.logger.Debug("interview reached terminal status",
			logging.String("interview_id", merged.ID),
			logging.String("status", merged.Status.String()))
	}
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify(merged)
	}
}

func (s *Synchronizer) cancelLocked(id string) {
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
}

// Get returns the held state for one interview.
func (s *Synchronizer) Get(id string) (interview.Interview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.held[id]
	return record, ok
}

// Snapshot returns all held states ordered by interview id.
func (s *Synchronizer) Snapshot() []interview.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interview.Interview, 0, len(s.held))
	for _, record := range s.held {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InFlight returns the ids that still have an active poll loop.
func (s *Synchronizer) InFlight() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.cancels))
	for id := range s.cancels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels every poll loop and waits for them to exit. The held states
// remain readable afterwards.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

package uploads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"intervox/internal/api"
	"intervox/internal/interview"
	"intervox/internal/logging"
	"intervox/internal/session"
)

const defaultMaxFileBytes = 500 << 20

var (
	// ErrRunInProgress is returned when UploadAll is called while a
	// previous run is still draining the queue.
	ErrRunInProgress = errors.New("upload run already in progress")

	// ErrUnknownItem is returned for operations on an id not in the queue.
	ErrUnknownItem = errors.New("unknown queue item")

	// ErrItemNotIdle is returned when editing an item that has started
	// uploading.
	ErrItemNotIdle = errors.New("queue item is no longer editable")
)

// Uploader covers the backend calls the queue makes; *api.Client
// satisfies it.
type Uploader interface {
	Upload(ctx context.Context, upload api.UploadRequest) (interview.Interview, error)
	Transcribe(ctx context.Context, id string) error
}

// Option customises Manager construction.
type Option func(*Manager)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxFileBytes overrides the enqueue size cap. Zero disables the cap.
func WithMaxFileBytes(maxBytes int64) Option {
	return func(m *Manager) {
		m.maxBytes = maxBytes
	}
}

// WithOnChange registers a callback fired after every item state change,
// outside the manager lock.
func WithOnChange(onChange func(Item)) Option {
	return func(m *Manager) {
		m.onChange = onChange
	}
}

// Manager holds the upload queue. Items are uploaded in enqueue order, one
// at a time; items enqueued while a run is active wait for the next run.
type Manager struct {
	uploader Uploader
	session  session.Provider
	logger   *slog.Logger
	maxBytes int64
	onChange func(Item)

	mu         sync.Mutex
	items      []*Item
	templateID string
	running    bool
}

// New builds an empty queue over the given uploader and credential source.
func New(uploader Uploader, provider session.Provider, opts ...Option) *Manager {
	mgr := &Manager{
		uploader: uploader,
		session:  provider,
		logger:   logging.NewNop(),
		maxBytes: defaultMaxFileBytes,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr
}

// Enqueue validates a file and appends it to the queue. The default title
// is the file name without its extension.
func (m *Manager) Enqueue(path string) (Item, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return Item{}, fmt.Errorf("resolve queue path: %w", err)
	}
	size, mimeType, err := inspect(absolute, m.maxBytes)
	if err != nil {
		return Item{}, err
	}

	item := &Item{
		ID:     uuid.New().String(),
		Path:   absolute,
		Title:  titleFromPath(absolute),
		Size:   size,
		MIME:   mimeType,
		Status: ItemIdle,
	}

	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()

	m.logger.Debug("file enqueued",
		logging.String("path", absolute), logging.Int64("size", size))
	return *item, nil
}

// SetTemplateID selects the analysis template applied to subsequent runs.
func (m *Manager) SetTemplateID(templateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templateID = templateID
}

// UpdateTitle renames a queued item. Only idle items are editable.
func (m *Manager) UpdateTitle(id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.findLocked(id)
	if item == nil {
		return ErrUnknownItem
	}
	if item.Status != ItemIdle {
		return ErrItemNotIdle
	}
	item.Title = title
	return nil
}

// Remove drops an idle item from the queue.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.ID != id {
			continue
		}
		if item.Status != ItemIdle {
			return ErrItemNotIdle
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		return nil
	}
	return ErrUnknownItem
}

// Clear drops every finished item, leaving pending work in place.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.items[:0]
	for _, item := range m.items {
		if !item.Finished() {
			remaining = append(remaining, item)
		}
	}
	m.items = remaining
}

// Items returns a snapshot of the queue in enqueue order.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	for i, item := range m.items {
		out[i] = *item
	}
	return out
}

func (m *Manager) findLocked(id string) *Item {
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// UploadAll drains the items that are idle when the run starts, strictly in
// order, and returns the interview ids created. Credentials are checked
// once up front: without them no item is touched and no request is made.
// A failed upload marks only its own item and the run continues. Each
// successful upload immediately requests transcription; a failure there is
// recorded on the item but does not fail it, since the backend can be asked
// to transcribe again later.
func (m *Manager) UploadAll(ctx context.Context) ([]string, error) {
	if _, err := m.session.Credentials(ctx); err != nil {
		return nil, fmt.Errorf("upload queue: %w", err)
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrRunInProgress
	}
	m.running = true
	templateID := m.templateID
	batch := make([]*Item, 0, len(m.items))
	for _, item := range m.items {
		if item.Status == ItemIdle {
			batch = append(batch, item)
		}
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	var uploaded []string
	for _, item := range batch {
		if ctx.Err() != nil {
			return uploaded, ctx.Err()
		}
		if id, ok := m.uploadOne(ctx, item, templateID); ok {
			uploaded = append(uploaded, id)
		}
	}
	return uploaded, nil
}

func (m *Manager) uploadOne(ctx context.Context, item *Item, templateID string) (string, bool) {
	m.setState(item, func(it *Item) { it.Status = ItemUploading })

	file, err := os.Open(item.Path)
	if err != nil {
		m.failItem(item, fmt.Errorf("open file: %w", err))
		return "", false
	}
	defer file.Close()

	created, err := m.uploader.Upload(ctx, api.UploadRequest{
		File:       file,
		Filename:   filepath.Base(item.Path),
		Title:      item.Title,
		TemplateID: templateID,
	})
	if err != nil {
		m.failItem(item, err)
		return "", false
	}

	m.setState(item, func(it *Item) {
		it.Status = ItemSuccess
		it.InterviewID = created.ID
	})
	m.logger.Info("file uploaded",
		logging.String("path", item.Path), logging.String("interview_id", created.ID))

	if err := m.uploader.Transcribe(ctx, created.ID); err != nil {
		m.logger.Warn("transcription request failed",
			logging.String("interview_id", created.ID), logging.Error(err))
		m.setState(item, func(it *Item) { it.Err = fmt.Sprintf("transcription request: %v", err) })
	}
	return created.ID, true
}

func (m *Manager) failItem(item *Item, err error) {
	m.logger.Warn("upload failed",
		logging.String("path", item.Path), logging.Error(err))
	m.setState(item, func(it *Item) {
		it.Status = ItemError
		it.Err = err.Error()
	})
}

func (m *Manager) setState(item *Item, mutate func(*Item)) {
	m.mu.Lock()
	mutate(item)
	snapshot := *item
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}

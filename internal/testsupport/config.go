package testsupport

import (
	"path/filepath"
	"testing"

	"intervox/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp state path per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.StatePath = filepath.Join(t.TempDir(), "session.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIURL points the test config at a server, usually httptest.
func WithAPIURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.APIURL = url
	}
}

// WithPollInterval overrides the status poll cadence in seconds.
func WithPollInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.PollInterval = seconds
	}
}

// WithMaxFileMiB overrides the upload size cap.
func WithMaxFileMiB(mib int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upload.MaxFileMiB = mib
	}
}

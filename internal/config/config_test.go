package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[server]
api_url = "https://pipeline.example.com/"
request_timeout = 30

[workflow]
poll_interval = 4

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %s", resolved)
	}
	if cfg.Server.APIURL != "https://pipeline.example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Server.APIURL)
	}
	if cfg.Workflow.PollInterval != 4 {
		t.Fatalf("poll interval override lost: %d", cfg.Workflow.PollInterval)
	}
	if cfg.Upload.MaxFileMiB != defaultMaxFileMiB {
		t.Fatalf("unset section should keep defaults: %d", cfg.Upload.MaxFileMiB)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Server.APIURL != defaultAPIURL {
		t.Fatalf("expected default api url, got %q", cfg.Server.APIURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad scheme":    "[server]\napi_url = \"ftp://example.com\"\n",
		"zero poll":     "[workflow]\npoll_interval = 0\n",
		"bad format":    "[logging]\nformat = \"xml\"\n",
		"zero size cap": "[upload]\nmax_file_mib = 0\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWebsocketURL(t *testing.T) {
	cfg := Default()
	cfg.Server.APIURL = "https://pipeline.example.com"
	if got := cfg.WebsocketURL(); got != "wss://pipeline.example.com" {
		t.Fatalf("unexpected wss url: %q", got)
	}
	cfg.Server.APIURL = "http://localhost:8000"
	if got := cfg.WebsocketURL(); got != "ws://localhost:8000" {
		t.Fatalf("unexpected ws url: %q", got)
	}
}

func TestMaxFileBytes(t *testing.T) {
	cfg := Default()
	if got := cfg.MaxFileBytes(); got != 500<<20 {
		t.Fatalf("expected 500 MiB cap, got %d", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(target); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatal("sample missing server section")
	}
	if _, _, _, err := Load(target); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"intervox/internal/interview"
	"intervox/internal/session"
)

func TestUploadStreamsMultipartForm(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/interviews/upload" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Final round" {
			t.Fatalf("unexpected title: %q", got)
		}
		if got := r.FormValue("template_id"); got != "tpl-1" {
			t.Fatalf("unexpected template id: %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "candidate.mp3" {
			t.Fatalf("unexpected filename: %q", header.Filename)
		}
		payload, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("read file part: %v", err)
		}
		if string(payload) != "audio-bytes" {
			t.Fatalf("file content mangled: %q", payload)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data": {"_id": "iv-9", "title": "Final round", "status": "uploaded"}}`))
	}))

	created, err := client.Upload(context.Background(), UploadRequest{
		File:       strings.NewReader("audio-bytes"),
		Filename:   "candidate.mp3",
		Title:      "Final round",
		TemplateID: "tpl-1",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if created.ID != "iv-9" {
		t.Fatalf("server id not captured: %+v", created)
	}
	if created.Status != interview.StatusUploaded {
		t.Fatalf("unexpected status: %s", created.Status)
	}
}

func TestUploadDefaultsTitleToFilename(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "candidate.mp3" {
			t.Fatalf("expected filename fallback title, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"_id": "iv-1", "status": "uploaded"}}`))
	}))

	if _, err := client.Upload(context.Background(), UploadRequest{
		File:     strings.NewReader("x"),
		Filename: "candidate.mp3",
	}); err != nil {
		t.Fatalf("upload: %v", err)
	}
}

func TestGetStatusReturnsPartialRecord(t *testing.T) {
	updated := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/interviews/iv-1/status" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": "iv-1", "status": "transcribing", "error_message": null, "updated_at": "2026-03-04T09:30:00Z"}}`))
	}))

	record, err := client.GetStatus(context.Background(), "iv-1")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if record.ID != "iv-1" || record.Status != interview.StatusTranscribing {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !record.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected updated_at: %s", record.UpdatedAt)
	}
}

func TestGetStatusRejectsUnknownStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": "iv-1", "status": "melting", "updated_at": "2026-03-04T09:30:00Z"}}`))
	}))

	if _, err := client.GetStatus(context.Background(), "iv-1"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListBuildsQueryAndReadsMeta(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("page") != "2" || query.Get("limit") != "12" {
			t.Fatalf("pagination params missing: %s", r.URL.RawQuery)
		}
		if query.Get("interview_status") != "completed" {
			t.Fatalf("status filter missing: %s", r.URL.RawQuery)
		}
		if query.Get("search") != "backend" {
			t.Fatalf("search param missing: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"_id": "iv-1", "status": "completed"}, {"_id": "iv-2", "status": "completed"}],
			"meta": {"page": 2, "limit": 12, "total": 14, "pages": 2}
		}`))
	}))

	records, meta, err := client.List(context.Background(), ListQuery{
		Page: 2, Limit: 12, Status: "completed", Search: "backend",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if meta.Total != 14 || meta.Pages != 2 {
		t.Fatalf("meta not decoded: %+v", meta)
	}
}

func TestMetricsDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/interviews/metrics" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {
			"by_status": {"completed": 3, "failed": 1},
			"by_sentiment": {"positive": 2},
			"top_keywords": [{"term": "golang", "count": 7}]
		}}`))
	}))

	metrics, err := client.Metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.ByStatus["completed"] != 3 {
		t.Fatalf("status counts lost: %+v", metrics)
	}
	if len(metrics.TopKeywords) != 1 || metrics.TopKeywords[0].Term != "golang" {
		t.Fatalf("keywords lost: %+v", metrics)
	}
}

func TestTemplateCRUDPaths(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /api/v1/templates":
			_, _ = w.Write([]byte(`{"data": [{"_id": "tpl-1", "name": "Engineering", "is_system": true}]}`))
		case "POST /api/v1/templates":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data": {"_id": "tpl-2", "name": "Sales"}}`))
		case "DELETE /api/v1/templates/tpl-2":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	templates, err := client.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 1 || !templates[0].IsSystem {
		t.Fatalf("unexpected templates: %+v", templates)
	}

	created, err := client.CreateTemplate(ctx, TemplateRequest{Name: "Sales"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if created.ID != "tpl-2" {
		t.Fatalf("unexpected created template: %+v", created)
	}

	if err := client.DeleteTemplate(ctx, "tpl-2"); err != nil {
		t.Fatalf("delete template: %v", err)
	}
}

func TestExportURL(t *testing.T) {
	client := New("https://pipeline.example.com", session.NewStatic("t", "u"))
	got := client.ExportURL("iv-1", "srt")
	want := "https://pipeline.example.com/api/v1/interviews/iv-1/export?format=srt"
	if got != want {
		t.Fatalf("export url = %q, want %q", got, want)
	}
}

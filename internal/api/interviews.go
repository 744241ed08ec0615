package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"intervox/internal/interview"
)

// Upload streams one file to the backend and returns the created record.
// The response carries the server-assigned interview id that links the
// queued upload to its pipeline job.
func (c *Client) Upload(ctx context.Context, upload UploadRequest) (interview.Interview, error) {
	pipeReader, pipeWriter := io.Pipe()
	form := multipart.NewWriter(pipeWriter)

	go func() {
		err := writeUploadForm(form, upload)
		if closeErr := form.Close(); err == nil {
			err = closeErr
		}
		_ = pipeWriter.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/interviews/upload", pipeReader, form.FormDataContentType())
	if err != nil {
		return interview.Interview{}, err
	}

	var created interview.Interview
	if _, err := c.doJSON(req, &created); err != nil {
		return interview.Interview{}, err
	}
	return created, nil
}

func writeUploadForm(form *multipart.Writer, upload UploadRequest) error {
	part, err := form.CreateFormFile("file", upload.Filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, upload.File); err != nil {
		return fmt.Errorf("stream file: %w", err)
	}

	title := strings.TrimSpace(upload.Title)
	if title == "" {
		title = upload.Filename
	}
	if err := form.WriteField("title", title); err != nil {
		return fmt.Errorf("write title field: %w", err)
	}
	if upload.TemplateID != "" {
		if err := form.WriteField("template_id", upload.TemplateID); err != nil {
			return fmt.Errorf("write template field: %w", err)
		}
	}
	return nil
}

// Transcribe asks the backend to start (or restart) transcription.
func (c *Client) Transcribe(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/interviews/"+url.PathEscape(id)+"/transcribe", nil, nil)
}

// Analyse asks the backend to start (or restart) AI analysis.
func (c *Client) Analyse(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/interviews/"+url.PathEscape(id)+"/analyse", nil, nil)
}

// Get fetches one full interview record.
func (c *Client) Get(ctx context.Context, id string) (interview.Interview, error) {
	var record interview.Interview
	if _, err := c.getJSON(ctx, "/interviews/"+url.PathEscape(id), &record); err != nil {
		return interview.Interview{}, err
	}
	return record, nil
}

// GetStatus fetches the lightweight status projection used by polling. The
// result is a partial Interview carrying id, status, error message and
// updated_at only.
func (c *Client) GetStatus(ctx context.Context, id string) (interview.Interview, error) {
	var payload statusPayload
	if _, err := c.getJSON(ctx, "/interviews/"+url.PathEscape(id)+"/status", &payload); err != nil {
		return interview.Interview{}, err
	}

	status, err := interview.ParseStatus(payload.Status)
	if err != nil {
		return interview.Interview{}, fmt.Errorf("interview %s: %w", id, err)
	}
	return interview.Interview{
		ID:           payload.ID,
		Status:       status,
		ErrorMessage: payload.ErrorMessage,
		UpdatedAt:    payload.UpdatedAt,
	}, nil
}

// List returns a page of interviews plus pagination metadata.
func (c *Client) List(ctx context.Context, query ListQuery) ([]interview.Interview, Meta, error) {
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if strings.TrimSpace(query.Status) != "" {
		values.Set("interview_status", query.Status)
	}
	if strings.TrimSpace(query.Search) != "" {
		values.Set("search", query.Search)
	}

	path := "/interviews"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var records []interview.Interview
	meta, err := c.getJSON(ctx, path, &records)
	if err != nil {
		return nil, Meta{}, err
	}
	if meta == nil {
		meta = &Meta{Total: len(records)}
	}
	return records, *meta, nil
}

// Update patches the user-editable fields of an interview.
func (c *Client) Update(ctx context.Context, id string, update UpdateRequest) (interview.Interview, error) {
	data, err := jsonBody(update)
	if err != nil {
		return interview.Interview{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPatch, "/interviews/"+url.PathEscape(id), data, "application/json")
	if err != nil {
		return interview.Interview{}, err
	}
	var record interview.Interview
	if _, err := c.doJSON(req, &record); err != nil {
		return interview.Interview{}, err
	}
	return record, nil
}

// Delete removes an interview permanently.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/interviews/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	_, err = c.doJSON(req, nil)
	return err
}

// Metrics returns aggregate counts for the account.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var metrics Metrics
	if _, err := c.getJSON(ctx, "/interviews/metrics", &metrics); err != nil {
		return Metrics{}, err
	}
	return metrics, nil
}

// ExportURL returns the download location for a finished transcript. The
// format is one of the backend's export formats (txt, json, srt).
func (c *Client) ExportURL(id, format string) string {
	return fmt.Sprintf("%s%s/interviews/%s/export?format=%s",
		c.baseURL, apiPrefix, url.PathEscape(id), url.QueryEscape(format))
}

package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListTemplates returns every analysis template visible to the user,
// including the read-only system templates.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if _, err := c.getJSON(ctx, "/templates", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate adds a user-owned analysis template.
func (c *Client) CreateTemplate(ctx context.Context, request TemplateRequest) (Template, error) {
	var created Template
	if err := c.postJSON(ctx, "/templates", request, &created); err != nil {
		return Template{}, err
	}
	return created, nil
}

// UpdateTemplate replaces a user-owned template's fields.
func (c *Client) UpdateTemplate(ctx context.Context, id string, request TemplateRequest) (Template, error) {
	data, err := jsonBody(request)
	if err != nil {
		return Template{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/templates/"+url.PathEscape(id), data, "application/json")
	if err != nil {
		return Template{}, err
	}
	var updated Template
	if _, err := c.doJSON(req, &updated); err != nil {
		return Template{}, err
	}
	return updated, nil
}

// DeleteTemplate removes a user-owned template.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/templates/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	_, err = c.doJSON(req, nil)
	return err
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package confluence talks to the Confluence REST API and exposes the
// operation set advertised by the tool catalog.
package confluence

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/logging"
)

// APIError is a non-2xx response from the Confluence API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is an authenticated Confluence API client
type Client struct {
	baseURL string
	cfg     config.ServiceConfig
	http    *http.Client
	logger  *logging.Logger
}

// New creates a Confluence client from the service configuration
func New(cfg config.ServiceConfig, logger *logging.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid Confluence URL %q", cfg.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.SSLVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		cfg:     cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   60 * time.Second,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the configured base URL for the Confluence instance
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.PersonalToken != "" && !config.IsCloudURL(c.cfg.URL) {
		req.Header.Set("Authorization", "Bearer "+c.cfg.PersonalToken)
	} else {
		req.SetBasicAuth(c.cfg.Username, c.cfg.APIToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Search runs a CQL query. When a spaces filter is configured and the query
// does not already constrain the space, results are restricted to the listed
// spaces.
func (c *Client) Search(ctx context.Context, cql string, start, limit int, spacesFilter []string) (*SearchResult, error) {
	cql = applySpacesFilter(cql, spacesFilter)

	query := url.Values{}
	query.Set("cql", cql)
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("expand", "space,version")

	var out struct {
		Results   []Page `json:"results"`
		TotalSize int    `json:"totalSize"`
		Start     int    `json:"start"`
		Limit     int    `json:"limit"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/search", query, nil, &out); err != nil {
		return nil, err
	}
	return &SearchResult{
		Pages:     out.Results,
		TotalSize: out.TotalSize,
		Start:     out.Start,
		Limit:     out.Limit,
	}, nil
}

// GetPage retrieves one page by ID, with its storage body. With toMarkdown
// set the body is converted for the projection.
func (c *Client) GetPage(ctx context.Context, pageID string, toMarkdown bool) (*Page, error) {
	query := url.Values{}
	query.Set("expand", "body.storage,version,space")

	var page Page
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(pageID), query, nil, &page); err != nil {
		return nil, err
	}
	if toMarkdown {
		c.convertPage(&page)
	}
	return &page, nil
}

// GetPageByTitle looks a page up by space key and exact title
func (c *Client) GetPageByTitle(ctx context.Context, spaceKey, title string, toMarkdown bool) (*Page, error) {
	query := url.Values{}
	query.Set("spaceKey", spaceKey)
	query.Set("title", title)
	query.Set("expand", "body.storage,version,space")

	var out struct {
		Results []Page `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content", query, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Results) == 0 {
		return nil, fmt.Errorf("no page found with title %q in space %s", title, spaceKey)
	}
	page := out.Results[0]
	if toMarkdown {
		c.convertPage(&page)
	}
	return &page, nil
}

// GetPageChildren lists child pages of a parent. With includeContent set the
// storage body is fetched for each child as well.
func (c *Client) GetPageChildren(ctx context.Context, parentID string, start, limit int, includeContent, toMarkdown bool) ([]Page, error) {
	expand := "version,space"
	if includeContent {
		expand += ",body.storage"
	}

	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("expand", expand)

	var out struct {
		Results []Page `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(parentID)+"/child/page", query, nil, &out); err != nil {
		return nil, err
	}
	if includeContent && toMarkdown {
		for i := range out.Results {
			c.convertPage(&out.Results[i])
		}
	}
	return out.Results, nil
}

// GetPageAncestors returns the ancestor chain of a page, root first
func (c *Client) GetPageAncestors(ctx context.Context, pageID string) ([]Page, error) {
	query := url.Values{}
	query.Set("expand", "ancestors.version,ancestors.space")

	var out struct {
		Ancestors []Page `json:"ancestors"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(pageID), query, nil, &out); err != nil {
		return nil, err
	}
	return out.Ancestors, nil
}

// GetPageComments returns the comments on a page, bodies converted to
// markdown
func (c *Client) GetPageComments(ctx context.Context, pageID string) ([]Comment, error) {
	query := url.Values{}
	query.Set("expand", "body.view,version")
	query.Set("limit", "100")

	var out struct {
		Results []Comment `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(pageID)+"/child/comment", query, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Results {
		comment := &out.Results[i]
		if comment.Body == nil || comment.Body.View == nil {
			continue
		}
		markdown, err := htmlToMarkdown(comment.Body.View.Value)
		if err != nil {
			c.logger.Warnf("Failed to convert comment %s to markdown: %v", comment.ID, err)
			continue
		}
		comment.markdown = markdown
	}
	return out.Results, nil
}

// CreatePage creates a page from a markdown body, optionally under a parent
func (c *Client) CreatePage(ctx context.Context, spaceKey, title, markdownBody, parentID string) (*Page, error) {
	storage, err := markdownToStorage(markdownBody)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"type":  "page",
		"title": title,
		"space": map[string]any{"key": spaceKey},
		"body": map[string]any{
			"storage": map[string]any{
				"value":          storage,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]any{{"id": parentID}}
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/rest/api/content", nil, payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage replaces a page's title and markdown body, bumping the version.
// An empty versionComment is omitted.
func (c *Client) UpdatePage(ctx context.Context, pageID, title, markdownBody string, minorEdit bool, versionComment, parentID string) (*Page, error) {
	current, err := c.GetPage(ctx, pageID, false)
	if err != nil {
		return nil, err
	}
	if current.Version == nil {
		return nil, fmt.Errorf("page %s has no version information", pageID)
	}

	storage, err := markdownToStorage(markdownBody)
	if err != nil {
		return nil, err
	}

	version := map[string]any{
		"number":    current.Version.Number + 1,
		"minorEdit": minorEdit,
	}
	if versionComment != "" {
		version["message"] = versionComment
	}

	payload := map[string]any{
		"id":      pageID,
		"type":    "page",
		"title":   title,
		"version": version,
		"body": map[string]any{
			"storage": map[string]any{
				"value":          storage,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]any{{"id": parentID}}
	}

	var page Page
	if err := c.do(ctx, http.MethodPut, "/rest/api/content/"+url.PathEscape(pageID), nil, payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeletePage deletes a page by ID
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	return c.do(ctx, http.MethodDelete, "/rest/api/content/"+url.PathEscape(pageID), nil, nil, nil)
}

// convertPage fills the markdown projection from the storage body. A
// conversion failure is logged and leaves the raw storage value in place.
func (c *Client) convertPage(page *Page) {
	if page.Body == nil || page.Body.Storage == nil || page.Body.Storage.Value == "" {
		return
	}
	markdown, err := htmlToMarkdown(page.Body.Storage.Value)
	if err != nil {
		c.logger.Warnf("Failed to convert page %s to markdown: %v", page.ID, err)
		return
	}
	page.markdown = markdown
}

// applySpacesFilter restricts a CQL query to the configured space keys. A
// query that already mentions a space is left alone so explicit constraints
// win.
func applySpacesFilter(cql string, filter []string) string {
	if len(filter) == 0 || strings.Contains(strings.ToLower(cql), "space") {
		return cql
	}
	quoted := make([]string, 0, len(filter))
	for _, key := range filter {
		quoted = append(quoted, `"`+key+`"`)
	}
	clause := fmt.Sprintf("space in (%s)", strings.Join(quoted, ", "))
	if strings.TrimSpace(cql) == "" {
		return clause
	}
	return fmt.Sprintf("(%s) AND %s", cql, clause)
}

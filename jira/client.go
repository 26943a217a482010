/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package jira talks to the Jira REST and Agile APIs and exposes the
// operation set advertised by the tool catalog.
package jira

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
	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/logging"
)

// APIError is a non-2xx response from the Jira API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is an authenticated Jira API client
type Client struct {
	baseURL string
	cfg     config.ServiceConfig
	http    *http.Client
	logger  *logging.Logger

	fields fieldCache
}

// New creates a Jira client from the service configuration. The URL must
// parse; credentials are applied per request.
func New(cfg config.ServiceConfig, logger *logging.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid Jira URL %q", cfg.URL)
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

// BaseURL returns the configured base URL for the Jira instance
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes one API request. Path must start with /rest/. A non-nil out is
// filled from the JSON response body; 204 responses leave it untouched.
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
	c.authenticate(req)

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

// authenticate applies the credential style selected at startup: a personal
// access token as a bearer token, otherwise basic auth.
func (c *Client) authenticate(req *http.Request) {
	if c.cfg.PersonalToken != "" && !config.IsCloudURL(c.cfg.URL) {
		req.Header.Set("Authorization", "Bearer "+c.cfg.PersonalToken)
		return
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.APIToken)
}

// GetIssueOptions control which parts of an issue are returned
type GetIssueOptions struct {
	Fields        string
	Expand        string
	Properties    string
	CommentLimit  int
	UpdateHistory bool
}

// GetIssue retrieves one issue by key (e.g. "PROJ-123")
func (c *Client) GetIssue(ctx context.Context, issueKey string, opts GetIssueOptions) (*Issue, error) {
	fields := opts.Fields
	if fields == "" {
		fields = global.DefaultIssueFields
	}
	// comments ride along in the issue payload
	if opts.CommentLimit > 0 && fields != "*all" && !strings.Contains(fields, "comment") {
		fields += ",comment"
	}

	query := url.Values{}
	if fields != "*all" {
		query.Set("fields", fields)
	}
	if opts.Expand != "" {
		query.Set("expand", opts.Expand)
	}
	if opts.Properties != "" {
		query.Set("properties", opts.Properties)
	}
	query.Set("updateHistory", strconv.FormatBool(opts.UpdateHistory))

	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issue/"+url.PathEscape(issueKey), query, nil, &issue); err != nil {
		return nil, err
	}
	issue.commentLimit = opts.CommentLimit
	return &issue, nil
}

// SearchOptions control paging and projection for search-like operations
type SearchOptions struct {
	Fields         string
	StartAt        int
	Limit          int
	Expand         string
	ProjectsFilter []string
}

// SearchIssues runs a JQL search. When a projects filter applies, the JQL is
// wrapped so only the listed projects can match.
func (c *Client) SearchIssues(ctx context.Context, jql string, opts SearchOptions) (*SearchResult, error) {
	jql = applyProjectsFilter(jql, opts.ProjectsFilter)

	payload := map[string]any{
		"jql":        jql,
		"startAt":    opts.StartAt,
		"maxResults": opts.Limit,
	}
	if opts.Fields != "" && opts.Fields != "*all" {
		payload["fields"] = splitFields(opts.Fields)
	}
	if opts.Expand != "" {
		payload["expand"] = opts.Expand
	}

	var result SearchResult
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/search", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProjectIssues returns issues for one project, newest first
func (c *Client) GetProjectIssues(ctx context.Context, projectKey string, startAt, limit int) (*SearchResult, error) {
	jql := fmt.Sprintf("project = %s ORDER BY created DESC", projectKey)
	return c.SearchIssues(ctx, jql, SearchOptions{StartAt: startAt, Limit: limit})
}

// GetEpicIssues returns issues linked to an epic, covering both the cloud
// parent relation and the server/DC Epic Link field
func (c *Client) GetEpicIssues(ctx context.Context, epicKey string, startAt, limit int) ([]Issue, error) {
	jql := fmt.Sprintf(`parent = %s OR "Epic Link" = %s ORDER BY created ASC`, epicKey, epicKey)
	result, err := c.SearchIssues(ctx, jql, SearchOptions{StartAt: startAt, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Issues, nil
}

// GetTransitions returns the workflow transitions currently available on an issue
func (c *Client) GetTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var out struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/transitions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Transitions, nil
}

// GetWorklogs returns all worklog entries on an issue
func (c *Client) GetWorklogs(ctx context.Context, issueKey string) ([]Worklog, error) {
	var out struct {
		Worklogs []Worklog `json:"worklogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/worklog", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Worklogs, nil
}

// BoardOptions filter the agile board listing
type BoardOptions struct {
	Name       string
	ProjectKey string
	Type       string
	StartAt    int
	Limit      int
}

// GetAgileBoards lists agile boards by name, project, or type
func (c *Client) GetAgileBoards(ctx context.Context, opts BoardOptions) ([]Board, error) {
	query := url.Values{}
	if opts.Name != "" {
		query.Set("name", opts.Name)
	}
	if opts.ProjectKey != "" {
		query.Set("projectKeyOrId", opts.ProjectKey)
	}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	query.Set("startAt", strconv.Itoa(opts.StartAt))
	query.Set("maxResults", strconv.Itoa(opts.Limit))

	var out struct {
		Values []Board `json:"values"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/agile/1.0/board", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// GetBoardIssues returns issues on a board matching the given JQL
func (c *Client) GetBoardIssues(ctx context.Context, boardID, jql string, opts SearchOptions) (*SearchResult, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(opts.StartAt))
	query.Set("maxResults", strconv.Itoa(opts.Limit))
	if opts.Fields != "" && opts.Fields != "*all" {
		query.Set("fields", opts.Fields)
	}
	if opts.Expand != "" {
		query.Set("expand", opts.Expand)
	}

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/rest/agile/1.0/board/"+url.PathEscape(boardID)+"/issue", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSprintsFromBoard lists a board's sprints, optionally by state
func (c *Client) GetSprintsFromBoard(ctx context.Context, boardID, state string, startAt, limit int) ([]Sprint, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(limit))

	var out struct {
		Values []Sprint `json:"values"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/agile/1.0/board/"+url.PathEscape(boardID)+"/sprint", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// GetSprintIssues returns issues assigned to a sprint
func (c *Client) GetSprintIssues(ctx context.Context, sprintID string, opts SearchOptions) (*SearchResult, error) {
	query := url.Values{}
	query.Set("startAt", strconv.Itoa(opts.StartAt))
	query.Set("maxResults", strconv.Itoa(opts.Limit))
	if opts.Fields != "" && opts.Fields != "*all" {
		query.Set("fields", opts.Fields)
	}

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/rest/agile/1.0/sprint/"+url.PathEscape(sprintID)+"/issue", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateSprint creates a sprint on a board
func (c *Client) CreateSprint(ctx context.Context, create SprintCreate) (*Sprint, error) {
	boardID, err := strconv.Atoi(create.BoardID)
	if err != nil {
		return nil, fmt.Errorf("board_id must be numeric, got %q", create.BoardID)
	}

	payload := map[string]any{
		"name":          create.Name,
		"startDate":     create.StartDate,
		"endDate":       create.EndDate,
		"originBoardId": boardID,
	}
	if create.Goal != "" {
		payload["goal"] = create.Goal
	}

	var sprint Sprint
	if err := c.do(ctx, http.MethodPost, "/rest/agile/1.0/sprint", nil, payload, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateSprint applies a partial update to a sprint; empty fields are left alone
func (c *Client) UpdateSprint(ctx context.Context, sprintID string, update SprintUpdate) (*Sprint, error) {
	payload := map[string]any{}
	if update.Name != "" {
		payload["name"] = update.Name
	}
	if update.State != "" {
		payload["state"] = update.State
	}
	if update.StartDate != "" {
		payload["startDate"] = update.StartDate
	}
	if update.EndDate != "" {
		payload["endDate"] = update.EndDate
	}
	if update.Goal != "" {
		payload["goal"] = update.Goal
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("no sprint fields to update")
	}

	var sprint Sprint
	if err := c.do(ctx, http.MethodPost, "/rest/agile/1.0/sprint/"+url.PathEscape(sprintID), nil, payload, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// CreateIssue creates one issue and returns it with its assigned key
func (c *Client) CreateIssue(ctx context.Context, create IssueCreate) (*Issue, error) {
	var created struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue", nil, map[string]any{"fields": issuePayload(create)}, &created); err != nil {
		return nil, err
	}
	return c.GetIssue(ctx, created.Key, GetIssueOptions{})
}

// BatchCreateIssues creates several issues in one bulk request. With
// validateOnly set, payloads are checked locally and nothing is sent.
func (c *Client) BatchCreateIssues(ctx context.Context, issues []IssueCreate, validateOnly bool) ([]Issue, error) {
	updates := make([]map[string]any, 0, len(issues))
	for i, issue := range issues {
		if issue.ProjectKey == "" || issue.Summary == "" || issue.IssueType == "" {
			return nil, fmt.Errorf("issue %d: project_key, summary and issue_type are required", i)
		}
		updates = append(updates, map[string]any{"fields": issuePayload(issue)})
	}
	if validateOnly {
		return nil, nil
	}

	var out struct {
		Issues []Issue `json:"issues"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue/bulk", nil, map[string]any{"issueUpdates": updates}, &out); err != nil {
		return nil, err
	}
	// the bulk response carries only id/key/self; fold the request data back
	// in so callers get a meaningful projection
	for i := range out.Issues {
		if i < len(issues) {
			out.Issues[i].Fields.Summary = issues[i].Summary
			out.Issues[i].Fields.IssueType = &NamedRef{Name: issues[i].IssueType}
		}
	}
	return out.Issues, nil
}

// UpdateIssue applies field changes to an issue and attaches any local files,
// then returns the refreshed issue
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, fields map[string]any, attachments []string) (*Issue, error) {
	if len(fields) > 0 {
		if err := c.do(ctx, http.MethodPut, "/rest/api/2/issue/"+url.PathEscape(issueKey), nil, map[string]any{"fields": fields}, nil); err != nil {
			return nil, err
		}
	}
	for _, path := range attachments {
		if err := c.uploadAttachment(ctx, issueKey, path); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", path, err)
		}
	}
	return c.GetIssue(ctx, issueKey, GetIssueOptions{})
}

// DeleteIssue deletes an issue by key
func (c *Client) DeleteIssue(ctx context.Context, issueKey string) error {
	return c.do(ctx, http.MethodDelete, "/rest/api/2/issue/"+url.PathEscape(issueKey), nil, nil, nil)
}

// AddComment adds a comment to an issue
func (c *Client) AddComment(ctx context.Context, issueKey, comment string) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/comment", nil, map[string]any{"body": comment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddWorklog records time spent on an issue. Comment and started are optional.
func (c *Client) AddWorklog(ctx context.Context, issueKey, timeSpent, comment, started string) (*Worklog, error) {
	payload := map[string]any{"timeSpent": timeSpent}
	if comment != "" {
		payload["comment"] = comment
	}
	if started != "" {
		payload["started"] = started
	}

	var out Worklog
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/worklog", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkToEpic attaches an issue to an epic via the agile API and returns the
// refreshed issue
func (c *Client) LinkToEpic(ctx context.Context, issueKey, epicKey string) (*Issue, error) {
	payload := map[string]any{"issues": []string{issueKey}}
	if err := c.do(ctx, http.MethodPost, "/rest/agile/1.0/epic/"+url.PathEscape(epicKey)+"/issue", nil, payload, nil); err != nil {
		return nil, err
	}
	return c.GetIssue(ctx, issueKey, GetIssueOptions{})
}

// TransitionIssue moves an issue through a workflow transition. The Jira API
// insists on a numeric transition identifier.
func (c *Client) TransitionIssue(ctx context.Context, issueKey string, transitionID int, fields map[string]any, comment string) (*Issue, error) {
	payload := map[string]any{
		"transition": map[string]any{"id": transitionID},
	}
	if len(fields) > 0 {
		payload["fields"] = fields
	}
	if comment != "" {
		payload["update"] = map[string]any{
			"comment": []map[string]any{{"add": map[string]any{"body": comment}}},
		}
	}

	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/transitions", nil, payload, nil); err != nil {
		return nil, err
	}
	return c.GetIssue(ctx, issueKey, GetIssueOptions{})
}

// CreateIssueLink links two issues, optionally with a comment
func (c *Client) CreateIssueLink(ctx context.Context, link IssueLink) error {
	payload := map[string]any{
		"type":         map[string]any{"name": link.LinkType},
		"inwardIssue":  map[string]any{"key": link.InwardIssueKey},
		"outwardIssue": map[string]any{"key": link.OutwardIssueKey},
	}
	if link.Comment != "" {
		comment := map[string]any{"body": link.Comment}
		visType, _ := link.CommentVisibility["type"].(string)
		visValue, _ := link.CommentVisibility["value"].(string)
		if visType != "" && visValue != "" {
			comment["visibility"] = map[string]any{"type": visType, "value": visValue}
		}
		payload["comment"] = comment
	}
	return c.do(ctx, http.MethodPost, "/rest/api/2/issueLink", nil, payload, nil)
}

// RemoveIssueLink deletes an issue link by its ID
func (c *Client) RemoveIssueLink(ctx context.Context, linkID string) error {
	return c.do(ctx, http.MethodDelete, "/rest/api/2/issueLink/"+url.PathEscape(linkID), nil, nil, nil)
}

// GetIssueLinkTypes lists all available issue link types
func (c *Client) GetIssueLinkTypes(ctx context.Context) ([]LinkType, error) {
	var out struct {
		IssueLinkTypes []LinkType `json:"issueLinkTypes"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issueLinkType", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.IssueLinkTypes, nil
}

// issuePayload builds the REST fields object for issue creation
func issuePayload(create IssueCreate) map[string]any {
	fields := map[string]any{
		"project":   map[string]any{"key": create.ProjectKey},
		"summary":   create.Summary,
		"issuetype": map[string]any{"name": create.IssueType},
	}
	if create.Description != "" {
		fields["description"] = create.Description
	}
	if create.Assignee != "" {
		fields["assignee"] = map[string]any{"name": create.Assignee}
	}
	if len(create.Components) > 0 {
		components := make([]map[string]any, 0, len(create.Components))
		for _, name := range create.Components {
			components = append(components, map[string]any{"name": name})
		}
		fields["components"] = components
	}
	for key, value := range create.Extra {
		fields[key] = value
	}
	return fields
}

// applyProjectsFilter restricts a JQL query to the configured project keys
func applyProjectsFilter(jql string, filter []string) string {
	if len(filter) == 0 {
		return jql
	}
	clause := fmt.Sprintf("project IN (%s)", strings.Join(filter, ", "))
	if strings.TrimSpace(jql) == "" {
		return clause
	}
	// keep any trailing ORDER BY outside the parenthesised query
	upper := strings.ToUpper(jql)
	if idx := strings.Index(upper, "ORDER BY"); idx >= 0 {
		return fmt.Sprintf("(%s) AND %s %s", strings.TrimSpace(jql[:idx]), clause, jql[idx:])
	}
	return fmt.Sprintf("(%s) AND %s", jql, clause)
}

func splitFields(fields string) []string {
	parts := strings.Split(fields, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/confluence"
	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/jira"
)

func TestDispatchUnknownTool(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{}}, nil)

	result, err := s.dispatch(context.Background(), callRequest("jira_no_such_tool", nil))
	if err == nil {
		t.Fatalf("expected protocol error, got result %v", result)
	}
	if !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDispatchServiceNotConfigured(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceSearch,
		map[string]any{"query": "runbook"}))
	if err != nil {
		t.Fatalf("not-configured must be a content block, got error: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "Confluence is not configured") {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestDispatchReadOnlyBlocksWrites(t *testing.T) {
	// the fake has no createIssue hook, so any backend contact fails the test
	s := newTestServer(t, Services{Jira: &fakeJira{}}, &config.Config{ReadOnly: true})

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraCreateIssue, map[string]any{
		"project_key": "PROJ",
		"summary":     "A task",
		"issue_type":  "Task",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Error("read-only refusal must not be an error result")
	}
	want := "Operation 'jira_create_issue' is not available in read-only mode."
	if text := resultText(t, result); text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestDispatchReadOnlyAllowsReads(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{
		getTransitions: func(_ context.Context, issueKey string) ([]jira.Transition, error) {
			return []jira.Transition{{ID: "21", Name: "Done"}}, nil
		},
	}}, &config.Config{ReadOnly: true})

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraGetTransitions,
		map[string]any{"issue_key": "PROJ-1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "Done") {
		t.Errorf("transition missing from response: %s", text)
	}
}

func TestDispatchHandlerErrorBecomesErrorResult(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{
		getWorklogs: func(_ context.Context, _ string) ([]jira.Worklog, error) {
			return nil, fmt.Errorf("backend exploded")
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraGetWorklog,
		map[string]any{"issue_key": "PROJ-1"}))
	if err != nil {
		t.Fatalf("handler errors must become content blocks, got: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result")
	}
	if text := resultText(t, result); text != "Error: backend exploded" {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{
		getIssueLinkTypes: func(_ context.Context) ([]jira.LinkType, error) {
			panic("boom")
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraGetLinkTypes, nil))
	if err != nil {
		t.Fatalf("panic must not escape dispatch: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "internal failure in jira_get_link_types") {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestConfluenceSearchFreeTextFallback(t *testing.T) {
	var queries []string
	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		search: func(_ context.Context, cql string, _, _ int, _ []string) (*confluence.SearchResult, error) {
			queries = append(queries, cql)
			if strings.HasPrefix(cql, "siteSearch") {
				return nil, fmt.Errorf("siteSearch not supported")
			}
			return &confluence.SearchResult{TotalSize: 1, Limit: 10}, nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceSearch,
		map[string]any{"query": "deployment runbook"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	want := []string{
		`siteSearch ~ "deployment runbook"`,
		`text ~ "deployment runbook"`,
	}
	if !reflect.DeepEqual(queries, want) {
		t.Errorf("queries = %v, want %v", queries, want)
	}
}

func TestConfluenceSearchPassesCQLThrough(t *testing.T) {
	var got string
	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		search: func(_ context.Context, cql string, _, _ int, _ []string) (*confluence.SearchResult, error) {
			got = cql
			return &confluence.SearchResult{}, nil
		},
	}}, nil)

	cql := "type=page AND space=DEV"
	if _, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceSearch,
		map[string]any{"query": cql})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cql {
		t.Errorf("CQL rewritten to %q", got)
	}
}

func TestConfluenceSearchFilterOverride(t *testing.T) {
	var gotFilter []string
	cfg := &config.Config{}
	cfg.Confluence.Filter = []string{"OPS"}

	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		search: func(_ context.Context, _ string, _, _ int, spacesFilter []string) (*confluence.SearchResult, error) {
			gotFilter = spacesFilter
			return &confluence.SearchResult{}, nil
		},
	}}, cfg)

	// no per-call filter: the configured one applies
	if _, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceSearch,
		map[string]any{"query": "type=page"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotFilter, []string{"OPS"}) {
		t.Errorf("configured filter not applied: %v", gotFilter)
	}

	// per-call filter overrides
	if _, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceSearch,
		map[string]any{"query": "type=page", "spaces_filter": "DEV,TEAM"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotFilter, []string{"DEV", "TEAM"}) {
		t.Errorf("per-call filter not applied: %v", gotFilter)
	}
}

func TestBatchCreateIssuesArgumentShapes(t *testing.T) {
	var received []jira.IssueCreate
	s := newTestServer(t, Services{Jira: &fakeJira{
		batchCreateIssues: func(_ context.Context, issues []jira.IssueCreate, _ bool) ([]jira.Issue, error) {
			received = issues
			return []jira.Issue{{Key: "PROJ-1"}, {Key: "PROJ-2"}}, nil
		},
	}}, nil)

	payload := `[{"project_key":"PROJ","summary":"One","issue_type":"Task"},` +
		`{"project_key":"PROJ","summary":"Two","issue_type":"Bug"}]`
	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraBatchCreateIssues,
		map[string]any{"issues": payload}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if len(received) != 2 || received[1].Summary != "Two" || received[1].IssueType != "Bug" {
		t.Errorf("issues not decoded: %+v", received)
	}

	// malformed JSON never reaches the backend
	received = nil
	result, err = s.dispatch(context.Background(), callRequest(global.ToolJiraBatchCreateIssues,
		map[string]any{"issues": `[{"project_key":`}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for malformed JSON")
	}
	if received != nil {
		t.Error("backend contacted despite parse failure")
	}
}

func TestBatchCreateIssuesValidateOnly(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{
		batchCreateIssues: func(_ context.Context, issues []jira.IssueCreate, validateOnly bool) ([]jira.Issue, error) {
			if !validateOnly {
				t.Error("validate_only not forwarded")
			}
			return nil, nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraBatchCreateIssues, map[string]any{
		"issues":        `[{"project_key":"PROJ","summary":"One","issue_type":"Task"}]`,
		"validate_only": true,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "1 issues validated successfully, none created") {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestUpdateIssueDropsMissingAttachments(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "real.txt")
	if err := os.WriteFile(existing, []byte("data"), 0600); err != nil {
		t.Fatal(err)
	}

	var gotAttachments []string
	s := newTestServer(t, Services{Jira: &fakeJira{
		updateIssue: func(_ context.Context, _ string, _ map[string]any, attachments []string) (*jira.Issue, error) {
			gotAttachments = attachments
			return &jira.Issue{Key: "PROJ-1"}, nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraUpdateIssue, map[string]any{
		"issue_key":   "PROJ-1",
		"fields":      `{"summary":"New"}`,
		"attachments": existing + ",/nonexistent/nope.txt",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !reflect.DeepEqual(gotAttachments, []string{existing}) {
		t.Errorf("attachments = %v, want just %s", gotAttachments, existing)
	}
}

func TestUpdateIssueRequiresSomething(t *testing.T) {
	s := newTestServer(t, Services{Jira: &fakeJira{}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraUpdateIssue, map[string]any{
		"issue_key": "PROJ-1",
		"fields":    "{}",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for an empty update")
	}
}

func TestTransitionIssueCoercesID(t *testing.T) {
	var gotID int
	fake := &fakeJira{
		transitionIssue: func(_ context.Context, _ string, transitionID int, _ map[string]any, _ string) (*jira.Issue, error) {
			gotID = transitionID
			return &jira.Issue{Key: "PROJ-1"}, nil
		},
	}
	s := newTestServer(t, Services{Jira: fake}, nil)

	// string id, per the declared schema
	if _, err := s.dispatch(context.Background(), callRequest(global.ToolJiraTransitionIssue,
		map[string]any{"issue_key": "PROJ-1", "transition_id": "21"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 21 {
		t.Errorf("string id coerced to %d, want 21", gotID)
	}

	// clients also send plain numbers
	if _, err := s.dispatch(context.Background(), callRequest(global.ToolJiraTransitionIssue,
		map[string]any{"issue_key": "PROJ-1", "transition_id": float64(31)})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 31 {
		t.Errorf("numeric id coerced to %d, want 31", gotID)
	}

	// garbage gets a usable message without backend contact
	result, err := s.dispatch(context.Background(), callRequest(global.ToolJiraTransitionIssue,
		map[string]any{"issue_key": "PROJ-1", "transition_id": "Done"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for a non-numeric id")
	}
	if text := resultText(t, result); !strings.Contains(text, "jira_get_transitions") {
		t.Errorf("message should point at jira_get_transitions: %s", text)
	}
}

func TestGetIssueClampsCommentLimit(t *testing.T) {
	var gotOpts jira.GetIssueOptions
	s := newTestServer(t, Services{Jira: &fakeJira{
		getIssue: func(_ context.Context, _ string, opts jira.GetIssueOptions) (*jira.Issue, error) {
			gotOpts = opts
			return &jira.Issue{Key: "PROJ-1"}, nil
		},
	}}, nil)

	if _, err := s.dispatch(context.Background(), callRequest(global.ToolJiraGetIssue, map[string]any{
		"issue_key":     "PROJ-1",
		"comment_limit": float64(500),
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.CommentLimit != global.MaxCommentLimit {
		t.Errorf("comment limit = %d, want %d", gotOpts.CommentLimit, global.MaxCommentLimit)
	}
	if gotOpts.Fields != global.DefaultIssueFields {
		t.Errorf("fields = %q, want defaults", gotOpts.Fields)
	}
}

func TestJiraSearchClampsLimitAndUsesConfiguredFilter(t *testing.T) {
	var gotOpts jira.SearchOptions
	cfg := &config.Config{}
	cfg.Jira.Filter = []string{"PROJ"}

	s := newTestServer(t, Services{Jira: &fakeJira{
		searchIssues: func(_ context.Context, _ string, opts jira.SearchOptions) (*jira.SearchResult, error) {
			gotOpts = opts
			return &jira.SearchResult{}, nil
		},
	}}, cfg)

	if _, err := s.dispatch(context.Background(), callRequest(global.ToolJiraSearch, map[string]any{
		"jql":   "status = Open",
		"limit": float64(500),
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.Limit != global.MaxPageSize {
		t.Errorf("limit = %d, want %d", gotOpts.Limit, global.MaxPageSize)
	}
	if !reflect.DeepEqual(gotOpts.ProjectsFilter, []string{"PROJ"}) {
		t.Errorf("projects filter = %v, want [PROJ]", gotOpts.ProjectsFilter)
	}
}

func TestConfluenceGetPageMetadataToggle(t *testing.T) {
	page := &confluence.Page{
		ID:    "123",
		Title: "Runbook",
		Body:  &confluence.Body{Storage: &confluence.BodyContent{Value: "<p>hi</p>", Representation: "storage"}},
		Version: &confluence.Version{
			Number: 4,
		},
	}
	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		getPage: func(_ context.Context, _ string, _ bool) (*confluence.Page, error) {
			return page, nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceGetPage, map[string]any{
		"page_id":          "123",
		"include_metadata": false,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if strings.Contains(text, "version") {
		t.Errorf("metadata leaked into trimmed view: %s", text)
	}
	if !strings.Contains(text, "Runbook") {
		t.Errorf("title missing: %s", text)
	}
}

func TestBoardIssuesExpandDefault(t *testing.T) {
	var gotOpts jira.SearchOptions
	s := newTestServer(t, Services{Jira: &fakeJira{
		getBoardIssues: func(_ context.Context, _, _ string, opts jira.SearchOptions) (*jira.SearchResult, error) {
			gotOpts = opts
			return &jira.SearchResult{}, nil
		},
	}}, nil)

	// omitted expand falls back to the declared default
	_, err := s.dispatch(context.Background(), callRequest(global.ToolJiraGetBoardIssues, map[string]any{
		"board_id": "1000",
		"jql":      "sprint = 5",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.Expand != "version" {
		t.Errorf("expand default not applied: got %q, want %q", gotOpts.Expand, "version")
	}

	_, err = s.dispatch(context.Background(), callRequest(global.ToolJiraGetBoardIssues, map[string]any{
		"board_id": "1000",
		"jql":      "sprint = 5",
		"expand":   "changelog",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.Expand != "changelog" {
		t.Errorf("explicit expand lost: got %q, want %q", gotOpts.Expand, "changelog")
	}
}

func TestConfluenceGetPageByTitle(t *testing.T) {
	var gotSpace, gotTitle string
	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		getPageByTitle: func(_ context.Context, spaceKey, title string, _ bool) (*confluence.Page, error) {
			gotSpace, gotTitle = spaceKey, title
			return &confluence.Page{ID: "42", Title: title}, nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceGetPage, map[string]any{
		"title":     "Runbook",
		"space_key": "DEV",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSpace != "DEV" || gotTitle != "Runbook" {
		t.Errorf("lookup used space %q title %q", gotSpace, gotTitle)
	}
	if !strings.Contains(resultText(t, result), "Runbook") {
		t.Errorf("page title missing from result")
	}

	// title without a space key is not enough to identify a page
	result, err = s.dispatch(context.Background(), callRequest(global.ToolConfluenceGetPage, map[string]any{
		"title": "Runbook",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for title without space_key")
	}
	if !strings.Contains(resultText(t, result), "space_key") {
		t.Errorf("error should name the missing argument: %s", resultText(t, result))
	}
}

func TestDeletePageResponse(t *testing.T) {
	var deleted string
	s := newTestServer(t, Services{Confluence: &fakeConfluence{
		deletePage: func(_ context.Context, pageID string) error {
			deleted = pageID
			return nil
		},
	}}, nil)

	result, err := s.dispatch(context.Background(), callRequest(global.ToolConfluenceDeletePage,
		map[string]any{"page_id": "999"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "999" {
		t.Errorf("deleted %q, want 999", deleted)
	}
	if text := resultText(t, result); text != "Page 999 deleted successfully" {
		t.Errorf("unexpected message: %s", text)
	}
}

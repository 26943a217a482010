/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/confluence"
	"github.com/PivotLLM/Atlas/jira"
	"github.com/PivotLLM/Atlas/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

// newTestServer builds a Server wired to fake services, bypassing backend
// initialization
func newTestServer(t *testing.T, services Services, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := &Server{
		config:   cfg,
		logger:   testLogger(t),
		services: services,
	}
	s.operations = s.buildOperations()
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected a result with content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// fakeJira implements JiraService through optional function fields. A method
// whose field is unset fails the call, so tests catch unexpected backend
// contact.
type fakeJira struct {
	getIssue            func(ctx context.Context, issueKey string, opts jira.GetIssueOptions) (*jira.Issue, error)
	searchIssues        func(ctx context.Context, jql string, opts jira.SearchOptions) (*jira.SearchResult, error)
	searchFields        func(ctx context.Context, keyword string, limit int, refresh bool) ([]jira.Field, error)
	getProjectIssues    func(ctx context.Context, projectKey string, startAt, limit int) (*jira.SearchResult, error)
	getEpicIssues       func(ctx context.Context, epicKey string, startAt, limit int) ([]jira.Issue, error)
	getTransitions      func(ctx context.Context, issueKey string) ([]jira.Transition, error)
	getWorklogs         func(ctx context.Context, issueKey string) ([]jira.Worklog, error)
	downloadAttachments func(ctx context.Context, issueKey, targetDir string, convertToMarkdown bool) (*jira.DownloadResult, error)
	getAgileBoards      func(ctx context.Context, opts jira.BoardOptions) ([]jira.Board, error)
	getBoardIssues      func(ctx context.Context, boardID, jql string, opts jira.SearchOptions) (*jira.SearchResult, error)
	getSprintsFromBoard func(ctx context.Context, boardID, state string, startAt, limit int) ([]jira.Sprint, error)
	getSprintIssues     func(ctx context.Context, sprintID string, opts jira.SearchOptions) (*jira.SearchResult, error)
	createSprint        func(ctx context.Context, create jira.SprintCreate) (*jira.Sprint, error)
	updateSprint        func(ctx context.Context, sprintID string, update jira.SprintUpdate) (*jira.Sprint, error)
	createIssue         func(ctx context.Context, create jira.IssueCreate) (*jira.Issue, error)
	batchCreateIssues   func(ctx context.Context, issues []jira.IssueCreate, validateOnly bool) ([]jira.Issue, error)
	updateIssue         func(ctx context.Context, issueKey string, fields map[string]any, attachments []string) (*jira.Issue, error)
	deleteIssue         func(ctx context.Context, issueKey string) error
	addComment          func(ctx context.Context, issueKey, comment string) (*jira.Comment, error)
	addWorklog          func(ctx context.Context, issueKey, timeSpent, comment, started string) (*jira.Worklog, error)
	linkToEpic          func(ctx context.Context, issueKey, epicKey string) (*jira.Issue, error)
	transitionIssue     func(ctx context.Context, issueKey string, transitionID int, fields map[string]any, comment string) (*jira.Issue, error)
	createIssueLink     func(ctx context.Context, link jira.IssueLink) error
	removeIssueLink     func(ctx context.Context, linkID string) error
	getIssueLinkTypes   func(ctx context.Context) ([]jira.LinkType, error)
}

func errUnexpected(method string) error {
	return fmt.Errorf("unexpected call to %s", method)
}

func (f *fakeJira) GetIssue(ctx context.Context, issueKey string, opts jira.GetIssueOptions) (*jira.Issue, error) {
	if f.getIssue == nil {
		return nil, errUnexpected("GetIssue")
	}
	return f.getIssue(ctx, issueKey, opts)
}

func (f *fakeJira) SearchIssues(ctx context.Context, jql string, opts jira.SearchOptions) (*jira.SearchResult, error) {
	if f.searchIssues == nil {
		return nil, errUnexpected("SearchIssues")
	}
	return f.searchIssues(ctx, jql, opts)
}

func (f *fakeJira) SearchFields(ctx context.Context, keyword string, limit int, refresh bool) ([]jira.Field, error) {
	if f.searchFields == nil {
		return nil, errUnexpected("SearchFields")
	}
	return f.searchFields(ctx, keyword, limit, refresh)
}

func (f *fakeJira) GetProjectIssues(ctx context.Context, projectKey string, startAt, limit int) (*jira.SearchResult, error) {
	if f.getProjectIssues == nil {
		return nil, errUnexpected("GetProjectIssues")
	}
	return f.getProjectIssues(ctx, projectKey, startAt, limit)
}

func (f *fakeJira) GetEpicIssues(ctx context.Context, epicKey string, startAt, limit int) ([]jira.Issue, error) {
	if f.getEpicIssues == nil {
		return nil, errUnexpected("GetEpicIssues")
	}
	return f.getEpicIssues(ctx, epicKey, startAt, limit)
}

func (f *fakeJira) GetTransitions(ctx context.Context, issueKey string) ([]jira.Transition, error) {
	if f.getTransitions == nil {
		return nil, errUnexpected("GetTransitions")
	}
	return f.getTransitions(ctx, issueKey)
}

func (f *fakeJira) GetWorklogs(ctx context.Context, issueKey string) ([]jira.Worklog, error) {
	if f.getWorklogs == nil {
		return nil, errUnexpected("GetWorklogs")
	}
	return f.getWorklogs(ctx, issueKey)
}

func (f *fakeJira) DownloadAttachments(ctx context.Context, issueKey, targetDir string, convertToMarkdown bool) (*jira.DownloadResult, error) {
	if f.downloadAttachments == nil {
		return nil, errUnexpected("DownloadAttachments")
	}
	return f.downloadAttachments(ctx, issueKey, targetDir, convertToMarkdown)
}

func (f *fakeJira) GetAgileBoards(ctx context.Context, opts jira.BoardOptions) ([]jira.Board, error) {
	if f.getAgileBoards == nil {
		return nil, errUnexpected("GetAgileBoards")
	}
	return f.getAgileBoards(ctx, opts)
}

func (f *fakeJira) GetBoardIssues(ctx context.Context, boardID, jql string, opts jira.SearchOptions) (*jira.SearchResult, error) {
	if f.getBoardIssues == nil {
		return nil, errUnexpected("GetBoardIssues")
	}
	return f.getBoardIssues(ctx, boardID, jql, opts)
}

func (f *fakeJira) GetSprintsFromBoard(ctx context.Context, boardID, state string, startAt, limit int) ([]jira.Sprint, error) {
	if f.getSprintsFromBoard == nil {
		return nil, errUnexpected("GetSprintsFromBoard")
	}
	return f.getSprintsFromBoard(ctx, boardID, state, startAt, limit)
}

func (f *fakeJira) GetSprintIssues(ctx context.Context, sprintID string, opts jira.SearchOptions) (*jira.SearchResult, error) {
	if f.getSprintIssues == nil {
		return nil, errUnexpected("GetSprintIssues")
	}
	return f.getSprintIssues(ctx, sprintID, opts)
}

func (f *fakeJira) CreateSprint(ctx context.Context, create jira.SprintCreate) (*jira.Sprint, error) {
	if f.createSprint == nil {
		return nil, errUnexpected("CreateSprint")
	}
	return f.createSprint(ctx, create)
}

func (f *fakeJira) UpdateSprint(ctx context.Context, sprintID string, update jira.SprintUpdate) (*jira.Sprint, error) {
	if f.updateSprint == nil {
		return nil, errUnexpected("UpdateSprint")
	}
	return f.updateSprint(ctx, sprintID, update)
}

func (f *fakeJira) CreateIssue(ctx context.Context, create jira.IssueCreate) (*jira.Issue, error) {
	if f.createIssue == nil {
		return nil, errUnexpected("CreateIssue")
	}
	return f.createIssue(ctx, create)
}

func (f *fakeJira) BatchCreateIssues(ctx context.Context, issues []jira.IssueCreate, validateOnly bool) ([]jira.Issue, error) {
	if f.batchCreateIssues == nil {
		return nil, errUnexpected("BatchCreateIssues")
	}
	return f.batchCreateIssues(ctx, issues, validateOnly)
}

func (f *fakeJira) UpdateIssue(ctx context.Context, issueKey string, fields map[string]any, attachments []string) (*jira.Issue, error) {
	if f.updateIssue == nil {
		return nil, errUnexpected("UpdateIssue")
	}
	return f.updateIssue(ctx, issueKey, fields, attachments)
}

func (f *fakeJira) DeleteIssue(ctx context.Context, issueKey string) error {
	if f.deleteIssue == nil {
		return errUnexpected("DeleteIssue")
	}
	return f.deleteIssue(ctx, issueKey)
}

func (f *fakeJira) AddComment(ctx context.Context, issueKey, comment string) (*jira.Comment, error) {
	if f.addComment == nil {
		return nil, errUnexpected("AddComment")
	}
	return f.addComment(ctx, issueKey, comment)
}

func (f *fakeJira) AddWorklog(ctx context.Context, issueKey, timeSpent, comment, started string) (*jira.Worklog, error) {
	if f.addWorklog == nil {
		return nil, errUnexpected("AddWorklog")
	}
	return f.addWorklog(ctx, issueKey, timeSpent, comment, started)
}

func (f *fakeJira) LinkToEpic(ctx context.Context, issueKey, epicKey string) (*jira.Issue, error) {
	if f.linkToEpic == nil {
		return nil, errUnexpected("LinkToEpic")
	}
	return f.linkToEpic(ctx, issueKey, epicKey)
}

func (f *fakeJira) TransitionIssue(ctx context.Context, issueKey string, transitionID int, fields map[string]any, comment string) (*jira.Issue, error) {
	if f.transitionIssue == nil {
		return nil, errUnexpected("TransitionIssue")
	}
	return f.transitionIssue(ctx, issueKey, transitionID, fields, comment)
}

func (f *fakeJira) CreateIssueLink(ctx context.Context, link jira.IssueLink) error {
	if f.createIssueLink == nil {
		return errUnexpected("CreateIssueLink")
	}
	return f.createIssueLink(ctx, link)
}

func (f *fakeJira) RemoveIssueLink(ctx context.Context, linkID string) error {
	if f.removeIssueLink == nil {
		return errUnexpected("RemoveIssueLink")
	}
	return f.removeIssueLink(ctx, linkID)
}

func (f *fakeJira) GetIssueLinkTypes(ctx context.Context) ([]jira.LinkType, error) {
	if f.getIssueLinkTypes == nil {
		return nil, errUnexpected("GetIssueLinkTypes")
	}
	return f.getIssueLinkTypes(ctx)
}

// fakeConfluence implements ConfluenceService the same way
type fakeConfluence struct {
	search           func(ctx context.Context, cql string, start, limit int, spacesFilter []string) (*confluence.SearchResult, error)
	getPage          func(ctx context.Context, pageID string, toMarkdown bool) (*confluence.Page, error)
	getPageByTitle   func(ctx context.Context, spaceKey, title string, toMarkdown bool) (*confluence.Page, error)
	getPageChildren  func(ctx context.Context, parentID string, start, limit int, includeContent, toMarkdown bool) ([]confluence.Page, error)
	getPageAncestors func(ctx context.Context, pageID string) ([]confluence.Page, error)
	getPageComments  func(ctx context.Context, pageID string) ([]confluence.Comment, error)
	createPage       func(ctx context.Context, spaceKey, title, markdownBody, parentID string) (*confluence.Page, error)
	updatePage       func(ctx context.Context, pageID, title, markdownBody string, minorEdit bool, versionComment, parentID string) (*confluence.Page, error)
	deletePage       func(ctx context.Context, pageID string) error
}

func (f *fakeConfluence) Search(ctx context.Context, cql string, start, limit int, spacesFilter []string) (*confluence.SearchResult, error) {
	if f.search == nil {
		return nil, errUnexpected("Search")
	}
	return f.search(ctx, cql, start, limit, spacesFilter)
}

func (f *fakeConfluence) GetPage(ctx context.Context, pageID string, toMarkdown bool) (*confluence.Page, error) {
	if f.getPage == nil {
		return nil, errUnexpected("GetPage")
	}
	return f.getPage(ctx, pageID, toMarkdown)
}

func (f *fakeConfluence) GetPageByTitle(ctx context.Context, spaceKey, title string, toMarkdown bool) (*confluence.Page, error) {
	if f.getPageByTitle == nil {
		return nil, errUnexpected("GetPageByTitle")
	}
	return f.getPageByTitle(ctx, spaceKey, title, toMarkdown)
}

func (f *fakeConfluence) GetPageChildren(ctx context.Context, parentID string, start, limit int, includeContent, toMarkdown bool) ([]confluence.Page, error) {
	if f.getPageChildren == nil {
		return nil, errUnexpected("GetPageChildren")
	}
	return f.getPageChildren(ctx, parentID, start, limit, includeContent, toMarkdown)
}

func (f *fakeConfluence) GetPageAncestors(ctx context.Context, pageID string) ([]confluence.Page, error) {
	if f.getPageAncestors == nil {
		return nil, errUnexpected("GetPageAncestors")
	}
	return f.getPageAncestors(ctx, pageID)
}

func (f *fakeConfluence) GetPageComments(ctx context.Context, pageID string) ([]confluence.Comment, error) {
	if f.getPageComments == nil {
		return nil, errUnexpected("GetPageComments")
	}
	return f.getPageComments(ctx, pageID)
}

func (f *fakeConfluence) CreatePage(ctx context.Context, spaceKey, title, markdownBody, parentID string) (*confluence.Page, error) {
	if f.createPage == nil {
		return nil, errUnexpected("CreatePage")
	}
	return f.createPage(ctx, spaceKey, title, markdownBody, parentID)
}

func (f *fakeConfluence) UpdatePage(ctx context.Context, pageID, title, markdownBody string, minorEdit bool, versionComment, parentID string) (*confluence.Page, error) {
	if f.updatePage == nil {
		return nil, errUnexpected("UpdatePage")
	}
	return f.updatePage(ctx, pageID, title, markdownBody, minorEdit, versionComment, parentID)
}

func (f *fakeConfluence) DeletePage(ctx context.Context, pageID string) error {
	if f.deletePage == nil {
		return errUnexpected("DeletePage")
	}
	return f.deletePage(ctx, pageID)
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/confluence"
	"github.com/PivotLLM/Atlas/jira"
	"github.com/PivotLLM/Atlas/logging"
)

// JiraService is the Jira capability surface the dispatch handlers use. The
// concrete client satisfies it; tests substitute fakes.
type JiraService interface {
	GetIssue(ctx context.Context, issueKey string, opts jira.GetIssueOptions) (*jira.Issue, error)
	SearchIssues(ctx context.Context, jql string, opts jira.SearchOptions) (*jira.SearchResult, error)
	SearchFields(ctx context.Context, keyword string, limit int, refresh bool) ([]jira.Field, error)
	GetProjectIssues(ctx context.Context, projectKey string, startAt, limit int) (*jira.SearchResult, error)
	GetEpicIssues(ctx context.Context, epicKey string, startAt, limit int) ([]jira.Issue, error)
	GetTransitions(ctx context.Context, issueKey string) ([]jira.Transition, error)
	GetWorklogs(ctx context.Context, issueKey string) ([]jira.Worklog, error)
	DownloadAttachments(ctx context.Context, issueKey, targetDir string, convertToMarkdown bool) (*jira.DownloadResult, error)
	GetAgileBoards(ctx context.Context, opts jira.BoardOptions) ([]jira.Board, error)
	GetBoardIssues(ctx context.Context, boardID, jql string, opts jira.SearchOptions) (*jira.SearchResult, error)
	GetSprintsFromBoard(ctx context.Context, boardID, state string, startAt, limit int) ([]jira.Sprint, error)
	GetSprintIssues(ctx context.Context, sprintID string, opts jira.SearchOptions) (*jira.SearchResult, error)
	CreateSprint(ctx context.Context, create jira.SprintCreate) (*jira.Sprint, error)
	UpdateSprint(ctx context.Context, sprintID string, update jira.SprintUpdate) (*jira.Sprint, error)
	CreateIssue(ctx context.Context, create jira.IssueCreate) (*jira.Issue, error)
	BatchCreateIssues(ctx context.Context, issues []jira.IssueCreate, validateOnly bool) ([]jira.Issue, error)
	UpdateIssue(ctx context.Context, issueKey string, fields map[string]any, attachments []string) (*jira.Issue, error)
	DeleteIssue(ctx context.Context, issueKey string) error
	AddComment(ctx context.Context, issueKey, comment string) (*jira.Comment, error)
	AddWorklog(ctx context.Context, issueKey, timeSpent, comment, started string) (*jira.Worklog, error)
	LinkToEpic(ctx context.Context, issueKey, epicKey string) (*jira.Issue, error)
	TransitionIssue(ctx context.Context, issueKey string, transitionID int, fields map[string]any, comment string) (*jira.Issue, error)
	CreateIssueLink(ctx context.Context, link jira.IssueLink) error
	RemoveIssueLink(ctx context.Context, linkID string) error
	GetIssueLinkTypes(ctx context.Context) ([]jira.LinkType, error)
}

// ConfluenceService is the Confluence capability surface the dispatch
// handlers use
type ConfluenceService interface {
	Search(ctx context.Context, cql string, start, limit int, spacesFilter []string) (*confluence.SearchResult, error)
	GetPage(ctx context.Context, pageID string, toMarkdown bool) (*confluence.Page, error)
	GetPageByTitle(ctx context.Context, spaceKey, title string, toMarkdown bool) (*confluence.Page, error)
	GetPageChildren(ctx context.Context, parentID string, start, limit int, includeContent, toMarkdown bool) ([]confluence.Page, error)
	GetPageAncestors(ctx context.Context, pageID string) ([]confluence.Page, error)
	GetPageComments(ctx context.Context, pageID string) ([]confluence.Comment, error)
	CreatePage(ctx context.Context, spaceKey, title, markdownBody, parentID string) (*confluence.Page, error)
	UpdatePage(ctx context.Context, pageID, title, markdownBody string, minorEdit bool, versionComment, parentID string) (*confluence.Page, error)
	DeletePage(ctx context.Context, pageID string) error
}

// Services holds the backend handles. A nil handle means that service is
// unavailable; tools still dispatch but callers get a "not configured" error.
type Services struct {
	Jira       JiraService
	Confluence ConfluenceService
}

// NewServices initializes each backend independently. One service failing to
// initialize is logged and leaves the other usable.
func NewServices(cfg *config.Config, logger *logging.Logger) Services {
	var services Services

	if avail := cfg.Jira.Availability(); avail.Configured {
		client, err := jira.New(cfg.Jira, logger)
		if err != nil {
			logger.Errorf("Failed to initialize Jira client: %v", err)
		} else {
			logger.Infof("Jira configured at %s (auth: %s)", client.BaseURL(), avail.Mode)
			services.Jira = client
		}
	} else {
		logger.Info("Jira is not configured")
	}

	if avail := cfg.Confluence.Availability(); avail.Configured {
		client, err := confluence.New(cfg.Confluence, logger)
		if err != nil {
			logger.Errorf("Failed to initialize Confluence client: %v", err)
		} else {
			logger.Infof("Confluence configured at %s (auth: %s)", client.BaseURL(), avail.Mode)
			services.Confluence = client
		}
	} else {
		logger.Info("Confluence is not configured")
	}

	return services
}

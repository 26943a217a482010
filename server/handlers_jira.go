/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/jira"
)

// searchEnvelope wraps a page of issues with its pagination metadata
func searchEnvelope(result *jira.SearchResult) map[string]any {
	issues := make([]map[string]any, 0, len(result.Issues))
	for i := range result.Issues {
		issues = append(issues, result.Issues[i].Simplified())
	}
	return map[string]any{
		"total":       result.Total,
		"start_at":    result.StartAt,
		"max_results": result.MaxResults,
		"issues":      issues,
	}
}

func (s *Server) handleJiraGetIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}
	commentLimit, err := intArg(request, "comment_limit", global.DefaultCommentLimit)
	if err != nil {
		return nil, err
	}
	if commentLimit > global.MaxCommentLimit {
		commentLimit = global.MaxCommentLimit
	}

	issue, err := s.services.Jira.GetIssue(ctx, issueKey, jira.GetIssueOptions{
		Fields:        stringArg(request, "fields", global.DefaultIssueFields),
		Expand:        stringArg(request, "expand", ""),
		Properties:    stringArg(request, "properties", ""),
		CommentLimit:  commentLimit,
		UpdateHistory: boolArg(request, "update_history", true),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(issue.Simplified())
}

func (s *Server) handleJiraSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := stringArg(request, "jql", "")
	if jql == "" {
		return nil, fmt.Errorf("argument 'jql' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	projectsFilter := stringListArg(request, "projects_filter")
	if projectsFilter == nil {
		projectsFilter = s.config.Jira.Filter
	}

	result, err := s.services.Jira.SearchIssues(ctx, jql, jira.SearchOptions{
		Fields:         stringArg(request, "fields", global.DefaultIssueFields),
		StartAt:        startAt,
		Limit:          clampLimit(limit),
		ProjectsFilter: projectsFilter,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(searchEnvelope(result))
}

func (s *Server) handleJiraSearchFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}

	fields, err := s.services.Jira.SearchFields(ctx,
		stringArg(request, "keyword", ""),
		limit,
		boolArg(request, "refresh", false),
	)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		views = append(views, f.Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleJiraGetProjectIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey := stringArg(request, "project_key", "")
	if projectKey == "" {
		return nil, fmt.Errorf("argument 'project_key' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Jira.GetProjectIssues(ctx, projectKey, startAt, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return jsonResult(searchEnvelope(result))
}

func (s *Server) handleJiraGetEpicIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey := stringArg(request, "epic_key", "")
	if epicKey == "" {
		return nil, fmt.Errorf("argument 'epic_key' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	issues, err := s.services.Jira.GetEpicIssues(ctx, epicKey, startAt, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(issues))
	for i := range issues {
		views = append(views, issues[i].Simplified())
	}
	return jsonResult(map[string]any{
		"epic_key": epicKey,
		"count":    len(views),
		"issues":   views,
	})
}

func (s *Server) handleJiraGetTransitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}

	transitions, err := s.services.Jira.GetTransitions(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(transitions))
	for _, t := range transitions {
		views = append(views, t.Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleJiraGetWorklog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}

	worklogs, err := s.services.Jira.GetWorklogs(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(worklogs))
	for _, w := range worklogs {
		views = append(views, w.Simplified())
	}
	return jsonResult(map[string]any{"worklogs": views})
}

func (s *Server) handleJiraDownloadAttachments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	targetDir := stringArg(request, "target_dir", "")
	if issueKey == "" || targetDir == "" {
		return nil, fmt.Errorf("arguments 'issue_key' and 'target_dir' are required")
	}

	result, err := s.services.Jira.DownloadAttachments(ctx, issueKey, targetDir,
		boolArg(request, "convert_to_markdown", false))
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleJiraGetAgileBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	boards, err := s.services.Jira.GetAgileBoards(ctx, jira.BoardOptions{
		Name:       stringArg(request, "board_name", ""),
		ProjectKey: stringArg(request, "project_key", ""),
		Type:       stringArg(request, "board_type", ""),
		StartAt:    startAt,
		Limit:      clampLimit(limit),
	})
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(boards))
	for _, b := range boards {
		views = append(views, b.Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleJiraGetBoardIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := stringArg(request, "board_id", "")
	jql := stringArg(request, "jql", "")
	if boardID == "" || jql == "" {
		return nil, fmt.Errorf("arguments 'board_id' and 'jql' are required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Jira.GetBoardIssues(ctx, boardID, jql, jira.SearchOptions{
		Fields:  stringArg(request, "fields", "*all"),
		StartAt: startAt,
		Limit:   clampLimit(limit),
		Expand:  stringArg(request, "expand", "version"),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(searchEnvelope(result))
}

func (s *Server) handleJiraGetSprintsFromBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := stringArg(request, "board_id", "")
	if boardID == "" {
		return nil, fmt.Errorf("argument 'board_id' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	sprints, err := s.services.Jira.GetSprintsFromBoard(ctx, boardID,
		stringArg(request, "state", ""), startAt, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(sprints))
	for _, sprint := range sprints {
		views = append(views, sprint.Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleJiraGetSprintIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID := stringArg(request, "sprint_id", "")
	if sprintID == "" {
		return nil, fmt.Errorf("argument 'sprint_id' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	startAt, err := intArg(request, "startAt", 0)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Jira.GetSprintIssues(ctx, sprintID, jira.SearchOptions{
		Fields:  stringArg(request, "fields", "*all"),
		StartAt: startAt,
		Limit:   clampLimit(limit),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(searchEnvelope(result))
}

func (s *Server) handleJiraGetLinkTypes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkTypes, err := s.services.Jira.GetIssueLinkTypes(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(linkTypes))
	for _, lt := range linkTypes {
		views = append(views, lt.Simplified())
	}
	return jsonResult(views)
}

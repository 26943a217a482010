/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/jira"
)

func (s *Server) handleJiraCreateSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := stringArg(request, "board_id", "")
	name := stringArg(request, "sprint_name", "")
	startDate := stringArg(request, "start_date", "")
	endDate := stringArg(request, "end_date", "")
	if boardID == "" || name == "" || startDate == "" || endDate == "" {
		return nil, fmt.Errorf("arguments 'board_id', 'sprint_name', 'start_date' and 'end_date' are required")
	}

	sprint, err := s.services.Jira.CreateSprint(ctx, jira.SprintCreate{
		BoardID:   boardID,
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		Goal:      stringArg(request, "goal", ""),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Sprint created successfully: %s", sprint.Name),
		"sprint":  sprint.Simplified(),
	})
}

func (s *Server) handleJiraUpdateSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID := stringArg(request, "sprint_id", "")
	if sprintID == "" {
		return nil, fmt.Errorf("argument 'sprint_id' is required")
	}

	sprint, err := s.services.Jira.UpdateSprint(ctx, sprintID, jira.SprintUpdate{
		Name:      stringArg(request, "sprint_name", ""),
		State:     stringArg(request, "state", ""),
		StartDate: stringArg(request, "start_date", ""),
		EndDate:   stringArg(request, "end_date", ""),
		Goal:      stringArg(request, "goal", ""),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Sprint updated successfully: %s", sprint.Name),
		"sprint":  sprint.Simplified(),
	})
}

func (s *Server) handleJiraCreateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey := stringArg(request, "project_key", "")
	summary := stringArg(request, "summary", "")
	issueType := stringArg(request, "issue_type", "")
	if projectKey == "" || summary == "" || issueType == "" {
		return nil, fmt.Errorf("arguments 'project_key', 'summary' and 'issue_type' are required")
	}
	extra, err := jsonObjectArg(request, "additional_fields")
	if err != nil {
		return nil, err
	}

	issue, err := s.services.Jira.CreateIssue(ctx, jira.IssueCreate{
		ProjectKey:  projectKey,
		Summary:     summary,
		IssueType:   issueType,
		Description: stringArg(request, "description", ""),
		Assignee:    stringArg(request, "assignee", ""),
		Components:  stringListArg(request, "components"),
		Extra:       extra,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Issue created successfully: %s", issue.Key),
		"issue":   issue.Simplified(),
	})
}

func (s *Server) handleJiraBatchCreateIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["issues"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("argument 'issues' is required")
	}

	var creates []jira.IssueCreate
	switch v := raw.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &creates); err != nil {
			return nil, fmt.Errorf("argument 'issues' must be a valid JSON array: %v", err)
		}
	case []any:
		data, _ := json.Marshal(v)
		if err := json.Unmarshal(data, &creates); err != nil {
			return nil, fmt.Errorf("argument 'issues' must be an array of issue objects: %v", err)
		}
	default:
		return nil, fmt.Errorf("argument 'issues' must be a JSON array, got %T", raw)
	}
	if len(creates) == 0 {
		return nil, fmt.Errorf("argument 'issues' must contain at least one issue")
	}

	validateOnly := boolArg(request, "validate_only", false)
	issues, err := s.services.Jira.BatchCreateIssues(ctx, creates, validateOnly)
	if err != nil {
		return nil, err
	}
	if validateOnly {
		return jsonResult(map[string]any{
			"message": fmt.Sprintf("%d issues validated successfully, none created", len(creates)),
		})
	}

	views := make([]map[string]any, 0, len(issues))
	for i := range issues {
		views = append(views, issues[i].Simplified())
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("%d issues created successfully", len(issues)),
		"issues":  views,
	})
}

func (s *Server) handleJiraUpdateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}
	fields, err := jsonObjectArg(request, "fields")
	if err != nil {
		return nil, err
	}
	additional, err := jsonObjectArg(request, "additional_fields")
	if err != nil {
		return nil, err
	}
	for key, value := range additional {
		fields[key] = value
	}

	// nonexistent attachment paths are dropped with a warning; the update
	// proceeds with whatever remains
	var attachments []string
	for _, path := range stringListArg(request, "attachments") {
		if !global.FileExists(path) {
			s.logger.Warnf("Skipping attachment %s: no such file", path)
			continue
		}
		attachments = append(attachments, path)
	}

	if len(fields) == 0 && len(attachments) == 0 {
		return nil, fmt.Errorf("argument 'fields' must name at least one field to update")
	}

	issue, err := s.services.Jira.UpdateIssue(ctx, issueKey, fields, attachments)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Issue updated successfully: %s", issue.Key),
		"issue":   issue.Simplified(),
	})
}

func (s *Server) handleJiraDeleteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}

	if err := s.services.Jira.DeleteIssue(ctx, issueKey); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Issue %s deleted successfully", issueKey)), nil
}

func (s *Server) handleJiraAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	comment := stringArg(request, "comment", "")
	if issueKey == "" || comment == "" {
		return nil, fmt.Errorf("arguments 'issue_key' and 'comment' are required")
	}

	added, err := s.services.Jira.AddComment(ctx, issueKey, comment)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Comment added to %s", issueKey),
		"comment": added.Simplified(),
	})
}

func (s *Server) handleJiraAddWorklog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	timeSpent := stringArg(request, "time_spent", "")
	if issueKey == "" || timeSpent == "" {
		return nil, fmt.Errorf("arguments 'issue_key' and 'time_spent' are required")
	}

	worklog, err := s.services.Jira.AddWorklog(ctx, issueKey, timeSpent,
		stringArg(request, "comment", ""),
		stringArg(request, "started", ""))
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Worklog added to %s", issueKey),
		"worklog": worklog.Simplified(),
	})
}

func (s *Server) handleJiraLinkToEpic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	epicKey := stringArg(request, "epic_key", "")
	if issueKey == "" || epicKey == "" {
		return nil, fmt.Errorf("arguments 'issue_key' and 'epic_key' are required")
	}

	issue, err := s.services.Jira.LinkToEpic(ctx, issueKey, epicKey)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Issue %s linked to epic %s", issueKey, epicKey),
		"issue":   issue.Simplified(),
	})
}

func (s *Server) handleJiraCreateIssueLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkType := stringArg(request, "link_type", "")
	inwardKey := stringArg(request, "inward_issue_key", "")
	outwardKey := stringArg(request, "outward_issue_key", "")
	if linkType == "" || inwardKey == "" || outwardKey == "" {
		return nil, fmt.Errorf("arguments 'link_type', 'inward_issue_key' and 'outward_issue_key' are required")
	}
	visibility, err := jsonObjectArg(request, "comment_visibility")
	if err != nil {
		return nil, err
	}

	err = s.services.Jira.CreateIssueLink(ctx, jira.IssueLink{
		LinkType:          linkType,
		InwardIssueKey:    inwardKey,
		OutwardIssueKey:   outwardKey,
		Comment:           stringArg(request, "comment", ""),
		CommentVisibility: visibility,
	})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(
		fmt.Sprintf("Link '%s' created between %s and %s", linkType, inwardKey, outwardKey)), nil
}

func (s *Server) handleJiraRemoveIssueLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkID := stringArg(request, "link_id", "")
	if linkID == "" {
		return nil, fmt.Errorf("argument 'link_id' is required")
	}

	if err := s.services.Jira.RemoveIssueLink(ctx, linkID); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Issue link %s removed successfully", linkID)), nil
}

func (s *Server) handleJiraTransitionIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := stringArg(request, "issue_key", "")
	if issueKey == "" {
		return nil, fmt.Errorf("argument 'issue_key' is required")
	}

	// the transitions endpoint silently misbehaves on non-numeric ids, so
	// coerce up front and fail with a usable message
	transitionID, err := intArg(request, "transition_id", -1)
	if err != nil || transitionID < 0 {
		return nil, fmt.Errorf("argument 'transition_id' must be a numeric transition ID (got %v); "+
			"use jira_get_transitions to list valid IDs for %s", request.GetArguments()["transition_id"], issueKey)
	}

	fields, err := jsonObjectArg(request, "fields")
	if err != nil {
		return nil, err
	}

	issue, err := s.services.Jira.TransitionIssue(ctx, issueKey, transitionID, fields,
		stringArg(request, "comment", ""))
	if err != nil {
		if strings.Contains(err.Error(), "'transition' identifier must be an integer") {
			return nil, fmt.Errorf("transition failed: the backend rejected the transition identifier; "+
				"use jira_get_transitions to fetch the valid numeric IDs for %s", issueKey)
		}
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Issue %s transitioned successfully", issueKey),
		"issue":   issue.Simplified(),
	})
}

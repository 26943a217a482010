/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/global"
)

// toolHandler executes one tool call against the backend services
type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// operation is one routable tool: the service it needs, whether it writes,
// and its handler
type operation struct {
	service string
	write   bool
	handler toolHandler
}

// buildOperations wires every tool name to its operation entry. The
// classification here must agree with catalogDefs.
func (s *Server) buildOperations() map[string]operation {
	jiraRead := func(h toolHandler) operation {
		return operation{service: global.ServiceJira, handler: h}
	}
	jiraWrite := func(h toolHandler) operation {
		return operation{service: global.ServiceJira, write: true, handler: h}
	}
	confluenceRead := func(h toolHandler) operation {
		return operation{service: global.ServiceConfluence, handler: h}
	}
	confluenceWrite := func(h toolHandler) operation {
		return operation{service: global.ServiceConfluence, write: true, handler: h}
	}

	return map[string]operation{
		global.ToolConfluenceSearch:           confluenceRead(s.handleConfluenceSearch),
		global.ToolConfluenceGetPage:          confluenceRead(s.handleConfluenceGetPage),
		global.ToolConfluenceGetPageChildren:  confluenceRead(s.handleConfluenceGetPageChildren),
		global.ToolConfluenceGetPageAncestors: confluenceRead(s.handleConfluenceGetPageAncestors),
		global.ToolConfluenceGetComments:      confluenceRead(s.handleConfluenceGetComments),
		global.ToolConfluenceCreatePage:       confluenceWrite(s.handleConfluenceCreatePage),
		global.ToolConfluenceUpdatePage:       confluenceWrite(s.handleConfluenceUpdatePage),
		global.ToolConfluenceDeletePage:       confluenceWrite(s.handleConfluenceDeletePage),

		global.ToolJiraGetIssue:            jiraRead(s.handleJiraGetIssue),
		global.ToolJiraSearch:              jiraRead(s.handleJiraSearch),
		global.ToolJiraSearchFields:        jiraRead(s.handleJiraSearchFields),
		global.ToolJiraGetProjectIssues:    jiraRead(s.handleJiraGetProjectIssues),
		global.ToolJiraGetEpicIssues:       jiraRead(s.handleJiraGetEpicIssues),
		global.ToolJiraGetTransitions:      jiraRead(s.handleJiraGetTransitions),
		global.ToolJiraGetWorklog:          jiraRead(s.handleJiraGetWorklog),
		global.ToolJiraDownloadAttachments: jiraRead(s.handleJiraDownloadAttachments),
		global.ToolJiraGetAgileBoards:      jiraRead(s.handleJiraGetAgileBoards),
		global.ToolJiraGetBoardIssues:      jiraRead(s.handleJiraGetBoardIssues),
		global.ToolJiraGetSprintsFromBoard: jiraRead(s.handleJiraGetSprintsFromBoard),
		global.ToolJiraGetSprintIssues:     jiraRead(s.handleJiraGetSprintIssues),
		global.ToolJiraGetLinkTypes:        jiraRead(s.handleJiraGetLinkTypes),

		global.ToolJiraCreateSprint:      jiraWrite(s.handleJiraCreateSprint),
		global.ToolJiraUpdateSprint:      jiraWrite(s.handleJiraUpdateSprint),
		global.ToolJiraCreateIssue:       jiraWrite(s.handleJiraCreateIssue),
		global.ToolJiraBatchCreateIssues: jiraWrite(s.handleJiraBatchCreateIssues),
		global.ToolJiraUpdateIssue:       jiraWrite(s.handleJiraUpdateIssue),
		global.ToolJiraDeleteIssue:       jiraWrite(s.handleJiraDeleteIssue),
		global.ToolJiraAddComment:        jiraWrite(s.handleJiraAddComment),
		global.ToolJiraAddWorklog:        jiraWrite(s.handleJiraAddWorklog),
		global.ToolJiraLinkToEpic:        jiraWrite(s.handleJiraLinkToEpic),
		global.ToolJiraCreateIssueLink:   jiraWrite(s.handleJiraCreateIssueLink),
		global.ToolJiraRemoveIssueLink:   jiraWrite(s.handleJiraRemoveIssueLink),
		global.ToolJiraTransitionIssue:   jiraWrite(s.handleJiraTransitionIssue),
	}
}

// dispatch routes one tool call. Backend faults and bad arguments become
// error text blocks; an unknown name is a protocol error. A write call in
// read-only mode returns an informational text block rather than an error so
// clients that retry on errors do not loop.
func (s *Server) dispatch(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	name := request.Params.Name
	op, ok := s.operations[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	callID := uuid.NewString()[:8]
	s.logger.Debugf("[%s] Dispatching %s", callID, name)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("[%s] Panic in %s: %v", callID, name, r)
			result = mcp.NewToolResultError(fmt.Sprintf("Error: internal failure in %s: %v", name, r))
			err = nil
		}
	}()

	switch op.service {
	case global.ServiceJira:
		if s.services.Jira == nil {
			return mcp.NewToolResultError("Jira is not configured. Set JIRA_URL and credentials to enable Jira tools."), nil
		}
	case global.ServiceConfluence:
		if s.services.Confluence == nil {
			return mcp.NewToolResultError("Confluence is not configured. Set CONFLUENCE_URL and credentials to enable Confluence tools."), nil
		}
	}

	if op.write && s.config.ReadOnly {
		s.logger.Infof("[%s] Blocked write operation %s in read-only mode", callID, name)
		return mcp.NewToolResultText(fmt.Sprintf("Operation '%s' is not available in read-only mode.", name)), nil
	}

	result, err = op.handler(ctx, request)
	if err != nil {
		s.logger.Errorf("[%s] %s failed: %v", callID, name, err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return result, nil
}

// jsonResult renders a value as an indented JSON text block
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

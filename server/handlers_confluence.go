/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/confluence"
	"github.com/PivotLLM/Atlas/global"
)

// cqlTokens mark a query as already being CQL rather than free text
var cqlTokens = []string{"=", "~", ">", "<", " AND ", " OR ", "currentUser()"}

// isFreeTextQuery reports whether a search query should be wrapped in a CQL
// clause before being sent to the backend
func isFreeTextQuery(query string) bool {
	if query == "" {
		return false
	}
	for _, token := range cqlTokens {
		if strings.Contains(query, token) {
			return false
		}
	}
	return true
}

func (s *Server) handleConfluenceSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(request, "query", "")
	if query == "" {
		return nil, fmt.Errorf("argument 'query' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	// a per-call filter overrides the configured one
	spacesFilter := stringListArg(request, "spaces_filter")
	if spacesFilter == nil {
		spacesFilter = s.config.Confluence.Filter
	}

	var result *confluence.SearchResult
	if isFreeTextQuery(query) {
		// siteSearch matches the WebUI ranking but is not supported by every
		// deployment; fall back to a plain text search on any failure
		siteCQL := fmt.Sprintf("siteSearch ~ %q", query)
		s.logger.Debugf("Converting simple search term to CQL: %s", siteCQL)
		result, err = s.services.Confluence.Search(ctx, siteCQL, 0, limit, spacesFilter)
		if err != nil {
			textCQL := fmt.Sprintf("text ~ %q", query)
			s.logger.Infof("siteSearch failed (%v), retrying with: %s", err, textCQL)
			result, err = s.services.Confluence.Search(ctx, textCQL, 0, limit, spacesFilter)
		}
	} else {
		result, err = s.services.Confluence.Search(ctx, query, 0, limit, spacesFilter)
	}
	if err != nil {
		return nil, err
	}

	pages := make([]map[string]any, 0, len(result.Pages))
	for i := range result.Pages {
		pages = append(pages, result.Pages[i].Simplified())
	}
	return jsonResult(map[string]any{
		"total":       result.TotalSize,
		"start_at":    result.Start,
		"max_results": result.Limit,
		"results":     pages,
	})
}

func (s *Server) handleConfluenceGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := stringArg(request, "page_id", "")
	title := stringArg(request, "title", "")
	spaceKey := stringArg(request, "space_key", "")
	includeMetadata := boolArg(request, "include_metadata", true)
	toMarkdown := boolArg(request, "convert_to_markdown", true)

	var page *confluence.Page
	var err error
	switch {
	case pageID != "":
		page, err = s.services.Confluence.GetPage(ctx, pageID, toMarkdown)
	case title != "" && spaceKey != "":
		page, err = s.services.Confluence.GetPageByTitle(ctx, spaceKey, title, toMarkdown)
	default:
		return nil, fmt.Errorf("provide argument 'page_id', or both 'title' and 'space_key'")
	}
	if err != nil {
		return nil, err
	}

	view := page.Simplified()
	if !includeMetadata {
		view = map[string]any{
			"id":      view["id"],
			"title":   view["title"],
			"content": view["content"],
		}
	}
	return jsonResult(view)
}

func (s *Server) handleConfluenceGetPageChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parentID := stringArg(request, "parent_id", "")
	if parentID == "" {
		return nil, fmt.Errorf("argument 'parent_id' is required")
	}
	limit, err := intArg(request, "limit", global.DefaultChildrenSize)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	includeContent := boolArg(request, "include_content", false)
	// the expand argument is accepted for compatibility; body expansion is
	// driven by include_content
	includeContent = includeContent || strings.Contains(stringArg(request, "expand", "version"), "body")

	children, err := s.services.Confluence.GetPageChildren(ctx, parentID, 0, limit, includeContent, true)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(children))
	for i := range children {
		views = append(views, children[i].Simplified())
	}
	return jsonResult(map[string]any{
		"parent_id": parentID,
		"count":     len(views),
		"results":   views,
	})
}

func (s *Server) handleConfluenceGetPageAncestors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := stringArg(request, "page_id", "")
	if pageID == "" {
		return nil, fmt.Errorf("argument 'page_id' is required")
	}

	ancestors, err := s.services.Confluence.GetPageAncestors(ctx, pageID)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(ancestors))
	for i := range ancestors {
		views = append(views, ancestors[i].Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleConfluenceGetComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := stringArg(request, "page_id", "")
	if pageID == "" {
		return nil, fmt.Errorf("argument 'page_id' is required")
	}

	comments, err := s.services.Confluence.GetPageComments(ctx, pageID)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(comments))
	for i := range comments {
		views = append(views, comments[i].Simplified())
	}
	return jsonResult(views)
}

func (s *Server) handleConfluenceCreatePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceKey := stringArg(request, "space_key", "")
	title := stringArg(request, "title", "")
	content := stringArg(request, "content", "")
	if spaceKey == "" || title == "" || content == "" {
		return nil, fmt.Errorf("arguments 'space_key', 'title' and 'content' are required")
	}
	parentID := stringArg(request, "parent_id", "")

	page, err := s.services.Confluence.CreatePage(ctx, spaceKey, title, content, parentID)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Page created successfully: %s", page.Title),
		"page":    page.Simplified(),
	})
}

func (s *Server) handleConfluenceUpdatePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := stringArg(request, "page_id", "")
	title := stringArg(request, "title", "")
	content := stringArg(request, "content", "")
	if pageID == "" || title == "" || content == "" {
		return nil, fmt.Errorf("arguments 'page_id', 'title' and 'content' are required")
	}
	minorEdit := boolArg(request, "is_minor_edit", false)
	versionComment := stringArg(request, "version_comment", "")
	parentID := stringArg(request, "parent_id", "")

	page, err := s.services.Confluence.UpdatePage(ctx, pageID, title, content, minorEdit, versionComment, parentID)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"message": fmt.Sprintf("Page updated successfully: %s", page.Title),
		"page":    page.Simplified(),
	})
}

func (s *Server) handleConfluenceDeletePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := stringArg(request, "page_id", "")
	if pageID == "" {
		return nil, fmt.Errorf("argument 'page_id' is required")
	}

	if err := s.services.Confluence.DeletePage(ctx, pageID); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %s deleted successfully", pageID)), nil
}

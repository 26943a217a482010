/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/global"
)

// toolDef couples a tool descriptor with the service it needs and whether it
// mutates backend state
type toolDef struct {
	tool    mcp.Tool
	service string
	write   bool
}

// readOnlyTool creates a tool with read-only annotations
func readOnlyTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}))
	return mcp.NewTool(name, opts...)
}

// defaultTool creates a tool with non-destructive write annotations
func defaultTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}))
	return mcp.NewTool(name, opts...)
}

// destructiveTool creates a tool with destructive annotations
func destructiveTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(true),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}))
	return mcp.NewTool(name, opts...)
}

// catalogTools builds the advertised tool list for the current service
// availability and mode. Order is fixed: Confluence reads, Confluence writes,
// Jira reads, Jira writes; write tools are omitted entirely in read-only mode.
func catalogTools(services Services, readOnly bool) []mcp.Tool {
	defs := catalogDefs()
	tools := make([]mcp.Tool, 0, len(defs))
	for _, def := range defs {
		switch def.service {
		case global.ServiceConfluence:
			if services.Confluence == nil {
				continue
			}
		case global.ServiceJira:
			if services.Jira == nil {
				continue
			}
		}
		if def.write && readOnly {
			continue
		}
		tools = append(tools, def.tool)
	}
	return tools
}

// catalogDefs returns every tool descriptor in declared order
func catalogDefs() []toolDef {
	var defs []toolDef

	confluenceRead := func(tool mcp.Tool) {
		defs = append(defs, toolDef{tool: tool, service: global.ServiceConfluence})
	}
	confluenceWrite := func(tool mcp.Tool) {
		defs = append(defs, toolDef{tool: tool, service: global.ServiceConfluence, write: true})
	}
	jiraRead := func(tool mcp.Tool) {
		defs = append(defs, toolDef{tool: tool, service: global.ServiceJira})
	}
	jiraWrite := func(tool mcp.Tool) {
		defs = append(defs, toolDef{tool: tool, service: global.ServiceJira, write: true})
	}

	// Confluence read operations
	confluenceRead(readOnlyTool(global.ToolConfluenceSearch,
		mcp.WithDescription("Search Confluence content using simple terms or CQL"),
		mcp.WithString("query",
			mcp.Description("Search query - can be either a simple text (e.g. 'project documentation') or a CQL query string. "+
				"Simple queries use 'siteSearch' by default, to mimic the WebUI search, with an automatic fallback to 'text' search if not supported. "+
				"Examples of CQL:\n"+
				"- Basic search: 'type=page AND space=DEV'\n"+
				"- Personal space search: 'space=\"~username\"' (note: personal space keys starting with ~ must be quoted)\n"+
				"- Search by title: 'title~\"Meeting Notes\"'\n"+
				"- Use siteSearch: 'siteSearch ~ \"important concept\"'\n"+
				"- Use text search: 'text ~ \"important concept\"'\n"+
				"- Recent content: 'created >= \"2023-01-01\"'\n"+
				"- Content with specific label: 'label=documentation'\n"+
				"- Recently modified content: 'lastModified > startOfMonth(\"-1M\")'\n"+
				"Note: Special identifiers need proper quoting in CQL: personal space keys (e.g., \"~username\"), reserved words, numeric IDs, and identifiers with special characters."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithString("spaces_filter",
			mcp.Description("Comma-separated list of space keys to filter results by. Overrides the environment variable CONFLUENCE_SPACES_FILTER if provided."),
		),
	))

	confluenceRead(readOnlyTool(global.ToolConfluenceGetPage,
		mcp.WithDescription("Get content of a specific Confluence page by ID, or by title and space key"),
		mcp.WithString("page_id",
			mcp.Description("Confluence page ID (numeric ID, can be found in the page URL). "+
				"For example, in the URL 'https://example.atlassian.net/wiki/spaces/TEAM/pages/123456789/Page+Title', the page ID is '123456789'. "+
				"Provide this OR both 'title' and 'space_key'"),
		),
		mcp.WithString("title",
			mcp.Description("Exact page title, used together with 'space_key' when 'page_id' is not provided"),
		),
		mcp.WithString("space_key",
			mcp.Description("Key of the space containing the page (e.g. 'TEAM'), used together with 'title'"),
		),
		mcp.WithBoolean("include_metadata",
			mcp.Description("Whether to include page metadata such as creation date, last update and version"),
			mcp.DefaultBool(true),
		),
		mcp.WithBoolean("convert_to_markdown",
			mcp.Description("Whether to convert page to markdown (true) or keep it in raw HTML format (false). "+
				"Raw HTML can reveal macros not visible in markdown, but CAUTION: using HTML significantly increases token usage in AI responses."),
			mcp.DefaultBool(true),
		),
	))

	confluenceRead(readOnlyTool(global.ToolConfluenceGetPageChildren,
		mcp.WithDescription("Get child pages of a specific Confluence page"),
		mcp.WithString("parent_id",
			mcp.Description("The ID of the parent page whose children you want to retrieve"),
			mcp.Required(),
		),
		mcp.WithString("expand",
			mcp.Description("Fields to expand in the response (e.g., 'version', 'body.storage')"),
			mcp.DefaultString("version"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of child pages to return (1-50)"),
			mcp.DefaultNumber(global.DefaultChildrenSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Whether to include the page content in the response"),
			mcp.DefaultBool(false),
		),
	))

	confluenceRead(readOnlyTool(global.ToolConfluenceGetPageAncestors,
		mcp.WithDescription("Get ancestor (parent) pages of a specific Confluence page"),
		mcp.WithString("page_id",
			mcp.Description("The ID of the page whose ancestors you want to retrieve"),
			mcp.Required(),
		),
	))

	confluenceRead(readOnlyTool(global.ToolConfluenceGetComments,
		mcp.WithDescription("Get comments for a specific Confluence page"),
		mcp.WithString("page_id",
			mcp.Description("Confluence page ID (numeric ID, can be parsed from URL, "+
				"e.g. from 'https://example.atlassian.net/wiki/spaces/TEAM/pages/123456789/Page+Title' -> '123456789')"),
			mcp.Required(),
		),
	))

	// Confluence write operations
	confluenceWrite(defaultTool(global.ToolConfluenceCreatePage,
		mcp.WithDescription("Create a new Confluence page"),
		mcp.WithString("space_key",
			mcp.Description("The key of the space to create the page in (usually a short uppercase code like 'DEV', 'TEAM', or 'DOC')"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("The title of the page"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("The content of the page in Markdown format. Supports headings, lists, tables, code blocks, and other Markdown syntax"),
			mcp.Required(),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional parent page ID. If provided, this page will be created as a child of the specified page"),
		),
	))

	confluenceWrite(defaultTool(global.ToolConfluenceUpdatePage,
		mcp.WithDescription("Update an existing Confluence page"),
		mcp.WithString("page_id",
			mcp.Description("The ID of the page to update"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("The new title of the page"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("The new content of the page in Markdown format"),
			mcp.Required(),
		),
		mcp.WithBoolean("is_minor_edit",
			mcp.Description("Whether this is a minor edit"),
			mcp.DefaultBool(false),
		),
		mcp.WithString("version_comment",
			mcp.Description("Optional comment for this version"),
			mcp.DefaultString(""),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional the new parent page ID"),
		),
	))

	confluenceWrite(destructiveTool(global.ToolConfluenceDeletePage,
		mcp.WithDescription("Delete an existing Confluence page"),
		mcp.WithString("page_id",
			mcp.Description("The ID of the page to delete"),
			mcp.Required(),
		),
	))

	// Jira read operations
	jiraRead(readOnlyTool(global.ToolJiraGetIssue,
		mcp.WithDescription("Get details of a specific Jira issue including its Epic links and relationship information"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("Fields to return. Can be a comma-separated list (e.g., 'summary,status,customfield_10010'), "+
				"'*all' for all fields (including custom fields), or omitted for essential fields only"),
			mcp.DefaultString(global.DefaultIssueFields),
		),
		mcp.WithString("expand",
			mcp.Description("Optional fields to expand. Examples: 'renderedFields' (for rendered content), "+
				"'transitions' (for available status transitions), 'changelog' (for history)"),
		),
		mcp.WithNumber("comment_limit",
			mcp.Description("Maximum number of comments to include (0 or null for no comments)"),
			mcp.DefaultNumber(global.DefaultCommentLimit),
			mcp.Min(0),
			mcp.Max(global.MaxCommentLimit),
		),
		mcp.WithString("properties",
			mcp.Description("A comma-separated list of issue properties to return"),
		),
		mcp.WithBoolean("update_history",
			mcp.Description("Whether to update the issue view history for the requesting user"),
			mcp.DefaultBool(true),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraSearch,
		mcp.WithDescription("Search Jira issues using JQL (Jira Query Language)"),
		mcp.WithString("jql",
			mcp.Description("JQL query string (Jira Query Language). Examples:\n"+
				"- Find Epics: \"issuetype = Epic AND project = PROJ\"\n"+
				"- Find issues in Epic: \"parent = PROJ-123\"\n"+
				"- Find by status: \"status = 'In Progress' AND project = PROJ\"\n"+
				"- Find by assignee: \"assignee = currentUser()\"\n"+
				"- Find recently updated: \"updated >= -7d AND project = PROJ\"\n"+
				"- Find by label: \"labels = frontend AND project = PROJ\"\n"+
				"- Find by priority: \"priority = High AND project = PROJ\""),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated fields to return in the results. "+
				"Use '*all' for all fields, or specify individual fields like 'summary,status,assignee,priority'"),
			mcp.DefaultString(global.DefaultIssueFields),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
		),
		mcp.WithString("projects_filter",
			mcp.Description("Comma-separated list of project keys to filter results by. Overrides the environment variable JIRA_PROJECTS_FILTER if provided."),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraSearchFields,
		mcp.WithDescription("Search Jira fields by keyword with fuzzy match"),
		mcp.WithString("keyword",
			mcp.Description("Keyword for fuzzy search. If left empty, lists the first 'limit' available fields in their default order."),
			mcp.DefaultString(""),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
		),
		mcp.WithBoolean("refresh",
			mcp.Description("Whether to force refresh the field list"),
			mcp.DefaultBool(false),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetProjectIssues,
		mcp.WithDescription("Get all issues for a specific Jira project"),
		mcp.WithString("project_key",
			mcp.Description("The project key"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetEpicIssues,
		mcp.WithDescription("Get all issues linked to a specific epic"),
		mcp.WithString("epic_key",
			mcp.Description("The key of the epic (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetTransitions,
		mcp.WithDescription("Get available status transitions for a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetWorklog,
		mcp.WithDescription("Get worklog entries for a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraDownloadAttachments,
		mcp.WithDescription("Download attachments from a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("target_dir",
			mcp.Description("Directory where attachments should be saved"),
			mcp.Required(),
		),
		mcp.WithBoolean("convert_to_markdown",
			mcp.Description("If true, convert downloaded documents (PDF, DOCX, XLSX) to Markdown next to the originals"),
			mcp.DefaultBool(false),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetAgileBoards,
		mcp.WithDescription("Get jira agile boards by name, project key, or type"),
		mcp.WithString("board_name",
			mcp.Description("The name of board, support fuzzy search"),
		),
		mcp.WithString("project_key",
			mcp.Description("Jira project key (e.g., 'PROJ')"),
		),
		mcp.WithString("board_type",
			mcp.Description("The type of jira board (e.g., 'scrum', 'kanban')"),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetBoardIssues,
		mcp.WithDescription("Get all issues linked to a specific board"),
		mcp.WithString("board_id",
			mcp.Description("The id of the board (e.g., '1001')"),
			mcp.Required(),
		),
		mcp.WithString("jql",
			mcp.Description("JQL query string (Jira Query Language). Examples:\n"+
				"- Find Epics: \"issuetype = Epic AND project = PROJ\"\n"+
				"- Find issues in Epic: \"parent = PROJ-123\"\n"+
				"- Find by status: \"status = 'In Progress' AND project = PROJ\"\n"+
				"- Find by assignee: \"assignee = currentUser()\"\n"+
				"- Find recently updated: \"updated >= -7d AND project = PROJ\""),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated fields to return in the results. "+
				"Use '*all' for all fields, or specify individual fields like 'summary,status,assignee,priority'"),
			mcp.DefaultString("*all"),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
		mcp.WithString("expand",
			mcp.Description("Fields to expand in the response (e.g., 'changelog')"),
			mcp.DefaultString("version"),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetSprintsFromBoard,
		mcp.WithDescription("Get jira sprints from board by state"),
		mcp.WithString("board_id",
			mcp.Description("The id of board (e.g., '1000')"),
			mcp.Required(),
		),
		mcp.WithString("state",
			mcp.Description("Sprint state (e.g., 'active', 'future', 'closed')"),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetSprintIssues,
		mcp.WithDescription("Get jira issues from sprint"),
		mcp.WithString("sprint_id",
			mcp.Description("The id of sprint (e.g., '10001')"),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated fields to return in the results. "+
				"Use '*all' for all fields, or specify individual fields like 'summary,status,assignee,priority'"),
			mcp.DefaultString("*all"),
		),
		mcp.WithNumber("startAt",
			mcp.Description("Starting index for pagination (0-based)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-50)"),
			mcp.DefaultNumber(global.DefaultPageSize),
			mcp.Min(1),
			mcp.Max(global.MaxPageSize),
		),
	))

	jiraRead(readOnlyTool(global.ToolJiraGetLinkTypes,
		mcp.WithDescription("Get all available issue link types"),
	))

	// Jira write operations. Sprint creation and update mutate board state,
	// so they live here and are withheld in read-only mode.
	jiraWrite(defaultTool(global.ToolJiraCreateSprint,
		mcp.WithDescription("Create Jira sprint for a board"),
		mcp.WithString("board_id",
			mcp.Description("The id of board (e.g., '1000')"),
			mcp.Required(),
		),
		mcp.WithString("sprint_name",
			mcp.Description("Name of the sprint (e.g., 'Sprint 1')"),
			mcp.Required(),
		),
		mcp.WithString("start_date",
			mcp.Description("Start time for sprint (ISO 8601 format)"),
			mcp.Required(),
		),
		mcp.WithString("end_date",
			mcp.Description("End time for sprint (ISO 8601 format)"),
			mcp.Required(),
		),
		mcp.WithString("goal",
			mcp.Description("Goal of the sprint"),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraUpdateSprint,
		mcp.WithDescription("Update jira sprint"),
		mcp.WithString("sprint_id",
			mcp.Description("The id of sprint (e.g., '10001')"),
			mcp.Required(),
		),
		mcp.WithString("sprint_name",
			mcp.Description("Optional: New name for the sprint"),
		),
		mcp.WithString("state",
			mcp.Description("Optional: New state for the sprint (future|active|closed)"),
		),
		mcp.WithString("start_date",
			mcp.Description("Optional: New start date for the sprint"),
		),
		mcp.WithString("end_date",
			mcp.Description("Optional: New end date for the sprint"),
		),
		mcp.WithString("goal",
			mcp.Description("Optional: New goal for the sprint"),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraCreateIssue,
		mcp.WithDescription("Create a new Jira issue with optional Epic link or parent for subtasks"),
		mcp.WithString("project_key",
			mcp.Description("The JIRA project key (e.g. 'PROJ', 'DEV', 'SUPPORT'). This is the prefix of issue keys in your project. "+
				"Never assume what it might be, always ask the user."),
			mcp.Required(),
		),
		mcp.WithString("summary",
			mcp.Description("Summary/title of the issue"),
			mcp.Required(),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type (e.g. 'Task', 'Bug', 'Story', 'Epic', 'Subtask'). The available types depend on your project configuration. "+
				"For subtasks, use 'Subtask' (not 'Sub-task') and include parent in additional_fields."),
			mcp.Required(),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee of the ticket (accountID, full name or e-mail)"),
		),
		mcp.WithString("description",
			mcp.Description("Issue description"),
			mcp.DefaultString(""),
		),
		mcp.WithString("components",
			mcp.Description("Comma-separated list of component names to assign (e.g., 'Frontend,API')"),
			mcp.DefaultString(""),
		),
		mcp.WithString("additional_fields",
			mcp.Description("Optional JSON string of additional fields to set. Examples:\n"+
				"- Set priority: {\"priority\": {\"name\": \"High\"}}\n"+
				"- Add labels: {\"labels\": [\"frontend\", \"urgent\"]}\n"+
				"- Link to parent (for any issue type): {\"parent\": \"PROJ-123\"}\n"+
				"- Custom fields: {\"customfield_10010\": \"value\"}"),
			mcp.DefaultString("{}"),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraBatchCreateIssues,
		mcp.WithDescription("Create multiple Jira issues in a batch"),
		mcp.WithString("issues",
			mcp.Description("JSON array of issue objects. Each object should contain:\n"+
				"- project_key (required): The project key (e.g., 'PROJ')\n"+
				"- summary (required): Issue summary/title\n"+
				"- issue_type (required): Type of issue (e.g., 'Task', 'Bug')\n"+
				"- description (optional): Issue description\n"+
				"- assignee (optional): Assignee username or email\n"+
				"- components (optional): Array of component names\n"+
				"Example: [{\"project_key\": \"PROJ\", \"summary\": \"Issue 1\", \"issue_type\": \"Task\"}]"),
			mcp.Required(),
		),
		mcp.WithBoolean("validate_only",
			mcp.Description("If true, only validates the issues without creating them"),
			mcp.DefaultBool(false),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraUpdateIssue,
		mcp.WithDescription("Update an existing Jira issue including changing status, adding Epic links, updating fields, etc."),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("A valid JSON object of fields to update as a string. "+
				"Example: '{\"summary\": \"New title\", \"description\": \"Updated description\", \"priority\": {\"name\": \"High\"}}'"),
			mcp.Required(),
		),
		mcp.WithString("additional_fields",
			mcp.Description("Optional JSON string of additional fields to update. Use this for custom fields or more complex updates."),
			mcp.DefaultString("{}"),
		),
		mcp.WithString("attachments",
			mcp.Description("Optional JSON string or comma-separated list of file paths to attach to the issue. "+
				"Example: \"/path/to/file1.txt,/path/to/file2.txt\" or \"[\\\"/path/to/file1.txt\\\"]\""),
		),
	))

	jiraWrite(destructiveTool(global.ToolJiraDeleteIssue,
		mcp.WithDescription("Delete an existing Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g. PROJ-123)"),
			mcp.Required(),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraAddComment,
		mcp.WithDescription("Add a comment to a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("comment",
			mcp.Description("Comment text in Markdown format"),
			mcp.Required(),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraAddWorklog,
		mcp.WithDescription("Add a worklog entry to a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("time_spent",
			mcp.Description("Time spent in Jira format. Examples: '1h 30m' (1 hour and 30 minutes), '1d' (1 day), '30m' (30 minutes), '4h' (4 hours)"),
			mcp.Required(),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment for the worklog in Markdown format"),
		),
		mcp.WithString("started",
			mcp.Description("Optional start time in ISO format. If not provided, the current time will be used. "+
				"Example: '2023-08-01T12:00:00.000+0000'"),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraLinkToEpic,
		mcp.WithDescription("Link an existing issue to an epic"),
		mcp.WithString("issue_key",
			mcp.Description("The key of the issue to link (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("epic_key",
			mcp.Description("The key of the epic to link to (e.g., 'PROJ-456')"),
			mcp.Required(),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraCreateIssueLink,
		mcp.WithDescription("Create a link between two Jira issues"),
		mcp.WithString("link_type",
			mcp.Description("The type of link to create (e.g., 'Duplicate', 'Blocks', 'Relates to')"),
			mcp.Required(),
		),
		mcp.WithString("inward_issue_key",
			mcp.Description("The key of the inward issue (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("outward_issue_key",
			mcp.Description("The key of the outward issue (e.g., 'PROJ-456')"),
			mcp.Required(),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment to add to the link"),
		),
		mcp.WithObject("comment_visibility",
			mcp.Description("Optional visibility settings for the comment"),
			mcp.Properties(map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Type of visibility restriction (e.g., 'group')",
				},
				"value": map[string]any{
					"type":        "string",
					"description": "Value for the visibility restriction (e.g., 'jira-software-users')",
				},
			}),
		),
	))

	jiraWrite(destructiveTool(global.ToolJiraRemoveIssueLink,
		mcp.WithDescription("Remove a link between two Jira issues"),
		mcp.WithString("link_id",
			mcp.Description("The ID of the link to remove"),
			mcp.Required(),
		),
	))

	jiraWrite(defaultTool(global.ToolJiraTransitionIssue,
		mcp.WithDescription("Transition a Jira issue to a new status"),
		mcp.WithString("issue_key",
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
			mcp.Required(),
		),
		mcp.WithString("transition_id",
			mcp.Description("ID of the transition to perform. Use the jira_get_transitions tool first to get the available "+
				"transition IDs for the issue. Example values: '11', '21', '31'"),
			mcp.Required(),
		),
		mcp.WithString("fields",
			mcp.Description("JSON string of fields to update during the transition. Some transitions require specific fields to be set. "+
				"Example: '{\"resolution\": {\"name\": \"Fixed\"}}'"),
			mcp.DefaultString("{}"),
		),
		mcp.WithString("comment",
			mcp.Description("Comment to add during the transition (optional). This will be visible in the issue history."),
		),
	))

	return defs
}

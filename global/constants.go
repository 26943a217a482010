/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

const (
	// Environment variables - Jira
	EnvJiraURL            = "JIRA_URL"
	EnvJiraUsername       = "JIRA_USERNAME"
	EnvJiraAPIToken       = "JIRA_API_TOKEN"
	EnvJiraPersonalToken  = "JIRA_PERSONAL_TOKEN"
	EnvJiraSSLVerify      = "JIRA_SSL_VERIFY"
	EnvJiraProjectsFilter = "JIRA_PROJECTS_FILTER"

	// Environment variables - Confluence
	EnvConfluenceURL           = "CONFLUENCE_URL"
	EnvConfluenceUsername      = "CONFLUENCE_USERNAME"
	EnvConfluenceAPIToken      = "CONFLUENCE_API_TOKEN"
	EnvConfluencePersonalToken = "CONFLUENCE_PERSONAL_TOKEN"
	EnvConfluenceSSLVerify     = "CONFLUENCE_SSL_VERIFY"
	EnvConfluenceSpacesFilter  = "CONFLUENCE_SPACES_FILTER"

	// Environment variables - process-wide
	EnvReadOnlyMode = "READ_ONLY_MODE"
	EnvVerbose      = "MCP_VERBOSE"
	EnvLogFile      = "ATLAS_LOG_FILE"

	// DefaultLogFile is used when ATLAS_LOG_FILE is not set. Logging goes to
	// a file because stdout belongs to the stdio transport.
	DefaultLogFile = "~/.atlas/atlas.log"

	// Service identifiers
	ServiceJira       = "jira"
	ServiceConfluence = "confluence"

	// Pagination defaults and bounds shared by search-like tools
	DefaultPageSize     = 10
	DefaultChildrenSize = 25
	MaxPageSize         = 50
	MaxCommentLimit     = 100
	DefaultCommentLimit = 10

	// DefaultIssueFields is the field list returned by issue reads when the
	// caller does not ask for specific fields.
	DefaultIssueFields = "summary,description,status,assignee,reporter,labels,priority,created,updated,issuetype"

	// MCP Tool Names - Confluence read operations
	ToolConfluenceSearch           = "confluence_search"
	ToolConfluenceGetPage          = "confluence_get_page"
	ToolConfluenceGetPageChildren  = "confluence_get_page_children"
	ToolConfluenceGetPageAncestors = "confluence_get_page_ancestors"
	ToolConfluenceGetComments      = "confluence_get_comments"

	// MCP Tool Names - Confluence write operations
	ToolConfluenceCreatePage = "confluence_create_page"
	ToolConfluenceUpdatePage = "confluence_update_page"
	ToolConfluenceDeletePage = "confluence_delete_page"

	// MCP Tool Names - Jira read operations
	ToolJiraGetIssue            = "jira_get_issue"
	ToolJiraSearch              = "jira_search"
	ToolJiraSearchFields        = "jira_search_fields"
	ToolJiraGetProjectIssues    = "jira_get_project_issues"
	ToolJiraGetEpicIssues       = "jira_get_epic_issues"
	ToolJiraGetTransitions      = "jira_get_transitions"
	ToolJiraGetWorklog          = "jira_get_worklog"
	ToolJiraDownloadAttachments = "jira_download_attachments"
	ToolJiraGetAgileBoards      = "jira_get_agile_boards"
	ToolJiraGetBoardIssues      = "jira_get_board_issues"
	ToolJiraGetSprintsFromBoard = "jira_get_sprints_from_board"
	ToolJiraGetSprintIssues     = "jira_get_sprint_issues"
	ToolJiraGetLinkTypes        = "jira_get_link_types"

	// MCP Tool Names - Jira write operations
	ToolJiraCreateSprint      = "jira_create_sprint"
	ToolJiraUpdateSprint      = "jira_update_sprint"
	ToolJiraCreateIssue       = "jira_create_issue"
	ToolJiraBatchCreateIssues = "jira_batch_create_issues"
	ToolJiraUpdateIssue       = "jira_update_issue"
	ToolJiraDeleteIssue       = "jira_delete_issue"
	ToolJiraAddComment        = "jira_add_comment"
	ToolJiraAddWorklog        = "jira_add_worklog"
	ToolJiraLinkToEpic        = "jira_link_to_epic"
	ToolJiraCreateIssueLink   = "jira_create_issue_link"
	ToolJiraRemoveIssueLink   = "jira_remove_issue_link"
	ToolJiraTransitionIssue   = "jira_transition_issue"

	// Log Level Constants
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)

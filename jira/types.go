/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package jira

// NamedRef is a Jira reference object of which only the name matters
type NamedRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// User is a Jira user reference
type User struct {
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Attachment is one file attached to an issue
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"` // download URL
	Created  string `json:"created"`
	Author   *User  `json:"author,omitempty"`
}

// Comment is one issue comment
type Comment struct {
	ID      string `json:"id"`
	Author  *User  `json:"author,omitempty"`
	Body    string `json:"body"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// commentPage is the paged comment container embedded in issue fields
type commentPage struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// IssueFields is the subset of issue fields the server projects
type IssueFields struct {
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      *NamedRef    `json:"status,omitempty"`
	Assignee    *User        `json:"assignee,omitempty"`
	Reporter    *User        `json:"reporter,omitempty"`
	Labels      []string     `json:"labels,omitempty"`
	Priority    *NamedRef    `json:"priority,omitempty"`
	Created     string       `json:"created,omitempty"`
	Updated     string       `json:"updated,omitempty"`
	IssueType   *NamedRef    `json:"issuetype,omitempty"`
	Components  []NamedRef   `json:"components,omitempty"`
	Attachment  []Attachment `json:"attachment,omitempty"`
	Comment     *commentPage `json:"comment,omitempty"`
}

// Issue is a Jira issue as returned by the REST API
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`

	// commentLimit caps the number of comments included in the simplified
	// view; negative means no cap
	commentLimit int
}

// Simplified projects the issue to a flat, primitive-typed mapping
func (i *Issue) Simplified() map[string]any {
	view := map[string]any{
		"id":  i.ID,
		"key": i.Key,
	}
	f := i.Fields
	if f.Summary != "" {
		view["summary"] = f.Summary
	}
	if f.Description != "" {
		view["description"] = f.Description
	}
	if f.Status != nil {
		view["status"] = f.Status.Name
	}
	if f.Assignee != nil {
		view["assignee"] = f.Assignee.displayOrName()
	}
	if f.Reporter != nil {
		view["reporter"] = f.Reporter.displayOrName()
	}
	if len(f.Labels) > 0 {
		view["labels"] = f.Labels
	}
	if f.Priority != nil {
		view["priority"] = f.Priority.Name
	}
	if f.Created != "" {
		view["created"] = f.Created
	}
	if f.Updated != "" {
		view["updated"] = f.Updated
	}
	if f.IssueType != nil {
		view["issue_type"] = f.IssueType.Name
	}
	if len(f.Components) > 0 {
		names := make([]string, 0, len(f.Components))
		for _, c := range f.Components {
			names = append(names, c.Name)
		}
		view["components"] = names
	}
	if f.Comment != nil && len(f.Comment.Comments) > 0 && i.commentLimit != 0 {
		comments := f.Comment.Comments
		if i.commentLimit > 0 && len(comments) > i.commentLimit {
			comments = comments[:i.commentLimit]
		}
		simplified := make([]map[string]any, 0, len(comments))
		for _, c := range comments {
			simplified = append(simplified, c.Simplified())
		}
		view["comments"] = simplified
	}
	return view
}

func (u *User) displayOrName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Name != "" {
		return u.Name
	}
	return "Unknown"
}

// Simplified projects a comment for JSON responses
func (c Comment) Simplified() map[string]any {
	author := "Unknown"
	if c.Author != nil {
		author = c.Author.displayOrName()
	}
	return map[string]any{
		"id":      c.ID,
		"author":  author,
		"created": c.Created,
		"body":    c.Body,
	}
}

// SearchResult is a page of issues with pagination metadata
type SearchResult struct {
	Total      int     `json:"total"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Issues     []Issue `json:"issues"`
}

// Transition is one available workflow transition
type Transition struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	To   *NamedRef `json:"to,omitempty"`
}

// Simplified projects a transition for JSON responses
func (t Transition) Simplified() map[string]any {
	view := map[string]any{
		"id":   t.ID,
		"name": t.Name,
	}
	if t.To != nil {
		view["to_status"] = t.To.Name
	}
	return view
}

// Worklog is one worklog entry on an issue
type Worklog struct {
	ID               string `json:"id"`
	Author           *User  `json:"author,omitempty"`
	Comment          string `json:"comment,omitempty"`
	Created          string `json:"created,omitempty"`
	Started          string `json:"started,omitempty"`
	TimeSpent        string `json:"timeSpent,omitempty"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds,omitempty"`
}

// Simplified projects a worklog entry for JSON responses
func (w Worklog) Simplified() map[string]any {
	view := map[string]any{
		"id":                 w.ID,
		"time_spent":         w.TimeSpent,
		"time_spent_seconds": w.TimeSpentSeconds,
	}
	if w.Author != nil {
		view["author"] = w.Author.displayOrName()
	}
	if w.Comment != "" {
		view["comment"] = w.Comment
	}
	if w.Started != "" {
		view["started"] = w.Started
	}
	if w.Created != "" {
		view["created"] = w.Created
	}
	return view
}

// Board is a Jira agile board
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Simplified projects a board for JSON responses
func (b Board) Simplified() map[string]any {
	return map[string]any{
		"id":   b.ID,
		"name": b.Name,
		"type": b.Type,
	}
}

// Sprint is a Jira agile sprint
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Goal      string `json:"goal,omitempty"`
}

// Simplified projects a sprint for JSON responses
func (s Sprint) Simplified() map[string]any {
	view := map[string]any{
		"id":    s.ID,
		"name":  s.Name,
		"state": s.State,
	}
	if s.StartDate != "" {
		view["start_date"] = s.StartDate
	}
	if s.EndDate != "" {
		view["end_date"] = s.EndDate
	}
	if s.Goal != "" {
		view["goal"] = s.Goal
	}
	return view
}

// LinkType is one issue link type definition
type LinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// Simplified projects a link type for JSON responses
func (lt LinkType) Simplified() map[string]any {
	return map[string]any{
		"id":      lt.ID,
		"name":    lt.Name,
		"inward":  lt.Inward,
		"outward": lt.Outward,
	}
}

// Field is one Jira field definition
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// Simplified projects a field definition for JSON responses
func (f Field) Simplified() map[string]any {
	return map[string]any{
		"id":     f.ID,
		"name":   f.Name,
		"custom": f.Custom,
	}
}

// IssueCreate describes a new issue for single or batch creation. The JSON
// tags match the argument shape accepted by the batch-create tool.
type IssueCreate struct {
	ProjectKey  string         `json:"project_key"`
	Summary     string         `json:"summary"`
	IssueType   string         `json:"issue_type"`
	Description string         `json:"description,omitempty"`
	Assignee    string         `json:"assignee,omitempty"`
	Components  []string       `json:"components,omitempty"`
	Extra       map[string]any `json:"-"` // additional raw fields merged into the payload
}

// SprintCreate describes a new sprint
type SprintCreate struct {
	BoardID   string
	Name      string
	StartDate string
	EndDate   string
	Goal      string
}

// SprintUpdate carries optional sprint changes; empty strings are omitted
type SprintUpdate struct {
	Name      string
	State     string
	StartDate string
	EndDate   string
	Goal      string
}

// IssueLink describes a link between two issues, with an optional comment
type IssueLink struct {
	LinkType          string
	InwardIssueKey    string
	OutwardIssueKey   string
	Comment           string
	CommentVisibility map[string]any
}

// DownloadResult reports the outcome of an attachment download
type DownloadResult struct {
	IssueKey   string           `json:"issue_key"`
	TargetDir  string           `json:"target_dir"`
	Downloaded []map[string]any `json:"downloaded"`
	Failed     []string         `json:"failed,omitempty"`
	Converted  int              `json:"converted,omitempty"`
}

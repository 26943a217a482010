/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package confluence

// Space is a Confluence space reference
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Version carries the page version counter used for optimistic updates
type Version struct {
	Number  int    `json:"number"`
	When    string `json:"when,omitempty"`
	Message string `json:"message,omitempty"`
	By      *User  `json:"by,omitempty"`
}

// User is a Confluence user reference
type User struct {
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Body holds the storage-format representation of page content
type Body struct {
	Storage *BodyContent `json:"storage,omitempty"`
	View    *BodyContent `json:"view,omitempty"`
}

// BodyContent is one rendered representation of content
type BodyContent struct {
	Value          string `json:"value"`
	Representation string `json:"representation,omitempty"`
}

// Page is a Confluence content item of type page
type Page struct {
	ID      string   `json:"id"`
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title"`
	Space   *Space   `json:"space,omitempty"`
	Version *Version `json:"version,omitempty"`
	Body    *Body    `json:"body,omitempty"`

	// markdown holds the converted body when the caller asked for markdown;
	// empty means the raw storage value is projected instead
	markdown string
}

// Simplified projects the page to a flat, primitive-typed mapping. Content is
// included only when a body was fetched.
func (p *Page) Simplified() map[string]any {
	view := map[string]any{
		"id":    p.ID,
		"title": p.Title,
	}
	if p.Space != nil {
		view["space_key"] = p.Space.Key
		if p.Space.Name != "" {
			view["space_name"] = p.Space.Name
		}
	}
	if p.Version != nil {
		view["version"] = p.Version.Number
		if p.Version.When != "" {
			view["last_modified"] = p.Version.When
		}
	}
	if p.markdown != "" {
		view["content"] = p.markdown
		view["content_format"] = "markdown"
	} else if p.Body != nil && p.Body.Storage != nil && p.Body.Storage.Value != "" {
		view["content"] = p.Body.Storage.Value
		view["content_format"] = "storage"
	}
	return view
}

// Comment is one comment on a page
type Comment struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Body    *Body    `json:"body,omitempty"`
	Version *Version `json:"version,omitempty"`

	markdown string
}

// Simplified projects a comment for JSON responses
func (c *Comment) Simplified() map[string]any {
	view := map[string]any{
		"id": c.ID,
	}
	if c.Version != nil {
		if c.Version.By != nil {
			author := c.Version.By.DisplayName
			if author == "" {
				author = c.Version.By.Username
			}
			view["author"] = author
		}
		if c.Version.When != "" {
			view["created"] = c.Version.When
		}
	}
	if c.markdown != "" {
		view["body"] = c.markdown
	} else if c.Body != nil && c.Body.View != nil {
		view["body"] = c.Body.View.Value
	}
	return view
}

// SearchResult is a page of search hits with pagination metadata
type SearchResult struct {
	Pages     []Page
	TotalSize int
	Start     int
	Limit     int
}

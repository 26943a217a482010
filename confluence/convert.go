/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package confluence

import (
	"bytes"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlToMarkdown converts storage-format or rendered HTML to markdown. The
// storage format is XHTML with Confluence macro elements; unknown elements
// fall through as their text content, which is good enough for reading.
func htmlToMarkdown(source string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(source)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return out, nil
}

// markdownToStorage renders markdown to the XHTML accepted by the storage
// representation
func markdownToStorage(source string) (string, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

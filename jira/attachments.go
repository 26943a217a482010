/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package jira

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/tenebris-tech/x2md/convert"

	"github.com/PivotLLM/Atlas/global"
)

// DownloadAttachments fetches all attachments on an issue into targetDir. A
// relative targetDir is resolved against the working directory. The directory
// is lock-protected so concurrent downloads into the same location do not
// clobber each other. With convertToMarkdown set, downloaded documents are
// additionally converted to markdown alongside the originals.
func (c *Client) DownloadAttachments(ctx context.Context, issueKey, targetDir string, convertToMarkdown bool) (*DownloadResult, error) {
	issue, err := c.GetIssue(ctx, issueKey, GetIssueOptions{Fields: "attachment"})
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, fmt.Errorf("invalid target directory %q: %w", targetDir, err)
	}
	if !global.DirExists(absDir) {
		if global.FileExists(absDir) {
			return nil, fmt.Errorf("target %s exists and is not a directory", absDir)
		}
		if err := global.EnsureDir(absDir); err != nil {
			return nil, fmt.Errorf("failed to create target directory: %w", err)
		}
	}

	lock := flock.New(filepath.Join(absDir, ".atlas.lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", absDir, err)
	}
	defer func() { _ = lock.Unlock() }()

	result := &DownloadResult{
		IssueKey:  issue.Key,
		TargetDir: absDir,
	}
	for _, att := range issue.Fields.Attachment {
		dest := filepath.Join(absDir, sanitizeFilename(att.Filename))
		if err := c.downloadFile(ctx, att.Content, dest); err != nil {
			c.logger.Warnf("Failed to download %s from %s: %v", att.Filename, issue.Key, err)
			result.Failed = append(result.Failed, att.Filename)
			continue
		}
		result.Downloaded = append(result.Downloaded, map[string]any{
			"filename": att.Filename,
			"size":     att.Size,
			"path":     dest,
		})
	}

	if convertToMarkdown && len(result.Downloaded) > 0 {
		converter := convert.New(
			convert.WithRecursion(false),
			convert.WithSkipExisting(true),
		)
		conv, err := converter.Convert(absDir)
		if err != nil {
			c.logger.Warnf("Markdown conversion in %s failed: %v", absDir, err)
		} else {
			result.Converted = conv.Converted
		}
	}
	return result, nil
}

// downloadFile streams one attachment URL to a local file
func (c *Client) downloadFile(ctx context.Context, fileURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authenticate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: "attachment download failed"}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// uploadAttachment posts one local file to an issue. The no-check token
// header is required by the attachments endpoint.
func (c *Client) uploadAttachment(ctx context.Context, issueKey, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	endpoint := c.baseURL + "/rest/api/2/issue/" + issueKey + "/attachments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")
	c.authenticate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return nil
}

// sanitizeFilename strips path separators so attachment names cannot escape
// the target directory
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." || name == ".." {
		name = "attachment"
	}
	return name
}

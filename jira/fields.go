/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package jira

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fieldCache holds the field list for the lifetime of the client. Jira field
// definitions change rarely, so one fetch per process is enough unless a
// caller asks for a refresh.
type fieldCache struct {
	mu     sync.Mutex
	loaded bool
	fields []Field
}

// GetFields returns all field definitions, using the cached list unless
// refresh is set
func (c *Client) GetFields(ctx context.Context, refresh bool) ([]Field, error) {
	c.fields.mu.Lock()
	defer c.fields.mu.Unlock()

	if c.fields.loaded && !refresh {
		return c.fields.fields, nil
	}

	var fields []Field
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/field", nil, nil, &fields); err != nil {
		return nil, err
	}
	c.fields.fields = fields
	c.fields.loaded = true
	return fields, nil
}

// SearchFields returns field definitions ranked by fuzzy match against the
// keyword. An empty keyword returns the first limit fields in catalog order.
func (c *Client) SearchFields(ctx context.Context, keyword string, limit int, refresh bool) ([]Field, error) {
	fields, err := c.GetFields(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(fields) {
		limit = len(fields)
	}
	if strings.TrimSpace(keyword) == "" {
		return fields[:limit], nil
	}

	type ranked struct {
		field Field
		rank  int
	}
	var matches []ranked
	for _, f := range fields {
		rank := fuzzy.RankMatchNormalizedFold(keyword, f.Name)
		if rank < 0 {
			rank = fuzzy.RankMatchNormalizedFold(keyword, f.ID)
		}
		if rank >= 0 {
			matches = append(matches, ranked{field: f, rank: rank})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	if limit > len(matches) {
		limit = len(matches)
	}
	out := make([]Field, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, m.field)
	}
	return out, nil
}

/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PivotLLM/Atlas/global"
)

// Argument coercion utilities. MCP clients are sloppy about types: numbers
// arrive as strings, lists arrive as comma-separated strings or JSON text,
// objects arrive serialized. Every tool argument passes through one of these
// so handlers see canonical Go types.

// stringArg returns a string argument or the default when absent
func stringArg(request mcp.CallToolRequest, key, def string) string {
	return mcp.ParseString(request, key, def)
}

// boolArg returns a boolean argument or the default when absent
func boolArg(request mcp.CallToolRequest, key string, def bool) bool {
	return mcp.ParseBoolean(request, key, def)
}

// intArg accepts a JSON number or a numeric string. Anything else is an
// invalid argument error naming the field.
func intArg(request mcp.CallToolRequest, key string, def int) (int, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return def, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("argument '%s' must be a number, got %q", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("argument '%s' must be a number, got %T", key, raw)
	}
}

// clampLimit bounds a page size to the 1..MaxPageSize range
func clampLimit(limit int) int {
	if limit > global.MaxPageSize {
		return global.MaxPageSize
	}
	if limit < 1 {
		return 1
	}
	return limit
}

// stringListArg accepts a JSON array, a JSON array serialized as a string, a
// comma-separated string, or a single scalar. Absent or empty yields nil.
func stringListArg(request mcp.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		// a string holding a JSON array
		if strings.HasPrefix(trimmed, "[") {
			var items []string
			if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
				return items
			}
		}
		var out []string
		for _, part := range strings.Split(trimmed, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}

// jsonObjectArg accepts a JSON object or a JSON object serialized as a
// string. A parse failure is an invalid argument error naming the field.
// Absent or empty yields an empty map.
func jsonObjectArg(request mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "{}" {
			return map[string]any{}, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
			return nil, fmt.Errorf("argument '%s' must be a valid JSON object: %v", key, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("argument '%s' must be a JSON object, got %T", key, raw)
	}
}

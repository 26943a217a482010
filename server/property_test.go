/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/PivotLLM/Atlas/global"
)

func TestClampLimitProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("result is always within bounds", prop.ForAll(
		func(limit int) bool {
			got := clampLimit(limit)
			return got >= 1 && got <= global.MaxPageSize
		},
		gen.Int(),
	))

	properties.Property("values already in range pass through", prop.ForAll(
		func(limit int) bool {
			return clampLimit(limit) == limit
		},
		gen.IntRange(1, global.MaxPageSize),
	))

	properties.TestingRun(t)
}

func TestIntArgCoercionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// clients send the same logical value as a JSON number or a string; both
	// must decode identically
	properties.Property("number and numeric string decode to the same value", prop.ForAll(
		func(n int) bool {
			asNumber, err1 := intArg(callRequest("t", map[string]any{"v": float64(n)}), "v", 0)
			asString, err2 := intArg(callRequest("t", map[string]any{"v": strconv.Itoa(n)}), "v", 0)
			return err1 == nil && err2 == nil && asNumber == n && asString == n
		},
		gen.IntRange(-1000000, 1000000),
	))

	properties.Property("absent argument always yields the default", prop.ForAll(
		func(def int) bool {
			got, err := intArg(callRequest("t", map[string]any{}), "v", def)
			return err == nil && got == def
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestStringListArgProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genKeys := gen.SliceOfN(3, gen.RegexMatch("[A-Z]{2,6}"))

	properties.Property("comma string and array decode identically", prop.ForAll(
		func(keys []string) bool {
			asArray := make([]any, len(keys))
			for i, k := range keys {
				asArray[i] = k
			}
			fromArray := stringListArg(callRequest("t", map[string]any{"v": asArray}), "v")
			fromString := stringListArg(callRequest("t", map[string]any{"v": strings.Join(keys, ",")}), "v")

			if len(fromArray) != len(keys) || len(fromString) != len(keys) {
				return false
			}
			for i := range keys {
				if fromArray[i] != keys[i] || fromString[i] != keys[i] {
					return false
				}
			}
			return true
		},
		genKeys,
	))

	properties.TestingRun(t)
}

func TestCatalogProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	fullOrder := make(map[string]int)
	for i, def := range catalogDefs() {
		fullOrder[def.tool.Name] = i
	}

	buildServices := func(jiraOn, confluenceOn bool) Services {
		var services Services
		if jiraOn {
			services.Jira = &fakeJira{}
		}
		if confluenceOn {
			services.Confluence = &fakeConfluence{}
		}
		return services
	}

	// whatever the availability and mode, the advertised list preserves the
	// declared ordering
	properties.Property("catalog is an ordered subsequence of the full catalog", prop.ForAll(
		func(jiraOn, confluenceOn, readOnly bool) bool {
			tools := catalogTools(buildServices(jiraOn, confluenceOn), readOnly)
			last := -1
			for _, tool := range tools {
				pos, known := fullOrder[tool.Name]
				if !known || pos <= last {
					return false
				}
				last = pos
			}
			return true
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("disabled services contribute no tools", prop.ForAll(
		func(jiraOn, confluenceOn, readOnly bool) bool {
			tools := catalogTools(buildServices(jiraOn, confluenceOn), readOnly)
			for _, tool := range tools {
				if !jiraOn && strings.HasPrefix(tool.Name, "jira_") {
					return false
				}
				if !confluenceOn && strings.HasPrefix(tool.Name, "confluence_") {
					return false
				}
			}
			return true
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	writeNames := make(map[string]bool)
	for _, def := range catalogDefs() {
		if def.write {
			writeNames[def.tool.Name] = true
		}
	}

	properties.Property("read-only mode never advertises write tools", prop.ForAll(
		func(jiraOn, confluenceOn bool) bool {
			tools := catalogTools(buildServices(jiraOn, confluenceOn), true)
			for _, tool := range tools {
				if writeNames[tool.Name] {
					return false
				}
			}
			return true
		},
		gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}

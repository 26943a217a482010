/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// validateCatalogSchemas compiles every tool's input schema and fails if any
// of them is not a valid JSON Schema. This is a startup self-check: a broken
// descriptor should stop the server before a client ever sees it.
func validateCatalogSchemas() error {
	for _, def := range catalogDefs() {
		data, err := json.Marshal(def.tool.InputSchema)
		if err != nil {
			return fmt.Errorf("tool %s: failed to serialize input schema: %w", def.tool.Name, err)
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data)); err != nil {
			return fmt.Errorf("tool %s: invalid input schema: %w", def.tool.Name, err)
		}
	}
	return nil
}

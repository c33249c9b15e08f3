package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// indexSchema describes version 1 of index.json.
const indexSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "created_at", "total_files", "total_chunks", "chunks"],
  "properties": {
    "version":      {"type": "integer", "const": 1},
    "created_at":   {"type": "number", "minimum": 0},
    "total_files":  {"type": "integer", "minimum": 0},
    "total_chunks": {"type": "integer", "minimum": 0},
    "chunks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["file_path", "chunk_index", "text"],
        "properties": {
          "file_path":   {"type": "string"},
          "chunk_index": {"type": "integer", "minimum": 0},
          "text":        {"type": "string"}
        }
      }
    }
  }
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(indexSchema))
})

// validateDocument checks raw index bytes against the schema.
func validateDocument(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile index schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("index validation failed: %s", strings.Join(errs, ", "))
}

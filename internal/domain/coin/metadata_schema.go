package coin

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// metadataSchema is the structural contract of a pinned metadata document.
const metadataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "symbol", "description", "image", "properties"],
  "properties": {
    "name":        {"type": "string", "minLength": 1, "maxLength": 32},
    "symbol":      {"type": "string", "minLength": 1, "maxLength": 10},
    "description": {"type": "string", "minLength": 1},
    "image":       {"type": "string", "format": "uri"},
    "properties": {
      "type": "object",
      "required": ["files", "category"],
      "properties": {
        "category": {"type": "string", "minLength": 1},
        "files": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "required": ["uri", "type"],
            "properties": {
              "uri":  {"type": "string", "format": "uri"},
              "type": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`

var loadMetadataSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(metadataSchema))
})

// ValidateDocument checks doc against the metadata schema.
func ValidateDocument(doc MetadataDocument) error {
	schema, err := loadMetadataSchema()
	if err != nil {
		return fmt.Errorf("load metadata schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Validationf("metadata document: %v", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return Validationf("metadata document: %s", strings.Join(msgs, "; "))
}

package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// documentMetaSchema describes the accepted shape of schema documents.
const documentMetaSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "component": {
      "type": "object",
      "required": ["scheme", "syntax"],
      "properties": {
        "scheme": {"type": "string", "minLength": 1},
        "syntax": {"type": "string", "minLength": 1},
        "alternativeSyntax": {"type": "string"},
        "lenientProperties": {"$ref": "#/definitions/flag"},
        "consumerOnly": {"$ref": "#/definitions/flag"},
        "producerOnly": {"$ref": "#/definitions/flag"},
        "deprecated": {"$ref": "#/definitions/flag"}
      }
    },
    "dataformat": {"type": "object"},
    "language": {"type": "object"},
    "main": {"type": "object"},
    "componentProperties": {"$ref": "#/definitions/options"},
    "properties": {"$ref": "#/definitions/options"}
  },
  "definitions": {
    "flag": {
      "anyOf": [
        {"type": "boolean"},
        {"type": "string", "enum": ["true", "false"]}
      ]
    },
    "options": {
      "type": ["object", "array"],
      "additionalProperties": {"$ref": "#/definitions/option"},
      "items": {"$ref": "#/definitions/option"}
    },
    "option": {
      "type": "object",
      "properties": {
        "kind": {"enum": ["path", "parameter", "property", "attribute", "element", "expression"]},
        "type": {"type": "string"},
        "javaType": {"type": "string"},
        "required": {"$ref": "#/definitions/flag"},
        "multiValue": {"$ref": "#/definitions/flag"},
        "deprecated": {"$ref": "#/definitions/flag"},
        "secret": {"$ref": "#/definitions/flag"},
        "prefix": {"type": "string"},
        "optionalPrefix": {"type": "string"},
        "label": {"type": "string"},
        "enum": {
          "anyOf": [
            {"type": "array", "items": {"type": "string"}},
            {"type": "string"}
          ]
        }
      }
    }
  }
}`

var (
	metaSchemaOnce sync.Once
	metaSchema     *gojsonschema.Schema
	metaSchemaErr  error
)

func compiledMetaSchema() (*gojsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		metaSchema, metaSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentMetaSchema))
	})
	return metaSchema, metaSchemaErr
}

// ValidateSchemaDocument checks a JSON or YAML schema document against the
// meta schema. Component documents must carry a "component" section.
func ValidateSchemaDocument(ns Namespace, data []byte) error {
	schema, err := compiledMetaSchema()
	if err != nil {
		return fmt.Errorf("meta schema: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidSchema)
	}
	if _, ok := doc[ns.headerKey()]; !ok && ns == NamespaceComponent {
		return fmt.Errorf("%w: missing %q section", ErrInvalidSchema, ns.headerKey())
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(msgs, "; "))
	}
	return nil
}

package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rendis/t2d/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// userRecipeSchemaJSON is the JSON Schema for the UserRecipe document.
// Embedded as a constant to avoid filesystem dependencies. The schema is
// deliberately structural (types, required fields, closed objects); the
// finer pattern/length/exclusion rules live in the Go field pass so every
// failure carries a named rule.
const userRecipeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://t2d.dev/schemas/user-recipe.json",
  "type": "object",
  "required": ["name", "prd", "instructions"],
  "properties": {
    "name": { "type": "string" },
    "version": { "type": "string" },
    "prd": {
      "type": "object",
      "properties": {
        "content": { "type": "string" },
        "file_path": { "type": "string" }
      },
      "additionalProperties": false
    },
    "instructions": {
      "type": "object",
      "required": ["diagrams"],
      "properties": {
        "diagrams": {
          "type": "array",
          "items": { "$ref": "#/$defs/diagram_request" }
        },
        "documentation": {
          "type": "object",
          "properties": {
            "style": { "type": "string" },
            "audience": { "type": "string" },
            "sections": { "type": "array", "items": { "type": "string" } }
          },
          "additionalProperties": false
        },
        "presentation": {
          "type": "object",
          "properties": {
            "style": { "type": "string" },
            "audience": { "type": "string" },
            "max_slides": { "type": "integer", "minimum": 1 }
          },
          "additionalProperties": false
        },
        "focus_areas": { "type": "array", "items": { "type": "string" } },
        "exclusions": { "type": "array", "items": { "type": "string" } }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false,
  "$defs": {
    "diagram_request": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": { "type": "string" },
        "description": { "type": "string" },
        "framework_preference": { "type": "string" }
      },
      "additionalProperties": false
    }
  }
}`

// processedRecipeSchemaJSON is the JSON Schema for the ProcessedRecipe
// document.
const processedRecipeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://t2d.dev/schemas/processed-recipe.json",
  "type": "object",
  "required": ["name", "source_recipe", "generated_at", "content_files", "diagram_specs", "diagram_refs", "outputs"],
  "properties": {
    "name": { "type": "string" },
    "version": { "type": "string" },
    "source_recipe": { "type": "string" },
    "generated_at": { "type": "string", "format": "date-time" },
    "content_files": {
      "type": "array",
      "items": { "$ref": "#/$defs/content_file" }
    },
    "diagram_specs": {
      "type": "array",
      "items": { "$ref": "#/$defs/diagram_spec" }
    },
    "diagram_refs": {
      "type": "array",
      "items": { "$ref": "#/$defs/diagram_ref" }
    },
    "outputs": {
      "type": "object",
      "required": ["assets_dir"],
      "properties": {
        "assets_dir": { "type": "string" },
        "docs_site": {
          "type": "object",
          "properties": {
            "tool": { "type": "string" },
            "config_dir": { "type": "string" }
          },
          "additionalProperties": false
        },
        "slide_deck": {
          "type": "object",
          "properties": {
            "tool": { "type": "string" },
            "output_file": { "type": "string" }
          },
          "additionalProperties": false
        }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false,
  "$defs": {
    "content_file": {
      "type": "object",
      "required": ["id", "path", "type", "agent", "base_prompt"],
      "properties": {
        "id": { "type": "string" },
        "path": { "type": "string" },
        "type": { "type": "string", "enum": ["documentation", "presentation", "mixed"] },
        "agent": { "type": "string" },
        "base_prompt": { "type": "string" },
        "diagram_refs": { "type": "array", "items": { "type": "string" } },
        "title": { "type": "string" },
        "last_updated": { "type": "string", "format": "date-time" }
      },
      "additionalProperties": false
    },
    "diagram_spec": {
      "type": "object",
      "required": ["id", "type", "agent", "title", "instructions", "output_file", "output_formats"],
      "properties": {
        "id": { "type": "string" },
        "type": { "type": "string" },
        "framework": { "type": "string" },
        "agent": { "type": "string" },
        "title": { "type": "string" },
        "instructions": { "type": "string" },
        "output_file": { "type": "string" },
        "output_formats": { "type": "array", "items": { "type": "string" } },
        "options": {
          "type": "object",
          "properties": {
            "mermaid": {
              "type": "object",
              "properties": {
                "theme": { "type": "string" },
                "look": { "type": "string" },
                "background": { "type": "string" }
              },
              "additionalProperties": false
            },
            "plantuml": {
              "type": "object",
              "properties": {
                "skin": { "type": "string" },
                "scale": { "type": "integer" }
              },
              "additionalProperties": false
            },
            "d2": {
              "type": "object",
              "properties": {
                "layout": { "type": "string" },
                "sketch": { "type": "boolean" },
                "theme_id": { "type": "integer" }
              },
              "additionalProperties": false
            }
          },
          "additionalProperties": false
        }
      },
      "additionalProperties": false
    },
    "diagram_ref": {
      "type": "object",
      "required": ["id", "title", "type", "expected_path", "status"],
      "properties": {
        "id": { "type": "string" },
        "title": { "type": "string" },
        "type": { "type": "string" },
        "expected_path": { "type": "string" },
        "status": { "type": "string", "enum": ["pending", "complete", "failed"] }
      },
      "additionalProperties": false
    }
  }
}`

// JSONSchemaValidator performs structural validation of raw recipe
// documents using JSON Schema Draft 2020-12. Both schemas are compiled
// once at construction; the validator is safe for concurrent use.
type JSONSchemaValidator struct {
	userSchema      *jsonschema.Schema
	processedSchema *jsonschema.Schema
}

// NewJSONSchemaValidator compiles the embedded recipe schemas.
func NewJSONSchemaValidator() (*JSONSchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	user, err := compileSchema(c, "https://t2d.dev/schemas/user-recipe.json", userRecipeSchemaJSON)
	if err != nil {
		return nil, err
	}
	processed, err := compileSchema(c, "https://t2d.dev/schemas/processed-recipe.json", processedRecipeSchemaJSON)
	if err != nil {
		return nil, err
	}

	return &JSONSchemaValidator{
		userSchema:      user,
		processedSchema: processed,
	}, nil
}

func compileSchema(c *jsonschema.Compiler, url, raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", url, err)
	}
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return compiled, nil
}

// ValidateUserDocument checks a raw user-recipe document against the
// user-recipe schema. Unknown fields are rejected (closed schema).
func (v *JSONSchemaValidator) ValidateUserDocument(doc any) *schema.ValidationResult {
	return validateDocument(v.userSchema, doc)
}

// ValidateProcessedDocument checks a raw processed-recipe document
// against the processed-recipe schema.
func (v *JSONSchemaValidator) ValidateProcessedDocument(doc any) *schema.ValidationResult {
	return validateDocument(v.processedSchema, doc)
}

func validateDocument(compiled *jsonschema.Schema, doc any) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	normalized, err := toJSONValue(doc)
	if err != nil {
		result.AddError("/", schema.ErrCodeParse, "document is not JSON-serializable: "+err.Error())
		return result
	}

	if err := compiled.Validate(normalized); err != nil {
		for _, violation := range collectViolations(err) {
			result.AddError(violation.path, schema.ErrCodeValidation, violation.message)
		}
	}
	return result
}

// toJSONValue round-trips a value through JSON encoding so numbers become
// json.Number, as the jsonschema library requires. YAML-parsed documents
// (map[string]any with time.Time scalars) pass through cleanly.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

type violation struct {
	path    string
	message string
}

// collectViolations walks a ValidationError tree and collects leaf
// messages with their instance locations, so every structural problem is
// reported, not just the first.
func collectViolations(err error) []violation {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []violation{{path: "/", message: err.Error()}}
	}
	return collectLeafViolations(verr)
}

func collectLeafViolations(verr *jsonschema.ValidationError) []violation {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []violation{{path: loc, message: verr.Error()}}
	}

	var out []violation
	for _, cause := range verr.Causes {
		out = append(out, collectLeafViolations(cause)...)
	}
	return out
}

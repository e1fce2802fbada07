// Package recipe loads and persists recipe files. Every load runs the
// full validation pipeline — persisted files may have been hand-edited or
// partially written by a failed producer — and every save refuses invalid
// input, so durable storage never holds a partially valid recipe.
package recipe

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rendis/t2d/internal/validation"
	"github.com/rendis/t2d/pkg/schema"
)

// ParseUserRecipe parses and validates user-recipe bytes. YAML is the
// canonical on-disk form; JSON documents parse as a YAML subset.
func ParseUserRecipe(data []byte, v *validation.RecipeValidator) (*schema.UserRecipe, *schema.ValidationResult, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	rec, result := v.ValidateUserDocument(doc)
	return rec, result, nil
}

// ParseProcessedRecipe parses and validates processed-recipe bytes,
// including the cross-entity consistency stage.
func ParseProcessedRecipe(data []byte, v *validation.RecipeValidator) (*schema.ProcessedRecipe, *schema.ValidationResult, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	rec, result := v.ValidateProcessedDocument(doc)
	return rec, result, nil
}

// LoadUserRecipe reads, parses and validates a user recipe file. It
// returns the typed recipe only when validation produced zero errors.
func LoadUserRecipe(path string, v *validation.RecipeValidator) (*schema.UserRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeIO, "read user recipe %s", path).WithCause(err)
	}
	rec, result, err := ParseUserRecipe(data, v)
	if err != nil {
		return nil, err
	}
	if err := result.ToError(); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadProcessedRecipe reads, parses and validates a processed recipe
// file. Consistency is re-checked on every load, not only at creation.
func LoadProcessedRecipe(path string, v *validation.RecipeValidator) (*schema.ProcessedRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeIO, "read processed recipe %s", path).WithCause(err)
	}
	rec, result, err := ParseProcessedRecipe(data, v)
	if err != nil {
		return nil, err
	}
	if err := result.ToError(); err != nil {
		return nil, err
	}
	return rec, nil
}

// parseDocument unmarshals recipe bytes into a generic document for
// structural validation. A document that cannot be parsed at all is a
// fatal structural error with no partial result.
func parseDocument(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, schema.NewError(schema.ErrCodeParse, "recipe is not a well-formed document").WithCause(err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, schema.NewErrorf(schema.ErrCodeParse,
			"recipe must be a single top-level mapping, got %T", doc)
	}
	return doc, nil
}

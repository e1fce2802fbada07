// Package validation is the recipe validation engine: structural checks
// via JSON Schema, independent field rules, whole-object rules and
// cross-entity consistency, each stage collecting every failure before
// reporting.
package validation

import (
	"encoding/json"

	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

// RecipeValidator orchestrates the validation pipeline for both recipe
// forms:
//  1. Structural (JSON Schema, closed objects) — short-circuits.
//  2. Field rules (pattern/length/range, all collected).
//  3. Whole-object rules (mutual exclusion, non-empty collections),
//     run only when stage 2 is clean.
//  4. Cross-entity consistency (processed recipes only).
//
// Safe for concurrent use.
type RecipeValidator struct {
	jsonSchema *JSONSchemaValidator
	registry   *registry.Registry
}

// NewRecipeValidator compiles the embedded schemas and returns a
// validator bound to the given type registry.
func NewRecipeValidator(reg *registry.Registry) (*RecipeValidator, error) {
	jsv, err := NewJSONSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &RecipeValidator{jsonSchema: jsv, registry: reg}, nil
}

// Registry exposes the bound type registry.
func (v *RecipeValidator) Registry() *registry.Registry {
	return v.registry
}

// ValidateUserDocument validates a raw user-recipe document (as parsed
// from YAML or JSON) and, when structurally sound, decodes it and runs
// the field and whole-object stages. The typed recipe is returned only
// when the result has no errors.
func (v *RecipeValidator) ValidateUserDocument(doc any) (*schema.UserRecipe, *schema.ValidationResult) {
	result := v.jsonSchema.ValidateUserDocument(doc)
	if !result.Valid() {
		return nil, result
	}

	var rec schema.UserRecipe
	if err := decodeDocument(doc, &rec); err != nil {
		result.AddError("/", schema.ErrCodeParse, "cannot decode user recipe: "+err.Error())
		return nil, result
	}

	result.Merge(v.ValidateUserRecipe(&rec))
	if !result.Valid() {
		return nil, result
	}
	return &rec, result
}

// ValidateUserRecipe runs the field and whole-object stages on a typed
// user recipe. The recipe is normalized (trimmed, defaults applied) in
// place.
func (v *RecipeValidator) ValidateUserRecipe(rec *schema.UserRecipe) *schema.ValidationResult {
	if rec == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", RuleRequired, "user recipe is nil")
		return r
	}

	normalizeUserRecipe(rec)

	result := validateUserRecipeFields(rec, v.registry)
	if !result.Valid() {
		return result
	}
	result.Merge(validateUserRecipeObject(rec))
	return result
}

// ValidateProcessedDocument validates a raw processed-recipe document
// and, when structurally sound, decodes it and runs the remaining
// stages including cross-entity consistency.
func (v *RecipeValidator) ValidateProcessedDocument(doc any) (*schema.ProcessedRecipe, *schema.ValidationResult) {
	result := v.jsonSchema.ValidateProcessedDocument(doc)
	if !result.Valid() {
		return nil, result
	}

	var rec schema.ProcessedRecipe
	if err := decodeDocument(doc, &rec); err != nil {
		result.AddError("/", schema.ErrCodeParse, "cannot decode processed recipe: "+err.Error())
		return nil, result
	}

	result.Merge(v.ValidateProcessedRecipe(&rec))
	if !result.Valid() {
		return nil, result
	}
	return &rec, result
}

// ValidateProcessedRecipe runs field, whole-object and consistency
// stages on a typed processed recipe. Consistency runs only when the
// earlier stages are clean, so already-invalid fields do not cascade
// into spurious cross-entity errors.
func (v *RecipeValidator) ValidateProcessedRecipe(rec *schema.ProcessedRecipe) *schema.ValidationResult {
	if rec == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", RuleRequired, "processed recipe is nil")
		return r
	}

	normalizeProcessedRecipe(rec)

	result := validateProcessedRecipeFields(rec, v.registry)
	if !result.Valid() {
		return result
	}
	result.Merge(validateProcessedRecipeObject(rec))
	if !result.Valid() {
		return result
	}
	result.Merge(checkConsistency(rec, v.registry))
	return result
}

// CheckConsistency runs only the cross-entity stage. Callers that load a
// persisted recipe through ValidateProcessedDocument do not need this;
// it is the seam for tooling that already holds a typed value.
func (v *RecipeValidator) CheckConsistency(rec *schema.ProcessedRecipe) *schema.ValidationResult {
	if rec == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", RuleRequired, "processed recipe is nil")
		return r
	}
	return checkConsistency(rec, v.registry)
}

// decodeDocument converts a generic parsed document into a typed value
// via a JSON round-trip, which honors the struct tags shared by both the
// YAML and JSON forms.
func decodeDocument(doc any, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

// normalizeUserRecipe trims surrounding whitespace from string fields and
// applies defaults, so pattern/length checks see canonical values.
// PRD.Content is left untouched; it is payload, not a field.
func normalizeUserRecipe(rec *schema.UserRecipe) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Version = strings.TrimSpace(rec.Version)
	if rec.Version == "" {
		rec.Version = "1.0.0"
	}
	rec.PRD.FilePath = strings.TrimSpace(rec.PRD.FilePath)

	for i := range rec.Instructions.Diagrams {
		d := &rec.Instructions.Diagrams[i]
		d.Type = strings.TrimSpace(d.Type)
		d.Description = strings.TrimSpace(d.Description)
		d.FrameworkPreference = schema.Framework(strings.TrimSpace(string(d.FrameworkPreference)))
	}
	for i, v := range rec.Instructions.FocusAreas {
		rec.Instructions.FocusAreas[i] = strings.TrimSpace(v)
	}
	for i, v := range rec.Instructions.Exclusions {
		rec.Instructions.Exclusions[i] = strings.TrimSpace(v)
	}
}

// validateUserRecipeFields is pass 1: every field rule runs independently
// and all failures are collected.
func validateUserRecipeFields(rec *schema.UserRecipe, reg *registry.Registry) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	switch {
	case rec.Name == "":
		result.AddError("name", RuleRequired, "name is required")
	case len(rec.Name) > maxNameLen:
		result.AddError("name", RuleLength, fmt.Sprintf("name exceeds %d characters", maxNameLen))
	case !namePattern.MatchString(rec.Name):
		result.AddError("name", RulePattern,
			"name must start with a letter and contain only letters, digits, hyphens and underscores")
	}

	if !semverPattern.MatchString(rec.Version) {
		result.AddError("version", RulePattern,
			fmt.Sprintf("version %q is not a semantic version", rec.Version))
	}

	if len(rec.PRD.Content) > maxPRDContentSize {
		result.AddError("prd.content", RuleLength,
			fmt.Sprintf("embedded PRD content exceeds %d bytes", maxPRDContentSize))
	}
	if rec.PRD.FilePath != "" {
		validateRelativePath(rec.PRD.FilePath, "prd.file_path", result)
		if filepath.Ext(rec.PRD.FilePath) == "" {
			result.AddError("prd.file_path", RuleFileExtension,
				fmt.Sprintf("PRD file path %q has no file extension", rec.PRD.FilePath))
		}
	}

	for i, d := range rec.Instructions.Diagrams {
		path := fmt.Sprintf("instructions.diagrams[%d]", i)
		if d.Type == "" {
			result.AddError(path+".type", RuleRequired, "diagram request type is required")
		}
		if d.FrameworkPreference != "" && !reg.KnownFramework(d.FrameworkPreference) {
			result.AddError(path+".framework_preference", RuleUnknownFramework,
				fmt.Sprintf("unknown framework %q", d.FrameworkPreference))
		}
	}

	if rec.Instructions.Presentation != nil && rec.Instructions.Presentation.MaxSlides < 0 {
		result.AddError("instructions.presentation.max_slides", RuleRange,
			"max_slides must not be negative")
	}

	return result
}

// validateUserRecipeObject is pass 2: whole-object rules, run only when
// pass 1 produced no errors, to avoid cascading false positives.
func validateUserRecipeObject(rec *schema.UserRecipe) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	hasContent := rec.PRD.Content != ""
	hasPath := rec.PRD.FilePath != ""
	switch {
	case hasContent && hasPath:
		result.AddError("prd", RulePRDSourceExclusive,
			"prd must set exactly one of content or file_path, not both")
	case !hasContent && !hasPath:
		result.AddError("prd", RulePRDSourceExclusive,
			"prd must set exactly one of content or file_path")
	}

	if len(rec.Instructions.Diagrams) == 0 {
		result.AddError("instructions.diagrams", RuleNonEmptyCollection,
			"at least one diagram request is required")
	}

	seen := make(map[string]bool, len(rec.Instructions.Diagrams))
	for i, d := range rec.Instructions.Diagrams {
		key := d.Type + "\x00" + d.Description
		if seen[key] {
			result.AddError(fmt.Sprintf("instructions.diagrams[%d]", i), RuleDuplicateEntry,
				fmt.Sprintf("duplicate diagram request (type %q, description %q)", d.Type, d.Description))
			continue
		}
		seen[key] = true
	}

	return result
}

// validateRelativePath rejects paths with traversal segments.
func validateRelativePath(p, path string, result *schema.ValidationResult) {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg == ".." {
			result.AddError(path, RulePathTraversal,
				fmt.Sprintf("path %q contains a traversal segment", p))
			return
		}
	}
}

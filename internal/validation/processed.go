package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rendis/t2d/internal/identity"
	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

var markdownExts = map[string]bool{".md": true, ".markdown": true}

var validRefStatuses = map[schema.GenerationStatus]bool{
	schema.StatusPending:  true,
	schema.StatusComplete: true,
	schema.StatusFailed:   true,
}

var validContentTypes = map[schema.ContentFileType]bool{
	schema.ContentDocumentation: true,
	schema.ContentPresentation:  true,
	schema.ContentMixed:         true,
}

// normalizeProcessedRecipe trims surrounding whitespace from identifier
// and path fields before pattern/length checks.
func normalizeProcessedRecipe(rec *schema.ProcessedRecipe) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Version = strings.TrimSpace(rec.Version)
	rec.SourceRecipe = strings.TrimSpace(rec.SourceRecipe)

	for i := range rec.DiagramSpecs {
		s := &rec.DiagramSpecs[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Title = strings.TrimSpace(s.Title)
		s.Agent = strings.TrimSpace(s.Agent)
		s.OutputFile = strings.TrimSpace(s.OutputFile)
	}
	for i := range rec.DiagramRefs {
		ref := &rec.DiagramRefs[i]
		ref.ID = strings.TrimSpace(ref.ID)
		ref.Title = strings.TrimSpace(ref.Title)
		ref.ExpectedPath = strings.TrimSpace(ref.ExpectedPath)
	}
	for i := range rec.ContentFiles {
		cf := &rec.ContentFiles[i]
		cf.ID = strings.TrimSpace(cf.ID)
		cf.Path = strings.TrimSpace(cf.Path)
		cf.Agent = strings.TrimSpace(cf.Agent)
		cf.Title = strings.TrimSpace(cf.Title)
		for j, ref := range cf.DiagramRefs {
			cf.DiagramRefs[j] = strings.TrimSpace(ref)
		}
	}
}

// validateProcessedRecipeFields is pass 1 for the processed form: every
// field rule runs independently, all failures collected.
func validateProcessedRecipeFields(rec *schema.ProcessedRecipe, reg *registry.Registry) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	if rec.Name == "" {
		result.AddError("name", RuleRequired, "name is required")
	} else if len(rec.Name) > maxNameLen {
		result.AddError("name", RuleLength, fmt.Sprintf("name exceeds %d characters", maxNameLen))
	}
	if rec.SourceRecipe == "" {
		result.AddError("source_recipe", RuleRequired, "source_recipe is required")
	}
	if rec.GeneratedAt.IsZero() {
		result.AddError("generated_at", RuleRequired, "generated_at is required")
	}
	if rec.Outputs.AssetsDir == "" {
		result.AddError("outputs.assets_dir", RuleRequired, "assets directory is required")
	}

	for i := range rec.DiagramSpecs {
		validateDiagramSpec(&rec.DiagramSpecs[i], fmt.Sprintf("diagram_specs[%d]", i), reg, result)
	}
	for i := range rec.DiagramRefs {
		validateDiagramRef(&rec.DiagramRefs[i], fmt.Sprintf("diagram_refs[%d]", i), reg, result)
	}
	for i := range rec.ContentFiles {
		validateContentFile(&rec.ContentFiles[i], fmt.Sprintf("content_files[%d]", i), result)
	}

	return result
}

func validateDiagramSpec(s *schema.DiagramSpecification, path string, reg *registry.Registry, result *schema.ValidationResult) {
	switch {
	case s.ID == "":
		result.AddError(path+".id", RuleRequired, "diagram id is required")
	case len(s.ID) > maxIDLen:
		result.AddError(path+".id", RuleLength, fmt.Sprintf("diagram id exceeds %d characters", maxIDLen))
	case !idPattern.MatchString(s.ID):
		result.AddError(path+".id", RulePattern,
			fmt.Sprintf("diagram id %q must match [a-zA-Z0-9_-]+", s.ID))
	}

	if !reg.KnownType(s.Type) {
		result.AddError(path+".type", RuleUnknownType,
			fmt.Sprintf("unknown diagram type %q", s.Type))
	}
	if s.Framework != "" && !reg.KnownFramework(s.Framework) {
		result.AddError(path+".framework", RuleUnknownFramework,
			fmt.Sprintf("unknown framework %q", s.Framework))
	}

	if s.Agent == "" {
		result.AddError(path+".agent", RuleRequired, "agent is required")
	} else if !identity.ValidAgentID(s.Agent) {
		result.AddError(path+".agent", RulePattern,
			fmt.Sprintf("agent %q must match t2d-[a-z0-9-]+", s.Agent))
	}

	switch {
	case s.Title == "":
		result.AddError(path+".title", RuleRequired, "title is required")
	case len(s.Title) > maxTitleLen:
		result.AddError(path+".title", RuleLength, fmt.Sprintf("title exceeds %d characters", maxTitleLen))
	}

	switch n := len(s.Instructions); {
	case n < minPromptLen || n > maxPromptLen:
		result.AddError(path+".instructions", RuleLength,
			fmt.Sprintf("instructions must be %d-%d characters, got %d", minPromptLen, maxPromptLen, n))
	case len(strings.Fields(s.Instructions)) < minPromptWords:
		result.AddError(path+".instructions", RuleWordCount,
			fmt.Sprintf("instructions must contain at least %d words", minPromptWords))
	}

	if s.OutputFile == "" {
		result.AddError(path+".output_file", RuleRequired, "output_file is required")
	} else {
		validateRelativePath(s.OutputFile, path+".output_file", result)
	}

	if len(s.OutputFormats) == 0 {
		result.AddError(path+".output_formats", RuleNonEmptyCollection,
			"at least one output format is required")
	}
	for j, f := range s.OutputFormats {
		if !reg.KnownFormat(f) {
			result.AddError(fmt.Sprintf("%s.output_formats[%d]", path, j), RuleUnknownFormat,
				fmt.Sprintf("unknown output format %q", f))
		}
	}
}

func validateDiagramRef(ref *schema.DiagramReference, path string, reg *registry.Registry, result *schema.ValidationResult) {
	if ref.ID == "" {
		result.AddError(path+".id", RuleRequired, "diagram reference id is required")
	}
	if ref.Title == "" {
		result.AddError(path+".title", RuleRequired, "title is required")
	}
	if !reg.KnownType(ref.Type) {
		result.AddError(path+".type", RuleUnknownType,
			fmt.Sprintf("unknown diagram type %q", ref.Type))
	}
	if ref.ExpectedPath == "" {
		result.AddError(path+".expected_path", RuleRequired, "expected_path is required")
	}
	if !validRefStatuses[ref.Status] {
		result.AddError(path+".status", RuleUnknownStatus,
			fmt.Sprintf("status %q must be pending, complete or failed", ref.Status))
	}
}

func validateContentFile(cf *schema.ContentFile, path string, result *schema.ValidationResult) {
	switch {
	case cf.ID == "":
		result.AddError(path+".id", RuleRequired, "content file id is required")
	case !idPattern.MatchString(cf.ID):
		result.AddError(path+".id", RulePattern,
			fmt.Sprintf("content file id %q must match [a-zA-Z0-9_-]+", cf.ID))
	}

	if cf.Path == "" {
		result.AddError(path+".path", RuleRequired, "path is required")
	} else if !markdownExts[strings.ToLower(filepath.Ext(cf.Path))] {
		result.AddError(path+".path", RuleFileExtension,
			fmt.Sprintf("content file path %q must end in a markdown extension", cf.Path))
	}

	if !validContentTypes[cf.Type] {
		result.AddError(path+".type", RuleUnknownType,
			fmt.Sprintf("content type %q must be documentation, presentation or mixed", cf.Type))
	}

	if cf.Agent == "" {
		result.AddError(path+".agent", RuleRequired, "agent is required")
	} else if !identity.ValidContentAgent(cf.Agent) {
		result.AddError(path+".agent", RuleUnknownAgent,
			fmt.Sprintf("agent %q is not a known content-producing collaborator", cf.Agent))
	}

	if n := len(cf.BasePrompt); n < minPromptLen || n > maxPromptLen {
		result.AddError(path+".base_prompt", RuleLength,
			fmt.Sprintf("base_prompt must be %d-%d characters, got %d", minPromptLen, maxPromptLen, n))
	}
}

// validateProcessedRecipeObject is pass 2: whole-object rules, run only
// when pass 1 produced no errors.
func validateProcessedRecipeObject(rec *schema.ProcessedRecipe) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	if len(rec.ContentFiles) == 0 {
		result.AddError("content_files", RuleNonEmptyCollection,
			"at least one content file is required")
	}
	if len(rec.DiagramSpecs) == 0 {
		result.AddError("diagram_specs", RuleNonEmptyCollection,
			"at least one diagram specification is required")
	}
	if len(rec.DiagramRefs) == 0 {
		result.AddError("diagram_refs", RuleNonEmptyCollection,
			"at least one diagram reference is required")
	}

	seen := make(map[string]bool, len(rec.DiagramSpecs))
	for i, s := range rec.DiagramSpecs {
		if seen[s.ID] {
			result.AddError(fmt.Sprintf("diagram_specs[%d].id", i), RuleDuplicateEntry,
				fmt.Sprintf("duplicate diagram id %q", s.ID))
			continue
		}
		seen[s.ID] = true
	}

	return result
}

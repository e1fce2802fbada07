package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Happy path ---

func TestValidateProcessedRecipe_MinimalValid(t *testing.T) {
	v := newValidator(t)

	result := v.ValidateProcessedRecipe(validProcessedRecipe())
	assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
}

// --- Field rules ---

func TestValidateProcessedRecipe_MissingRequiredFields(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.Name = ""
	rec.SourceRecipe = ""
	rec.GeneratedAt = time.Time{}
	rec.Outputs.AssetsDir = ""

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	for _, path := range []string{"name", "source_recipe", "generated_at", "outputs.assets_dir"} {
		issue := findIssue(result, path)
		require.NotNil(t, issue, "expected error at %s", path)
		assert.Equal(t, RuleRequired, issue.Code)
	}
}

func TestValidateProcessedRecipe_BadDiagramID(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].ID = "has spaces!"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RulePattern, findIssue(result, "diagram_specs[0].id").Code)
}

func TestValidateProcessedRecipe_UnknownTypeAndFramework(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Type = "hologram"
	rec.DiagramSpecs[0].Framework = "graphviz"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleUnknownType, findIssue(result, "diagram_specs[0].type").Code)
	assert.Equal(t, RuleUnknownFramework, findIssue(result, "diagram_specs[0].framework").Code)
}

func TestValidateProcessedRecipe_BadAgentID(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Agent = "mermaid-generator"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_specs[0].agent")
	require.NotNil(t, issue)
	assert.Contains(t, issue.Message, "t2d-")
}

func TestValidateProcessedRecipe_InstructionsTooShort(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Instructions = "short"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleLength, findIssue(result, "diagram_specs[0].instructions").Code)
}

func TestValidateProcessedRecipe_InstructionsTooFewWords(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Instructions = "onewordonlyhere secondword"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleWordCount, findIssue(result, "diagram_specs[0].instructions").Code)
}

func TestValidateProcessedRecipe_ContentFileNotMarkdown(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.ContentFiles[0].Path = "docs/index.html"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleFileExtension, findIssue(result, "content_files[0].path").Code)
}

func TestValidateProcessedRecipe_UnknownContentAgent(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.ContentFiles[0].Agent = "t2d-unregistered-writer"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleUnknownAgent, findIssue(result, "content_files[0].agent").Code)
}

func TestValidateProcessedRecipe_BadRefStatus(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramRefs[0].Status = "in_progress"

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleUnknownStatus, findIssue(result, "diagram_refs[0].status").Code)
}

func TestValidateProcessedRecipe_NoOutputFormats(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].OutputFormats = nil

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleNonEmptyCollection, findIssue(result, "diagram_specs[0].output_formats").Code)
}

// --- Whole-object rules ---

func TestValidateProcessedRecipe_EmptyCollections(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.ContentFiles = nil
	rec.DiagramSpecs = nil
	rec.DiagramRefs = nil

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.Len(t, result.Errors, 3)
	for _, issue := range result.Errors {
		assert.Equal(t, RuleNonEmptyCollection, issue.Code)
	}
}

func TestValidateProcessedRecipe_DuplicateSpecIDs(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs = append(rec.DiagramSpecs, rec.DiagramSpecs[0])

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_specs[1].id")
	require.NotNil(t, issue)
	assert.Equal(t, RuleDuplicateEntry, issue.Code)
}

// --- Two-pass ordering ---

func TestValidateProcessedRecipe_FieldErrorsSuppressConsistency(t *testing.T) {
	v := newValidator(t)

	// A bad spec id (pass 1) would also break id-set equality; only the
	// field failure may surface.
	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].ID = ""

	result := v.ValidateProcessedRecipe(rec)
	require.False(t, result.Valid())
	assert.NotContains(t, issueCodes(result), RuleIDSetMismatch)
}

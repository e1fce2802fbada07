package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/t2d/pkg/schema"
)

// --- Identifier sets ---

func TestCheckConsistency_MissingReferenceNamed(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramRefs = nil

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_refs")
	require.NotNil(t, issue)
	assert.Equal(t, RuleIDSetMismatch, issue.Code)
	assert.Contains(t, issue.Message, "missing diagram references: [sequence-1]")
}

func TestCheckConsistency_ExtraReferenceNamed(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramRefs = append(rec.DiagramRefs, schema.DiagramReference{
		ID:           "orphan-ref",
		Title:        "Orphan",
		Type:         schema.TypeSequence,
		ExpectedPath: "assets/orphan-ref.svg",
		Status:       schema.StatusPending,
	})

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	assert.Contains(t, findIssue(result, "diagram_refs").Message,
		"extra diagram references: [orphan-ref]")
}

func TestCheckConsistency_AllMismatchesCollected(t *testing.T) {
	v := newValidator(t)

	// One spec without a ref, one ref without a spec: both reported.
	rec := validProcessedRecipe()
	rec.DiagramRefs[0].ID = "wrong-id"

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	assert.Len(t, result.Errors, 2)
}

func TestCheckConsistency_DanglingContentRef(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.ContentFiles[0].DiagramRefs = append(rec.ContentFiles[0].DiagramRefs, "does-not-exist")

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "content_files[0].diagram_refs[1]")
	require.NotNil(t, issue)
	assert.Equal(t, RuleDanglingDiagramRef, issue.Code)
	assert.Contains(t, issue.Message, "does-not-exist")
}

// --- Timestamps ---

func TestCheckConsistency_GeneratedAtInFuture(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.GeneratedAt = time.Now().Add(time.Hour)

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleTimestampInFuture, findIssue(result, "generated_at").Code)
}

// --- Framework compatibility ---

func TestCheckConsistency_FrameworkCannotRenderType(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Framework = schema.FrameworkD2
	rec.DiagramSpecs[0].OutputFile = "diagrams/sequence-1.d2"

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_specs[0].framework")
	require.NotNil(t, issue)
	assert.Equal(t, RuleUnsupportedCombination, issue.Code)
}

func TestCheckConsistency_OmittedFrameworkUsesDefault(t *testing.T) {
	v := newValidator(t)

	// Same type, no explicit framework: the default (mermaid) handles
	// sequence, so the spec is accepted.
	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Framework = ""

	result := v.CheckConsistency(rec)
	assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
}

func TestCheckConsistency_UnsupportedOutputFormat(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Framework = schema.FrameworkPlantUML
	rec.DiagramSpecs[0].Type = schema.TypeClass
	rec.DiagramSpecs[0].OutputFile = "diagrams/sequence-1.puml"
	rec.DiagramSpecs[0].OutputFormats = []schema.OutputFormat{schema.FormatPDF}

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	assert.Equal(t, RuleUnsupportedCombination,
		findIssue(result, "diagram_specs[0].output_formats[0]").Code)
}

func TestCheckConsistency_OutputFileExtension(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].OutputFile = "diagrams/sequence-1.puml"

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_specs[0].output_file")
	require.NotNil(t, issue)
	assert.Equal(t, RuleFileExtension, issue.Code)
	assert.Contains(t, issue.Message, ".mmd")
}

func TestCheckConsistency_OptionsVariantMismatch(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Options = &schema.FrameworkOptions{
		D2: &schema.D2Options{Layout: "elk"},
	}

	result := v.CheckConsistency(rec)
	require.False(t, result.Valid())
	issue := findIssue(result, "diagram_specs[0].options")
	require.NotNil(t, issue)
	assert.Equal(t, RuleOptionsMismatch, issue.Code)
}

func TestCheckConsistency_OptionsMismatchOrderStable(t *testing.T) {
	v := newValidator(t)

	// Two foreign variants on a mermaid diagram: both reported, in
	// declaration order, identically on every run.
	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Options = &schema.FrameworkOptions{
		PlantUML: &schema.PlantUMLOptions{Skin: "rose"},
		D2:       &schema.D2Options{Layout: "elk"},
	}

	first := v.CheckConsistency(rec)
	require.Len(t, first.Errors, 2)
	assert.Contains(t, first.Errors[0].Message, "plantuml options")
	assert.Contains(t, first.Errors[1].Message, "d2 options")

	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Errors, v.CheckConsistency(rec).Errors)
	}
}

func TestCheckConsistency_MatchingOptionsVariant(t *testing.T) {
	v := newValidator(t)

	rec := validProcessedRecipe()
	rec.DiagramSpecs[0].Options = &schema.FrameworkOptions{
		Mermaid: &schema.MermaidOptions{Theme: "dark"},
	}

	result := v.CheckConsistency(rec)
	assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
}

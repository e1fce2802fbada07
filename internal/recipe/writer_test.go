package recipe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/t2d/pkg/schema"
)

func sampleProcessedRecipe() *schema.ProcessedRecipe {
	return &schema.ProcessedRecipe{
		Name:         "shop-platform",
		Version:      "1.0.0",
		SourceRecipe: "recipe.yaml",
		GeneratedAt:  time.Now().Add(-time.Minute).UTC(),
		ContentFiles: []schema.ContentFile{
			{
				ID:          "documentation",
				Path:        "docs/index.md",
				Type:        schema.ContentDocumentation,
				Agent:       "t2d-docs-writer",
				BasePrompt:  "Write the architecture documentation for the shop platform.",
				DiagramRefs: []string{"sequence-1"},
			},
		},
		DiagramSpecs: []schema.DiagramSpecification{
			{
				ID:            "sequence-1",
				Type:          schema.TypeSequence,
				Framework:     schema.FrameworkMermaid,
				Agent:         "t2d-mermaid-generator",
				Title:         "Checkout flow",
				Instructions:  "Show the message flow between cart, payment and inventory services.",
				OutputFile:    "diagrams/sequence-1.mmd",
				OutputFormats: []schema.OutputFormat{schema.FormatSVG},
			},
		},
		DiagramRefs: []schema.DiagramReference{
			{
				ID:           "sequence-1",
				Title:        "Checkout flow",
				Type:         schema.TypeSequence,
				ExpectedPath: "assets/sequence-1.svg",
				Status:       schema.StatusPending,
			},
		},
		Outputs: schema.OutputConfig{AssetsDir: "assets"},
	}
}

func TestSaveProcessedRecipe_RoundTrip(t *testing.T) {
	v := newValidator(t)
	path := filepath.Join(t.TempDir(), "processed-recipe.yaml")

	require.NoError(t, SaveProcessedRecipe(path, sampleProcessedRecipe(), v))

	loaded, err := LoadProcessedRecipe(path, v)
	require.NoError(t, err)
	assert.Equal(t, "shop-platform", loaded.Name)
	require.Len(t, loaded.DiagramRefs, 1)
	assert.Equal(t, schema.StatusPending, loaded.DiagramRefs[0].Status)
}

func TestSaveProcessedRecipe_InvalidNeverPersisted(t *testing.T) {
	v := newValidator(t)
	path := filepath.Join(t.TempDir(), "processed-recipe.yaml")

	rec := sampleProcessedRecipe()
	rec.DiagramRefs = nil // breaks the id-set invariant

	require.Error(t, SaveProcessedRecipe(path, rec, v))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid recipe must not reach disk")
}

func TestSaveProcessedRecipe_NoTempFileLeftBehind(t *testing.T) {
	v := newValidator(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "processed-recipe.yaml")

	require.NoError(t, SaveProcessedRecipe(path, sampleProcessedRecipe(), v))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "processed-recipe.yaml", entries[0].Name())
}

func TestUpdateDiagramStatus(t *testing.T) {
	v := newValidator(t)
	path := filepath.Join(t.TempDir(), "processed-recipe.yaml")
	require.NoError(t, SaveProcessedRecipe(path, sampleProcessedRecipe(), v))

	require.NoError(t, UpdateDiagramStatus(path, "sequence-1", schema.StatusComplete, v))

	loaded, err := LoadProcessedRecipe(path, v)
	require.NoError(t, err)
	assert.Equal(t, schema.StatusComplete, loaded.DiagramRefs[0].Status)
}

func TestUpdateDiagramStatus_UnknownReference(t *testing.T) {
	v := newValidator(t)
	path := filepath.Join(t.TempDir(), "processed-recipe.yaml")
	require.NoError(t, SaveProcessedRecipe(path, sampleProcessedRecipe(), v))

	err := UpdateDiagramStatus(path, "no-such-diagram", schema.StatusComplete, v)
	require.Error(t, err)
	var terr *schema.T2DError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, schema.ErrCodeNotFound, terr.Code)
}

func TestUpdateDiagramStatus_RejectsUnknownStatusWrite(t *testing.T) {
	v := newValidator(t)
	path := filepath.Join(t.TempDir(), "processed-recipe.yaml")
	require.NoError(t, SaveProcessedRecipe(path, sampleProcessedRecipe(), v))

	err := UpdateDiagramStatus(path, "sequence-1", schema.StatusUnknown, v)
	require.Error(t, err)

	// The file is untouched.
	loaded, loadErr := LoadProcessedRecipe(path, v)
	require.NoError(t, loadErr)
	assert.Equal(t, schema.StatusPending, loaded.DiagramRefs[0].Status)
}

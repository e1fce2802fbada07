package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

// newValidator compiles the embedded schemas against the default
// registry. Shared by every test in the package.
func newValidator(t *testing.T) *RecipeValidator {
	t.Helper()
	v, err := NewRecipeValidator(registry.Default())
	require.NoError(t, err)
	return v
}

// validUserRecipe is the smallest user recipe that passes every stage.
func validUserRecipe() *schema.UserRecipe {
	return &schema.UserRecipe{
		Name:    "shop-platform",
		Version: "1.0.0",
		PRD:     schema.PRDSource{Content: "An online shop with a catalog, cart and checkout."},
		Instructions: schema.Instructions{
			Diagrams: []schema.DiagramRequest{
				{Type: "sequence", Description: "checkout flow between services"},
			},
		},
	}
}

// validProcessedRecipe is the smallest processed recipe that passes
// every stage including cross-entity consistency.
func validProcessedRecipe() *schema.ProcessedRecipe {
	return &schema.ProcessedRecipe{
		Name:         "shop-platform",
		Version:      "1.0.0",
		SourceRecipe: "recipe.yaml",
		GeneratedAt:  time.Now().Add(-time.Minute),
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

// issueCodes flattens a result's error codes for membership assertions.
func issueCodes(result *schema.ValidationResult) []string {
	codes := make([]string, 0, len(result.Errors))
	for _, issue := range result.Errors {
		codes = append(codes, issue.Code)
	}
	return codes
}

// findIssue returns the first error at the given path, or nil.
func findIssue(result *schema.ValidationResult, path string) *schema.ValidationIssue {
	for i := range result.Errors {
		if result.Errors[i].Path == path {
			return &result.Errors[i]
		}
	}
	return nil
}

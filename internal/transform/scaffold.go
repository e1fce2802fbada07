// Package transform builds the deterministic skeleton of a
// ProcessedRecipe from a validated UserRecipe: type inference, framework
// routing, agent assignment, output paths and progress references. The
// prose elaboration of instructions is the external analysis
// collaborator's job; everything here is pure bookkeeping and must be
// reproducible for identical input.
package transform

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rendis/t2d/internal/identity"
	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

const (
	defaultAssetsDir = "assets"
	diagramsDir      = "diagrams"
)

// Scaffold elaborates a validated user recipe into a processed recipe
// skeleton. Every diagram request becomes one DiagramSpecification plus
// one DiagramReference at StatusPending; a documentation content file is
// always emitted, and a presentation file when the recipe asks for one.
//
// A request whose free-text type cannot be inferred, or whose framework
// preference cannot render the inferred type, is a hard error; all such
// errors are collected before reporting.
func Scaffold(user *schema.UserRecipe, sourcePath string, reg *registry.Registry) (*schema.ProcessedRecipe, *schema.ValidationResult) {
	result := &schema.ValidationResult{}

	rec := &schema.ProcessedRecipe{
		Name:         user.Name,
		Version:      user.Version,
		SourceRecipe: sourcePath,
		GeneratedAt:  time.Now().UTC(),
		Outputs: schema.OutputConfig{
			AssetsDir: defaultAssetsDir,
		},
	}

	usedIDs := make(map[string]bool)
	for i, req := range user.Instructions.Diagrams {
		reqPath := fmt.Sprintf("instructions.diagrams[%d]", i)

		diagType := reg.InferType(req.Type + " " + req.Description)
		if diagType == schema.TypeUnknown {
			result.AddError(reqPath+".type", "uninferable_type",
				fmt.Sprintf("cannot infer a diagram type from %q", req.Type))
			continue
		}

		fw := req.FrameworkPreference
		if fw == "" {
			fw = reg.DefaultFramework(diagType)
		} else if !reg.CanHandle(fw, diagType) {
			result.AddError(reqPath+".framework_preference", "unsupported_combination",
				fmt.Sprintf("framework %q cannot render diagram type %q", fw, diagType))
			continue
		}

		id := uniqueID(slugify(req.Type), usedIDs)
		spec := schema.DiagramSpecification{
			ID:            id,
			Type:          diagType,
			Framework:     fw,
			Agent:         identity.DiagramAgent(fw),
			Title:         title(req),
			Instructions:  diagramInstructions(req, user),
			OutputFile:    path.Join(diagramsDir, id+reg.SourceExtension(fw)),
			OutputFormats: []schema.OutputFormat{schema.FormatSVG},
		}
		rec.DiagramSpecs = append(rec.DiagramSpecs, spec)
		rec.DiagramRefs = append(rec.DiagramRefs, schema.DiagramReference{
			ID:           id,
			Title:        spec.Title,
			Type:         diagType,
			ExpectedPath: path.Join(defaultAssetsDir, id+".svg"),
			Status:       schema.StatusPending,
		})
	}

	rec.ContentFiles = contentFiles(user, rec)

	if user.Instructions.Documentation != nil {
		rec.Outputs.DocsSite = &schema.DocsSiteConfig{Tool: "mkdocs", ConfigDir: "docs"}
	}
	if user.Instructions.Presentation != nil {
		rec.Outputs.SlideDeck = &schema.SlideDeckConfig{Tool: "marp", OutputFile: "slides/deck.html"}
	}

	return rec, result
}

// contentFiles derives the documentation/presentation units. All diagram
// ids are referenced from the documentation file so the consistency
// checker ties the collections together.
func contentFiles(user *schema.UserRecipe, rec *schema.ProcessedRecipe) []schema.ContentFile {
	diagramIDs := make([]string, 0, len(rec.DiagramSpecs))
	for _, s := range rec.DiagramSpecs {
		diagramIDs = append(diagramIDs, s.ID)
	}

	files := []schema.ContentFile{{
		ID:          "documentation",
		Path:        "docs/index.md",
		Type:        schema.ContentDocumentation,
		Agent:       identity.ContentAgent(schema.ContentDocumentation),
		BasePrompt:  contentPrompt("documentation", user),
		DiagramRefs: diagramIDs,
		Title:       user.Name + " documentation",
	}}

	if user.Instructions.Presentation != nil {
		files = append(files, schema.ContentFile{
			ID:          "presentation",
			Path:        "slides/deck.md",
			Type:        schema.ContentPresentation,
			Agent:       identity.ContentAgent(schema.ContentPresentation),
			BasePrompt:  contentPrompt("presentation slides", user),
			DiagramRefs: diagramIDs,
			Title:       user.Name + " slides",
		})
	}
	return files
}

func title(req schema.DiagramRequest) string {
	if req.Description != "" {
		return req.Description
	}
	return req.Type
}

func diagramInstructions(req schema.DiagramRequest, user *schema.UserRecipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s diagram for the %s project", req.Type, user.Name)
	if req.Description != "" {
		fmt.Fprintf(&b, " showing %s", req.Description)
	}
	b.WriteString(" based on the PRD.")
	if len(user.Instructions.FocusAreas) > 0 {
		fmt.Fprintf(&b, " Focus on: %s.", strings.Join(user.Instructions.FocusAreas, ", "))
	}
	if len(user.Instructions.Exclusions) > 0 {
		fmt.Fprintf(&b, " Exclude: %s.", strings.Join(user.Instructions.Exclusions, ", "))
	}
	return b.String()
}

func contentPrompt(kind string, user *schema.UserRecipe) string {
	return fmt.Sprintf("Write the %s for the %s project, embedding the generated diagrams where they support the narrative.", kind, user.Name)
}

// slugify turns free text into a diagram id matching [a-zA-Z0-9_-]+.
func slugify(text string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		s = "diagram"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

func uniqueID(base string, used map[string]bool) string {
	id := base
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	used[id] = true
	return id
}

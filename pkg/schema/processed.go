package schema

import "time"

// ProcessedRecipe is the system-elaborated, fully cross-referenced
// specification consumed by generation collaborators. It is created once
// per transformation run and re-created (never hand-edited) when the
// source UserRecipe changes; only DiagramReference.Status fields are
// mutated in place as generation proceeds.
type ProcessedRecipe struct {
	Name         string                 `yaml:"name" json:"name"`
	Version      string                 `yaml:"version,omitempty" json:"version,omitempty"`
	SourceRecipe string                 `yaml:"source_recipe" json:"source_recipe"`
	GeneratedAt  time.Time              `yaml:"generated_at" json:"generated_at"`
	ContentFiles []ContentFile          `yaml:"content_files" json:"content_files"`
	DiagramSpecs []DiagramSpecification `yaml:"diagram_specs" json:"diagram_specs"`
	DiagramRefs  []DiagramReference     `yaml:"diagram_refs" json:"diagram_refs"`
	Outputs      OutputConfig           `yaml:"outputs" json:"outputs"`
}

// DiagramSpecification is one diagram's complete executable definition.
type DiagramSpecification struct {
	ID            string            `yaml:"id" json:"id"`
	Type          DiagramType       `yaml:"type" json:"type"`
	Framework     Framework         `yaml:"framework,omitempty" json:"framework,omitempty"`
	Agent         string            `yaml:"agent" json:"agent"`
	Title         string            `yaml:"title" json:"title"`
	Instructions  string            `yaml:"instructions" json:"instructions"`
	OutputFile    string            `yaml:"output_file" json:"output_file"`
	OutputFormats []OutputFormat    `yaml:"output_formats" json:"output_formats"`
	Options       *FrameworkOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// FrameworkOptions is a tagged union of framework-specific rendering
// options. At most the variant matching DiagramSpecification.Framework
// may be populated; validation rejects a mismatched variant.
type FrameworkOptions struct {
	Mermaid  *MermaidOptions  `yaml:"mermaid,omitempty" json:"mermaid,omitempty"`
	PlantUML *PlantUMLOptions `yaml:"plantuml,omitempty" json:"plantuml,omitempty"`
	D2       *D2Options       `yaml:"d2,omitempty" json:"d2,omitempty"`
}

// MermaidOptions are rendering options for the mermaid CLI.
type MermaidOptions struct {
	Theme      string `yaml:"theme,omitempty" json:"theme,omitempty"`
	Look       string `yaml:"look,omitempty" json:"look,omitempty"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
}

// PlantUMLOptions are rendering options for the plantuml CLI.
type PlantUMLOptions struct {
	Skin  string `yaml:"skin,omitempty" json:"skin,omitempty"`
	Scale int    `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// D2Options are rendering options for the d2 CLI.
type D2Options struct {
	Layout  string `yaml:"layout,omitempty" json:"layout,omitempty"`
	Sketch  bool   `yaml:"sketch,omitempty" json:"sketch,omitempty"`
	ThemeID int    `yaml:"theme_id,omitempty" json:"theme_id,omitempty"`
}

// DiagramReference is the generation-progress shadow of a
// DiagramSpecification. It is created alongside its specification at
// StatusPending and never deleted while the owning recipe exists.
type DiagramReference struct {
	ID           string           `yaml:"id" json:"id"`
	Title        string           `yaml:"title" json:"title"`
	Type         DiagramType      `yaml:"type" json:"type"`
	ExpectedPath string           `yaml:"expected_path" json:"expected_path"`
	Status       GenerationStatus `yaml:"status" json:"status"`
}

// ContentFile is a documentation/presentation unit definition. The entity
// is a pointer/contract; the content itself is produced by an external
// collaborator.
type ContentFile struct {
	ID          string          `yaml:"id" json:"id"`
	Path        string          `yaml:"path" json:"path"`
	Type        ContentFileType `yaml:"type" json:"type"`
	Agent       string          `yaml:"agent" json:"agent"`
	BasePrompt  string          `yaml:"base_prompt" json:"base_prompt"`
	DiagramRefs []string        `yaml:"diagram_refs,omitempty" json:"diagram_refs,omitempty"`
	Title       string          `yaml:"title,omitempty" json:"title,omitempty"`
	LastUpdated *time.Time      `yaml:"last_updated,omitempty" json:"last_updated,omitempty"`
}

// OutputConfig names the asset directory and optional site/slide outputs.
type OutputConfig struct {
	AssetsDir string           `yaml:"assets_dir" json:"assets_dir"`
	DocsSite  *DocsSiteConfig  `yaml:"docs_site,omitempty" json:"docs_site,omitempty"`
	SlideDeck *SlideDeckConfig `yaml:"slide_deck,omitempty" json:"slide_deck,omitempty"`
}

// DocsSiteConfig configures the external documentation-site builder.
type DocsSiteConfig struct {
	Tool      string `yaml:"tool,omitempty" json:"tool,omitempty"`
	ConfigDir string `yaml:"config_dir,omitempty" json:"config_dir,omitempty"`
}

// SlideDeckConfig configures the external slide-deck builder.
type SlideDeckConfig struct {
	Tool       string `yaml:"tool,omitempty" json:"tool,omitempty"`
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

// SpecIDs returns the set of diagram specification ids.
func (r *ProcessedRecipe) SpecIDs() map[string]bool {
	ids := make(map[string]bool, len(r.DiagramSpecs))
	for _, s := range r.DiagramSpecs {
		ids[s.ID] = true
	}
	return ids
}

// RefIDs returns the set of diagram reference ids.
func (r *ProcessedRecipe) RefIDs() map[string]bool {
	ids := make(map[string]bool, len(r.DiagramRefs))
	for _, ref := range r.DiagramRefs {
		ids[ref.ID] = true
	}
	return ids
}

// FindRef returns the diagram reference with the given id, or nil.
func (r *ProcessedRecipe) FindRef(id string) *DiagramReference {
	for i := range r.DiagramRefs {
		if r.DiagramRefs[i].ID == id {
			return &r.DiagramRefs[i]
		}
	}
	return nil
}

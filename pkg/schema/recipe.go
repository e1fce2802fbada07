package schema

// UserRecipe is the author-maintained intent document. It is read-only to
// the transformation step and never mutated by the system.
type UserRecipe struct {
	Name         string       `yaml:"name" json:"name"`
	Version      string       `yaml:"version,omitempty" json:"version,omitempty"`
	PRD          PRDSource    `yaml:"prd" json:"prd"`
	Instructions Instructions `yaml:"instructions" json:"instructions"`
}

// PRDSource points at the product requirements input. Exactly one of
// Content or FilePath must be set, never both, never neither.
type PRDSource struct {
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
	FilePath string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
}

// Instructions carries the ordered diagram requests plus optional
// documentation/presentation preferences.
type Instructions struct {
	Diagrams      []DiagramRequest    `yaml:"diagrams" json:"diagrams"`
	Documentation *DocumentationPrefs `yaml:"documentation,omitempty" json:"documentation,omitempty"`
	Presentation  *PresentationPrefs  `yaml:"presentation,omitempty" json:"presentation,omitempty"`
	FocusAreas    []string            `yaml:"focus_areas,omitempty" json:"focus_areas,omitempty"`
	Exclusions    []string            `yaml:"exclusions,omitempty" json:"exclusions,omitempty"`
}

// DiagramRequest is a single free-text diagram wish. Type is natural
// language ("system architecture", "login sequence"), not the canonical
// DiagramType enum; inference maps it during transformation.
type DiagramRequest struct {
	Type                string    `yaml:"type" json:"type"`
	Description         string    `yaml:"description,omitempty" json:"description,omitempty"`
	FrameworkPreference Framework `yaml:"framework_preference,omitempty" json:"framework_preference,omitempty"`
}

// DocumentationPrefs configures the documentation output.
type DocumentationPrefs struct {
	Style    string   `yaml:"style,omitempty" json:"style,omitempty"`
	Audience string   `yaml:"audience,omitempty" json:"audience,omitempty"`
	Sections []string `yaml:"sections,omitempty" json:"sections,omitempty"`
}

// PresentationPrefs configures the slide-deck output.
type PresentationPrefs struct {
	Style     string `yaml:"style,omitempty" json:"style,omitempty"`
	Audience  string `yaml:"audience,omitempty" json:"audience,omitempty"`
	MaxSlides int    `yaml:"max_slides,omitempty" json:"max_slides,omitempty"`
}

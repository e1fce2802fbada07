package schema

import "time"

// EntityKind distinguishes the two kinds of tracked entities.
type EntityKind string

const (
	EntityDiagram EntityKind = "diagram"
	EntityContent EntityKind = "content"
)

// EntityRecord is the durable per-entity status document written by the
// producing agent. One logical record exists per diagram or content-file
// id; by convention each record has exactly one writer (the agent named
// in the corresponding specification).
type EntityRecord struct {
	EntityID    string           `json:"entity_id"`
	Kind        EntityKind       `json:"kind"`
	Agent       string           `json:"agent"`
	Status      GenerationStatus `json:"status"`
	OutputFiles []string         `json:"output_files,omitempty"`
	Error       string           `json:"error,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Version is a per-record stamp incremented on every write, used for
	// optimistic-concurrency checks by backends that support them.
	Version int64 `json:"version,omitempty"`
}

// ProcessingState is the per-run summary document. It is derivable from
// the entity records plus the recipe's own id sets; no in-memory copy is
// authoritative.
type ProcessingState struct {
	RunID             string     `json:"run_id"`
	RecipePath        string     `json:"recipe_path"`
	Phase             Phase      `json:"phase"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CompletedDiagrams []string   `json:"completed_diagrams,omitempty"`
	CreatedContent    []string   `json:"created_content,omitempty"`
	Errors            []string   `json:"errors,omitempty"`
}

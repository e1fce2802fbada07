package state

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rendis/t2d/pkg/schema"
)

// Coordinator derives run-level progress from entity records and the
// recipe's own id sets. It holds no authoritative in-memory state: every
// read reconstructs the answer from durable records, so a restart loses
// nothing.
type Coordinator struct {
	store  Store
	logger *slog.Logger
}

// NewCoordinator wraps a Store.
func NewCoordinator(store Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: store, logger: logger}
}

// Store exposes the underlying Store.
func (c *Coordinator) Store() Store { return c.store }

// StartRun persists the summary record for a new processing run.
func (c *Coordinator) StartRun(ctx context.Context, recipePath string) (*schema.ProcessingState, error) {
	st := &schema.ProcessingState{
		RunID:      uuid.New().String(),
		RecipePath: recipePath,
		Phase:      schema.PhaseTransforming,
		StartedAt:  time.Now().UTC(),
	}
	if err := c.store.SaveProcessingState(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RecordStatus writes one entity's status record.
func (c *Coordinator) RecordStatus(ctx context.Context, record *schema.EntityRecord) error {
	return c.store.RecordStatus(ctx, record)
}

// EntityStatuses reads the status of every entity the recipe names.
// Entities without a record report StatusPending; corrupt records report
// StatusUnknown. One bad record never affects the others.
func (c *Coordinator) EntityStatuses(ctx context.Context, rec *schema.ProcessedRecipe) (map[string]schema.GenerationStatus, error) {
	statuses := make(map[string]schema.GenerationStatus, len(rec.DiagramSpecs)+len(rec.ContentFiles))

	readOne := func(id string) error {
		record, err := c.store.GetStatus(ctx, id)
		if err != nil {
			var t2dErr *schema.T2DError
			if errors.As(err, &t2dErr) && t2dErr.Code == schema.ErrCodeNotFound {
				statuses[id] = schema.StatusPending
				return nil
			}
			return err
		}
		statuses[id] = record.Status
		return nil
	}

	for _, s := range rec.DiagramSpecs {
		if err := readOne(s.ID); err != nil {
			return nil, err
		}
	}
	for _, cf := range rec.ContentFiles {
		if err := readOne(cf.ID); err != nil {
			return nil, err
		}
	}
	return statuses, nil
}

// Aggregate reconstructs the run summary from the entity records and the
// recipe's id sets, and refreshes the persisted summary with the derived
// phase and completion lists.
func (c *Coordinator) Aggregate(ctx context.Context, rec *schema.ProcessedRecipe) (*schema.ProcessingState, error) {
	statuses, err := c.EntityStatuses(ctx, rec)
	if err != nil {
		return nil, err
	}

	st, err := c.store.GetProcessingState(ctx)
	if err != nil {
		var t2dErr *schema.T2DError
		if !errors.As(err, &t2dErr) || t2dErr.Code != schema.ErrCodeNotFound {
			return nil, err
		}
		st = &schema.ProcessingState{
			RunID:     uuid.New().String(),
			StartedAt: time.Now().UTC(),
		}
	}

	st.CompletedDiagrams = st.CompletedDiagrams[:0]
	st.CreatedContent = st.CreatedContent[:0]
	st.Errors = st.Errors[:0]
	for _, s := range rec.DiagramSpecs {
		if statuses[s.ID] == schema.StatusComplete {
			st.CompletedDiagrams = append(st.CompletedDiagrams, s.ID)
		}
	}
	for _, cf := range rec.ContentFiles {
		if statuses[cf.ID] == schema.StatusComplete {
			st.CreatedContent = append(st.CreatedContent, cf.Path)
		}
	}
	for _, id := range append(specIDs(rec), contentIDs(rec)...) {
		if statuses[id] == schema.StatusFailed {
			if record, err := c.store.GetStatus(ctx, id); err == nil && record.Error != "" {
				st.Errors = append(st.Errors, record.Error)
			}
		}
	}

	st.Phase = derivePhase(rec, statuses)
	if st.Phase == schema.PhaseComplete && st.CompletedAt == nil {
		now := time.Now().UTC()
		st.CompletedAt = &now
	}

	if err := c.store.SaveProcessingState(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// derivePhase computes the overall phase from per-entity statuses.
// Failed entities are terminal but never block siblings, so the run only
// reaches PhaseError once every entity is terminal and at least one
// failed. StatusUnknown counts as still in flight.
func derivePhase(rec *schema.ProcessedRecipe, statuses map[string]schema.GenerationStatus) schema.Phase {
	total := len(rec.DiagramSpecs) + len(rec.ContentFiles)
	terminal, failed, started := 0, 0, 0
	diagramsDone := true

	for _, id := range specIDs(rec) {
		switch statuses[id] {
		case schema.StatusComplete:
			terminal++
			started++
		case schema.StatusFailed:
			terminal++
			failed++
			started++
		case schema.StatusUnknown:
			started++
			diagramsDone = false
		default:
			diagramsDone = false
		}
	}
	for _, id := range contentIDs(rec) {
		switch statuses[id] {
		case schema.StatusComplete:
			terminal++
			started++
		case schema.StatusFailed:
			terminal++
			failed++
			started++
		case schema.StatusUnknown:
			started++
		}
	}

	switch {
	case terminal == total && failed > 0:
		return schema.PhaseError
	case terminal == total:
		return schema.PhaseComplete
	case diagramsDone:
		return schema.PhaseDocumenting
	case started > 0:
		return schema.PhaseGenerating
	default:
		return schema.PhaseTransforming
	}
}

func specIDs(rec *schema.ProcessedRecipe) []string {
	ids := make([]string, 0, len(rec.DiagramSpecs))
	for _, s := range rec.DiagramSpecs {
		ids = append(ids, s.ID)
	}
	return ids
}

func contentIDs(rec *schema.ProcessedRecipe) []string {
	ids := make([]string, 0, len(rec.ContentFiles))
	for _, cf := range rec.ContentFiles {
		ids = append(ids, cf.ID)
	}
	return ids
}

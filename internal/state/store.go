// Package state is the pipeline state coordinator: durable per-entity
// status records plus a per-run summary, written by independent external
// producers and read by anyone at any time.
//
// Ownership convention: each entity record has exactly one writer (the
// agent named in the corresponding specification). The coordinator does
// not arbitrate simultaneous writers to the same entity id; that is a
// caller error, not a condition this package resolves.
package state

import (
	"context"
	"regexp"

	"github.com/rendis/t2d/pkg/schema"
)

// Store defines the state persistence contract. All implementations must
// be safe for concurrent use and must degrade an unreadable or partially
// written entity record to StatusUnknown rather than failing, so one
// corrupt record never halts reporting for the others.
type Store interface {
	// RecordStatus durably writes one entity's status record.
	RecordStatus(ctx context.Context, record *schema.EntityRecord) error

	// GetStatus reads one entity's record. A missing record yields a
	// NOT_FOUND error; a corrupt record yields a StatusUnknown record
	// and no error.
	GetStatus(ctx context.Context, entityID string) (*schema.EntityRecord, error)

	// ListEntities returns every known entity id, sorted.
	ListEntities(ctx context.Context) ([]string, error)

	// SaveProcessingState durably writes the per-run summary record.
	SaveProcessingState(ctx context.Context, st *schema.ProcessingState) error

	// GetProcessingState reads the per-run summary record, or NOT_FOUND.
	GetProcessingState(ctx context.Context) (*schema.ProcessingState, error)

	Close() error
}

func notFound(kind, id string) error {
	return schema.NewErrorf(schema.ErrCodeNotFound, "%s %q not found", kind, id)
}

// entityIDPattern mirrors the recipe id contract. Ids arrive from
// external producers, so the store enforces it again: anything else
// could name a path outside the state area.
var entityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateEntityID rejects ids that do not match the recipe id contract.
func validateEntityID(id string) error {
	if id == "" {
		return schema.NewError(schema.ErrCodeState, "entity record requires an entity_id")
	}
	if !entityIDPattern.MatchString(id) {
		return schema.NewErrorf(schema.ErrCodeState,
			"entity id %q must match [a-zA-Z0-9_-]+", id).WithEntity(id)
	}
	return nil
}

// validateRecord gates every write: a well-formed id plus one of the
// writable statuses. StatusUnknown is a read-side degradation and is
// never accepted from a producer.
func validateRecord(record *schema.EntityRecord) error {
	if record == nil {
		return schema.NewError(schema.ErrCodeState, "entity record is nil")
	}
	if err := validateEntityID(record.EntityID); err != nil {
		return err
	}
	switch record.Status {
	case schema.StatusPending, schema.StatusComplete, schema.StatusFailed:
		return nil
	default:
		return schema.NewErrorf(schema.ErrCodeState,
			"status %q cannot be written to an entity record", record.Status).WithEntity(record.EntityID)
	}
}

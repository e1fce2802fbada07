package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/rendis/t2d/pkg/schema"
)

// LibSQLStore implements Store on libSQL (embedded SQLite fork). Unlike
// the file backend it enforces the per-record version stamp: a write that
// lost a race with another writer to the same entity id is rejected
// instead of silently overwriting.
type LibSQLStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLibSQLStore opens a libSQL database at the given path and applies
// pending migrations. The path should be a file URI, e.g. "file:state.db".
func NewLibSQLStore(ctx context.Context, dbPath string, logger *slog.Logger) (*LibSQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Some PRAGMAs return rows, so QueryRow covers both kinds.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &LibSQLStore{db: db, logger: logger}, nil
}

// RecordStatus writes one entity's record with an optimistic-concurrency
// check on the version stamp.
func (s *LibSQLStore) RecordStatus(ctx context.Context, record *schema.EntityRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	outputs, err := json.Marshal(record.OutputFiles)
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal output files").WithCause(err)
	}
	record.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM entity_records WHERE entity_id = ?`, record.EntityID,
	).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		record.Version = 1
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entity_records (entity_id, kind, agent, status, output_files, error_message, updated_at, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.EntityID, record.Kind, record.Agent, record.Status,
			string(outputs), record.Error, record.UpdatedAt, record.Version,
		)
		if err != nil {
			return fmt.Errorf("insert entity record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read entity version: %w", err)
	default:
		res, execErr := tx.ExecContext(ctx,
			`UPDATE entity_records
			 SET kind = ?, agent = ?, status = ?, output_files = ?, error_message = ?, updated_at = ?, version = ?
			 WHERE entity_id = ? AND version = ?`,
			record.Kind, record.Agent, record.Status, string(outputs),
			record.Error, record.UpdatedAt, current+1, record.EntityID, current,
		)
		if execErr != nil {
			return fmt.Errorf("update entity record: %w", execErr)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return schema.NewErrorf(schema.ErrCodeState,
				"concurrent write detected for entity %q", record.EntityID).WithEntity(record.EntityID)
		}
		record.Version = current + 1
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entity record: %w", err)
	}
	return nil
}

// GetStatus reads one entity's record. A row whose output_files column
// is unreadable degrades to StatusUnknown.
func (s *LibSQLStore) GetStatus(ctx context.Context, entityID string) (*schema.EntityRecord, error) {
	if err := validateEntityID(entityID); err != nil {
		return nil, err
	}
	record := &schema.EntityRecord{EntityID: entityID}
	var outputs, errMsg sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT kind, agent, status, output_files, error_message, updated_at, version
		 FROM entity_records WHERE entity_id = ?`, entityID,
	).Scan(&record.Kind, &record.Agent, &record.Status, &outputs, &errMsg, &record.UpdatedAt, &record.Version)
	if err == sql.ErrNoRows {
		return nil, notFound("entity record", entityID)
	}
	if err != nil {
		return nil, fmt.Errorf("read entity record: %w", err)
	}

	if errMsg.Valid {
		record.Error = errMsg.String
	}
	if outputs.Valid && outputs.String != "" && outputs.String != "null" {
		if err := json.Unmarshal([]byte(outputs.String), &record.OutputFiles); err != nil {
			s.logger.WarnContext(ctx, "unreadable entity record, degrading to unknown",
				slog.String("entity_id", entityID))
			return &schema.EntityRecord{EntityID: entityID, Status: schema.StatusUnknown}, nil
		}
	}
	return record, nil
}

// ListEntities returns every known entity id, sorted.
func (s *LibSQLStore) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_id FROM entity_records ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveProcessingState upserts the summary row for a run.
func (s *LibSQLStore) SaveProcessingState(ctx context.Context, st *schema.ProcessingState) error {
	if st == nil || st.RunID == "" {
		return schema.NewError(schema.ErrCodeState, "processing state requires a run_id")
	}

	diagrams, err := json.Marshal(st.CompletedDiagrams)
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal completed diagrams").WithCause(err)
	}
	content, err := json.Marshal(st.CreatedContent)
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal created content").WithCause(err)
	}
	errs, err := json.Marshal(st.Errors)
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal errors").WithCause(err)
	}

	var completedAt any
	if st.CompletedAt != nil {
		completedAt = *st.CompletedAt
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO processing_state (run_id, recipe_path, phase, started_at, completed_at, completed_diagrams, created_content, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
		   phase = excluded.phase,
		   completed_at = excluded.completed_at,
		   completed_diagrams = excluded.completed_diagrams,
		   created_content = excluded.created_content,
		   errors = excluded.errors`,
		st.RunID, st.RecipePath, st.Phase, st.StartedAt, completedAt,
		string(diagrams), string(content), string(errs),
	)
	if err != nil {
		return fmt.Errorf("save processing state: %w", err)
	}
	return nil
}

// GetProcessingState returns the most recent run summary.
func (s *LibSQLStore) GetProcessingState(ctx context.Context) (*schema.ProcessingState, error) {
	st := &schema.ProcessingState{}
	var completedAt sql.NullTime
	var diagrams, content, errs sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, recipe_path, phase, started_at, completed_at, completed_diagrams, created_content, errors
		 FROM processing_state ORDER BY started_at DESC LIMIT 1`,
	).Scan(&st.RunID, &st.RecipePath, &st.Phase, &st.StartedAt, &completedAt, &diagrams, &content, &errs)
	if err == sql.ErrNoRows {
		return nil, notFound("processing state", "latest")
	}
	if err != nil {
		return nil, fmt.Errorf("read processing state: %w", err)
	}

	if completedAt.Valid {
		ts := completedAt.Time
		st.CompletedAt = &ts
	}
	if diagrams.Valid && diagrams.String != "" {
		_ = json.Unmarshal([]byte(diagrams.String), &st.CompletedDiagrams)
	}
	if content.Valid && content.String != "" {
		_ = json.Unmarshal([]byte(content.String), &st.CreatedContent)
	}
	if errs.Valid && errs.String != "" {
		_ = json.Unmarshal([]byte(errs.String), &st.Errors)
	}
	return st, nil
}

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

var _ Store = (*LibSQLStore)(nil)

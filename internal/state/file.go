package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rendis/t2d/pkg/schema"
)

const (
	entitiesDirName = "entities"
	summaryFileName = "state.json"
)

// FileStore is the default Store backend: one JSON document per entity id
// under <dir>/entities plus one summary document at <dir>/state.json.
// Writes are atomic (temp file + rename); readers may observe a record
// mid-write only as the previous complete version.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the state directory layout if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, entitiesDirName), 0o755); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeIO, "create state directory %s", dir).WithCause(err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// RecordStatus writes one entity's record, bumping its version stamp.
func (s *FileStore) RecordStatus(ctx context.Context, record *schema.EntityRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if existing, err := s.GetStatus(ctx, record.EntityID); err == nil {
		record.Version = existing.Version + 1
	} else {
		record.Version = 1
	}
	record.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal entity record").WithCause(err).WithEntity(record.EntityID)
	}
	return s.writeAtomic(s.entityPath(record.EntityID), data)
}

// GetStatus reads one entity's record. Corrupt or half-written records
// degrade to StatusUnknown with a warning log, never an error.
func (s *FileStore) GetStatus(ctx context.Context, entityID string) (*schema.EntityRecord, error) {
	if err := validateEntityID(entityID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.entityPath(entityID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("entity record", entityID)
	}
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeIO, "read entity record %s", entityID).WithCause(err)
	}

	var record schema.EntityRecord
	if err := json.Unmarshal(data, &record); err != nil || record.EntityID == "" {
		s.logger.WarnContext(ctx, "unreadable entity record, degrading to unknown",
			slog.String("entity_id", entityID))
		return &schema.EntityRecord{
			EntityID: entityID,
			Status:   schema.StatusUnknown,
		}, nil
	}
	return &record, nil
}

// ListEntities returns every entity id with a record on disk, sorted.
func (s *FileStore) ListEntities(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, entitiesDirName))
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeIO, "read state directory").WithCause(err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveProcessingState writes the per-run summary document.
func (s *FileStore) SaveProcessingState(ctx context.Context, st *schema.ProcessingState) error {
	if st == nil || st.RunID == "" {
		return schema.NewError(schema.ErrCodeState, "processing state requires a run_id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return schema.NewError(schema.ErrCodeState, "marshal processing state").WithCause(err)
	}
	return s.writeAtomic(filepath.Join(s.dir, summaryFileName), data)
}

// GetProcessingState reads the per-run summary document.
func (s *FileStore) GetProcessingState(ctx context.Context) (*schema.ProcessingState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, summaryFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("processing state", s.dir)
	}
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeIO, "read processing state").WithCause(err)
	}

	var st schema.ProcessingState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, schema.NewError(schema.ErrCodeState, "processing state is unreadable").WithCause(err)
	}
	return &st, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) entityPath(entityID string) string {
	return filepath.Join(s.dir, entitiesDirName, entityID+".json")
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp-*", filepath.Base(path)))
	if err != nil {
		return schema.NewError(schema.ErrCodeIO, "create temp file").WithCause(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return schema.NewError(schema.ErrCodeIO, "write temp file").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return schema.NewError(schema.ErrCodeIO, "close temp file").WithCause(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return schema.NewErrorf(schema.ErrCodeIO, "rename into %s", path).WithCause(err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

package recipe

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rendis/t2d/internal/validation"
	"github.com/rendis/t2d/pkg/schema"
)

// SaveProcessedRecipe validates and persists a processed recipe. Writes
// are atomic (write to a temp file in the target directory, then rename)
// so concurrent readers never observe a partially written recipe. An
// invalid recipe is rejected outright and nothing is written.
func SaveProcessedRecipe(path string, rec *schema.ProcessedRecipe, v *validation.RecipeValidator) error {
	if err := v.ValidateProcessedRecipe(rec).ToError(); err != nil {
		return err
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return schema.NewError(schema.ErrCodeIO, "marshal processed recipe").WithCause(err)
	}
	return writeAtomic(path, data)
}

// UpdateDiagramStatus mutates one DiagramReference's status in place and
// re-persists the recipe. Only the pending/complete/failed states are
// accepted; StatusUnknown is a read-side degradation, never written.
func UpdateDiagramStatus(path, id string, status schema.GenerationStatus, v *validation.RecipeValidator) error {
	switch status {
	case schema.StatusPending, schema.StatusComplete, schema.StatusFailed:
	default:
		return schema.NewErrorf(schema.ErrCodeValidation,
			"status %q cannot be written to a diagram reference", status)
	}

	rec, err := LoadProcessedRecipe(path, v)
	if err != nil {
		return err
	}
	ref := rec.FindRef(id)
	if ref == nil {
		return schema.NewErrorf(schema.ErrCodeNotFound, "diagram reference %q not found", id).WithEntity(id)
	}
	ref.Status = status
	return SaveProcessedRecipe(path, rec, v)
}

// writeAtomic writes data to path via a temp file and rename. The temp
// file lives in the same directory so the rename stays on one filesystem.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return schema.NewErrorf(schema.ErrCodeIO, "create directory %s", dir).WithCause(err)
	}

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

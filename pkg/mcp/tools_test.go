package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/t2d/internal/logging"
	"github.com/rendis/t2d/internal/query"
	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/internal/state"
	"github.com/rendis/t2d/internal/validation"
	"github.com/rendis/t2d/pkg/schema"
)

// --- Helpers ---

func buildRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	}
}

// newTestServer wires a server over a throwaway file store. The returned
// buffer captures structured logs for correlation assertions.
func newTestServer(t *testing.T) (*T2DServer, string, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(logging.NewCorrelationHandler(slog.NewJSONHandler(&buf, nil)))

	stateDir := t.TempDir()
	store, err := state.NewFileStore(stateDir, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	v, err := validation.NewRecipeValidator(registry.Default())
	require.NoError(t, err)

	s := NewT2DServer(T2DServerDeps{
		Validator:   v,
		Coordinator: state.NewCoordinator(store, logger),
		Query:       query.NewEngine(),
		Logger:      logger,
	})
	return s, stateDir, &buf
}

// --- record_status ---

func TestRecordStatusTool(t *testing.T) {
	s, _, buf := newTestServer(t)

	req := buildRequest("t2d.record_status", map[string]any{
		"entity_id":    "sequence-1",
		"kind":         "diagram",
		"agent":        "t2d-mermaid-generator",
		"status":       "complete",
		"output_files": []any{"assets/sequence-1.svg"},
	})

	result, err := s.handleRecordStatus(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	record, err := s.coordinator.Store().GetStatus(context.Background(), "sequence-1")
	require.NoError(t, err)
	assert.Equal(t, schema.StatusComplete, record.Status)
	assert.Equal(t, []string{"assets/sequence-1.svg"}, record.OutputFiles)

	// Correlation ids flow from the handler context into the log record.
	logged := buf.String()
	assert.Contains(t, logged, `"entity_id":"sequence-1"`)
	assert.Contains(t, logged, `"agent_id":"t2d-mermaid-generator"`)
}

func TestRecordStatusTool_RejectsUnknownStatus(t *testing.T) {
	s, _, _ := newTestServer(t)

	// The enum in the tool schema is advisory; the write path must
	// enforce it for clients that ignore the schema.
	for _, status := range []string{"unknown", "in_progress"} {
		req := buildRequest("t2d.record_status", map[string]any{
			"entity_id": "sequence-1",
			"kind":      "diagram",
			"agent":     "t2d-mermaid-generator",
			"status":    status,
		})

		result, err := s.handleRecordStatus(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.IsError, "status %q must be rejected", status)
	}

	_, err := s.coordinator.Store().GetStatus(context.Background(), "sequence-1")
	require.Error(t, err, "rejected writes must not create a record")
}

func TestRecordStatusTool_RejectsTraversalEntityID(t *testing.T) {
	s, stateDir, _ := newTestServer(t)

	req := buildRequest("t2d.record_status", map[string]any{
		"entity_id": "../../../escaped",
		"kind":      "diagram",
		"agent":     "t2d-mermaid-generator",
		"status":    "complete",
	})

	result, err := s.handleRecordStatus(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	entries, err := os.ReadDir(filepath.Join(stateDir, "entities"))
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written for a malformed id")
}

func TestRecordStatusTool_MissingArguments(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, err := s.handleRecordStatus(context.Background(),
		buildRequest("t2d.record_status", map[string]any{"entity_id": "sequence-1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// --- infer_type ---

func TestInferTypeTool(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, err := s.handleInferType(context.Background(),
		buildRequest("t2d.infer_type", map[string]any{"description": "high level system architecture"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, `"type":"architecture"`)
	assert.Contains(t, text, `"default_framework":"d2"`)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

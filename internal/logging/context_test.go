package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Recipe(ctx))
	assert.Empty(t, Entity(ctx))
	assert.Empty(t, Agent(ctx))

	ctx = WithRecipe(ctx, "shop-platform")
	ctx = WithEntity(ctx, "sequence-1")
	ctx = WithAgent(ctx, "t2d-mermaid-generator")

	assert.Equal(t, "shop-platform", Recipe(ctx))
	assert.Equal(t, "sequence-1", Entity(ctx))
	assert.Equal(t, "t2d-mermaid-generator", Agent(ctx))
}

func TestCorrelationHandler_InjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithEntity(WithRecipe(context.Background(), "shop-platform"), "erd-1")
	logger.InfoContext(ctx, "status recorded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shop-platform", entry["recipe"])
	assert.Equal(t, "erd-1", entry["entity_id"])
	assert.NotContains(t, entry, "agent_id")
}

func TestCorrelationHandler_BareContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "no correlation")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "recipe")
	assert.NotContains(t, entry, "entity_id")
}

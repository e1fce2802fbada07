package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rendis/t2d/internal/logging"
	"github.com/rendis/t2d/internal/recipe"
	"github.com/rendis/t2d/pkg/schema"
)

// handleValidateRecipe validates a user recipe file.
func (s *T2DServer) handleValidateRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("recipe_path")
	if err != nil {
		return mcp.NewToolResultError("recipe_path is required"), nil
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read recipe: %v", readErr)), nil
	}

	_, result, parseErr := recipe.ParseUserRecipe(data, s.validator)
	if parseErr != nil {
		return mcp.NewToolResultError(parseErr.Error()), nil
	}
	return marshalResult(validationReport(result))
}

// handleValidateProcessed validates a processed recipe file end to end.
func (s *T2DServer) handleValidateProcessed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("recipe_path")
	if err != nil {
		return mcp.NewToolResultError("recipe_path is required"), nil
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read recipe: %v", readErr)), nil
	}

	_, result, parseErr := recipe.ParseProcessedRecipe(data, s.validator)
	if parseErr != nil {
		return mcp.NewToolResultError(parseErr.Error()), nil
	}
	return marshalResult(validationReport(result))
}

// handleCheckConsistency runs only the cross-entity stage.
func (s *T2DServer) handleCheckConsistency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("recipe_path")
	if err != nil {
		return mcp.NewToolResultError("recipe_path is required"), nil
	}

	rec, loadErr := recipe.LoadProcessedRecipe(path, s.validator)
	if loadErr != nil {
		// A recipe that fails field validation cannot be consistency
		// checked in isolation; surface the load failure as-is.
		return mcp.NewToolResultError(loadErr.Error()), nil
	}
	return marshalResult(validationReport(s.validator.CheckConsistency(rec)))
}

// handleInferType maps free text to a canonical type and framework.
func (s *T2DServer) handleInferType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("description is required"), nil
	}

	reg := s.validator.Registry()
	diagType := reg.InferType(description)
	out := map[string]any{"type": diagType}
	if diagType != schema.TypeUnknown {
		out["default_framework"] = reg.DefaultFramework(diagType)
	}
	return marshalResult(out)
}

// handleRecordStatus records one entity's generation status and, for
// diagram entities with a recipe_path, mirrors it into the recipe's
// DiagramReference.
func (s *T2DServer) handleRecordStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID, err := req.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError("entity_id is required"), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind is required"), nil
	}
	agent, err := req.RequireString("agent")
	if err != nil {
		return mcp.NewToolResultError("agent is required"), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status is required"), nil
	}

	ctx = logging.WithAgent(logging.WithEntity(ctx, entityID), agent)

	record := &schema.EntityRecord{
		EntityID:    entityID,
		Kind:        schema.EntityKind(kind),
		Agent:       agent,
		Status:      schema.GenerationStatus(status),
		OutputFiles: req.GetStringSlice("output_files", nil),
		Error:       req.GetString("error", ""),
	}
	if recErr := s.coordinator.RecordStatus(ctx, record); recErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record status failed: %v", recErr)), nil
	}
	s.logger.InfoContext(ctx, "entity status recorded", slog.String("status", status))

	if recipePath := req.GetString("recipe_path", ""); recipePath != "" && record.Kind == schema.EntityDiagram {
		if updErr := recipe.UpdateDiagramStatus(recipePath, entityID, record.Status, s.validator); updErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("status recorded but recipe update failed: %v", updErr)), nil
		}
	}
	return marshalResult(record)
}

// handleStatus reads the aggregate processing state for a recipe.
func (s *T2DServer) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("recipe_path")
	if err != nil {
		return mcp.NewToolResultError("recipe_path is required"), nil
	}

	rec, loadErr := recipe.LoadProcessedRecipe(path, s.validator)
	if loadErr != nil {
		return mcp.NewToolResultError(loadErr.Error()), nil
	}
	ctx = logging.WithRecipe(ctx, rec.Name)

	statuses, stErr := s.coordinator.EntityStatuses(ctx, rec)
	if stErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read statuses failed: %v", stErr)), nil
	}
	summary, aggErr := s.coordinator.Aggregate(ctx, rec)
	if aggErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregate state failed: %v", aggErr)), nil
	}

	return marshalResult(map[string]any{
		"summary":  summary,
		"entities": statuses,
	})
}

// handleQuery evaluates a jq expression against a processed recipe.
func (s *T2DServer) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("recipe_path")
	if err != nil {
		return mcp.NewToolResultError("recipe_path is required"), nil
	}
	expression, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError("expression is required"), nil
	}

	rec, loadErr := recipe.LoadProcessedRecipe(path, s.validator)
	if loadErr != nil {
		return mcp.NewToolResultError(loadErr.Error()), nil
	}
	ctx = logging.WithRecipe(ctx, rec.Name)

	out, qErr := s.query.EvaluateRecipe(ctx, expression, rec)
	if qErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", qErr)), nil
	}
	return marshalResult(map[string]any{"result": out})
}

// validationReport shapes a ValidationResult for agent consumption.
func validationReport(result *schema.ValidationResult) map[string]any {
	return map[string]any{
		"valid":    result.Valid(),
		"errors":   result.Errors,
		"warnings": result.Warnings,
	}
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}

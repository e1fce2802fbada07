// Package mcp binds the recipe engine's validation-as-a-service seam to
// the Model Context Protocol, so external agent collaborators can
// validate recipes, report generation progress and read pipeline state
// over a stdio transport.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rendis/t2d/internal/query"
	"github.com/rendis/t2d/internal/state"
	"github.com/rendis/t2d/internal/validation"
)

// T2DServerDeps holds the dependencies for creating a T2DServer.
type T2DServerDeps struct {
	Validator   *validation.RecipeValidator
	Coordinator *state.Coordinator
	Query       *query.Engine
	Logger      *slog.Logger
}

// T2DServer wraps an MCP server with t2d-specific tool handlers.
type T2DServer struct {
	validator   *validation.RecipeValidator
	coordinator *state.Coordinator
	query       *query.Engine
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

// NewT2DServer creates a T2DServer with all tools registered.
func NewT2DServer(deps T2DServerDeps) *T2DServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &T2DServer{
		validator:   deps.Validator,
		coordinator: deps.Coordinator,
		query:       deps.Query,
		logger:      logger,
	}

	mcpSrv := server.NewMCPServer(
		"t2d",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("t2d validates diagram/documentation recipes and tracks generation progress. Each entity record has exactly one writer: the agent named in the matching diagram specification or content file. Use t2d.validate_recipe and t2d.validate_processed before acting on a recipe, t2d.record_status to report your own entity only, and t2d.status to read overall progress."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or
// stdin closes.
func (s *T2DServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom
// transports.
func (s *T2DServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *T2DServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: validateRecipeTool(), Handler: s.handleValidateRecipe},
		{Tool: validateProcessedTool(), Handler: s.handleValidateProcessed},
		{Tool: checkConsistencyTool(), Handler: s.handleCheckConsistency},
		{Tool: inferTypeTool(), Handler: s.handleInferType},
		{Tool: recordStatusTool(), Handler: s.handleRecordStatus},
		{Tool: statusTool(), Handler: s.handleStatus},
		{Tool: queryTool(), Handler: s.handleQuery},
	}
}

// --- Tool definitions ---

func validateRecipeTool() mcp.Tool {
	return mcp.NewTool("t2d.validate_recipe",
		mcp.WithDescription("Validate a user recipe file and return every field-level issue"),
		mcp.WithString("recipe_path", mcp.Required(), mcp.Description("Path to the user recipe file")),
	)
}

func validateProcessedTool() mcp.Tool {
	return mcp.NewTool("t2d.validate_processed",
		mcp.WithDescription("Validate a processed recipe file, including cross-entity consistency"),
		mcp.WithString("recipe_path", mcp.Required(), mcp.Description("Path to the processed recipe file")),
	)
}

func checkConsistencyTool() mcp.Tool {
	return mcp.NewTool("t2d.check_consistency",
		mcp.WithDescription("Run only the cross-entity consistency checks on a processed recipe file"),
		mcp.WithString("recipe_path", mcp.Required(), mcp.Description("Path to the processed recipe file")),
	)
}

func inferTypeTool() mcp.Tool {
	return mcp.NewTool("t2d.infer_type",
		mcp.WithDescription("Map a free-text diagram description to a canonical diagram type and its default framework"),
		mcp.WithString("description", mcp.Required(), mcp.Description("Free-text diagram description")),
	)
}

func recordStatusTool() mcp.Tool {
	return mcp.NewTool("t2d.record_status",
		mcp.WithDescription("Record generation status for one diagram or content-file entity"),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("Diagram or content file id")),
		mcp.WithString("kind", mcp.Required(),
			mcp.Enum("diagram", "content"),
			mcp.Description("Kind of entity"),
		),
		mcp.WithString("agent", mcp.Required(), mcp.Description("Id of the reporting agent (the record's single writer)")),
		mcp.WithString("status", mcp.Required(),
			mcp.Enum("pending", "complete", "failed"),
			mcp.Description("New entity status"),
		),
		mcp.WithArray("output_files", mcp.Description("Files produced for this entity")),
		mcp.WithString("error", mcp.Description("Error message when status is failed")),
		mcp.WithString("recipe_path", mcp.Description("Processed recipe to update in place (diagram entities only)")),
	)
}

func statusTool() mcp.Tool {
	return mcp.NewTool("t2d.status",
		mcp.WithDescription("Read per-entity statuses and the derived processing phase for a recipe"),
		mcp.WithString("recipe_path", mcp.Required(), mcp.Description("Path to the processed recipe file")),
	)
}

func queryTool() mcp.Tool {
	return mcp.NewTool("t2d.query",
		mcp.WithDescription("Evaluate a jq expression against a processed recipe document"),
		mcp.WithString("recipe_path", mcp.Required(), mcp.Description("Path to the processed recipe file")),
		mcp.WithString("expression", mcp.Required(), mcp.Description("jq expression, e.g. [.diagram_specs[].id]")),
	)
}

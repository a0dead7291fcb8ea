package mcptools

import (
	"context"
	"encoding/json"

	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/view"
)

// TargetArgs represents arguments for the Target tool.
type TargetArgs struct {
	File           string `json:"file"`
	Target         string `json:"target"`
	Context        int    `json:"context,omitempty"`
	IncludeContext *bool  `json:"include_context,omitempty"`
}

// NewTargetTool creates the Target tool definition.
func NewTargetTool() mcp.Tool {
	return mcp.Tool{
		Name:        "Target",
		Description: `Extracts a named declaration from a source file with surrounding context. Qualifiers: "class:Name", "class:Name.member", "method:name", "function:name", "imports", "exports", or a bare name (searched as a function). Failed lookups include a hint listing what the file does contain.`,
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file":    {"type": "string", "description": "Path to the source file"},
				"target":  {"type": "string", "description": "Qualifier naming the declaration to extract"},
				"context": {"type": "integer", "description": "Context lines before and after (default 5)"},
				"include_context": {"type": "boolean", "description": "Set false to return the bare declaration with no surrounding lines"}
			},
			"required": ["file", "target"]
		}`),
	}
}

// TargetHandler handles Target tool calls.
type TargetHandler struct {
	defaultContext int
}

// NewTargetHandler creates a handler for the Target tool.
func NewTargetHandler(contextLines int) *TargetHandler {
	if contextLines <= 0 {
		contextLines = view.DefaultContextLines
	}
	return &TargetHandler{defaultContext: contextLines}
}

// Handle implements the mcp.ToolHandler interface.
func (h *TargetHandler) Handle(_ context.Context, arguments json.RawMessage) (*mcp.ToolResult, error) {
	var args TargetArgs
	if err := json.Unmarshal(arguments, &args); err != nil {
		return toolError("Invalid arguments: %v", err), nil
	}
	if args.File == "" {
		return toolError("File path cannot be empty"), nil
	}

	absPath, err := validatePath(args.File)
	if err != nil {
		return toolError("%v", err), nil
	}

	contextLines := args.Context
	if contextLines <= 0 {
		contextLines = h.defaultContext
	}
	if args.IncludeContext != nil && !*args.IncludeContext {
		contextLines = 0
	}

	result, verr := view.Target(absPath, args.Target, contextLines)
	if verr != nil {
		verr.Path = args.File
		return toolViewError(verr), nil
	}
	result.Path = args.File
	return toolJSON(result), nil
}

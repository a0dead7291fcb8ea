package mcptools

import (
	"context"
	"encoding/json"

	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/view"
)

// OutlineArgs represents arguments for the Outline tool.
type OutlineArgs struct {
	File string `json:"file"`
}

// NewOutlineTool creates the Outline tool definition.
func NewOutlineTool() mcp.Tool {
	return mcp.Tool{
		Name:        "Outline",
		Description: `Returns the declaration outline of a source file: functions, classes with their methods, imports, and exports, each with line ranges. Use this before Target to see what a file contains without reading it in full.`,
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "Path to the source file to outline"}
			},
			"required": ["file"]
		}`),
	}
}

// OutlineHandler handles Outline tool calls.
type OutlineHandler struct{}

// NewOutlineHandler creates a handler for the Outline tool.
func NewOutlineHandler() *OutlineHandler {
	return &OutlineHandler{}
}

// Handle implements the mcp.ToolHandler interface.
func (h *OutlineHandler) Handle(_ context.Context, arguments json.RawMessage) (*mcp.ToolResult, error) {
	var args OutlineArgs
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

	result, verr := view.Outline(absPath)
	if verr != nil {
		verr.Path = args.File
		return toolViewError(verr), nil
	}
	result.Path = args.File
	return toolJSON(result), nil
}

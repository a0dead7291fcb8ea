package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/althame/lens/internal/linetag"
	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/view"
)

// ReadArgs represents arguments for the Read tool.
type ReadArgs struct {
	File string `json:"file"`
}

// NewReadTool creates the Read tool definition.
func NewReadTool() mcp.Tool {
	return mcp.Tool{
		Name:        "Read",
		Description: `Reads a file in full and returns line-tagged content. Each line is returned as "linenum|content". Prefer Outline or Target for large source files.`,
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "Path to the file to read"}
			},
			"required": ["file"]
		}`),
	}
}

// ReadHandler handles Read tool calls.
type ReadHandler struct{}

// NewReadHandler creates a handler for the Read tool.
func NewReadHandler() *ReadHandler {
	return &ReadHandler{}
}

// Handle implements the mcp.ToolHandler interface.
func (h *ReadHandler) Handle(_ context.Context, arguments json.RawMessage) (*mcp.ToolResult, error) {
	var args ReadArgs
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

	result, verr := view.Full(absPath)
	if verr != nil {
		verr.Path = args.File
		return toolViewError(verr), nil
	}

	tagged := linetag.Render(result.Content, 1)
	return toolText(fmt.Sprintf("Read %s (%d lines):\n\n%s", args.File, result.LineCount, tagged)), nil
}

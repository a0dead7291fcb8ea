package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/althame/lens/internal/linetag"
	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/view"
)

// LinesArgs represents arguments for the Lines tool.
type LinesArgs struct {
	File  string `json:"file"`
	Line  int    `json:"line"`
	Above int    `json:"above,omitempty"`
	Below int    `json:"below,omitempty"`
}

// NewLinesTool creates the Lines tool definition.
func NewLinesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "Lines",
		Description: `Returns a window of line-tagged content around a target line. The window clamps to the file bounds; above and below default to 10 each.`,
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file":  {"type": "string", "description": "Path to the file to read"},
				"line":  {"type": "integer", "description": "Target line number (1-indexed)"},
				"above": {"type": "integer", "description": "Lines of context above the target (default 10)"},
				"below": {"type": "integer", "description": "Lines of context below the target (default 10)"}
			},
			"required": ["file", "line"]
		}`),
	}
}

// LinesHandler handles Lines tool calls.
type LinesHandler struct {
	defaultAbove int
	defaultBelow int
}

// NewLinesHandler creates a handler for the Lines tool.
func NewLinesHandler(above, below int) *LinesHandler {
	if above <= 0 {
		above = view.DefaultLinesAbove
	}
	if below <= 0 {
		below = view.DefaultLinesBelow
	}
	return &LinesHandler{defaultAbove: above, defaultBelow: below}
}

// Handle implements the mcp.ToolHandler interface.
func (h *LinesHandler) Handle(_ context.Context, arguments json.RawMessage) (*mcp.ToolResult, error) {
	var args LinesArgs
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

	above := args.Above
	if above == 0 {
		above = h.defaultAbove
	}
	below := args.Below
	if below == 0 {
		below = h.defaultBelow
	}

	result, verr := view.Lines(absPath, args.Line, above, below)
	if verr != nil {
		verr.Path = args.File
		return toolViewError(verr), nil
	}

	tagged := linetag.Render(result.Code, result.StartLine)
	header := fmt.Sprintf("Lines %d-%d of %s (%d lines, target %d):\n\n",
		result.StartLine, result.EndLine, args.File, result.LineCount, result.TargetLine)
	return toolText(header + tagged), nil
}

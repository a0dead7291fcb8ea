package mcptools

import (
	"context"
	"encoding/json"

	"github.com/althame/lens/internal/filesearch"
	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/view"
)

// SearchArgs represents arguments for the Search tool.
type SearchArgs struct {
	Pattern       string `json:"pattern"`
	Path          string `json:"path,omitempty"`
	Type          string `json:"type,omitempty"`
	Modifier      string `json:"modifier,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
}

// NewSearchTool creates the Search tool definition.
func NewSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "Search",
		Description: `Searches declarations by name across source files: functions, classes, methods, imports, and exports. Non-source files fall back to plain regex line matching. Respects .gitignore.`,
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pattern":        {"type": "string", "description": "Regex matched against declaration names (case-insensitive by default)"},
				"path":           {"type": "string", "description": "File or directory to search (default: working directory)"},
				"type":           {"type": "string", "enum": ["function", "class", "method", "import", "export"], "description": "Restrict to one declaration type"},
				"modifier":       {"type": "string", "enum": ["async", "static"], "description": "Restrict to declarations with a modifier"},
				"max_results":    {"type": "integer", "description": "Result cap (default from config)"},
				"case_sensitive": {"type": "boolean", "description": "Match case-sensitively"}
			},
			"required": ["pattern"]
		}`),
	}
}

// SearchHandler handles Search tool calls.
type SearchHandler struct {
	searcher   *filesearch.Searcher
	maxResults int
}

// NewSearchHandler creates a handler for the Search tool.
func NewSearchHandler(searcher *filesearch.Searcher, maxResults int) *SearchHandler {
	return &SearchHandler{searcher: searcher, maxResults: maxResults}
}

// Handle implements the mcp.ToolHandler interface.
func (h *SearchHandler) Handle(ctx context.Context, arguments json.RawMessage) (*mcp.ToolResult, error) {
	var args SearchArgs
	if err := json.Unmarshal(arguments, &args); err != nil {
		return toolError("Invalid arguments: %v", err), nil
	}
	if args.Pattern == "" {
		return toolError("Pattern cannot be empty"), nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = h.maxResults
	}

	result, verr := view.Search(ctx, filesearch.Options{
		Pattern:       args.Pattern,
		Type:          args.Type,
		Modifier:      args.Modifier,
		Root:          args.Path,
		MaxResults:    maxResults,
		CaseSensitive: args.CaseSensitive,
	}, h.searcher)
	if verr != nil {
		return toolViewError(verr), nil
	}
	return toolJSON(result), nil
}

package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/althame/lens/internal/filesearch"
	"github.com/althame/lens/internal/mcp"
)

const jsFixture = `import {helper} from './util';

function greet(name) {
  return helper(name);
}

class Greeter {
  greet(name) {
    return name;
  }
}

export {greet, Greeter};
`

func setupWorkdir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte(jsFixture), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

func callTool(t *testing.T, handler mcp.ToolHandler, args any) *mcp.ToolResult {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}
	result, err := handler(context.Background(), raw)
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.ToolResult) string {
	t.Helper()
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("content = %+v", result.Content)
	}
	return result.Content[0].Text
}

func TestReadTool(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewReadHandler().Handle, ReadArgs{File: "app.js"})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "1|import {helper} from './util';") {
		t.Errorf("missing tagged first line:\n%s", text)
	}
	if !strings.Contains(text, "3|function greet(name) {") {
		t.Errorf("missing tagged line 3:\n%s", text)
	}
}

func TestReadToolEscapingPathDenied(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewReadHandler().Handle, ReadArgs{File: "../outside.js"})
	if !result.IsError {
		t.Fatal("path escape was not rejected")
	}
	if !strings.Contains(resultText(t, result), "access denied") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestReadToolMissingFile(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewReadHandler().Handle, ReadArgs{File: "missing.js"})
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	if !strings.Contains(resultText(t, result), "FILE_NOT_FOUND") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestOutlineTool(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewOutlineHandler().Handle, OutlineArgs{File: "app.js"})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var payload struct {
		Path    string `json:"path"`
		Outline struct {
			Functions []struct {
				Name string `json:"name"`
			} `json:"functions"`
			Classes []struct {
				Name string `json:"name"`
			} `json:"classes"`
		} `json:"outline"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Path != "app.js" {
		t.Errorf("path = %q", payload.Path)
	}
	if len(payload.Outline.Functions) != 1 || payload.Outline.Functions[0].Name != "greet" {
		t.Errorf("functions = %+v", payload.Outline.Functions)
	}
	if len(payload.Outline.Classes) != 1 || payload.Outline.Classes[0].Name != "Greeter" {
		t.Errorf("classes = %+v", payload.Outline.Classes)
	}
}

func TestLinesTool(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewLinesHandler(0, 0).Handle, LinesArgs{File: "app.js", Line: 3, Above: 1, Below: 1})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Lines 2-4 of app.js") {
		t.Errorf("header wrong:\n%s", text)
	}
	if !strings.Contains(text, "3|function greet(name) {") {
		t.Errorf("missing target line:\n%s", text)
	}
}

func TestLinesToolOutOfRange(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewLinesHandler(0, 0).Handle, LinesArgs{File: "app.js", Line: 999999})
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	if !strings.Contains(resultText(t, result), "LINE_OUT_OF_RANGE") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestTargetTool(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewTargetHandler(0).Handle, TargetArgs{File: "app.js", Target: "class:Greeter"})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, `"kind": "class"`) || !strings.Contains(text, "class Greeter") {
		t.Errorf("payload:\n%s", text)
	}
}

func TestTargetToolWithoutContext(t *testing.T) {
	setupWorkdir(t)
	off := false
	result := callTool(t, NewTargetHandler(0).Handle, TargetArgs{File: "app.js", Target: "class:Greeter", IncludeContext: &off})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if strings.Contains(text, "context_before") || strings.Contains(text, "context_after") {
		t.Errorf("payload carries context despite include_context=false:\n%s", text)
	}
	if !strings.Contains(text, "class Greeter") {
		t.Errorf("payload:\n%s", text)
	}
}

func TestTargetToolNotFound(t *testing.T) {
	setupWorkdir(t)
	result := callTool(t, NewTargetHandler(0).Handle, TargetArgs{File: "app.js", Target: "class:Nope"})
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "TARGET_NOT_FOUND") || !strings.Contains(text, "hint") {
		t.Errorf("text = %s", text)
	}
}

func TestSearchTool(t *testing.T) {
	setupWorkdir(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	searcher := filesearch.NewSearcher(wd, nil)
	result := callTool(t, NewSearchHandler(searcher, 100).Handle, SearchArgs{Pattern: "greet", Type: "function"})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	var payload struct {
		Total   int `json:"total"`
		Matches []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"matches"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Total != 1 || payload.Matches[0].Name != "greet" || payload.Matches[0].Kind != "function" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestValidatePathWithRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := validatePathWithRoot("sub/file.js", root); err != nil {
		t.Errorf("relative path rejected: %v", err)
	}
	if _, err := validatePathWithRoot("../escape.js", root); err == nil {
		t.Error("escape not rejected")
	}
	if _, err := validatePathWithRoot("/etc/passwd", root); err == nil {
		t.Error("absolute outside path not rejected")
	}
}

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func echoTool() (Tool, ToolHandler) {
	tool := Tool{
		Name:        "Echo",
		Description: "Echoes its input back.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}}}`),
	}
	handler := func(_ context.Context, arguments json.RawMessage) (*ToolResult, error) {
		var args struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, err
		}
		return &ToolResult{Content: []ContentBlock{{Type: "text", Text: args.Text}}}, nil
	}
	return tool, handler
}

func serve(t *testing.T, srv *Server, requests ...string) []Response {
	t.Helper()
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []Response
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServeInitialize(t *testing.T) {
	srv := NewServer("lens", "0.1.0")
	responses := serve(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if len(responses) != 1 {
		t.Fatalf("responses = %d, want 1", len(responses))
	}
	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.ProtocolVersion != protocolVersion || result.ServerInfo.Name != "lens" {
		t.Errorf("result = %+v", result)
	}
}

func TestServeInitializedNotificationGetsNoReply(t *testing.T) {
	srv := NewServer("lens", "0.1.0")
	responses := serve(t, srv,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	if len(responses) != 1 {
		t.Fatalf("responses = %d, want only tools/list answered", len(responses))
	}
}

func TestServeToolListOrder(t *testing.T) {
	srv := NewServer("lens", "0.1.0")
	tool, handler := echoTool()
	srv.RegisterTool(tool, handler)
	srv.RegisterTool(Tool{Name: "Second", InputSchema: json.RawMessage(`{}`)}, handler)

	responses := serve(t, srv, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	var result ListToolsResult
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Tools) != 2 || result.Tools[0].Name != "Echo" || result.Tools[1].Name != "Second" {
		t.Errorf("tools = %+v, want registration order", result.Tools)
	}
}

func TestServeToolCall(t *testing.T) {
	srv := NewServer("lens", "0.1.0")
	tool, handler := echoTool()
	srv.RegisterTool(tool, handler)

	responses := serve(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"Echo","arguments":{"text":"hello"}}}`,
	)
	var result ToolResult
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Content) != 1 || result.Content[0].Text != "hello" {
		t.Errorf("result = %+v", result)
	}
}

func TestServeUnknownMethodAndTool(t *testing.T) {
	srv := NewServer("lens", "0.1.0")
	responses := serve(t, srv,
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"Nope","arguments":{}}}`,
		`not json`,
	)
	if len(responses) != 3 {
		t.Fatalf("responses = %d, want 3", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != ErrorCodeMethodNotFound {
		t.Errorf("response 0 = %+v", responses[0])
	}
	if responses[1].Error == nil || responses[1].Error.Code != ErrorCodeInvalidParams {
		t.Errorf("response 1 = %+v", responses[1])
	}
	if responses[2].Error == nil || responses[2].Error.Code != ErrorCodeParseError {
		t.Errorf("response 2 = %+v", responses[2])
	}
}

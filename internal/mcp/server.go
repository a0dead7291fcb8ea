package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
)

const protocolVersion = "2024-11-05"

// ToolHandler is a function that handles a tool call.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) (*ToolResult, error)

// Server dispatches MCP requests to registered tool handlers. Tools are
// listed in registration order.
type Server struct {
	mu       sync.RWMutex
	tools    []Tool
	handlers map[string]ToolHandler

	name    string
	version string
}

// NewServer creates an MCP server with the given identity.
func NewServer(name, version string) *Server {
	return &Server{
		handlers: make(map[string]ToolHandler),
		name:     name,
		version:  version,
	}
}

// RegisterTool registers a tool with the server. Re-registering a name
// replaces its handler but keeps the original list position.
func (s *Server) RegisterTool(tool Tool, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.handlers[tool.Name]; !exists {
		s.tools = append(s.tools, tool)
	} else {
		for i, t := range s.tools {
			if t.Name == tool.Name {
				s.tools[i] = tool
				break
			}
		}
	}
	s.handlers[tool.Name] = handler
}

// Tools returns the registered tool definitions in registration order.
func (s *Server) Tools() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Tool(nil), s.tools...)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w until EOF or context cancellation.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	enc := json.NewEncoder(w)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(NewErrorResponse(nil, ErrorCodeParseError, "parse error")); err != nil {
				return err
			}
			continue
		}

		resp := s.handle(ctx, &req)
		if resp == nil {
			continue // notification, no reply
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		resp, err := NewResponse(req.ID, ListToolsResult{Tools: s.Tools()})
		if err != nil {
			return NewErrorResponse(req.ID, ErrorCodeInternalError, err.Error())
		}
		return resp
	case "tools/call":
		return s.handleToolCall(ctx, req)
	default:
		return NewErrorResponse(req.ID, ErrorCodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	result := map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    s.name,
			"version": s.version,
		},
	}
	resp, err := NewResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrorCodeInternalError, err.Error())
	}
	return resp
}

func (s *Server) handleToolCall(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewErrorResponse(req.ID, ErrorCodeInvalidParams, "invalid tool call params")
	}

	s.mu.RLock()
	handler, ok := s.handlers[params.Name]
	s.mu.RUnlock()
	if !ok {
		return NewErrorResponse(req.ID, ErrorCodeInvalidParams, fmt.Sprintf("tool not found: %s", params.Name))
	}

	result, err := handler(ctx, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", params.Name).Msg("tool handler failed")
		return NewErrorResponse(req.ID, ErrorCodeInternalError, err.Error())
	}

	resp, err := NewResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrorCodeInternalError, err.Error())
	}
	return resp
}

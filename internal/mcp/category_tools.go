// ABOUTME: MCP tool implementations for stufflog categories.
// ABOUTME: Registers list_stufflogs and init_stufflog.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerCategoryTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_stufflogs",
		Description: "List the stufflog categories that have been initialized.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {}
		}`),
	}, s.handleListStufflogs)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "init_stufflog",
		Description: "Create a new, empty stufflog for a category. Fails if the category already exists.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Name of the category to create"}
			}
		}`),
	}, s.handleInitStufflog)
}

func (s *Server) handleListStufflogs(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	names, err := s.svc.Categories(ctx)
	if err != nil {
		return toolError("%v", err), nil
	}
	if len(names) == 0 {
		return textResult("No stufflogs found."), nil
	}
	return textResult(strings.Join(names, "\n")), nil
}

func (s *Server) handleInitStufflog(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	category, err := s.category(args.Category)
	if err != nil {
		return toolError("%v", err), nil
	}
	if err := s.svc.Init(ctx, category); err != nil {
		return toolError("%v", err), nil
	}
	return textResult(fmt.Sprintf("Initialized new stufflog for category '%s'", category)), nil
}

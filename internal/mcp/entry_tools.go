// ABOUTME: MCP tool implementations for stufflog entry operations.
// ABOUTME: Registers add_entry, delete_entry, query_entries, search_entries.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/stufflog/internal/models"
)

func (s *Server) registerEntryTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_entry",
		Description: "Add an entry to a stufflog. Titles are unique within a category; the entry is stamped with the current time.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Stufflog category, e.g. books or movies"},
				"title": {"type": "string", "description": "Entry title, unique within the category"},
				"rating": {"type": "integer", "description": "Rating for the entry"},
				"comment": {"type": "string", "description": "Optional comment"}
			},
			"required": ["title", "rating"]
		}`),
	}, s.handleAddEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_entry",
		Description: "Delete an entry from a stufflog by its exact title.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Stufflog category"},
				"title": {"type": "string", "description": "Exact title of the entry to delete"}
			},
			"required": ["title"]
		}`),
	}, s.handleDeleteEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "query_entries",
		Description: "List entries of a stufflog, optionally filtered by strict rating and date bounds. Dates accept ISO 8601 or phrases like \"yesterday\" or \"3 days ago\".",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Stufflog category"},
				"greater_than": {"type": "integer", "description": "Only entries rated strictly above this value"},
				"less_than": {"type": "integer", "description": "Only entries rated strictly below this value"},
				"after": {"type": "string", "description": "Only entries created strictly after this date"},
				"before": {"type": "string", "description": "Only entries created strictly before this date"}
			}
		}`),
	}, s.handleQueryEntries)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "search_entries",
		Description: "Search a stufflog for entries whose title or comment contains the term, ignoring case.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Stufflog category"},
				"term": {"type": "string", "description": "Text to search for"}
			},
			"required": ["term"]
		}`),
	}, s.handleSearchEntries)
}

func (s *Server) handleAddEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Category string `json:"category"`
		Title    string `json:"title"`
		Rating   *int   `json:"rating"`
		Comment  string `json:"comment"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	category, err := s.category(args.Category)
	if err != nil {
		return toolError("%v", err), nil
	}
	if args.Title == "" {
		return toolError("title is required"), nil
	}
	if args.Rating == nil {
		return toolError("rating is required"), nil
	}

	if _, err := s.svc.Add(ctx, category, args.Title, *args.Rating, args.Comment); err != nil {
		return toolError("%v", err), nil
	}
	return textResult(fmt.Sprintf("Added entry '%s' to %s stufflog", args.Title, category)), nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Category string `json:"category"`
		Title    string `json:"title"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	category, err := s.category(args.Category)
	if err != nil {
		return toolError("%v", err), nil
	}
	if args.Title == "" {
		return toolError("title is required"), nil
	}

	if err := s.svc.Delete(ctx, category, args.Title); err != nil {
		return toolError("%v", err), nil
	}
	return textResult(fmt.Sprintf("Deleted entry '%s' from %s stufflog", args.Title, category)), nil
}

func (s *Server) handleQueryEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Category    string `json:"category"`
		GreaterThan *int   `json:"greater_than"`
		LessThan    *int   `json:"less_than"`
		After       string `json:"after"`
		Before      string `json:"before"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	category, err := s.category(args.Category)
	if err != nil {
		return toolError("%v", err), nil
	}

	entries, err := s.svc.Query(ctx, category, models.QueryFilter{
		GreaterThan: args.GreaterThan,
		LessThan:    args.LessThan,
		After:       args.After,
		Before:      args.Before,
	})
	if err != nil {
		return toolError("%v", err), nil
	}
	return textResult(formatEntries(entries)), nil
}

func (s *Server) handleSearchEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Category string `json:"category"`
		Term     string `json:"term"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	category, err := s.category(args.Category)
	if err != nil {
		return toolError("%v", err), nil
	}
	if args.Term == "" {
		return toolError("term is required"), nil
	}

	entries, err := s.svc.Search(ctx, category, args.Term)
	if err != nil {
		return toolError("%v", err), nil
	}
	return textResult(formatEntries(entries)), nil
}

// formatEntries renders entries in the same markdown layout the CLI prints.
func formatEntries(entries []models.Entry) string {
	if len(entries) == 0 {
		return "No matching entries found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d matching entries:\n", len(entries)))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("\n## %s\n", e.Title))
		datetime := e.Datetime
		if datetime == "" {
			datetime = "Unknown"
		}
		sb.WriteString(fmt.Sprintf("- **Datetime**: %s\n", datetime))
		sb.WriteString(fmt.Sprintf("- **Rating**: %d\n", e.Rating))
		if e.Comment != "" {
			sb.WriteString(fmt.Sprintf("- **Comment**: %s\n", e.Comment))
		}
	}
	return sb.String()
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

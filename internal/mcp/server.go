// Package mcp exposes the sanitizer over the Model Context Protocol so that
// agent-driven backup workflows can call it without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/moinsen-dev/scrubber/internal/pattern"
	"github.com/moinsen-dev/scrubber/internal/sanitize"
)

// ScrubberServer wraps the MCP server with the sanitization engine.
type ScrubberServer struct {
	engine   *sanitize.Engine
	rules    *pattern.Ruleset
	server   *server.MCPServer
	handlers map[string]server.ToolHandlerFunc
}

// NewScrubberServer creates an MCP server with all sanitizer tools registered.
func NewScrubberServer(engine *sanitize.Engine, rules *pattern.Ruleset) *ScrubberServer {
	s := &ScrubberServer{
		engine:   engine,
		rules:    rules,
		server:   server.NewMCPServer("scrubber", "0.1.0"),
		handlers: make(map[string]server.ToolHandlerFunc),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server instance.
func (s *ScrubberServer) MCPServer() *server.MCPServer {
	return s.server
}

func (s *ScrubberServer) registerTools() {
	s.addTool("sanitize_files",
		gomcp.NewTool("sanitize_files",
			gomcp.WithDescription("Sanitize credential values out of the given files, in place"),
			gomcp.WithArray("files",
				gomcp.Required(),
				gomcp.Description("Absolute paths of the files to sanitize"),
				gomcp.WithStringItems(),
			),
			gomcp.WithBoolean("dry_run",
				gomcp.Description("Report what would change without writing anything"),
			),
			gomcp.WithBoolean("paths",
				gomcp.Description("Also rewrite home-directory paths to ~/ form"),
			),
		),
		s.handleSanitizeFiles,
	)

	s.addTool("classify_text",
		gomcp.NewTool("classify_text",
			gomcp.WithDescription("Report which token types appear in a text, without changing anything"),
			gomcp.WithString("text",
				gomcp.Required(),
				gomcp.Description("Text to classify"),
			),
		),
		s.handleClassifyText,
	)

	s.addTool("list_patterns",
		gomcp.NewTool("list_patterns",
			gomcp.WithDescription("List the effective sanitization rule tables"),
		),
		s.handleListPatterns,
	)
}

func (s *ScrubberServer) addTool(name string, tool gomcp.Tool, handler server.ToolHandlerFunc) {
	s.handlers[name] = handler
	s.server.AddTool(tool, handler)
}

// fileReport is the per-file slice of the JSON result returned to the client.
type fileReport struct {
	Path       string   `json:"path"`
	Status     string   `json:"status"`
	Modified   bool     `json:"modified"`
	Redactions int      `json:"redactions"`
	Locators   []string `json:"locators,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// handleSanitizeFiles runs the engine and returns the run summary as JSON.
// Secret values never appear in the result.
func (s *ScrubberServer) handleSanitizeFiles(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	files := req.GetStringSlice("files", nil)
	if len(files) == 0 {
		return gomcp.NewToolResultError("files must not be empty"), nil
	}
	opts := sanitize.Options{
		DryRun: req.GetBool("dry_run", false),
		Paths:  req.GetBool("paths", false),
	}

	sum := s.engine.Run(files, opts, nil)

	reports := make([]fileReport, len(sum.Results))
	for i, r := range sum.Results {
		rep := fileReport{
			Path:       r.Path,
			Status:     r.Status.String(),
			Modified:   r.Modified,
			Redactions: len(r.Events),
			Reason:     r.Reason,
		}
		for _, e := range r.Events {
			rep.Locators = append(rep.Locators, e.Locator())
		}
		if r.Err != nil {
			rep.Error = r.Err.Error()
		}
		reports[i] = rep
	}

	result := struct {
		OK         bool         `json:"ok"`
		DryRun     bool         `json:"dry_run"`
		Redactions int          `json:"redactions"`
		Labels     []string     `json:"labels"`
		Files      []fileReport `json:"files"`
	}{
		OK:         sum.OK(),
		DryRun:     opts.DryRun,
		Redactions: sum.TotalRedactions(),
		Labels:     sum.Labels(),
		Files:      reports,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return gomcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return gomcp.NewToolResultText(string(data)), nil
}

// handleClassifyText returns the distinct token labels found in a text.
func (s *ScrubberServer) handleClassifyText(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return gomcp.NewToolResultError(err.Error()), nil
	}

	labels := s.rules.DetectLabels(text)
	if labels == nil {
		labels = []string{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return gomcp.NewToolResultError(fmt.Sprintf("failed to marshal labels: %v", err)), nil
	}
	return gomcp.NewToolResultText(string(data)), nil
}

// handleListPatterns renders the effective rule tables.
func (s *ScrubberServer) handleListPatterns(_ context.Context, _ gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return gomcp.NewToolResultText(s.rules.Describe()), nil
}

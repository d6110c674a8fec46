// Package mcpadapter exposes the classifier as an MCP tool so agent
// frontends can call it over stdio without the HTTP edge.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

type Server struct {
	classifier ports.IntentClassifier
	mcpServer  *server.MCPServer
}

func New(classifier ports.IntentClassifier, version string) *Server {
	m := server.NewMCPServer(
		"namjari-intent",
		version,
		server.WithToolCapabilities(true),
	)

	s := &Server{classifier: classifier, mcpServer: m}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "classify_intent",
		Description: "Classify a Bengali land-mutation (namjari) question into an intent tag. Returns JSON with tag, score, confidence and resolution method, or null when the query cannot be classified.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The caller's question, in Bengali or mixed Bengali/English.",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleClassifyIntent)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_intent_tags",
		Description: "List all intent tags the classifier can assign.",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
	}, s.handleListIntentTags)
}

func (s *Server) handleClassifyIntent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.classifier.Classify(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classify: %v", err)), nil
	}

	payload, err := json.Marshal(struct {
		Result *domain.ClassificationResult `json:"result"`
	}{Result: result})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleListIntentTags(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(domain.AllTags())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode tags: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Package mcp implements the Model Context Protocol surface over the
// Iterable API.
//
// Every tool is a thin shape — name, parameter schema, one upstream call,
// JSON-stringified result. Which tools exist at all is decided by the
// permission policy: registration consults it once per tool, and each
// handler consults it again on invocation so a stale registry can never
// widen access. The upstream credential is resolved per request by the HTTP
// layer and read back from the context here; it never appears in results,
// errors, or logs.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/relaymkt/iterable-mcp/internal/auth"
	"github.com/relaymkt/iterable-mcp/internal/iterable"
	"github.com/relaymkt/iterable-mcp/internal/policy"
)

var errNoCredential = errors.New("no Iterable API key resolved for this request")

// Server wraps the MCP server with the Iterable client and the deployment's
// permission flags.
type Server struct {
	mcpServer *mcpserver.MCPServer
	client    *iterable.Client
	perms     policy.Permissions
	logger    *slog.Logger
}

// New creates and configures an MCP server exposing every Iterable tool the
// given permissions allow.
func New(client *iterable.Client, perms policy.Permissions, logger *slog.Logger, version string) *Server {
	s := &Server{
		client: client,
		perms:  perms,
		logger: logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"iterable-mcp",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	s.registerUserTools()
	s.registerListTools()
	s.registerCampaignTools()
	s.registerTemplateTools()
	s.registerMessagingTools()
	s.registerEventTools()
	s.registerCatalogTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// addTool registers a tool only when the permission policy allows it, and
// wraps the handler with a second policy check at invocation time.
func (s *Server) addTool(tool mcplib.Tool, handler mcpserver.ToolHandlerFunc) {
	name := tool.Name
	if reason := policy.BlockedReason(name, s.perms); reason != "" {
		s.logger.Debug("tool not registered", "tool", name, "reason", reason)
		return
	}
	s.mcpServer.AddTool(tool, s.guarded(name, handler))
}

// guarded wraps a tool handler with a defensive policy re-check. Registration
// already filters denied tools; this second check means even a handler that
// somehow stays registered cannot reach the upstream API.
func (s *Server) guarded(name string, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if reason := policy.BlockedReason(name, s.perms); reason != "" {
			return errorResult(fmt.Sprintf("tool %s is not allowed: %s", name, reason)), nil
		}
		return handler(ctx, request)
	}
}

// upstream resolves the request's credential and performs one Iterable call.
func (s *Server) upstream(ctx context.Context, spec iterable.RequestSpec) (any, error) {
	cred, ok := auth.CredentialFromContext(ctx)
	if !ok {
		return nil, errNoCredential
	}
	return s.client.Call(ctx, cred.Key, spec)
}

// callTool is the common handler body: one upstream call, result serialized
// into the tool envelope, failures surfaced as IsError results.
func (s *Server) callTool(ctx context.Context, spec iterable.RequestSpec) (*mcplib.CallToolResult, error) {
	res, err := s.upstream(ctx, spec)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(res), nil
}

// jsonResult wraps a normalized upstream result as text content. Plain-text
// results (CSV metrics and friends) pass through verbatim; everything else
// is JSON-stringified.
func jsonResult(v any) *mcplib.CallToolResult {
	var text string
	if s, ok := v.(string); ok {
		text = s
	} else {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("marshal result: %v", err))
		}
		text = string(data)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: text},
		},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

// numberSlice coerces a JSON array argument into ints, skipping anything
// that isn't a number.
func numberSlice(args map[string]any, key string) []int {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		if f, ok := e.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

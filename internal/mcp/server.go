// Package mcp exposes the audit probe as a set of MCP tools for an
// LLM-facing client, grounded on the teacher's stdio MCP server. This is
// the one concrete home for the "LLM-facing serialization" the core spec
// treats as an external collaborator: internal/probe never imports this
// package, only cmd/ wires the two together.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/probe"
)

// Server wraps the MCP server instance bound to one Prober.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server exposing tools backed by p.
func NewServer(version string, p *probe.Prober) *Server {
	s := server.NewMCPServer("auditsentinel", version, server.WithLogging())
	registerTools(s, p)
	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func registerTools(s *server.MCPServer, p *probe.Prober) {
	summaryTool := mcp.NewTool("get_audit_summary",
		mcp.WithDescription("Run one audit probe over today's auditd records and return the full summary as JSON: auth failures, privilege escalations, sensitive file access, suspicious execution, security-framework denials, and the overall risk score."),
	)
	s.AddTool(summaryTool, handleGetAuditSummary(p))

	explainTool := mcp.NewTool("explain_anomaly",
		mcp.WithDescription("Get a detailed explanation and recommended response for a specific anomaly type. Use list_anomaly_types to discover available IDs."),
		mcp.WithString("anomaly_type",
			mcp.Required(),
			mcp.Description("Anomaly type tag, e.g. 'auth_failure_spike', 'devshm_execution'. Use list_anomaly_types to see all."),
		),
	)
	s.AddTool(explainTool, handleExplainAnomaly)

	listTool := mcp.NewTool("list_anomaly_types",
		mcp.WithDescription("List all known anomaly type tags with brief descriptions."),
	)
	s.AddTool(listTool, handleListAnomalyTypes)
}

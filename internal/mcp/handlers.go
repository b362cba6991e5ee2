package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/probe"
)

func handleGetAuditSummary(p *probe.Prober) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary := p.Probe(ctx)
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return errResult(fmt.Sprintf("marshal summary: %v", err)), nil
		}
		return newTextResult(string(b)), nil
	}
}

func handleExplainAnomaly(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(req)
	anomalyType := stringArg(args, "anomaly_type", "")
	if anomalyType == "" {
		return errResult("anomaly_type is required"), nil
	}
	e, ok := anomalyCatalog[anomalyType]
	if !ok {
		return errResult(fmt.Sprintf("unknown anomaly_type %q, see list_anomaly_types", anomalyType)), nil
	}
	return newTextResult(fmt.Sprintf("%s\n\n%s\n\nrecommended response: %s", e.ID, e.Brief, e.Response)), nil
}

func handleListAnomalyTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := make([]entry, 0, len(anomalyOrder))
	for _, id := range anomalyOrder {
		list = append(list, anomalyCatalog[id])
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("marshal catalog: %v", err)), nil
	}
	return newTextResult(string(b)), nil
}

type entry struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Brief    string `json:"brief"`
	Response string `json:"response"`
}

var anomalyOrder = []string{
	"auth_failure_spike",
	"sudo_spike",
	"tmp_execution",
	"devshm_execution",
}

var anomalyCatalog = map[string]entry{
	"auth_failure_spike": {
		ID:       "auth_failure_spike",
		Category: "authentication",
		Brief:    "Authentication failure rate deviates more than 100% from the rolling baseline average.",
		Response: "Review failing accounts, check source addresses if available, consider rate-limiting or locking the account.",
	},
	"sudo_spike": {
		ID:       "sudo_spike",
		Category: "privilege",
		Brief:    "sudo invocation count deviates more than 200% from the rolling baseline average.",
		Response: "Correlate with recent deploys or on-call activity; investigate if unexpected.",
	},
	"tmp_execution": {
		ID:       "tmp_execution",
		Category: "execution",
		Brief:    "A binary was executed directly from /tmp, a common staging location for dropped payloads.",
		Response: "Inspect the binary, its parent process chain, and the account that launched it.",
	},
	"devshm_execution": {
		ID:       "devshm_execution",
		Category: "execution",
		Brief:    "A binary was executed from /dev/shm, a memory-backed filesystem frequently used to avoid leaving traces on disk.",
		Response: "Treat as high-confidence compromise indicator; capture the process chain and isolate the host.",
	},
}

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if Arguments is nil or not a map.
func getArgs(req mcp.CallToolRequest) map[string]interface{} {
	if req.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}

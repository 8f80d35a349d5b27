// Package tools is the tool façade: the externally callable operations that
// compose sessions, credentials, the gateway, identity enrichment and the
// conversation selector into structured results.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/metrics"
)

// Tool is the interface that all tools must implement
type Tool interface {
	// Name returns the unique name of the tool
	Name() string

	// Description returns a human-readable description for the calling agent
	Description() string

	// Execute runs the tool with JSON arguments. It never returns nil.
	Execute(ctx context.Context, input json.RawMessage) *Result

	// Bind registers the tool on an MCP server
	Bind(srv *mcp.Server)
}

// Definition is the listing form of a tool.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToDefinition converts a Tool to its listing form
func ToDefinition(t Tool) Definition {
	return Definition{
		Name:        t.Name(),
		Description: t.Description(),
	}
}

// sessionScoped is implemented by inputs that carry a session handle, so the
// call can be logged against it.
type sessionScoped interface {
	session() string
}

// tool adapts a typed operation to Tool. The MCP binding derives the input
// schema from In.
type tool[In any] struct {
	name        string
	description string
	metrics     *metrics.Metrics
	run         func(ctx context.Context, in In) (any, error)
}

func newTool[In any](name, description string, m *metrics.Metrics, run func(ctx context.Context, in In) (any, error)) *tool[In] {
	return &tool[In]{name: name, description: description, metrics: m, run: run}
}

func (t *tool[In]) Name() string        { return t.name }
func (t *tool[In]) Description() string { return t.description }

func (t *tool[In]) Execute(ctx context.Context, input json.RawMessage) *Result {
	var in In
	if len(bytes.TrimSpace(input)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(input))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			res := &Result{Err: invalidInput("decode %s arguments: %v", t.name, err)}
			t.finish("", time.Now(), res)
			return res
		}
	}
	return t.invoke(ctx, in)
}

func (t *tool[In]) Bind(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{Name: t.name, Description: t.description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			return t.invoke(ctx, in).CallToolResult(), nil, nil
		})
}

func (t *tool[In]) invoke(ctx context.Context, in In) *Result {
	start := time.Now()
	payload, err := t.run(ctx, in)

	res := &Result{Payload: payload}
	if err != nil {
		res = &Result{Err: AsError(err)}
	}

	var sid string
	if s, ok := any(in).(sessionScoped); ok {
		sid = s.session()
	}
	t.finish(sid, start, res)
	return res
}

func (t *tool[In]) finish(sessionID string, start time.Time, res *Result) {
	elapsed := time.Since(start)
	t.metrics.ObserveTool(t.name, res.Code(), elapsed)

	switch {
	case res.Err == nil:
		L_info("tool: call ok", "tool", t.name, "session", ShortID(sessionID), "elapsed", elapsed.Round(time.Millisecond))
	case res.Err.Code == CodeInternal:
		L_error("tool: call failed", "tool", t.name, "session", ShortID(sessionID), "code", res.Err.Code, "error", res.Err.Message)
	default:
		L_warn("tool: call rejected", "tool", t.name, "session", ShortID(sessionID), "code", res.Err.Code,
			"gatewayCode", res.Err.GatewayCode, "elapsed", elapsed.Round(time.Millisecond))
	}
}

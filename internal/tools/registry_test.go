package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roelfdiedericks/slackclaw/internal/credential"
	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	"github.com/roelfdiedericks/slackclaw/internal/metrics"
	"github.com/roelfdiedericks/slackclaw/internal/session"
)

func setupRegistry(t *testing.T, fg *fakeGateway) (*Registry, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc := NewService(Deps{
		Sessions:    session.NewStore(),
		Credentials: credential.NewResolver(),
		Dial:        fg.dial,
		Metrics:     m,
	})
	reg := NewRegistry()
	RegisterDefaults(reg, svc)
	return reg, m
}

func TestRegisterDefaults(t *testing.T) {
	reg, _ := setupRegistry(t, newFakeGateway())

	want := []string{"auto_reply_latest", "create_session", "destroy_session", "list_dms", "list_recent_messages", "send_reply"}
	got := reg.List()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", got, want)
	}
	for _, def := range reg.Definitions() {
		if def.Description == "" {
			t.Errorf("tool %s has no description", def.Name)
		}
	}
}

func TestRegistryExecuteJSON(t *testing.T) {
	fg := newFakeGateway()
	fg.convs = []gateway.Conversation{{ID: "D1", Name: "dm"}}
	reg, m := setupRegistry(t, fg)
	ctx := context.Background()

	res, err := reg.Execute(ctx, "create_session", json.RawMessage(`{"bot_token":"`+testToken+`"}`))
	if err != nil || res.Err != nil {
		t.Fatalf("create_session: %v / %+v", err, res.Err)
	}
	var created CreateSessionOutput
	if err := json.Unmarshal(res.JSON(), &created); err != nil || len(created.SessionID) != 32 {
		t.Fatalf("create_session payload %s (%v)", res.JSON(), err)
	}

	res, _ = reg.Execute(ctx, "list_dms", json.RawMessage(`{"session_id":"`+created.SessionID+`"}`))
	if !strings.Contains(string(res.JSON()), `"channel_id":"D1"`) {
		t.Errorf("list_dms payload = %s", res.JSON())
	}

	res, _ = reg.Execute(ctx, "list_dms", json.RawMessage(`{"bot_token":"`+testToken+`"}`))
	if res.Code() != CodeSessionRequired {
		t.Errorf("raw token call = %s", res.JSON())
	}
	var body struct {
		OK    bool   `json:"ok"`
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(res.JSON(), &body); err != nil || body.OK || body.Error.Code != CodeSessionRequired {
		t.Errorf("error wire form = %s", res.JSON())
	}

	res, _ = reg.Execute(ctx, "list_dms", json.RawMessage(`{"limit":"ten"}`))
	if res.Code() != CodeInvalidInput {
		t.Errorf("bad arguments code = %q, want invalid_input", res.Code())
	}

	if _, err := reg.Execute(ctx, "nope", nil); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("unknown tool error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	for _, want := range []string{
		`slackclaw_tool_calls_total{code="ok",tool="create_session"} 1`,
		`slackclaw_tool_calls_total{code="session_required",tool="list_dms"} 1`,
		`slackclaw_tool_calls_total{code="invalid_input",tool="list_dms"} 1`,
		`slackclaw_gateway_calls_total{code="ok",op="list_conversations"} 1`,
	} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestMCPEndToEnd(t *testing.T) {
	fg := newFakeGateway()
	fg.history["D9"] = []gateway.Message{{Text: "ping", SenderUserID: "U1", Timestamp: "1700000000.000001"}}
	fg.users["U1"] = &gateway.UserProfile{RealName: "Alice", Email: "a@x.com"}
	reg, _ := setupRegistry(t, fg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := mcp.NewServer(&mcp.Implementation{Name: "slackclaw-test", Version: "v0.0.0"}, nil)
	reg.BindAll(srv)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	listed, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(listed.Tools) != 6 {
		t.Errorf("listed %d tools, want 6", len(listed.Tools))
	}

	created := callTool(t, cs, "create_session", map[string]any{"bot_token": testToken})
	if created.IsError {
		t.Fatalf("create_session failed: %s", toolText(created))
	}
	var sess CreateSessionOutput
	if err := json.Unmarshal([]byte(toolText(created)), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	msgs := callTool(t, cs, "list_recent_messages", map[string]any{"session_id": sess.SessionID, "channel": "D9"})
	if msgs.IsError || !strings.Contains(toolText(msgs), `"sender_name":"Alice"`) {
		t.Errorf("list_recent_messages = %s", toolText(msgs))
	}

	guarded := callTool(t, cs, "send_reply", map[string]any{"bot_token": testToken, "channel": "D9", "text": "hi"})
	if !guarded.IsError || !strings.Contains(toolText(guarded), CodeSessionRequired) {
		t.Errorf("send_reply with raw token = %s", toolText(guarded))
	}
	if fg.countOf("post") != 0 {
		t.Errorf("guarded send_reply reached the gateway")
	}
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: protocol error: %v", name, err)
	}
	return res
}

func toolText(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

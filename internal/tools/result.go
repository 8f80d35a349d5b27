package tools

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Result is the outcome of a tool call: a payload or a structured error.
type Result struct {
	Payload any
	Err     *Error
}

type errorBody struct {
	OK    bool   `json:"ok"`
	Error *Error `json:"error"`
}

// Code returns the error code, or "" on success.
func (r *Result) Code() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Code
}

// Body is the value serialised on the wire.
func (r *Result) Body() any {
	if r.Err != nil {
		return errorBody{OK: false, Error: r.Err}
	}
	return r.Payload
}

// JSON encodes Body. An unencodable payload becomes an internal_error body.
func (r *Result) JSON() []byte {
	data, err := json.Marshal(r.Body())
	if err != nil {
		data, _ = json.Marshal(errorBody{Error: &Error{Code: CodeInternal, Message: "encode result: " + err.Error()}})
	}
	return data
}

// CallToolResult renders the result for MCP. Failures are tool results with
// IsError set, never protocol errors.
func (r *Result) CallToolResult() *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(r.JSON())}},
		StructuredContent: r.Body(),
		IsError:           r.Err != nil,
	}
}

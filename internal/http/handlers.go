package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/tools"
)

// maxBodyBytes bounds tool argument bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Tools []tools.Definition `json:"tools"`
	}{Tools: s.deps.Tools.Definitions()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		L_warn("http: tool body unreadable", "tool", name, "error", err)
		writeResult(w, &tools.Result{Err: &tools.Error{Code: tools.CodeInvalidInput, Message: "request body: " + err.Error()}})
		return
	}

	res, err := s.deps.Tools.Execute(r.Context(), name, body)
	if errors.Is(err, tools.ErrUnknownTool) {
		writeJSON(w, http.StatusNotFound, (&tools.Result{Err: &tools.Error{
			Code:    tools.CodeNotFound,
			Message: err.Error(),
		}}).Body())
		return
	}
	writeResult(w, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions := 0
	if s.deps.Sessions != nil {
		sessions = s.deps.Sessions()
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": sessions})
}

// statusFor maps a tool error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case tools.CodeNotFound:
		return http.StatusNotFound
	case tools.CodeGateway:
		return http.StatusBadGateway
	case tools.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeResult(w http.ResponseWriter, res *tools.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(res.Code()))
	_, _ = w.Write(res.JSON())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		L_error("http: encode response", "error", err)
	}
}

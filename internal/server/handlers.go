package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/biolens/biolens/internal/errors"
	servermw "github.com/biolens/biolens/internal/server/middleware"
	"github.com/biolens/biolens/internal/tools"
)

// toolListResponse is the body of GET /v1/tools.
type toolListResponse struct {
	Tools []*tools.Tool `json:"tools"`
}

// toolCallResponse is the body of a successful POST /v1/tools/{name}.
type toolCallResponse struct {
	Tool      string `json:"tool"`
	RequestID string `json:"request_id,omitempty"`
	Result    any    `json:"result"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type versionResponse struct {
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{Version: s.version})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toolListResponse{Tools: s.registry.Tools()})
}

// handleCallTool dispatches one tool invocation. The request body is a JSON
// object of tool arguments; an empty body means no arguments.
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	requestID := servermw.GetRequestID(r.Context())

	args, err := decodeBody(r.Body)
	if err != nil {
		apperrors.RespondWithError(w, requestID, err)
		return
	}

	result, err := s.registry.Call(r.Context(), name, args)
	if err != nil {
		apperrors.RespondWithError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, toolCallResponse{
		Tool:      name,
		RequestID: requestID,
		Result:    result,
	})
}

func decodeBody(body io.Reader) (map[string]any, error) {
	args := map[string]any{}
	if err := json.NewDecoder(body).Decode(&args); err != nil {
		if errors.Is(err, io.EOF) {
			return args, nil
		}
		return nil, apperrors.NewValidationError("request body must be a JSON object: %v", err)
	}
	return args, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

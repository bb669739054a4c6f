// ABOUTME: HTTP handler for the check endpoint: parse, build, validate, and report diagnostics as JSON.
// ABOUTME: Parse errors map to 422, internal faults to 500, and findings ride in the 200 response body.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frond-lang/frond/dot"
	"github.com/frond-lang/frond/matcher"
	"github.com/frond-lang/frond/template"
)

// maxBodySize bounds check request bodies to 10MB.
const maxBodySize = 10 << 20

// checkRequest is the body of POST /v1/check.
type checkRequest struct {
	Name   string `json:"name"`   // template name used in diagnostic locations
	Source string `json:"source"` // template body source text
	Dot    bool   `json:"dot"`    // include the CFG rendered as DOT
}

// diagnosticJSON is the wire form of one diagnostic.
type diagnosticJSON struct {
	Kind    string `json:"kind"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// checkResponse is the body of a successful check. OK mirrors the gate
// semantics of the compiler pipeline: false means code generation for this
// template must not proceed.
type checkResponse struct {
	OK          bool             `json:"ok"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
	Dot         string           `json:"dot,omitempty"`
}

// errorResponse is the body of any non-200 response.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCheck validates one template body and returns its diagnostics.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large (max 10MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if req.Source == "" {
		writeError(w, http.StatusUnprocessableEntity, "source is required")
		return
	}
	name := req.Name
	if name == "" {
		name = "<request>"
	}

	var opts []template.Option
	if len(s.voidTags) > 0 {
		opts = append(opts, template.WithVoidElements(s.voidTags...))
	}

	result, err := matcher.CheckSource(name, req.Source, opts...)
	if err != nil {
		if errors.Is(err, matcher.ErrParse) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("check failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := checkResponse{
		OK:          result.OK(),
		Diagnostics: make([]diagnosticJSON, 0, len(result.Diagnostics)),
	}
	for _, d := range result.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, diagnosticJSON{
			Kind:    d.Kind.String(),
			File:    d.Loc.File,
			Line:    d.Loc.Line,
			Col:     d.Loc.Col,
			Message: d.Message,
		})
	}
	if req.Dot {
		resp.Dot = dot.Serialize(result.Graph)
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/ventgraph/pkg/buildinfo"
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/pipeline"
)

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Nodes   []network.Node   `json:"nodes"`
	Options pipeline.Options `json:"options"`
}

// DistancesRequest is the body of POST /v1/distances.
type DistancesRequest struct {
	Nodes []network.Node `json:"nodes"`
	Start string         `json:"start,omitempty"`
}

// DistancesResponse is the reply of POST /v1/distances.
type DistancesResponse struct {
	RunID     string                    `json:"run_id"`
	Start     string                    `json:"start"`
	Distances map[string]map[string]int `json:"distances"`
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Nodes   []network.Node   `json:"nodes"`
	Format  string           `json:"format,omitempty"` // dot or svg
	Options pipeline.Options `json:"options"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var renderContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
		"date":    info.Date,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	net, err := network.New(req.Nodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Options.MaxSplitPositives = s.maxSplit
	res, err := s.runner.Execute(r.Context(), net, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	var req DistancesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Start == "" {
		req.Start = pipeline.DefaultStart
	}
	net, err := network.New(req.Nodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.runner.Distances(r.Context(), net, req.Start)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DistancesResponse{
		RunID:     uuid.NewString(),
		Start:     req.Start,
		Distances: m,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	ctype, ok := renderContentTypes[req.Format]
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "format must be dot or svg, got %q", req.Format))
		return
	}
	net, err := network.New(req.Nodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Options.Formats = []string{req.Format}
	req.Options.MaxSplitPositives = s.maxSplit
	artifacts, err := s.runner.RenderArtifacts(r.Context(), net, nil, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[req.Format])
}

// decode reads a JSON body into v, replying 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request body"))
		return false
	}
	return true
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errs.IsConfiguration(err):
		return http.StatusUnprocessableEntity
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: errs.UserMessage(err),
		Code:  string(errs.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

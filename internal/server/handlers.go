package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/pipeline"
	"github.com/matzehuels/pipelinedag/pkg/validate"
)

type validateResponse struct {
	validate.Report
	Status  validate.Status `json:"status"`
	Summary string          `json:"summary"`
}

type layoutResponse struct {
	layout.Result
	Cached bool `json:"cached"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	g, err := s.readGraph(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := s.runner.Validate(r.Context(), g)
	writeJSON(w, http.StatusOK, validateResponse{
		Report:  report,
		Status:  report.Status(),
		Summary: report.Summary(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.readGraph(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.runner.Layout(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Result: res, Cached: hit})
}

// readGraph decodes the body as JSON, or YAML when the content type says so.
func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (graph.Graph, error) {
	format := graph.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt != "application/json" {
		format = graph.FormatYAML
	}
	return graph.Decode(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes), format)
}

// layoutOptions applies query parameters over the server defaults.
func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	q := r.URL.Query()

	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("quality"); v != "" {
		opts.Quality = v
	}

	float := func(key string, dst **float64) error {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", key, v)
		}
		*dst = &f
		return nil
	}
	boolean := func(key string, dst **bool) error {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", key, v)
		}
		*dst = &b
		return nil
	}

	var viewport *float64
	var reduce, noCache *bool
	for _, err := range []error{
		float("viewport_width", &viewport),
		float("node_gap", &opts.NodeGap),
		float("rank_gap", &opts.RankGap),
		boolean("compact", &opts.Compact),
		boolean("reduce", &reduce),
		boolean("no_cache", &noCache),
	} {
		if err != nil {
			return pipeline.Options{}, err
		}
	}
	if viewport != nil {
		opts.ViewportWidth = *viewport
	}
	if reduce != nil {
		opts.Reduce = *reduce
	}
	if noCache != nil {
		opts.NoCache = *noCache
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code, err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: errs.UserMessage(err)}})
}

func statusFor(code errs.Code, err error) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidDirection, errs.ErrCodeInvalidFormat:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errs.ErrCodeLayoutFailed:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

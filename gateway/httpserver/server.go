// Package httpserver is the HTTP/JSON front door. Authentication happens
// upstream; the request carries the authenticated login, and the server
// only marshals between JSON and the gateway's submission contract.
package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/overmesh/gridexec/gateway"
	"github.com/overmesh/gridexec/model"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

// LoginHeader carries the upstream-authenticated login.
const LoginHeader = "X-Gridexec-Login"

type submitRequest struct {
	TaskName    string          `json:"taskName"`
	Argument    json.RawMessage `json:"argument,omitempty"`
	Login       string          `json:"login,omitempty"`
	TimeoutMs   int64           `json:"timeoutMs,omitempty"`
	Async       bool            `json:"async,omitempty"`
	Reducer     string          `json:"reducer,omitempty"`
	TargetNodes []string        `json:"targetNodes,omitempty"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type submitResponse struct {
	Status   string        `json:"status"`
	HandleID string        `json:"handleId,omitempty"`
	Result   any           `json:"result,omitempty"`
	Error    *errorPayload `json:"error,omitempty"`
}

type resultResponse struct {
	Finished bool          `json:"finished"`
	Result   any           `json:"result,omitempty"`
	Error    *errorPayload `json:"error,omitempty"`
}

// Server exposes the submission gateway and the audit query surface over
// HTTP.
type Server struct {
	gw  *gateway.Gateway
	srv *http.Server
}

// New creates a Server with its routes mounted.
func New(gw *gateway.Gateway) *Server {
	s := &Server{gw: gw}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Post("/api/v1/tasks", s.handleSubmit)
	r.Get("/api/v1/tasks/{handleID}", s.handleResult)
	r.Get("/api/v1/nodes/{nodeID}/events", s.handleEvents)
	r.Get("/api/v1/subjects/{subjectID}", s.handleSubject)
	r.Handle("/metrics", promhttp.Handler())

	s.srv = &http.Server{Handler: r}
	return s
}

// Serve blocks serving the listener until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	err := s.srv.Serve(lis)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Status: "error",
			Error:  &errorPayload{Kind: derror.KindInternalError, Message: err.Error()},
		})
		return
	}

	login := r.Header.Get(LoginHeader)
	if login == "" {
		login = req.Login
	}

	var argument any
	if len(req.Argument) > 0 {
		if err := json.Unmarshal(req.Argument, &argument); err != nil {
			writeJSON(w, http.StatusBadRequest, submitResponse{
				Status: "error",
				Error:  &errorPayload{Kind: derror.KindInternalError, Message: err.Error()},
			})
			return
		}
	}

	subject := s.gw.Attach(login)
	greq := gateway.Request{
		TaskName:    req.TaskName,
		Argument:    argument,
		Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
		Reducer:     req.Reducer,
		TargetNodes: req.TargetNodes,
	}

	if req.Async {
		handleID, err := s.gw.SubmitAsync(subject, greq)
		if err != nil {
			writeJSON(w, http.StatusOK, submitResponse{Status: "error", Error: toPayload(err)})
			return
		}
		writeJSON(w, http.StatusOK, submitResponse{Status: "success", HandleID: handleID})
		return
	}

	result, err := s.gw.SubmitSync(r.Context(), subject, greq)
	if err != nil {
		writeJSON(w, http.StatusOK, submitResponse{Status: "error", Error: toPayload(err)})
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Status: "success", Result: result})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	handleID := chi.URLParam(r, "handleID")

	resolved, err := s.gw.Resolved(handleID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, resultResponse{Error: toPayload(err)})
		return
	}
	if !resolved {
		writeJSON(w, http.StatusOK, resultResponse{Finished: false})
		return
	}

	result, err := s.gw.Result(r.Context(), handleID)
	if err != nil {
		writeJSON(w, http.StatusOK, resultResponse{Finished: true, Error: toPayload(err)})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Finished: true, Result: result})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	nodeID := model.NodeID(chi.URLParam(r, "nodeID"))

	evs, err := s.gw.QueryEvents(nodeID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": toPayload(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": evs})
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := model.SubjectID(chi.URLParam(r, "subjectID"))

	login, err := s.gw.ResolveSubject(subjectID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": toPayload(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"login": login})
}

func toPayload(err error) *errorPayload {
	return &errorPayload{
		Kind:    derror.KindOf(err),
		Message: err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.L().Warn("writing response failed", zap.Error(err))
	}
}

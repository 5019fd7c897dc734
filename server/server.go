package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/logging"
	"github.com/aegntic/aegnt-unltd/orchestrator"
)

// Options configure the HTTP server.
type Options struct {
	// Addr is the listen address. Defaults to ":8000".
	Addr string
	// Models is the model list advertised on GET /models.
	Models []string
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Server serves the task submission API over one orchestrator instance.
type Server struct {
	orch   *orchestrator.Orchestrator
	models []string
	logger logging.Logger
	http   *http.Server
}

// New creates a server over the orchestrator.
func New(orch *orchestrator.Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:   ":8000",
		Models: []string{"llama4:70b"},
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{orch: orch, models: opts.Models, logger: opts.Logger}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /agents", s.handleCreateAgent)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleGetAgent)
	mux.HandleFunc("DELETE /agents/{id}", s.handleDeleteAgent)
	mux.HandleFunc("POST /agents/{id}/tasks", s.handleExecuteTask)
	mux.HandleFunc("POST /tasks/broadcast", s.handleBroadcastTask)
	mux.HandleFunc("POST /tasks/parallel", s.handleParallelTasks)
	mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("GET /tools/stats", s.handleToolStats)
	mux.HandleFunc("GET /models", s.handleListModels)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// ListenAndServe blocks serving requests until Shutdown or a listener
// failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name           string   `json:"name"`
		Model          string   `json:"model"`
		MaxSteps       int      `json:"max_steps"`
		TimeoutSeconds int      `json:"timeout_seconds"`
		Tools          []string `json:"tools"`
		AutoEvolve     *bool    `json:"auto_evolve"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	cfg := core.DefaultAgentConfig(body.Name)
	if body.Model != "" {
		cfg.Model = body.Model
	}
	if body.MaxSteps > 0 {
		cfg.MaxSteps = body.MaxSteps
	}
	if body.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = body.TimeoutSeconds
	}
	if body.Tools != nil {
		cfg.Tools = body.Tools
	}
	if body.AutoEvolve != nil {
		cfg.AutoEvolve = *body.AutoEvolve
	}

	id := s.orch.CreateAgent(cfg)
	writeJSON(w, http.StatusCreated, map[string]string{"agent_id": id})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.orch.ListAgents()})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	snap, err := s.orch.AgentStatus(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.orch.RemoveAgent(id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", core.ErrAgentNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "agent_id": id})
}

type taskRequest struct {
	Description string         `json:"description"`
	Context     map[string]any `json:"context"`
	Priority    int            `json:"priority"`
}

func (t taskRequest) toTask() *core.Task {
	task := core.NewTask(t.Description)
	if t.Context != nil {
		task.Context = t.Context
	}
	if t.Priority > 0 {
		task.Priority = t.Priority
	}
	return task
}

func (s *Server) handleExecuteTask(w http.ResponseWriter, r *http.Request) {
	var body taskRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Description == "" {
		writeError(w, http.StatusBadRequest, errors.New("description is required"))
		return
	}

	outcome, err := s.orch.ExecuteTask(r.Context(), r.PathValue("id"), body.toTask())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleBroadcastTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		taskRequest
		NameFilter string `json:"name_filter"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Description == "" {
		writeError(w, http.StatusBadRequest, errors.New("description is required"))
		return
	}

	outcomes := s.orch.BroadcastTask(r.Context(), body.toTask(), body.NameFilter)
	writeJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (s *Server) handleParallelTasks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Descriptions  []string `json:"descriptions"`
		MaxConcurrent int      `json:"max_concurrent"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body.Descriptions) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("descriptions are required"))
		return
	}

	tasks := make([]*core.Task, len(body.Descriptions))
	for i, d := range body.Descriptions {
		tasks[i] = core.NewTask(d)
	}
	outcomes, err := s.orch.ExecuteParallel(r.Context(), tasks, body.MaxConcurrent)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.orch.Task(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	defs := s.orch.Registry().List(r.URL.Query().Get("created_by"), r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, map[string]any{"tools": defs})
}

func (s *Server) handleToolStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Registry().Stats())
}

func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": s.models})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Status())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrAgentNotFound),
		errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoAgents):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

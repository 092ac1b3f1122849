package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/logging"
	"github.com/alammarimalak/scrumDealer/internal/planner"
	"github.com/alammarimalak/scrumDealer/internal/taskfile"
)

// --- Graph types (the PERT diagram schema) ---

type GraphNode struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Duration   int    `json:"duration"`
	IsDummy    bool   `json:"is_dummy,omitempty"`
	ES         int    `json:"ES"`
	EF         int    `json:"EF"`
	LS         int    `json:"LS"`
	LF         int    `json:"LF"`
	MT         int    `json:"MT"`
	ML         int    `json:"ML"`
	IsCritical bool   `json:"is_critical"`
	WaveIndex  int    `json:"wave_index"`
}

type GraphEdge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	IsCritical bool   `json:"is_critical"`
}

type GraphMetadata struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
	TotalTasks int    `json:"total_tasks"`
	TotalWaves int    `json:"total_waves"`
	Duration   int    `json:"duration"`
}

type Graph struct {
	Nodes        []GraphNode   `json:"nodes"`
	Edges        []GraphEdge   `json:"edges"`
	CriticalPath []string      `json:"critical_path"`
	Metadata     GraphMetadata `json:"metadata"`
}

// toGraph converts a ProjectPlan into the PERT graph the diagram renders.
// Nodes and edges follow topological order.
func toGraph(plan *planner.ProjectPlan) *Graph {
	ordered := plan.OrderedTasks()
	nodes := make([]GraphNode, 0, len(ordered))
	edges := []GraphEdge{}
	for _, t := range ordered {
		nodes = append(nodes, GraphNode{
			ID:         t.TaskID,
			Title:      t.Title,
			Duration:   t.Duration,
			IsDummy:    t.IsDummy,
			ES:         t.ES,
			EF:         t.EF,
			LS:         t.LS,
			LF:         t.LF,
			MT:         t.MT,
			ML:         t.ML,
			IsCritical: t.IsCritical,
			WaveIndex:  t.WaveIndex,
		})
		for _, pred := range t.Predecessors {
			from := plan.Tasks[pred]
			edges = append(edges, GraphEdge{
				From:       pred,
				To:         t.TaskID,
				IsCritical: from != nil && from.IsCritical && t.IsCritical && from.EF == t.ES,
			})
		}
	}

	return &Graph{
		Nodes:        nodes,
		Edges:        edges,
		CriticalPath: plan.CriticalPath,
		Metadata: GraphMetadata{
			ID:         plan.ID,
			Title:      plan.Title,
			CreatedAt:  plan.CreatedAt.Format(time.RFC3339),
			TotalTasks: plan.TotalTasks,
			TotalWaves: plan.TotalWaves,
			Duration:   plan.Duration,
		},
	}
}

// --- HTTP server ---

// ErrorResponse is the body returned when a request cannot be scheduled.
type ErrorResponse struct {
	Kind   string   `json:"kind"`
	Errors []string `json:"errors"`
}

// Server schedules projects over HTTP. Every request is an independent
// scheduling run; only the last successful graph is shared.
type Server struct {
	config  planner.PlanConfig
	maxBody int64
	log     *logging.Logger

	mu    sync.RWMutex
	graph *Graph
}

// NewServer creates a Server that schedules with config. Request bodies
// larger than maxBody bytes are rejected.
func NewServer(config planner.PlanConfig, maxBody int64, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NopLogger()
	}
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Server{config: config, maxBody: maxBody, log: log.WithPhase("serve")}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleSchedule(w, r)
	})
	mux.HandleFunc("/graph", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleGetGraph(w, r)
	})
	return mux
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Kind: "request", Errors: []string{err.Error()}})
		return
	}

	project, err := taskfile.ParseJSON(body)
	if err != nil {
		var le *taskfile.LoadError
		msgs := []string{err.Error()}
		if errors.As(err, &le) {
			msgs = le.Problems
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Kind: "request", Errors: msgs})
		return
	}

	log := s.log.WithProject(project.Title)
	plan, _, err := planner.Build(project, s.config)
	if err != nil {
		var se *cpm.ScheduleError
		if errors.As(err, &se) {
			log.Info("schedule rejected", "kind", cpm.KindName(err), "tasks", len(project.Tasks))
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Kind: cpm.KindName(err), Errors: cpm.Messages(err)})
			return
		}
		log.Error("schedule failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Errors: []string{err.Error()}})
		return
	}

	g := toGraph(plan)
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	log.Info("scheduled",
		"tasks", plan.TotalTasks,
		"duration", plan.Duration,
		"critical_path", plan.CriticalPath)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "no graph loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

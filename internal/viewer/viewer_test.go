package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/planner"
)

const diamondJSON = `{
  "title": "Diamond",
  "tasks": [
    {"id": "A", "duration": 2},
    {"id": "B", "duration": 3, "predecessors": ["A"]},
    {"id": "C", "duration": 5, "predecessors": "A"},
    {"id": "D", "duration": 1, "predecessors": ["B", "C"]}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := NewServer(planner.PlanConfig{Checks: cpm.DefaultOptions()}, 0, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/schedule", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /schedule: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSchedule_Success(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, diamondJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var plan planner.ProjectPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Duration != 8 || strings.Join(plan.CriticalPath, ",") != "A,C,D" {
		t.Errorf("unexpected plan: duration %d, critical path %v", plan.Duration, plan.CriticalPath)
	}
}

func TestGraph_NotFoundBeforeSchedule(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/graph")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGraph_AfterSchedule(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, diamondJSON)

	resp, err := http.Get(ts.URL + "/graph")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var g Graph
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 4 {
		t.Fatalf("expected 4 nodes and 4 edges, got %d and %d", len(g.Nodes), len(g.Edges))
	}
	if g.Nodes[0].ID != "A" || g.Metadata.Title != "Diamond" {
		t.Errorf("unexpected graph: %+v", g.Metadata)
	}

	critical := 0
	for _, e := range g.Edges {
		if e.IsCritical {
			critical++
		}
	}
	if critical != 2 {
		t.Errorf("expected 2 critical edges (A->C, C->D), got %d", critical)
	}
}

func TestSchedule_FailedKeepsPreviousGraph(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, diamondJSON)

	resp := post(t, ts, `[{"id": "A", "duration": 1, "predecessors": "B"}, {"id": "B", "duration": 1, "predecessors": "A"}]`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Kind != "cyclic_dependency" || len(body.Errors) == 0 {
		t.Errorf("unexpected error body: %+v", body)
	}

	g, err := http.Get(ts.URL + "/graph")
	if err != nil {
		t.Fatal(err)
	}
	defer g.Body.Close()
	if g.StatusCode != http.StatusOK {
		t.Errorf("expected previous graph to survive, got %d", g.StatusCode)
	}
}

func TestSchedule_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"tasks": [`, http.StatusBadRequest},
		{"no tasks", `{"title": "x"}`, http.StatusBadRequest},
		{"bad duration", `[{"id": "A", "duration": "soon"}]`, http.StatusBadRequest},
		{"validation", `[{"id": "A", "duration": 0}]`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/schedule")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestSchedule_BodyTooLarge(t *testing.T) {
	srv := NewServer(planner.PlanConfig{}, 16, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := post(t, ts, diamondJSON)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", resp.StatusCode)
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestSchedule_BodyReadError(t *testing.T) {
	srv := NewServer(planner.PlanConfig{Checks: cpm.DefaultOptions()}, 0, nil)

	req := httptest.NewRequest(http.MethodPost, "/schedule", failingBody{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a broken body, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Kind != "request" || len(body.Errors) != 1 {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv := NewServer(planner.PlanConfig{}, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, "127.0.0.1:0", func(addr string) { addrCh <- addr })
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/graph", addr))
	if err != nil {
		t.Fatalf("GET /graph: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/logging"
	"github.com/alammarimalak/scrumDealer/internal/planner"
)

func writeTaskFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScheduleFiles_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTaskFile(t, dir, "chain.json", `[{"id": "A", "duration": 3}, {"id": "B", "duration": 2, "predecessors": ["A"]}]`),
		writeTaskFile(t, dir, "cycle.yaml", "- id: A\n  duration: 1\n  predecessors: B\n- id: B\n  duration: 1\n  predecessors: A\n"),
		filepath.Join(dir, "missing.json"),
		writeTaskFile(t, dir, "solo.yml", "title: Solo\ntasks:\n  - id: S\n    duration: 4\n"),
	}

	pc := planner.PlanConfig{Checks: cpm.DefaultOptions()}
	outcomes := scheduleFiles(context.Background(), paths, pc, logging.NopLogger())

	if len(outcomes) != len(paths) {
		t.Fatalf("expected %d outcomes, got %d", len(paths), len(outcomes))
	}
	for i, o := range outcomes {
		if o.Path != paths[i] {
			t.Errorf("outcome %d is for %s, expected %s", i, o.Path, paths[i])
		}
	}

	if outcomes[0].Err != nil || outcomes[0].Plan.Duration != 5 {
		t.Errorf("chain: unexpected outcome %+v", outcomes[0])
	}
	if !errors.Is(outcomes[1].Err, cpm.ErrCyclicDependency) {
		t.Errorf("cycle: expected cyclic dependency, got %v", outcomes[1].Err)
	}
	if outcomes[2].Err == nil {
		t.Error("missing: expected load error")
	}
	if outcomes[3].Err != nil || outcomes[3].Plan.Title != "Solo" {
		t.Errorf("solo: unexpected outcome %+v", outcomes[3])
	}
}

func TestScheduleFiles_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeTaskFile(t, dir, "a.json", `[{"id": "A", "duration": 1}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := scheduleFiles(ctx, []string{path}, planner.PlanConfig{}, logging.NopLogger())
	if !errors.Is(outcomes[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", outcomes[0].Err)
	}
}

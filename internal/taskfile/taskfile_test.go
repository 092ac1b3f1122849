package taskfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParsePredecessors(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"A, B,,C", []string{"A", "B", "C"}},
		{"  ", nil},
		{"", nil},
		{"X", []string{"X"}},
	}
	for _, tt := range tests {
		if got := ParsePredecessors(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePredecessors(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseJSON_Project(t *testing.T) {
	data := `{
  "projectTitle": "Website",
  "projectManager": "Alice",
  "teammates": ["Bob", "", "Alice", "Carol"],
  "tasks": [
    {"id": "A", "title": "Design", "duration": 3, "predecessors": [], "subtasks": ["wireframes"]},
    {"id": "B", "duration": "2", "predecessors": "A"},
    {"id": "X", "isDummy": true, "duration": 7, "predecessors": ["A"]},
    {"id": "C", "duration": 1, "predecessors": "B, X", "extra": {"ignored": true}}
  ]
}`
	p, err := ParseJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	if p.Title != "Website" || p.Manager != "Alice" {
		t.Errorf("unexpected header: %q / %q", p.Title, p.Manager)
	}
	if got := p.Teammates(); !reflect.DeepEqual(got, []string{"Bob", "Carol"}) {
		t.Errorf("Teammates() = %v", got)
	}
	if p.TeamSize() != 3 {
		t.Errorf("TeamSize() = %d, want 3", p.TeamSize())
	}
	if len(p.Tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(p.Tasks))
	}

	if p.Tasks[0].Title != "Design" || !reflect.DeepEqual(p.Tasks[0].Subtasks, []string{"wireframes"}) {
		t.Errorf("task A decoded as %+v", p.Tasks[0])
	}
	if p.Tasks[1].Duration != 2 || !reflect.DeepEqual(p.Tasks[1].Predecessors, []string{"A"}) {
		t.Errorf("task B decoded as %+v", p.Tasks[1])
	}
	if !p.Tasks[2].IsDummy || p.Tasks[2].Duration != 0 {
		t.Errorf("dummy X should load with duration 0, got %+v", p.Tasks[2])
	}
	if !reflect.DeepEqual(p.Tasks[3].Predecessors, []string{"B", "X"}) {
		t.Errorf("task C predecessors = %v", p.Tasks[3].Predecessors)
	}
}

func TestParseJSON_BareArray(t *testing.T) {
	p, err := ParseJSON([]byte(`[{"id": 1, "duration": 2}, {"id": 2, "duration": 1, "predecessors": [1]}]`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if p.Tasks[0].ID != "1" || !reflect.DeepEqual(p.Tasks[1].Predecessors, []string{"1"}) {
		t.Errorf("numeric ids not converted: %+v", p.Tasks)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"tasks": [`))
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("expected *LoadError, got %v", err)
		}
	})

	t.Run("no tasks", func(t *testing.T) {
		if _, err := ParseJSON([]byte(`{"title": "x"}`)); err == nil {
			t.Error("expected error for missing task array")
		}
	})

	t.Run("collects every bad duration", func(t *testing.T) {
		_, err := ParseJSON([]byte(`[
			{"id": "A", "duration": "three"},
			{"id": "B", "duration": 1.5},
			{"id": "C", "duration": true}
		]`))
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("expected *LoadError, got %v", err)
		}
		if len(le.Problems) != 3 {
			t.Errorf("expected 3 problems, got %v", le.Problems)
		}
	})
}

func TestParseYAML(t *testing.T) {
	data := `title: Mobile app
manager: Dana
team: [Eve, Dana]
tasks:
  - id: A
    duration: 4
  - id: B
    duration: "2"
    predecessors: A
  - id: D
    dummy: true
    predecessors: [A]
  - id: C
    duration: 1
    predecessors:
      - B
      - D
`
	p, err := ParseYAML([]byte(data))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if p.Title != "Mobile app" || p.TeamSize() != 2 {
		t.Errorf("unexpected header: %+v", p)
	}
	if len(p.Tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(p.Tasks))
	}
	if p.Tasks[1].Duration != 2 || !reflect.DeepEqual(p.Tasks[1].Predecessors, []string{"A"}) {
		t.Errorf("task B decoded as %+v", p.Tasks[1])
	}
	if !p.Tasks[2].IsDummy {
		t.Error("expected D to be a dummy")
	}
	if !reflect.DeepEqual(p.Tasks[3].Predecessors, []string{"B", "D"}) {
		t.Errorf("task C predecessors = %v", p.Tasks[3].Predecessors)
	}
}

func TestParseYAML_BadDuration(t *testing.T) {
	_, err := ParseYAML([]byte("- id: A\n  duration: soon\n"))
	if err == nil || !strings.Contains(err.Error(), "non-numeric duration") {
		t.Errorf("expected non-numeric duration error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("json by extension", func(t *testing.T) {
		path := writeFile(t, "release.json", `[{"id": "A", "duration": 1}]`)
		p, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if p.Title != "release" {
			t.Errorf("expected title from file name, got %q", p.Title)
		}
	})

	t.Run("sniffed yaml", func(t *testing.T) {
		path := writeFile(t, "tasks.txt", "- id: A\n  duration: 1\n")
		p, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(p.Tasks) != 1 {
			t.Errorf("expected 1 task, got %d", len(p.Tasks))
		}
	})

	t.Run("error names the file", func(t *testing.T) {
		path := writeFile(t, "broken.json", `{`)
		_, err := Load(path)
		if err == nil || !strings.HasPrefix(err.Error(), path) {
			t.Errorf("expected error prefixed with path, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

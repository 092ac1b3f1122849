// Package taskfile reads project task lists from JSON or YAML files.
package taskfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alammarimalak/scrumDealer/internal/graph"
)

// Project is a task list together with the people working on it.
type Project struct {
	Title   string       `json:"title" yaml:"title"`
	Manager string       `json:"manager,omitempty" yaml:"manager,omitempty"`
	Team    []string     `json:"team,omitempty" yaml:"team,omitempty"`
	Tasks   []graph.Task `json:"tasks" yaml:"tasks"`
}

// Teammates returns the team members other than the manager, skipping blanks.
func (p *Project) Teammates() []string {
	var out []string
	for _, m := range p.Team {
		m = strings.TrimSpace(m)
		if m != "" && m != p.Manager {
			out = append(out, m)
		}
	}
	return out
}

// TeamSize counts the manager plus every teammate.
func (p *Project) TeamSize() int {
	return 1 + len(p.Teammates())
}

// LoadError lists every problem found while decoding a task file.
type LoadError struct {
	Path     string
	Problems []string
}

func (e *LoadError) Error() string {
	prefix := "load tasks"
	if e.Path != "" {
		prefix = e.Path
	}
	return prefix + ": " + strings.Join(e.Problems, "; ")
}

// Load reads a project from path. The format follows the extension (.json,
// .yaml, .yml); other files are sniffed.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var p *Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		p, err = ParseJSON(data)
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	default:
		p, err = Parse(data)
	}
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}

	if p.Title == "" {
		p.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes data as JSON when it starts with '{' or '[', as YAML otherwise.
func Parse(data []byte) (*Project, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParsePredecessors splits a comma-separated predecessor field, dropping
// blanks: "A, B,,C" yields [A B C].
func ParsePredecessors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

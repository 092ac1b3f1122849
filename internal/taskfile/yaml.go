package taskfile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alammarimalak/scrumDealer/internal/graph"
)

// idList accepts either a YAML sequence or a comma-separated scalar.
type idList []string

func (l *idList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = ParsePredecessors(value.Value)
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := value.Decode(&ids); err != nil {
			return err
		}
		*l = ids
		return nil
	default:
		return fmt.Errorf("line %d: predecessors must be a list or a comma-separated string", value.Line)
	}
}

type yamlTask struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Description  string    `yaml:"description"`
	Subtasks     []string  `yaml:"subtasks"`
	Responsible  string    `yaml:"responsible"`
	Duration     yaml.Node `yaml:"duration"`
	Predecessors idList    `yaml:"predecessors"`
	IsDummy      bool      `yaml:"isDummy"`
	Dummy        bool      `yaml:"dummy"`
}

type yamlProject struct {
	Title   string     `yaml:"title"`
	Manager string     `yaml:"manager"`
	Team    []string   `yaml:"team"`
	Tasks   []yamlTask `yaml:"tasks"`
}

// ParseYAML decodes a project document or a bare task sequence.
func ParseYAML(data []byte) (*Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Problems: []string{"invalid YAML: " + err.Error()}}
	}
	if len(doc.Content) == 0 {
		return nil, &LoadError{Problems: []string{"no task array found"}}
	}

	var yp yamlProject
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&yp.Tasks); err != nil {
			return nil, &LoadError{Problems: []string{err.Error()}}
		}
	case yaml.MappingNode:
		if err := root.Decode(&yp); err != nil {
			return nil, &LoadError{Problems: []string{err.Error()}}
		}
	default:
		return nil, &LoadError{Problems: []string{"no task array found"}}
	}

	p := &Project{
		Title:   yp.Title,
		Manager: strings.TrimSpace(yp.Manager),
		Team:    yp.Team,
		Tasks:   make([]graph.Task, 0, len(yp.Tasks)),
	}

	var problems []string
	for _, yt := range yp.Tasks {
		t := graph.Task{
			ID:           yt.ID,
			Title:        yt.Title,
			Description:  yt.Description,
			Subtasks:     yt.Subtasks,
			Responsible:  yt.Responsible,
			Predecessors: []string(yt.Predecessors),
			IsDummy:      yt.IsDummy || yt.Dummy,
		}
		if !t.IsDummy && yt.Duration.Kind == yaml.ScalarNode && yt.Duration.Tag != "!!null" {
			n, err := strconv.Atoi(strings.TrimSpace(yt.Duration.Value))
			if err != nil {
				problems = append(problems, fmt.Sprintf("task %q has a non-numeric duration: %q", t.ID, yt.Duration.Value))
			}
			t.Duration = n
		}
		p.Tasks = append(p.Tasks, t)
	}

	if len(problems) > 0 {
		return nil, &LoadError{Problems: problems}
	}
	return p, nil
}

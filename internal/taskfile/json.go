package taskfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/alammarimalak/scrumDealer/internal/graph"
)

// ParseJSON decodes a project document or a bare task array. Decoding is
// lenient: predecessors may be an array or a comma-separated string,
// durations may be numbers or numeric strings, unknown fields are ignored.
func ParseJSON(data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, &LoadError{Problems: []string{"invalid JSON"}}
	}

	root := gjson.ParseBytes(data)
	p := &Project{}
	tasks := root
	if root.IsObject() {
		p.Title = first(root, "title", "projectTitle").String()
		p.Manager = strings.TrimSpace(first(root, "manager", "projectManager").String())
		first(root, "team", "teammates").ForEach(func(_, m gjson.Result) bool {
			p.Team = append(p.Team, m.String())
			return true
		})
		tasks = root.Get("tasks")
	}

	if !tasks.IsArray() {
		return nil, &LoadError{Problems: []string{"no task array found"}}
	}

	var problems []string
	tasks.ForEach(func(_, item gjson.Result) bool {
		t, err := decodeTask(item)
		if err != nil {
			problems = append(problems, err.Error())
		}
		p.Tasks = append(p.Tasks, t)
		return true
	})

	if len(problems) > 0 {
		return nil, &LoadError{Problems: problems}
	}
	return p, nil
}

func decodeTask(item gjson.Result) (graph.Task, error) {
	t := graph.Task{
		ID:          item.Get("id").String(),
		Title:       first(item, "title", "name").String(),
		Description: item.Get("description").String(),
		Responsible: item.Get("responsible").String(),
		IsDummy:     first(item, "isDummy", "is_dummy", "dummy").Bool(),
	}

	switch preds := item.Get("predecessors"); {
	case preds.IsArray():
		preds.ForEach(func(_, p gjson.Result) bool {
			t.Predecessors = append(t.Predecessors, p.String())
			return true
		})
	case preds.Type == gjson.String:
		t.Predecessors = ParsePredecessors(preds.String())
	}

	switch subs := item.Get("subtasks"); {
	case subs.IsArray():
		subs.ForEach(func(_, s gjson.Result) bool {
			t.Subtasks = append(t.Subtasks, s.String())
			return true
		})
	case subs.Type == gjson.String && strings.TrimSpace(subs.String()) != "":
		t.Subtasks = []string{subs.String()}
	}

	if t.IsDummy {
		return t, nil
	}

	d := item.Get("duration")
	switch d.Type {
	case gjson.Null:
	case gjson.Number:
		if d.Num != math.Trunc(d.Num) {
			return t, fmt.Errorf("task %q has a fractional duration: %s", t.ID, d.Raw)
		}
		t.Duration = int(d.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(d.Str))
		if err != nil {
			return t, fmt.Errorf("task %q has a non-numeric duration: %q", t.ID, d.Str)
		}
		t.Duration = n
	default:
		return t, fmt.Errorf("task %q has a non-numeric duration: %s", t.ID, d.Raw)
	}
	return t, nil
}

// first returns the value of the first key present in obj.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := obj.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

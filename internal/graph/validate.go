package graph

import (
	"fmt"
	"strings"
)

// Validate runs every structural check on a normalized task list and returns
// all violations found. An empty result means the list can be turned into a
// graph and traversed.
func Validate(tasks []Task) []string {
	return append(ValidateRecords(tasks), ValidateEndpoints(tasks)...)
}

// ValidateRecords checks ids, durations and predecessor references.
func ValidateRecords(tasks []Task) []string {
	if len(tasks) == 0 {
		return []string{"No tasks to schedule. Add at least one task."}
	}

	var problems []string
	ids := make(map[string]bool, len(tasks))
	folded := make(map[string]bool, len(tasks))

	for i, t := range tasks {
		if t.ID == "" {
			problems = append(problems, fmt.Sprintf("Task at position %d has no ID", i+1))
			continue
		}
		ids[t.ID] = true

		key := strings.ToLower(t.ID)
		if folded[key] {
			problems = append(problems, fmt.Sprintf("Duplicate task ID: %q. Task IDs must be unique.", t.ID))
		}
		folded[key] = true

		if !t.IsDummy && t.Duration < 1 {
			problems = append(problems, fmt.Sprintf("Task %q has invalid duration: %d. Duration must be at least 1.", t.ID, t.Duration))
		}
	}

	valid := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != "" {
			valid = append(valid, t.ID)
		}
	}

	for _, t := range tasks {
		if t.ID == "" {
			continue
		}
		var unknown []string
		for _, p := range t.Predecessors {
			if !ids[p] {
				unknown = append(unknown, p)
			}
		}
		if len(unknown) > 0 {
			problems = append(problems, fmt.Sprintf("Task %q has invalid predecessors: %s. Valid task IDs are: %s",
				t.ID, strings.Join(unknown, ", "), strings.Join(valid, ", ")))
		}
		for _, p := range t.Predecessors {
			if p == t.ID {
				problems = append(problems, fmt.Sprintf("Task %q cannot be its own predecessor", t.ID))
				break
			}
		}
	}

	return problems
}

// ValidateEndpoints checks that the list has a start task and an end task.
// With valid references, a missing endpoint always means a circular dependency.
func ValidateEndpoints(tasks []Task) []string {
	if len(tasks) == 0 {
		return nil
	}

	var problems []string
	referenced := make(map[string]bool)
	hasStart := false
	for _, t := range tasks {
		if len(t.Predecessors) == 0 {
			hasStart = true
		}
		for _, p := range t.Predecessors {
			if p != t.ID {
				referenced[p] = true
			}
		}
	}

	if !hasStart {
		problems = append(problems, "No start task found. At least one task must have no predecessors.")
	}

	hasEnd := false
	for _, t := range tasks {
		if !referenced[t.ID] {
			hasEnd = true
			break
		}
	}
	if !hasEnd {
		problems = append(problems, "No end task found. At least one task must not be a predecessor of any other task.")
	}

	return problems
}

package cpm

import (
	"fmt"
	"strings"

	"github.com/alammarimalak/scrumDealer/internal/graph"
)

// checkNetwork runs the pre-scheduling shape checks: a single start point and
// no task cut off from the project flow. Single-task projects always pass.
func checkNetwork(g *graph.TaskGraph, opts Options) error {
	if g.TaskCount() <= 1 {
		return nil
	}

	if opts.MultipleStarts {
		if starts := g.Starts(); len(starts) > 1 {
			return newError(ErrMultipleStarts, starts, fmt.Sprintf(
				"Multiple starting points detected: %s. All tasks should start from a single point or be connected through predecessors.",
				strings.Join(starts, ", ")))
		}
	}

	if opts.Isolated {
		if isolated := g.Isolated(); len(isolated) > 0 {
			return newError(ErrIsolatedTasks, isolated, fmt.Sprintf(
				"The following tasks are completely isolated from the project network: %s. Each task must be connected to the project flow.",
				strings.Join(isolated, ", ")))
		}
	}
	return nil
}

// CheckDanglingEnds flags end tasks that finish before the project does. Such a
// task feeds nothing and usually means a dependency edge is missing. Several end
// tasks are accepted when they all finish at the project end.
func CheckDanglingEnds(r *Result) error {
	waitedFor := make(map[string]bool)
	for _, t := range r.Tasks {
		for _, p := range t.Predecessors {
			waitedFor[p] = true
		}
	}

	var ends []ScheduledTask
	for _, t := range r.Tasks {
		if !waitedFor[t.ID] {
			ends = append(ends, t)
		}
	}
	if len(ends) <= 1 {
		return nil
	}

	final := ends[0]
	for _, t := range ends[1:] {
		if t.EF > final.EF {
			final = t
		}
	}

	var early []string
	for _, t := range ends {
		if t.EF < final.EF {
			early = append(early, t.ID)
		}
	}
	if len(early) == 0 {
		return nil
	}

	return newError(ErrDanglingEnd, early, fmt.Sprintf(
		"These tasks end early without being connected to later tasks: %s. Consider adding dependencies to connect them to the final task (%s).",
		strings.Join(early, ", "), final.ID))
}

// CheckDummies rejects dummy tasks with zero total float. Dummies only express
// ordering and must never carry the longest path.
func CheckDummies(r *Result) error {
	var ids []string
	for _, t := range r.Tasks {
		if t.IsDummy && t.MT == 0 {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return newError(ErrDummyOnCriticalPath, ids, fmt.Sprintf(
		"Dummy tasks cannot appear on the critical path. Found: %s", strings.Join(ids, ", ")))
}

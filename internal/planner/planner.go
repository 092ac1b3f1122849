package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/taskfile"
)

// Build schedules a project with the checks in config and turns the result
// into a plan. Scheduling failures are returned unwrapped so callers can
// inspect them with errors.Is.
func Build(p *taskfile.Project, config PlanConfig) (*ProjectPlan, *cpm.Result, error) {
	result, err := cpm.Analyze(p.Tasks, config.Checks)
	if err != nil {
		return nil, nil, err
	}

	plan, err := Generate(p, result, config)
	if err != nil {
		return nil, nil, fmt.Errorf("generate plan: %w", err)
	}
	return plan, result, nil
}

// Generate creates a ProjectPlan from a schedule.
func Generate(p *taskfile.Project, result *cpm.Result, config PlanConfig) (*ProjectPlan, error) {
	if result == nil {
		return nil, fmt.Errorf("no schedule")
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled Project"
	}

	plan := &ProjectPlan{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		Title:        title,
		Manager:      p.Manager,
		Team:         p.Teammates(),
		TeamSize:     p.TeamSize(),
		TotalTasks:   len(result.Tasks),
		TotalWaves:   len(result.Waves),
		Duration:     result.TotalDuration,
		CriticalPath: result.CriticalPath,
		Order:        result.TopoOrder,
		Tasks:        make(map[string]*PlannedTask, len(result.Tasks)),
		Deps: TaskDeps{
			Predecessors: make(map[string][]string, len(result.Tasks)),
			Successors:   make(map[string][]string, len(result.Tasks)),
		},
		Config: config,
	}
	plan.CriticalTasks = len(plan.CriticalPath)
	if config.ReadableDuration {
		plan.ReadableDuration = ReadableDuration(plan.Duration)
	}

	for _, st := range result.Tasks {
		if len(st.Subtasks) > 0 {
			plan.TasksWithSubtasks++
		}
		preds := append([]string{}, st.Predecessors...)
		plan.Deps.Predecessors[st.ID] = preds
		if _, ok := plan.Deps.Successors[st.ID]; !ok {
			plan.Deps.Successors[st.ID] = []string{}
		}
	}
	// Successor lists follow topological order.
	for _, st := range result.Tasks {
		for _, pred := range st.Predecessors {
			plan.Deps.Successors[pred] = append(plan.Deps.Successors[pred], st.ID)
		}
	}

	for _, wave := range result.Waves {
		pw := PlanWave{
			Index:      wave.Index,
			Start:      wave.Start,
			IsCritical: wave.IsCritical,
		}

		deps := make(map[int]bool)
		for _, taskID := range wave.TaskIDs {
			st, ok := result.Task(taskID)
			if !ok {
				return nil, fmt.Errorf("wave %d references unknown task %s", wave.Index, taskID)
			}
			for _, pred := range st.Predecessors {
				if ps, ok := result.Task(pred); ok {
					deps[ps.Wave] = true
				}
			}

			pt := plannedTask(st)
			pw.Tasks = append(pw.Tasks, pt)
			plan.Tasks[taskID] = &pt
		}

		for w := range deps {
			pw.DependsOn = append(pw.DependsOn, w)
		}
		sort.Ints(pw.DependsOn)

		plan.Waves = append(plan.Waves, pw)
	}

	return plan, nil
}

func plannedTask(st cpm.ScheduledTask) PlannedTask {
	return PlannedTask{
		TaskID:       st.ID,
		Title:        st.Title,
		Description:  st.Description,
		Subtasks:     st.Subtasks,
		Responsible:  st.Responsible,
		Duration:     st.Duration,
		IsDummy:      st.IsDummy,
		Predecessors: append([]string{}, st.Predecessors...),
		ES:           st.ES,
		EF:           st.EF,
		LS:           st.LS,
		LF:           st.LF,
		MT:           st.MT,
		ML:           st.ML,
		IsCritical:   st.IsCritical,
		WaveIndex:    st.Wave,
	}
}

// ReadableDuration renders a day count in months of 30 days. Leftover days
// are shown for projects under a month, or when they add up to a week.
func ReadableDuration(days int) string {
	if days <= 0 {
		return "0 days"
	}

	months := days / 30
	remaining := days % 30

	if months == 12 && remaining == 0 {
		return "1 year"
	}
	if days >= 28 && days <= 31 {
		return "~1 month"
	}

	var parts []string
	if months > 0 {
		parts = append(parts, plural(months, "month", "months"))
	}
	if remaining > 0 && (months == 0 || remaining >= 7) {
		parts = append(parts, plural(remaining, "day", "days"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

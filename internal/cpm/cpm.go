package cpm

import (
	"sort"
	"strings"

	"github.com/alammarimalak/scrumDealer/internal/graph"
)

// Options selects the project-level checks layered over the CPM computation.
// The zero value runs the bare engine.
type Options struct {
	MultipleStarts      bool `json:"multiple_starts"`        // reject more than one task without predecessors
	Isolated            bool `json:"isolated"`               // reject tasks disconnected from the network
	DanglingEnds        bool `json:"dangling_ends"`          // reject end tasks finishing before the project does
	DummyOnCriticalPath bool `json:"dummy_on_critical_path"` // reject dummy tasks with zero total float
}

// DefaultOptions enables every check.
func DefaultOptions() Options {
	return Options{
		MultipleStarts:      true,
		Isolated:            true,
		DanglingEnds:        true,
		DummyOnCriticalPath: true,
	}
}

// Schedule runs the bare CPM engine on tasks: validation, cycle detection,
// topological ordering, forward and backward passes and float. The input is
// never modified; the result holds fresh records.
func Schedule(tasks []graph.Task) (*Result, error) {
	return Analyze(tasks, Options{})
}

// Analyze schedules tasks and applies the checks enabled in opts. Any failure
// aborts the whole attempt with a *ScheduleError; no partial result is returned.
func Analyze(tasks []graph.Task, opts Options) (*Result, error) {
	normalized := graph.Normalize(tasks)
	endpoints := graph.ValidateEndpoints(normalized)
	if problems := graph.ValidateRecords(normalized); len(problems) > 0 {
		return nil, newError(ErrValidation, nil, append(problems, endpoints...)...)
	}

	g := graph.New(normalized)
	if len(endpoints) > 0 {
		// A list without a start or an end is circular; name the loops.
		if cycles := g.Cycles(); len(cycles) > 0 {
			return nil, cycleError(cycles, endpoints...)
		}
		return nil, newError(ErrValidation, nil, endpoints...)
	}

	if err := checkNetwork(g, opts); err != nil {
		return nil, err
	}

	if cycles := g.Cycles(); len(cycles) > 0 {
		return nil, cycleError(cycles)
	}

	order, ok := g.TopoOrder()
	if !ok {
		return nil, newError(ErrOrdering, nil,
			"Unable to determine task order. There may be circular dependencies.")
	}

	result := compute(g, order)

	if opts.DanglingEnds {
		if err := CheckDanglingEnds(result); err != nil {
			return nil, err
		}
	}
	if opts.DummyOnCriticalPath {
		if err := CheckDummies(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func cycleError(cycles [][]string, extra ...string) error {
	msgs := make([]string, 0, len(cycles)+len(extra))
	seen := make(map[string]bool)
	var ids []string
	for _, c := range cycles {
		msgs = append(msgs, "Circular dependency detected: "+strings.Join(c, " → "))
		for _, id := range c {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return newError(ErrCyclicDependency, ids, append(msgs, extra...)...)
}

// compute performs the forward pass, the backward pass and the float
// calculation over a topological order of g.
func compute(g *graph.TaskGraph, order []int) *Result {
	n := g.TaskCount()
	es := make([]int, n)
	ef := make([]int, n)
	ls := make([]int, n)
	lf := make([]int, n)

	// Forward pass: ES = max(EF of predecessors)
	for _, i := range order {
		start := 0
		for _, p := range g.Preds[i] {
			if ef[p] > start {
				start = ef[p]
			}
		}
		es[i] = start
		ef[i] = start + g.Tasks[i].Duration
	}

	totalDuration := 0
	for _, i := range order {
		if ef[i] > totalDuration {
			totalDuration = ef[i]
		}
	}

	// Backward pass: LF = min(LS of successors), project finish for end tasks
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		finish := totalDuration
		for j, s := range g.Succs[i] {
			if j == 0 || ls[s] < finish {
				finish = ls[s]
			}
		}
		lf[i] = finish
		ls[i] = finish - g.Tasks[i].Duration
	}

	result := &Result{
		Tasks:         make([]ScheduledTask, 0, n),
		TotalDuration: totalDuration,
		TopoOrder:     make([]string, 0, n),
	}

	for _, i := range order {
		free := 0
		for j, s := range g.Succs[i] {
			if gap := es[s] - ef[i]; j == 0 || gap < free {
				free = gap
			}
		}

		st := ScheduledTask{
			Task: g.Tasks[i],
			ES:   es[i],
			EF:   ef[i],
			LS:   ls[i],
			LF:   lf[i],
			MT:   ls[i] - es[i],
			ML:   free,
		}
		st.IsCritical = st.MT == 0 && !st.IsDummy

		result.Tasks = append(result.Tasks, st)
		result.TopoOrder = append(result.TopoOrder, st.ID)
		if st.IsCritical {
			result.CriticalPath = append(result.CriticalPath, st.ID)
		}
	}

	result.reindex()
	result.Waves = computeWaves(result)
	return result
}

func (r *Result) reindex() {
	r.index = make(map[string]int, len(r.Tasks))
	for i, t := range r.Tasks {
		r.index[t.ID] = i
	}
}

// computeWaves groups tasks by their earliest start time. Within a wave tasks
// keep topological order, critical tasks first.
func computeWaves(result *Result) []Wave {
	esGroups := make(map[int][]string)
	for _, t := range result.Tasks {
		esGroups[t.ES] = append(esGroups[t.ES], t.ID)
	}

	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		taskIDs := esGroups[es]

		hasCritical := false
		for _, id := range taskIDs {
			idx := result.index[id]
			result.Tasks[idx].Wave = i
			if result.Tasks[idx].IsCritical {
				hasCritical = true
			}
		}

		sort.SliceStable(taskIDs, func(a, b int) bool {
			aCrit := result.Tasks[result.index[taskIDs[a]]].IsCritical
			bCrit := result.Tasks[result.index[taskIDs[b]]].IsCritical
			return aCrit && !bCrit
		})

		waves[i] = Wave{
			Index:      i,
			Start:      es,
			TaskIDs:    taskIDs,
			IsCritical: hasCritical,
		}
	}

	return waves
}

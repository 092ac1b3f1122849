package cpm

import "github.com/alammarimalak/scrumDealer/internal/graph"

// Result holds the complete critical path analysis.
type Result struct {
	Tasks         []ScheduledTask `json:"tasks"`         // topological order
	CriticalPath  []string        `json:"critical_path"` // ordered task IDs on critical path
	TotalDuration int             `json:"total_duration"`
	Waves         []Wave          `json:"waves"` // parallelizable groups
	TopoOrder     []string        `json:"topo_order"`

	index map[string]int
}

// ScheduledTask is an input task annotated with its schedule.
type ScheduledTask struct {
	graph.Task
	ES int `json:"ES"` // earliest start
	EF int `json:"EF"` // earliest finish
	LS int `json:"LS"` // latest start
	LF int `json:"LF"` // latest finish
	MT int `json:"MT"` // total float
	ML int `json:"ML"` // free float

	IsCritical bool `json:"is_critical"`
	Wave       int  `json:"wave"`
}

// Wave represents a group of tasks that can start at the same time.
type Wave struct {
	Index      int      `json:"index"`
	Start      int      `json:"start"`
	TaskIDs    []string `json:"task_ids"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical path tasks
}

// Task returns the scheduled task with the given id.
func (r *Result) Task(id string) (ScheduledTask, bool) {
	if r.index == nil {
		for _, t := range r.Tasks {
			if t.ID == id {
				return t, true
			}
		}
		return ScheduledTask{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return ScheduledTask{}, false
	}
	return r.Tasks[i], true
}

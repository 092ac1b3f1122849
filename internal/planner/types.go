package planner

import (
	"time"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
)

// TaskDeps holds per-task predecessor and successor lists.
type TaskDeps struct {
	Predecessors map[string][]string `json:"predecessors"`
	Successors   map[string][]string `json:"successors"`
}

// ProjectPlan is the exported result of scheduling one project.
type ProjectPlan struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Title    string   `json:"title"`
	Manager  string   `json:"manager,omitempty"`
	Team     []string `json:"team,omitempty"` // teammates, manager excluded
	TeamSize int      `json:"team_size"`

	TotalTasks        int    `json:"total_tasks"`
	TasksWithSubtasks int    `json:"tasks_with_subtasks"`
	CriticalTasks     int    `json:"critical_tasks"`
	TotalWaves        int    `json:"total_waves"`
	Duration          int    `json:"duration"` // days
	ReadableDuration  string `json:"readable_duration,omitempty"`

	CriticalPath []string                `json:"critical_path"`
	Order        []string                `json:"order"` // topological order
	Waves        []PlanWave              `json:"waves"`
	Tasks        map[string]*PlannedTask `json:"tasks"`
	Deps         TaskDeps                `json:"deps"`
	Config       PlanConfig              `json:"config"`
}

// PlanWave is a group of tasks sharing the same earliest start.
type PlanWave struct {
	Index      int           `json:"index"`
	Start      int           `json:"start"`
	Tasks      []PlannedTask `json:"tasks"`
	DependsOn  []int         `json:"depends_on"`
	IsCritical bool          `json:"is_critical"`
}

// PlannedTask is a task with its schedule and presentation fields.
type PlannedTask struct {
	TaskID       string   `json:"task_id"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Subtasks     []string `json:"subtasks,omitempty"`
	Responsible  string   `json:"responsible,omitempty"`
	Duration     int      `json:"duration"`
	IsDummy      bool     `json:"is_dummy,omitempty"`
	Predecessors []string `json:"predecessors"`

	ES int `json:"ES"`
	EF int `json:"EF"`
	LS int `json:"LS"`
	LF int `json:"LF"`
	MT int `json:"MT"`
	ML int `json:"ML"`

	IsCritical bool `json:"is_critical"`
	WaveIndex  int  `json:"wave_index"`
}

// PlanConfig records how a plan was produced.
type PlanConfig struct {
	Checks             cpm.Options `json:"checks"`
	ReadableDuration   bool        `json:"readable_duration"`
	ReportTemplatePath string      `json:"report_template_path,omitempty"`
}

// OrderedTasks returns the planned tasks in topological order.
func (p *ProjectPlan) OrderedTasks() []*PlannedTask {
	out := make([]*PlannedTask, 0, len(p.Order))
	for _, id := range p.Order {
		if t, ok := p.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

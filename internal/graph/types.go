package graph

// Task is a single unit of project work as entered in the task editor.
type Task struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Subtasks     []string `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	Responsible  string   `json:"responsible,omitempty" yaml:"responsible,omitempty"`
	Duration     int      `json:"duration" yaml:"duration"`
	Predecessors []string `json:"predecessors" yaml:"predecessors"`
	IsDummy      bool     `json:"isDummy" yaml:"isDummy"`
}

// TaskGraph is the dependency network of a task list. Tasks keep their input
// order; edges are stored as indexes into Tasks.
type TaskGraph struct {
	Tasks []Task
	Preds [][]int // task -> tasks it waits for, in predecessor-list order
	Succs [][]int // task -> tasks waiting for it, in input order

	index map[string]int
}

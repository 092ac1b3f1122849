package graph

import "strings"

// Normalize returns a copy of tasks ready for validation: ids and predecessor
// references are trimmed, blank and repeated references dropped (first
// occurrence wins) and dummy tasks forced to zero duration. The input slice and its tasks are never modified.
func Normalize(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		nt := t
		nt.ID = strings.TrimSpace(t.ID)
		nt.Predecessors = make([]string, 0, len(t.Predecessors))
		seen := make(map[string]bool, len(t.Predecessors))
		for _, p := range t.Predecessors {
			if p = strings.TrimSpace(p); p != "" && !seen[p] {
				seen[p] = true
				nt.Predecessors = append(nt.Predecessors, p)
			}
		}
		if t.Subtasks != nil {
			nt.Subtasks = append([]string(nil), t.Subtasks...)
		}
		if nt.IsDummy {
			nt.Duration = 0
		}
		out[i] = nt
	}
	return out
}

// New indexes tasks and wires their predecessor edges. References to unknown
// tasks and repeated references are skipped; run Validate first to report them.
func New(tasks []Task) *TaskGraph {
	g := &TaskGraph{
		Tasks: tasks,
		Preds: make([][]int, len(tasks)),
		Succs: make([][]int, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for i, t := range tasks {
		if _, dup := g.index[t.ID]; !dup {
			g.index[t.ID] = i
		}
	}

	// Walking tasks in input order keeps every successor list in input order,
	// which the topological sort relies on for its tie-break.
	for i, t := range tasks {
		seen := make(map[int]bool, len(t.Predecessors))
		for _, p := range t.Predecessors {
			pi, ok := g.index[p]
			if !ok || seen[pi] {
				continue
			}
			seen[pi] = true
			g.Preds[i] = append(g.Preds[i], pi)
			g.Succs[pi] = append(g.Succs[pi], i)
		}
	}
	return g
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// Index returns the position of the task with the given id.
func (g *TaskGraph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the id of the task at position i.
func (g *TaskGraph) ID(i int) string {
	return g.Tasks[i].ID
}

// Starts returns the ids of tasks without predecessors, in input order.
func (g *TaskGraph) Starts() []string {
	var ids []string
	for i, t := range g.Tasks {
		if len(t.Predecessors) == 0 {
			ids = append(ids, g.ID(i))
		}
	}
	return ids
}

// Ends returns the ids of tasks no other task waits for, in input order.
func (g *TaskGraph) Ends() []string {
	var ids []string
	for i := range g.Tasks {
		if len(g.Succs[i]) == 0 {
			ids = append(ids, g.ID(i))
		}
	}
	return ids
}

// Isolated returns the non-dummy tasks that cannot be reached from the first
// task when edges are followed in either direction.
func (g *TaskGraph) Isolated() []string {
	if len(g.Tasks) == 0 {
		return nil
	}

	visited := make([]bool, len(g.Tasks))
	stack := []int{0}
	visited[0] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, adj := range [][]int{g.Succs[n], g.Preds[n]} {
			for _, m := range adj {
				if !visited[m] {
					visited[m] = true
					stack = append(stack, m)
				}
			}
		}
	}

	var ids []string
	for i, t := range g.Tasks {
		if !visited[i] && !t.IsDummy {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// TopoOrder performs Kahn's algorithm. Ready tasks are served first-come
// first-served: the queue is seeded in input order and successors are released
// in input order. ok is false when some tasks could not be ordered.
func (g *TaskGraph) TopoOrder() (order []int, ok bool) {
	inDegree := make([]int, len(g.Tasks))
	queue := make([]int, 0, len(g.Tasks))
	for i := range g.Tasks {
		inDegree[i] = len(g.Preds[i])
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order = make([]int, 0, len(g.Tasks))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, succ := range g.Succs[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	return order, len(order) == len(g.Tasks)
}

package graph

// Cycles walks the predecessor relation depth-first from every task, in input
// order, and returns each circular dependency it runs into. A cycle is listed in
// dependency order and closed by repeating its first task, e.g. [A B C A] for
// A -> B -> C -> A. Returns nil for an acyclic graph.
//
// The walk keeps an explicit frame stack instead of recursing so long chains
// cannot exhaust the goroutine stack.
func (g *TaskGraph) Cycles() [][]string {
	type frame struct {
		node int
		next int // next predecessor to visit
	}

	n := len(g.Tasks)
	visited := make([]bool, n)
	onStack := make([]bool, n)
	pathPos := make([]int, n)
	var path []int
	var cycles [][]string

	push := func(stack []frame, node int) []frame {
		visited[node] = true
		onStack[node] = true
		pathPos[node] = len(path)
		path = append(path, node)
		return append(stack, frame{node: node})
	}

	for root := 0; root < n; root++ {
		if visited[root] {
			continue
		}

		stack := push(nil, root)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			preds := g.Preds[top.node]
			if top.next < len(preds) {
				pred := preds[top.next]
				top.next++
				switch {
				case !visited[pred]:
					stack = push(stack, pred)
				case onStack[pred]:
					cycles = append(cycles, g.describeCycle(path[pathPos[pred]:]))
				}
				continue
			}

			onStack[top.node] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return cycles
}

// describeCycle turns a backward walk [X, pred(X), pred(pred(X)) ...] into the
// forward dependency chain starting and ending at X.
func (g *TaskGraph) describeCycle(walk []int) []string {
	out := make([]string, 0, len(walk)+1)
	out = append(out, g.ID(walk[0]))
	for i := len(walk) - 1; i >= 0; i-- {
		out = append(out, g.ID(walk[i]))
	}
	return out
}

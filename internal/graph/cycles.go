package graph

import "sort"

// Cycle is a closed walk of module identifiers: the first and last entries
// are equal.
type Cycle []string

// DetectCycles finds circular dependencies with an iterative depth-first
// traversal. It keeps an explicit frame stack instead of recursing so it
// stays correct on graphs with thousands of nodes. Acyclic input yields an
// empty result. Traversal starts from every unvisited node in lexical
// order, so output is deterministic.
func DetectCycles(g *Graph) []Cycle {
	adj := adjacency(g)

	visited := make(map[string]bool, len(g.Nodes))
	onStack := make(map[string]bool, len(g.Nodes))

	type frame struct {
		node string
		next int // index of the next neighbor to visit
	}

	var cycles []Cycle

	for _, start := range g.SortedNodeIDs() {
		if visited[start] {
			continue
		}

		stack := []frame{{node: start}}
		path := []string{start}
		visited[start] = true
		onStack[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := adj[top.node]

			if top.next >= len(neighbors) {
				// Exhausted: pop the frame.
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				onStack[top.node] = false
				continue
			}

			next := neighbors[top.next]
			top.next++

			if onStack[next] {
				// Back edge: the sub-path from next's first occurrence to
				// the current node, plus the repeated node, is a cycle.
				for i, id := range path {
					if id == next {
						cycle := make(Cycle, 0, len(path)-i+1)
						cycle = append(cycle, path[i:]...)
						cycle = append(cycle, next)
						cycles = append(cycles, cycle)
						break
					}
				}
				continue
			}
			if visited[next] {
				continue
			}

			visited[next] = true
			onStack[next] = true
			stack = append(stack, frame{node: next})
			path = append(path, next)
		}
	}

	return cycles
}

// adjacency builds a sorted adjacency list from the edge set.
func adjacency(g *Graph) map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	for id := range adj {
		sort.Strings(adj[id])
	}
	return adj
}

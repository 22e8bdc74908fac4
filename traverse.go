package strtree

// ChildIDs returns the identifiers of every leaf beneath the node, each
// exactly once, in pre-order with children visited in stored order.
func (n Node) ChildIDs() []int {
	t := n.t
	ids := make([]int, 0, n.NumLeaves())
	stack := make([]int32, 0, 32)
	stack = append(stack, n.i)
	for len(stack) != 0 {
		rec := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if rec.leafKids {
			for _, k := range rec.kids {
				ids = append(ids, t.leaves[k].id)
			}
			continue
		}
		// pushed in reverse so the first child is popped first
		for i := len(rec.kids) - 1; i >= 0; i-- {
			stack = append(stack, rec.kids[i])
		}
	}
	return ids
}

// Walk visits every descendant of the node in pre-order, children in stored
// order. depth is 1 for direct children. If fn returns false for a Node, the
// children of that Node are skipped.
func (n Node) Walk(fn func(c Child, depth int) bool) {
	type frame struct {
		c     Child
		depth int
	}
	stack := make([]frame, 0, 32)
	push := func(parent Node, depth int) {
		for i := parent.NumChildren() - 1; i >= 0; i-- {
			stack = append(stack, frame{parent.Child(i), depth})
		}
	}
	push(n, 1)
	for len(stack) != 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.c, f.depth) {
			continue
		}
		if child, ok := f.c.Node(); ok {
			push(child, f.depth+1)
		}
	}
}

// Search for all leaves whose box overlaps the given query box. The result
// holds leaf identifiers in no particular order.
func (t *Tree) Search(minX, minY, maxX, maxY float64) []int {
	results := []int{}
	return t.SearchFast(minX, minY, maxX, maxY, results)
}

// SearchFast accepts a 'results' as input. If you are performing millions of queries,
// then reusing a 'results' slice will reduce the number of allocations.
func (t *Tree) SearchFast(minX, minY, maxX, maxY float64, results []int) []int {
	results = results[:0]
	q := Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	root := len(t.nodes) - 1
	if len(t.nodes[root].kids) == 0 || !q.Intersects(t.nodes[root].box) {
		return results
	}

	queue := make([]int32, 0, 32)
	queue = append(queue, int32(root))
	for len(queue) != 0 {
		rec := &t.nodes[queue[len(queue)-1]]
		queue = queue[:len(queue)-1]

		// prune every child whose box does not touch the query box
		for _, k := range rec.kids {
			if rec.leafKids {
				if q.Intersects(t.leaves[k].box) {
					results = append(results, t.leaves[k].id)
				}
			} else if q.Intersects(t.nodes[k].box) {
				queue = append(queue, k)
			}
		}
	}
	return results
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Leaves int
	Nodes  int
	Height int
	// Fan-out over all nodes except the root, unless the root is the only node.
	MinFanout int
	MaxFanout int
	AvgFanout float64
	Envelope  Box
}

// Stats walks the node arena and reports the tree's shape.
func (t *Tree) Stats() Stats {
	s := Stats{
		Leaves:   len(t.leaves),
		Nodes:    len(t.nodes),
		Height:   t.height,
		Envelope: t.nodes[len(t.nodes)-1].box,
	}
	nodes := t.nodes
	if len(nodes) > 1 {
		nodes = nodes[:len(nodes)-1]
	}
	total := 0
	for i, rec := range nodes {
		k := len(rec.kids)
		total += k
		if i == 0 || k < s.MinFanout {
			s.MinFanout = k
		}
		if k > s.MaxFanout {
			s.MaxFanout = k
		}
	}
	s.AvgFanout = float64(total) / float64(len(nodes))
	return s
}

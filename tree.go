package strtree

// Tree is a static R-tree built by bulk loading. Nodes and leaves live in two
// flat arenas and are handed out as lightweight index handles.
//
// A Tree is never modified after construction, so it may be traversed by any
// number of goroutines at once.
type Tree struct {
	leaves []leafRec
	nodes  []nodeRec // bottom-up creation order, root is last
	height int
	config Config
}

type leafRec struct {
	box Box
	id  int
}

type nodeRec struct {
	box      Box
	leafKids bool
	kids     []int32 // positions in Tree.leaves or Tree.nodes
	count    int     // leaves beneath
}

// Root returns the top node. For an empty tree the root has no children.
func (t *Tree) Root() Node {
	return Node{t: t, i: int32(len(t.nodes) - 1)}
}

// Len is the number of leaves.
func (t *Tree) Len() int { return len(t.leaves) }

// Height is the number of node levels between the root and the leaves,
// counting the root. Every leaf sits at the same depth.
func (t *Tree) Height() int { return t.height }

// Config returns the configuration the tree was built with.
func (t *Tree) Config() Config { return t.config }

// ChildKind tags a Child as a Leaf or a Node.
type ChildKind uint8

const (
	KindLeaf ChildKind = iota + 1
	KindNode
)

func (k ChildKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindNode:
		return "node"
	}
	return "invalid"
}

// Leaf is a rectangle together with the caller's identifier.
type Leaf struct {
	t *Tree
	i int32
}

func (l Leaf) rec() *leafRec { return &l.t.leaves[l.i] }

// Box is the leaf's bounding box.
func (l Leaf) Box() Box { return l.rec().box }

// LL is the lower-left corner of the bounding box.
func (l Leaf) LL() Point { return l.rec().box.LL() }

// UR is the upper-right corner of the bounding box.
func (l Leaf) UR() Point { return l.rec().box.UR() }

// ID is the identifier supplied when the leaf was added. For trees built from
// coordinate arrays it is the position of the rectangle in the arrays.
func (l Leaf) ID() int { return l.rec().id }

// Node is an internal node. Its Box (the envelope) is the union of the boxes
// of all its children.
type Node struct {
	t *Tree
	i int32
}

func (n Node) rec() *nodeRec { return &n.t.nodes[n.i] }

// Box is the envelope of the node. The envelope of a node without children
// is empty (see InvertedBox).
func (n Node) Box() Box { return n.rec().box }

// LL is the lower-left corner of the envelope.
func (n Node) LL() Point { return n.rec().box.LL() }

// UR is the upper-right corner of the envelope.
func (n Node) UR() Point { return n.rec().box.UR() }

// Extent returns the envelope, or false if the node has no children.
func (n Node) Extent() (Box, bool) {
	r := n.rec()
	if len(r.kids) == 0 {
		return Box{}, false
	}
	return r.box, true
}

// NumLeaves is the number of leaves beneath the node.
func (n Node) NumLeaves() int { return n.rec().count }

// NumChildren is the number of direct children.
func (n Node) NumChildren() int { return len(n.rec().kids) }

// Child returns the i-th direct child.
func (n Node) Child(i int) Child {
	r := n.rec()
	kind := KindNode
	if r.leafKids {
		kind = KindLeaf
	}
	return Child{t: n.t, i: r.kids[i], kind: kind}
}

// Children returns the direct children in stored order.
func (n Node) Children() []Child {
	children := make([]Child, n.NumChildren())
	for i := range children {
		children[i] = n.Child(i)
	}
	return children
}

// Child is either a Leaf or a Node.
type Child struct {
	t    *Tree
	i    int32
	kind ChildKind
}

// Kind tells which of Leaf or Node the child holds.
func (c Child) Kind() ChildKind { return c.kind }

// Leaf returns the child as a Leaf.
func (c Child) Leaf() (Leaf, bool) {
	if c.kind != KindLeaf {
		return Leaf{}, false
	}
	return Leaf{t: c.t, i: c.i}, true
}

// Node returns the child as a Node.
func (c Child) Node() (Node, bool) {
	if c.kind != KindNode {
		return Node{}, false
	}
	return Node{t: c.t, i: c.i}, true
}

// Box is the leaf's box or the node's envelope.
func (c Child) Box() Box {
	if c.kind == KindLeaf {
		return c.t.leaves[c.i].box
	}
	return c.t.nodes[c.i].box
}

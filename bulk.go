package strtree

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/bmharper/strtree/internal/logger"
)

// packer builds the node levels of a tree bottom-up, starting from the leaves.
type packer struct {
	tree    *Tree
	cfg     Config
	workers int
	log     logger.Logger
}

// run groups items level by level until at most MaxChildren entries remain,
// and makes those the children of the root.
func (p *packer) run(items []entry) error {
	leafKids := true
	if p.cfg.Packing == PackHilbert && len(items) > p.cfg.MaxChildren {
		bounds := InvertedBox()
		for i := range items {
			bounds = bounds.Union(items[i].box)
		}
		sortByHilbert(items, bounds)
	}

	levels := 0
	for len(items) > p.cfg.MaxChildren {
		next, err := p.packLevel(items, leafKids)
		if err != nil {
			return err
		}
		levels++
		p.log.Debugf("packed level %d: %d entries into %d nodes", levels, len(items), len(next))
		items = next
		leafKids = false
	}

	root := nodeRec{
		box:      InvertedBox(),
		leafKids: leafKids,
		kids:     make([]int32, len(items)),
	}
	fill(p.tree, &root, items)
	p.tree.nodes = append(p.tree.nodes, root)
	p.tree.height = levels + 1
	return nil
}

// packLevel cuts items into vertical slices and each slice into groups of at
// most MaxChildren consecutive entries. Every group becomes a node. The
// returned entries describe the new nodes, in creation order.
func (p *packer) packLevel(items []entry, leafKids bool) ([]entry, error) {
	M := p.cfg.MaxChildren
	n := len(items)

	if p.cfg.Packing == PackSTR {
		sortByCenterX(items)
	}
	numSlices := int(math.Ceil(math.Sqrt(float64(n) / float64(M))))

	// nodes produced by each slice, and where the slice's nodes start
	offsets := make([]int, numSlices+1)
	for s := 0; s < numSlices; s++ {
		lo, hi := cut(n, numSlices, s), cut(n, numSlices, s+1)
		offsets[s+1] = offsets[s] + ceilDiv(hi-lo, M)
	}
	numNodes := offsets[numSlices]

	base := len(p.tree.nodes)
	p.tree.nodes = append(p.tree.nodes, make([]nodeRec, numNodes)...)
	kids := make([]int32, n)
	next := make([]entry, numNodes)

	packSlice := func(s int) {
		lo, hi := cut(n, numSlices, s), cut(n, numSlices, s+1)
		slice := items[lo:hi]
		if p.cfg.Packing == PackSTR {
			sortByCenterY(slice)
		}
		numGroups := offsets[s+1] - offsets[s]
		for g := 0; g < numGroups; g++ {
			glo, ghi := lo+cut(len(slice), numGroups, g), lo+cut(len(slice), numGroups, g+1)
			seq := offsets[s] + g
			rec := &p.tree.nodes[base+seq]
			rec.box = InvertedBox()
			rec.leafKids = leafKids
			rec.kids = kids[glo:ghi:ghi]
			fill(p.tree, rec, items[glo:ghi])
			next[seq] = entry{box: rec.box, ref: int32(base + seq), seq: int32(seq)}
		}
	}

	if p.workers < 2 || numSlices < 2 || n < p.cfg.ParallelThreshold {
		for s := 0; s < numSlices; s++ {
			packSlice(s)
		}
		return next, nil
	}

	// Slices touch disjoint ranges of items, kids, next and the node arena.
	var g errgroup.Group
	g.SetLimit(p.workers)
	for s := 0; s < numSlices; s++ {
		s := s
		g.Go(func() error {
			packSlice(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// fill sets the children of rec to items and computes its envelope and leaf
// count. rec.kids must already have len(items) elements.
func fill(t *Tree, rec *nodeRec, items []entry) {
	for i := range items {
		e := &items[i]
		rec.kids[i] = e.ref
		rec.box = rec.box.Union(e.box)
		if rec.leafKids {
			rec.count++
		} else {
			rec.count += t.nodes[e.ref].count
		}
	}
}

// cut returns the start of part i when n items are divided into k near-equal
// contiguous parts.
func cut(n, k, i int) int {
	return int(int64(i) * int64(n) / int64(k))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

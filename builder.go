package strtree

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/bmharper/strtree/internal/logger"
)

// Item is a rectangle with an identifier chosen by the caller.
type Item struct {
	Box Box
	ID  int
}

// Builder collects rectangles and bulk loads them into a Tree.
//
// Add every rectangle, then call Finish. The first invalid rectangle is remembered
// and reported by every later Finish, so a Builder never produces a partial tree.
type Builder struct {
	Config Config
	// Optional. Updated after every call to Finish.
	Metrics *Metrics

	items []Item
	err   error
	log   logger.Logger
}

// NewBuilder creates a Builder using the given config.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		Config: cfg,
		log:    logger.New("builder"),
	}
}

// Reserve enough space for the given number of items.
func (b *Builder) Reserve(size int) {
	if size <= cap(b.items) {
		return
	}
	items := make([]Item, len(b.items), size)
	copy(items, b.items)
	b.items = items
}

// Len is the number of items added so far.
func (b *Builder) Len() int { return len(b.items) }

// Add a new box, and return its identifier.
// The identifier is zero based, and corresponds 1:1 with the order in which
// boxes are added.
func (b *Builder) Add(minX, minY, maxX, maxY float64) int {
	id := len(b.items)
	b.AddItem(Item{
		Box: Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY},
		ID:  id,
	})
	return id
}

// AddItem adds a box with a caller-chosen identifier. Identifiers are stored
// as given and never interpreted.
func (b *Builder) AddItem(it Item) {
	box, err := NewBox(it.Box.LL(), it.Box.UR())
	if err != nil && b.err == nil {
		b.err = &GeometryError{Position: len(b.items), Box: it.Box}
	}
	b.items = append(b.items, Item{Box: box, ID: it.ID})
}

// Finish builds the tree from all items added so far.
func (b *Builder) Finish() (*Tree, error) {
	if b.log == nil {
		b.log = logger.New("builder")
	}
	start := time.Now()
	t, err := b.finish()
	if err != nil {
		b.Metrics.fail()
		return nil, err
	}
	elapsed := time.Since(start)
	b.Metrics.observe(t, elapsed)
	b.log.Debugf("built tree: %d leaves, %d nodes, height %d in %s", t.Len(), len(t.nodes), t.Height(), elapsed)
	return t, nil
}

func (b *Builder) finish() (*Tree, error) {
	cfg := b.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.err != nil {
		return nil, b.err
	}
	n := len(b.items)
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d items exceed the limit of %d", ErrInvalidInput, n, math.MaxInt32)
	}

	t := &Tree{
		leaves: make([]leafRec, n),
		nodes:  make([]nodeRec, 0, estimateNodes(n, cfg.MaxChildren)),
		config: cfg,
	}
	items := make([]entry, n)
	for i, it := range b.items {
		t.leaves[i] = leafRec{box: it.Box, id: it.ID}
		items[i] = entry{box: it.Box, ref: int32(i), seq: int32(i)}
	}

	workers := cfg.Parallelism
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &packer{tree: t, cfg: cfg, workers: workers, log: b.log}
	if err := p.run(items); err != nil {
		return nil, err
	}
	return t, nil
}

// estimateNodes is the node count of a tree with completely full nodes.
func estimateNodes(n, nodeSize int) int {
	numNodes := 1
	for n > nodeSize {
		n = ceilDiv(n, nodeSize)
		numNodes += n
	}
	return numNodes
}

// Build bulk loads items into a new Tree.
func Build(items []Item, cfg Config) (*Tree, error) {
	b := NewBuilder(cfg)
	b.Reserve(len(items))
	for _, it := range items {
		b.AddItem(it)
	}
	return b.Finish()
}

// BuildArrays bulk loads rectangles given as four parallel coordinate arrays.
// Rectangle i becomes a leaf with identifier i.
func BuildArrays(minX, minY, maxX, maxY []float64, cfg Config) (*Tree, error) {
	n := len(minX)
	if len(minY) != n || len(maxX) != n || len(maxY) != n {
		return nil, fmt.Errorf("%w: coordinate arrays differ in length (%d, %d, %d, %d)", ErrInvalidInput, len(minX), len(minY), len(maxX), len(maxY))
	}
	b := NewBuilder(cfg)
	b.Reserve(n)
	for i := 0; i < n; i++ {
		b.Add(minX[i], minY[i], maxX[i], maxY[i])
	}
	return b.Finish()
}

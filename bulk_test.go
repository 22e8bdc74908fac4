package strtree

import (
	"errors"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"
)

// checkTree verifies the structural invariants of every node in tr.
func checkTree(t *testing.T, tr *Tree) {
	t.Helper()
	cfg := tr.Config()
	var visit func(n Node, depth int, isRoot bool)
	visit = func(n Node, depth int, isRoot bool) {
		k := n.NumChildren()
		require.LessOrEqual(t, k, cfg.MaxChildren)
		if !isRoot {
			require.GreaterOrEqual(t, k, cfg.MinChildren)
		}
		env := InvertedBox()
		leaves := 0
		for _, c := range n.Children() {
			env = env.Union(c.Box())
			require.True(t, n.Box().Contains(c.Box()))
			switch c.Kind() {
			case KindLeaf:
				require.Equal(t, tr.Height(), depth, "leaves must all sit at the same depth")
				leaves++
			case KindNode:
				child, ok := c.Node()
				require.True(t, ok)
				visit(child, depth+1, false)
				leaves += child.NumLeaves()
			default:
				t.Fatalf("invalid child kind %v", c.Kind())
			}
		}
		require.Equal(t, env, n.Box())
		require.Equal(t, leaves, n.NumLeaves())
	}
	visit(tr.Root(), 1, true)
	require.Equal(t, tr.Len(), tr.Root().NumLeaves())
}

func requireIDs(t *testing.T, n int, ids []int) {
	t.Helper()
	require.Len(t, ids, n)
	seen := make([]bool, n)
	for _, id := range ids {
		require.True(t, id >= 0 && id < n, "id %d out of range", id)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func randomArrays(seed uint64, n int) (minX, minY, maxX, maxY []float64) {
	faker := gofakeit.New(seed)
	minX = make([]float64, n)
	minY = make([]float64, n)
	maxX = make([]float64, n)
	maxY = make([]float64, n)
	for i := 0; i < n; i++ {
		minX[i] = faker.Float64Range(-1000, 1000)
		minY[i] = faker.Float64Range(-1000, 1000)
		maxX[i] = minX[i] + faker.Float64Range(0, 20)
		maxY[i] = minY[i] + faker.Float64Range(0, 20)
	}
	return
}

func TestSingleRectangle(t *testing.T) {
	tr, err := BuildArrays([]float64{0}, []float64{0}, []float64{1}, []float64{1}, DefaultConfig)
	require.NoError(t, err)
	root := tr.Root()
	require.Equal(t, 1, root.NumChildren())
	require.Equal(t, Point{0, 0}, root.LL())
	require.Equal(t, Point{1, 1}, root.UR())
	require.Equal(t, 1, tr.Height())

	leaf, ok := root.Child(0).Leaf()
	require.True(t, ok)
	require.Equal(t, 0, leaf.ID())
	require.Equal(t, Box{0, 0, 1, 1}, leaf.Box())
	_, ok = root.Child(0).Node()
	require.False(t, ok)
	checkTree(t, tr)
}

func TestGrid2x2(t *testing.T) {
	tr, err := BuildArrays(
		[]float64{0, 2, 0, 2},
		[]float64{0, 0, 2, 2},
		[]float64{1, 3, 1, 3},
		[]float64{1, 1, 3, 3},
		DefaultConfig)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, tr.Root().ChildIDs())
	require.Equal(t, Box{0, 0, 3, 3}, tr.Root().Box())
	checkTree(t, tr)
}

func TestMismatchedLengths(t *testing.T) {
	_, err := BuildArrays(make([]float64, 5), make([]float64, 4), make([]float64, 5), make([]float64, 5), DefaultConfig)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEmpty(t *testing.T) {
	tr, err := BuildArrays(nil, nil, nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.Equal(t, 0, tr.Len())
	require.Equal(t, 1, tr.Height())

	root := tr.Root()
	require.Equal(t, 0, root.NumChildren())
	require.Empty(t, root.Children())
	require.Empty(t, root.ChildIDs())
	require.True(t, root.Box().IsEmpty())
	_, ok := root.Extent()
	require.False(t, ok)
	require.Empty(t, tr.Search(-1e9, -1e9, 1e9, 1e9))
}

func buildRandom(t *testing.T, seed uint64, n int, cfg Config) *Tree {
	t.Helper()
	minX, minY, maxX, maxY := randomArrays(seed, n)
	tr, err := BuildArrays(minX, minY, maxX, maxY, cfg)
	require.NoError(t, err)
	return tr
}

func TestLargeRandom(t *testing.T) {
	for _, packing := range []Packing{PackSTR, PackHilbert} {
		t.Run(string(packing), func(t *testing.T) {
			cfg := DefaultConfig
			cfg.Packing = packing
			n := 10000
			minX, minY, maxX, maxY := randomArrays(1, n)
			tr, err := BuildArrays(minX, minY, maxX, maxY, cfg)
			require.NoError(t, err)
			checkTree(t, tr)
			requireIDs(t, n, tr.Root().ChildIDs())

			bound := int(math.Ceil(math.Log(float64(n))/math.Log(float64(cfg.MaxChildren)))) + 1
			require.LessOrEqual(t, tr.Height(), bound)

			for i := 0; i < n; i++ {
				require.True(t, tr.Root().Box().Contains(Box{minX[i], minY[i], maxX[i], maxY[i]}))
			}
		})
	}
}

func TestSmallNodeSizes(t *testing.T) {
	for _, packing := range []Packing{PackSTR, PackHilbert} {
		for _, size := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {2, 5}, {3, 6}} {
			cfg := DefaultConfig
			cfg.Packing = packing
			cfg.MinChildren, cfg.MaxChildren = size[0], size[1]
			for n := 0; n <= 70; n++ {
				tr := buildRandom(t, uint64(n), n, cfg)
				checkTree(t, tr)
				requireIDs(t, n, tr.Root().ChildIDs())
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	for _, packing := range []Packing{PackSTR, PackHilbert} {
		cfg := DefaultConfig
		cfg.Packing = packing
		a := buildRandom(t, 7, 5000, cfg)
		b := buildRandom(t, 7, 5000, cfg)
		require.Equal(t, a.Root().ChildIDs(), b.Root().ChildIDs())
		require.Equal(t, a.nodes, b.nodes)
		require.Equal(t, a.leaves, b.leaves)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	defer leaktest.Check(t)()

	serial := DefaultConfig
	serial.Parallelism = 1
	parallel := DefaultConfig
	parallel.Parallelism = 8
	parallel.ParallelThreshold = 0

	a := buildRandom(t, 3, 20000, serial)
	b := buildRandom(t, 3, 20000, parallel)
	checkTree(t, b)
	require.Equal(t, a.nodes, b.nodes)
	require.Equal(t, a.Root().ChildIDs(), b.Root().ChildIDs())
}

func TestEqualCentersKeepInputOrder(t *testing.T) {
	// every box has the same center, so only the input position orders them
	n := 100
	minX := make([]float64, n)
	minY := make([]float64, n)
	maxX := make([]float64, n)
	maxY := make([]float64, n)
	for i := range minX {
		minX[i], minY[i], maxX[i], maxY[i] = 5, 5, 5, 5
	}
	tr, err := BuildArrays(minX, minY, maxX, maxY, DefaultConfig)
	require.NoError(t, err)
	checkTree(t, tr)
	ids := tr.Root().ChildIDs()
	for i, id := range ids {
		require.Equal(t, i, id)
	}
	require.Equal(t, 0.0, tr.Root().Box().Area())
}

func TestPointBox(t *testing.T) {
	b := NewBuilder(DefaultConfig)
	b.Add(2, 3, 2, 3)
	tr, err := b.Finish()
	require.NoError(t, err)
	require.Equal(t, Box{2, 3, 2, 3}, tr.Root().Box())
	require.Equal(t, 0.0, tr.Root().Box().Area())
	ext, ok := tr.Root().Extent()
	require.True(t, ok)
	require.Equal(t, Box{2, 3, 2, 3}, ext)
}

func TestInvertedCornersAreSwapped(t *testing.T) {
	b := NewBuilder(DefaultConfig)
	require.Equal(t, 0, b.Add(1, 1, 0, 0))
	require.Equal(t, 1, b.Add(0, 5, 4, 2))
	tr, err := b.Finish()
	require.NoError(t, err)
	l0, _ := tr.Root().Child(0).Leaf()
	l1, _ := tr.Root().Child(1).Leaf()
	require.Equal(t, Box{0, 0, 1, 1}, l0.Box())
	require.Equal(t, Box{0, 2, 4, 5}, l1.Box())
}

func TestInvalidGeometry(t *testing.T) {
	minX := []float64{0, 1, math.NaN(), 3}
	minY := []float64{0, 1, 2, math.Inf(1)}
	maxX := []float64{1, 2, 3, 4}
	maxY := []float64{1, 2, 3, 4}
	tr, err := BuildArrays(minX, minY, maxX, maxY, DefaultConfig)
	require.Nil(t, tr)
	require.True(t, errors.Is(err, ErrInvalidGeometry))
	var gerr *GeometryError
	require.True(t, errors.As(err, &gerr))
	require.Equal(t, 2, gerr.Position)
}

func TestCallerIDs(t *testing.T) {
	items := []Item{
		{Box: Box{0, 0, 1, 1}, ID: 100},
		{Box: Box{5, 5, 6, 6}, ID: -3},
		{Box: Box{2, 2, 3, 3}, ID: 7},
	}
	tr, err := Build(items, DefaultConfig)
	require.NoError(t, err)
	require.Equal(t, []int{100, -3, 7}, tr.Root().ChildIDs())
	require.ElementsMatch(t, []int{-3}, tr.Search(4, 4, 10, 10))
}

func TestInvalidConfig(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxChildren = 1
	_, err := Build(nil, cfg)
	require.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestBuilderMetrics(t *testing.T) {
	m := NewMetrics()
	b := NewBuilder(DefaultConfig)
	b.Metrics = m
	for i := 0; i < 100; i++ {
		b.Add(float64(i), 0, float64(i)+1, 1)
	}
	tr, err := b.Finish()
	require.NoError(t, err)
	_, err = b.Finish()
	require.NoError(t, err)
	require.Equal(t, int64(2), m.Builds.Count())
	require.Equal(t, int64(2), m.BuildTime.Count())
	require.Equal(t, int64(100), m.Leaves.Max())
	require.Equal(t, int64(tr.Height()), m.Height.Value())

	b.Add(math.NaN(), 0, 0, 0)
	_, err = b.Finish()
	require.Error(t, err)
	require.Equal(t, int64(1), m.Failures.Count())
	require.Equal(t, int64(2), m.Builds.Count())
}

package strtree

// entry is one item of a level being packed: a leaf at the bottom level, a
// node above it.
type entry struct {
	box Box
	key float64 // sort key, set before each sort
	ref int32   // position in the leaf or node arena
	seq int32   // input position at the leaf level, creation order above
}

func entryLess(a, b *entry) bool {
	return a.key < b.key || (a.key == b.key && a.seq < b.seq)
}

func sortByCenterX(es []entry) {
	for i := range es {
		es[i].key = es[i].box.Center().X
	}
	sortEntries(es, 0, len(es)-1)
}

func sortByCenterY(es []entry) {
	for i := range es {
		es[i].key = es[i].box.Center().Y
	}
	sortEntries(es, 0, len(es)-1)
}

func sortByHilbert(es []entry, bounds Box) {
	for i := range es {
		es[i].key = float64(hilbertKey(es[i].box, bounds))
	}
	sortEntries(es, 0, len(es)-1)
}

// custom quicksort over the entry keys. seq is unique within a level, so the
// order is total and the result does not depend on the input permutation.
func sortEntries(es []entry, left, right int) {
	for left < right {
		pivot := es[(left+right)>>1]
		i := left - 1
		j := right + 1

		for {
			i++
			for entryLess(&es[i], &pivot) {
				i++
			}
			j--
			for entryLess(&pivot, &es[j]) {
				j--
			}
			if i >= j {
				break
			}
			es[i], es[j] = es[j], es[i]
		}

		// recurse into the smaller half to bound the stack depth
		if j-left < right-j {
			sortEntries(es, left, j)
			left = j + 1
		} else {
			sortEntries(es, j+1, right)
			right = j
		}
	}
}

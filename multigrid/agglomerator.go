package multigrid

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/notargets/vlmgrid/grid"
	"github.com/plan-systems/klog"
)

// Agglomerator partitions the loops of a level, returning the coarse loop id of every fine loop
type Agglomerator interface {
	Partition(fine *grid.Grid) (coarseOf []int, err error)
}

/*
FrontAgglomerator advances a front of edges across the level, trailing edges first, then leading edges,
other boundaries and finally interior edges. Each popped edge seeds an agglomerate from each of its
unassigned loops, which takes in the seed's unassigned neighbours and then, in a single pass, every
loop bordering two or more distinct neighbours taken in. Only loops of the same surface and component
are merged. Agglomerates left with a single loop are merged into the neighbouring agglomerate they
share the most edge length with.
*/
type FrontAgglomerator struct{}

func NewFrontAgglomerator() *FrontAgglomerator {
	return &FrontAgglomerator{}
}

type frontState struct {
	fine     *grid.Grid
	coarseOf []int
	members  [][]int
	onFront  []bool
	front    *binaryheap.Heap
}

func (fa *FrontAgglomerator) Partition(fine *grid.Grid) (coarseOf []int, err error) {
	fs := &frontState{
		fine:     fine,
		coarseOf: make([]int, fine.NumberOfLoops()),
		onFront:  make([]bool, fine.NumberOfEdges()),
	}
	for i := range fs.coarseOf {
		fs.coarseOf[i] = grid.None
	}
	fs.front = binaryheap.NewWith(func(a, b interface{}) int {
		ea, eb := a.(int), b.(int)
		ca, cb := fine.Edges[ea].Class(), fine.Edges[eb].Class()
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
		return ea - eb
	})
	for e := range fine.Edges {
		if fine.Edges[e].IsBoundaryEdge {
			fs.push(e)
		}
	}
	var next, reseeds int
	for {
		val, ok := fs.front.Pop()
		if !ok {
			for next < len(fs.coarseOf) && fs.coarseOf[next] != grid.None {
				next++
			}
			if next == len(fs.coarseOf) {
				break
			}
			reseeds++
			fs.grow(next)
			continue
		}
		for _, l := range fine.EdgeLoops(val.(int)) {
			if fs.coarseOf[l] == grid.None {
				fs.grow(l)
			}
		}
	}
	merged := fs.cleanUpLoneLoops()
	coarseOf = fs.renumber()
	klog.V(2).Infof("level %d: agglomerated %d loops into %d, %d reseeds, %d lone loops merged",
		fine.Level, len(coarseOf), len(fs.nonEmpty()), reseeds, merged)
	return
}

func (fs *frontState) push(e int) {
	if !fs.onFront[e] {
		fs.onFront[e] = true
		fs.front.Push(e)
	}
}

func (fs *frontState) compatible(l1, l2 int) bool {
	a, b := &fs.fine.Loops[l1], &fs.fine.Loops[l2]
	return a.SurfaceID == b.SurfaceID && a.ComponentID == b.ComponentID
}

func (fs *frontState) assign(l, id int) {
	fs.coarseOf[l] = id
	fs.members[id] = append(fs.members[id], l)
}

func (fs *frontState) grow(seed int) {
	var (
		fine = fs.fine
		id   = len(fs.members)
	)
	fs.members = append(fs.members, nil)
	fs.assign(seed, id)
	var ring []int
	for _, nb := range fine.LoopNeighbors(seed) {
		if fs.coarseOf[nb] == grid.None && fs.compatible(seed, nb) {
			fs.assign(nb, id)
			ring = append(ring, nb)
		}
	}
	// one pass: a loop joins when it borders two or more distinct loops of the ring
	hits := make(map[int]int)
	var candidates []int
	for _, m := range ring {
		counted := make(map[int]bool)
		for _, nb := range fine.LoopNeighbors(m) {
			if counted[nb] || fs.coarseOf[nb] != grid.None || !fs.compatible(seed, nb) {
				continue
			}
			counted[nb] = true
			if hits[nb] == 0 {
				candidates = append(candidates, nb)
			}
			hits[nb]++
		}
	}
	for _, c := range candidates {
		if hits[c] >= 2 {
			fs.assign(c, id)
		}
	}
	for _, m := range fs.members[id] {
		for _, e := range fine.Loops[m].Edges {
			if other := fine.Edges[e].OtherLoop(m); other != grid.None && fs.coarseOf[other] == grid.None {
				fs.push(e)
			}
		}
	}
}

func (fs *frontState) cleanUpLoneLoops() (merged int) {
	fine := fs.fine
	for id := range fs.members {
		if len(fs.members[id]) != 1 {
			continue
		}
		var (
			l       = fs.members[id][0]
			shared  = make(map[int]float64)
			best    = grid.None
			bestLen float64
		)
		for _, e := range fine.Loops[l].Edges {
			other := fine.Edges[e].OtherLoop(l)
			if other == grid.None || fs.coarseOf[other] == id || !fs.compatible(l, other) {
				continue
			}
			shared[fs.coarseOf[other]] += fine.Edges[e].Length
		}
		for nid, length := range shared {
			if best == grid.None || length > bestLen || (length == bestLen && nid < best) {
				best, bestLen = nid, length
			}
		}
		if best == grid.None {
			continue
		}
		fs.members[id] = nil
		fs.assign(l, best)
		merged++
	}
	return
}

func (fs *frontState) nonEmpty() (ids []int) {
	for id := range fs.members {
		if len(fs.members[id]) != 0 {
			ids = append(ids, id)
		}
	}
	return
}

// renumber makes coarse ids contiguous, in order of the lowest fine loop of each agglomerate
func (fs *frontState) renumber() (coarseOf []int) {
	var (
		newID = make(map[int]int)
	)
	coarseOf = make([]int, len(fs.coarseOf))
	for l, id := range fs.coarseOf {
		nid, ok := newID[id]
		if !ok {
			nid = len(newID)
			newID[id] = nid
		}
		coarseOf[l] = nid
	}
	return
}

package types

import (
	"fmt"
	"math"
)

/*
EdgeKey is an always positive number that stores an edge's node indices so that it can be compared
and used as a map key. An edge between nodes [4] and [0] is always stored as [0,4], ascending order.
*/
type EdgeKey uint64

func NewEdgeKey(nodes [2]int) (packed EdgeKey) {
	// Packs two node indices into two 32 bit unsigned integers
	var (
		limit = math.MaxUint32
	)
	for _, node := range nodes {
		if node < 0 || node > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				nodes[0], nodes[1]))
		}
	}
	n1, n2 := nodes[0], nodes[1]
	if n1 > n2 {
		n1, n2 = n2, n1
	}
	packed = EdgeKey(n1 + n2<<32)
	return
}

// GetNodes returns the canonical (min,max) node pair, reversed if rev is true
func (ek EdgeKey) GetNodes(rev bool) (nodes [2]int) {
	hi := ek >> 32
	nodes[1] = int(hi)
	nodes[0] = int(ek - hi<<32)
	if rev {
		nodes[0], nodes[1] = nodes[1], nodes[0]
	}
	return
}

/*
OrientedEdge keeps the traversal order of an edge inside the loop that owns it. The magnitude is the
packed canonical key, the sign is negative when the loop runs from the larger to the smaller node.
*/
type OrientedEdge int64

func NewOrientedEdge(nodes [2]int) (oe OrientedEdge) {
	var (
		limit = math.MaxUint32 >> 1 // leaves room for the sign bit of an int64
	)
	for _, node := range nodes {
		if node < 0 || node > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				nodes[0], nodes[1]))
		}
	}
	oe = OrientedEdge(NewEdgeKey(nodes))
	if nodes[0] > nodes[1] {
		oe = -oe
	}
	return
}

// GetNodes returns the nodes in traversal order
func (oe OrientedEdge) GetNodes() (nodes [2]int) {
	return oe.GetKey().GetNodes(oe < 0)
}

func (oe OrientedEdge) GetKey() EdgeKey {
	if oe < 0 {
		return EdgeKey(-oe)
	}
	return EdgeKey(oe)
}

// Direction is +1 when traversal runs from the smaller to the larger node index, -1 otherwise
func (oe OrientedEdge) Direction() int {
	if oe < 0 {
		return -1
	}
	return 1
}

func (oe OrientedEdge) Reversed() OrientedEdge {
	nodes := oe.GetNodes()
	return NewOrientedEdge([2]int{nodes[1], nodes[0]})
}

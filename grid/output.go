package grid

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/notargets/vlmgrid/geometry3D"
	"github.com/pkg/errors"
)

/*
WriteMesh writes the debug dump of the surface part of the level:

	NumNodes NumLoops 0
	X of every node, one per line, then all Y, then all Z
	one line per loop with its 1 based node indices
	one line per loop with its surface id repeated twice

Only levels with ordered loops can be written.
*/
func (g *Grid) WriteMesh(w io.Writer) (err error) {
	var (
		bw     = bufio.NewWriter(w)
		nNodes = g.NumberOfSurfaceNodes
		nLoops = g.NumberOfSurfaceLoops
	)
	for l := 0; l < nLoops; l++ {
		if !g.Loops[l].IsOrdered() {
			return errors.Wrapf(ErrUnorderedLoops, "level %d loop %d", g.Level, l)
		}
	}
	fmt.Fprintf(bw, "%d %d 0\n", nNodes, nLoops)
	for dim := 0; dim < 3; dim++ {
		for i := 0; i < nNodes; i++ {
			p := g.Nodes[i].Position
			fmt.Fprintf(bw, "%.12g\n", [3]float64{p.X, p.Y, p.Z}[dim])
		}
	}
	for l := 0; l < nLoops; l++ {
		for k, n := range g.Loops[l].Nodes {
			if k > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d", n+1)
		}
		bw.WriteByte('\n')
	}
	for l := 0; l < nLoops; l++ {
		fmt.Fprintf(bw, "%d %d\n", g.Loops[l].SurfaceID, g.Loops[l].SurfaceID)
	}
	return bw.Flush()
}

func (g *Grid) WriteMeshFile(path string) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return errors.Wrapf(err, "unable to open mesh file")
	}
	if err = g.WriteMesh(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return file.Close()
}

// PrintStatistics prints grid statistics
func (g *Grid) PrintStatistics() {
	var (
		boundary, trailing, leading, degenerate, noUpwind int
	)
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.IsBoundaryEdge {
			boundary++
		}
		if e.IsTrailingEdge {
			trailing++
		}
		if e.IsLeadingEdge {
			leading++
		}
	}
	for l := range g.Loops {
		if g.Loops[l].IsDegenerate {
			degenerate++
		}
		if g.Loops[l].HasNoUpwindEdges {
			noUpwind++
		}
	}
	fmt.Printf("Grid Statistics, level %d (%s):\n", g.Level, g.SurfaceType)
	fmt.Printf("  Nodes: %d\n", len(g.Nodes))
	fmt.Printf("  Loops: %d\n", len(g.Loops))
	fmt.Printf("  Edges: %d\n", len(g.Edges))
	fmt.Printf("  Kutta nodes: %d\n", len(g.KuttaNodes))
	fmt.Printf("  Boundary edges: %d (trailing %d, leading %d)\n", boundary, trailing, leading)
	fmt.Printf("  Total area: %g\n", g.TotalArea())
	fmt.Printf("  Bounding box diagonal: %g\n", geometry3D.BoxSize(g.BoundingBox()))
	if degenerate+noUpwind > 0 {
		fmt.Printf("  Degenerate loops: %d, loops without upwind edges: %d\n", degenerate, noUpwind)
	}
}

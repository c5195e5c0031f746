package parameters

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Geometry is the pixel neighbour structure of a camera. Pixel IDs are
// 0..NumPixels()-1.
type Geometry struct {
	numPixels int
	pixels    *simple.UndirectedGraph
}

func newGeometry(numPixels int) *Geometry {
	geom := &Geometry{
		numPixels: numPixels,
		pixels:    simple.NewUndirectedGraph(),
	}
	for i := 0; i != numPixels; i++ {
		geom.pixels.AddNode(simple.Node(i))
	}
	return geom
}

func (g *Geometry) link(a int, b int) {
	if a == b {
		return
	}
	g.pixels.SetEdge(g.pixels.NewEdge(simple.Node(a), simple.Node(b)))
}

// NewGeometry builds a geometry from a sparse (CSR) neighbour matrix: the
// neighbours of pixel i are indices[indptr[i]:indptr[i+1]]. Self references
// are ignored.
func NewGeometry(numPixels int, indptr []int, indices []int) (*Geometry, error) {
	if numPixels < 0 || len(indptr) != numPixels+1 {
		return nil, fmt.Errorf("invalid neighbour matrix: %d pixels with %d row pointers", numPixels, len(indptr))
	}
	geom := newGeometry(numPixels)
	for i := 0; i != numPixels; i++ {
		from, to := indptr[i], indptr[i+1]
		if from < 0 || to < from || to > len(indices) {
			return nil, fmt.Errorf("invalid neighbour row pointers for pixel %d: [%d, %d)", i, from, to)
		}
		for _, eachNeighbor := range indices[from:to] {
			if eachNeighbor < 0 || eachNeighbor >= numPixels {
				return nil, fmt.Errorf("pixel %d has out of range neighbour %d", i, eachNeighbor)
			}
			geom.link(i, eachNeighbor)
		}
	}
	return geom, nil
}

// NewGridGeometry returns a rectangular camera of rows x cols square pixels,
// numbered row by row, where each pixel neighbours the pixels sharing a side.
func NewGridGeometry(rows int, cols int) *Geometry {
	geom := newGeometry(max(rows, 0) * max(cols, 0))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pix := r*cols + c
			if c+1 < cols {
				geom.link(pix, pix+1)
			}
			if r+1 < rows {
				geom.link(pix, pix+cols)
			}
		}
	}
	return geom
}

func (g *Geometry) NumPixels() int {
	return g.numPixels
}

// Graph exposes the neighbour structure as an undirected graph.
func (g *Geometry) Graph() graph.Undirected {
	return g.pixels
}

// Neighbors returns the neighbours of pix in ascending order.
func (g *Geometry) Neighbors(pix int) []int {
	neighbors := make([]int, 0, 6)
	if g.pixels.Node(int64(pix)) == nil {
		return neighbors
	}
	nodes := g.pixels.From(int64(pix))
	for nodes.Next() {
		neighbors = append(neighbors, int(nodes.Node().ID()))
	}
	sort.Ints(neighbors)
	return neighbors
}

// MarshalDOT renders the neighbour graph in the DOT language.
func (g *Geometry) MarshalDOT(name string) ([]byte, error) {
	return dot.Marshal(g.pixels, name, "", "  ")
}

// SignalNeighbors returns, for every pixel, the mean charge of its
// neighbours. Pixels without neighbours get NaN.
func SignalNeighbors(geom *Geometry, charge []float64) ([]float64, error) {
	if len(charge) != geom.NumPixels() {
		return nil, fmt.Errorf("charge has %d entries for a camera of %d pixels", len(charge), geom.NumPixels())
	}
	meanCharge := make([]float64, len(charge))
	for i := range charge {
		neighbors := geom.Neighbors(i)
		if len(neighbors) <= 0 {
			meanCharge[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, eachNeighbor := range neighbors {
			sum += charge[eachNeighbor]
		}
		meanCharge[i] = sum / float64(len(neighbors))
	}
	return meanCharge, nil
}

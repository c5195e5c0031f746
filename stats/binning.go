package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrLengthMismatch  = errors.New("x and y must have the same length")
	ErrInvalidBinning  = errors.New("invalid binning")
	ErrInvalidRange    = errors.New("invalid range")
	ErrEmptySample     = errors.New("empty sample")
	ErrInvalidSigmaCut = errors.New("sigma_cut <= 0 detected, has to be positive")
)

// Binning is either a number of equal width bins or an explicit list of
// bin edges (lower edges plus the upper edge of the last bin).
type Binning struct {
	count int
	edges []float64
}

// Count returns a Binning with n equal width bins.
func Count(n int) Binning {
	return Binning{count: n}
}

// Edges returns a Binning that uses the given bin edges as is.
func Edges(edges ...float64) Binning {
	if edges == nil {
		edges = []float64{}
	}
	return Binning{edges: edges}
}

// IsCount is true when the bin edges still have to be derived from the data.
func (b Binning) IsCount() bool {
	return b.edges == nil
}

// Len returns the number of bins.
func (b Binning) Len() int {
	if b.edges != nil {
		return len(b.edges) - 1
	}
	return b.count
}

func (b Binning) String() string {
	if b.IsCount() {
		return fmt.Sprintf("%d bins", b.count)
	}
	return fmt.Sprintf("edges%v", b.edges)
}

func (b Binning) validate() error {
	if b.edges == nil {
		if b.count < 1 {
			return fmt.Errorf("%w: bin count must be >= 1, got %d", ErrInvalidBinning, b.count)
		}
		return nil
	}
	if len(b.edges) < 2 {
		return fmt.Errorf("%w: need at least 2 edges, got %d", ErrInvalidBinning, len(b.edges))
	}
	for i := 1; i != len(b.edges); i++ {
		if !(b.edges[i] > b.edges[i-1]) {
			return fmt.Errorf("%w: edges must be strictly increasing (edge[%d]=%v, edge[%d]=%v)",
				ErrInvalidBinning,
				i-1,
				b.edges[i-1],
				i,
				b.edges[i])
		}
	}
	return nil
}

// Range restricts binning to [Low, High).
type Range struct {
	Low  float64
	High float64
}

func (r *Range) validate() error {
	if r == nil {
		return nil
	}
	if !(r.Low < r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// LinSpace returns n evenly spaced values over [low, high]. The last value is
// exactly high.
func LinSpace(low float64, high float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{low}
	}
	values := floats.Span(make([]float64, n), low, high)
	values[n-1] = high
	return values
}

// LogBins returns integer charge bins between 10^minExp and 10^maxExp, shifted
// by one half so that every integer sits in the middle of its bin. Bins that
// collapse onto the same integer are merged.
func LogBins(minExp float64, maxExp float64, bins int) []float64 {
	exponents := LinSpace(minExp, maxExp, bins+1)
	edges := make([]float64, 0, len(exponents))
	for _, eachExp := range exponents {
		edges = append(edges, math.RoundToEven(math.Pow(10, eachExp)))
	}
	sort.Float64s(edges)
	unique := edges[:0]
	for i, eachEdge := range edges {
		if i == 0 || eachEdge != unique[len(unique)-1] {
			unique = append(unique, eachEdge)
		}
	}
	for i := range unique {
		unique[i] -= 0.5
	}
	return unique
}

// BinCenters returns the midpoints of consecutive edges.
func BinCenters(edges []float64) []float64 {
	if len(edges) < 2 {
		return []float64{}
	}
	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = edges[i] + (edges[i+1]-edges[i])/2
	}
	return centers
}

// Bin sorts the y values into the bins defined over x. Bin i receives the y
// values whose x is in [edges[i], edges[i+1]). When bins is a count and no
// range is given the range is [min(x), nextafter(max(x))] so that the maximum
// is kept. A sample of a single distinct value is widened by one half on each
// side first. A range drops all pairs with x outside [Low, High). The range is
// ignored for explicit edges.
func Bin(x []float64, y []float64, bins Binning, rng *Range) ([][]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}
	validateErr := bins.validate()
	if validateErr != nil {
		return nil, nil, validateErr
	}
	xs, ys := x, y
	var edges []float64
	if bins.IsCount() {
		if rng == nil {
			if len(x) <= 0 {
				return nil, nil, ErrEmptySample
			}
			low, high := floats.Min(x), floats.Max(x)
			if math.IsInf(low, 0) || math.IsInf(high, 0) || math.IsNaN(low) || math.IsNaN(high) {
				return nil, nil, fmt.Errorf("%w: autodetected range [%v, %v] is not finite",
					ErrInvalidRange,
					low,
					high)
			}
			if low == high {
				low -= 0.5
				high += 0.5
			}
			rng = &Range{Low: low, High: math.Nextafter(high, math.Inf(1))}
		} else {
			rangeErr := rng.validate()
			if rangeErr != nil {
				return nil, nil, rangeErr
			}
			xs, ys = restrict(x, y, *rng)
		}
		edges = LinSpace(rng.Low, rng.High, bins.count+1)
	} else {
		edges = append([]float64(nil), bins.edges...)
	}
	return groupBy(xs, ys, edges, halfOpenIndex), edges, nil
}

func restrict(x []float64, y []float64, rng Range) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i, eachX := range x {
		if rng.Low <= eachX && eachX < rng.High {
			xs = append(xs, eachX)
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}

// histogramEdges derives edges the way a plain histogram does: the data range
// is [min(x), max(x)], widened by one half on each side when it is degenerate,
// and [0, 1] for an empty sample.
func histogramEdges(x []float64, bins Binning, rng *Range) ([]float64, error) {
	if !bins.IsCount() {
		return append([]float64(nil), bins.edges...), nil
	}
	var low, high float64
	switch {
	case rng != nil:
		rangeErr := rng.validate()
		if rangeErr != nil {
			return nil, rangeErr
		}
		low, high = rng.Low, rng.High
	case len(x) <= 0:
		low, high = 0, 1
	default:
		low, high = floats.Min(x), floats.Max(x)
		if math.IsInf(low, 0) || math.IsInf(high, 0) || math.IsNaN(low) || math.IsNaN(high) {
			return nil, fmt.Errorf("%w: autodetected range [%v, %v] is not finite",
				ErrInvalidRange,
				low,
				high)
		}
		if low == high {
			low -= 0.5
			high += 0.5
		}
	}
	return LinSpace(low, high, bins.count+1), nil
}

type binIndexFunc func(edges []float64, value float64) int

// halfOpenIndex returns i such that edges[i] <= value < edges[i+1], or -1.
func halfOpenIndex(edges []float64, value float64) int {
	i := sort.Search(len(edges), func(k int) bool { return edges[k] > value })
	if i == 0 || i == len(edges) {
		return -1
	}
	return i - 1
}

// histogramIndex is halfOpenIndex with the last bin closed on both sides.
func histogramIndex(edges []float64, value float64) int {
	if value == edges[len(edges)-1] {
		return len(edges) - 2
	}
	return halfOpenIndex(edges, value)
}

// rightClosedIndex returns i such that edges[i] < value <= edges[i+1], or -1.
func rightClosedIndex(edges []float64, value float64) int {
	i := sort.Search(len(edges), func(k int) bool { return edges[k] >= value })
	if i == 0 || i == len(edges) {
		return -1
	}
	return i - 1
}

// groupBy assigns every y to the bin its x falls into. Values outside all
// bins are dropped.
func groupBy(x []float64, y []float64, edges []float64, index binIndexFunc) [][]float64 {
	groups := make([][]float64, len(edges)-1)
	for i := range groups {
		groups[i] = []float64{}
	}
	for i, eachX := range x {
		binIndex := index(edges, eachX)
		if binIndex >= 0 {
			groups[binIndex] = append(groups[binIndex], y[i])
		}
	}
	return groups
}

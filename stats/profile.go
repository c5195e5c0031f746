package stats

import (
	"fmt"
	"math"

	gonumstat "gonum.org/v1/gonum/stat"
)

// ProfileOptions are the optional arguments of Profile. A nil *ProfileOptions
// is the same as the zero value.
type ProfileOptions struct {
	// Range restricts the data to [Low, High]. Ignored for explicit edges.
	Range *Range
	// SigmaCut enables outlier rejection: per bin, values further than
	// SigmaCut scaled MADs from the bin median are ignored.
	SigmaCut *float64
}

// Cut is a helper to set ProfileOptions.SigmaCut inline.
func Cut(sigmaCut float64) *float64 {
	return &sigmaCut
}

// ProfileResult holds the per-bin statistics of a profile. Edges has one
// more entry than the other slices.
type ProfileResult struct {
	Mean  []float64
	Std   []float64
	Count []int
	Edges []float64
}

// Len returns the number of bins.
func (pr *ProfileResult) Len() int {
	return len(pr.Mean)
}

// Centers returns the bin midpoints.
func (pr *ProfileResult) Centers() []float64 {
	return BinCenters(pr.Edges)
}

// MeanError returns the uncertainty of each bin mean, std/sqrt(n-1). Bins
// with fewer than two entries yield NaN.
func (pr *ProfileResult) MeanError() []float64 {
	errs := make([]float64, len(pr.Std))
	for i := range errs {
		if pr.Count[i] < 2 {
			errs[i] = math.NaN()
			continue
		}
		errs[i] = pr.Std[i] / math.Sqrt(float64(pr.Count[i]-1))
	}
	return errs
}

// Profile computes the mean, the population standard deviation and the
// number of entries of y in bins of x.
//
// The bin edges follow the histogram convention: every bin is [low, high)
// except the last one, which also contains its upper edge. When bins is a
// count and no range is set, the edges span [min(x), max(x)].
//
// Empty bins report NaN mean and std and a zero count.
func Profile(x []float64, y []float64, bins Binning, opts *ProfileOptions) (*ProfileResult, error) {
	if opts == nil {
		opts = &ProfileOptions{}
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}
	validateErr := bins.validate()
	if validateErr != nil {
		return nil, validateErr
	}
	if opts.SigmaCut != nil && !(*opts.SigmaCut > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigmaCut, *opts.SigmaCut)
	}
	edges, edgesErr := histogramEdges(x, bins, opts.Range)
	if edgesErr != nil {
		return nil, edgesErr
	}
	groups := groupBy(x, y, edges, histogramIndex)
	result := &ProfileResult{
		Mean:  make([]float64, len(groups)),
		Std:   make([]float64, len(groups)),
		Count: make([]int, len(groups)),
		Edges: edges,
	}
	for i, eachGroup := range groups {
		if opts.SigmaCut != nil {
			eachGroup = RejectOutliers(eachGroup, *opts.SigmaCut)
		}
		result.Count[i] = len(eachGroup)
		result.Mean[i], result.Std[i] = popMeanStdDev(eachGroup)
	}
	return result, nil
}

// popMeanStdDev returns NaN for both values of an empty sample.
func popMeanStdDev(values []float64) (float64, float64) {
	if len(values) <= 0 {
		return math.NaN(), math.NaN()
	}
	mean, variance := gonumstat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(math.Max(variance, 0))
}

package stats

import (
	"fmt"
)

// SliceProfile is the mean and spread of y in the non-empty vertical slices
// of a 2D histogram.
type SliceProfile struct {
	X    []float64
	Mean []float64
	Std  []float64
}

// Len returns the number of non-empty slices.
func (sp *SliceProfile) Len() int {
	return len(sp.X)
}

// ComputeProfile slices the (x, y) plane along the x binning of nbin[0] and
// returns the mean and population standard deviation of y in each slice.
// Slices are (edges[i], edges[i+1]], so a point sitting on the lowest edge is
// not counted. Empty slices are left out, so the result may be shorter than
// the number of bins. X holds edges[i] plus half the width of the first bin.
//
// nbin[1] describes the y axis of the histogram and is only validated.
func ComputeProfile(x []float64, y []float64, nbin [2]Binning) (*SliceProfile, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}
	for i := range nbin {
		validateErr := nbin[i].validate()
		if validateErr != nil {
			return nil, validateErr
		}
	}
	edges, edgesErr := histogramEdges(x, nbin[0], nil)
	if edgesErr != nil {
		return nil, edgesErr
	}
	binWidth := edges[1] - edges[0]

	slices := groupBy(x, y, edges, rightClosedIndex)
	profile := &SliceProfile{
		X:    make([]float64, 0, len(slices)),
		Mean: make([]float64, 0, len(slices)),
		Std:  make([]float64, 0, len(slices)),
	}
	for i, eachSlice := range slices {
		if len(eachSlice) <= 0 {
			continue
		}
		mean, std := popMeanStdDev(eachSlice)
		profile.X = append(profile.X, edges[i]+binWidth/2)
		profile.Mean = append(profile.Mean, mean)
		profile.Std = append(profile.Std, std)
	}
	return profile, nil
}

package stats

import (
	"math"

	montanastats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// MADScale turns the median absolute deviation into an estimate of the
// standard deviation of a normal distribution (1/Φ⁻¹(3/4)).
const MADScale = 1.482602218505602

// Median returns the median of a, averaging the two central values for an
// even sample size. An empty sample, or one containing NaN, has a NaN
// median.
func Median(a []float64) float64 {
	if floats.HasNaN(a) {
		return math.NaN()
	}
	median, medianErr := montanastats.Median(a)
	if medianErr != nil {
		return math.NaN()
	}
	return median
}

// MAD returns the scaled median absolute deviation of a around med, or around
// the sample median when med is nil.
//
// Unlike the sample variance, the MAD stays finite when a minority of the
// values is infinite or extreme. A NaN anywhere in a makes the MAD NaN.
func MAD(a []float64, med *float64) float64 {
	if len(a) <= 0 {
		return math.NaN()
	}
	center := 0.0
	if med != nil {
		center = *med
	} else {
		center = Median(a)
	}
	deviations := make([]float64, len(a))
	for i, eachValue := range a {
		deviations[i] = math.Abs(eachValue - center)
	}
	return MADScale * Median(deviations)
}

// RejectOutliers returns the values within sigmaCut scaled MADs of the
// median. A zero MAD keeps every value; a NaN median or MAD keeps none.
func RejectOutliers(values []float64, sigmaCut float64) []float64 {
	if len(values) <= 0 {
		return []float64{}
	}
	median := Median(values)
	mad := MAD(values, &median)
	retained := make([]float64, 0, len(values))
	for _, eachValue := range values {
		if mad == 0 || math.Abs(eachValue-median) < sigmaCut*mad {
			retained = append(retained, eachValue)
		}
	}
	return retained
}

package stats

import (
	"math"
	"sort"

	gonumstat "gonum.org/v1/gonum/stat"
)

type Percentile struct {
	P   float64
	Val float64
}

// AggregatedStatistics summarizes a single column of samples.
type AggregatedStatistics struct {
	Count       int
	Mean        float64
	Median      float64
	StdDev      float64
	MAD         float64
	Percentiles []Percentile
}

// StatsForSequence summarizes the finite values of unsortedSamples.
// Percentiles greater than one are read as percent.
func StatsForSequence(unsortedSamples []float64, percentiles []float64) *AggregatedStatistics {
	sortedSamples := make([]float64, 0, len(unsortedSamples))
	for _, eachSample := range unsortedSamples {
		if !math.IsNaN(eachSample) && !math.IsInf(eachSample, 0) {
			sortedSamples = append(sortedSamples, eachSample)
		}
	}
	sort.Float64s(sortedSamples)

	aggStats := &AggregatedStatistics{
		Count:       len(sortedSamples),
		Mean:        math.NaN(),
		Median:      math.NaN(),
		StdDev:      math.NaN(),
		MAD:         math.NaN(),
		Percentiles: make([]Percentile, len(percentiles)),
	}
	if len(sortedSamples) <= 0 {
		for eachPercentileIndex, eachPercentile := range percentiles {
			aggStats.Percentiles[eachPercentileIndex] = Percentile{P: eachPercentile, Val: math.NaN()}
		}
		return aggStats
	}
	// Compute aggregates...
	aggStats.Mean, aggStats.StdDev = popMeanStdDev(sortedSamples)
	aggStats.Median = Median(sortedSamples)
	aggStats.MAD = MAD(sortedSamples, &aggStats.Median)

	for eachPercentileIndex := range percentiles {
		percentileValue := percentiles[eachPercentileIndex]
		if percentileValue > 1.00 {
			percentileValue = percentileValue / 100
		}
		aggStats.Percentiles[eachPercentileIndex] = Percentile{
			P: percentiles[eachPercentileIndex],
			Val: gonumstat.Quantile(percentileValue,
				gonumstat.Empirical,
				sortedSamples,
				nil),
		}
	}
	return aggStats
}

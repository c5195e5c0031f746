package stats

import (
	"math"
	"testing"
)

func TestStatsForSequence(t *testing.T) {
	t.Run("ignores non-finite samples", func(t *testing.T) {
		agg := StatsForSequence([]float64{4, 1, math.NaN(), 3, 2, math.Inf(-1)}, []float64{50, 0.9})
		if agg.Count != 4 {
			t.Fatalf("expected 4 finite samples, got %d", agg.Count)
		}
		equalSlices(t, "summary",
			[]float64{agg.Mean, agg.Median, agg.StdDev, agg.MAD},
			[]float64{2.5, 2.5, math.Sqrt(1.25), MADScale})
		if agg.Percentiles[0].P != 50 || agg.Percentiles[0].Val != 2 {
			t.Fatalf("expected p50=2, got %+v", agg.Percentiles[0])
		}
		if agg.Percentiles[1].Val != 4 {
			t.Fatalf("expected p90=4, got %+v", agg.Percentiles[1])
		}
	})

	t.Run("empty sequence", func(t *testing.T) {
		agg := StatsForSequence(nil, []float64{50})
		if agg.Count != 0 || !math.IsNaN(agg.Mean) || !math.IsNaN(agg.Percentiles[0].Val) {
			t.Fatalf("expected NaN statistics, got %+v", agg)
		}
	})
}

package stats

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestProfile(t *testing.T) {
	t.Run("documented example", func(t *testing.T) {
		x := []float64{0, 1, 2, 3}
		profile, err := Profile(x, x, Count(2), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalSlices(t, "mean", profile.Mean, []float64{0.5, 2.5})
		equalSlices(t, "std", profile.Std, []float64{0.5, 0.5})
		equalSlices(t, "edges", profile.Edges, []float64{0, 1.5, 3})
		if !reflect.DeepEqual(profile.Count, []int{2, 2}) {
			t.Fatalf("expected count [2 2], got %v", profile.Count)
		}
		equalSlices(t, "mean error", profile.MeanError(), []float64{0.5, 0.5})
		equalSlices(t, "centers", profile.Centers(), []float64{0.75, 2.25})
	})

	t.Run("counts match binning and empty bins are NaN", func(t *testing.T) {
		x := []float64{0.5, 1.2, 2.9, 3.3, 4.1, 7.7, 8.9, 0.1}
		y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		profile, err := Profile(x, y, Count(4), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Len() != 4 || len(profile.Edges) != 5 {
			t.Fatalf("expected 4 bins and 5 edges, got %d and %d", profile.Len(), len(profile.Edges))
		}
		binned, _, binErr := Bin(x, y, Count(4), nil)
		if binErr != nil {
			t.Fatalf("unexpected error: %v", binErr)
		}
		for i := range binned {
			if profile.Count[i] != len(binned[i]) {
				t.Fatalf("bin %d: profile count %d != binned count %d", i, profile.Count[i], len(binned[i]))
			}
		}
		if !reflect.DeepEqual(profile.Count, []int{3, 3, 0, 2}) {
			t.Fatalf("expected count [3 3 0 2], got %v", profile.Count)
		}
		equalSlices(t, "mean", profile.Mean, []float64{11.0 / 3, 4, math.NaN(), 6.5})
		equalSlices(t, "std", profile.Std[2:3], []float64{math.NaN()})
	})

	t.Run("range keeps the upper edge in the last bin", func(t *testing.T) {
		x := []float64{0, 1, 2, 3}
		profile, err := Profile(x, x, Count(2), &ProfileOptions{Range: &Range{Low: 0, High: 2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalSlices(t, "edges", profile.Edges, []float64{0, 1, 2})
		equalSlices(t, "mean", profile.Mean, []float64{0, 1.5})
		if !reflect.DeepEqual(profile.Count, []int{1, 2}) {
			t.Fatalf("expected count [1 2], got %v", profile.Count)
		}
	})

	t.Run("explicit edges", func(t *testing.T) {
		x := []float64{0, 1, 2, 3, 4, 5}
		profile, err := Profile(x, x, Edges(0, 2, 4), &ProfileOptions{Range: &Range{Low: 10, High: 20}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(profile.Count, []int{2, 3}) {
			t.Fatalf("expected count [2 3], got %v", profile.Count)
		}
		equalSlices(t, "mean", profile.Mean, []float64{0.5, 3})
	})

	t.Run("degenerate and empty samples", func(t *testing.T) {
		profile, err := Profile([]float64{5, 5, 5}, []float64{1, 2, 3}, Count(1), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalSlices(t, "edges", profile.Edges, []float64{4.5, 5.5})
		if profile.Count[0] != 3 {
			t.Fatalf("expected 3 entries, got %d", profile.Count[0])
		}

		empty, emptyErr := Profile([]float64{}, []float64{}, Count(2), nil)
		if emptyErr != nil {
			t.Fatalf("unexpected error: %v", emptyErr)
		}
		equalSlices(t, "edges", empty.Edges, []float64{0, 0.5, 1})
		equalSlices(t, "mean", empty.Mean, []float64{math.NaN(), math.NaN()})
		equalSlices(t, "std", empty.Std, []float64{math.NaN(), math.NaN()})
		if !reflect.DeepEqual(empty.Count, []int{0, 0}) {
			t.Fatalf("expected zero counts, got %v", empty.Count)
		}
	})

	t.Run("sigma cut rejects outliers", func(t *testing.T) {
		x := []float64{0, 0, 0, 0, 0}
		y := []float64{1, 1.1, 0.9, 1.0, 50}
		profile, err := Profile(x, y, Count(1), &ProfileOptions{SigmaCut: Cut(3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Count[0] != 4 {
			t.Fatalf("expected the outlier to be dropped, got count %d", profile.Count[0])
		}
		equalSlices(t, "mean", profile.Mean, []float64{1})
		equalSlices(t, "std", profile.Std, []float64{math.Sqrt(0.005)})
	})

	t.Run("sigma cut keeps everything when the MAD is zero", func(t *testing.T) {
		x := []float64{1, 1, 1, 1}
		y := []float64{2, 2, 2, 100}
		profile, err := Profile(x, y, Count(1), &ProfileOptions{SigmaCut: Cut(3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Count[0] != 4 {
			t.Fatalf("expected all 4 entries, got %d", profile.Count[0])
		}
		equalSlices(t, "mean", profile.Mean, []float64{26.5})
	})

	t.Run("sigma cut drops infinite values", func(t *testing.T) {
		x := []float64{0, 0, 0, 0}
		y := []float64{1, 2, 3, math.Inf(1)}
		profile, err := Profile(x, y, Count(1), &ProfileOptions{SigmaCut: Cut(3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Count[0] != 3 {
			t.Fatalf("expected 3 entries, got %d", profile.Count[0])
		}
		equalSlices(t, "mean", profile.Mean, []float64{2})
	})

	t.Run("sigma cut empties a bin containing NaN", func(t *testing.T) {
		x := []float64{0, 0, 0, 0, 5, 5}
		y := []float64{1, 2, math.NaN(), 3, 4, 6}
		profile, err := Profile(x, y, Count(2), &ProfileOptions{SigmaCut: Cut(3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Count[0] != 0 || profile.Count[1] != 2 {
			t.Fatalf("expected counts [0 2], got %v", profile.Count)
		}
		equalSlices(t, "mean", profile.Mean, []float64{math.NaN(), 5})
	})

	t.Run("retained values satisfy the cut", func(t *testing.T) {
		x := make([]float64, 200)
		y := make([]float64, 200)
		for i := range x {
			x[i] = float64(i % 10)
			y[i] = math.Sin(float64(i)*1.3) + float64(i%10)
			if i%17 == 0 {
				y[i] += 40
			}
		}
		sigmaCut := 2.0
		profile, err := Profile(x, y, Count(5), &ProfileOptions{SigmaCut: Cut(sigmaCut)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		plain, plainErr := Profile(x, y, Count(5), nil)
		if plainErr != nil {
			t.Fatalf("unexpected error: %v", plainErr)
		}
		groups := groupBy(x, y, profile.Edges, histogramIndex)
		for i, eachGroup := range groups {
			retained := RejectOutliers(eachGroup, sigmaCut)
			median := Median(eachGroup)
			mad := MAD(eachGroup, nil)
			for _, eachValue := range retained {
				if !(mad == 0 || math.Abs(eachValue-median) < sigmaCut*mad) {
					t.Fatalf("bin %d retained %v outside the cut", i, eachValue)
				}
			}
			if profile.Count[i] != len(retained) {
				t.Fatalf("bin %d: expected count %d, got %d", i, len(retained), profile.Count[i])
			}
			if profile.Count[i] >= plain.Count[i] {
				t.Fatalf("bin %d: expected outliers to reduce the count (%d vs %d)", i, profile.Count[i], plain.Count[i])
			}
		}
	})

	t.Run("identical inputs give identical outputs", func(t *testing.T) {
		x := []float64{0.3, 1.7, 2.2, 2.8, 3.9, 0.4}
		y := []float64{5, 4, 3, 2, 1, 0}
		first, _ := Profile(x, y, Count(3), &ProfileOptions{SigmaCut: Cut(2.5)})
		second, _ := Profile(x, y, Count(3), &ProfileOptions{SigmaCut: Cut(2.5)})
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected identical results, got %v and %v", first, second)
		}
	})

	t.Run("invalid sigma cut", func(t *testing.T) {
		for _, eachCut := range []float64{0, -1} {
			_, err := Profile([]float64{1}, []float64{1}, Count(1), &ProfileOptions{SigmaCut: Cut(eachCut)})
			if !errors.Is(err, ErrInvalidSigmaCut) {
				t.Fatalf("sigma cut %v: expected ErrInvalidSigmaCut, got %v", eachCut, err)
			}
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Profile([]float64{1, 2}, []float64{1}, Count(1), nil)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})
}

package stats

import (
	"errors"
	"testing"
)

func TestComputeProfile(t *testing.T) {
	t.Run("slices are open on the left", func(t *testing.T) {
		x := []float64{0, 1, 2, 3}
		profile, err := ComputeProfile(x, x, [2]Binning{Count(2), Count(2)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalSlices(t, "x", profile.X, []float64{0.75, 2.25})
		equalSlices(t, "mean", profile.Mean, []float64{1, 2.5})
		equalSlices(t, "std", profile.Std, []float64{0, 0.5})

		// The same data keeps all four points in Profile, which is closed on the left.
		histProfile, histErr := Profile(x, x, Count(2), nil)
		if histErr != nil {
			t.Fatalf("unexpected error: %v", histErr)
		}
		if histProfile.Count[0]+histProfile.Count[1] != 4 {
			t.Fatalf("expected Profile to keep all points, got %v", histProfile.Count)
		}
	})

	t.Run("empty slices are omitted", func(t *testing.T) {
		x := []float64{0, 1, 9, 10}
		y := []float64{5, 6, 7, 8}
		profile, err := ComputeProfile(x, y, [2]Binning{Count(5), Count(5)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Len() != 2 {
			t.Fatalf("expected 2 non-empty slices, got %d", profile.Len())
		}
		equalSlices(t, "x", profile.X, []float64{1, 9})
		equalSlices(t, "mean", profile.Mean, []float64{6, 7.5})
		equalSlices(t, "std", profile.Std, []float64{0, 0.5})
	})

	t.Run("explicit edges use the first bin width", func(t *testing.T) {
		x := []float64{0.5, 5}
		y := []float64{1, 2}
		edges := Edges(0, 1, 10)
		profile, err := ComputeProfile(x, y, [2]Binning{edges, edges})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalSlices(t, "x", profile.X, []float64{0.5, 1.5})
		equalSlices(t, "mean", profile.Mean, []float64{1, 2})
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := ComputeProfile([]float64{1}, []float64{}, [2]Binning{Count(1), Count(1)})
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
		_, err = ComputeProfile([]float64{1}, []float64{1}, [2]Binning{Count(1), Count(0)})
		if !errors.Is(err, ErrInvalidBinning) {
			t.Fatalf("expected ErrInvalidBinning, got %v", err)
		}
	})
}

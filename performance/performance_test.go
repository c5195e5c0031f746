package performance

import (
	"errors"
	"math"
	"testing"

	"github.com/caloperf/caloperf/stats"
	"gonum.org/v1/gonum/floats/scalar"
)

func expectCurve(t *testing.T, curve *Curve, x []float64, y []float64) {
	t.Helper()
	if curve.Len() != len(x) || len(curve.Y) != len(y) {
		t.Fatalf("expected %d points, got x=%v y=%v", len(x), curve.X, curve.Y)
	}
	for i := range x {
		if !scalar.EqualWithinAbsOrRel(curve.X[i], x[i], 1e-12, 1e-12) {
			t.Fatalf("x[%d]: expected %v, got %v", i, x[i], curve.X[i])
		}
		if !scalar.EqualWithinAbsOrRel(curve.Y[i], y[i], 1e-12, 1e-12) {
			t.Fatalf("y[%d]: expected %v, got %v", i, y[i], curve.Y[i])
		}
	}
}

func TestChargeResolution(t *testing.T) {
	trueQ := []float64{10, 10, 100, 100}
	recoQ := []float64{11, 9, 110, 90}
	curve, err := ChargeResolution(trueQ, recoQ, 0, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Edges are 0.5, 9.5, 99.5, 999.5; the first slice is empty and every
	// point is offset by half the width of the first bin.
	expectCurve(t, curve, []float64{14, 104}, []float64{1.0 / 14, 10.0 / 104})

	_, err = ChargeResolution(trueQ, recoQ[:3], 0, 3, 3)
	if !errors.Is(err, stats.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	_, err = ChargeResolution(trueQ, recoQ, 0, 0.01, 1)
	if !errors.Is(err, stats.ErrInvalidBinning) {
		t.Fatalf("expected ErrInvalidBinning for a single integer bin, got %v", err)
	}
}

func TestTimeResolution(t *testing.T) {
	trueQ := []float64{10, 10, 10, 1000, 1000, 1000, 0}
	trueT := []float64{1, -1, 1, 2, -2, 2, 50}
	recoT := make([]float64, len(trueT))
	curve, err := TimeResolution(trueQ, trueT, recoT, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectCurve(t, curve, []float64{55, 550}, []float64{1, 2})
	if curve.Count[0] != 3 || curve.Count[1] != 3 {
		t.Fatalf("expected counts [3 3], got %v", curve.Count)
	}
	if curve.Err[0] != 0 || curve.Err[1] != 0 {
		t.Fatalf("expected no error for identical residuals, got %v", curve.Err)
	}

	t.Run("error of the RMS", func(t *testing.T) {
		// Squared residuals 1, 1, 9: mean 11/3 and mean error 8/3.
		curve, err := TimeResolution([]float64{10, 10, 10}, []float64{1, -1, 3}, []float64{0, 0, 0}, 1, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rms := math.Sqrt(11.0 / 3)
		if !scalar.EqualWithinAbsOrRel(curve.Y[0], rms, 1e-12, 1e-12) {
			t.Fatalf("expected an RMS of %v, got %v", rms, curve.Y[0])
		}
		expected := 8.0 / 3 / (2 * rms)
		if !scalar.EqualWithinAbsOrRel(curve.Err[0], expected, 1e-12, 1e-12) {
			t.Fatalf("expected an error of %v, got %v", expected, curve.Err[0])
		}
	})
}

func TestTimeSNR(t *testing.T) {
	snr := []float64{1, 2, 3, math.NaN()}
	trueT := []float64{1, 2, 4, 100}
	recoT := make([]float64, len(trueT))
	curve, err := TimeSNR(snr, trueT, recoT, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectCurve(t, curve, []float64{1, 2}, []float64{1, 10})
	// A single entry has no error, the pair 4 and 16 has std 6.
	if !math.IsNaN(curve.Err[0]) || curve.Err[1] != 6 {
		t.Fatalf("expected errors [NaN 6], got %v", curve.Err)
	}
	if relative := curve.MaxRelativeError(); relative != 0.6 {
		t.Fatalf("expected a largest relative error of 0.6, got %v", relative)
	}
}

func TestNeighborCharge(t *testing.T) {
	curve, err := NeighborCharge([]float64{10, 100, 0}, []float64{2, 4, 7}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectCurve(t, curve, []float64{55}, []float64{3})
}

func TestCurveFinite(t *testing.T) {
	curve := &Curve{
		Name:  "test",
		X:     []float64{1, 2, 3, 4, 5},
		Y:     []float64{1, math.NaN(), 0, math.Inf(1), 5},
		Err:   []float64{0.5, 1, 1, 1, 2},
		Count: []int{1, 0, 1, 1, 4},
	}
	finite := curve.Finite()
	expectCurve(t, finite, []float64{1, 5}, []float64{1, 5})
	if len(finite.Count) != 2 || finite.Count[1] != 4 {
		t.Fatalf("expected counts to follow the kept points, got %v", finite.Count)
	}
	if len(finite.Err) != 2 || finite.Err[0] != 0.5 || finite.Err[1] != 2 {
		t.Fatalf("expected errors to follow the kept points, got %v", finite.Err)
	}
	if low, high := finite.YError(1); low != 2 || high != 2 {
		t.Fatalf("expected symmetric errors of 2, got %v, %v", low, high)
	}
	if relative := finite.MaxRelativeError(); relative != 0.5 {
		t.Fatalf("expected a largest relative error of 0.5, got %v", relative)
	}
	if !math.IsNaN((&Curve{X: []float64{1}, Y: []float64{1}}).MaxRelativeError()) {
		t.Fatalf("expected NaN without errors")
	}
}

func TestAnalysis(t *testing.T) {
	for _, eachAnalysis := range Analyses {
		if !eachAnalysis.Valid() {
			t.Fatalf("expected %s to be valid", eachAnalysis)
		}
	}
	if Analysis("histogram").Valid() {
		t.Fatalf("expected an unknown analysis to be invalid")
	}
	x, y := TimeSNRAnalysis.Labels()
	if x != "SNR" || y != "Time resolution / ns" {
		t.Fatalf("unexpected labels %q, %q", x, y)
	}
}

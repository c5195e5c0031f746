package parameters

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func testWaveforms() *mat.Dense {
	return mat.NewDense(3, 5, []float64{
		0, 1, 2, 1, 0,
		4, 0, 0, 0, 0,
		0, 0, 1, 3, 3,
	})
}

func TestPulseCentroid(t *testing.T) {
	got := PulseCentroid(testWaveforms())
	want := []float64{2, 0, (2.0 + 9 + 12) / 7}
	if !floats.EqualApprox(got, want, 1e-12) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	flat := PulseCentroid(mat.NewDense(1, 3, []float64{0, 0, 0}))
	if !math.IsNaN(flat[0]) {
		t.Fatalf("expected NaN centroid for an empty waveform, got %v", flat[0])
	}
}

func TestPulsePeak(t *testing.T) {
	got := PulsePeak(testWaveforms())
	if !reflect.DeepEqual(got, []int{2, 0, 3}) {
		t.Fatalf("expected [2 0 3], got %v", got)
	}
}

func TestNoise(t *testing.T) {
	t.Run("sums the window", func(t *testing.T) {
		got := Noise(testWaveforms(), 1, 3)
		if !floats.Equal(got, []float64{3, 0, 1}) {
			t.Fatalf("expected [3 0 1], got %v", got)
		}
	})

	t.Run("clips the window to the readout", func(t *testing.T) {
		got := Noise(testWaveforms(), -4, 100)
		if !floats.Equal(got, []float64{4, 4, 7}) {
			t.Fatalf("expected [4 4 7], got %v", got)
		}
		empty := Noise(testWaveforms(), 3, 1)
		if !floats.Equal(empty, []float64{0, 0, 0}) {
			t.Fatalf("expected an empty window to sum to zero, got %v", empty)
		}
	})
}

func TestPeakWindow(t *testing.T) {
	charge, time := PeakWindow(testWaveforms(), 1, 1)
	if !floats.Equal(charge, []float64{4, 4, 7}) {
		t.Fatalf("expected charge [4 4 7], got %v", charge)
	}
	want := []float64{2, 0, (2.0 + 9 + 12) / 7}
	if !floats.EqualApprox(time, want, 1e-12) {
		t.Fatalf("expected time %v, got %v", want, time)
	}
}

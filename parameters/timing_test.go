package parameters

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestMeanTrueTime(t *testing.T) {
	pe := PhotoElectrons{
		PixelID: []int{7, 2, 7, 2, 7},
		Time:    []float64{10, 4, 12, 6, 14},
	}
	pixels, mean, std := MeanTrueTime(pe)
	if !reflect.DeepEqual(pixels, []int{2, 7}) {
		t.Fatalf("expected pixels [2 7], got %v", pixels)
	}
	if !floats.EqualApprox(mean, []float64{5, 12}, 1e-12) {
		t.Fatalf("expected mean [5 12], got %v", mean)
	}
	if !floats.EqualApprox(std, []float64{1, math.Sqrt(8.0 / 3)}, 1e-12) {
		t.Fatalf("expected population std [1 %v], got %v", math.Sqrt(8.0/3), std)
	}

	pixels, mean, _ = MeanTrueTime(PhotoElectrons{})
	if len(pixels) != 0 || len(mean) != 0 {
		t.Fatalf("expected no pixels, got %v", pixels)
	}
}

func TestTimingOffsets(t *testing.T) {
	subarray := CameraNames{1: "FlashCam", 2: "NectarCam", 3: "FlashCam"}
	events := []ArrayEvent{
		{TelescopeEvents: map[int]TelescopeEvent{
			3: {Header: TelescopeHeader{ReadoutTime: 1, RelativeTriggerTime: 0.5}},
			1: {Header: TelescopeHeader{ReadoutTime: 2, RelativeTriggerTime: 0.25}},
			2: {Header: TelescopeHeader{ReadoutTime: 100, RelativeTriggerTime: 100}},
		}},
		{TelescopeEvents: map[int]TelescopeEvent{
			2: {Header: TelescopeHeader{ReadoutTime: 100, RelativeTriggerTime: 100}},
		}},
		{TelescopeEvents: map[int]TelescopeEvent{
			1: {Header: TelescopeHeader{ReadoutTime: -1, RelativeTriggerTime: 3}},
		}},
	}
	got := TimingOffsets(events, subarray, "FlashCam")
	if !floats.Equal(got, []float64{2.25, 1.5, 2}) {
		t.Fatalf("expected [2.25 1.5 2], got %v", got)
	}
	if len(TimingOffsets(events, subarray, "LSTCam")) != 0 {
		t.Fatalf("expected no offsets for an absent camera")
	}
}

func TestNoiseFromMonitoring(t *testing.T) {
	nsb, noise, pedestal, err := NoiseFromMonitoring(
		CameraMonitoring{Noise: []float64{8, 16}, Pedestal: []float64{400, 404}, NPedSlices: 4},
		PixelMonitoring{NSBRate: []float64{0.1, 0.2}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floats.Equal(nsb, []float64{0.1, 0.2}) ||
		!floats.Equal(noise, []float64{2, 4}) ||
		!floats.Equal(pedestal, []float64{100, 101}) {
		t.Fatalf("unexpected monitoring values: nsb=%v noise=%v pedestal=%v", nsb, noise, pedestal)
	}
	_, _, _, err = NoiseFromMonitoring(CameraMonitoring{}, PixelMonitoring{})
	if err == nil {
		t.Fatalf("expected an error for zero pedestal slices")
	}
}

package parameters

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CameraMonitoring carries the per-pixel pedestal and noise sums over
// NPedSlices readout samples.
type CameraMonitoring struct {
	Noise      []float64
	Pedestal   []float64
	NPedSlices int
}

type PixelMonitoring struct {
	NSBRate []float64
}

// NoiseFromMonitoring returns the night sky background rate and the noise and
// pedestal per readout sample.
func NoiseFromMonitoring(camera CameraMonitoring, pixel PixelMonitoring) (nsb []float64, noise []float64, pedestal []float64, err error) {
	if camera.NPedSlices <= 0 {
		return nil, nil, nil, fmt.Errorf("invalid number of pedestal slices: %d", camera.NPedSlices)
	}
	scale := 1 / float64(camera.NPedSlices)
	nsb = append([]float64(nil), pixel.NSBRate...)
	noise = floats.ScaleTo(make([]float64, len(camera.Noise)), scale, camera.Noise)
	pedestal = floats.ScaleTo(make([]float64, len(camera.Pedestal)), scale, camera.Pedestal)
	return nsb, noise, pedestal, nil
}

package parameters

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Waveforms are stored one pixel per row, one readout sample per column.

// PulseCentroid returns the amplitude weighted mean sample index of every
// waveform.
func PulseCentroid(waveforms mat.Matrix) []float64 {
	rows, cols := waveforms.Dims()
	sampleIndex := make([]float64, cols)
	for i := range sampleIndex {
		sampleIndex[i] = float64(i)
	}
	row := make([]float64, cols)
	centroids := make([]float64, rows)
	for i := 0; i != rows; i++ {
		mat.Row(row, i, waveforms)
		centroids[i] = floats.Dot(row, sampleIndex) / floats.Sum(row)
	}
	return centroids
}

// PulsePeak returns the sample index of the maximum of every waveform. Ties
// resolve to the earliest sample.
func PulsePeak(waveforms mat.Matrix) []int {
	rows, cols := waveforms.Dims()
	peaks := make([]int, rows)
	if cols <= 0 {
		return peaks
	}
	row := make([]float64, cols)
	for i := 0; i != rows; i++ {
		mat.Row(row, i, waveforms)
		peaks[i] = floats.MaxIdx(row)
	}
	return peaks
}

// Noise sums every waveform over the samples [start, stop). The window is
// clipped to the readout.
func Noise(waveforms mat.Matrix, start int, stop int) []float64 {
	rows, cols := waveforms.Dims()
	start, stop = clipWindow(start, stop, cols)
	row := make([]float64, cols)
	sums := make([]float64, rows)
	for i := 0; i != rows; i++ {
		mat.Row(row, i, waveforms)
		sums[i] = floats.Sum(row[start:stop])
	}
	return sums
}

// PeakWindow integrates every waveform in a window of before samples ahead of
// and after samples behind its peak, and returns the window charge and the
// centroid of the window in absolute sample units.
func PeakWindow(waveforms mat.Matrix, before int, after int) (charge []float64, time []float64) {
	rows, cols := waveforms.Dims()
	charge = make([]float64, rows)
	time = make([]float64, rows)
	peaks := PulsePeak(waveforms)
	row := make([]float64, cols)
	for i := 0; i != rows; i++ {
		mat.Row(row, i, waveforms)
		start, stop := clipWindow(peaks[i]-before, peaks[i]+after+1, cols)
		weighted := 0.0
		for t := start; t != stop; t++ {
			charge[i] += row[t]
			weighted += float64(t) * row[t]
		}
		if charge[i] == 0 {
			time[i] = math.NaN()
			continue
		}
		time[i] = weighted / charge[i]
	}
	return charge, time
}

func clipWindow(start int, stop int, length int) (int, int) {
	start = max(0, min(start, length))
	stop = max(start, min(stop, length))
	return start, stop
}

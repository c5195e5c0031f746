package parameters

import (
	"sort"

	gonumstat "gonum.org/v1/gonum/stat"
)

// PhotoElectrons are the simulated photoelectrons of one telescope in one
// event. PixelID[i] is the pixel that detected the photoelectron arriving at
// Time[i].
type PhotoElectrons struct {
	PixelID []int
	Time    []float64
}

// TelescopeHeader is the readout header of a single telescope event.
type TelescopeHeader struct {
	ReadoutTime         float64
	RelativeTriggerTime float64
}

type TelescopeEvent struct {
	Header TelescopeHeader
}

// ArrayEvent holds the telescope events of one array event keyed by
// telescope ID.
type ArrayEvent struct {
	TelescopeEvents map[int]TelescopeEvent
}

// Subarray resolves the camera type of a telescope.
type Subarray interface {
	CameraName(telID int) string
}

// CameraNames is a Subarray backed by a map.
type CameraNames map[int]string

func (cn CameraNames) CameraName(telID int) string {
	return cn[telID]
}

// MeanTrueTime returns, for every pixel with at least one photoelectron, the
// mean and the standard deviation of the photoelectron arrival times. Pixels
// are returned in ascending order.
func MeanTrueTime(pe PhotoElectrons) (pixels []int, mean []float64, std []float64) {
	timesByPixel := make(map[int][]float64)
	for i, eachPixel := range pe.PixelID {
		timesByPixel[eachPixel] = append(timesByPixel[eachPixel], pe.Time[i])
	}
	pixels = make([]int, 0, len(timesByPixel))
	for eachPixel := range timesByPixel {
		pixels = append(pixels, eachPixel)
	}
	sort.Ints(pixels)

	mean = make([]float64, len(pixels))
	std = make([]float64, len(pixels))
	for i, eachPixel := range pixels {
		mean[i], std[i] = gonumstat.PopMeanStdDev(timesByPixel[eachPixel], nil)
	}
	return pixels, mean, std
}

// TimingOffsets returns readout time plus relative trigger time for every
// telescope event recorded by a camera of the given type, in event order and
// ascending telescope ID within an event.
func TimingOffsets(events []ArrayEvent, subarray Subarray, camera string) []float64 {
	offsets := make([]float64, 0, len(events))
	for _, eachEvent := range events {
		telIDs := make([]int, 0, len(eachEvent.TelescopeEvents))
		for eachID := range eachEvent.TelescopeEvents {
			telIDs = append(telIDs, eachID)
		}
		sort.Ints(telIDs)
		for _, eachID := range telIDs {
			if subarray.CameraName(eachID) != camera {
				continue
			}
			header := eachEvent.TelescopeEvents[eachID].Header
			offsets = append(offsets, header.ReadoutTime+header.RelativeTriggerTime)
		}
	}
	return offsets
}

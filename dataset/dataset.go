package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

var ErrMissingColumn = errors.New("missing column")

// Record is the reconstruction of a single pixel in a single event.
type Record struct {
	Event          int
	Pixel          int
	TrueCharge     float64
	RecoCharge     float64
	TrueTime       float64
	RecoTime       float64
	// CentroidTime is the amplitude weighted mean time of the full readout.
	CentroidTime   float64
	SNR            float64
	NeighborCharge float64
	Noise          float64
}

// Dataset stores records column by column. All columns have the same length.
type Dataset struct {
	Event          []int
	Pixel          []int
	TrueCharge     []float64
	RecoCharge     []float64
	TrueTime       []float64
	RecoTime       []float64
	CentroidTime   []float64
	SNR            []float64
	NeighborCharge []float64
	Noise          []float64
}

// Columns is the CSV header written by WriteCSV.
var Columns = []string{
	"event",
	"pixel",
	"true_charge",
	"reco_charge",
	"true_time",
	"reco_time",
	"centroid_time",
	"snr",
	"neighbor_charge",
	"noise",
}

var requiredColumns = []string{"true_charge", "reco_charge", "true_time", "reco_time"}

func (ds *Dataset) Len() int {
	return len(ds.TrueCharge)
}

func (ds *Dataset) Append(rec Record) {
	ds.Event = append(ds.Event, rec.Event)
	ds.Pixel = append(ds.Pixel, rec.Pixel)
	ds.TrueCharge = append(ds.TrueCharge, rec.TrueCharge)
	ds.RecoCharge = append(ds.RecoCharge, rec.RecoCharge)
	ds.TrueTime = append(ds.TrueTime, rec.TrueTime)
	ds.RecoTime = append(ds.RecoTime, rec.RecoTime)
	ds.CentroidTime = append(ds.CentroidTime, rec.CentroidTime)
	ds.SNR = append(ds.SNR, rec.SNR)
	ds.NeighborCharge = append(ds.NeighborCharge, rec.NeighborCharge)
	ds.Noise = append(ds.Noise, rec.Noise)
}

func (ds *Dataset) Record(i int) Record {
	return Record{
		Event:          ds.Event[i],
		Pixel:          ds.Pixel[i],
		TrueCharge:     ds.TrueCharge[i],
		RecoCharge:     ds.RecoCharge[i],
		TrueTime:       ds.TrueTime[i],
		RecoTime:       ds.RecoTime[i],
		CentroidTime:   ds.CentroidTime[i],
		SNR:            ds.SNR[i],
		NeighborCharge: ds.NeighborCharge[i],
		Noise:          ds.Noise[i],
	}
}

// Validate checks that every column has the same length.
func (ds *Dataset) Validate() error {
	n := ds.Len()
	lengths := map[string]int{
		"event":           len(ds.Event),
		"pixel":           len(ds.Pixel),
		"reco_charge":     len(ds.RecoCharge),
		"true_time":       len(ds.TrueTime),
		"reco_time":       len(ds.RecoTime),
		"centroid_time":   len(ds.CentroidTime),
		"snr":             len(ds.SNR),
		"neighbor_charge": len(ds.NeighborCharge),
		"noise":           len(ds.Noise),
	}
	for _, eachColumn := range Columns {
		columnLen, columnLenOk := lengths[eachColumn]
		if columnLenOk && columnLen != n {
			return fmt.Errorf("column %s has %d entries, expected %d", eachColumn, columnLen, n)
		}
	}
	return nil
}

// ReadCSV reads a dataset with a header row. The true/reconstructed charge
// and time columns are required; missing optional columns are NaN, missing
// event and pixel columns are zero.
func ReadCSV(input io.Reader) (*Dataset, error) {
	reader := csv.NewReader(input)
	reader.TrimLeadingSpace = true
	header, headerErr := reader.Read()
	if headerErr != nil {
		return nil, fmt.Errorf("failed to read header: %w", headerErr)
	}
	columnIndex := make(map[string]int, len(header))
	for i, eachName := range header {
		columnIndex[eachName] = i
	}
	for _, eachRequired := range requiredColumns {
		if _, exists := columnIndex[eachRequired]; !exists {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, eachRequired)
		}
	}

	ds := &Dataset{}
	line := 1
	for {
		row, rowErr := reader.Read()
		if rowErr == io.EOF {
			break
		}
		line++
		if rowErr != nil {
			return nil, rowErr
		}
		floatAt := func(name string) (float64, error) {
			idx, exists := columnIndex[name]
			if !exists {
				return math.NaN(), nil
			}
			value, parseErr := strconv.ParseFloat(row[idx], 64)
			if parseErr != nil {
				return 0, fmt.Errorf("line %d, column %s: %w", line, name, parseErr)
			}
			return value, nil
		}
		intAt := func(name string) (int, error) {
			idx, exists := columnIndex[name]
			if !exists {
				return 0, nil
			}
			value, parseErr := strconv.Atoi(row[idx])
			if parseErr != nil {
				return 0, fmt.Errorf("line %d, column %s: %w", line, name, parseErr)
			}
			return value, nil
		}
		var rec Record
		var parseErr error
		if rec.Event, parseErr = intAt("event"); parseErr != nil {
			return nil, parseErr
		}
		if rec.Pixel, parseErr = intAt("pixel"); parseErr != nil {
			return nil, parseErr
		}
		floatTargets := []struct {
			name   string
			target *float64
		}{
			{"true_charge", &rec.TrueCharge},
			{"reco_charge", &rec.RecoCharge},
			{"true_time", &rec.TrueTime},
			{"reco_time", &rec.RecoTime},
			{"centroid_time", &rec.CentroidTime},
			{"snr", &rec.SNR},
			{"neighbor_charge", &rec.NeighborCharge},
			{"noise", &rec.Noise},
		}
		for _, eachTarget := range floatTargets {
			if *eachTarget.target, parseErr = floatAt(eachTarget.name); parseErr != nil {
				return nil, parseErr
			}
		}
		ds.Append(rec)
	}
	return ds, nil
}

// WriteCSV writes the dataset with a header row.
func (ds *Dataset) WriteCSV(output io.Writer) error {
	validateErr := ds.Validate()
	if validateErr != nil {
		return validateErr
	}
	writer := csv.NewWriter(output)
	writeErr := writer.Write(Columns)
	if writeErr != nil {
		return writeErr
	}
	formatFloat := func(value float64) string {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	for i := 0; i != ds.Len(); i++ {
		rec := ds.Record(i)
		writeErr = writer.Write([]string{
			strconv.Itoa(rec.Event),
			strconv.Itoa(rec.Pixel),
			formatFloat(rec.TrueCharge),
			formatFloat(rec.RecoCharge),
			formatFloat(rec.TrueTime),
			formatFloat(rec.RecoTime),
			formatFloat(rec.CentroidTime),
			formatFloat(rec.SNR),
			formatFloat(rec.NeighborCharge),
			formatFloat(rec.Noise),
		})
		if writeErr != nil {
			return writeErr
		}
	}
	writer.Flush()
	return writer.Error()
}

// Load reads a CSV dataset from path.
func Load(path string) (*Dataset, error) {
	inputFile, inputFileErr := os.Open(path)
	if inputFileErr != nil {
		return nil, inputFileErr
	}
	defer inputFile.Close()
	return ReadCSV(inputFile)
}

// Save writes the dataset to path as CSV.
func (ds *Dataset) Save(path string) error {
	outputFile, outputFileErr := os.Create(path)
	if outputFileErr != nil {
		return outputFileErr
	}
	writeErr := ds.WriteCSV(outputFile)
	closeErr := outputFile.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

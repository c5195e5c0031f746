package app

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caloperf/caloperf/dataset"
	"github.com/caloperf/caloperf/parameters"
	"github.com/caloperf/caloperf/performance"
	"github.com/caloperf/caloperf/requirements"
	"github.com/caloperf/caloperf/simulation"
	"github.com/caloperf/caloperf/stats"
)

// /////////////////////////////////////////////////////////////////////////////
//
// TYPES
//
// /////////////////////////////////////////////////////////////////////////////

// AnalysisResult is the outcome of one analysis of the definition.
type AnalysisResult struct {
	Definition  AnalysisDefinition
	Curve       *performance.Curve
	Requirement *requirements.Curve
	// Compared is the number of curve points inside the requirement range,
	// Met the number of those at or below the requirement.
	Compared int
	Met      int
	PlotPath string
}

// Report collects everything an application run produced.
type Report struct {
	Name           string
	Created        time.Time
	Definition     *Definition
	Dataset        *dataset.Dataset
	Geometry       *parameters.Geometry
	Simulated      bool
	NoiseSigma     float64
	NoisePerSample float64
	Results        []*AnalysisResult
	Outputs        []string
}

func (r *Report) addOutput(path string, log *slog.Logger) {
	log.Info("Created output file", "path", path)
	r.Outputs = append(r.Outputs, path)
}

type ApplicationParams struct {
	InputFile       string
	OutputDirectory string
	CreateDot       bool
	CreateSVG       bool
	LightThemeID    int64
	DarkThemeID     int64
}

// /////////////////////////////////////////////////////////////////////////////
// Pipeline
// /////////////////////////////////////////////////////////////////////////////

func loadDataset(report *Report, log *slog.Logger) error {
	definition := report.Definition
	if len(definition.DatasetPath) > 0 {
		log.Info("Loading dataset", "path", definition.DatasetPath)
		ds, dsErr := dataset.Load(definition.DatasetPath)
		if dsErr != nil {
			return dsErr
		}
		report.Dataset = ds
		return nil
	}
	result, resultErr := simulation.Run(definition.Simulation, log)
	if resultErr != nil {
		return resultErr
	}
	report.Dataset = result.Dataset
	report.Geometry = result.Geometry
	report.NoiseSigma = result.NoiseSigma
	report.NoisePerSample = stats.Median(result.NoisePerSample)
	report.Simulated = true
	return nil
}

func runAnalysis(analysis AnalysisDefinition, ds *dataset.Dataset) (*performance.Curve, error) {
	switch analysis.Type {
	case performance.ChargeResolutionAnalysis:
		return performance.ChargeResolution(ds.TrueCharge, ds.RecoCharge, analysis.Min, analysis.Max, analysis.Bins)
	case performance.TimeResolutionAnalysis:
		return performance.TimeResolution(ds.TrueCharge, ds.TrueTime, ds.RecoTime, analysis.Bins, analysis.SigmaCut)
	case performance.TimeSNRAnalysis:
		return performance.TimeSNR(ds.SNR, ds.TrueTime, ds.RecoTime, analysis.Bins, analysis.SigmaCut)
	case performance.NeighborChargeAnalysis:
		return performance.NeighborCharge(ds.TrueCharge, ds.NeighborCharge, analysis.Bins)
	}
	return nil, fmt.Errorf("unsupported analysis type: %s", analysis.Type)
}

// loadRequirement returns the reference curve of an analysis, or nil if
// there is none. The time resolution requirement is built in.
func loadRequirement(definition *Definition, analysis performance.Analysis) (*requirements.Curve, error) {
	requirementPath, requirementPathOk := definition.Requirements[analysis]
	if requirementPathOk {
		return requirements.Read(requirementPath)
	}
	if analysis == performance.TimeResolutionAnalysis {
		return requirements.TimeResolutionCurve(50), nil
	}
	return nil, nil
}

// compareRequirement counts the curve points that the requirement covers
// and those that meet it.
func compareRequirement(curve *performance.Curve, requirement *requirements.Curve) (int, int) {
	compared := 0
	met := 0
	if requirement == nil {
		return compared, met
	}
	finite := curve.Finite()
	for i := 0; i != finite.Len(); i++ {
		limit := requirement.At(finite.X[i])
		if math.IsNaN(limit) {
			continue
		}
		compared++
		if finite.Y[i] <= limit {
			met++
		}
	}
	return compared, met
}

// NewApplication evaluates the definition in params.InputFile and writes the
// dataset, one plot per analysis, the D2 summary and optionally the camera
// graph to params.OutputDirectory.
func NewApplication(params *ApplicationParams, log *slog.Logger) (*Report, error) {
	definition, definitionErr := LoadDefinition(params.InputFile, log)
	if definitionErr != nil {
		return nil, definitionErr
	}
	mkdirErr := os.MkdirAll(params.OutputDirectory, 0755)
	if mkdirErr != nil {
		return nil, mkdirErr
	}
	outputFileName := filepath.Base(params.InputFile)
	outputFileBaseName := strings.TrimSuffix(outputFileName, filepath.Ext(outputFileName))
	outputPath := func(suffix string) string {
		return filepath.Join(params.OutputDirectory, outputFileBaseName+suffix)
	}

	report := &Report{
		Name:       definition.Name,
		Created:    time.Now(),
		Definition: definition,
	}
	datasetErr := loadDataset(report, log)
	if datasetErr != nil {
		return nil, datasetErr
	}
	validateErr := report.Dataset.Validate()
	if validateErr != nil {
		return nil, validateErr
	}
	if report.Simulated {
		csvPath := outputPath(".csv")
		saveErr := report.Dataset.Save(csvPath)
		if saveErr != nil {
			return nil, saveErr
		}
		report.addOutput(csvPath, log)
	}

	if params.CreateDot {
		if report.Geometry == nil {
			log.Warn("No camera geometry available for a loaded dataset, skipping dot output")
		} else {
			dotOutPath := outputPath(".dot")
			dotBytes, dotBytesErr := report.Geometry.MarshalDOT(definition.Simulation.Camera.Name)
			if dotBytesErr != nil {
				return nil, dotBytesErr
			}
			writeErr := os.WriteFile(dotOutPath, dotBytes, 0644)
			if writeErr != nil {
				return nil, writeErr
			}
			report.addOutput(dotOutPath, log)
		}
	}

	for _, eachAnalysis := range definition.Analyses {
		curve, curveErr := runAnalysis(eachAnalysis, report.Dataset)
		if curveErr != nil {
			return nil, fmt.Errorf("%s: %w", eachAnalysis.Type, curveErr)
		}
		requirement, requirementErr := loadRequirement(definition, eachAnalysis.Type)
		if requirementErr != nil {
			return nil, requirementErr
		}
		result := &AnalysisResult{
			Definition:  eachAnalysis,
			Curve:       curve,
			Requirement: requirement,
		}
		result.Compared, result.Met = compareRequirement(curve, requirement)
		log.Info("Analysis complete",
			"type", eachAnalysis.Type,
			"points", curve.Len(),
			"compared", result.Compared,
			"met", result.Met)

		plotPath := outputPath(fmt.Sprintf("-%s.png", eachAnalysis.Type))
		plotted, plotErr := plotCurve(result, definition.Name, plotPath, log)
		if plotErr != nil {
			return nil, plotErr
		}
		if plotted {
			result.PlotPath = plotPath
			report.addOutput(plotPath, log)
		}
		report.Results = append(report.Results, result)
	}

	d2File := outputPath(".d2")
	f, fErr := os.Create(d2File)
	if fErr != nil {
		return nil, fErr
	}
	encoder := D2EncodingVisitor{}
	encodeErr := encoder.Encode(report, f, log)
	closeErr := f.Close()
	if encodeErr != nil {
		return nil, encodeErr
	}
	if closeErr != nil {
		return nil, closeErr
	}
	report.addOutput(d2File, log)

	if params.CreateSVG {
		svgFile := outputPath(".svg")
		createErr := createD2Image(d2File,
			svgFile,
			params.LightThemeID,
			params.DarkThemeID,
			log)
		if createErr != nil {
			return nil, createErr
		}
		report.addOutput(svgFile, log)
	}
	return report, nil
}

// columnStatistics summarizes the dataset columns shown in the D2 summary.
func columnStatistics(ds *dataset.Dataset, percentiles []float64) map[string]*stats.AggregatedStatistics {
	return map[string]*stats.AggregatedStatistics{
		"true_charge":       stats.StatsForSequence(ds.TrueCharge, percentiles),
		"reco_charge":       stats.StatsForSequence(ds.RecoCharge, percentiles),
		"time_residual":     stats.StatsForSequence(residual(ds.RecoTime, ds.TrueTime), percentiles),
		"centroid_residual": stats.StatsForSequence(residual(ds.CentroidTime, ds.TrueTime), percentiles),
		"snr":               stats.StatsForSequence(ds.SNR, percentiles),
		"neighbor_charge":   stats.StatsForSequence(ds.NeighborCharge, percentiles),
	}
}

func residual(a []float64, b []float64) []float64 {
	values := make([]float64, len(a))
	for i := range values {
		values[i] = a[i] - b[i]
	}
	return values
}

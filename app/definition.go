package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	defjson "github.com/caloperf/caloperf/json"
	"github.com/caloperf/caloperf/performance"
	"github.com/caloperf/caloperf/simulation"
	"gopkg.in/yaml.v3"
)

// /////////////////////////////////////////////////////////////////////////////
//
// TYPES
//
// /////////////////////////////////////////////////////////////////////////////

// AnalysisDefinition is one entry of the "analyses" list. Min and Max are
// the charge exponents of the charge resolution binning and are ignored by
// the other analyses.
type AnalysisDefinition struct {
	Type     performance.Analysis
	Bins     int
	Min      float64
	Max      float64
	SigmaCut float64
}

// Definition is the parsed analysis definition file.
type Definition struct {
	Name        string
	Percentiles []float64
	// DatasetPath replaces the simulation with a CSV dataset when set.
	DatasetPath  string
	Simulation   simulation.Config
	Requirements map[performance.Analysis]string
	Analyses     []AnalysisDefinition
}

func defaultAnalysis(analysis performance.Analysis) AnalysisDefinition {
	return AnalysisDefinition{
		Type:     analysis,
		Bins:     10,
		Min:      0,
		Max:      3,
		SigmaCut: 3,
	}
}

// /////////////////////////////////////////////////////////////////////////////
// Loading
// /////////////////////////////////////////////////////////////////////////////

// LoadDefinition reads a JSON definition, or a YAML one when the file ends in
// .yaml or .yml. Relative paths in the definition are resolved against the
// directory of the file.
func LoadDefinition(inputPath string, log *slog.Logger) (*Definition, error) {
	inputFile, inputFileErr := os.Open(inputPath)
	if inputFileErr != nil {
		return nil, inputFileErr
	}
	defer inputFile.Close()
	definition, definitionErr := ParseDefinition(inputFile,
		strings.ToLower(filepath.Ext(inputPath)),
		filepath.Dir(inputPath),
		log)
	if definitionErr != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, definitionErr)
	}
	return definition, nil
}

// ParseDefinition decodes a definition. ext selects the format.
func ParseDefinition(inputStream io.Reader, ext string, baseDir string, log *slog.Logger) (*Definition, error) {
	inputBytes, inputBytesErr := io.ReadAll(inputStream)
	if inputBytesErr != nil {
		return nil, inputBytesErr
	}
	rootMap := make(map[string]interface{})
	var unmarshalErr error
	switch ext {
	case ".yaml", ".yml":
		unmarshalErr = yaml.Unmarshal(inputBytes, &rootMap)
	default:
		unmarshalErr = json.Unmarshal(inputBytes, &rootMap)
	}
	if unmarshalErr != nil {
		return nil, unmarshalErr
	}
	return decodeDefinition(rootMap, baseDir, log)
}

func decodeDefinition(rootMap map[string]interface{}, baseDir string, log *slog.Logger) (*Definition, error) {
	definition := &Definition{
		Name:         defjson.String("name", rootMap),
		Percentiles:  []float64{50, 95},
		Simulation:   simulation.DefaultConfig(),
		Requirements: make(map[performance.Analysis]string),
	}
	if len(definition.Name) <= 0 {
		definition.Name = "caloperf"
	}
	userPercentiles, userPercentilesErr := defjson.Floats("percentiles", rootMap)
	if userPercentilesErr != nil {
		return nil, userPercentilesErr
	}
	if userPercentiles != nil {
		definition.Percentiles = userPercentiles
	}
	if datasetPath := defjson.String("dataset", rootMap); len(datasetPath) > 0 {
		definition.DatasetPath = resolvePath(baseDir, datasetPath)
	}

	// Simulation
	cfg := &definition.Simulation
	cfg.RunCount = defjson.Int("runCount", rootMap, cfg.RunCount)
	if _, seedOk := rootMap["seed"]; seedOk {
		cfg.Seed = defjson.Uint("seed", rootMap)
	}
	if camera := defjson.Map("camera", rootMap); camera != nil {
		if name := defjson.String("name", camera); len(name) > 0 {
			cfg.Camera.Name = name
		}
		cfg.Camera.Rows = defjson.Int("rows", camera, cfg.Camera.Rows)
		cfg.Camera.Cols = defjson.Int("cols", camera, cfg.Camera.Cols)
		cfg.Camera.Samples = defjson.Int("samples", camera, cfg.Camera.Samples)
		cfg.Camera.PulseWidth = defjson.Float("pulseWidth", camera, cfg.Camera.PulseWidth)
		cfg.Camera.ReadoutTime = defjson.Float("readoutTime", camera, cfg.Camera.ReadoutTime)
	}
	if sim := defjson.Map("simulation", rootMap); sim != nil {
		for key, target := range map[string]*string{
			"intensity":     &cfg.Intensity,
			"pulseTime":     &cfg.PulseTime,
			"timeJitter":    &cfg.TimeJitter,
			"noise":         &cfg.Noise,
			"triggerJitter": &cfg.TriggerJitter,
		} {
			if expression := defjson.String(key, sim); len(expression) > 0 {
				*target = expression
			}
		}
		cfg.WindowBefore = defjson.Int("windowBefore", sim, cfg.WindowBefore)
		cfg.WindowAfter = defjson.Int("windowAfter", sim, cfg.WindowAfter)
		cfg.PedestalStart = defjson.Int("pedestalStart", sim, cfg.PedestalStart)
		cfg.PedestalStop = defjson.Int("pedestalStop", sim, cfg.PedestalStop)
	}

	// Requirements
	for eachKey, eachVal := range defjson.Map("requirements", rootMap) {
		analysis := performance.Analysis(eachKey)
		if !analysis.Valid() {
			return nil, fmt.Errorf("requirement for unsupported analysis: %s", eachKey)
		}
		requirementPath, requirementPathOk := eachVal.(string)
		if !requirementPathOk {
			return nil, fmt.Errorf("invalid requirement path for %s: %v", eachKey, eachVal)
		}
		definition.Requirements[analysis] = resolvePath(baseDir, requirementPath)
	}

	// Analyses
	rawAnalyses, rawAnalysesOk := rootMap["analyses"]
	if !rawAnalysesOk {
		for _, eachAnalysis := range performance.Analyses {
			definition.Analyses = append(definition.Analyses, defaultAnalysis(eachAnalysis))
		}
		return definition, nil
	}
	analysisList, analysisListOk := rawAnalyses.([]interface{})
	if !analysisListOk {
		return nil, fmt.Errorf("unsupported type for analyses: %T", rawAnalyses)
	}
	for i, eachEntry := range analysisList {
		entry, entryOk := eachEntry.(map[string]interface{})
		if !entryOk {
			return nil, fmt.Errorf("unsupported type for analysis %d: %T", i, eachEntry)
		}
		analysis := performance.Analysis(defjson.String("type", entry))
		if !analysis.Valid() {
			return nil, fmt.Errorf("unsupported analysis type %q. Supported types: %v", analysis, performance.Analyses)
		}
		analysisDefinition := defaultAnalysis(analysis)
		analysisDefinition.Bins = defjson.Int("bins", entry, analysisDefinition.Bins)
		analysisDefinition.Min = defjson.Float("min", entry, analysisDefinition.Min)
		analysisDefinition.Max = defjson.Float("max", entry, analysisDefinition.Max)
		analysisDefinition.SigmaCut = defjson.Float("sigmaCut", entry, analysisDefinition.SigmaCut)
		if analysisDefinition.Bins <= 0 {
			return nil, fmt.Errorf("invalid bin count for %s: %d", analysis, analysisDefinition.Bins)
		}
		log.Debug("Unmarshalling analysis", "index", i, "type", analysis, "bins", analysisDefinition.Bins)
		definition.Analyses = append(definition.Analyses, analysisDefinition)
	}
	return definition, nil
}

func resolvePath(baseDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

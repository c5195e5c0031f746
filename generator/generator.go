package generator

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/caloperf/caloperf/stats"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type GenerationResults struct {
	Values []float64
	Stats  *stats.AggregatedStatistics
}

// SampleGenerator is a random variable parsed from an expression such as
// "Normal(0, 1)".
type SampleGenerator interface {
	Name() string
	// Rander returns a source of single draws that shares src.
	Rander(src rand.Source) distuv.Rander
	Generate(count int,
		percentiles []float64,
		src rand.Source,
		log *slog.Logger) (*GenerationResults, error)
}

type generatorFilter func(in float64) float64

type unmarshalFunc func(string, *slog.Logger) (SampleGenerator, error)

var unmarshalMap map[string]unmarshalFunc

func init() {
	// The map of supported distributions
	unmarshalMap = map[string]unmarshalFunc{
		"Normal":    UnmarshalNormal,
		"Uniform":   UnmarshalUniform,
		"Pareto":    UnmarshalPareto,
		"Fixed":     UnmarshalFixed,
		"Triangle":  UnmarshalTriangle,
		"Poisson":   UnmarshalPoisson,
		"LogNormal": UnmarshalLogNormal,
	}
}

// filteredRander post-processes every draw of the wrapped Rander.
type filteredRander struct {
	rander distuv.Rander
	filter generatorFilter
}

func (fr *filteredRander) Rand() float64 {
	return fr.filter(fr.rander.Rand())
}

// Draw returns count draws from rander.
func Draw(rander distuv.Rander, count int) []float64 {
	values := make([]float64, max(count, 0))
	for i := range values {
		values[i] = rander.Rand()
	}
	return values
}

// /////////////////////////////////////////////////////////////////////////////
// ___                ___                       _
// | _ ) __ _ ___ ___ / __|___ _ _  ___ _ _ __ _| |_ ___ _ _
// | _ \/ _` (_-</ -_) (_ / -_) ' \/ -_) '_/ _` |  _/ _ \ '_|
// |___/\__,_/__/\___|\___\___|_||_\___|_| \__,_|\__\___/_|
//
// /////////////////////////////////////////////////////////////////////////////

type BaseGenerator struct{}

// parseArguments splits "Name(a, b, c)" into its float arguments.
func (bg *BaseGenerator) parseArguments(typeParameter string, name string) ([]float64, error) {
	reParams := regexp.MustCompile(`[()]`)
	parts := reParams.Split(typeParameter, -1)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid %s generator expression: %s", name, typeParameter)
	}
	if len(strings.TrimSpace(parts[1])) <= 0 {
		return []float64{}, nil
	}
	rawArgs := strings.Split(parts[1], ",")
	args := make([]float64, len(rawArgs))
	for i, eachArg := range rawArgs {
		parseErr := bg.parseFloat(eachArg, &args[i])
		if parseErr != nil {
			return nil, fmt.Errorf("invalid %s generator expression: %s (%w)", name, typeParameter, parseErr)
		}
	}
	return args, nil
}

func (bg *BaseGenerator) parseFloat(strVal string, target *float64) error {
	trimmedVal := strings.TrimSpace(strVal)
	parseVal, parseValErr := strconv.ParseFloat(trimmedVal, 64)
	if parseValErr != nil {
		return parseValErr
	}
	*target = parseVal
	return nil
}

func (bg *BaseGenerator) Generate(rander distuv.Rander,
	count int,
	percentiles []float64,
	log *slog.Logger) (*GenerationResults, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid sample count: %d", count)
	}
	values := Draw(rander, count)
	results := &GenerationResults{
		Values: values,
		Stats:  stats.StatsForSequence(values, percentiles),
	}
	log.Debug("Generated samples",
		"count", count,
		"mean", results.Stats.Mean,
		"stddev", results.Stats.StdDev)
	return results, nil
}

// NewSampleGenerator parses a distribution expression. The distribution
// name comes before the opening parenthesis.
func NewSampleGenerator(generatorType string, log *slog.Logger) (SampleGenerator, error) {
	reSplit := regexp.MustCompile(`[\(\)]`)
	generatorParts := reSplit.Split(generatorType, -1)
	generatorBasename := strings.TrimSpace(generatorParts[0])

	unmarshalFunc, unmarshalFuncExists := unmarshalMap[generatorBasename]
	if !unmarshalFuncExists {
		// Get all the keys
		unmarshalTypes := []string{}
		for eachKey := range unmarshalMap {
			unmarshalTypes = append(unmarshalTypes, eachKey)
		}
		sort.Strings(unmarshalTypes)
		return nil, fmt.Errorf("unsupported generator function name: %s. Supported types: %v", generatorBasename, unmarshalTypes)
	}
	return unmarshalFunc(generatorType, log)
}

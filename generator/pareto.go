package generator

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ParetoGenerator draws heavy tailed intensities, optionally clamped to a
// maximum.
type ParetoGenerator struct {
	BaseGenerator
	x        float64
	alpha    float64
	maxValue float64
}

func (pg *ParetoGenerator) Name() string {
	maxSuffix := ""
	if pg.maxValue != math.MaxFloat64 {
		maxSuffix = fmt.Sprintf(", max: %.2f", pg.maxValue)
	}
	return fmt.Sprintf("Pareto(Xmin = %.2f, α= %.2f%s)",
		pg.x,
		pg.alpha,
		maxSuffix)
}

func (pg *ParetoGenerator) Rander(src rand.Source) distuv.Rander {
	return &filteredRander{
		rander: distuv.Pareto{
			Xm:    pg.x,
			Alpha: pg.alpha,
			Src:   src},
		filter: func(genSample float64) float64 {
			return math.Min(pg.maxValue, genSample)
		},
	}
}

func (pg *ParetoGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	// Delegate to the Base generator
	return pg.BaseGenerator.Generate(pg.Rander(src), count, percentiles, log)
}

func UnmarshalPareto(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Pareto(Xmin, alphaShape)
	// Pareto(Xmin, alphaShape, max)
	pg := &ParetoGenerator{}
	args, argsErr := pg.BaseGenerator.parseArguments(typeParameter, "Pareto")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("invalid pareto generator expression: %s", typeParameter)
	}
	pg.x, pg.alpha = args[0], args[1]
	pg.maxValue = math.MaxFloat64
	if len(args) == 3 {
		pg.maxValue = args[2]
	}
	if pg.x <= 0 || pg.alpha <= 0 {
		return nil, fmt.Errorf("invalid pareto generator expression: %s. Xmin and α must be positive", typeParameter)
	}
	return pg, nil
}

package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type LogNormalGenerator struct {
	BaseGenerator
	mu    float64
	sigma float64
}

func (lg *LogNormalGenerator) Name() string {
	return fmt.Sprintf("LogNormal(μ = %.2f, σ= %.2f)", lg.mu, lg.sigma)
}

func (lg *LogNormalGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.LogNormal{
		Mu:    lg.mu,
		Sigma: lg.sigma,
		Src:   src,
	}
}

func (lg *LogNormalGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	return lg.BaseGenerator.Generate(lg.Rander(src), count, percentiles, log)
}

func UnmarshalLogNormal(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// LogNormal(mu, sigma) of the underlying normal distribution
	lg := &LogNormalGenerator{}
	args, argsErr := lg.BaseGenerator.parseArguments(typeParameter, "LogNormal")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 2 || args[1] <= 0 {
		return nil, fmt.Errorf("invalid lognormal generator expression: %s", typeParameter)
	}
	lg.mu, lg.sigma = args[0], args[1]
	return lg, nil
}

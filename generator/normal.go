package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// /////////////////////////////////////////////////////////////////////////////
// _  _                    _
// | \| |___ _ _ _ __  __ _| |
// | .` / _ \ '_| '  \/ _` | |
// |_|\_\___/_| |_|_|_\__,_|_|
//
// /////////////////////////////////////////////////////////////////////////////
type NormalGenerator struct {
	BaseGenerator
	mean   float64
	stddev float64
}

func (ng *NormalGenerator) Name() string {
	return fmt.Sprintf("Normal(μ = %.2f, σ= %.2f)",
		ng.mean,
		ng.stddev)
}

func (ng *NormalGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.Normal{
		Mu:    ng.mean,
		Sigma: ng.stddev,
		Src:   src,
	}
}

func (ng *NormalGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	// Delegate to the Base generator
	return ng.BaseGenerator.Generate(ng.Rander(src), count, percentiles, log)
}

func UnmarshalNormal(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Normal(mean, stddev)
	ng := &NormalGenerator{}
	args, argsErr := ng.BaseGenerator.parseArguments(typeParameter, "Normal")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("invalid normal generator expression: %s", typeParameter)
	}
	ng.mean, ng.stddev = args[0], args[1]
	if ng.stddev < 0 {
		return nil, fmt.Errorf("invalid normal generator expression: %s. σ must be >= 0", typeParameter)
	}
	return ng, nil
}

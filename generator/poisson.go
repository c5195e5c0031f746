package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// /////////////////////////////////////////////////////////////////////////////
//  ___     _
// | _ \___(_)______ ___ _ _
// |  _/ _ \ (_-<_-</ _ \ ' \
// |_| \___/_/__/__/\___/_||_|
//
// /////////////////////////////////////////////////////////////////////////////
type PoissonGenerator struct {
	BaseGenerator
	lambda float64
}

func (pg *PoissonGenerator) Name() string {
	return fmt.Sprintf("Poisson(λ = %.2f)", pg.lambda)
}

func (pg *PoissonGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.Poisson{
		Lambda: pg.lambda,
		Src:    src,
	}
}

func (pg *PoissonGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	return pg.BaseGenerator.Generate(pg.Rander(src), count, percentiles, log)
}

func UnmarshalPoisson(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Poisson(lambda)
	pg := &PoissonGenerator{}
	args, argsErr := pg.BaseGenerator.parseArguments(typeParameter, "Poisson")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 1 || args[0] <= 0 {
		return nil, fmt.Errorf("invalid poisson generator expression: %s", typeParameter)
	}
	pg.lambda = args[0]
	return pg, nil
}

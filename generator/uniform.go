package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type UniformGenerator struct {
	BaseGenerator
	lowerBound float64
	upperBound float64
}

func (ug *UniformGenerator) Name() string {
	return fmt.Sprintf("Uniform(%.2f, %.2f)", ug.lowerBound, ug.upperBound)
}

func (ug *UniformGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.Uniform{
		Min: ug.lowerBound,
		Max: ug.upperBound,
		Src: src}
}

func (ug *UniformGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	// Delegate to the Base generator
	return ug.BaseGenerator.Generate(ug.Rander(src), count, percentiles, log)
}

func UnmarshalUniform(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Uniform(lower, upper)
	ug := &UniformGenerator{}
	args, argsErr := ug.BaseGenerator.parseArguments(typeParameter, "Uniform")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 2 || args[0] > args[1] {
		return nil, fmt.Errorf("invalid uniform generator expression: %s", typeParameter)
	}
	ug.lowerBound, ug.upperBound = args[0], args[1]
	return ug, nil
}

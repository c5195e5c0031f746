package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// /////////////////////////////////////////////////////////////////////////////
/*
  _____    _                _
  |_   _| _(_)__ _ _ _  __ _| |___
  	| || '_| / _` | ' \/ _` | / -_)
  	|_||_| |_\__,_|_||_\__, |_\___|
  	                   |___/
*/
// /////////////////////////////////////////////////////////////////////////////
type TriangularGenerator struct {
	BaseGenerator
	min  float64
	mode float64
	max  float64
}

func (tg *TriangularGenerator) Validate() error {
	var validationError error
	if (tg.min >= tg.max) ||
		(tg.min > tg.mode) ||
		(tg.mode > tg.max) {
		validationError = fmt.Errorf("invalid Triangle distribution: (lower=%.2f, upper=%.2f, mode=%.2f). Distribution must satisfy: lower <= mode <= upper",
			tg.min,
			tg.max,
			tg.mode)
	}
	return validationError
}

func (tg *TriangularGenerator) Name() string {
	return fmt.Sprintf("Triangle(%.2f, %.2f, %.2f)",
		tg.min,
		tg.mode,
		tg.max)
}

func (tg *TriangularGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.NewTriangle(tg.min, tg.max, tg.mode, src)
}

func (tg *TriangularGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	// Delegate to the Base generator
	return tg.BaseGenerator.Generate(tg.Rander(src), count, percentiles, log)
}

func UnmarshalTriangle(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Triangle(min, mode, max)
	tg := &TriangularGenerator{}
	args, argsErr := tg.BaseGenerator.parseArguments(typeParameter, "Triangle")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 3 {
		return nil, fmt.Errorf("invalid Triangle generator expression: %s", typeParameter)
	}
	tg.min, tg.mode, tg.max = args[0], args[1], args[2]
	// Check the values
	validateErr := tg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}
	return tg, nil
}

package generator

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// /////////////////////////////////////////////////////////////////////////////
//
// ___ _            _
// | __(_)_ _____ __| |
// | _|| \ \ / -_) _` |
// |_| |_/_\_\___\__,_|
//
// /////////////////////////////////////////////////////////////////////////////
type FixedGenerator struct {
	BaseGenerator
	value float64
}

func (fg *FixedGenerator) Name() string {
	return fmt.Sprintf("Fixed(v = %.2f)",
		fg.value)
}

func (fg *FixedGenerator) Rander(src rand.Source) distuv.Rander {
	return distuv.Uniform{
		Min: fg.value,
		Max: fg.value,
		Src: src,
	}
}

func (fg *FixedGenerator) Generate(count int,
	percentiles []float64,
	src rand.Source,
	log *slog.Logger) (*GenerationResults, error) {
	// Delegate to the Base generator
	return fg.BaseGenerator.Generate(fg.Rander(src), count, percentiles, log)
}

func UnmarshalFixed(typeParameter string, log *slog.Logger) (SampleGenerator, error) {
	// Supported forms:
	// Fixed(value)
	fg := &FixedGenerator{}
	args, argsErr := fg.BaseGenerator.parseArguments(typeParameter, "Fixed")
	if argsErr != nil {
		return nil, argsErr
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("invalid fixed generator expression: %s", typeParameter)
	}
	fg.value = args[0]
	return fg, nil
}

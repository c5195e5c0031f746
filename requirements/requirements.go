package requirements

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/caloperf/caloperf/stats"
)

// DefaultName labels requirement curves in plots.
const DefaultName = "CTA requirement"

// Curve is a reference curve, e.g. a resolution requirement as a function
// of true charge.
type Curve struct {
	Name string
	X    []float64
	Y    []float64
}

func (c *Curve) Len() int {
	return len(c.X)
}

// XY implements plotter.XYer.
func (c *Curve) XY(i int) (float64, float64) {
	return c.X[i], c.Y[i]
}

// At linearly interpolates the curve at x. X must be ascending. Outside of
// [X[0], X[n-1]] the result is NaN.
func (c *Curve) At(x float64) float64 {
	if c.Len() <= 0 || math.IsNaN(x) || x < c.X[0] || x > c.X[c.Len()-1] {
		return math.NaN()
	}
	upper := sort.SearchFloat64s(c.X, x)
	if c.X[upper] == x {
		return c.Y[upper]
	}
	lower := upper - 1
	fraction := (x - c.X[lower]) / (c.X[upper] - c.X[lower])
	return c.Y[lower] + fraction*(c.Y[upper]-c.Y[lower])
}

// Read loads a two column requirement table from path.
func Read(path string) (*Curve, error) {
	inputFile, inputFileErr := os.Open(path)
	if inputFileErr != nil {
		return nil, inputFileErr
	}
	defer inputFile.Close()

	curve, curveErr := Parse(inputFile)
	if curveErr != nil {
		return nil, fmt.Errorf("%s: %w", path, curveErr)
	}
	return curve, nil
}

// Parse reads whitespace separated (x, y) rows. Blank lines and lines
// starting with '#' are skipped. Extra columns are ignored.
func Parse(input io.Reader) (*Curve, error) {
	curve := &Curve{
		Name: DefaultName,
		X:    make([]float64, 0),
		Y:    make([]float64, 0),
	}
	scanner := bufio.NewScanner(input)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) <= 0 || strings.HasPrefix(line, "#") {
			continue
		}
		columns := strings.Fields(line)
		if len(columns) < 2 {
			return nil, fmt.Errorf("line %d: expected two columns, got %q", lineNumber, line)
		}
		xVal, xErr := strconv.ParseFloat(columns[0], 64)
		if xErr != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, xErr)
		}
		yVal, yErr := strconv.ParseFloat(columns[1], 64)
		if yErr != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, yErr)
		}
		curve.X = append(curve.X, xVal)
		curve.Y = append(curve.Y, yVal)
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, scanErr
	}
	return curve, nil
}

// TimeResolution is the required time resolution in ns at a true charge of q
// photoelectrons.
func TimeResolution(q float64) float64 {
	return 0.74 / math.Sqrt(q)
}

// TimeResolutionCurve samples TimeResolution at n log spaced charges between
// 1 and 10^3.5 photoelectrons.
func TimeResolutionCurve(n int) *Curve {
	curve := &Curve{
		Name: DefaultName,
		X:    stats.LinSpace(0, 3.5, n),
		Y:    make([]float64, n),
	}
	for i, eachExp := range curve.X {
		curve.X[i] = math.Pow(10, eachExp)
		curve.Y[i] = TimeResolution(curve.X[i])
	}
	return curve
}

package performance

import (
	"fmt"
	"math"

	"github.com/caloperf/caloperf/stats"
)

// ////////////////////////////////////////////////////////////////////////////
// Analysis types

// Analysis names a resolution study.
type Analysis string

const (
	ChargeResolutionAnalysis Analysis = "charge_resolution"
	TimeResolutionAnalysis   Analysis = "time_resolution"
	TimeSNRAnalysis          Analysis = "time_snr"
	NeighborChargeAnalysis   Analysis = "neighbor_charge"
)

// Analyses lists every supported analysis.
var Analyses = []Analysis{
	ChargeResolutionAnalysis,
	TimeResolutionAnalysis,
	TimeSNRAnalysis,
	NeighborChargeAnalysis,
}

// Labels returns the x and y axis labels of the analysis plot.
func (a Analysis) Labels() (string, string) {
	switch a {
	case ChargeResolutionAnalysis:
		return "True charge / p.e.", "Charge resolution"
	case TimeResolutionAnalysis:
		return "True charge / p.e.", "Time resolution / ns"
	case TimeSNRAnalysis:
		return "SNR", "Time resolution / ns"
	case NeighborChargeAnalysis:
		return "True charge / p.e.", "Neighbour charge / p.e."
	}
	return "x", "y"
}

// Valid reports whether a is a known analysis.
func (a Analysis) Valid() bool {
	for _, eachAnalysis := range Analyses {
		if a == eachAnalysis {
			return true
		}
	}
	return false
}

// ////////////////////////////////////////////////////////////////////////////
// Curve

// Curve is the outcome of an analysis: one point per populated bin. Err is
// the statistical uncertainty of every Y, nil when the analysis does not
// estimate one.
type Curve struct {
	Name  string
	X     []float64
	Y     []float64
	Err   []float64
	Count []int
}

func (c *Curve) Len() int {
	return len(c.X)
}

// XY implements plotter.XYer.
func (c *Curve) XY(i int) (float64, float64) {
	return c.X[i], c.Y[i]
}

// YError implements plotter.YErrorer.
func (c *Curve) YError(i int) (float64, float64) {
	return c.Err[i], c.Err[i]
}

// MaxRelativeError returns the largest finite Err/Y of the curve, NaN if there
// is none.
func (c *Curve) MaxRelativeError() float64 {
	largest := math.NaN()
	for i := range c.Err {
		relative := c.Err[i] / c.Y[i]
		if math.IsNaN(relative) || math.IsInf(relative, 0) {
			continue
		}
		if math.IsNaN(largest) || relative > largest {
			largest = relative
		}
	}
	return largest
}

// Finite returns a copy of the curve without the points that cannot be drawn
// on logarithmic axes: NaN, infinite or non-positive coordinates.
func (c *Curve) Finite() *Curve {
	finite := &Curve{
		Name:  c.Name,
		X:     make([]float64, 0, len(c.X)),
		Y:     make([]float64, 0, len(c.Y)),
		Count: make([]int, 0, len(c.Count)),
	}
	if c.Err != nil {
		finite.Err = make([]float64, 0, len(c.Err))
	}
	for i := range c.X {
		if !drawable(c.X[i]) || !drawable(c.Y[i]) {
			continue
		}
		finite.X = append(finite.X, c.X[i])
		finite.Y = append(finite.Y, c.Y[i])
		if i < len(c.Err) {
			finite.Err = append(finite.Err, c.Err[i])
		}
		if i < len(c.Count) {
			finite.Count = append(finite.Count, c.Count[i])
		}
	}
	return finite
}

func drawable(value float64) bool {
	return value > 0 && !math.IsInf(value, 1)
}

// ////////////////////////////////////////////////////////////////////////////
// Analyses

// ChargeResolution returns the fractional charge resolution sqrt(<(Qr-Qt)^2>)/Qt
// in integer charge bins spread logarithmically between 10^minExp and
// 10^maxExp.
func ChargeResolution(trueQ []float64, recoQ []float64, minExp float64, maxExp float64, bins int) (*Curve, error) {
	lengthErr := sameLength(trueQ, recoQ)
	if lengthErr != nil {
		return nil, lengthErr
	}
	edges := stats.LogBins(minExp, maxExp, bins)
	if len(edges) < 2 {
		return nil, fmt.Errorf("%w: charge range 10^%v to 10^%v yields %d edges",
			stats.ErrInvalidBinning,
			minExp,
			maxExp,
			len(edges))
	}
	binning := stats.Edges(edges...)
	profile, profileErr := stats.ComputeProfile(trueQ, squaredResidual(recoQ, trueQ), [2]stats.Binning{binning, binning})
	if profileErr != nil {
		return nil, profileErr
	}
	curve := &Curve{
		Name: string(ChargeResolutionAnalysis),
		X:    profile.X,
		Y:    make([]float64, profile.Len()),
	}
	for i := range curve.Y {
		curve.Y[i] = math.Sqrt(profile.Mean[i]) / profile.X[i]
	}
	return curve, nil
}

// TimeResolution returns the RMS of the arrival time residual in bins of
// log10 of the true charge. Values further than sigmaCut scaled MADs from
// their bin median are rejected. The error of the RMS follows from the error
// of the mean squared residual.
func TimeResolution(trueQ []float64, trueT []float64, recoT []float64, bins int, sigmaCut float64) (*Curve, error) {
	lengthErr := sameLength(trueQ, trueT, recoT)
	if lengthErr != nil {
		return nil, lengthErr
	}
	logQ, residual := logCharge(trueQ, squaredResidual(trueT, recoT))
	profile, profileErr := stats.Profile(logQ, residual, stats.Count(bins), &stats.ProfileOptions{
		SigmaCut: stats.Cut(sigmaCut),
	})
	if profileErr != nil {
		return nil, profileErr
	}
	curve := &Curve{
		Name:  string(TimeResolutionAnalysis),
		X:     stats.BinCenters(exp10(profile.Edges)),
		Y:     make([]float64, profile.Len()),
		Err:   profile.MeanError(),
		Count: profile.Count,
	}
	for i := range curve.Y {
		curve.Y[i] = math.Sqrt(profile.Mean[i])
		curve.Err[i] /= 2 * curve.Y[i]
	}
	return curve, nil
}

// TimeSNR returns the mean squared arrival time residual in bins of the
// signal to noise ratio, reported at the lower bin edge.
func TimeSNR(snr []float64, trueT []float64, recoT []float64, bins int, sigmaCut float64) (*Curve, error) {
	lengthErr := sameLength(snr, trueT, recoT)
	if lengthErr != nil {
		return nil, lengthErr
	}
	residual := squaredResidual(trueT, recoT)
	x := make([]float64, 0, len(snr))
	y := make([]float64, 0, len(snr))
	for i := range snr {
		if math.IsNaN(snr[i]) || math.IsInf(snr[i], 0) {
			continue
		}
		x = append(x, snr[i])
		y = append(y, residual[i])
	}
	profile, profileErr := stats.Profile(x, y, stats.Count(bins), &stats.ProfileOptions{
		SigmaCut: stats.Cut(sigmaCut),
	})
	if profileErr != nil {
		return nil, profileErr
	}
	return &Curve{
		Name:  string(TimeSNRAnalysis),
		X:     profile.Edges[:len(profile.Edges)-1],
		Y:     profile.Mean,
		Err:   profile.MeanError(),
		Count: profile.Count,
	}, nil
}

// NeighborCharge returns the mean charge of the neighbouring pixels in bins
// of log10 of the true charge.
func NeighborCharge(trueQ []float64, neighborQ []float64, bins int) (*Curve, error) {
	lengthErr := sameLength(trueQ, neighborQ)
	if lengthErr != nil {
		return nil, lengthErr
	}
	logQ, charge := logCharge(trueQ, neighborQ)
	profile, profileErr := stats.Profile(logQ, charge, stats.Count(bins), nil)
	if profileErr != nil {
		return nil, profileErr
	}
	return &Curve{
		Name:  string(NeighborChargeAnalysis),
		X:     stats.BinCenters(exp10(profile.Edges)),
		Y:     profile.Mean,
		Err:   profile.MeanError(),
		Count: profile.Count,
	}, nil
}

// ////////////////////////////////////////////////////////////////////////////
// Helpers

func sameLength(columns ...[]float64) error {
	for _, eachColumn := range columns[1:] {
		if len(eachColumn) != len(columns[0]) {
			return fmt.Errorf("%w: %d != %d", stats.ErrLengthMismatch, len(eachColumn), len(columns[0]))
		}
	}
	return nil
}

func squaredResidual(a []float64, b []float64) []float64 {
	residual := make([]float64, len(a))
	for i := range residual {
		residual[i] = (a[i] - b[i]) * (a[i] - b[i])
	}
	return residual
}

// logCharge returns log10 of the positive charges along with the matching
// values. Pairs with a non-finite value are dropped as well.
func logCharge(charge []float64, values []float64) ([]float64, []float64) {
	logQ := make([]float64, 0, len(charge))
	kept := make([]float64, 0, len(values))
	for i := range charge {
		if !(charge[i] > 0) || math.IsInf(charge[i], 1) {
			continue
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		logQ = append(logQ, math.Log10(charge[i]))
		kept = append(kept, values[i])
	}
	return logQ, kept
}

func exp10(exponents []float64) []float64 {
	values := make([]float64, len(exponents))
	for i := range exponents {
		values[i] = math.Pow(10, exponents[i])
	}
	return values
}

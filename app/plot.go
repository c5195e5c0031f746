package app

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/caloperf/caloperf/performance"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// logXYs copies the points of xy that can be drawn: x must be positive, y
// positive as well when the y axis is logarithmic.
func logXYs(xy plotter.XYer, logY bool) plotter.XYs {
	points := make(plotter.XYs, 0, xy.Len())
	for i := 0; i != xy.Len(); i++ {
		x, y := xy.XY(i)
		if !(x > 0) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if logY && !(y > 0) {
			continue
		}
		points = append(points, plotter.XY{X: x, Y: y})
	}
	return points
}

// errorPoints are curve points with symmetric y error bars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// curveErrors returns the points of curve with a positive, finite error.
// With a logarithmic y axis a bar must stay above zero.
func curveErrors(curve *performance.Curve, logY bool) errorPoints {
	points := errorPoints{}
	for i := 0; i < len(curve.Err) && i < curve.Len(); i++ {
		x, y := curve.XY(i)
		yErr := curve.Err[i]
		if !(x > 0) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if !(yErr > 0) || math.IsInf(yErr, 0) || (logY && !(y-yErr > 0)) {
			continue
		}
		points.XYs = append(points.XYs, plotter.XY{X: x, Y: y})
		points.YErrors = append(points.YErrors, struct{ Low, High float64 }{yErr, yErr})
	}
	return points
}

// axisRange returns the data range of the given coordinates, widened when
// it collapses to a single value.
func axisRange(values []float64, logScale bool) (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)
	for _, eachValue := range values {
		low = math.Min(low, eachValue)
		high = math.Max(high, eachValue)
	}
	if low == high {
		if logScale {
			return low / 2, high * 2
		}
		return low - 1, high + 1
	}
	return low, high
}

// plotCurve writes the analysis curve, with its requirement as a dashed line,
// to a PNG file. It reports false when the curve has no drawable points.
func plotCurve(result *AnalysisResult, title string, outputPath string, log *slog.Logger) (bool, error) {
	analysis := result.Definition.Type
	logY := analysis != performance.NeighborChargeAnalysis
	curvePoints := logXYs(result.Curve, logY)
	if len(curvePoints) <= 0 {
		log.Warn("No drawable points, skipping plot", "type", analysis)
		return false, nil
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = font.Points(16)
	p.Title.TextStyle.Color = color.RGBA{B: 255, A: 255}
	p.X.Label.Text, p.Y.Label.Text = analysis.Labels()
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	if logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	line, points, lineErr := plotter.NewLinePoints(curvePoints)
	if lineErr != nil {
		return false, lineErr
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.Black
	points.GlyphStyle.Color = color.Black
	p.Add(line, points)
	p.Legend.Add(string(analysis), line)
	errorBars := curveErrors(result.Curve, logY)
	if errorBars.Len() > 0 {
		bars, barsErr := plotter.NewYErrorBars(errorBars)
		if barsErr != nil {
			return false, barsErr
		}
		bars.LineStyle.Color = color.Black
		p.Add(bars)
	}

	xs := make([]float64, 0)
	ys := make([]float64, 0)
	for _, eachPoint := range curvePoints {
		xs = append(xs, eachPoint.X)
		ys = append(ys, eachPoint.Y)
	}
	if result.Requirement != nil {
		requirementPoints := logXYs(result.Requirement, logY)
		if len(requirementPoints) > 0 {
			requirementLine, requirementLineErr := plotter.NewLine(requirementPoints)
			if requirementLineErr != nil {
				return false, requirementLineErr
			}
			requirementLine.LineStyle.Width = vg.Points(2)
			requirementLine.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
			requirementLine.LineStyle.Color = color.Black
			p.Add(requirementLine)
			p.Legend.Add(result.Requirement.Name, requirementLine)
			for _, eachPoint := range requirementPoints {
				xs = append(xs, eachPoint.X)
				ys = append(ys, eachPoint.Y)
			}
		}
	}
	p.Legend.Top = true
	p.X.Min, p.X.Max = axisRange(xs, true)
	p.Y.Min, p.Y.Max = axisRange(ys, logY)

	log.Debug("Plotting analysis", "type", analysis, "points", len(curvePoints), "path", outputPath)
	saveErr := p.Save(10*vg.Inch, 8*vg.Inch, outputPath)
	if saveErr != nil {
		return false, saveErr
	}
	return true, nil
}

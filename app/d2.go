package app

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/caloperf/caloperf/performance"
	"github.com/caloperf/caloperf/stats"
)

// /////////////////////////////////////////////////////////////////////////////
//
// TYPES
//
// /////////////////////////////////////////////////////////////////////////////

type D2Encoder interface {
	D2ID() string
	D2Encode(output io.StringWriter, log *slog.Logger) error
}

type d2TableParams struct {
	Key   string
	Value interface{}
}

type D2Encoding struct {
	Name   string
	Params []*d2TableParams
}

func aggregatedStatsFormatter(aggStats *stats.AggregatedStatistics) string {
	if aggStats.Count <= 0 {
		return "n=0"
	}
	label := fmt.Sprintf("μ=%.2f, σ=%.2f, MAD=%.2f", aggStats.Mean, aggStats.StdDev, aggStats.MAD)
	if len(aggStats.Percentiles) != 0 {
		value := ""
		for i := 0; i != len(aggStats.Percentiles); i++ {
			percentilePair := aggStats.Percentiles[i]
			pVal := percentilePair.P
			if pVal < 1 {
				pVal *= 100
			}
			if math.Floor(pVal) == pVal {
				value += fmt.Sprintf("p%.0f=%.2f, ", pVal, percentilePair.Val)
			} else {
				value += fmt.Sprintf("p%.2f=%.2f, ", pVal, percentilePair.Val)
			}
		}
		value = strings.TrimSuffix(value, ", ")
		label = fmt.Sprintf("%s (%s)", label, value)
	}
	return label
}

func encodeD2MarkdownNode(id string,
	heading string,
	params map[string]interface{},
	output io.StringWriter,
	log *slog.Logger) error {
	var writeErr error
	log.Debug("Markdown encoding node", "title", heading)
	_, writeErr = output.WriteString(fmt.Sprintf("%s : |md\n", id))
	if writeErr != nil {
		return writeErr
	}
	_, writeErr = output.WriteString(fmt.Sprintf("# %s\n", heading))
	if writeErr != nil {
		return writeErr
	}
	keys := make([]string, 0, len(params))
	for eachKey := range params {
		keys = append(keys, eachKey)
	}
	slices.Sort(keys)
	for _, eachKey := range keys {
		_, writeErr = output.WriteString(fmt.Sprintf("- **%s**: %v\n", eachKey, params[eachKey]))
		if writeErr != nil {
			return writeErr
		}
	}
	_, writeErr = output.WriteString("|\n\n")
	return writeErr
}

func encodeD2Table(id string, encoding *D2Encoding, output io.StringWriter) error {
	var writeErr error
	shape := "sql_table"
	if len(encoding.Params) <= 0 {
		shape = "cloud"
	}
	_, writeErr = output.WriteString(fmt.Sprintf("%s : %s {\n", id, encoding.Name))
	if writeErr != nil {
		return writeErr
	}
	_, writeErr = output.WriteString(fmt.Sprintf("\tshape: %s\n", shape))
	if writeErr != nil {
		return writeErr
	}
	for _, eachParam := range encoding.Params {
		_, writeErr = output.WriteString(fmt.Sprintf("\t%s: %v\n", eachParam.Key, eachParam.Value))
		if writeErr != nil {
			return writeErr
		}
	}
	_, writeErr = output.WriteString("}\n")
	return writeErr
}

// /////////////////////////////////////////////////////////////////////////////
// runNode
//
// The root of the summary with the run parameters
//
// /////////////////////////////////////////////////////////////////////////////
type runNode struct {
	report *Report
}

func (rn *runNode) D2ID() string {
	return "run"
}

func (rn *runNode) D2Encode(output io.StringWriter, log *slog.Logger) error {
	report := rn.report
	params := map[string]interface{}{
		"Records": report.Dataset.Len(),
		"Created": report.Created.Format(time.ANSIC),
	}
	if report.Simulated {
		cfg := report.Definition.Simulation
		params["Runs"] = cfg.RunCount
		params["Seed"] = cfg.Seed
		params["Camera"] = fmt.Sprintf("%s %dx%d", cfg.Camera.Name, cfg.Camera.Rows, cfg.Camera.Cols)
		params["Noise"] = fmt.Sprintf("%.3f p.e.", report.NoiseSigma)
		params["Noise per sample"] = fmt.Sprintf("%.3f p.e.", report.NoisePerSample)
	} else {
		params["Dataset"] = report.Definition.DatasetPath
	}
	return encodeD2MarkdownNode(rn.D2ID(), report.Name, params, output, log)
}

// /////////////////////////////////////////////////////////////////////////////
// datasetNode
// /////////////////////////////////////////////////////////////////////////////
type datasetNode struct {
	report *Report
}

func (dn *datasetNode) D2ID() string {
	return "dataset"
}

func (dn *datasetNode) D2Params(_ *slog.Logger) *D2Encoding {
	encoding := &D2Encoding{
		Name:   "Dataset",
		Params: []*d2TableParams{},
	}
	columns := columnStatistics(dn.report.Dataset, dn.report.Definition.Percentiles)
	keys := make([]string, 0, len(columns))
	for eachKey := range columns {
		keys = append(keys, eachKey)
	}
	slices.Sort(keys)
	for _, eachKey := range keys {
		encoding.Params = append(encoding.Params, &d2TableParams{
			Key:   eachKey,
			Value: aggregatedStatsFormatter(columns[eachKey]),
		})
	}
	return encoding
}

func (dn *datasetNode) D2Encode(output io.StringWriter, log *slog.Logger) error {
	return encodeD2Table(dn.D2ID(), dn.D2Params(log), output)
}

// /////////////////////////////////////////////////////////////////////////////
// analysisNode
// /////////////////////////////////////////////////////////////////////////////
type analysisNode struct {
	index  int
	result *AnalysisResult
}

func (an *analysisNode) D2ID() string {
	return fmt.Sprintf("analysis_%d", an.index)
}

// failing reports whether a curve point exceeds the requirement.
func (an *analysisNode) failing() bool {
	return an.result.Met < an.result.Compared
}

func (an *analysisNode) D2Params(_ *slog.Logger) *D2Encoding {
	definition := an.result.Definition
	_, yLabel := definition.Type.Labels()
	encoding := &D2Encoding{
		Name: yLabel,
		Params: []*d2TableParams{
			{Key: "type", Value: definition.Type},
			{Key: "bins", Value: definition.Bins},
		},
	}
	switch definition.Type {
	case performance.ChargeResolutionAnalysis:
		encoding.Params = append(encoding.Params, &d2TableParams{
			Key:   "charge_range",
			Value: fmt.Sprintf("10^%g to 10^%g p.e.", definition.Min, definition.Max),
		})
	case performance.TimeResolutionAnalysis, performance.TimeSNRAnalysis:
		encoding.Params = append(encoding.Params, &d2TableParams{
			Key:   "sigma_cut",
			Value: definition.SigmaCut,
		})
	}
	finite := an.result.Curve.Finite()
	encoding.Params = append(encoding.Params, &d2TableParams{
		Key:   "points",
		Value: finite.Len(),
	})
	relativeError := finite.MaxRelativeError()
	if !math.IsNaN(relativeError) {
		encoding.Params = append(encoding.Params, &d2TableParams{
			Key:   "relative_error",
			Value: fmt.Sprintf("%.1f%%", 100*relativeError),
		})
	}
	requirement := "none"
	if an.result.Requirement != nil {
		requirement = fmt.Sprintf("met at %d of %d points", an.result.Met, an.result.Compared)
	}
	encoding.Params = append(encoding.Params, &d2TableParams{
		Key:   "requirement",
		Value: requirement,
	})
	return encoding
}

func (an *analysisNode) D2Encode(output io.StringWriter, log *slog.Logger) error {
	return encodeD2Table(an.D2ID(), an.D2Params(log), output)
}

// /////////////////////////////////////////////////////////////////////////////
// plotNode
// /////////////////////////////////////////////////////////////////////////////
type plotNode struct {
	index int
	path  string
}

func (pn *plotNode) D2ID() string {
	return fmt.Sprintf("plot_%d", pn.index)
}

func (pn *plotNode) D2Encode(output io.StringWriter, _ *slog.Logger) error {
	_, writeErr := output.WriteString(fmt.Sprintf(`%s: Plot {
shape: image
icon: %s
width: 512
height: 410
}
`,
		pn.D2ID(),
		pn.path))
	return writeErr
}

// /////////////////////////////////////////////////////////////////////////////
// D2Connection
// /////////////////////////////////////////////////////////////////////////////

type D2Connection struct {
	from    string
	to      string
	label   string
	failing bool
}

// /////////////////////////////////////////////////////////////////////////////
// D2EncodingVisitor
//
// Writes every node once, caching the connections which are written at the
// end of the document
//
// /////////////////////////////////////////////////////////////////////////////
type D2EncodingVisitor struct {
	visited         map[string]int
	log             *slog.Logger
	connectionsList []*D2Connection
}

func (d2enc *D2EncodingVisitor) encodeNode(output io.StringWriter, node D2Encoder) error {
	_, valExists := d2enc.visited[node.D2ID()]
	if valExists {
		return nil
	}
	d2enc.log.Debug("Encoding node", "type", fmt.Sprintf("%T", node), "id", node.D2ID())
	d2enc.visited[node.D2ID()] = 1
	return node.D2Encode(output, d2enc.log)
}

func (d2enc *D2EncodingVisitor) createConnection(fromNode D2Encoder, toNode D2Encoder, label string, failing bool) {
	// No self-connections
	if fromNode.D2ID() == toNode.D2ID() {
		return
	}
	d2enc.log.Debug("Creating connection", "from", fromNode.D2ID(), "to", toNode.D2ID())
	d2enc.connectionsList = append(d2enc.connectionsList, &D2Connection{
		from:    fromNode.D2ID(),
		to:      toNode.D2ID(),
		label:   label,
		failing: failing,
	})
}

func (d2enc *D2EncodingVisitor) Encode(report *Report, output io.StringWriter, log *slog.Logger) error {
	d2enc.log = log
	d2enc.visited = make(map[string]int, 0)
	d2enc.connectionsList = make([]*D2Connection, 0)

	_, writeErr := output.WriteString(`
# Nodes
# ------------------------------------------------------------------------------

`)
	if writeErr != nil {
		return writeErr
	}
	root := &runNode{report: report}
	data := &datasetNode{report: report}
	for _, eachNode := range []D2Encoder{root, data} {
		encodeErr := d2enc.encodeNode(output, eachNode)
		if encodeErr != nil {
			return encodeErr
		}
	}
	d2enc.createConnection(root, data, fmt.Sprintf("%d records", report.Dataset.Len()), false)

	for i, eachResult := range report.Results {
		analysis := &analysisNode{index: i, result: eachResult}
		encodeErr := d2enc.encodeNode(output, analysis)
		if encodeErr != nil {
			return encodeErr
		}
		d2enc.createConnection(data, analysis, "", false)
		if len(eachResult.PlotPath) <= 0 {
			continue
		}
		plot := &plotNode{index: i, path: eachResult.PlotPath}
		encodeErr = d2enc.encodeNode(output, plot)
		if encodeErr != nil {
			return encodeErr
		}
		d2enc.createConnection(analysis, plot, "", analysis.failing())
	}

	_, writeErr = output.WriteString(`

# Connections
# ------------------------------------------------------------------------------
`)
	if writeErr != nil {
		return writeErr
	}
	for i := 0; i != len(d2enc.connectionsList); i++ {
		connection := d2enc.connectionsList[i]
		labelSuffix := ""
		if len(connection.label) != 0 {
			labelSuffix = fmt.Sprintf(" : %s", connection.label)
		}
		styleSuffix := ""
		if connection.failing {
			styleSuffix = ` {
	style: {
		stroke: crimson
		stroke-width: 4
		stroke-dash: 2
		}
	}`
		}
		_, writeErr = output.WriteString(fmt.Sprintf("%s -> %s%s%s\n", connection.from, connection.to, labelSuffix, styleSuffix))
		if writeErr != nil {
			return writeErr
		}
	}
	return nil
}

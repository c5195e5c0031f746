package simulation

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/caloperf/caloperf/dataset"
	"github.com/caloperf/caloperf/generator"
	"github.com/caloperf/caloperf/parameters"
	"github.com/caloperf/caloperf/stats"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	gonumstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TelescopeID is the ID of the single simulated telescope.
const TelescopeID = 1

// summaryCount is the number of draws summarized for every distribution.
const summaryCount = 1000

var summaryPercentiles = []float64{5, 50, 95}

// CameraConfig describes the simulated camera and its readout.
type CameraConfig struct {
	Name    string
	Rows    int
	Cols    int
	Samples int
	// PulseWidth is the standard deviation of the single photoelectron
	// pulse in samples.
	PulseWidth  float64
	ReadoutTime float64
}

// Config holds the simulation parameters. Distributions are generator
// expressions, see generator.NewSampleGenerator.
type Config struct {
	RunCount int
	Seed     uint64
	Camera   CameraConfig
	// Intensity is the expected number of photoelectrons per pixel.
	Intensity string
	// PulseTime is the arrival time of the light in a pixel.
	PulseTime string
	// TimeJitter spreads the photoelectrons of a pixel around PulseTime.
	TimeJitter string
	// Noise is added to every readout sample.
	Noise string
	// TriggerJitter is the relative trigger time of every event.
	TriggerJitter string

	WindowBefore  int
	WindowAfter   int
	PedestalStart int
	PedestalStop  int
}

func DefaultConfig() Config {
	return Config{
		RunCount: 200,
		Seed:     0,
		Camera: CameraConfig{
			Name:        "FlashCam",
			Rows:        8,
			Cols:        8,
			Samples:     64,
			PulseWidth:  1.5,
			ReadoutTime: 0,
		},
		Intensity:     "Pareto(1, 0.8, 2000)",
		PulseTime:     "Uniform(25, 35)",
		TimeJitter:    "Normal(0, 1)",
		Noise:         "Normal(0, 0.3)",
		TriggerJitter: "Normal(0, 0.5)",
		WindowBefore:  3,
		WindowAfter:   4,
		PedestalStart: 0,
		PedestalStop:  10,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.RunCount <= 0:
		return fmt.Errorf("invalid run count: %d", cfg.RunCount)
	case cfg.Camera.Rows <= 0 || cfg.Camera.Cols <= 0:
		return fmt.Errorf("invalid camera size: %dx%d", cfg.Camera.Rows, cfg.Camera.Cols)
	case cfg.Camera.Samples <= 0:
		return fmt.Errorf("invalid number of readout samples: %d", cfg.Camera.Samples)
	case cfg.Camera.PulseWidth <= 0:
		return fmt.Errorf("invalid pulse width: %v", cfg.Camera.PulseWidth)
	case cfg.WindowBefore < 0 || cfg.WindowAfter < 0:
		return fmt.Errorf("invalid integration window: -%d/+%d", cfg.WindowBefore, cfg.WindowAfter)
	case cfg.PedestalStart < 0 || cfg.PedestalStop <= cfg.PedestalStart || cfg.PedestalStop > cfg.Camera.Samples:
		return fmt.Errorf("invalid pedestal window: [%d, %d)", cfg.PedestalStart, cfg.PedestalStop)
	}
	return nil
}

// Result is the outcome of a simulation run.
type Result struct {
	Dataset  *dataset.Dataset
	Geometry *parameters.Geometry
	Events   []parameters.ArrayEvent
	// NoiseSigma is the robust spread of the charge integrated over the
	// signal window in the absence of signal.
	NoiseSigma float64
	// Monitoring is the per-pixel pedestal and noise over the pedestal
	// window, accumulated over all events.
	Monitoring parameters.CameraMonitoring
	// NoisePerSample and PedestalPerSample are the monitoring values
	// normalized to a single readout sample.
	NoisePerSample    []float64
	PedestalPerSample []float64
	// Distributions summarizes every configured distribution, drawn from
	// a stream of its own.
	Distributions map[string]*stats.AggregatedStatistics
}

type randers struct {
	intensity     distuv.Rander
	pulseTime     distuv.Rander
	timeJitter    distuv.Rander
	noise         distuv.Rander
	triggerJitter distuv.Rander
	summaries     map[string]*stats.AggregatedStatistics
}

type distribution struct {
	name       string
	expression string
	target     *distuv.Rander
}

func newRanders(cfg *Config, src rand.Source, log *slog.Logger) (*randers, error) {
	r := &randers{
		summaries: make(map[string]*stats.AggregatedStatistics),
	}
	distributions := []distribution{
		{"intensity", cfg.Intensity, &r.intensity},
		{"pulseTime", cfg.PulseTime, &r.pulseTime},
		{"timeJitter", cfg.TimeJitter, &r.timeJitter},
		{"noise", cfg.Noise, &r.noise},
		{"triggerJitter", cfg.TriggerJitter, &r.triggerJitter},
	}
	for _, eachDistribution := range distributions {
		gen, genErr := generator.NewSampleGenerator(eachDistribution.expression, log)
		if genErr != nil {
			return nil, fmt.Errorf("%s: %w", eachDistribution.name, genErr)
		}
		summary, summaryErr := gen.Generate(summaryCount, summaryPercentiles, rand.NewSource(cfg.Seed), log)
		if summaryErr != nil {
			return nil, fmt.Errorf("%s: %w", eachDistribution.name, summaryErr)
		}
		r.summaries[eachDistribution.name] = summary.Stats
		log.Debug("Simulation distribution",
			"parameter", eachDistribution.name,
			"generator", gen.Name(),
			"mean", summary.Stats.Mean,
			"stddev", summary.Stats.StdDev,
			"median", summary.Stats.Median)
		*eachDistribution.target = gen.Rander(src)
	}
	return r, nil
}

// Run simulates cfg.RunCount events of a single telescope and reconstructs
// charge and arrival time of every pixel that received light.
//
// Reconstructed times are corrected by the readout timing offset of their
// event so that they compare directly to the true photoelectron times.
func Run(cfg Config, log *slog.Logger) (*Result, error) {
	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}
	src := rand.NewSource(cfg.Seed)
	r, randersErr := newRanders(&cfg, src, log)
	if randersErr != nil {
		return nil, randersErr
	}
	geom := parameters.NewGridGeometry(cfg.Camera.Rows, cfg.Camera.Cols)
	subarray := parameters.CameraNames{TelescopeID: cfg.Camera.Name}
	numPixels := geom.NumPixels()
	log.Info("Simulating camera readout",
		"camera", cfg.Camera.Name,
		"pixels", numPixels,
		"events", cfg.RunCount,
		"seed", cfg.Seed)

	result := &Result{
		Dataset:  &dataset.Dataset{},
		Geometry: geom,
		Events:   make([]parameters.ArrayEvent, 0, cfg.RunCount),

		Distributions: r.summaries,
	}
	ds := result.Dataset
	pedestalSums := make([]float64, 0, cfg.RunCount*numPixels)
	pixelPedestals := make([][]float64, numPixels)

	for eventIndex := 0; eventIndex != cfg.RunCount; eventIndex++ {
		header := parameters.TelescopeHeader{
			ReadoutTime:         cfg.Camera.ReadoutTime,
			RelativeTriggerTime: r.triggerJitter.Rand(),
		}
		result.Events = append(result.Events, parameters.ArrayEvent{
			TelescopeEvents: map[int]parameters.TelescopeEvent{
				TelescopeID: {Header: header},
			},
		})

		pe, npe := simulatePhotoElectrons(numPixels, r, src)
		waveforms := cfg.readout(pe, header.ReadoutTime+header.RelativeTriggerTime, numPixels, r.noise)

		charge, peakTime := parameters.PeakWindow(waveforms, cfg.WindowBefore, cfg.WindowAfter)
		pedestal := parameters.Noise(waveforms, cfg.PedestalStart, cfg.PedestalStop)
		pedestalSums = append(pedestalSums, pedestal...)
		for pix, eachSum := range pedestal {
			pixelPedestals[pix] = append(pixelPedestals[pix], eachSum)
		}
		centroid := parameters.PulseCentroid(waveforms)
		neighborCharge, neighborErr := parameters.SignalNeighbors(geom, charge)
		if neighborErr != nil {
			return nil, neighborErr
		}

		pixels, trueTime, _ := parameters.MeanTrueTime(pe)
		for i, eachPixel := range pixels {
			ds.Append(dataset.Record{
				Event:          eventIndex,
				Pixel:          eachPixel,
				TrueCharge:     npe[eachPixel],
				RecoCharge:     charge[eachPixel],
				TrueTime:       trueTime[i],
				RecoTime:       peakTime[eachPixel],
				CentroidTime:   centroid[eachPixel],
				NeighborCharge: neighborCharge[eachPixel],
				Noise:          pedestal[eachPixel],
			})
		}
		log.Debug("Simulated event",
			"event", eventIndex,
			"photoelectrons", len(pe.PixelID),
			"pixels", len(pixels))
	}

	// Readout frame to array frame
	offsets := parameters.TimingOffsets(result.Events, subarray, cfg.Camera.Name)
	if len(offsets) != cfg.RunCount {
		return nil, fmt.Errorf("expected %d timing offsets, got %d", cfg.RunCount, len(offsets))
	}
	for i := range ds.RecoTime {
		ds.RecoTime[i] += offsets[ds.Event[i]]
		ds.CentroidTime[i] += offsets[ds.Event[i]]
	}

	windowLength := cfg.WindowBefore + cfg.WindowAfter + 1
	pedestalLength := cfg.PedestalStop - cfg.PedestalStart
	result.NoiseSigma = stats.MAD(pedestalSums, nil) * math.Sqrt(float64(windowLength)/float64(pedestalLength))
	ds.SNR = make([]float64, ds.Len())
	for i := range ds.SNR {
		ds.SNR[i] = ds.RecoCharge[i] / result.NoiseSigma
	}
	monitoringErr := result.monitor(pixelPedestals, pedestalLength)
	if monitoringErr != nil {
		return nil, monitoringErr
	}
	log.Info("Simulation complete",
		"records", ds.Len(),
		"noiseSigma", result.NoiseSigma,
		"noisePerSample", stats.Median(result.NoisePerSample))
	return result, nil
}

// monitor fills the camera monitoring from the pedestal window sums of
// every pixel. No night sky background is simulated.
func (result *Result) monitor(pixelPedestals [][]float64, pedestalLength int) error {
	result.Monitoring = parameters.CameraMonitoring{
		Noise:      make([]float64, len(pixelPedestals)),
		Pedestal:   make([]float64, len(pixelPedestals)),
		NPedSlices: pedestalLength,
	}
	for pix, eachSums := range pixelPedestals {
		result.Monitoring.Pedestal[pix], result.Monitoring.Noise[pix] = gonumstat.PopMeanStdDev(eachSums, nil)
	}
	_, noise, pedestal, monitoringErr := parameters.NoiseFromMonitoring(result.Monitoring, parameters.PixelMonitoring{})
	if monitoringErr != nil {
		return monitoringErr
	}
	result.NoisePerSample = noise
	result.PedestalPerSample = pedestal
	return nil
}

// simulatePhotoElectrons draws the photoelectrons of one event and returns
// them along with the number of photoelectrons per pixel.
func simulatePhotoElectrons(numPixels int, r *randers, src rand.Source) (parameters.PhotoElectrons, []float64) {
	pe := parameters.PhotoElectrons{
		PixelID: make([]int, 0),
		Time:    make([]float64, 0),
	}
	npe := make([]float64, numPixels)
	for pix := 0; pix != numPixels; pix++ {
		intensity := r.intensity.Rand()
		pulseTime := r.pulseTime.Rand()
		if !(intensity > 0) {
			continue
		}
		npe[pix] = distuv.Poisson{Lambda: intensity, Src: src}.Rand()
		for i := 0; i < int(npe[pix]); i++ {
			pe.PixelID = append(pe.PixelID, pix)
			pe.Time = append(pe.Time, pulseTime+r.timeJitter.Rand())
		}
	}
	return pe, npe
}

// readout renders every photoelectron as a unit area Gaussian pulse and adds
// noise to every sample. readoutStart is the time of the first sample.
func (cfg *Config) readout(pe parameters.PhotoElectrons,
	readoutStart float64,
	numPixels int,
	noise distuv.Rander) *mat.Dense {
	samples := cfg.Camera.Samples
	width := cfg.Camera.PulseWidth
	norm := 1 / (math.Sqrt(2*math.Pi) * width)
	reach := int(math.Ceil(5 * width))

	waveforms := mat.NewDense(numPixels, samples, nil)
	for i, eachPixel := range pe.PixelID {
		center := pe.Time[i] - readoutStart
		if math.IsNaN(center) || center < float64(-reach) || center > float64(samples+reach) {
			continue
		}
		row := waveforms.RawRowView(eachPixel)
		first := max(0, int(math.Floor(center))-reach)
		last := min(samples-1, int(math.Ceil(center))+reach)
		for t := first; t <= last; t++ {
			z := (float64(t) - center) / width
			row[t] += norm * math.Exp(-0.5*z*z)
		}
	}
	for pix := 0; pix != numPixels; pix++ {
		row := waveforms.RawRowView(pix)
		for t := range row {
			row[t] += noise.Rand()
		}
	}
	return waveforms
}

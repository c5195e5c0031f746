package simulation

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RunCount = 5
	cfg.Seed = 11
	cfg.Camera.Rows = 3
	cfg.Camera.Cols = 3
	cfg.Intensity = "Fixed(50)"
	cfg.PulseTime = "Fixed(30)"
	cfg.TimeJitter = "Normal(0, 1)"
	cfg.Noise = "Normal(0, 0.1)"
	cfg.TriggerJitter = "Fixed(2)"
	return cfg
}

func TestRun(t *testing.T) {
	t.Run("reconstructs charge and time", func(t *testing.T) {
		result, err := Run(testConfig(), testLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ds := result.Dataset
		if ds.Len() != 45 {
			t.Fatalf("expected a record for all 45 illuminated pixels, got %d", ds.Len())
		}
		if err := ds.Validate(); err != nil {
			t.Fatalf("unexpected invalid dataset: %v", err)
		}
		for i := 0; i != ds.Len(); i++ {
			rec := ds.Record(i)
			ratio := rec.RecoCharge / rec.TrueCharge
			if ratio < 0.75 || ratio > 1.05 {
				t.Fatalf("record %d: reconstructed charge %v too far from %v", i, rec.RecoCharge, rec.TrueCharge)
			}
			if math.Abs(rec.RecoTime-rec.TrueTime) > 1 {
				t.Fatalf("record %d: reconstructed time %v too far from %v", i, rec.RecoTime, rec.TrueTime)
			}
			if math.IsNaN(rec.NeighborCharge) || !(rec.SNR > 0) || math.IsInf(rec.SNR, 0) {
				t.Fatalf("record %d: unexpected neighbour charge or SNR: %+v", i, rec)
			}
		}
		if result.NoiseSigma < 0.15 || result.NoiseSigma > 0.45 {
			t.Fatalf("expected a window noise of about 0.28, got %v", result.NoiseSigma)
		}
		for i := 0; i != ds.Len(); i++ {
			if math.Abs(ds.CentroidTime[i]-ds.TrueTime[i]) > 2 {
				t.Fatalf("record %d: centroid time %v too far from %v", i, ds.CentroidTime[i], ds.TrueTime[i])
			}
		}
		if result.Monitoring.NPedSlices != 10 || len(result.NoisePerSample) != 9 || len(result.PedestalPerSample) != 9 {
			t.Fatalf("unexpected monitoring: %+v", result.Monitoring)
		}
		for pix := range result.NoisePerSample {
			if !(result.NoisePerSample[pix] > 0) || result.NoisePerSample[pix] > 0.1 {
				t.Fatalf("pixel %d: unexpected noise per sample %v", pix, result.NoisePerSample[pix])
			}
			if math.Abs(result.PedestalPerSample[pix]) > 0.1 {
				t.Fatalf("pixel %d: expected a pedestal of about 0, got %v", pix, result.PedestalPerSample[pix])
			}
		}
		intensity, intensityOk := result.Distributions["intensity"]
		if !intensityOk || intensity.Count != summaryCount || intensity.Mean != 50 || intensity.StdDev != 0 {
			t.Fatalf("expected a fixed intensity summary of 50, got %+v", intensity)
		}
		jitter := result.Distributions["timeJitter"]
		if len(result.Distributions) != 5 || jitter == nil || math.Abs(jitter.Mean) > 0.15 || math.Abs(jitter.StdDev-1) > 0.1 {
			t.Fatalf("expected a standard normal time jitter summary, got %+v", jitter)
		}
		if len(result.Events) != 5 {
			t.Fatalf("expected 5 events, got %d", len(result.Events))
		}
		header := result.Events[0].TelescopeEvents[TelescopeID].Header
		if header.RelativeTriggerTime != 2 {
			t.Fatalf("expected a relative trigger time of 2, got %v", header.RelativeTriggerTime)
		}
		if result.Geometry.NumPixels() != 9 {
			t.Fatalf("expected a 9 pixel camera, got %d", result.Geometry.NumPixels())
		}
	})

	t.Run("same seed, same dataset", func(t *testing.T) {
		first, _ := Run(testConfig(), testLogger())
		second, _ := Run(testConfig(), testLogger())
		if !reflect.DeepEqual(first.Dataset, second.Dataset) {
			t.Fatalf("expected identical datasets for identical seeds")
		}
	})

	t.Run("invalid configuration", func(t *testing.T) {
		cfg := testConfig()
		cfg.PedestalStop = cfg.Camera.Samples + 1
		if _, err := Run(cfg, testLogger()); err == nil {
			t.Fatalf("expected an error for a pedestal window past the readout")
		}
		cfg = testConfig()
		cfg.Noise = "Gauss(0, 1)"
		if _, err := Run(cfg, testLogger()); err == nil {
			t.Fatalf("expected an error for an unknown distribution")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected the default configuration to be valid: %v", err)
	}
}

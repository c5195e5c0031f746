package json

import (
	"testing"
)

func TestNumbers(t *testing.T) {
	dict := map[string]interface{}{
		"jsonCount": float64(200),
		"yamlCount": 200,
		"width":     1.5,
		"negative":  -3,
		"name":      "FlashCam",
	}
	if Uint("jsonCount", dict) != 200 || Uint("yamlCount", dict) != 200 {
		t.Fatalf("expected both JSON and YAML numbers to decode")
	}
	if Uint("negative", dict) != 0 || Uint("missing", dict) != 0 {
		t.Fatalf("expected negative and missing values to yield zero")
	}
	if Int("yamlCount", dict, 7) != 200 || Int("name", dict, 7) != 7 {
		t.Fatalf("unexpected Int result")
	}
	if Float("width", dict, 0) != 1.5 || Float("missing", dict, 2.5) != 2.5 {
		t.Fatalf("unexpected Float result")
	}
}

func TestContainers(t *testing.T) {
	dict := map[string]interface{}{
		"camera":      map[string]interface{}{"rows": 4},
		"percentiles": []interface{}{50, 95.5},
		"broken":      []interface{}{"p50"},
		"enabled":     "true",
	}
	if Int("rows", Map("camera", dict), 0) != 4 {
		t.Fatalf("expected the nested map to be returned")
	}
	if Map("missing", dict) != nil || Slice("camera", dict) != nil {
		t.Fatalf("expected nil for missing or mistyped containers")
	}
	percentiles, err := Floats("percentiles", dict)
	if err != nil || len(percentiles) != 2 || percentiles[1] != 95.5 {
		t.Fatalf("unexpected percentiles %v, %v", percentiles, err)
	}
	if _, err := Floats("broken", dict); err == nil {
		t.Fatalf("expected an error for a non numeric entry")
	}
	if missing, err := Floats("missing", dict); missing != nil || err != nil {
		t.Fatalf("expected nil, nil for a missing key")
	}
	if !Boolean("enabled", dict) || Boolean("missing", dict) {
		t.Fatalf("unexpected Boolean result")
	}
}

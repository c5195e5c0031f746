package json

import (
	"fmt"
	"strconv"
)

// number converts the numeric types produced by encoding/json (float64) and
// gopkg.in/yaml.v3 (int, int64, uint64, float64).
func number(value interface{}) (float64, bool) {
	switch typedVal := value.(type) {
	case float64:
		return typedVal, true
	case float32:
		return float64(typedVal), true
	case int:
		return float64(typedVal), true
	case int64:
		return float64(typedVal), true
	case uint64:
		return float64(typedVal), true
	}
	return 0, false
}

func Uint(key string, dict map[string]interface{}) uint64 {
	curVal, curValOk := dict[key]
	if !curValOk {
		return 0
	}
	if u64, u64Ok := curVal.(uint64); u64Ok {
		return u64
	}
	f64, f64OK := number(curVal)
	if f64OK && f64 > 0 {
		return uint64(f64)
	}
	return 0
}

// Int returns defaultValue when key is missing or not a number.
func Int(key string, dict map[string]interface{}, defaultValue int) int {
	f64, f64OK := number(dict[key])
	if !f64OK {
		return defaultValue
	}
	return int(f64)
}

// Float returns defaultValue when key is missing or not a number.
func Float(key string, dict map[string]interface{}, defaultValue float64) float64 {
	f64, f64OK := number(dict[key])
	if !f64OK {
		return defaultValue
	}
	return f64
}

func String(key string, dict map[string]interface{}) string {
	curVal, curValOk := dict[key]
	if !curValOk {
		curVal = ""
	}
	strVal, _ := curVal.(string)
	return strVal
}

func Boolean(key string, dict map[string]interface{}) bool {
	// By default, an empty string is false
	boolVal := false
	curVal, curValOk := dict[key]
	if !curValOk {
		curVal = ""
	}
	boolVal, _ = strconv.ParseBool(fmt.Sprintf("%v", curVal))
	return boolVal
}

// Map returns the nested object stored at key, or nil.
func Map(key string, dict map[string]interface{}) map[string]interface{} {
	mapVal, _ := dict[key].(map[string]interface{})
	return mapVal
}

// Slice returns the array stored at key, or nil.
func Slice(key string, dict map[string]interface{}) []interface{} {
	sliceVal, _ := dict[key].([]interface{})
	return sliceVal
}

// Floats returns the numeric array stored at key. A missing key yields a nil
// slice and no error.
func Floats(key string, dict map[string]interface{}) ([]float64, error) {
	curVal, curValOk := dict[key]
	if !curValOk {
		return nil, nil
	}
	typedVal, typedValOk := curVal.([]interface{})
	if !typedValOk {
		return nil, fmt.Errorf("invalid %s specified: %v. Only arrays of numbers are supported", key, curVal)
	}
	floatVals := make([]float64, 0, len(typedVal))
	for i := 0; i != len(typedVal); i++ {
		castFloat, castFloatOK := number(typedVal[i])
		if !castFloatOK {
			return nil, fmt.Errorf("invalid %s entry: %v. Only arrays of numbers are supported", key, typedVal[i])
		}
		floatVals = append(floatVals, castFloat)
	}
	return floatVals, nil
}

package scoring

// config.go provides option parsing utilities for backend configuration.
// Backend factories receive open map[string]any options from the
// configuration layer; these helpers extract and validate typed values
// from those maps.

import "time"

// ExtractOptionalInt extracts an integer value from an options map with
// validation. Returns defaultVal if the key doesn't exist, the value is not
// an int, or the validator fails. Float values without a fractional part
// are accepted because YAML and JSON decoders produce them for numbers.
func ExtractOptionalInt(opts map[string]any, key string, defaultVal int, validator func(int) bool) int {
	if opts == nil {
		return defaultVal
	}

	val, ok := opts[key]
	if !ok {
		return defaultVal
	}

	var intVal int
	switch v := val.(type) {
	case int:
		intVal = v
	case int64:
		intVal = int(v)
	case float64:
		if v != float64(int(v)) {
			return defaultVal
		}
		intVal = int(v)
	default:
		return defaultVal
	}

	if validator != nil && !validator(intVal) {
		return defaultVal
	}

	return intVal
}

// ExtractOptionalString extracts a string value from an options map with
// validation. Returns defaultVal if the key doesn't exist, the value is not
// a string, or the validator fails.
func ExtractOptionalString(opts map[string]any, key string, defaultVal string, validator func(string) bool) string {
	if opts == nil {
		return defaultVal
	}

	val, ok := opts[key]
	if !ok {
		return defaultVal
	}

	strVal, ok := val.(string)
	if !ok {
		return defaultVal
	}

	if validator != nil && !validator(strVal) {
		return defaultVal
	}

	return strVal
}

// ExtractOptionalFloat64 extracts a float64 value from an options map with
// validation. Returns defaultVal if the key doesn't exist, the value is not
// numeric, or the validator fails.
func ExtractOptionalFloat64(opts map[string]any, key string, defaultVal float64, validator func(float64) bool) float64 {
	if opts == nil {
		return defaultVal
	}

	val, ok := opts[key]
	if !ok {
		return defaultVal
	}

	var floatVal float64
	switch v := val.(type) {
	case float64:
		floatVal = v
	case float32:
		floatVal = float64(v)
	case int:
		floatVal = float64(v)
	case int64:
		floatVal = float64(v)
	default:
		return defaultVal
	}

	if validator != nil && !validator(floatVal) {
		return defaultVal
	}

	return floatVal
}

// ExtractOptionalBool extracts a boolean value from an options map.
// Returns defaultVal if the key doesn't exist or the value is not a bool.
func ExtractOptionalBool(opts map[string]any, key string, defaultVal bool) bool {
	if opts == nil {
		return defaultVal
	}

	val, ok := opts[key]
	if !ok {
		return defaultVal
	}

	boolVal, ok := val.(bool)
	if !ok {
		return defaultVal
	}

	return boolVal
}

// ExtractOptionalDuration extracts a duration from an options map.
// Accepts time.Duration values directly or strings in time.ParseDuration
// syntax such as "30s". Returns defaultVal on absence or parse failure.
func ExtractOptionalDuration(opts map[string]any, key string, defaultVal time.Duration) time.Duration {
	if opts == nil {
		return defaultVal
	}

	val, ok := opts[key]
	if !ok {
		return defaultVal
	}

	switch v := val.(type) {
	case time.Duration:
		return v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return defaultVal
		}
		return d
	default:
		return defaultVal
	}
}

// IsPositiveInt checks if the integer value is positive.
func IsPositiveInt(val int) bool {
	return val > 0
}

// IsNonEmptyString checks if the string is non-empty.
func IsNonEmptyString(val string) bool {
	return val != ""
}

// IsUnitInterval checks if the value is within the range [0.0, 1.0].
func IsUnitInterval(val float64) bool {
	return val >= 0.0 && val <= 1.0
}

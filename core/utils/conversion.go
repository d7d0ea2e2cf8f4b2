package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts a loose-typed raw feed value to a string. CSV parsing
// yields strings, but rows posted as JSON arrive as arbitrary scalars.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a fraction so "2" does not become "2.000000".
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToInt converts a loose-typed raw feed value to an int.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(strings.TrimSpace(string(v)))
		return i
	default:
		i, _ := strconv.Atoi(fmt.Sprintf("%v", v))
		return i
	}
}

// ToBool converts a loose-typed raw feed value to a bool. Feeds express
// truth as booleans, 1/0, or the strings "1", "true", "yes".
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, float64:
		return ToInt(v) == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "yes"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

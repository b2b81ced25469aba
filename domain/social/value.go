package social

import (
	"encoding/json"
	"math"
	"strconv"
)

// Stringify renders a scalar cell value the way it reads in the sheet.
// Numbers drop trailing zeros ("123", "1.5"); non-scalars report false.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			if i, err := t.Int64(); err == nil {
				return strconv.FormatInt(i, 10), true
			}
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// IsScalar reports whether v is a string or a number
func IsScalar(v any) bool {
	if IsNumber(v) {
		return true
	}
	_, ok := v.(string)
	return ok
}

// IsNumber reports whether v holds a numeric cell value
func IsNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// Truthy reports whether a cell counts as "present": nil, "", false, 0 and NaN do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t != ""
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	}
	if IsNumber(v) {
		s, _ := Stringify(v)
		return s != "0"
	}
	return true
}

// Present returns the value under key when it is truthy
func (r Row) Present(key string) (any, bool) {
	v, ok := r.Get(key)
	if !ok || !Truthy(v) {
		return nil, false
	}
	return v, true
}

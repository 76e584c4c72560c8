package cfgchain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// errNilValue rejects a nil winning value, such as an explicit nil default,
// in every typed conversion.
var errNilValue = fmt.Errorf("%w: nil value", ErrConversion)

// maxDurationSeconds is the largest number of seconds a time.Duration holds.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// ToInt converts strings in base 10 (surrounding whitespace allowed) and any
// numeric or boolean value to int.
func ToInt(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to int: %w", errNilValue)
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
		if err != nil {
			return nil, fmt.Errorf("to int: %w", err)
		}
		return int(n), nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil, fmt.Errorf("to int: %w", err)
	}
	return n, nil
}

// ToBool accepts the forms understood by strconv.ParseBool and numeric values.
func ToBool(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to bool: %w", errNilValue)
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, fmt.Errorf("to bool: %w", err)
	}
	return b, nil
}

func ToFloat(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to float: %w", errNilValue)
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("to float: %w", err)
	}
	return f, nil
}

// ToDuration reads plain numbers as seconds and anything else as a Go
// duration string such as "1m30s".
func ToDuration(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to duration: %w", errNilValue)
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("to duration: %w", err)
			}
			return d, nil
		}
		v = s
	}
	if d, ok := v.(time.Duration); ok {
		return d, nil
	}
	secs, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("to duration: %w", err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) >= maxDurationSeconds {
		return nil, fmt.Errorf("to duration: %w: %v seconds out of range", ErrConversion, v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func ToString(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to string: %w", errNilValue)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, fmt.Errorf("to string: %w", err)
	}
	return s, nil
}

// ToStringSlice splits strings on commas and converts lists element-wise.
func ToStringSlice(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("to string slice: %w", errNilValue)
	}
	if s, ok := v.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("to string slice: %w", err)
	}
	return out, nil
}

// Conversion names accepted by ConversionByName.
const (
	TypeInt         = "int"
	TypeBool        = "bool"
	TypeFloat       = "float"
	TypeDuration    = "duration"
	TypeString      = "string"
	TypeStringSlice = "string_slice"
)

var conversions = map[string]ConversionFunc{
	TypeInt:         ToInt,
	TypeBool:        ToBool,
	TypeFloat:       ToFloat,
	TypeDuration:    ToDuration,
	TypeString:      ToString,
	TypeStringSlice: ToStringSlice,
}

// ConversionByName returns the conversion registered under name.
// An empty name returns a nil conversion.
func ConversionByName(name string) (ConversionFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := conversions[name]
	if !ok {
		return nil, fmt.Errorf("conversion %q: %w", name, ErrInvalidInput)
	}
	return fn, nil
}

// NormalizeJSON rewrites the json.Number values produced by a decoder with
// UseNumber: whole numbers become int, other numbers float64. Maps and slices
// are rewritten in place.
func NormalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = NormalizeJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = NormalizeJSON(e)
		}
		return t
	default:
		return v
	}
}

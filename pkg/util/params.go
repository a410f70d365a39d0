package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidParams marks errors caused by the caller's arguments
var ErrInvalidParams = errors.New("invalid params")

// Invalid builds an ErrInvalidParams error
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}

// Params wraps the loosely typed arguments of a tool call.
// Clients send numbers as JSON numbers or strings, both are accepted.
type Params map[string]any

// AsParams asserts the handler input is an argument object
func AsParams(params any) (Params, error) {
	switch p := params.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return p, nil
	case map[string]any:
		return Params(p), nil
	default:
		return nil, Invalid("arguments must be an object")
	}
}

func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// RequiredString returns a non-blank string argument
func (p Params) RequiredString(key string) (string, error) {
	if !p.Has(key) {
		return "", Invalid("%s parameter is required", key)
	}
	s, err := GetAsString(p[key])
	if err != nil {
		return "", Invalid("%s: %v", key, err)
	}
	if strings.TrimSpace(s) == "" {
		return "", Invalid("%s parameter must not be empty", key)
	}
	return s, nil
}

func (p Params) String(key, def string) string {
	if !p.Has(key) {
		return def
	}
	s, err := GetAsString(p[key])
	if err != nil {
		return def
	}
	return s
}

func (p Params) Int(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	i, err := GetAsInteger(p[key])
	if err != nil {
		return 0, Invalid("%s: %v", key, err)
	}
	return i, nil
}

func (p Params) Float(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	f, err := GetAsFloat(p[key])
	if err != nil {
		return 0, Invalid("%s: %v", key, err)
	}
	return f, nil
}

func (p Params) Bool(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	b, err := GetAsBool(p[key])
	if err != nil {
		return false, Invalid("%s: %v", key, err)
	}
	return b, nil
}

// Strings accepts a JSON array of strings or one newline separated string
func (p Params) Strings(key string) ([]string, error) {
	if !p.Has(key) {
		return nil, nil
	}
	switch v := p[key].(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, err := GetAsString(item)
			if err != nil {
				return nil, Invalid("%s[%d]: %v", key, i, err)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return strings.Split(v, "\n"), nil
	default:
		return nil, Invalid("%s must be a list of strings", key)
	}
}

// Decode re-marshals the value under key into out, for structured arguments
func (p Params) Decode(key string, out any) error {
	if !p.Has(key) {
		return nil
	}
	b, err := json.Marshal(p[key])
	if err != nil {
		return Invalid("%s: %v", key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return Invalid("%s: %v", key, err)
	}
	return nil
}

func GetAsString(s any) (string, error) {
	switch v := s.(type) {
	case nil:
		return "", fmt.Errorf("cannot convert nil to string")
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", s)
	}
}

func GetAsFloat(s any) (float64, error) {
	var f float64
	switch v := s.(type) {
	case nil:
		return 0, fmt.Errorf("cannot convert nil to number")
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		return v.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number", v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("cannot convert %T to number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number is not finite")
	}
	return f, nil
}

// GetAsInteger accepts whole numbers only, 2.0 is fine but 2.5 is not
func GetAsInteger(s any) (int, error) {
	f, err := GetAsFloat(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%v is out of int range", f)
	}
	return int(f), nil
}

func GetAsBool(s any) (bool, error) {
	switch v := s.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to bool", v)
		}
		return b, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", s)
	}
}

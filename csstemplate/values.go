package csstemplate

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"themegen/css"
)

// Values maps placeholder names to substitution values: strings or numbers.
// A nil value is the same as an absent one.
type Values map[string]any

func (v Values) lookup(tag string) (any, bool) {
	val, ok := v[tag]
	return val, ok && val != nil
}

// Keys returns value names in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// Defaults fills names which are absent from values (or nil) with defaults
// and returns resulting values.
func Defaults(values, defaults Values) Values {
	if values == nil {
		values = make(Values, len(defaults))
	}
	for k, d := range defaults {
		if v, ok := values[k]; !ok || v == nil {
			values[k] = d
		}
	}
	return values
}

// LoadValues decodes flat name to value mapping. Input could be either JSON
// or YAML.
func LoadValues(r io.Reader) (Values, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read values: %w", err)
	}
	values := Values{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return values, nil
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unable to decode values: %w", err)
	}
	for k, v := range values {
		if !isScalar(v) {
			return nil, fmt.Errorf("%w: value %q is not a scalar", css.ErrInvalidArgument, k)
		}
	}
	return values, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Text returns textual form of substitution value. Numbers are rendered in
// shortest decimal form.
func Text(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", fmt.Errorf("%w: unsupported value type %T", css.ErrInvalidArgument, v)
}

// Number returns numeric form of substitution value.
func Number(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", css.ErrInvalidArgument, x)
		}
		return f, nil
	case bool:
		return 0, fmt.Errorf("%w: %v is not a number", css.ErrInvalidArgument, x)
	}
	s, err := Text(v)
	if err != nil {
		return 0, err
	}
	return Number(s)
}

// formatFraction renders number without leading zero: 0.5 -> ".5".
func formatFraction(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	switch {
	case strings.HasPrefix(s, "0."):
		return s[1:]
	case strings.HasPrefix(s, "-0."):
		return "-" + s[2:]
	}
	return s
}

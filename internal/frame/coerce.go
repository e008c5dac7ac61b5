package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float coerces a decoded JSON cell to float64. Providers are inconsistent
// about numeric typing, so numbers and numeric strings are both accepted;
// anything else is an error the caller should treat as malformed data.
func Float(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", x.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", x)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("null where number expected")
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

// Int coerces a decoded JSON cell to int. JSON decoding delivers whole
// numbers as float64, so exact whole floats are accepted.
func Int(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("not an integer: %v", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", x.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", x)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("null where integer expected")
	default:
		return 0, fmt.Errorf("not an integer: %T", v)
	}
}

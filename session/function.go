package session

import (
	"fmt"
	"math"
	"strconv"
)

// Function is an engine-neutral scalar user-defined function.
type Function struct {
	Name   string
	Args   []DataType
	Result DataType

	// Deterministic functions always return the same result for the same
	// arguments.
	Deterministic bool

	// NullSafe functions are called with NULL arguments. Otherwise a NULL
	// argument yields NULL without calling Call.
	NullSafe bool

	Call func(args ...interface{}) (interface{}, error)
}

func (fn Function) validate() error {
	if err := validateIdentifier(fn.Name); err != nil {
		return err
	}
	if fn.Call == nil {
		return fmt.Errorf("function %s has no implementation", fn.Name)
	}
	if fn.Result == nil {
		return fmt.Errorf("function %s has no result type", fn.Name)
	}
	return nil
}

// invoke applies the NULL and arity rules shared by all backends and coerces
// the result to the Go type of fn.Result.
func (fn Function) invoke(args []interface{}) (interface{}, error) {
	if len(args) != len(fn.Args) {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", fn.Name, len(fn.Args), len(args))
	}
	values := make([]interface{}, len(args))
	for i, arg := range args {
		values[i] = normalizeValue(arg)
		if values[i] == nil && !fn.NullSafe {
			return nil, nil
		}
	}
	res, err := fn.Call(values...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}
	if res == nil {
		return nil, nil
	}
	return coerce(res, fn.Result)
}

// coerce converts v to the Go representation of dt.
func coerce(v interface{}, dt DataType) (interface{}, error) {
	switch dt.(type) {
	case LongType:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return n, nil
	case IntegerType:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("value %d overflows integer", n)
		}
		return int32(n), nil
	case DoubleType:
		switch val := v.(type) {
		case float64:
			return val, nil
		case float32:
			return float64(val), nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return float64(n), nil
	case StringType:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case BooleanType:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot use %T as boolean", v)
		}
		return b, nil
	default:
		return v, nil
	}
}

func toInt64(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows bigint", val)
		}
		return int64(val), nil
	case float64:
		return int64(val), nil
	case float32:
		return int64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseInt(val, 10, 64)
	default:
		return 0, fmt.Errorf("cannot use %T as integer", v)
	}
}

package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vegasq/logwrangle/session"
)

// Function represents a scalar helper that queries call by name
type Function interface {
	// Name returns the SQL name of the function
	Name() string
	// Signature returns the argument types and the result type
	Signature() (args []session.DataType, result session.DataType)
	// NullSafe reports whether Evaluate handles NULL arguments itself
	NullSafe() bool
	// Evaluate evaluates the function with the given arguments
	Evaluate(args []interface{}) (interface{}, error)
}

// Definition adapts f for session.RegisterFunction.
func Definition(f Function) session.Function {
	args, result := f.Signature()
	return session.Function{
		Name:          f.Name(),
		Args:          args,
		Result:        result,
		Deterministic: true,
		NullSafe:      f.NullSafe(),
		Call: func(values ...interface{}) (interface{}, error) {
			return f.Evaluate(values)
		},
	}
}

// FunctionRegistry manages function lookup and registration
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry creates a new function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Helpers returns a registry holding get_hour (in loc) and home_flag.
func Helpers(loc *time.Location) *FunctionRegistry {
	r := NewFunctionRegistry()
	r.Register(&GetHourFunc{Location: loc})
	r.Register(&HomeFlagFunc{})
	return r
}

// Register registers a function
func (r *FunctionRegistry) Register(f Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[strings.ToLower(f.Name())] = f
}

// Get retrieves a function by name (case-insensitive)
func (r *FunctionRegistry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, exists := r.functions[strings.ToLower(name)]
	return f, exists
}

// Names returns the registered function names in sorted order
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHourFunc returns the hour of day of an epoch-milliseconds timestamp
type GetHourFunc struct {
	// Location is the zone the hour is read in; nil means time.Local.
	Location *time.Location
}

func (f *GetHourFunc) Name() string { return "get_hour" }
func (f *GetHourFunc) Signature() ([]session.DataType, session.DataType) {
	return []session.DataType{session.DoubleType{}}, session.LongType{}
}
func (f *GetHourFunc) NullSafe() bool { return false }
// Evaluate returns the hour of day of an epoch-milliseconds timestamp.
func (f *GetHourFunc) Evaluate(args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("get_hour: expected 1 argument, got %d", len(args))
	}
	if args[0] == nil {
		return nil, nil
	}

	ms, err := valueToNumber(args[0])
	if err != nil {
		return nil, fmt.Errorf("get_hour: %w", err)
	}

	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return int64(time.UnixMilli(int64(math.Floor(ms))).In(loc).Hour()), nil
}

// HomeFlagFunc flags visits to the Home page with 1
type HomeFlagFunc struct{}

func (f *HomeFlagFunc) Name() string { return "home_flag" }
func (f *HomeFlagFunc) Signature() ([]session.DataType, session.DataType) {
	return []session.DataType{session.StringType{}}, session.IntegerType{}
}
func (f *HomeFlagFunc) NullSafe() bool { return true }
// Evaluate returns 1 for the Home page and 0 for anything else, NULL included.
func (f *HomeFlagFunc) Evaluate(args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("home_flag: expected 1 argument, got %d", len(args))
	}
	if page, ok := args[0].(string); ok && page == "Home" {
		return int32(1), nil
	}
	return int32(0), nil
}

// Helper function to convert value to number
func valueToNumber(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}

package session

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunction_Invoke(t *testing.T) {
	calls := 0
	echo := func(result DataType, nullSafe bool) Function {
		return Function{
			Name:     "echo",
			Args:     []DataType{StringType{}},
			Result:   result,
			NullSafe: nullSafe,
			Call: func(args ...interface{}) (interface{}, error) {
				calls++
				return args[0], nil
			},
		}
	}

	tests := []struct {
		name string
		fn   Function
		arg  interface{}
		want interface{}
	}{
		{"bytes become string", echo(StringType{}, false), []byte("Home"), "Home"},
		{"int to integer", echo(IntegerType{}, false), int64(7), int32(7)},
		{"int to long", echo(LongType{}, false), 7, int64(7)},
		{"numeric string to long", echo(LongType{}, false), "12", int64(12)},
		{"int to double", echo(DoubleType{}, false), int64(3), 3.0},
		{"big int", echo(LongType{}, false), big.NewInt(42), int64(42)},
		{"null skipped", echo(LongType{}, false), nil, nil},
		{"null passed", echo(LongType{}, true), nil, nil},
		{"nil bytes are null", echo(LongType{}, false), []byte(nil), nil},
		{"empty bytes are text", echo(StringType{}, false), []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn.invoke([]interface{}{tt.arg})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	calls = 0
	_, _ = echo(LongType{}, false).invoke([]interface{}{nil})
	assert.Equal(t, 0, calls, "null argument must short-circuit")
	_, _ = echo(LongType{}, false).invoke([]interface{}{[]byte(nil)})
	assert.Equal(t, 0, calls, "nil bytes must short-circuit")
	_, _ = echo(LongType{}, true).invoke([]interface{}{nil})
	assert.Equal(t, 1, calls)
}

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, normalizeValue([]byte(nil)))
	assert.Equal(t, "", normalizeValue([]byte{}))
	assert.Equal(t, "Home", normalizeValue([]byte("Home")))
	assert.Nil(t, normalizeValue((*big.Int)(nil)))
	assert.Equal(t, int64(5), normalizeValue(big.NewInt(5)))
	assert.Nil(t, normalizeValue(nil))
}

func TestFunction_InvokeErrors(t *testing.T) {
	boom := errors.New("boom")
	fn := Function{
		Name:   "fails",
		Args:   []DataType{LongType{}},
		Result: IntegerType{},
		Call: func(args ...interface{}) (interface{}, error) {
			if args[0] == int64(0) {
				return nil, boom
			}
			return args[0], nil
		},
	}

	_, err := fn.invoke([]interface{}{int64(1), int64(2)})
	assert.ErrorContains(t, err, "expected 1 argument(s), got 2")

	_, err = fn.invoke([]interface{}{int64(0)})
	assert.ErrorIs(t, err, boom)

	_, err = fn.invoke([]interface{}{int64(1) << 40})
	assert.ErrorContains(t, err, "overflows integer")
}

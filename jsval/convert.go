package jsval

import (
	"fmt"
	"math"

	"github.com/wippyai/jsembed/errors"
)

// maxSafeInteger is the largest integer a double represents exactly.
const maxSafeInteger = 1<<53 - 1

// FromGo converts a Go value into a Value.
// Integers that fit int32 become Int32; larger ones become Double when
// exactly representable. Strings need an engine to intern them and are
// rejected here.
func FromGo(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Boolean(v), nil
	case int:
		return fromInt64(int64(v))
	case int8:
		return Int32(v), nil
	case int16:
		return Int32(v), nil
	case int32:
		return Int32(v), nil
	case int64:
		return fromInt64(v)
	case uint:
		return fromUint64(uint64(v))
	case uint8:
		return Int32(v), nil
	case uint16:
		return Int32(v), nil
	case uint32:
		return fromUint64(uint64(v))
	case uint64:
		return fromUint64(v)
	case float32:
		return Double(v), nil
	case float64:
		return Double(v), nil
	case string:
		return nil, errors.TypeMismatch(errors.PhaseEncode, "string", "strings must be interned by an engine context")
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, fmt.Sprintf("%T", v), "no guest representation")
	}
}

func fromInt64(i int64) (Value, error) {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int32(i), nil
	}
	if i > maxSafeInteger || i < -maxSafeInteger {
		return nil, errors.Overflow(errors.PhaseEncode, i, "float64")
	}
	return Double(i), nil
}

func fromUint64(u uint64) (Value, error) {
	if u <= math.MaxInt32 {
		return Int32(u), nil
	}
	if u > maxSafeInteger {
		return nil, errors.Overflow(errors.PhaseEncode, u, "float64")
	}
	return Double(u), nil
}

// ToGo converts v into the closest Go value.
// Null and Undefined become nil; references are returned as-is.
func ToGo(v Value) any {
	switch v := v.(type) {
	case Double:
		return float64(v)
	case Int32:
		return int32(v)
	case Boolean:
		return bool(v)
	case Null, Undefined, nil:
		return nil
	default:
		return v
	}
}

// ToNumber converts primitive numeric-like values to float64.
func ToNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case Double:
		return float64(v), true
	case Int32:
		return float64(v), true
	case Boolean:
		if v {
			return 1, true
		}
		return 0, true
	case Null:
		return 0, true
	case Undefined:
		return math.NaN(), true
	default:
		return 0, false
	}
}

// Number returns the most compact Value for f: Int32 when f is integral and
// in range (and not negative zero), Double otherwise.
func Number(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 && !(f == 0 && math.Signbit(f)) {
		return Int32(int32(f))
	}
	return Double(f)
}

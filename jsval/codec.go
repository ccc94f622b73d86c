package jsval

import (
	"fmt"
	"math"

	"github.com/wippyai/jsembed/errors"
)

// Encode packs v into its word representation.
func Encode(v Value) (Word, error) {
	switch v := v.(type) {
	case Double:
		return DoubleWord(float64(v)), nil
	case Int32:
		return Int32Word(int32(v)), nil
	case Boolean:
		return BoolWord(bool(v)), nil
	case Null:
		return WordNull, nil
	case Undefined:
		return WordVoid, nil
	case StringRef:
		if uint64(v) > PayloadMask {
			return 0, handleOverflow(Handle(v), "jsval.StringRef")
		}
		return StringWord(Handle(v)), nil
	case ObjectRef:
		if uint64(v) > PayloadMask {
			return 0, handleOverflow(Handle(v), "jsval.ObjectRef")
		}
		return ObjectWord(Handle(v)), nil
	case nil:
		return 0, errors.InvalidInput(errors.PhaseEncode, "nil value")
	default:
		return 0, errors.TypeMismatch(errors.PhaseEncode, fmt.Sprintf("%T", v), "unknown value variant")
	}
}

// MustEncode is Encode for values known to be encodable. It panics on error.
func MustEncode(v Value) Word {
	w, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return w
}

// Decode unpacks w into exactly one Value variant.
func Decode(w Word) (Value, error) {
	if w.IsDouble() {
		return Double(math.Float64frombits(uint64(w))), nil
	}

	switch w.Type() {
	case TypeInt32:
		return Int32(w.Int32()), nil
	case TypeBoolean:
		return Boolean(w.Bool()), nil
	case TypeNull:
		return Null{}, nil
	case TypeUndefined:
		return Undefined{}, nil
	case TypeString:
		return StringRef(w.Handle()), nil
	case TypeObject:
		return ObjectRef(w.Handle()), nil
	case TypeMagic:
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Op("decode").
			Value(uint64(w)).
			Detail("magic value %#x is engine-internal", uint64(w)).
			Build()
	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Op("decode").
			Value(uint64(w)).
			Detail("unknown tag %#x", w.Tag()).
			Build()
	}
}

func handleOverflow(h Handle, goType string) error {
	return errors.New(errors.PhaseEncode, errors.KindOverflow).
		Op("encode").
		GoType(goType).
		Value(uint64(h)).
		Detail("handle %#x exceeds %d-bit payload", uint64(h), TagShift).
		Build()
}

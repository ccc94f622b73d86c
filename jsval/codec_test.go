package jsval

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/wippyai/jsembed/errors"
)

func TestRoundTrip_Inline(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"int32 zero", Int32(0)},
		{"int32 one", Int32(1)},
		{"int32 negative", Int32(-1)},
		{"int32 min", Int32(math.MinInt32)},
		{"int32 max", Int32(math.MaxInt32)},
		{"false", Boolean(false)},
		{"true", Boolean(true)},
		{"null", Null{}},
		{"undefined", Undefined{}},
		{"string handle", StringRef(42)},
		{"object handle", ObjectRef(7)},
		{"max object handle", ObjectRef(PayloadMask)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if w.IsDouble() {
				t.Fatalf("tagged value %v encoded as double bits %#x", tt.value, uint64(w))
			}
			got, err := Decode(w)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.value {
				t.Errorf("Decode(Encode(%v)) = %v", tt.value, got)
			}
			if got.Type() != w.Type() {
				t.Errorf("Type() = %v, word type = %v", got.Type(), w.Type())
			}
		})
	}
}

func TestRoundTrip_Int32Property(t *testing.T) {
	f := func(i int32) bool {
		got, err := Decode(MustEncode(Int32(i)))
		return err == nil && got == Int32(i)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRoundTrip_Doubles(t *testing.T) {
	bits := []uint64{
		0,
		math.Float64bits(math.Copysign(0, -1)),
		math.Float64bits(1.5),
		math.Float64bits(-2.25),
		math.Float64bits(math.MaxFloat64),
		math.Float64bits(math.SmallestNonzeroFloat64),
		math.Float64bits(math.Inf(1)),
		math.Float64bits(math.Inf(-1)),
		math.Float64bits(math.NaN()),
		CanonicalNaN,
		0x7FF0000000000001, // signaling NaN
		0x7FFFFFFFFFFFFFFF,
		0xFFF8000000000000, // negative quiet NaN sits exactly on TagMaxDouble
		0xFFF0000000000001,
	}

	for _, b := range bits {
		d := Double(math.Float64frombits(b))
		w, err := Encode(d)
		if err != nil {
			t.Fatalf("Encode(%#x): %v", b, err)
		}
		if uint64(w) != b {
			t.Errorf("Encode(%#x) = %#x, want bits unchanged", b, uint64(w))
		}
		if !w.IsDouble() {
			t.Errorf("%#x decoded as tagged type %v", b, w.Type())
		}
		got, err := Decode(w)
		if err != nil {
			t.Fatalf("Decode(%#x): %v", b, err)
		}
		gd, ok := got.(Double)
		if !ok {
			t.Fatalf("Decode(%#x) = %T, want Double", b, got)
		}
		if math.Float64bits(float64(gd)) != b {
			t.Errorf("Decode(Encode(%#x)) = %#x", b, math.Float64bits(float64(gd)))
		}
	}
}

func TestRoundTrip_DoubleProperty(t *testing.T) {
	f := func(b uint64) bool {
		if b>>TagShift > TagMaxDouble {
			return true // reserved band, covered by TestEncode_ReservedNaN
		}
		w := MustEncode(Double(math.Float64frombits(b)))
		return w.IsDouble() && uint64(w) == b
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 5000}); err != nil {
		t.Error(err)
	}
}

func TestEncode_ReservedNaN(t *testing.T) {
	for _, b := range []uint64{0xFFF9000000000000, 0xFFFB800000000001, 0xFFFFFFFFFFFFFFFF} {
		d := Double(math.Float64frombits(b))
		if !math.IsNaN(float64(d)) {
			t.Fatalf("%#x is not a NaN", b)
		}
		w := MustEncode(d)
		if uint64(w) != CanonicalNaN {
			t.Errorf("Encode(%#x) = %#x, want canonical NaN", b, uint64(w))
		}
		if !w.IsDouble() {
			t.Errorf("canonicalized %#x not a double", b)
		}
	}
}

func TestCanonicalConstants(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  Word
	}{
		{"null", Null{}, WordNull},
		{"undefined", Undefined{}, WordVoid},
		{"zero", Int32(0), WordZero},
		{"one", Int32(1), WordOne},
		{"false", Boolean(false), WordFalse},
		{"true", Boolean(true), WordTrue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustEncode(tt.value)
			if got != tt.want {
				t.Errorf("Encode(%v) = %#x, want %#x", tt.value, uint64(got), uint64(tt.want))
			}
		})
	}
}

func TestLayout_BitExact(t *testing.T) {
	tests := []struct {
		name string
		word Word
		want uint64
	}{
		{"void", WordVoid, 0xFFF9000000000000},
		{"null", WordNull, 0xFFFB000000000000},
		{"zero", WordZero, 0xFFF8800000000000},
		{"one", WordOne, 0xFFF8800000000001},
		{"false", WordFalse, 0xFFF9800000000000},
		{"true", WordTrue, 0xFFF9800000000001},
		{"string 1", StringWord(1), 0xFFFA800000000001},
		{"object 1", ObjectWord(1), 0xFFFB800000000001},
		{"int32 -1", Int32Word(-1), 0xFFF88000FFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint64(tt.word) != tt.want {
				t.Errorf("word = %#x, want %#x", uint64(tt.word), tt.want)
			}
		})
	}
}

func TestTagShiftMaskInverse(t *testing.T) {
	if TagShift+17 != 64 {
		t.Fatalf("tag band is %d bits, want 17", 64-TagShift)
	}
	if PayloadMask>>TagShift != 0 || (PayloadMask+1)>>TagShift != 1 {
		t.Fatalf("PayloadMask %#x does not end at TagShift", PayloadMask)
	}

	types := []Type{TypeInt32, TypeUndefined, TypeBoolean, TypeMagic, TypeString, TypeNull, TypeObject}
	payloads := []uint64{0, 1, 0xFFFFFFFF, PayloadMask}
	for _, typ := range types {
		for _, p := range payloads {
			w := ShiftedTag(typ) | Word(p)
			if w.Tag() != Tag(typ) {
				t.Errorf("Tag(%v|%#x) = %#x, want %#x", typ, p, w.Tag(), Tag(typ))
			}
			if w.Payload() != p {
				t.Errorf("Payload(%v|%#x) = %#x", typ, p, w.Payload())
			}
			if w.Type() != typ {
				t.Errorf("Type(%v|%#x) = %v", typ, p, w.Type())
			}
			if w.IsDouble() {
				t.Errorf("tagged word %#x reported as double", uint64(w))
			}
		}
	}
}

func TestEncode_HandleOverflow(t *testing.T) {
	for _, v := range []Value{ObjectRef(PayloadMask + 1), StringRef(1 << 60)} {
		_, err := Encode(v)
		if err == nil {
			t.Fatalf("Encode(%v) should fail", v)
		}
		if errors.KindOf(err) != errors.KindOverflow {
			t.Errorf("kind = %v, want overflow", errors.KindOf(err))
		}
	}
}

func TestEncode_Nil(t *testing.T) {
	if _, err := Encode(nil); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("Encode(nil) err = %v, want invalid input", err)
	}
}

func TestDecode_Reserved(t *testing.T) {
	magic := ShiftedTag(TypeMagic) | 3
	if _, err := Decode(magic); errors.KindOf(err) != errors.KindUnsupported {
		t.Errorf("Decode(magic) err = %v, want unsupported", err)
	}

	bad := Word(0xFFFF800000000000)
	if _, err := Decode(bad); errors.KindOf(err) != errors.KindInvalidData {
		t.Errorf("Decode(%#x) err = %v, want invalid data", uint64(bad), err)
	}
}

func TestWord_Predicates(t *testing.T) {
	obj := ObjectWord(5)
	str := StringWord(5)

	if obj.IsPrimitive() || !obj.IsObject() {
		t.Error("object word must be non-primitive")
	}
	for _, w := range []Word{WordNull, WordVoid, WordTrue, WordZero, str, DoubleWord(3.5), DoubleWord(math.NaN())} {
		if !w.IsPrimitive() {
			t.Errorf("%#x should be primitive", uint64(w))
		}
		if w.IsObject() {
			t.Errorf("%#x should not be an object", uint64(w))
		}
	}
	if !WordNull.IsNullOrUndefined() || !WordVoid.IsNullOrUndefined() || WordFalse.IsNullOrUndefined() {
		t.Error("IsNullOrUndefined mismatch")
	}
	if !WordOne.IsNumber() || !DoubleWord(2).IsNumber() || str.IsNumber() {
		t.Error("IsNumber mismatch")
	}
	if obj.Handle() != 5 || str.Handle() != 5 {
		t.Error("Handle payload mismatch")
	}
	if !IsPrimitive(Int32(1)) || IsPrimitive(ObjectRef(1)) {
		t.Error("IsPrimitive(Value) mismatch")
	}
}

func TestWord_UnassignedTagsArePrimitive(t *testing.T) {
	for tag := Tag(TypeObject) + 1; tag <= 0x1FFFF; tag++ {
		w := Word(tag<<TagShift | 5)
		if w.IsObject() {
			t.Errorf("tag %#x: IsObject = true", tag)
		}
		if !w.IsPrimitive() {
			t.Errorf("tag %#x: IsPrimitive = false", tag)
		}
	}
}

package jsval

import "math"

// Word is the raw 64-bit representation of a guest value.
type Word uint64

// Type is the type code stored in the tag band of a non-double word.
type Type uint8

const (
	TypeDouble    Type = 0x00
	TypeInt32     Type = 0x01
	TypeUndefined Type = 0x02
	TypeBoolean   Type = 0x03
	TypeMagic     Type = 0x04
	TypeString    Type = 0x05
	TypeNull      Type = 0x06
	TypeObject    Type = 0x07
	TypeUnknown   Type = 0x20
)

const (
	// TagShift is the bit position where the tag band starts.
	TagShift = 47

	// TagMaxDouble is the largest tag that still denotes a double.
	TagMaxDouble uint64 = 0x1FFF0

	// PayloadMask selects the low bits holding an inline payload or handle.
	PayloadMask uint64 = 1<<TagShift - 1

	// TypeMask selects the type code from a tag above TagMaxDouble.
	TypeMask uint64 = 0xF

	// CanonicalNaN replaces doubles whose bits fall into the tag band.
	CanonicalNaN uint64 = 0x7FF8000000000000
)

// Tag returns the tag for t.
func Tag(t Type) uint64 {
	return TagMaxDouble | uint64(t)
}

// ShiftedTag returns the tag for t moved into position.
func ShiftedTag(t Type) Word {
	return Word(Tag(t) << TagShift)
}

// Canonical words. Each equals Encode of the matching Value.
const (
	WordVoid  = Word((TagMaxDouble | uint64(TypeUndefined)) << TagShift)
	WordNull  = Word((TagMaxDouble | uint64(TypeNull)) << TagShift)
	WordZero  = Word((TagMaxDouble | uint64(TypeInt32)) << TagShift)
	WordOne   = Word((TagMaxDouble|uint64(TypeInt32))<<TagShift | 1)
	WordFalse = Word((TagMaxDouble | uint64(TypeBoolean)) << TagShift)
	WordTrue  = Word((TagMaxDouble|uint64(TypeBoolean))<<TagShift | 1)
)

// Tag returns the top 17 bits of w.
func (w Word) Tag() uint64 {
	return uint64(w) >> TagShift
}

// Payload returns the low 47 bits of w.
func (w Word) Payload() uint64 {
	return uint64(w) & PayloadMask
}

// IsDouble reports whether w holds a double.
func (w Word) IsDouble() bool {
	return w.Tag() <= TagMaxDouble
}

// Type returns the type code of w; TypeDouble for doubles.
func (w Word) Type() Type {
	if w.IsDouble() {
		return TypeDouble
	}
	return Type(w.Tag() & TypeMask)
}

func (w Word) IsInt32() bool     { return !w.IsDouble() && w.Type() == TypeInt32 }
func (w Word) IsBoolean() bool   { return !w.IsDouble() && w.Type() == TypeBoolean }
func (w Word) IsNull() bool      { return !w.IsDouble() && w.Type() == TypeNull }
func (w Word) IsUndefined() bool { return !w.IsDouble() && w.Type() == TypeUndefined }
func (w Word) IsString() bool    { return !w.IsDouble() && w.Type() == TypeString }
func (w Word) IsObject() bool    { return w.Tag() == Tag(TypeObject) }

// IsNumber reports whether w is a double or an int32.
func (w Word) IsNumber() bool {
	return w.IsDouble() || w.IsInt32()
}

// IsPrimitive reports whether w is anything other than an object reference.
// Words in the unassigned tags above Object count as primitive, so they are
// never mistaken for a handle.
func (w Word) IsPrimitive() bool {
	return !w.IsObject()
}

// IsNullOrUndefined reports whether w is null or undefined.
func (w Word) IsNullOrUndefined() bool {
	return w.IsNull() || w.IsUndefined()
}

// Float64 reinterprets w as a double. Only meaningful when IsDouble.
func (w Word) Float64() float64 {
	return math.Float64frombits(uint64(w))
}

// Int32 returns the inline integer payload. Only meaningful when IsInt32.
func (w Word) Int32() int32 {
	return int32(uint32(w))
}

// Bool returns the inline boolean payload. Only meaningful when IsBoolean.
func (w Word) Bool() bool {
	return w.Payload() != 0
}

// Handle returns the reference payload. Only meaningful for strings and objects.
func (w Word) Handle() Handle {
	return Handle(w.Payload())
}

// ObjectWord builds an object word without range checks; h must fit PayloadMask.
func ObjectWord(h Handle) Word {
	return ShiftedTag(TypeObject) | Word(uint64(h)&PayloadMask)
}

// StringWord builds a string word without range checks; h must fit PayloadMask.
func StringWord(h Handle) Word {
	return ShiftedTag(TypeString) | Word(uint64(h)&PayloadMask)
}

// Int32Word builds an int32 word.
func Int32Word(i int32) Word {
	return ShiftedTag(TypeInt32) | Word(uint32(i))
}

// BoolWord builds a boolean word.
func BoolWord(b bool) Word {
	if b {
		return WordTrue
	}
	return WordFalse
}

// DoubleWord builds a double word, canonicalizing NaNs in the tag band.
func DoubleWord(f float64) Word {
	bits := math.Float64bits(f)
	if bits>>TagShift > TagMaxDouble {
		return Word(CanonicalNaN)
	}
	return Word(bits)
}

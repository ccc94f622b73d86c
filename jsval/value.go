package jsval

import (
	"fmt"
	"strconv"
)

// Handle identifies a string or object in the engine heap. Zero is null.
type Handle uint64

// Value is a decoded guest value. The set of implementations is closed.
type Value interface {
	Type() Type
	String() string
	isValue()
}

type (
	Double    float64
	Int32     int32
	Boolean   bool
	Null      struct{}
	Undefined struct{}
	StringRef Handle
	ObjectRef Handle
)

func (Double) Type() Type    { return TypeDouble }
func (Int32) Type() Type     { return TypeInt32 }
func (Boolean) Type() Type   { return TypeBoolean }
func (Null) Type() Type      { return TypeNull }
func (Undefined) Type() Type { return TypeUndefined }
func (StringRef) Type() Type { return TypeString }
func (ObjectRef) Type() Type { return TypeObject }

func (d Double) String() string    { return strconv.FormatFloat(float64(d), 'g', -1, 64) }
func (i Int32) String() string     { return strconv.FormatInt(int64(i), 10) }
func (b Boolean) String() string   { return strconv.FormatBool(bool(b)) }
func (Null) String() string        { return "null" }
func (Undefined) String() string   { return "undefined" }
func (s StringRef) String() string { return fmt.Sprintf("string@%#x", uint64(s)) }
func (o ObjectRef) String() string { return fmt.Sprintf("object@%#x", uint64(o)) }

func (Double) isValue()    {}
func (Int32) isValue()     {}
func (Boolean) isValue()   {}
func (Null) isValue()      {}
func (Undefined) isValue() {}
func (StringRef) isValue() {}
func (ObjectRef) isValue() {}

// IsPrimitive reports whether v is anything other than an object reference.
func IsPrimitive(v Value) bool {
	_, ok := v.(ObjectRef)
	return !ok
}

package engine

// ClassFlags describe the shape of objects of a class. Bits 8..15 carry the
// reserved slot count.
type ClassFlags uint32

const (
	ClassHasPrivate ClassFlags = 1 << 0

	ClassReservedSlotsShift = 8
	ClassReservedSlotsWidth = 8
	ClassReservedSlotsMask  = 1<<ClassReservedSlotsWidth - 1

	ClassHighFlagsShift = ClassReservedSlotsShift + ClassReservedSlotsWidth

	ClassIsGlobal ClassFlags = 1 << (ClassHighFlagsShift + 1)
)

// Proto identifies a standard prototype stored in a global object's slots.
type Proto uint8

const (
	ProtoNull Proto = iota
	ProtoObject
	ProtoFunction
	ProtoArray
	ProtoBoolean
	ProtoJSON
	ProtoMath
	ProtoNumber
	ProtoString
	ProtoError
	ProtoLimit
)

var protoNames = [ProtoLimit]string{
	ProtoNull:     "Null",
	ProtoObject:   "Object",
	ProtoFunction: "Function",
	ProtoArray:    "Array",
	ProtoBoolean:  "Boolean",
	ProtoJSON:     "JSON",
	ProtoMath:     "Math",
	ProtoNumber:   "Number",
	ProtoString:   "String",
	ProtoError:    "Error",
}

func (p Proto) String() string {
	if p < ProtoLimit {
		return protoNames[p]
	}
	return "Proto(?)"
}

// Global objects hold one constructor, one prototype, and one init slot per
// standard class, plus engine-private slots.
const (
	ClassGlobalSlotCount = int(ProtoLimit)*3 + 24

	ClassGlobalFlags = ClassIsGlobal | ClassFlags((ClassGlobalSlotCount&ClassReservedSlotsMask)<<ClassReservedSlotsShift)
)

// HasReservedSlots encodes n reserved slots into class flags.
func HasReservedSlots(n uint32) ClassFlags {
	return ClassFlags((n & ClassReservedSlotsMask) << ClassReservedSlotsShift)
}

// ReservedSlots returns the reserved slot count encoded in f.
func (f ClassFlags) ReservedSlots() uint32 {
	return uint32(f>>ClassReservedSlotsShift) & ClassReservedSlotsMask
}

// Class is an object class. Hosts define their own and pass pointers; the
// engine compares classes by pointer.
type Class struct {
	Name  string
	Flags ClassFlags
}

func (c *Class) HasPrivate() bool { return c.Flags&ClassHasPrivate != 0 }
func (c *Class) IsGlobal() bool   { return c.Flags&ClassIsGlobal != 0 }

// GlobalClass is the class hosts use for a plain global object.
var GlobalClass = &Class{
	Name:  "global",
	Flags: ClassGlobalFlags | ClassHasPrivate,
}

// Built-in classes. Wrapper classes keep the boxed primitive in slot 0.
var (
	ObjectClass   = &Class{Name: "Object"}
	FunctionClass = &Class{Name: "Function"}
	ArrayClass    = &Class{Name: "Array"}
	BooleanClass  = &Class{Name: "Boolean", Flags: HasReservedSlots(1)}
	NumberClass   = &Class{Name: "Number", Flags: HasReservedSlots(1)}
	StringClass   = &Class{Name: "String", Flags: HasReservedSlots(1)}
	MathClass     = &Class{Name: "Math"}
	JSONClass     = &Class{Name: "JSON"}
	ErrorClass    = &Class{Name: "Error"}
)

var protoClasses = [ProtoLimit]*Class{
	ProtoObject:   ObjectClass,
	ProtoFunction: FunctionClass,
	ProtoArray:    ArrayClass,
	ProtoBoolean:  BooleanClass,
	ProtoJSON:     JSONClass,
	ProtoMath:     MathClass,
	ProtoNumber:   NumberClass,
	ProtoString:   StringClass,
	ProtoError:    ErrorClass,
}

// Global slot layout.
func ctorSlot(p Proto) int  { return int(p) }
func protoSlot(p Proto) int { return int(ProtoLimit) + int(p) }

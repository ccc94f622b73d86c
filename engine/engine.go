package engine

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
)

const (
	// MinHeapSize is the smallest budget NewRuntime accepts.
	MinHeapSize = 4096

	// MinStackSize is the smallest stack chunk NewContext accepts: room for
	// a frame with a few arguments.
	MinStackSize = 64
)

// Engine is the entry point of the embedded engine. Handles are returned as
// nil or zero on failure and statuses as bool, the way a C embedding API
// reports them; the runtime package turns those into errors.
type Engine struct{}

// New returns an engine.
func New() *Engine {
	return &Engine{}
}

// NewRuntime creates a runtime with a heap budget of maxBytes. It returns
// nil when the budget is below MinHeapSize.
func (e *Engine) NewRuntime(maxBytes uint32) *Runtime {
	if maxBytes < MinHeapSize {
		Logger().Debug("runtime refused", zap.Uint32("max_bytes", maxBytes))
		return nil
	}
	rt := &Runtime{
		maxBytes: maxBytes,
		contexts: make(map[*Context]struct{}),
		roots:    make(map[*jsval.Word]struct{}),
	}
	Logger().Debug("runtime created", zap.Uint32("max_bytes", maxBytes))
	return rt
}

// DestroyRuntime destroys every remaining context and frees the heap.
func (e *Engine) DestroyRuntime(rt *Runtime) {
	if rt == nil || rt.destroyed {
		return
	}
	for cx := range rt.contexts {
		cx.destroyed = true
	}
	Logger().Debug("runtime destroyed",
		zap.Int("contexts", len(rt.contexts)),
		zap.Int("roots", len(rt.roots)),
		zap.Int("gcs", rt.gcs))
	rt.contexts = nil
	rt.roots = nil
	rt.heap.reset()
	rt.destroyed = true
}

func (e *Engine) LockRuntime(rt *Runtime)   { rt.Lock() }
func (e *Engine) UnlockRuntime(rt *Runtime) { rt.Unlock() }

// NewContext creates a context whose stack holds stackSize bytes of frames.
func (e *Engine) NewContext(rt *Runtime, stackSize uint32) *Context {
	if rt == nil || rt.destroyed || stackSize < MinStackSize {
		return nil
	}
	cx := &Context{
		rt:    rt,
		stack: newStackMemory(stackSize &^ 7),
	}
	rt.contexts[cx] = struct{}{}
	Logger().Debug("context created", zap.Uint32("stack_size", stackSize))
	return cx
}

// DestroyContext detaches cx from its runtime and collects what only cx
// kept alive.
func (e *Engine) DestroyContext(cx *Context) {
	if cx == nil || cx.destroyed {
		return
	}
	cx.destroyed = true
	rt := cx.rt
	if rt.destroyed {
		return
	}
	delete(rt.contexts, cx)
	cx.global = 0
	rt.collect()
	Logger().Debug("context destroyed", zap.Int("live", rt.heap.live()))
}

func (e *Engine) usable(cx *Context) bool {
	return cx != nil && !cx.destroyed && !cx.rt.destroyed
}

// NewGlobalObject creates an object of a global class. The first global
// created in a context becomes its global object. Returns 0 if class is not
// a global class.
func (e *Engine) NewGlobalObject(cx *Context, class *Class) jsval.Handle {
	if !e.usable(cx) || class == nil || !class.IsGlobal() {
		return 0
	}
	if class.Flags.ReservedSlots() < uint32(ClassGlobalSlotCount) {
		return 0
	}
	h := cx.rt.newObject(class, 0, 0)
	if h != 0 && cx.global == 0 {
		cx.global = h
	}
	return h
}

// GlobalObject returns the context's global object.
func (e *Engine) GlobalObject(cx *Context) jsval.Handle {
	if !e.usable(cx) {
		return 0
	}
	return cx.global
}

// SetGlobalObject replaces the context's global object.
func (e *Engine) SetGlobalObject(cx *Context, obj jsval.Handle) bool {
	if !e.usable(cx) {
		return false
	}
	o := cx.rt.heap.object(obj)
	if o == nil || !o.class.IsGlobal() {
		return false
	}
	cx.global = obj
	return true
}

// InitStandardClasses installs the standard prototypes and constants on a
// global object. The object becomes the context's global if it has none.
func (e *Engine) InitStandardClasses(cx *Context, obj jsval.Handle) bool {
	if !e.usable(cx) {
		return false
	}
	g := cx.rt.heap.object(obj)
	if g == nil || !g.class.IsGlobal() || len(g.slots) < ClassGlobalSlotCount {
		return false
	}
	if cx.global == 0 {
		cx.global = obj
	}

	objectProto := cx.rt.newObject(ObjectClass, 0, obj)
	if objectProto == 0 {
		return false
	}
	g.proto = objectProto
	g.slots[protoSlot(ProtoObject)] = jsval.ObjectWord(objectProto)

	for p := ProtoObject; p < ProtoLimit; p++ {
		proto := objectProto
		if p != ProtoObject {
			proto = cx.rt.newObject(ObjectClass, objectProto, obj)
			if proto == 0 {
				return false
			}
			g.slots[protoSlot(p)] = jsval.ObjectWord(proto)
		}

		ctor := cx.rt.newObject(protoClasses[p], proto, obj)
		if ctor == 0 {
			return false
		}
		g.slots[ctorSlot(p)] = jsval.ObjectWord(ctor)
		if !e.DefineProperty(cx, obj, p.String(), jsval.ObjectWord(ctor), 0) {
			return false
		}
	}

	constants := []struct {
		name  string
		value jsval.Word
	}{
		{"undefined", jsval.WordVoid},
		{"NaN", jsval.DoubleWord(math.NaN())},
		{"Infinity", jsval.DoubleWord(math.Inf(1))},
	}
	for _, c := range constants {
		if !e.DefineProperty(cx, obj, c.name, c.value, native.AttrReadonly) {
			return false
		}
	}
	return true
}

// SetOptions replaces the context options and returns the previous ones.
func (e *Engine) SetOptions(cx *Context, o Options) Options {
	prev := cx.options
	cx.options = o
	return prev
}

func (e *Engine) GetOptions(cx *Context) Options {
	return cx.options
}

// SetVersion selects the language version and returns the previous one.
func (e *Engine) SetVersion(cx *Context, v Version) Version {
	prev := cx.version
	cx.version = v
	return prev
}

func (e *Engine) GetVersion(cx *Context) Version {
	return cx.version
}

// SetErrorReporter installs fn and returns the previous reporter.
func (e *Engine) SetErrorReporter(cx *Context, fn ErrorReporter) ErrorReporter {
	prev := cx.reporter
	cx.reporter = fn
	return prev
}

// DefineFunctions creates a function object per descriptor and defines it on
// obj. The engine keeps each descriptor, including its name pointer, for as
// long as the function object lives.
func (e *Engine) DefineFunctions(cx *Context, obj jsval.Handle, fs []native.FunctionSpec) bool {
	if !e.usable(cx) || cx.rt.heap.object(obj) == nil {
		return false
	}
	for i := range fs {
		spec := fs[i]
		if spec.Call == nil || spec.NameRef() == nil {
			return false
		}
		if !e.defineFunction(cx, obj, &spec) {
			return false
		}
	}
	return true
}

// defineFunction allocates the function object for spec and stores it on
// obj. The object is held until the property refers to it, since storing
// the property may collect.
func (e *Engine) defineFunction(cx *Context, obj jsval.Handle, spec *native.FunctionSpec) bool {
	fn := cx.rt.newObject(FunctionClass, cx.standardProto(ProtoFunction), obj)
	if fn == 0 {
		return false
	}
	cx.rt.heap.object(fn).fn = spec
	defer cx.release(cx.hold(fn))
	return e.DefineProperty(cx, obj, spec.Name(), jsval.ObjectWord(fn), spec.Flags)
}

// PropertySpec describes one property for DefineProperties.
type PropertySpec struct {
	Name  string
	Value jsval.Word
	Attrs native.Attrs
}

// DefineProperty defines or replaces name on obj. Read-only properties
// cannot be replaced.
func (e *Engine) DefineProperty(cx *Context, obj jsval.Handle, name string, v jsval.Word, attrs native.Attrs) bool {
	if !e.usable(cx) {
		return false
	}
	o := cx.rt.heap.object(obj)
	if o == nil {
		return false
	}
	if p, ok := o.props[name]; ok {
		if p.attrs&native.AttrReadonly != 0 {
			return false
		}
		p.value, p.attrs = v, attrs
		return true
	}
	if !cx.rt.reserve(propertyCost) {
		return false
	}
	// reserve may have collected; obj itself must still be reachable.
	if cx.rt.heap.object(obj) != o {
		return false
	}
	o.props[name] = &property{value: v, attrs: attrs}
	o.keys = append(o.keys, name)
	cx.rt.heap.charge(obj, propertyCost)
	return true
}

// DefineProperties defines each spec in order, stopping at the first
// failure.
func (e *Engine) DefineProperties(cx *Context, obj jsval.Handle, ps []PropertySpec) bool {
	for _, p := range ps {
		if !e.DefineProperty(cx, obj, p.Name, p.Value, p.Attrs) {
			return false
		}
	}
	return true
}

// GetProperty reads name from obj or its prototypes. Missing properties read
// as undefined.
func (e *Engine) GetProperty(cx *Context, obj jsval.Handle, name string, vp *jsval.Word) bool {
	if !e.usable(cx) || vp == nil || cx.rt.heap.object(obj) == nil {
		return false
	}
	if p, ok := cx.lookup(obj, name); ok {
		*vp = p.value
	} else {
		*vp = jsval.WordVoid
	}
	return true
}

// PropertyNames lists the own property names of obj in definition order.
func (e *Engine) PropertyNames(cx *Context, obj jsval.Handle) []string {
	o := cx.rt.heap.object(obj)
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// NewObject creates an object of class (ObjectClass when nil). A zero proto
// selects the standard Object prototype.
func (e *Engine) NewObject(cx *Context, class *Class, proto, parent jsval.Handle) jsval.Handle {
	if !e.usable(cx) {
		return 0
	}
	if class == nil {
		class = ObjectClass
	}
	if proto == 0 {
		proto = cx.standardProto(ProtoObject)
	}
	if parent == 0 {
		parent = cx.global
	}
	return cx.rt.newObject(class, proto, parent)
}

// ObjectClassOf returns the class of obj, or nil.
func (e *Engine) ObjectClassOf(cx *Context, obj jsval.Handle) *Class {
	o := cx.rt.heap.object(obj)
	if o == nil {
		return nil
	}
	return o.class
}

// NewStringCopyN copies s into the heap.
func (e *Engine) NewStringCopyN(cx *Context, s string) jsval.Handle {
	if !e.usable(cx) {
		return 0
	}
	return cx.rt.newString(strings.Clone(s))
}

// EncodeString returns the contents of a string handle.
func (e *Engine) EncodeString(cx *Context, str jsval.Handle) (string, bool) {
	if !e.usable(cx) {
		return "", false
	}
	return cx.rt.heap.string(str)
}

// ValueToString converts v to a string and returns its handle.
func (e *Engine) ValueToString(cx *Context, v jsval.Word) jsval.Handle {
	if !e.usable(cx) {
		return 0
	}
	if v.IsString() {
		if _, ok := cx.rt.heap.string(v.Handle()); !ok {
			return 0
		}
		return v.Handle()
	}
	s, ok := e.stringify(cx, v)
	if !ok {
		return 0
	}
	return cx.rt.newString(s)
}

func (e *Engine) stringify(cx *Context, v jsval.Word) (string, bool) {
	switch {
	case v.IsDouble():
		return formatNumber(v.Float64()), true
	case v.IsInt32():
		return strconv.Itoa(int(v.Int32())), true
	case v.IsBoolean():
		return strconv.FormatBool(v.Bool()), true
	case v.IsNull():
		return "null", true
	case v.IsUndefined():
		return "undefined", true
	case v.IsString():
		return cx.rt.heap.string(v.Handle())
	case v.IsObject():
		o := cx.rt.heap.object(v.Handle())
		if o == nil {
			return "", false
		}
		if o.fn != nil {
			return "function " + o.fn.Name() + "() {\n    [native code]\n}", true
		}
		if len(o.slots) == 1 && o.class != ObjectClass && o.slots[0].IsPrimitive() && !o.slots[0].IsUndefined() {
			return e.stringify(cx, o.slots[0])
		}
		return "[object " + o.class.Name + "]", true
	}
	return "", false
}

// formatNumber renders f the way the language prints numbers.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CallFunctionName looks name up on obj and calls it with obj as receiver.
// The result is stored in rval on success.
func (e *Engine) CallFunctionName(cx *Context, obj jsval.Handle, name string, args []jsval.Word, rval *jsval.Word) bool {
	if !e.usable(cx) {
		return false
	}
	if cx.rt.heap.object(obj) == nil {
		cx.ReportError("cannot call " + name + " on a dead object")
		cx.flushPending()
		return false
	}
	p, ok := cx.lookup(obj, name)
	if !ok || !p.value.IsObject() {
		cx.ReportError(name + " is not a function")
		cx.flushPending()
		return false
	}
	return cx.call(jsval.ObjectWord(obj), p.value.Handle(), args, rval)
}

// CallFunctionValue calls fn with an arbitrary receiver word. A primitive
// receiver reaches the native as is; natives resolve it with ComputeThis.
func (e *Engine) CallFunctionValue(cx *Context, this, fn jsval.Word, args []jsval.Word, rval *jsval.Word) bool {
	if !e.usable(cx) {
		return false
	}
	if !fn.IsObject() {
		cx.ReportError("value is not a function")
		cx.flushPending()
		return false
	}
	return cx.call(this, fn.Handle(), args, rval)
}

// ComputeThis resolves the receiver of the frame at vp.
func (e *Engine) ComputeThis(cx *Context, vp uint32) (jsval.Word, bool) {
	return cx.ComputeThis(vp)
}

// AddObjectRoot registers the slot rp as a root: whatever it refers to at
// collection time stays alive. Adding the same slot twice is a no-op.
func (e *Engine) AddObjectRoot(cx *Context, rp *jsval.Word) bool {
	if !e.usable(cx) || rp == nil {
		return false
	}
	cx.rt.roots[rp] = struct{}{}
	return true
}

// RemoveObjectRoot unregisters rp. It fails for a slot that is not rooted.
func (e *Engine) RemoveObjectRoot(cx *Context, rp *jsval.Word) bool {
	if !e.usable(cx) || rp == nil {
		return false
	}
	if _, ok := cx.rt.roots[rp]; !ok {
		return false
	}
	delete(cx.rt.roots, rp)
	return true
}

func (e *Engine) SetContextPrivate(cx *Context, p uint64) {
	cx.private = p
}

func (e *Engine) GetContextPrivate(cx *Context) uint64 {
	return cx.private
}

// SetPrivate stores p on obj. The object's class must have ClassHasPrivate.
func (e *Engine) SetPrivate(cx *Context, obj jsval.Handle, p uint64) bool {
	if !e.usable(cx) {
		return false
	}
	o := cx.rt.heap.object(obj)
	if o == nil || !o.class.HasPrivate() {
		return false
	}
	o.private = p
	return true
}

// GetPrivate returns the private value of obj, or 0.
func (e *Engine) GetPrivate(cx *Context, obj jsval.Handle) uint64 {
	if !e.usable(cx) {
		return 0
	}
	o := cx.rt.heap.object(obj)
	if o == nil || !o.class.HasPrivate() {
		return 0
	}
	return o.private
}

// GC runs a full collection of the context's runtime.
func (e *Engine) GC(cx *Context) {
	if !e.usable(cx) {
		return
	}
	cx.rt.collect()
}

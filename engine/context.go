package engine

import (
	"fmt"

	jsembed "github.com/wippyai/jsembed"
	"github.com/wippyai/jsembed/frame"
	"github.com/wippyai/jsembed/jsval"
)

// Context is an execution context: a stack for call frames, a global
// object, options, and error reporting state. A context belongs to one
// runtime and must only be used by one goroutine at a time.
type Context struct {
	rt    *Runtime
	stack *StackMemory
	sp    uint32
	depth int

	global   jsval.Handle
	options  Options
	version  Version
	reporter ErrorReporter
	private  uint64

	// temps keeps handles not yet stored anywhere the collector scans.
	// enter truncates it back when a call returns.
	temps []jsval.Handle

	// current names the native being called, for error reports.
	current     string
	pending     string
	pendingFrom string
	hasPending  bool

	destroyed bool
}

// Runtime returns the owning runtime.
func (cx *Context) Runtime() *Runtime { return cx.rt }

// Memory returns the stack buffer frames are laid into.
func (cx *Context) Memory() jsembed.Memory { return cx.stack }

// Global returns the context's global object, or 0 before one is set.
func (cx *Context) Global() jsval.Handle { return cx.global }

// Depth returns the number of native calls currently on the stack.
func (cx *Context) Depth() int { return cx.depth }

// NewString interns s in the runtime heap.
func (cx *Context) NewString(s string) (jsval.Word, bool) {
	h := cx.rt.newString(s)
	if h == 0 {
		return 0, false
	}
	return jsval.StringWord(h), true
}

// StringValue returns the contents of a string word.
func (cx *Context) StringValue(w jsval.Word) (string, bool) {
	if !w.IsString() {
		return "", false
	}
	return cx.rt.heap.string(w.Handle())
}

// ComputeThis materializes the receiver of the frame at vp and stores it
// back into the receiver slot.
func (cx *Context) ComputeThis(vp uint32) (jsval.Word, bool) {
	w, err := frame.Receiver(cx.stack, vp)
	if err != nil {
		return 0, false
	}
	this, ok := cx.thisFor(w)
	if !ok {
		return 0, false
	}
	if err := frame.SetReceiver(cx.stack, vp, this); err != nil {
		return 0, false
	}
	return this, true
}

// thisFor maps a receiver word to an object: null and undefined become the
// global object, other primitives are boxed.
func (cx *Context) thisFor(w jsval.Word) (jsval.Word, bool) {
	if !w.IsPrimitive() {
		return w, true
	}
	if w.IsNullOrUndefined() {
		if cx.global == 0 {
			return 0, false
		}
		return jsval.ObjectWord(cx.global), true
	}

	var p Proto
	switch {
	case w.IsNumber():
		p = ProtoNumber
	case w.IsBoolean():
		p = ProtoBoolean
	case w.IsString():
		p = ProtoString
	default:
		return 0, false
	}

	h := cx.rt.newObject(protoClasses[p], cx.standardProto(p), cx.global)
	if h == 0 {
		return 0, false
	}
	cx.rt.heap.object(h).slots[0] = w
	return jsval.ObjectWord(h), true
}

func (cx *Context) standardProto(p Proto) jsval.Handle {
	g := cx.rt.heap.object(cx.global)
	if g == nil || protoSlot(p) >= len(g.slots) {
		return 0
	}
	if w := g.slots[protoSlot(p)]; w.IsObject() {
		return w.Handle()
	}
	return 0
}

// call invokes the native function object fn with a fresh frame on the
// context stack. Frames are padded with undefined up to the declared arity.
func (cx *Context) call(this jsval.Word, fn jsval.Handle, args []jsval.Word, rval *jsval.Word) bool {
	fo := cx.rt.heap.object(fn)
	if fo == nil || fo.fn == nil {
		cx.ReportError("value is not a function")
		cx.flushPending()
		return false
	}
	spec := fo.fn
	argc := uint32(len(args))

	if cx.options.Has(OptionStrict) && argc < uint32(spec.Nargs) {
		msg := fmt.Sprintf("%s expects %d arguments, got %d", spec.Name(), spec.Nargs, argc)
		if !cx.warn(msg, ReportWarning|ReportStrict) {
			cx.flushPending()
			return false
		}
	}

	slots := max(argc, uint32(spec.Nargs))
	vp := cx.sp
	size := frame.Size(slots)
	if uint64(vp)+uint64(size) > uint64(cx.stack.Size()) {
		cx.ReportError("too much recursion")
		cx.flushPending()
		return false
	}
	if err := frame.WriteFrame(cx.stack, vp, this, args); err != nil {
		cx.ReportError(err.Error())
		cx.flushPending()
		return false
	}
	for i := argc; i < slots; i++ {
		if err := frame.SetArg(cx.stack, vp, i, jsval.WordVoid); err != nil {
			cx.ReportError(err.Error())
			cx.flushPending()
			return false
		}
	}

	ok := cx.enter(spec.Name(), vp+size, func() bool {
		return spec.Call(cx, argc, vp)
	})

	var result jsval.Word
	if ok {
		w, err := frame.Rval(cx.stack, vp)
		if err != nil {
			ok = false
		}
		result = w
	}
	if !cx.settle(ok) {
		return false
	}
	if rval != nil {
		*rval = result
	}
	return true
}

// enter runs fn with the stack pointer raised to top and the call depth
// incremented, restoring both afterwards.
func (cx *Context) enter(name string, top uint32, fn func() bool) bool {
	prevSP, prevName, prevTemps := cx.sp, cx.current, len(cx.temps)
	cx.sp = top
	cx.current = name
	cx.depth++
	defer func() {
		cx.depth--
		cx.current = prevName
		cx.sp = prevSP
		cx.release(prevTemps)
	}()
	return fn()
}

// settle finishes a call: a failure delivers the pending error, a success
// of the outermost call discards one that a native handled.
func (cx *Context) settle(ok bool) bool {
	if !ok {
		cx.flushPending()
		return false
	}
	if cx.depth == 0 {
		cx.ClearPendingError()
	}
	return true
}

// hold keeps h alive across collections until release drops it.
func (cx *Context) hold(h jsval.Handle) int {
	mark := len(cx.temps)
	cx.temps = append(cx.temps, h)
	return mark
}

func (cx *Context) release(mark int) {
	if mark < len(cx.temps) {
		clear(cx.temps[mark:])
		cx.temps = cx.temps[:mark]
	}
}

// lookup resolves name on obj and its prototype chain.
func (cx *Context) lookup(obj jsval.Handle, name string) (*property, bool) {
	for h, hops := obj, 0; h != 0 && hops < maxProtoChain; hops++ {
		o := cx.rt.heap.object(h)
		if o == nil {
			return nil, false
		}
		if p, ok := o.props[name]; ok {
			return p, true
		}
		h = o.proto
	}
	return nil, false
}

const maxProtoChain = 1024

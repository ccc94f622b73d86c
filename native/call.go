package native

import (
	"fmt"

	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/frame"
	"github.com/wippyai/jsembed/jsval"
)

// Func is a typed native. The returned value becomes the call's result; a
// nil Value leaves the result undefined. A non-nil error fails the call.
type Func func(c *Call) (jsval.Value, error)

// Call is a typed view of one native invocation. It must not be retained
// after the handler returns.
type Call struct {
	cx   Context
	argc uint32
	vp   uint32
}

// NewCall wraps a raw invocation.
func NewCall(cx Context, argc, vp uint32) *Call {
	return &Call{cx: cx, argc: argc, vp: vp}
}

// Context returns the engine context of the call.
func (c *Call) Context() Context { return c.cx }

// Argc returns the number of arguments the engine passed.
func (c *Call) Argc() int { return int(c.argc) }

// ArgWord returns argument i as a raw word; missing arguments read as undefined.
func (c *Call) ArgWord(i int) (jsval.Word, error) {
	if i < 0 || uint32(i) >= c.argc {
		return jsval.WordVoid, nil
	}
	return frame.Arg(c.cx.Memory(), c.vp, uint32(i))
}

// Arg returns argument i; missing arguments read as Undefined.
func (c *Call) Arg(i int) (jsval.Value, error) {
	w, err := c.ArgWord(i)
	if err != nil {
		return nil, err
	}
	return jsval.Decode(w)
}

// Args decodes every passed argument.
func (c *Call) Args() ([]jsval.Value, error) {
	out := make([]jsval.Value, c.argc)
	for i := range out {
		v, err := c.Arg(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ArgNumber returns argument i coerced to a number.
func (c *Call) ArgNumber(i int) (float64, error) {
	v, err := c.Arg(i)
	if err != nil {
		return 0, err
	}
	f, ok := jsval.ToNumber(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseCall, fmt.Sprintf("%T", v), fmt.Sprintf("argument %d is not a number", i))
	}
	return f, nil
}

// ArgString returns argument i as a Go string. Non-string primitives are
// formatted; objects are rejected.
func (c *Call) ArgString(i int) (string, error) {
	w, err := c.ArgWord(i)
	if err != nil {
		return "", err
	}
	return c.String(w)
}

// String converts a primitive word to a Go string.
func (c *Call) String(w jsval.Word) (string, error) {
	if w.IsString() {
		s, ok := c.cx.StringValue(w)
		if !ok {
			return "", errors.NullHandle(errors.PhaseCall, "string value")
		}
		return s, nil
	}
	v, err := jsval.Decode(w)
	if err != nil {
		return "", err
	}
	if !jsval.IsPrimitive(v) {
		return "", errors.TypeMismatch(errors.PhaseCall, "jsval.ObjectRef", "object has no string form here")
	}
	return v.String(), nil
}

// This returns the receiver, computing it when the slot holds a primitive.
func (c *Call) This() (jsval.Value, error) {
	w, err := frame.ThisObject(c.cx, c.vp)
	if err != nil {
		return nil, err
	}
	return jsval.Decode(w)
}

// Value converts a Go value for returning, interning strings.
func (c *Call) Value(v any) (jsval.Value, error) {
	if s, ok := v.(string); ok {
		w, ok := c.cx.NewString(s)
		if !ok {
			return nil, errors.NullHandle(errors.PhaseCall, "new string")
		}
		return jsval.StringRef(w.Handle()), nil
	}
	return jsval.FromGo(v)
}

// SetReturn writes v into the frame's return slot.
func (c *Call) SetReturn(v jsval.Value) error {
	w, err := jsval.Encode(v)
	if err != nil {
		return err
	}
	return frame.SetRval(c.cx.Memory(), c.vp, w)
}

// Wrap adapts a typed Func to the raw trampoline signature. Errors are
// reported through the context and fail the call.
func Wrap(fn Func) Native {
	return func(cx Context, argc uint32, vp uint32) bool {
		c := NewCall(cx, argc, vp)
		v, err := fn(c)
		if err != nil {
			cx.ReportError(err.Error())
			return false
		}
		if v == nil {
			return true
		}
		if err := c.SetReturn(v); err != nil {
			cx.ReportError(err.Error())
			return false
		}
		return true
	}
}

package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
	"github.com/wippyai/jsembed/resource"
)

// Context wraps an engine context. It keeps installed native tables alive
// and owns the host values behind private data handles.
type Context struct {
	rt *Runtime
	cx *engine.Context

	tables  []*native.Table
	roots   map[*Root]struct{}
	private *resource.Table

	destroyed bool
}

// ErrorReporter receives error and warning reports raised in a context.
type ErrorReporter func(report *engine.ErrorReport)

func (c *Context) backend() Backend { return c.rt.backend }

// Engine returns the underlying engine context.
func (c *Context) Engine() *engine.Context { return c.cx }

// Runtime returns the owning runtime.
func (c *Context) Runtime() *Runtime { return c.rt }

// Destroy releases scoped roots still registered, drops private values, and
// destroys the engine context. It is safe to call more than once.
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	if n := len(c.roots); n > 0 {
		Logger().Warn("releasing leaked roots", zap.Int("count", n))
		for r := range c.roots {
			_ = r.Release()
		}
	}
	if n := c.private.Len(); n > 0 {
		Logger().Debug("dropping private values", zap.Int("count", n))
	}
	_ = c.private.Close()
	c.backend().DestroyContext(c.cx)
	c.tables = nil
	c.rt.forget(c)
}

// NewGlobalObject creates a global object of class; nil selects
// engine.GlobalClass.
func (c *Context) NewGlobalObject(class *engine.Class) (jsval.ObjectRef, error) {
	if class == nil {
		class = engine.GlobalClass
	}
	h := c.backend().NewGlobalObject(c.cx, class)
	if h == 0 {
		return 0, errors.NullHandle(errors.PhaseLifecycle, "new global object")
	}
	return jsval.ObjectRef(h), nil
}

// Global returns the context's global object.
func (c *Context) Global() (jsval.ObjectRef, error) {
	h := c.cx.Global()
	if h == 0 {
		return 0, errors.NullHandle(errors.PhaseLifecycle, "global object")
	}
	return jsval.ObjectRef(h), nil
}

// InitStandardClasses installs the standard classes on obj.
func (c *Context) InitStandardClasses(obj jsval.ObjectRef) error {
	if !c.backend().InitStandardClasses(c.cx, jsval.Handle(obj)) {
		return errors.OperationFailed(errors.PhaseLifecycle, "init standard classes")
	}
	return nil
}

// NewStandardGlobal creates a global object and installs the standard
// classes on it.
func (c *Context) NewStandardGlobal() (jsval.ObjectRef, error) {
	g, err := c.NewGlobalObject(nil)
	if err != nil {
		return 0, err
	}
	if err := c.InitStandardClasses(g); err != nil {
		return 0, err
	}
	return g, nil
}

// SetOptions replaces the option flags and returns the previous ones.
func (c *Context) SetOptions(o engine.Options) engine.Options {
	return c.backend().SetOptions(c.cx, o)
}

func (c *Context) Options() engine.Options {
	return c.backend().GetOptions(c.cx)
}

// SetVersion selects the language version and returns the previous one.
func (c *Context) SetVersion(v engine.Version) (engine.Version, error) {
	if !v.Known() {
		return 0, errors.New(errors.PhaseLifecycle, errors.KindInvalidInput).
			Op("set version").
			Value(int(v)).
			Detail("unknown version").
			Build()
	}
	return c.backend().SetVersion(c.cx, v), nil
}

func (c *Context) Version() engine.Version {
	return c.backend().GetVersion(c.cx)
}

// SetErrorReporter routes reports to fn. A nil fn restores logging through
// Logger.
func (c *Context) SetErrorReporter(fn ErrorReporter) {
	if fn == nil {
		c.backend().SetErrorReporter(c.cx, logReporter)
		return
	}
	c.backend().SetErrorReporter(c.cx, func(_ *engine.Context, r *engine.ErrorReport) {
		fn(r)
	})
}

// DefineFunctions installs every native of tbl on obj. The table is kept
// alive until the context is destroyed.
func (c *Context) DefineFunctions(obj jsval.ObjectRef, tbl *native.Table) error {
	if tbl == nil {
		return errors.InvalidInput(errors.PhaseInstall, "native table is nil")
	}
	if !c.backend().DefineFunctions(c.cx, jsval.Handle(obj), tbl.Specs()) {
		return errors.OperationFailed(errors.PhaseInstall, "define functions")
	}
	c.tables = append(c.tables, tbl)
	Logger().Debug("functions defined", zap.Strings("names", tbl.Names()))
	return nil
}

// DefineProperty defines name on obj.
func (c *Context) DefineProperty(obj jsval.ObjectRef, name string, v jsval.Value, attrs native.Attrs) error {
	w, err := jsval.Encode(v)
	if err != nil {
		return err
	}
	if !c.backend().DefineProperty(c.cx, jsval.Handle(obj), name, w, attrs) {
		return errors.New(errors.PhaseInstall, errors.KindOperationFailed).
			Op("define property").
			Detail("%s", name).
			Build()
	}
	return nil
}

// GetProperty reads name from obj; missing properties are Undefined.
func (c *Context) GetProperty(obj jsval.ObjectRef, name string) (jsval.Value, error) {
	var w jsval.Word
	if !c.backend().GetProperty(c.cx, jsval.Handle(obj), name, &w) {
		return nil, errors.OperationFailed(errors.PhaseCall, "get property "+name)
	}
	return jsval.Decode(w)
}

// NewObject creates an object. Zero proto and parent select the defaults.
func (c *Context) NewObject(class *engine.Class, proto, parent jsval.ObjectRef) (jsval.ObjectRef, error) {
	h := c.backend().NewObject(c.cx, class, jsval.Handle(proto), jsval.Handle(parent))
	if h == 0 {
		return 0, errors.NullHandle(errors.PhaseLifecycle, "new object")
	}
	return jsval.ObjectRef(h), nil
}

// NewString copies s into the engine heap.
func (c *Context) NewString(s string) (jsval.StringRef, error) {
	h := c.backend().NewStringCopyN(c.cx, s)
	if h == 0 {
		return 0, errors.NullHandle(errors.PhaseLifecycle, "new string")
	}
	return jsval.StringRef(h), nil
}

// StringValue returns the contents of s.
func (c *Context) StringValue(s jsval.StringRef) (string, error) {
	str, ok := c.backend().EncodeString(c.cx, jsval.Handle(s))
	if !ok {
		return "", errors.NullHandle(errors.PhaseDecode, "encode string")
	}
	return str, nil
}

// ValueToString converts v to its string form.
func (c *Context) ValueToString(v jsval.Value) (string, error) {
	w, err := jsval.Encode(v)
	if err != nil {
		return "", err
	}
	h := c.backend().ValueToString(c.cx, w)
	if h == 0 {
		return "", errors.NullHandle(errors.PhaseCall, "value to string")
	}
	return c.StringValue(jsval.StringRef(h))
}

// CallFunctionName calls the function named name on obj. On failure the
// engine has already delivered any error to the reporter.
func (c *Context) CallFunctionName(obj jsval.ObjectRef, name string, args ...jsval.Value) (jsval.Value, error) {
	words := make([]jsval.Word, len(args))
	for i, a := range args {
		w, err := jsval.Encode(a)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}

	var rval jsval.Word
	if !c.backend().CallFunctionName(c.cx, jsval.Handle(obj), name, words, &rval) {
		return nil, errors.OperationFailed(errors.PhaseCall, name)
	}
	return jsval.Decode(rval)
}

// GC runs a full collection.
func (c *Context) GC() {
	c.backend().GC(c.cx)
}

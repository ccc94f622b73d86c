package runtime

import (
	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
)

// Backend is the embedding surface the gateway drives. *engine.Engine
// implements it; tests substitute implementations that refuse operations.
type Backend interface {
	NewRuntime(maxBytes uint32) *engine.Runtime
	DestroyRuntime(rt *engine.Runtime)
	LockRuntime(rt *engine.Runtime)
	UnlockRuntime(rt *engine.Runtime)

	NewContext(rt *engine.Runtime, stackSize uint32) *engine.Context
	DestroyContext(cx *engine.Context)

	NewGlobalObject(cx *engine.Context, class *engine.Class) jsval.Handle
	InitStandardClasses(cx *engine.Context, obj jsval.Handle) bool
	SetOptions(cx *engine.Context, o engine.Options) engine.Options
	GetOptions(cx *engine.Context) engine.Options
	SetVersion(cx *engine.Context, v engine.Version) engine.Version
	GetVersion(cx *engine.Context) engine.Version
	SetErrorReporter(cx *engine.Context, fn engine.ErrorReporter) engine.ErrorReporter

	DefineFunctions(cx *engine.Context, obj jsval.Handle, fs []native.FunctionSpec) bool
	DefineProperty(cx *engine.Context, obj jsval.Handle, name string, v jsval.Word, attrs native.Attrs) bool
	GetProperty(cx *engine.Context, obj jsval.Handle, name string, vp *jsval.Word) bool
	NewObject(cx *engine.Context, class *engine.Class, proto, parent jsval.Handle) jsval.Handle
	NewStringCopyN(cx *engine.Context, s string) jsval.Handle
	EncodeString(cx *engine.Context, str jsval.Handle) (string, bool)
	ValueToString(cx *engine.Context, v jsval.Word) jsval.Handle
	CallFunctionName(cx *engine.Context, obj jsval.Handle, name string, args []jsval.Word, rval *jsval.Word) bool

	AddObjectRoot(cx *engine.Context, rp *jsval.Word) bool
	RemoveObjectRoot(cx *engine.Context, rp *jsval.Word) bool
	SetContextPrivate(cx *engine.Context, p uint64)
	GetContextPrivate(cx *engine.Context) uint64
	SetPrivate(cx *engine.Context, obj jsval.Handle, p uint64) bool
	GetPrivate(cx *engine.Context, obj jsval.Handle) uint64

	GC(cx *engine.Context)
}

var _ Backend = (*engine.Engine)(nil)

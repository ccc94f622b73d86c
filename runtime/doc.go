// Package runtime is the Go-facing gateway to the engine.
//
// It turns the engine's nil handles and false statuses into errors, owns the
// lifetime of native tables and private data, and scopes GC roots.
//
// # Quick Start
//
//	rt, err := runtime.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	cx, err := rt.NewContext()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cx.Destroy()
//
//	global, err := cx.NewStandardGlobal()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := cx.DefineFunctions(global, table); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := cx.CallFunctionName(global, "add", jsval.Int32(2), jsval.Int32(3))
//
// # Errors
//
// Creation failures carry errors.KindNullHandle; failed status operations
// carry errors.KindOperationFailed. The phase tells which surface failed:
//
//	PhaseLifecycle  runtime, context, global object, standard classes
//	PhaseInstall    DefineFunctions, DefineProperty
//	PhaseCall       CallFunctionName, ValueToString
//	PhaseRoot       AddObjectRoot, RemoveObjectRoot
//	PhasePrivate    SetPrivate, ClearPrivate
//
// Diagnostics raised inside the engine go to the context's ErrorReporter,
// which logs through Logger unless replaced.
//
// # Roots
//
// Values held only in Go variables are invisible to the collector. AddRoot
// registers a slot owned by the returned Root; Release it when done, or use
// WithRoot:
//
//	err := cx.WithRoot(obj, func(r *runtime.Root) error {
//	    _, err := cx.CallFunctionName(global, "consume", obj)
//	    return err
//	})
//
// # Configuration
//
// Config is loaded from YAML and validated:
//
//	heap_size: 8388608
//	stack_size: 8192
//	strict: true
//	werror: false
//	version: 185
//
// # Concurrency
//
// Contexts are single-goroutine. A Runtime shared between goroutines must be
// held with Lock while any of its contexts is in use.
package runtime

// Package jsembed is the boundary layer between a Go host and an embedded
// dynamic-language engine.
//
// It defines how the host creates and destroys runtimes and contexts, how
// Go functions are exposed to guest code as natives, and how guest values are
// represented in a single NaN-boxed 64-bit word and converted to and from Go
// types.
//
// # Architecture Overview
//
//	jsembed/          Root package with the Memory interface for call buffers
//	├── jsval/        Value codec: NaN-boxed words <-> Value sum type
//	├── frame/        Call-frame accessor: this, return slot, argument vector
//	├── native/       Native function table and typed trampolines
//	├── resource/     Host-side handle table backing private data
//	├── engine/       Reference in-process engine and wazero guest bridge
//	├── runtime/      Lifecycle gateway and object root bridge
//	├── errors/       Structured error types
//	└── cmd/jsembed/  Command line host
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
//	tbl, err := native.NewTable([]native.Spec{
//	    {Name: "add", Call: native.Wrap(add), Nargs: 2},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cx.DefineFunctions(global, tbl); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := cx.CallFunctionName(global, "add", jsval.Int32(1), jsval.Int32(2))
//
// # Value Layout
//
// Every guest value is one 64-bit word. Doubles are stored as their IEEE-754
// bits. Every other kind sets the 17 bits above bit 47 to a reserved NaN
// pattern (0x1FFF0 | type) and keeps its payload in the low 47 bits:
//
//	63        47 46                                   0
//	┌──────────┬───────────────────────────────────────┐
//	│ tag (17) │ payload: int32, bool, handle (47)     │
//	└──────────┴───────────────────────────────────────┘
//
// Handles therefore must fit in 47 bits; this matches 64-bit platforms with a
// 47-bit user address space.
//
// # Thread Safety
//
// A runtime owns one heap and must not be entered from several goroutines at
// once. Use Runtime.Lock and Runtime.Unlock when sharing it. Call-frame
// offsets are only valid for the duration of one native call.
package jsembed

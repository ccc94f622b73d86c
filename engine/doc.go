// Package engine is an in-process dynamic-language engine that hosts native
// functions behind a C-style embedding surface.
//
// It keeps the contract of a classic embeddable engine: creation functions
// return nil or a zero handle on failure, status functions return bool, and
// errors raised while a native runs are delivered to a per-context
// ErrorReporter. The runtime package converts those results into Go errors.
//
// # Architecture
//
//	Engine   - Entry point; every operation is a method taking a Runtime or Context
//	Runtime  - Heap of strings and objects with a byte budget, GC roots, and a lock
//	Context  - Stack memory for call frames, global object, options, reporter
//	Class    - Object shape: name, private data flag, reserved slot count
//	Guest    - A wasm module whose imports resolve to a native table (wazero)
//
// # Call Flow
//
//  1. The host defines natives on an object with DefineFunctions
//  2. CallFunctionName looks the native up and lays a frame on the context stack
//  3. The native reads arguments and writes its result through package frame
//  4. On failure the pending error is reported once the outermost call unwinds;
//     a success of the outermost call discards it
//
// # Memory Management
//
// Allocation beyond the runtime budget runs a full collection and fails if
// the budget is still exceeded. The collector marks from each context's
// global object, from every slot registered with AddObjectRoot, and from the
// live part of each context stack, plus the objects the engine itself holds
// while a call or definition is in progress. Objects held only in Go
// variables are not roots: register them before allocating again.
//
// Frames of wasm guests live in guest linear memory and are not scanned. A
// receiver boxed for a guest native is held until that native returns.
//
// # Concurrency
//
// Nothing in the engine is safe for concurrent use. Hosts sharing a runtime
// between goroutines bracket every operation with Runtime.Lock and Unlock.
package engine

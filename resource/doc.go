// Package resource provides the host-side handle table behind private data.
//
// The engine stores an opaque 64-bit word per context or object. Instead of
// casting a Go pointer into that word, the host inserts its value here and
// stores the handle:
//
//	table := resource.NewTable()
//
//	h, err := table.Insert(session)
//	engine.SetPrivate(cx, obj, uint64(h))
//
//	v, ok := table.Get(resource.Handle(engine.GetPrivate(cx, obj)))
//
// Remove invalidates a handle explicitly. Slots are reused with a new
// generation, so stale handles fail lookup instead of aliasing a newer value.
//
// # Observers
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    if e.Type == resource.EventDropped {
//	        log.Printf("private %#x dropped", e.Handle)
//	    }
//	}))
//
// # Memory Management
//
// Values are not collected with the engine objects that point at them. The
// owner must Remove them, or Close the table at context teardown; Close
// drops every remaining value.
package resource

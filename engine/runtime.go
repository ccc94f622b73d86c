package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jsembed/jsval"
)

// Runtime owns a heap shared by its contexts. It performs no locking of its
// own; Lock and Unlock are provided for hosts that share a runtime across
// goroutines.
type Runtime struct {
	mu sync.Mutex

	maxBytes uint32
	heap     heap
	contexts map[*Context]struct{}
	roots    map[*jsval.Word]struct{}
	gcs      int

	destroyed bool
}

// Stats is a snapshot of runtime heap state.
type Stats struct {
	Cells    int
	Bytes    uint32
	MaxBytes uint32
	GCs      int
	Roots    int
	Contexts int
}

func (rt *Runtime) Lock()   { rt.mu.Lock() }
func (rt *Runtime) Unlock() { rt.mu.Unlock() }

// Stats returns current heap statistics.
func (rt *Runtime) Stats() Stats {
	return Stats{
		Cells:    rt.heap.live(),
		Bytes:    rt.heap.bytes,
		MaxBytes: rt.maxBytes,
		GCs:      rt.gcs,
		Roots:    len(rt.roots),
		Contexts: len(rt.contexts),
	}
}

// Live reports whether h refers to an allocated cell.
func (rt *Runtime) Live(h jsval.Handle) bool {
	return rt.heap.cell(h) != nil
}

// reserve makes room for n more bytes, collecting once if the budget would
// be exceeded.
func (rt *Runtime) reserve(n uint32) bool {
	if rt.destroyed {
		return false
	}
	if uint64(rt.heap.bytes)+uint64(n) <= uint64(rt.maxBytes) {
		return true
	}
	rt.collect()
	if uint64(rt.heap.bytes)+uint64(n) <= uint64(rt.maxBytes) {
		return true
	}
	Logger().Debug("heap budget exhausted",
		zap.Uint32("requested", n),
		zap.Uint32("bytes", rt.heap.bytes),
		zap.Uint32("max_bytes", rt.maxBytes))
	return false
}

func (rt *Runtime) newString(s string) jsval.Handle {
	size := stringCost + uint32(len(s))
	if !rt.reserve(size) {
		return 0
	}
	return rt.heap.alloc(cell{kind: cellString, size: size, str: s})
}

func (rt *Runtime) newObject(class *Class, proto, parent jsval.Handle) jsval.Handle {
	size := uint32(objectCost) + class.Flags.ReservedSlots()*8
	if !rt.reserve(size) {
		return 0
	}
	return rt.heap.alloc(cell{kind: cellObject, size: size, obj: newObject(class, proto, parent)})
}

// collect marks from every context global and temporary, every registered
// root, and every word of the live portion of each context stack, then
// sweeps.
func (rt *Runtime) collect() int {
	for cx := range rt.contexts {
		rt.heap.markHandle(cx.global)
		for _, h := range cx.temps {
			rt.heap.markHandle(h)
		}
		for off := uint32(0); off+8 <= cx.sp; off += 8 {
			rt.heap.mark(jsval.Word(cx.stack.word(off)))
		}
	}
	for rp := range rt.roots {
		rt.heap.mark(*rp)
	}
	freed := rt.heap.sweep()
	rt.gcs++

	Logger().Debug("gc",
		zap.Int("freed", freed),
		zap.Int("live", rt.heap.live()),
		zap.Uint32("bytes", rt.heap.bytes))
	return freed
}

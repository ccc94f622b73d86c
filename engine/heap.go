package engine

import (
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
)

// Approximate byte costs charged against the runtime budget.
const (
	objectCost   = 64
	propertyCost = 32
	stringCost   = 16
)

type cellKind uint8

const (
	cellFree cellKind = iota
	cellString
	cellObject
)

type cell struct {
	kind   cellKind
	marked bool
	size   uint32
	str    string
	obj    *object
}

type property struct {
	value jsval.Word
	attrs native.Attrs
}

type object struct {
	class   *Class
	proto   jsval.Handle
	parent  jsval.Handle
	props   map[string]*property
	keys    []string
	slots   []jsval.Word
	private uint64

	// fn is set for native function objects. It holds the descriptor as
	// installed, including the name pointer owned by the host's table.
	fn *native.FunctionSpec
}

func newObject(class *Class, proto, parent jsval.Handle) *object {
	o := &object{
		class:  class,
		proto:  proto,
		parent: parent,
		props:  make(map[string]*property),
	}
	if n := class.Flags.ReservedSlots(); n > 0 {
		o.slots = make([]jsval.Word, n)
		for i := range o.slots {
			o.slots[i] = jsval.WordVoid
		}
	}
	return o
}

// heap stores strings and objects. Handles are index+1 so that zero stays
// the null handle.
type heap struct {
	cells []cell
	free  []uint32
	bytes uint32
}

func (h *heap) alloc(c cell) jsval.Handle {
	h.bytes += c.size
	if n := len(h.free); n > 0 {
		idx := h.free[n-1]
		h.free = h.free[:n-1]
		h.cells[idx] = c
		return jsval.Handle(idx + 1)
	}
	h.cells = append(h.cells, c)
	return jsval.Handle(len(h.cells))
}

func (h *heap) cell(handle jsval.Handle) *cell {
	if handle == 0 || handle > jsval.Handle(len(h.cells)) {
		return nil
	}
	c := &h.cells[handle-1]
	if c.kind == cellFree {
		return nil
	}
	return c
}

func (h *heap) object(handle jsval.Handle) *object {
	c := h.cell(handle)
	if c == nil || c.kind != cellObject {
		return nil
	}
	return c.obj
}

func (h *heap) string(handle jsval.Handle) (string, bool) {
	c := h.cell(handle)
	if c == nil || c.kind != cellString {
		return "", false
	}
	return c.str, true
}

func (h *heap) charge(handle jsval.Handle, n uint32) {
	if c := h.cell(handle); c != nil {
		c.size += n
		h.bytes += n
	}
}

func (h *heap) live() int {
	return len(h.cells) - len(h.free)
}

func (h *heap) reset() {
	h.cells = nil
	h.free = nil
	h.bytes = 0
}

// mark sets the mark bit on the cell a word refers to and on everything
// reachable from it.
func (h *heap) mark(w jsval.Word) {
	if !w.IsObject() && !w.IsString() {
		return
	}
	h.markHandle(w.Handle())
}

func (h *heap) markHandle(handle jsval.Handle) {
	stack := []jsval.Handle{handle}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]

		c := h.cell(cur)
		if c == nil || c.marked {
			continue
		}
		c.marked = true
		if c.kind != cellObject {
			continue
		}

		o := c.obj
		stack = append(stack, o.proto, o.parent)
		for _, p := range o.props {
			if p.value.IsObject() || p.value.IsString() {
				stack = append(stack, p.value.Handle())
			}
		}
		for _, s := range o.slots {
			if s.IsObject() || s.IsString() {
				stack = append(stack, s.Handle())
			}
		}
	}
}

// sweep frees unmarked cells, clears marks, and returns the freed count.
func (h *heap) sweep() int {
	freed := 0
	for i := range h.cells {
		c := &h.cells[i]
		switch {
		case c.kind == cellFree:
		case c.marked:
			c.marked = false
		default:
			h.bytes -= c.size
			*c = cell{}
			h.free = append(h.free, uint32(i))
			freed++
		}
	}
	return freed
}

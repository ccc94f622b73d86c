// Package frame locates the receiver, return slot, and arguments inside the
// buffer an engine passes to a native call.
//
// Layout, one 64-bit word per slot:
//
//	vp+0   receiver (this / callee metadata)
//	vp+8   return value, pre-set to undefined by the engine
//	vp+16  argument 0
//	...    argument argc-1
//
// The buffer does not record its own argument count; argc travels next to
// vp in the native signature. Offsets are only valid during the call.
package frame

import (
	jsembed "github.com/wippyai/jsembed"
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/jsval"
)

const (
	WordSize = 8

	SlotThis = 0
	SlotRval = 1
	SlotArgs = 2
)

// Context is what the accessor needs from the engine during a call.
type Context interface {
	// Memory returns the buffer vp points into.
	Memory() jsembed.Memory

	// ComputeThis materializes the receiver for the frame at vp when the
	// receiver slot holds a primitive, boxing it or substituting the global
	// object. It reports false on failure.
	ComputeThis(vp uint32) (jsval.Word, bool)
}

// Argv returns the offset of the first argument. No bounds checking.
func Argv(vp uint32) uint32 {
	return vp + SlotArgs*WordSize
}

// Size returns the byte size of a frame with argc arguments.
func Size(argc uint32) uint32 {
	return (SlotArgs + argc) * WordSize
}

// Arg reads argument i. The caller is responsible for i < argc.
func Arg(mem jsembed.Memory, vp, i uint32) (jsval.Word, error) {
	return read(mem, Argv(vp)+i*WordSize)
}

// SetArg overwrites argument i.
func SetArg(mem jsembed.Memory, vp, i uint32, w jsval.Word) error {
	return write(mem, Argv(vp)+i*WordSize, w)
}

// Receiver reads the raw receiver slot.
func Receiver(mem jsembed.Memory, vp uint32) (jsval.Word, error) {
	return read(mem, vp+SlotThis*WordSize)
}

// SetReceiver overwrites the receiver slot, typically with a computed this.
func SetReceiver(mem jsembed.Memory, vp uint32, w jsval.Word) error {
	return write(mem, vp+SlotThis*WordSize, w)
}

// Rval reads the return slot.
func Rval(mem jsembed.Memory, vp uint32) (jsval.Word, error) {
	return read(mem, vp+SlotRval*WordSize)
}

// SetRval writes w into the return slot. The engine reads it after the
// native returns; without this call the slot keeps its default.
func SetRval(mem jsembed.Memory, vp uint32, w jsval.Word) error {
	return write(mem, vp+SlotRval*WordSize, w)
}

// ThisObject returns the receiver for the call at vp. An object receiver is
// returned as stored; a primitive one is replaced through cx.ComputeThis.
func ThisObject(cx Context, vp uint32) (jsval.Word, error) {
	w, err := Receiver(cx.Memory(), vp)
	if err != nil {
		return 0, err
	}
	if !w.IsPrimitive() {
		return w, nil
	}
	computed, ok := cx.ComputeThis(vp)
	if !ok {
		return 0, errors.OperationFailed(errors.PhaseFrame, "compute this")
	}
	return computed, nil
}

// WriteFrame lays out a frame at vp: receiver, an undefined return slot, and
// args in order. Engines call this before invoking a native.
func WriteFrame(mem jsembed.Memory, vp uint32, this jsval.Word, args []jsval.Word) error {
	if err := write(mem, vp+SlotThis*WordSize, this); err != nil {
		return err
	}
	if err := write(mem, vp+SlotRval*WordSize, jsval.WordVoid); err != nil {
		return err
	}
	for i, a := range args {
		if err := write(mem, Argv(vp)+uint32(i)*WordSize, a); err != nil {
			return err
		}
	}
	return nil
}

func read(mem jsembed.Memory, off uint32) (jsval.Word, error) {
	v, err := mem.ReadU64(off)
	if err != nil {
		return 0, errors.OutOfBounds(errors.PhaseFrame, off, err)
	}
	return jsval.Word(v), nil
}

func write(mem jsembed.Memory, off uint32, w jsval.Word) error {
	if err := mem.WriteU64(off, uint64(w)); err != nil {
		return errors.OutOfBounds(errors.PhaseFrame, off, err)
	}
	return nil
}

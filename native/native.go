// Package native builds the tables through which guest code reaches Go.
//
// A Native is the raw trampoline the engine calls with a context, the
// argument count, and the offset of the call frame. A Table owns the name
// storage for a set of natives so the descriptors handed to the engine stay
// valid for as long as the engine can resolve a call through them.
//
// Most hosts write typed handlers and adapt them with Wrap:
//
//	tbl, err := native.NewTable([]native.Spec{
//	    {Name: "add", Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
//	        a, err := c.ArgNumber(0)
//	        if err != nil {
//	            return nil, err
//	        }
//	        b, err := c.ArgNumber(1)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return jsval.Number(a + b), nil
//	    }), Nargs: 2},
//	})
package native

import (
	"github.com/wippyai/jsembed/frame"
	"github.com/wippyai/jsembed/jsval"
)

// Context is the engine view passed to every native.
type Context interface {
	frame.Context

	// NewString interns s and returns its string word.
	NewString(s string) (jsval.Word, bool)

	// StringValue returns the contents of a string word.
	StringValue(w jsval.Word) (string, bool)

	// ReportError records a pending error for the current call.
	ReportError(msg string)
}

// Native is the trampoline signature: argc arguments start at frame.Argv(vp).
// It returns false to signal a failed call.
type Native func(cx Context, argc uint32, vp uint32) bool

// Attrs are property/definition flags consumed by the engine as a bitmask.
type Attrs uint8

const (
	AttrEnumerate       Attrs = 0x01
	AttrReadonly        Attrs = 0x02
	AttrNativeAccessors Attrs = 0x08
	AttrShared          Attrs = 0x40
)

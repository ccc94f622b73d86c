package runtime

import (
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/jsval"
)

// AddObjectRoot registers the slot rp with the collector. The slot must stay
// at the same address until RemoveObjectRoot; prefer AddRoot, which owns
// its slot.
func (c *Context) AddObjectRoot(rp *jsval.Word) error {
	if !c.backend().AddObjectRoot(c.cx, rp) {
		return errors.OperationFailed(errors.PhaseRoot, "add root")
	}
	return nil
}

// RemoveObjectRoot unregisters rp. Removing a slot that was never rooted
// fails.
func (c *Context) RemoveObjectRoot(rp *jsval.Word) error {
	if !c.backend().RemoveObjectRoot(c.cx, rp) {
		return errors.OperationFailed(errors.PhaseRoot, "remove root")
	}
	return nil
}

// Root is a registered root slot owned by the gateway. The value it holds
// survives collection until Release.
type Root struct {
	c        *Context
	slot     jsval.Word
	released bool
}

// AddRoot roots v. Release the returned Root when the value is no longer
// needed; roots still registered when the context is destroyed are
// released then.
func (c *Context) AddRoot(v jsval.Value) (*Root, error) {
	w, err := jsval.Encode(v)
	if err != nil {
		return nil, err
	}
	r := &Root{c: c, slot: w}
	if err := c.AddObjectRoot(&r.slot); err != nil {
		return nil, err
	}
	c.roots[r] = struct{}{}
	return r, nil
}

// Value decodes the rooted value.
func (r *Root) Value() (jsval.Value, error) {
	return jsval.Decode(r.slot)
}

// Word returns the rooted word.
func (r *Root) Word() jsval.Word { return r.slot }

// Set replaces the rooted value.
func (r *Root) Set(v jsval.Value) error {
	if r.released {
		return errors.Closed(errors.PhaseRoot, "root")
	}
	w, err := jsval.Encode(v)
	if err != nil {
		return err
	}
	r.slot = w
	return nil
}

// Release unregisters the root. Later calls do nothing.
func (r *Root) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	delete(r.c.roots, r)
	return r.c.RemoveObjectRoot(&r.slot)
}

// WithRoot roots v for the duration of fn. The root is released when fn
// returns, fails, or panics.
func (c *Context) WithRoot(v jsval.Value, fn func(r *Root) error) (err error) {
	r, err := c.AddRoot(v)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := r.Release(); err == nil {
			err = rerr
		}
	}()
	return fn(r)
}

package runtime

import (
	"fmt"

	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/resource"
)

// SetContextPrivate associates v with the context, replacing any previous
// value.
func (c *Context) SetContextPrivate(v any) error {
	h, err := c.private.Insert(v)
	if err != nil {
		return errors.Wrap(errors.PhasePrivate, errors.KindClosed, err, "set context private")
	}
	old := resource.Handle(c.backend().GetContextPrivate(c.cx))
	c.backend().SetContextPrivate(c.cx, uint64(h))
	if old != 0 {
		c.private.Remove(old)
	}
	return nil
}

// ContextPrivate returns the value set with SetContextPrivate.
func (c *Context) ContextPrivate() (any, bool) {
	return c.private.Get(resource.Handle(c.backend().GetContextPrivate(c.cx)))
}

// SetPrivate associates v with obj, replacing any previous value. The
// object's class must carry private data.
func (c *Context) SetPrivate(obj jsval.ObjectRef, v any) error {
	h, err := c.private.Insert(v)
	if err != nil {
		return errors.Wrap(errors.PhasePrivate, errors.KindClosed, err, "set private")
	}
	old := resource.Handle(c.backend().GetPrivate(c.cx, jsval.Handle(obj)))
	if !c.backend().SetPrivate(c.cx, jsval.Handle(obj), uint64(h)) {
		c.private.Remove(h)
		return errors.OperationFailed(errors.PhasePrivate, "set private")
	}
	if old != 0 {
		c.private.Remove(old)
	}
	return nil
}

// Private returns the value associated with obj.
func (c *Context) Private(obj jsval.ObjectRef) (any, bool) {
	return c.private.Get(resource.Handle(c.backend().GetPrivate(c.cx, jsval.Handle(obj))))
}

// ClearPrivate drops the value associated with obj.
func (c *Context) ClearPrivate(obj jsval.ObjectRef) error {
	old := resource.Handle(c.backend().GetPrivate(c.cx, jsval.Handle(obj)))
	if old == 0 {
		return nil
	}
	if !c.backend().SetPrivate(c.cx, jsval.Handle(obj), 0) {
		return errors.OperationFailed(errors.PhasePrivate, "clear private")
	}
	c.private.Remove(old)
	return nil
}

// PrivateAs returns obj's private value as T.
func PrivateAs[T any](c *Context, obj jsval.ObjectRef) (T, error) {
	var zero T
	v, ok := c.Private(obj)
	if !ok {
		return zero, errors.NotFound(errors.PhasePrivate, "private data", fmt.Sprint(obj))
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhasePrivate, fmt.Sprintf("%T", v), fmt.Sprintf("private data is not %T", zero))
	}
	return t, nil
}

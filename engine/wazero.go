package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	jsembed "github.com/wippyai/jsembed"
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/frame"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
)

// DefaultGuestNamespace is the import module natives are exported under.
const DefaultGuestNamespace = "env"

// GuestConfig holds configuration for guest instantiation.
type GuestConfig struct {
	// Namespace is the import module name. Empty means DefaultGuestNamespace.
	Namespace string

	// Name is the guest module instance name.
	Name string

	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32
}

// Guest is a wasm module whose imports resolve to a native table. The guest
// calls each native as (i32 vp, i32 argc) -> i32 with the frame laid out in
// its own linear memory; object receivers and strings are resolved by the
// engine context the guest is bound to.
//
// The collector does not scan guest memory. A receiver boxed by ComputeThis
// stays alive until the native returns; any other object a guest keeps
// across calls must be rooted with AddObjectRoot.
type Guest struct {
	cx      *Context
	table   *native.Table
	runtime wazero.Runtime
	module  api.Module
}

// NewGuest compiles and instantiates wasm against the natives in tbl.
func NewGuest(ctx context.Context, cx *Context, tbl *native.Table, wasm []byte, cfg *GuestConfig) (*Guest, error) {
	if cx == nil || cx.destroyed {
		return nil, errors.NullHandle(errors.PhaseGuest, "guest context")
	}
	if tbl == nil {
		return nil, errors.InvalidInput(errors.PhaseGuest, "native table is nil")
	}
	if cfg == nil {
		cfg = &GuestConfig{}
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultGuestNamespace
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	g := &Guest{cx: cx, table: tbl, runtime: r}

	builder := r.NewHostModuleBuilder(ns)
	for _, spec := range tbl.Specs() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(g.trampoline(spec),
				[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
				[]api.ValueType{api.ValueTypeI32}).
			Export(spec.Name())
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindOperationFailed, err, "instantiate host module "+ns)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidData, err, "compile guest")
	}
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(cfg.Name))
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindOperationFailed, err, "instantiate guest")
	}
	if mod.Memory() == nil {
		_ = r.Close(ctx)
		return nil, errors.NotFound(errors.PhaseGuest, "export", "memory")
	}
	g.module = mod

	Logger().Debug("guest instantiated",
		zap.String("namespace", ns),
		zap.Int("natives", tbl.Len()))
	return g, nil
}

// trampoline adapts a native to a wazero host function.
func (g *Guest) trampoline(spec native.FunctionSpec) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		vp := api.DecodeU32(stack[0])
		argc := api.DecodeU32(stack[1])

		gc := &guestContext{Context: g.cx, mem: &WazeroMemory{mem: mod.Memory()}}
		ok := g.cx.enter(spec.Name(), g.cx.sp, func() bool {
			return spec.Call(gc, argc, vp)
		})
		if !g.cx.settle(ok) {
			stack[0] = 0
			return
		}
		stack[0] = 1
	}
}

// Memory returns the guest's linear memory as a word-addressed buffer.
func (g *Guest) Memory() jsembed.Memory {
	return &WazeroMemory{mem: g.module.Memory()}
}

// Call invokes an exported guest function with raw parameters.
func (g *Guest) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := g.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseGuest, "export", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindOperationFailed, err, "call "+name)
	}
	return results, nil
}

// CallFrame lays out a frame at vp in guest memory, calls the export as
// (vp, argc) -> i32, and returns the frame's return value. A zero result
// fails with OperationFailed.
func (g *Guest) CallFrame(ctx context.Context, name string, vp uint32, this jsval.Word, args []jsval.Word) (jsval.Word, error) {
	mem := g.Memory()
	if err := frame.WriteFrame(mem, vp, this, args); err != nil {
		return 0, err
	}
	results, err := g.Call(ctx, name, api.EncodeU32(vp), api.EncodeU32(uint32(len(args))))
	if err != nil {
		return 0, err
	}
	if len(results) != 1 {
		return 0, errors.InvalidData(errors.PhaseGuest, fmt.Sprintf("%s returned %d results, expected 1", name, len(results)))
	}
	if api.DecodeU32(results[0]) == 0 {
		return 0, errors.OperationFailed(errors.PhaseGuest, name)
	}
	return frame.Rval(mem, vp)
}

// Close releases the guest and its wazero runtime.
func (g *Guest) Close(ctx context.Context) error {
	return g.runtime.Close(ctx)
}

// guestContext is the native view during a guest call: frames live in guest
// memory, everything else is the engine context.
type guestContext struct {
	*Context
	mem *WazeroMemory
}

func (c *guestContext) Memory() jsembed.Memory { return c.mem }

func (c *guestContext) ComputeThis(vp uint32) (jsval.Word, bool) {
	w, err := frame.Receiver(c.mem, vp)
	if err != nil {
		return 0, false
	}
	this, ok := c.thisFor(w)
	if !ok {
		return 0, false
	}
	if err := frame.SetReceiver(c.mem, vp, this); err != nil {
		return 0, false
	}
	// Guest memory is not scanned; the boxed receiver lives until the
	// native returns.
	if this.IsObject() && this != w {
		c.hold(this.Handle())
	}
	return this, true
}

// WazeroMemory wraps wazero's api.Memory.
type WazeroMemory struct {
	mem api.Memory
}

func (m *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("read u64 out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("write u64 out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}

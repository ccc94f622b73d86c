package runtime

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/resource"
)

// Runtime owns an engine runtime and the contexts created from it.
type Runtime struct {
	backend Backend
	rt      *engine.Runtime
	cfg     Config

	mu       sync.Mutex
	contexts map[*Context]struct{}
	closed   bool
}

// New creates a runtime. It fails with NullHandle when the engine refuses
// to create one.
func New(opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg := o.cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend := o.backend
	if backend == nil {
		backend = engine.New()
	}

	rt := backend.NewRuntime(cfg.HeapSize)
	if rt == nil {
		return nil, errors.NullHandle(errors.PhaseLifecycle, "new runtime")
	}

	Logger().Debug("runtime created",
		zap.Uint32("heap_size", cfg.HeapSize),
		zap.Uint32("stack_size", cfg.StackSize))

	return &Runtime{
		backend:  backend,
		rt:       rt,
		cfg:      cfg,
		contexts: make(map[*Context]struct{}),
	}, nil
}

// Close destroys contexts still open and shuts the engine runtime down.
// It is safe to call more than once.
func (r *Runtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	open := make([]*Context, 0, len(r.contexts))
	for c := range r.contexts {
		open = append(open, c)
	}
	r.mu.Unlock()

	for _, c := range open {
		Logger().Warn("context still open at runtime close")
		c.Destroy()
	}
	r.backend.DestroyRuntime(r.rt)
	Logger().Debug("runtime closed")
	return nil
}

// Lock acquires the engine runtime lock. Hosts that share a runtime across
// goroutines hold it around every context operation.
func (r *Runtime) Lock() {
	r.backend.LockRuntime(r.rt)
}

func (r *Runtime) Unlock() {
	r.backend.UnlockRuntime(r.rt)
}

// Config returns the effective configuration.
func (r *Runtime) Config() Config {
	return r.cfg
}

// Engine returns the underlying engine runtime.
func (r *Runtime) Engine() *engine.Runtime {
	return r.rt
}

// NewContext creates a context with the configured stack size, options and
// version. Errors are logged through Logger until SetErrorReporter replaces
// the default reporter.
func (r *Runtime) NewContext() (*Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.Closed(errors.PhaseLifecycle, "runtime")
	}

	cx := r.backend.NewContext(r.rt, r.cfg.StackSize)
	if cx == nil {
		return nil, errors.NullHandle(errors.PhaseLifecycle, "new context")
	}

	c := &Context{
		rt:      r,
		cx:      cx,
		roots:   make(map[*Root]struct{}),
		private: resource.NewTable(),
	}
	c.private.Subscribe(resource.ObserverFunc(logPrivateEvent))
	r.backend.SetOptions(cx, r.cfg.EngineOptions())
	r.backend.SetVersion(cx, engine.Version(r.cfg.Version))
	r.backend.SetErrorReporter(cx, logReporter)

	r.contexts[c] = struct{}{}
	return c, nil
}

func (r *Runtime) forget(c *Context) {
	r.mu.Lock()
	delete(r.contexts, c)
	r.mu.Unlock()
}

func logPrivateEvent(e resource.Event) {
	if ce := Logger().Check(zap.DebugLevel, "private value"); ce != nil {
		kind := "stored"
		if e.Type == resource.EventDropped {
			kind = "dropped"
		}
		ce.Write(
			zap.String("event", kind),
			zap.Uint64("handle", uint64(e.Handle)),
			zap.String("type", fmt.Sprintf("%T", e.Value)))
	}
}

func logReporter(_ *engine.Context, report *engine.ErrorReport) {
	fields := []zap.Field{
		zap.String("message", report.Message),
		zap.String("filename", report.Filename),
	}
	if report.Flags.IsWarning() {
		Logger().Warn("script warning", fields...)
		return
	}
	Logger().Error("script error", fields...)
}

package runtime

import "github.com/wippyai/jsembed/engine"

// Option configures a Runtime.
type Option func(*options)

type options struct {
	cfg     Config
	backend Backend
}

func defaultOptions() *options {
	return &options{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithHeapSize sets the runtime heap budget in bytes.
func WithHeapSize(n uint32) Option {
	return func(o *options) { o.cfg.HeapSize = n }
}

// WithStackSize sets the stack size of contexts created by the runtime.
func WithStackSize(n uint32) Option {
	return func(o *options) { o.cfg.StackSize = n }
}

// WithOptions sets the option flags applied to new contexts.
func WithOptions(flags engine.Options) Option {
	return func(o *options) {
		o.cfg.Strict = flags.Has(engine.OptionStrict)
		o.cfg.Werror = flags.Has(engine.OptionWerror)
		o.cfg.VarObjFix = flags.Has(engine.OptionVarObjFix)
		o.cfg.MethodJIT = flags.Has(engine.OptionMethodJIT)
	}
}

// WithBackend substitutes the engine implementation.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

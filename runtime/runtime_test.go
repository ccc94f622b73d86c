package runtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/errors"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
)

// refusingBackend is the real engine with selected creation calls failing.
type refusingBackend struct {
	*engine.Engine
	refuseRuntime bool
	refuseContext bool
}

func (b *refusingBackend) NewRuntime(maxBytes uint32) *engine.Runtime {
	if b.refuseRuntime {
		return nil
	}
	return b.Engine.NewRuntime(maxBytes)
}

func (b *refusingBackend) NewContext(rt *engine.Runtime, stackSize uint32) *engine.Context {
	if b.refuseContext {
		return nil
	}
	return b.Engine.NewContext(rt, stackSize)
}

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func newTestContext(t *testing.T, opts ...Option) (*Context, jsval.ObjectRef) {
	t.Helper()
	rt := newTestRuntime(t, opts...)
	cx, err := rt.NewContext()
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(cx.Destroy)
	g, err := cx.NewStandardGlobal()
	if err != nil {
		t.Fatalf("NewStandardGlobal: %v", err)
	}
	return cx, g
}

func mathTable(t *testing.T) *native.Table {
	t.Helper()
	tbl, err := native.NewTable([]native.Spec{
		{Name: "add", Nargs: 2, Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
			a, err := c.ArgNumber(0)
			if err != nil {
				return nil, err
			}
			b, err := c.ArgNumber(1)
			if err != nil {
				return nil, err
			}
			return jsval.Number(a + b), nil
		})},
		{Name: "fail", Call: native.Wrap(func(c *native.Call) (jsval.Value, error) {
			return nil, fmt.Errorf("refused")
		})},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func phaseKind(phase errors.Phase, kind errors.Kind) error {
	return &errors.Error{Phase: phase, Kind: kind}
}

func TestNew_Defaults(t *testing.T) {
	rt := newTestRuntime(t)
	cfg := rt.Config()
	if cfg.HeapSize != DefaultHeapSize {
		t.Errorf("HeapSize = %d, want %d", cfg.HeapSize, DefaultHeapSize)
	}
	if cfg.StackSize != DefaultStackSize {
		t.Errorf("StackSize = %d, want %d", cfg.StackSize, DefaultStackSize)
	}
	if st := rt.Engine().Stats(); st.MaxBytes != DefaultHeapSize {
		t.Errorf("engine budget = %d", st.MaxBytes)
	}
}

func TestNew_BackendRefuses(t *testing.T) {
	_, err := New(WithBackend(&refusingBackend{Engine: engine.New(), refuseRuntime: true}))
	if !errors.Is(err, phaseKind(errors.PhaseLifecycle, errors.KindNullHandle)) {
		t.Fatalf("err = %v, want lifecycle null handle", err)
	}
	if !errors.Is(err, errors.ErrNullHandle) {
		t.Error("err does not match ErrNullHandle")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"small heap", WithHeapSize(100)},
		{"small stack", WithStackSize(8)},
		{"bad version", WithConfig(Config{Version: 42})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if !errors.Is(err, phaseKind(errors.PhaseConfig, errors.KindInvalidInput)) {
				t.Errorf("err = %v, want config invalid input", err)
			}
		})
	}
}

func TestNewContext_Refused(t *testing.T) {
	rt := newTestRuntime(t, WithBackend(&refusingBackend{Engine: engine.New(), refuseContext: true}))
	_, err := rt.NewContext()
	if !errors.Is(err, errors.ErrNullHandle) {
		t.Fatalf("err = %v, want NullHandle", err)
	}
}

func TestNewContext_AfterClose(t *testing.T) {
	rt, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := rt.NewContext(); errors.KindOf(err) != errors.KindClosed {
		t.Fatalf("err = %v, want closed", err)
	}
}

func TestClose_DestroysOpenContexts(t *testing.T) {
	rt, err := New()
	if err != nil {
		t.Fatal(err)
	}
	cx, err := rt.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cx.AddRoot(jsval.Null{}); err != nil {
		t.Fatal(err)
	}
	if err := rt.Close(); err != nil {
		t.Fatal(err)
	}
	if !cx.destroyed {
		t.Error("context not destroyed by Close")
	}
}

func TestContext_ConfigApplied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	cfg.MethodJIT = true
	cfg.Version = int(engine.VersionECMA5)
	cx, _ := newTestContext(t, WithConfig(cfg))

	want := engine.OptionStrict | engine.OptionMethodJIT
	if got := cx.Options(); got != want {
		t.Errorf("Options = %#x, want %#x", got, want)
	}
	if got := cx.Version(); got != engine.VersionECMA5 {
		t.Errorf("Version = %d", got)
	}

	prev := cx.SetOptions(engine.OptionWerror)
	if prev != want || cx.Options() != engine.OptionWerror {
		t.Errorf("SetOptions prev = %#x, now %#x", prev, cx.Options())
	}

	if _, err := cx.SetVersion(engine.Version(99)); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("SetVersion(99) err = %v", err)
	}
	if prev, err := cx.SetVersion(engine.Version1_8); err != nil || prev != engine.VersionECMA5 {
		t.Errorf("SetVersion = %d, %v", prev, err)
	}
}

func TestWithOptions(t *testing.T) {
	cx, _ := newTestContext(t, WithOptions(engine.OptionWerror|engine.OptionVarObjFix))
	if got := cx.Options(); got != engine.OptionWerror|engine.OptionVarObjFix {
		t.Errorf("Options = %#x", got)
	}
}

func TestNewGlobalObject_Failures(t *testing.T) {
	rt := newTestRuntime(t)
	cx, err := rt.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	defer cx.Destroy()

	if _, err := cx.Global(); !errors.Is(err, errors.ErrNullHandle) {
		t.Errorf("Global before creation err = %v", err)
	}
	if _, err := cx.NewGlobalObject(engine.ObjectClass); !errors.Is(err, phaseKind(errors.PhaseLifecycle, errors.KindNullHandle)) {
		t.Errorf("non-global class err = %v", err)
	}

	plain, err := cx.NewObject(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := cx.InitStandardClasses(plain); !errors.Is(err, phaseKind(errors.PhaseLifecycle, errors.KindOperationFailed)) {
		t.Errorf("InitStandardClasses(plain) err = %v", err)
	}
}

func TestDefineFunctionsAndCall(t *testing.T) {
	cx, g := newTestContext(t)
	if err := cx.DefineFunctions(g, mathTable(t)); err != nil {
		t.Fatalf("DefineFunctions: %v", err)
	}

	v, err := cx.CallFunctionName(g, "add", jsval.Int32(2), jsval.Int32(3))
	if err != nil {
		t.Fatalf("CallFunctionName: %v", err)
	}
	if v != jsval.Int32(5) {
		t.Errorf("add(2, 3) = %v", v)
	}
}

func TestDefineFunctions_InstallVersusCallFailure(t *testing.T) {
	cx, g := newTestContext(t)
	tbl := mathTable(t)

	err := cx.DefineFunctions(jsval.ObjectRef(0), tbl)
	if !errors.Is(err, phaseKind(errors.PhaseInstall, errors.KindOperationFailed)) {
		t.Fatalf("install err = %v, want install failure", err)
	}
	if errors.Is(err, phaseKind(errors.PhaseCall, errors.KindOperationFailed)) {
		t.Error("install failure matched the call phase")
	}
	if len(cx.tables) != 0 {
		t.Error("failed install retained the table")
	}

	if err := cx.DefineFunctions(g, tbl); err != nil {
		t.Fatal(err)
	}
	_, err = cx.CallFunctionName(g, "fail")
	if !errors.Is(err, phaseKind(errors.PhaseCall, errors.KindOperationFailed)) {
		t.Fatalf("call err = %v, want call failure", err)
	}
	if errors.Is(err, phaseKind(errors.PhaseInstall, errors.KindOperationFailed)) {
		t.Error("call failure matched the install phase")
	}

	if err := cx.DefineFunctions(g, nil); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("nil table err = %v", err)
	}
}

func TestErrorReporter(t *testing.T) {
	cx, g := newTestContext(t)
	if err := cx.DefineFunctions(g, mathTable(t)); err != nil {
		t.Fatal(err)
	}

	var got []engine.ErrorReport
	cx.SetErrorReporter(func(r *engine.ErrorReport) {
		got = append(got, *r)
	})

	if _, err := cx.CallFunctionName(g, "fail"); err == nil {
		t.Fatal("expected failure")
	}
	if len(got) != 1 || got[0].Message != "refused" || got[0].Filename != "fail" {
		t.Fatalf("reports = %+v", got)
	}

	cx.SetErrorReporter(nil)
	if _, err := cx.CallFunctionName(g, "fail"); err == nil {
		t.Fatal("expected failure")
	}
	if len(got) != 1 {
		t.Error("replaced reporter still called")
	}
}

func TestDefineAndGetProperty(t *testing.T) {
	cx, g := newTestContext(t)

	if err := cx.DefineProperty(g, "answer", jsval.Int32(42), native.AttrReadonly|native.AttrEnumerate); err != nil {
		t.Fatal(err)
	}
	v, err := cx.GetProperty(g, "answer")
	if err != nil || v != jsval.Int32(42) {
		t.Fatalf("answer = %v, %v", v, err)
	}
	if err := cx.DefineProperty(g, "answer", jsval.Int32(0), 0); !errors.Is(err, phaseKind(errors.PhaseInstall, errors.KindOperationFailed)) {
		t.Errorf("redefine read-only err = %v", err)
	}
	v, err = cx.GetProperty(g, "missing")
	if err != nil || v != (jsval.Undefined{}) {
		t.Errorf("missing = %v, %v", v, err)
	}
}

func TestStrings(t *testing.T) {
	cx, g := newTestContext(t)

	s, err := cx.NewString("hello")
	if err != nil {
		t.Fatal(err)
	}
	got, err := cx.StringValue(s)
	if err != nil || got != "hello" {
		t.Errorf("StringValue = %q, %v", got, err)
	}

	tests := []struct {
		in   jsval.Value
		want string
	}{
		{jsval.Int32(42), "42"},
		{jsval.Double(0.25), "0.25"},
		{jsval.Boolean(false), "false"},
		{jsval.Null{}, "null"},
		{jsval.Undefined{}, "undefined"},
		{s, "hello"},
		{g, "[object global]"},
	}
	for _, tt := range tests {
		got, err := cx.ValueToString(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ValueToString(%v) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := cx.StringValue(jsval.StringRef(12345)); !errors.Is(err, errors.ErrNullHandle) {
		t.Errorf("dangling string err = %v", err)
	}
}

func TestLock(t *testing.T) {
	rt := newTestRuntime(t)
	cx, err := rt.NewContext()
	if err != nil {
		t.Fatal(err)
	}
	defer cx.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rt.Lock()
				_, err := cx.NewString("x")
				rt.Unlock()
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

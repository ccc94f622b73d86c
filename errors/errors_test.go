package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindOverflow,
				Op:     "encode",
				GoType: "jsval.ObjectRef",
				Detail: "handle too wide",
			},
			contains: []string{"[encode]", "overflow", "in encode", "jsval.ObjectRef", "handle too wide"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLifecycle,
				Kind:  KindNullHandle,
			},
			contains: []string{"[lifecycle]", "null_handle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseFrame,
				Kind:   KindOutOfBounds,
				Detail: "offset 8",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[frame]", "out_of_bounds", "offset 8", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseGuest,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := OperationFailed(PhaseRoot, "remove root")

	if !err.Is(&Error{Phase: PhaseRoot, Kind: KindOperationFailed}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseInstall, Kind: KindOperationFailed}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseRoot, Kind: KindNullHandle}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrOperationFailed) {
		t.Error("errors.Is should match the phase-less sentinel")
	}
	if errors.Is(err, ErrNullHandle) {
		t.Error("errors.Is should not match a different sentinel")
	}

	wrapped := fmt.Errorf("outer: %w", NullHandle(PhaseLifecycle, "new context"))
	if !errors.Is(wrapped, ErrNullHandle) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NullHandle(PhaseLifecycle, "x")); got != KindNullHandle {
		t.Errorf("KindOf = %q, want %q", got, KindNullHandle)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", OperationFailed(PhaseCall, "x"))); got != KindOperationFailed {
		t.Errorf("KindOf = %q, want %q", got, KindOperationFailed)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindUnsupported).
		Op("decode").
		GoType("jsval.Word").
		Value(uint64(42)).
		Cause(cause).
		Detail("tag %#x", 0x1fff4).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindUnsupported {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
	}
	if err.Op != "decode" {
		t.Errorf("Op = %v, want decode", err.Op)
	}
	if err.GoType != "jsval.Word" {
		t.Errorf("GoType = %v, want jsval.Word", err.GoType)
	}
	if err.Value != uint64(42) {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "tag 0x1fff4" {
		t.Errorf("Detail = %v, want 'tag 0x1fff4'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"OperationFailed", OperationFailed(PhaseInstall, "define"), KindOperationFailed},
		{"NullHandle", NullHandle(PhaseLifecycle, "new runtime"), KindNullHandle},
		{"TypeMismatch", TypeMismatch(PhaseEncode, "string", "needs engine"), KindTypeMismatch},
		{"OutOfBounds", OutOfBounds(PhaseFrame, 16, nil), KindOutOfBounds},
		{"Overflow", Overflow(PhaseEncode, int64(1)<<60, "float64"), KindOverflow},
		{"Unsupported", Unsupported(PhaseDecode, "magic"), KindUnsupported},
		{"InvalidData", InvalidData(PhaseDecode, "bad tag"), KindInvalidData},
		{"InvalidInput", InvalidInput(PhaseNative, "empty name"), KindInvalidInput},
		{"NotFound", NotFound(PhaseCall, "function", "foo"), KindNotFound},
		{"Closed", Closed(PhaseLifecycle, "context"), KindClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
		})
	}

	t.Run("OutOfBounds value", func(t *testing.T) {
		err := OutOfBounds(PhaseFrame, 24, nil)
		if err.Value != uint32(24) {
			t.Errorf("Value = %v, want 24", err.Value)
		}
	})

	t.Run("NotFound detail", func(t *testing.T) {
		err := NotFound(PhaseCall, "function", "foo")
		if !strings.Contains(err.Detail, `"foo"`) {
			t.Errorf("Detail = %q, should quote name", err.Detail)
		}
	})
}

func TestIs_Sentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NullHandle(PhaseLifecycle, "new context"))
	if !Is(err, ErrNullHandle) {
		t.Error("Is should match the NullHandle sentinel through wrapping")
	}
	if Is(err, ErrOperationFailed) {
		t.Error("Is matched the wrong sentinel")
	}
	var e *Error
	if !As(err, &e) || e.Phase != PhaseLifecycle {
		t.Errorf("As = %v", e)
	}
}

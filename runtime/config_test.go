package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/errors"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
heap_size: 65536
strict: true
werror: true
version: 185
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HeapSize != 65536 {
		t.Errorf("HeapSize = %d", cfg.HeapSize)
	}
	if cfg.StackSize != DefaultStackSize {
		t.Errorf("StackSize = %d, want default", cfg.StackSize)
	}
	if got := cfg.EngineOptions(); got != engine.OptionStrict|engine.OptionWerror {
		t.Errorf("EngineOptions = %#x", got)
	}
	if cfg.Version != int(engine.VersionECMA5) {
		t.Errorf("Version = %d", cfg.Version)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind errors.Kind
	}{
		{"syntax", "heap_size: [", errors.KindInvalidData},
		{"type", "stack_size: big", errors.KindInvalidData},
		{"heap too small", "heap_size: 1024", errors.KindInvalidInput},
		{"stack too small", "stack_size: 16", errors.KindInvalidInput},
		{"version", "version: 170", errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if errors.KindOf(err) != tt.kind {
				t.Errorf("err = %v, want kind %s", err, tt.kind)
			}
			if !errors.Is(err, phaseKind(errors.PhaseConfig, tt.kind)) {
				t.Errorf("err phase = %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsembed.yaml")
	if err := os.WriteFile(path, []byte("stack_size: 4096\nmethodjit: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StackSize != 4096 || !cfg.MethodJIT {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); errors.KindOf(err) != errors.KindNotFound {
		t.Errorf("missing file err = %v", err)
	}
}

func TestConfigSchema(t *testing.T) {
	s := ConfigSchema()
	for _, name := range []string{"heap_size", "stack_size", "strict", "werror", "varobjfix", "methodjit", "version"} {
		if _, ok := s.Properties.Get(name); !ok {
			t.Errorf("schema missing %q", name)
		}
	}
}

package runtime

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/errors"
)

const (
	DefaultHeapSize  = 8 << 20
	DefaultStackSize = 8192
)

// validate is shared; validator caches struct metadata per instance.
var validate = validator.New()

// Config holds runtime and context settings. Zero-valued sizes are replaced
// by the defaults before validation.
type Config struct {
	// HeapSize is the runtime heap budget in bytes.
	HeapSize uint32 `yaml:"heap_size" json:"heap_size" validate:"gte=4096" jsonschema:"description=Runtime heap budget in bytes,default=8388608"`

	// StackSize is the per-context stack chunk in bytes.
	StackSize uint32 `yaml:"stack_size" json:"stack_size" validate:"gte=64" jsonschema:"description=Context stack size in bytes,default=8192"`

	Strict    bool `yaml:"strict" json:"strict" jsonschema:"description=Report strict-mode warnings"`
	Werror    bool `yaml:"werror" json:"werror" jsonschema:"description=Treat warnings as errors"`
	VarObjFix bool `yaml:"varobjfix" json:"varobjfix" jsonschema:"description=Bind top-level vars to the global object"`
	MethodJIT bool `yaml:"methodjit" json:"methodjit" jsonschema:"description=Enable the method JIT"`

	// Version is the language version: 0 (default), 180 (1.8) or 185 (ECMAScript 5).
	Version int `yaml:"version" json:"version" validate:"oneof=0 180 185" jsonschema:"enum=0,enum=180,enum=185"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		HeapSize:  DefaultHeapSize,
		StackSize: DefaultStackSize,
	}
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return ParseConfig(data)
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "validate config")
	}
	return nil
}

// withDefaults fills zero sizes.
func (c Config) withDefaults() Config {
	if c.HeapSize == 0 {
		c.HeapSize = DefaultHeapSize
	}
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}
	return c
}

// EngineOptions maps the option switches onto engine flags.
func (c Config) EngineOptions() engine.Options {
	var o engine.Options
	if c.Strict {
		o |= engine.OptionStrict
	}
	if c.Werror {
		o |= engine.OptionWerror
	}
	if c.VarObjFix {
		o |= engine.OptionVarObjFix
	}
	if c.MethodJIT {
		o |= engine.OptionMethodJIT
	}
	return o
}

// ConfigSchema returns the JSON schema of Config as it appears in YAML.
func ConfigSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}
	return reflector.Reflect(&Config{})
}

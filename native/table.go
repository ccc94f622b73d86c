package native

import (
	"strings"

	"github.com/wippyai/jsembed/errors"
)

// Spec describes one native to install.
type Spec struct {
	Name  string
	Call  Native
	Nargs uint16
	Flags Attrs
}

// FunctionSpec is the descriptor consumed by the engine. It refers to its name
// by pointer into the owning Table rather than holding a copy.
type FunctionSpec struct {
	name  *string
	Call  Native
	Nargs uint16
	Flags Attrs
}

// Name returns the registered name.
func (f FunctionSpec) Name() string {
	if f.name == nil {
		return ""
	}
	return *f.name
}

// NameRef returns the address of the name storage owned by the table.
func (f FunctionSpec) NameRef() *string {
	return f.name
}

// Table owns a descriptor list and the names it references.
// Keep it reachable for as long as the engine may call through it.
type Table struct {
	names []string
	specs []FunctionSpec
	index map[string]int
}

// NewTable validates specs and builds a table. Names are copied into storage
// owned by the table; the caller's strings are not retained.
func NewTable(specs []Spec) (*Table, error) {
	t := &Table{
		names: make([]string, len(specs)),
		specs: make([]FunctionSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for i, s := range specs {
		if s.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseNative, "function name cannot be empty")
		}
		if s.Call == nil {
			return nil, errors.New(errors.PhaseNative, errors.KindInvalidInput).
				Op(s.Name).
				Detail("handler cannot be nil").
				Build()
		}
		if _, dup := t.index[s.Name]; dup {
			return nil, errors.New(errors.PhaseNative, errors.KindInvalidInput).
				Op(s.Name).
				Detail("duplicate function name").
				Build()
		}

		// names is never resized, so &t.names[i] is stable.
		t.names[i] = strings.Clone(s.Name)
		t.specs[i] = FunctionSpec{
			name:  &t.names[i],
			Call:  s.Call,
			Nargs: s.Nargs,
			Flags: s.Flags,
		}
		t.index[s.Name] = i
	}

	return t, nil
}

// Specs returns the descriptor list. The slice is owned by the table.
func (t *Table) Specs() []FunctionSpec {
	return t.specs
}

// Len returns the number of descriptors.
func (t *Table) Len() int {
	return len(t.specs)
}

// Lookup finds a descriptor by name.
func (t *Table) Lookup(name string) (FunctionSpec, bool) {
	i, ok := t.index[name]
	if !ok {
		return FunctionSpec{}, false
	}
	return t.specs[i], true
}

// Names returns the registered names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

package engine

// Options are per-context behavior flags.
type Options uint32

const (
	OptionStrict    Options = 1 << 0
	OptionWerror    Options = 1 << 1
	OptionVarObjFix Options = 1 << 2
	OptionMethodJIT Options = 1 << 14
)

func (o Options) Has(flag Options) bool { return o&flag == flag }

// Version selects the language level of a context.
type Version int

const (
	VersionDefault Version = 0
	Version1_8     Version = 180
	VersionECMA5   Version = 185
	VersionLatest          = VersionECMA5
)

// Known reports whether v is a version the engine understands.
func (v Version) Known() bool {
	switch v {
	case VersionDefault, Version1_8, VersionECMA5:
		return true
	}
	return false
}

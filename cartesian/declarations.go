package cartesian

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/combitest/cartesian-test-harness/framework/opt"
)

// Method describes one parameterized test method: its parameters and their
// value sources, or a single whole-method factory reference, plus an optional
// display-name pattern for the generated invocations.
type Method struct {
	// Name is the test method's own name, used in error messages and as the
	// default display name.
	Name string

	// DisplayName, if non-empty, replaces Name for the {displayName} placeholder.
	DisplayName string

	// NamePattern is the display-name pattern for each invocation. When
	// undefined, DefaultNamePattern is used.
	NamePattern opt.Maybe[string]

	// Factory is a whole-method source: a reference to a registered factory,
	// optionally qualified as "SuiteName#factoryName". Mutually exclusive with
	// any per-parameter source.
	Factory opt.Maybe[string]

	// Suite is the name of the suite the method belongs to. Unqualified
	// factory references are resolved against this suite and its enclosing
	// suites. Empty means the registry's root suite.
	Suite string

	// Parameters is the ordered parameter list.
	Parameters []Parameter
}

func (m Method) displayName() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// Parameter describes one test parameter and its declared value sources.
// Exactly one source must be declared unless the method has a factory.
type Parameter struct {
	Name    string
	Type    ParameterType
	Sources []SourceDecl
}

// TypeKind is the structural category of a parameter's declared type.
type TypeKind int

const (
	KindAny TypeKind = iota
	KindBool
	KindNumber
	KindString
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return "any"
	}
}

// ParameterType is a parameter's declared type. For KindEnum, EnumName names
// a registered EnumType.
type ParameterType struct {
	Kind     TypeKind
	EnumName string
}

// EnumOf returns a ParameterType for a registered enum type.
func EnumOf(enumName string) ParameterType {
	return ParameterType{Kind: KindEnum, EnumName: enumName}
}

type sourceKind int

const (
	sourceValues sourceKind = iota
	sourceEnum
	sourceRange
	sourceProvider
)

func (k sourceKind) String() string {
	switch k {
	case sourceEnum:
		return "enum"
	case sourceRange:
		return "range"
	case sourceProvider:
		return "provider"
	default:
		return "values"
	}
}

// SourceDecl declares one value source for a parameter. Build one with
// ValuesSource, EnumSource, RangeSource, or ProviderSource.
type SourceDecl struct {
	kind     sourceKind
	values   []ldvalue.Value
	enum     EnumSourceConfig
	numRange RangeSourceConfig
	provider ProviderSourceConfig
}

// Kind returns the source kind as a string ("values", "enum", "range", "provider").
func (s SourceDecl) Kind() string { return s.kind.String() }

// ValuesSource declares a literal ordered list of values. Duplicates collapse
// to the first occurrence when the source is resolved.
func ValuesSource(values ...ldvalue.Value) SourceDecl {
	return SourceDecl{kind: sourceValues, values: values}
}

// EnumMode is the policy for filtering an enum's constants by name.
type EnumMode int

const (
	// EnumModeInclude keeps only the named constants. This is the default.
	EnumModeInclude EnumMode = iota
	// EnumModeExclude keeps all constants except the named ones.
	EnumModeExclude
	// EnumModeMatchAll keeps constants whose names match every one of the
	// given regex patterns.
	EnumModeMatchAll
	// EnumModeMatchAny keeps constants whose names match at least one of the
	// given regex patterns.
	EnumModeMatchAny
)

func (m EnumMode) String() string {
	switch m {
	case EnumModeExclude:
		return "EXCLUDE"
	case EnumModeMatchAll:
		return "MATCH_ALL"
	case EnumModeMatchAny:
		return "MATCH_ANY"
	default:
		return "INCLUDE"
	}
}

// EnumSourceConfig configures an enum source. With no Names, every constant of
// the enum is used, in declaration order, regardless of Mode.
type EnumSourceConfig struct {
	// TypeName is an explicit enum type name. When empty, the type is inferred
	// from the parameter's declared type, which must then be an enum.
	TypeName string
	Mode     EnumMode
	// Names is a list of constant names (INCLUDE/EXCLUDE) or regex patterns
	// (MATCH_ALL/MATCH_ANY).
	Names []string
}

// EnumSource declares an enum-with-mode source.
func EnumSource(config EnumSourceConfig) SourceDecl {
	return SourceDecl{kind: sourceEnum, enum: config}
}

// RangeSourceConfig configures an arithmetic-sequence source. Step must be
// non-zero and point from From toward To. When Closed is true the To bound is
// included if the sequence lands on it exactly.
type RangeSourceConfig struct {
	From   float64
	To     float64
	Step   float64
	Closed bool
}

// RangeSource declares a numeric-range source.
func RangeSource(config RangeSourceConfig) SourceDecl {
	return SourceDecl{kind: sourceRange, numRange: config}
}

// ProviderSourceConfig configures a custom-provider source: the registered
// provider's name plus an arbitrary configuration value passed to its
// Initialize phase.
type ProviderSourceConfig struct {
	Name   string
	Config ldvalue.Value
}

// ProviderSource declares a custom-provider source.
func ProviderSource(name string, config ldvalue.Value) SourceDecl {
	return SourceDecl{kind: sourceProvider, provider: ProviderSourceConfig{Name: name, Config: config}}
}

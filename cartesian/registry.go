package cartesian

import (
	"fmt"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/combitest/cartesian-test-harness/framework/helpers"
)

// EnumType is an explicit enumeration capability: the name of an enum-like
// type plus its constants in declaration order. Enum sources select from the
// registered constant list rather than introspecting anything at runtime.
type EnumType struct {
	Name      string
	Constants []string
}

// ParameterID identifies the parameter a custom provider is producing values
// for: its zero-based position and declared name.
type ParameterID struct {
	Index int
	Name  string
}

// ValueProvider is user code that supplies candidate values for a parameter.
// The engine always calls Initialize exactly once, then Produce exactly once,
// per occurrence of the parameter in a resolution; a fresh provider instance
// is constructed for each resolution, so implementations must not rely on
// state carried across resolutions.
type ValueProvider interface {
	// Initialize receives the configuration value from the source declaration.
	Initialize(config ldvalue.Value) error
	// Produce returns the ordered candidate values for one parameter of the
	// named test method. The result is deduplicated by the engine.
	Produce(methodName string, parameter ParameterID) ([]ldvalue.Value, error)
}

// ArgumentSets is what a whole-method factory returns: one value set per
// parameter, registered in parameter order. The engine combines them into the
// same Cartesian product it would compute from per-parameter sources.
type ArgumentSets struct {
	sets []ValueSet
}

// NewArgumentSets returns an empty ArgumentSets.
func NewArgumentSets() *ArgumentSets { return &ArgumentSets{} }

// Add registers the candidate values for the next parameter, in order, and
// returns the receiver for chaining. Duplicate values collapse to the first
// occurrence.
func (a *ArgumentSets) Add(values ...ldvalue.Value) *ArgumentSets {
	a.sets = append(a.sets, NewValueSet(values...))
	return a
}

// Count returns the number of parameter sets registered so far.
func (a *ArgumentSets) Count() int { return len(a.sets) }

// FactoryFunc is a registered whole-method factory. It takes no arguments and
// returns the value sets for every parameter of the referencing method.
type FactoryFunc func() (*ArgumentSets, error)

// Suite is a named registration scope for factories, mirroring how factory
// methods live on a test class or an enclosing class. Factory lookups walk
// from a suite through its enclosing suites.
type Suite struct {
	name      string
	parent    *Suite
	factories map[string]FactoryFunc
}

// Name returns the suite's name; the root suite's name is "".
func (s *Suite) Name() string { return s.name }

// RegisterFactory adds a factory under the given name. Registering the same
// name twice in one suite is an error.
func (s *Suite) RegisterFactory(name string, factory FactoryFunc) error {
	if _, found := s.factories[name]; found {
		return fmt.Errorf("factory %q is already registered in suite %q", name, s.name)
	}
	s.factories[name] = factory
	return nil
}

func (s *Suite) findFactory(name string) (FactoryFunc, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if f, found := scope.factories[name]; found {
			return f, true
		}
	}
	return FactoryFunc(nil), false
}

// Registry is the lookup service that resolves declared names - enum types,
// custom providers, whole-method factories - to their registered capabilities.
// It is immutable once construction finishes and safe for concurrent reads
// across test worker goroutines.
type Registry struct {
	root      *Suite
	suites    map[string]*Suite
	enums     map[string]EnumType
	providers map[string]func() ValueProvider
}

// RegistryOption is a configuration option for NewRegistry.
type RegistryOption = helpers.ConfigOption[Registry]

// NewRegistry creates a Registry and applies any number of options.
func NewRegistry(options ...RegistryOption) (*Registry, error) {
	root := &Suite{factories: make(map[string]FactoryFunc)}
	r := &Registry{
		root:      root,
		suites:    map[string]*Suite{"": root},
		enums:     make(map[string]EnumType),
		providers: make(map[string]func() ValueProvider),
	}
	if err := helpers.ApplyOptions(r, options...); err != nil {
		return nil, err
	}
	return r, nil
}

type registryOptionFunc func(*Registry) error

func (f registryOptionFunc) Configure(r *Registry) error { return f(r) }

// WithEnum is an option to register an enum type.
func WithEnum(enum EnumType) RegistryOption {
	return registryOptionFunc(func(r *Registry) error { return r.RegisterEnum(enum) })
}

// WithProvider is an option to register a custom-provider constructor. The
// constructor is called once per resolution to get a fresh provider instance.
func WithProvider(name string, newProvider func() ValueProvider) RegistryOption {
	return registryOptionFunc(func(r *Registry) error { return r.RegisterProvider(name, newProvider) })
}

// WithFactory is an option to register a whole-method factory in the root suite.
func WithFactory(name string, factory FactoryFunc) RegistryOption {
	return registryOptionFunc(func(r *Registry) error { return r.root.RegisterFactory(name, factory) })
}

// RegisterEnum adds an enum type. Registering the same name twice is an error.
func (r *Registry) RegisterEnum(enum EnumType) error {
	if _, found := r.enums[enum.Name]; found {
		return fmt.Errorf("enum type %q is already registered", enum.Name)
	}
	r.enums[enum.Name] = enum
	return nil
}

// RegisterProvider adds a custom-provider constructor under the given name.
func (r *Registry) RegisterProvider(name string, newProvider func() ValueProvider) error {
	if _, found := r.providers[name]; found {
		return fmt.Errorf("provider %q is already registered", name)
	}
	r.providers[name] = newProvider
	return nil
}

// Root returns the root suite.
func (r *Registry) Root() *Suite { return r.root }

// Suite returns the named suite, creating it if needed. The new suite's
// enclosing scope is the parent suite, or the root suite if parent is nil.
func (r *Registry) Suite(name string, parent *Suite) *Suite {
	if s, found := r.suites[name]; found {
		return s
	}
	if parent == nil {
		parent = r.root
	}
	s := &Suite{name: name, parent: parent, factories: make(map[string]FactoryFunc)}
	r.suites[name] = s
	return s
}

func (r *Registry) enumType(name string) (EnumType, bool) {
	e, found := r.enums[name]
	return e, found
}

func (r *Registry) newProvider(name string) (ValueProvider, bool) {
	ctor, found := r.providers[name]
	if !found {
		return nil, false
	}
	return ctor(), true
}

// lookupFactory resolves a factory reference for a method: an unqualified name
// is looked up in the method's own suite and its enclosing suites; a
// "SuiteName#factoryName" reference starts from the named suite instead. A
// trailing parenthesized argument list is ignored.
func (r *Registry) lookupFactory(method Method, ref string) (FactoryFunc, error) {
	name := ref
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	start, found := r.suites[method.Suite]
	if !found {
		return nil, configError(method.Name, "", "suite %q is not registered", method.Suite)
	}
	if i := strings.Index(name, "#"); i >= 0 {
		suiteName := name[:i]
		name = name[i+1:]
		start, found = r.suites[suiteName]
		if !found {
			return nil, configError(method.Name, "",
				"suite %q not found, referenced in factory %q", suiteName, ref)
		}
	}
	factory, found := start.findFactory(name)
	if !found {
		return nil, configError(method.Name, "",
			"factory %q not found in suite %q or any enclosing suite", name, start.name)
	}
	return factory, nil
}

package cartesian

import (
	"fmt"
	"regexp"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

// Resolution is the fully-resolved combination plan for one method: the
// per-parameter value sets, the parsed display-name pattern, and the total
// invocation count. All of its state is scoped to one test-method resolution;
// nothing is shared across goroutines.
type Resolution struct {
	method  Method
	sets    []ValueSet
	pattern *namePattern
	total   int
}

// Resolve validates a method's declarations, resolves every source into value
// sets, and returns the combination plan. Any configuration, resolution, or
// formatting problem is returned as an error before a single tuple is
// produced; a failed resolution never yields a partial combinatorial run.
func Resolve(reg *Registry, method Method) (*Resolution, error) {
	if err := Validate(method); err != nil {
		return nil, err
	}

	pattern, err := parseNamePattern(method.NamePattern.OrElse(DefaultNamePattern))
	if err != nil {
		return nil, err
	}

	var sets []ValueSet
	if ref, hasFactory := method.Factory.Get(); hasFactory {
		sets, err = resolveFactory(reg, method, ref)
	} else {
		sets, err = resolveParameters(reg, method)
	}
	if err != nil {
		return nil, err
	}

	total := 1
	for _, set := range sets {
		total *= set.Count()
	}
	return &Resolution{method: method, sets: sets, pattern: pattern, total: total}, nil
}

// TotalCount returns the number of invocation records the plan will produce:
// the product of every value set's size.
func (r *Resolution) TotalCount() int { return r.total }

// Generator returns a fresh lazy generator over the plan's Cartesian product.
// Each call returns an independent generator starting at the first tuple.
func (r *Resolution) Generator() *ProductGenerator {
	return newProductGenerator(r.sets, r.pattern, r.method.displayName(), r.total)
}

// Records materializes the full sequence of invocation records. Prefer
// Generator for large products.
func (r *Resolution) Records() []InvocationRecord {
	ret := make([]InvocationRecord, 0, r.total)
	gen := r.Generator()
	for {
		rec, ok := gen.Next()
		if !ok {
			return ret
		}
		ret = append(ret, rec)
	}
}

func resolveParameters(reg *Registry, method Method) ([]ValueSet, error) {
	sets := make([]ValueSet, 0, len(method.Parameters))
	for i, param := range method.Parameters {
		set, err := resolveSource(reg, method, i, param)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func resolveSource(reg *Registry, method Method, index int, param Parameter) (ValueSet, error) {
	src := param.Sources[0]
	switch src.kind {
	case sourceValues:
		return NewValueSet(src.values...), nil
	case sourceEnum:
		return resolveEnum(reg, method, param, src.enum)
	case sourceRange:
		return resolveRange(method, param, src.numRange)
	case sourceProvider:
		return resolveProvider(reg, method, index, param, src.provider)
	default:
		return ValueSet{}, configError(method.Name, param.Name, "unknown source kind")
	}
}

func resolveEnum(reg *Registry, method Method, param Parameter, config EnumSourceConfig) (ValueSet, error) {
	typeName := config.TypeName
	if typeName == "" {
		typeName = param.Type.EnumName
	}
	enum, found := reg.enumType(typeName)
	if !found {
		return ValueSet{}, configError(method.Name, param.Name, "enum type %q is not registered", typeName)
	}

	keep, err := enumSelector(method, param, enum, config)
	if err != nil {
		return ValueSet{}, err
	}
	values := make([]ldvalue.Value, 0, len(enum.Constants))
	for _, constant := range enum.Constants {
		if keep(constant) {
			values = append(values, ldvalue.String(constant))
		}
	}
	return NewValueSet(values...), nil
}

// enumSelector returns the predicate that decides which constants survive.
// With no names, every constant survives regardless of mode.
func enumSelector(method Method, param Parameter, enum EnumType, config EnumSourceConfig) (func(string) bool, error) {
	if len(config.Names) == 0 {
		return func(string) bool { return true }, nil
	}

	switch config.Mode {
	case EnumModeInclude, EnumModeExclude:
		for _, name := range config.Names {
			if !slices.Contains(enum.Constants, name) {
				return nil, configError(method.Name, param.Name,
					"enum type %q has no constant named %q", enum.Name, name)
			}
		}
		included := config.Mode == EnumModeInclude
		names := config.Names
		return func(constant string) bool {
			return slices.Contains(names, constant) == included
		}, nil
	default:
		patterns := make([]*regexp.Regexp, 0, len(config.Names))
		for _, expr := range config.Names {
			rx, err := regexp.Compile(expr)
			if err != nil {
				return nil, configError(method.Name, param.Name,
					"invalid regex %q in %s enum source: %s", expr, config.Mode, err)
			}
			patterns = append(patterns, rx)
		}
		matchAll := config.Mode == EnumModeMatchAll
		return func(constant string) bool {
			for _, rx := range patterns {
				if rx.MatchString(constant) != matchAll {
					return !matchAll
				}
			}
			return matchAll
		}, nil
	}
}

func resolveRange(method Method, param Parameter, config RangeSourceConfig) (ValueSet, error) {
	if config.Step == 0 {
		return ValueSet{}, configError(method.Name, param.Name, "range step must be non-zero")
	}
	ascending := config.From < config.To
	if config.From != config.To {
		if ascending && config.Step < 0 {
			return ValueSet{}, configError(method.Name, param.Name,
				"range step %v is negative but the range ascends from %v to %v",
				config.Step, config.From, config.To)
		}
		if !ascending && config.Step > 0 {
			return ValueSet{}, configError(method.Name, param.Name,
				"range step %v is positive but the range descends from %v to %v",
				config.Step, config.From, config.To)
		}
	}

	inBound := func(v float64) bool {
		if config.Step > 0 {
			if config.Closed {
				return v <= config.To
			}
			return v < config.To
		}
		if config.Closed {
			return v >= config.To
		}
		return v > config.To
	}
	var values []ldvalue.Value
	for v := config.From; inBound(v); v += config.Step {
		values = append(values, ldvalue.Float64(v))
	}
	return NewValueSet(values...), nil
}

func resolveProvider(
	reg *Registry, method Method, index int, param Parameter, config ProviderSourceConfig,
) (ValueSet, error) {
	provider, found := reg.newProvider(config.Name)
	if !found {
		return ValueSet{}, configError(method.Name, param.Name, "provider %q is not registered", config.Name)
	}
	// Initialization always completes before production, exactly once each.
	if err := provider.Initialize(config.Config); err != nil {
		return ValueSet{}, ResolutionError{
			Method: method.Name, Parameter: param.Name, Source: "provider",
			Message: "provider " + config.Name + " failed to initialize", Err: err,
		}
	}
	values, err := provider.Produce(method.Name, ParameterID{Index: index, Name: param.Name})
	if err != nil {
		return ValueSet{}, ResolutionError{
			Method: method.Name, Parameter: param.Name, Source: "provider",
			Message: "provider " + config.Name + " failed to produce values", Err: err,
		}
	}
	return NewValueSet(values...), nil
}

func resolveFactory(reg *Registry, method Method, ref string) ([]ValueSet, error) {
	factory, err := reg.lookupFactory(method, ref)
	if err != nil {
		return nil, err
	}
	argumentSets, err := factory()
	if err != nil {
		return nil, ResolutionError{
			Method: method.Name, Source: "factory",
			Message: "factory " + ref + " failed", Err: err,
		}
	}
	if argumentSets == nil {
		argumentSets = NewArgumentSets()
	}
	if argumentSets.Count() > len(method.Parameters) {
		// Registering fewer sets than parameters is legal here: the remaining
		// parameters may be injected by the invocation boundary.
		return nil, ResolutionError{
			Method: method.Name, Source: "factory",
			Message: formatSetCountMismatch(ref, len(method.Parameters), argumentSets.Count()),
		}
	}
	return argumentSets.sets, nil
}

func formatSetCountMismatch(ref string, expected, actual int) string {
	return fmt.Sprintf("factory %s must register values for each parameter exactly once: "+
		"expected [%d] parameter sets, but got [%d]", ref, expected, actual)
}

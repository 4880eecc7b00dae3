package cartesian

import (
	"errors"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combitest/cartesian-test-harness/framework/opt"
)

var greekEnum = EnumType{ //nolint:gochecknoglobals
	Name:      "Greek",
	Constants: []string{"ALPHA", "BETA", "GAMMA", "DELTA"},
}

func newTestRegistry(t *testing.T, options ...RegistryOption) *Registry {
	reg, err := NewRegistry(append([]RegistryOption{WithEnum(greekEnum)}, options...)...)
	require.NoError(t, err)
	return reg
}

func setAsStrings(s ValueSet) []string {
	ret := make([]string, 0, s.Count())
	for _, v := range s.Values() {
		ret = append(ret, describeValue(v))
	}
	return ret
}

func resolveSingleParam(t *testing.T, reg *Registry, param Parameter) (ValueSet, error) {
	method := Method{Name: "testMethod", Parameters: []Parameter{param}}
	res, err := Resolve(reg, method)
	if err != nil {
		return ValueSet{}, err
	}
	require.Len(t, res.sets, 1)
	return res.sets[0], nil
}

func TestResolveLiteralValuesDeduplicates(t *testing.T) {
	reg := newTestRegistry(t)
	set, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{ValuesSource(ldvalue.Int(1), ldvalue.Int(1), ldvalue.Int(3))},
	})
	require.NoError(t, err)
	assert.Equal(t, []ldvalue.Value{ldvalue.Int(1), ldvalue.Int(3)}, set.Values())
}

func TestResolveEnumDefaultIsAllConstantsInDeclarationOrder(t *testing.T) {
	reg := newTestRegistry(t)
	set, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Type:    EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{})},
	})
	require.NoError(t, err)
	m.In(t).Assert(setAsStrings(set), m.Items(
		m.Equal("ALPHA"), m.Equal("BETA"), m.Equal("GAMMA"), m.Equal("DELTA")))
}

func TestResolveEnumInclude(t *testing.T) {
	reg := newTestRegistry(t)
	set, err := resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeInclude, Names: []string{"DELTA", "BETA"},
		})},
	})
	require.NoError(t, err)
	// declaration order wins, not the order of the names
	assert.Equal(t, []string{"BETA", "DELTA"}, setAsStrings(set))
}

func TestResolveEnumExclude(t *testing.T) {
	reg := newTestRegistry(t)
	set, err := resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeExclude, Names: []string{"ALPHA", "DELTA"},
		})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BETA", "GAMMA"}, setAsStrings(set))
}

func TestResolveEnumMatchAllAndMatchAny(t *testing.T) {
	reg := newTestRegistry(t)

	set, err := resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeMatchAll, Names: []string{"A$", "T"},
		})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BETA", "DELTA"}, setAsStrings(set))

	set, err = resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeMatchAny, Names: []string{"^AL", "^GA"},
		})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ALPHA", "GAMMA"}, setAsStrings(set))
}

func TestResolveEnumUnknownConstantNameIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeInclude, Names: []string{"OMEGA"},
		})},
	})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, `no constant named "OMEGA"`)
}

func TestResolveEnumUnregisteredTypeIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Type:    EnumOf("Cyrillic"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{})},
	})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, `enum type "Cyrillic" is not registered`)
}

func TestResolveEnumBadRegexIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := resolveSingleParam(t, reg, Parameter{
		Name: "p",
		Type: EnumOf("Greek"),
		Sources: []SourceDecl{EnumSource(EnumSourceConfig{
			Mode: EnumModeMatchAny, Names: []string{"(("},
		})},
	})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "invalid regex")
}

func TestResolveRangeOpenAndClosed(t *testing.T) {
	reg := newTestRegistry(t)

	set, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 1, To: 3, Step: 1})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, setAsStrings(set))

	set, err = resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 1, To: 3, Step: 1, Closed: true})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, setAsStrings(set))
}

func TestResolveRangeDescending(t *testing.T) {
	reg := newTestRegistry(t)
	set, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 3, To: 1, Step: -1, Closed: true})},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, setAsStrings(set))
}

func TestResolveRangeBadStepIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 1, To: 3, Step: 0})},
	})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "non-zero")

	_, err = resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 1, To: 3, Step: -1})},
	})
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "negative")

	_, err = resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 3, To: 1, Step: 1})},
	})
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "positive")
}

// recordingProvider records the two-phase call sequence for contract checks.
type recordingProvider struct {
	calls      []string
	config     ldvalue.Value
	methodName string
	param      ParameterID
	values     []ldvalue.Value
	initErr    error
	produceErr error
}

func (p *recordingProvider) Initialize(config ldvalue.Value) error {
	p.calls = append(p.calls, "initialize")
	p.config = config
	return p.initErr
}

func (p *recordingProvider) Produce(methodName string, param ParameterID) ([]ldvalue.Value, error) {
	p.calls = append(p.calls, "produce")
	p.methodName = methodName
	p.param = param
	return p.values, p.produceErr
}

func TestResolveProviderTwoPhaseContract(t *testing.T) {
	provider := &recordingProvider{
		values: []ldvalue.Value{ldvalue.String("x"), ldvalue.String("y"), ldvalue.String("x")},
	}
	constructed := 0
	reg := newTestRegistry(t, WithProvider("myProvider", func() ValueProvider {
		constructed++
		return provider
	}))

	config := ldvalue.ObjectBuild().Set("seed", ldvalue.Int(42)).Build()
	set, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{ProviderSource("myProvider", config)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, constructed)
	assert.Equal(t, []string{"initialize", "produce"}, provider.calls)
	assert.Equal(t, config, provider.config)
	assert.Equal(t, "testMethod", provider.methodName)
	assert.Equal(t, ParameterID{Index: 0, Name: "p"}, provider.param)
	assert.Equal(t, []string{"x", "y"}, setAsStrings(set)) // deduplicated
}

func TestResolveProviderErrorsAreWrappedWithContext(t *testing.T) {
	userErr := errors.New("user code exploded")
	reg := newTestRegistry(t, WithProvider("failing", func() ValueProvider {
		return &recordingProvider{produceErr: userErr}
	}))

	_, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{ProviderSource("failing", ldvalue.Null())},
	})
	var re ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "testMethod", re.Method)
	assert.Equal(t, "p", re.Parameter)
	assert.Equal(t, "provider", re.Source)
	assert.ErrorIs(t, err, userErr)
}

func TestResolveProviderNotRegisteredIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := resolveSingleParam(t, reg, Parameter{
		Name:    "p",
		Sources: []SourceDecl{ProviderSource("nobody", ldvalue.Null())},
	})
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, `provider "nobody" is not registered`)
}

func TestResolveFactory(t *testing.T) {
	reg := newTestRegistry(t, WithFactory("makeSets", func() (*ArgumentSets, error) {
		return NewArgumentSets().
			Add(ldvalue.Int(1), ldvalue.Int(2)).
			Add(ldvalue.String("a"), ldvalue.String("b")), nil
	}))

	method := Method{
		Name:       "testMethod",
		Factory:    opt.Some("makeSets"),
		Parameters: []Parameter{{Name: "n"}, {Name: "s"}},
	}
	res, err := Resolve(reg, method)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalCount())

	records := res.Records()
	require.Len(t, records, 4)
	assert.Equal(t, Tuple{ldvalue.Int(1), ldvalue.String("a")}, records[0].Arguments)
	assert.Equal(t, Tuple{ldvalue.Int(1), ldvalue.String("b")}, records[1].Arguments)
	assert.Equal(t, Tuple{ldvalue.Int(2), ldvalue.String("a")}, records[2].Arguments)
	assert.Equal(t, Tuple{ldvalue.Int(2), ldvalue.String("b")}, records[3].Arguments)
}

func TestResolveFactoryTooManySetsIsResolutionError(t *testing.T) {
	reg := newTestRegistry(t, WithFactory("makeSets", func() (*ArgumentSets, error) {
		return NewArgumentSets().
			Add(ldvalue.Int(1)).
			Add(ldvalue.Int(2)).
			Add(ldvalue.Int(3)).
			Add(ldvalue.Int(4)), nil
	}))

	method := Method{
		Name:       "testMethod",
		Factory:    opt.Some("makeSets"),
		Parameters: []Parameter{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	}
	_, err := Resolve(reg, method)
	var re ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "expected [3] parameter sets, but got [4]")
}

func TestResolveFactoryFewerSetsThanParametersIsAccepted(t *testing.T) {
	// the under-count case is left to the invocation boundary, where the
	// remaining parameters may be auto-injected
	reg := newTestRegistry(t, WithFactory("makeSets", func() (*ArgumentSets, error) {
		return NewArgumentSets().Add(ldvalue.Int(1), ldvalue.Int(2)), nil
	}))

	method := Method{
		Name:       "testMethod",
		Factory:    opt.Some("makeSets"),
		Parameters: []Parameter{{Name: "a"}, {Name: "b"}},
	}
	res, err := Resolve(reg, method)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount())
}

func TestResolveFactoryNotFoundIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(t)
	method := Method{
		Name:       "testMethod",
		Factory:    opt.Some("missing"),
		Parameters: []Parameter{{Name: "a"}},
	}
	_, err := Resolve(reg, method)
	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, `factory "missing" not found`)
}

func TestResolveFactoryErrorIsResolutionError(t *testing.T) {
	userErr := errors.New("no data today")
	reg := newTestRegistry(t, WithFactory("flaky", func() (*ArgumentSets, error) {
		return nil, userErr
	}))
	method := Method{
		Name:       "testMethod",
		Factory:    opt.Some("flaky"),
		Parameters: []Parameter{{Name: "a"}},
	}
	_, err := Resolve(reg, method)
	var re ResolutionError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, userErr)
}

func TestResolveUnbalancedNamePatternIsFormatError(t *testing.T) {
	reg := newTestRegistry(t)
	method := Method{
		Name:        "testMethod",
		NamePattern: opt.Some("unterminated '{0}"),
		Parameters: []Parameter{
			{Name: "p", Sources: []SourceDecl{ValuesSource(ldvalue.Int(1))}},
		},
	}
	_, err := Resolve(reg, method)
	var fe FormatError
	require.ErrorAs(t, err, &fe)
}

func TestResolveIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	method := Method{
		Name:        "testMethod",
		NamePattern: opt.Some("{displayName} [{index}]: {arguments}"),
		Parameters: []Parameter{
			{Name: "g", Type: EnumOf("Greek"),
				Sources: []SourceDecl{EnumSource(EnumSourceConfig{Mode: EnumModeExclude, Names: []string{"GAMMA"}})}},
			{Name: "n",
				Sources: []SourceDecl{RangeSource(RangeSourceConfig{From: 0, To: 2, Step: 1, Closed: true})}},
		},
	}

	res1, err := Resolve(reg, method)
	require.NoError(t, err)
	res2, err := Resolve(reg, method)
	require.NoError(t, err)

	records1 := res1.Records()
	records2 := res2.Records()
	require.Equal(t, len(records1), len(records2))
	for i := range records1 {
		assert.Equal(t, records1[i].Index, records2[i].Index)
		assert.Equal(t, records1[i].Name, records2[i].Name)
		assert.Equal(t, records1[i].Arguments, records2[i].Arguments)
	}
}

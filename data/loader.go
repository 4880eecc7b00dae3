package data

import (
	"fmt"
	"io/fs"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/combitest/cartesian-test-harness/cartesian"
	"github.com/combitest/cartesian-test-harness/framework/helpers"
	"github.com/combitest/cartesian-test-harness/framework/opt"
)

type methodsFile struct {
	Methods []methodDef `json:"methods"`
}

type methodDef struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	NamePattern *string        `json:"namePattern"`
	Suite       string         `json:"suite"`
	Factory     *string        `json:"factory"`
	Parameters  []parameterDef `json:"parameters"`
}

type parameterDef struct {
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	EnumType string             `json:"enumType"`
	Values   *[]ldvalue.Value   `json:"values"`
	Enum     *enumSourceDef     `json:"enum"`
	Range    *rangeSourceDef    `json:"range"`
	Provider *providerSourceDef `json:"provider"`
}

type enumSourceDef struct {
	Type  string   `json:"type"`
	Mode  string   `json:"mode"`
	Names []string `json:"names"`
}

type rangeSourceDef struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Step   float64 `json:"step"`
	Closed bool    `json:"closed"`
}

type providerSourceDef struct {
	Name   string        `json:"name"`
	Config ldvalue.Value `json:"config"`
}

var parameterTypeNames = []string{"", "any", "bool", "number", "string", "enum"} //nolint:gochecknoglobals

// LoadMethodsFile reads one binding-table file from the filesystem and returns
// the method declarations it contains.
func LoadMethodsFile(fsys fs.FS, path string) ([]cartesian.Method, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	methods, err := ParseMethods(raw)
	if err != nil {
		return nil, fmt.Errorf("error in %q: %w", path, err)
	}
	return methods, nil
}

// ParseMethods parses a binding-table document (YAML or JSON) into method
// declarations. It only checks the document's own shape; source-exclusivity
// and type rules are still enforced by cartesian.Validate at resolution time.
func ParseMethods(raw []byte) ([]cartesian.Method, error) {
	var file methodsFile
	if err := ParseJSONOrYAML(raw, &file); err != nil {
		return nil, err
	}
	ret := make([]cartesian.Method, 0, len(file.Methods))
	for _, def := range file.Methods {
		method, err := convertMethod(def)
		if err != nil {
			return nil, err
		}
		ret = append(ret, method)
	}
	return ret, nil
}

func convertMethod(def methodDef) (cartesian.Method, error) {
	if def.Name == "" {
		return cartesian.Method{}, fmt.Errorf("method with no name")
	}
	method := cartesian.Method{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Suite:       def.Suite,
	}
	if def.NamePattern != nil {
		method.NamePattern = opt.Some(*def.NamePattern)
	}
	if def.Factory != nil {
		method.Factory = opt.Some(*def.Factory)
	}
	for _, paramDef := range def.Parameters {
		param, err := convertParameter(def.Name, paramDef)
		if err != nil {
			return cartesian.Method{}, err
		}
		method.Parameters = append(method.Parameters, param)
	}
	return method, nil
}

func convertParameter(methodName string, def parameterDef) (cartesian.Parameter, error) {
	if def.Name == "" {
		return cartesian.Parameter{}, fmt.Errorf("method %q: parameter with no name", methodName)
	}
	if !helpers.SliceContains(def.Type, parameterTypeNames) {
		return cartesian.Parameter{}, fmt.Errorf("method %q, parameter %q: unknown type %q",
			methodName, def.Name, def.Type)
	}
	param := cartesian.Parameter{Name: def.Name, Type: convertType(def)}

	if def.Values != nil {
		param.Sources = append(param.Sources, cartesian.ValuesSource(*def.Values...))
	}
	if def.Enum != nil {
		mode, err := convertEnumMode(def.Enum.Mode)
		if err != nil {
			return cartesian.Parameter{}, fmt.Errorf("method %q, parameter %q: %w", methodName, def.Name, err)
		}
		param.Sources = append(param.Sources, cartesian.EnumSource(cartesian.EnumSourceConfig{
			TypeName: def.Enum.Type,
			Mode:     mode,
			Names:    def.Enum.Names,
		}))
	}
	if def.Range != nil {
		param.Sources = append(param.Sources, cartesian.RangeSource(cartesian.RangeSourceConfig{
			From:   def.Range.From,
			To:     def.Range.To,
			Step:   def.Range.Step,
			Closed: def.Range.Closed,
		}))
	}
	if def.Provider != nil {
		param.Sources = append(param.Sources, cartesian.ProviderSource(def.Provider.Name, def.Provider.Config))
	}
	return param, nil
}

func convertType(def parameterDef) cartesian.ParameterType {
	switch def.Type {
	case "bool":
		return cartesian.ParameterType{Kind: cartesian.KindBool}
	case "number":
		return cartesian.ParameterType{Kind: cartesian.KindNumber}
	case "string":
		return cartesian.ParameterType{Kind: cartesian.KindString}
	case "enum":
		return cartesian.EnumOf(def.EnumType)
	default:
		return cartesian.ParameterType{Kind: cartesian.KindAny}
	}
}

func convertEnumMode(name string) (cartesian.EnumMode, error) {
	switch name {
	case "", "INCLUDE":
		return cartesian.EnumModeInclude, nil
	case "EXCLUDE":
		return cartesian.EnumModeExclude, nil
	case "MATCH_ALL":
		return cartesian.EnumModeMatchAll, nil
	case "MATCH_ANY":
		return cartesian.EnumModeMatchAny, nil
	default:
		return cartesian.EnumModeInclude, fmt.Errorf("unknown enum mode %q", name)
	}
}

package cartesian

import "strings"

// Validate checks a method's declarations before any source is resolved. It
// verifies that exactly one of the two valid shapes holds - every parameter
// has exactly one source, or the method has one whole-method factory and no
// parameter sources - and that each declared source is structurally compatible
// with its parameter's declared type. It is a pure check with no side effects.
func Validate(method Method) error {
	hasFactory := method.Factory.IsDefined()

	for _, param := range method.Parameters {
		if len(param.Sources) > 1 {
			kinds := make([]string, 0, len(param.Sources))
			for _, src := range param.Sources {
				kinds = append(kinds, src.Kind())
			}
			return configError(method.Name, param.Name,
				"%d sources declared (%s); exactly one is allowed", len(param.Sources), strings.Join(kinds, ", "))
		}
		if hasFactory && len(param.Sources) != 0 {
			return configError(method.Name, param.Name,
				"declares a %s source but the method also declares factory %q; "+
					"a whole-method factory is mutually exclusive with per-parameter sources",
				param.Sources[0].Kind(), method.Factory.Value())
		}
		if !hasFactory && len(param.Sources) == 0 {
			return configError(method.Name, param.Name, "no value source declared")
		}
		if len(param.Sources) == 1 {
			if err := validateSourceType(method, param, param.Sources[0]); err != nil {
				return err
			}
		}
	}

	if !hasFactory && len(method.Parameters) == 0 {
		return configError(method.Name, "", "no parameter sources and no whole-method factory declared")
	}
	return nil
}

func validateSourceType(method Method, param Parameter, src SourceDecl) error {
	switch src.kind {
	case sourceEnum:
		if src.enum.TypeName == "" && param.Type.Kind != KindEnum {
			return configError(method.Name, param.Name,
				"enum source on parameter of type %s; declare the parameter as an enum "+
					"or give the source an explicit enum type name", param.Type.Kind)
		}
	case sourceRange:
		switch param.Type.Kind {
		case KindAny, KindNumber:
		default:
			return configError(method.Name, param.Name,
				"range source is not compatible with parameter type %s", param.Type.Kind)
		}
	}
	return nil
}

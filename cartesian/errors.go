package cartesian

import "fmt"

// ConfigurationError means the declarations for a test method are invalid:
// ambiguous or missing sources, incompatible types, unknown enum/factory/
// provider names, or a malformed numeric range. It is always reported before
// any tuple is produced.
type ConfigurationError struct {
	Method    string
	Parameter string // empty for method-level problems
	Message   string
}

func (e ConfigurationError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("configuration error in method %q: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("configuration error in method %q, parameter %q: %s", e.Method, e.Parameter, e.Message)
}

func configError(method, parameter, format string, args ...interface{}) error {
	return ConfigurationError{Method: method, Parameter: parameter, Message: fmt.Sprintf(format, args...)}
}

// ResolutionError means a value source failed while being materialized: a
// factory registered the wrong number of parameter sets, or user-supplied
// provider/factory code returned an error.
type ResolutionError struct {
	Method    string
	Parameter string // empty for whole-method sources
	Source    string // source kind, e.g. "provider" or "factory"
	Message   string
	Err       error // underlying user-code error, if any
}

func (e ResolutionError) Error() string {
	where := fmt.Sprintf("method %q", e.Method)
	if e.Parameter != "" {
		where += fmt.Sprintf(", parameter %q", e.Parameter)
	}
	msg := fmt.Sprintf("error resolving %s source for %s: %s", e.Source, where, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ResolutionError) Unwrap() error { return e.Err }

// FormatError means a display-name pattern is structurally unbalanced. Unknown
// placeholders are not an error; only an unterminated quote region is.
type FormatError struct {
	Pattern string
	Message string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid display name pattern %q: %s", e.Pattern, e.Message)
}

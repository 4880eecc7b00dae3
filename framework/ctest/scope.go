package ctest

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/combitest/cartesian-test-harness/framework"
)

type environment struct {
	config  Config
	results Results
}

// T represents a test scope. It is very similar to Go's testing.T type, and it
// implements the testing.T subset used by testify's assert and require.
type T struct {
	env         *environment
	id          CaseID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
	helperFns   []string
}

// Config contains options for an entire test run.
type Config struct {
	// Filter is an optional function for determining which cases to run based on their names.
	Filter Filter

	// Reporter receives status information about each case.
	Reporter Reporter

	// Context is an optional application-defined value which can be accessed from tests.
	Context interface{}
}

// Run starts a top-level test scope and returns the accumulated results.
func Run(config Config, action func(*T)) Results {
	if config.Reporter == nil {
		config.Reporter = nullReporter{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) (result CaseResult) {
	result.ID = t.id
	defer func() {
		if r := recover(); r != nil {
			if t.skipped {
				return
			}
			t.failed = true
			var addError error
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				t.errors = append(t.errors, addError)
				t.env.config.Reporter.CaseError(t.id, addError)
			}
		}
		result.Errors = t.errors
		if t.failed {
			t.env.results.Failures = append(t.env.results.Failures, result)
		}
		t.env.results.Cases = append(t.env.results.Cases, result)
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
	}()

	action(t)
	return result
}

// ID returns the full name of the current test case.
func (t *T) ID() CaseID {
	return t.id
}

// Run runs a subtest in its own scope, like Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)

	t.env.config.Reporter.CaseStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		t.env.config.Reporter.CaseSkipped(id, "excluded by filter parameters")
		return
	}
	child := &T{
		id:  id,
		env: t.env,
	}
	t.debugLogger.AddChildLogger(&child.debugLogger) // see comments on t.DebugLogger()
	result := child.run(action)
	t.debugLogger.RemoveChildLogger(&child.debugLogger)
	if child.skipped {
		t.env.config.Reporter.CaseSkipped(id, child.skipReason)
	} else {
		t.env.config.Reporter.CaseFinished(id, result, child.debugLogger.Output())
	}
}

// Errorf reports a test failure, like Go's testing.T.Errorf. It does not cause
// the test to terminate, but adds the failure message to the output and marks
// the test as failed.
//
// You will rarely call this directly; it is part of this type's implementation
// of the base interfaces testing.T and assert.TestingT, so assertion helpers
// can call it.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)

	stacktrace := getStacktrace(false, t.helperFns)
	err = transformError(err, stacktrace)

	t.errors = append(t.errors, err)
	t.env.config.Reporter.CaseError(t.id, err)
}

// FailNow causes the test to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	panic(t)
}

// Skip causes the test to immediately terminate and be marked as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug writes a message to the captured output for this test scope.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger for writing output for this test scope.
//
// The output captured for a case is passed to Reporter.CaseFinished at the end
// of the case. When a case has subtests (created with t.Run), the logger for a
// subtest starts out with a copy of any output already logged for the parent,
// and output sent to the parent's logger during the subtest goes to the
// subtest's logger instead. This matters when the parent scope manages a
// fixture that is reused by many subtests.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when this
// test scope exits for any reason. Unlike a Go defer statement, Defer can be
// used from within helper functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Context returns the application-defined context value, if any, from the Config.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Helper marks the function that calls it as a test helper that shouldn't
// appear in stacktraces. Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.helperFns = append(t.helperFns, f.Name())
}

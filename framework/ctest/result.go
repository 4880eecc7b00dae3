package ctest

import (
	"fmt"
	"strings"
)

// Results accumulates the outcome of every case in a test run.
type Results struct {
	Cases    []CaseResult
	Failures []CaseResult
}

// CaseResult is the outcome of a single test case.
type CaseResult struct {
	ID     CaseID
	Errors []error
}

// OK returns true if there were no failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// CaseID is the full path of a test case: each element is the name of one
// nested scope, outermost first.
type CaseID []string

func (c CaseID) String() string {
	return strings.Join(c, "/")
}

// Plus returns a copy of the CaseID with one more path element appended.
func (c CaseID) Plus(name string) CaseID {
	return append(append(CaseID(nil), c...), name)
}

// CaseFailure pairs a case's ID with one of its errors.
type CaseFailure struct {
	ID  CaseID
	Err error
}

func (f CaseFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

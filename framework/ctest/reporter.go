package ctest

import (
	"fmt"
	"os"
	"strings"

	"github.com/combitest/cartesian-test-harness/framework"

	"github.com/fatih/color"
)

var consoleCaseErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleCaseFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleCaseSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var allCasesPassedColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals

// Reporter receives status information about each case as it runs.
type Reporter interface {
	CaseStarted(id CaseID)
	CaseError(id CaseID, err error)
	CaseFinished(id CaseID, result CaseResult, debugOutput framework.CapturedOutput)
	CaseSkipped(id CaseID, reason string)
}

type nullReporter struct{}

func (n nullReporter) CaseStarted(CaseID)                                          {}
func (n nullReporter) CaseError(CaseID, error)                                     {}
func (n nullReporter) CaseFinished(CaseID, CaseResult, framework.CapturedOutput)   {}
func (n nullReporter) CaseSkipped(CaseID, string)                                  {}

// ConsoleReporter writes color-coded case status to standard output.
type ConsoleReporter struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleReporter) CaseStarted(id CaseID) {
	fmt.Printf("[%s]\n", id)
}

func (c ConsoleReporter) CaseError(id CaseID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = consoleCaseErrorColor.Printf("  %s\n", line)
	}
}

func (c ConsoleReporter) CaseFinished(id CaseID, result CaseResult, debugOutput framework.CapturedOutput) {
	failed := len(result.Errors) != 0
	if failed {
		_, _ = consoleCaseFailedColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Println(debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleReporter) CaseSkipped(id CaseID, reason string) {
	if reason == "" {
		_, _ = consoleCaseSkippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleCaseSkippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

// MultiReporter delegates each event to any number of reporters.
type MultiReporter struct {
	Reporters []Reporter
}

func (m *MultiReporter) CaseStarted(id CaseID) {
	for _, r := range m.Reporters {
		r.CaseStarted(id)
	}
}

func (m *MultiReporter) CaseError(id CaseID, err error) {
	for _, r := range m.Reporters {
		r.CaseError(id, err)
	}
}

func (m *MultiReporter) CaseFinished(id CaseID, result CaseResult, debugOutput framework.CapturedOutput) {
	for _, r := range m.Reporters {
		r.CaseFinished(id, result, debugOutput)
	}
}

func (m *MultiReporter) CaseSkipped(id CaseID, reason string) {
	for _, r := range m.Reporters {
		r.CaseSkipped(id, reason)
	}
}

// PrintResults writes a summary of the run to standard output or standard error.
func PrintResults(results Results) {
	if results.OK() {
		_, _ = allCasesPassedColor.Println("All tests passed")
	} else {
		_, _ = consoleCaseFailedColor.Fprintf(os.Stderr, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, f := range results.Failures {
			_, _ = consoleCaseFailedColor.Fprintf(os.Stderr, "  * %s\n", f.ID)
		}
	}
}

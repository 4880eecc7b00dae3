package ctest

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/combitest/cartesian-test-harness/framework"
	o "github.com/combitest/cartesian-test-harness/framework/opt"
)

// JUnitReporter accumulates case results and writes them as a JUnit XML
// document when the run ends, grouped into one suite per top-level case.
type JUnitReporter struct {
	filePath string
	filters  RegexFilters
	caseIDs  []CaseID // preserves the order the cases were run in
	cases    map[string]jUnitCaseStatus
	lock     sync.Mutex
}

type jUnitCaseStatus struct {
	failures  []error
	skipped   o.Maybe[string]
	output    string
	startTime time.Time
	duration  time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitReporter(filePath string, filters RegexFilters) *JUnitReporter {
	return &JUnitReporter{
		filePath: filePath,
		filters:  filters,
		cases:    make(map[string]jUnitCaseStatus),
	}
}

func (j *JUnitReporter) CaseStarted(id CaseID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.caseIDs = append(j.caseIDs, id)
	j.cases[id.String()] = jUnitCaseStatus{
		startTime: time.Now(),
	}
}

func (j *JUnitReporter) CaseError(id CaseID, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.cases[id.String()]
	status.failures = append(status.failures, err)
	j.cases[id.String()] = status
}

func (j *JUnitReporter) CaseFinished(id CaseID, result CaseResult, debugOutput framework.CapturedOutput) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.cases[id.String()]
	status.output = debugOutput.ToString("")
	status.duration = time.Since(status.startTime)
	j.cases[id.String()] = status
}

func (j *JUnitReporter) CaseSkipped(id CaseID, reason string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.cases[id.String()]
	status.skipped = o.Some(reason)
	j.cases[id.String()] = status
}

// EndLog writes the accumulated results to the configured file path.
func (j *JUnitReporter) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)

	doc := j.makeDocument()
	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')

	return os.WriteFile(j.filePath, bytes, 0644) //nolint:gosec
}

func (j *JUnitReporter) makeDocument() jUnitXMLDocument {
	j.lock.Lock()
	defer j.lock.Unlock()

	var doc jUnitXMLDocument

	properties := []jUnitXMLProperty{
		{
			Name:  "tests.filter.mustMatch",
			Value: j.filters.MustMatch.String(),
		},
		{
			Name:  "tests.filter.mustNotMatch",
			Value: j.filters.MustNotMatch.String(),
		},
	}

	for _, topLevelID := range getTopLevelIDs(j.caseIDs) {
		suite := jUnitXMLTestSuite{
			Name:       fmt.Sprintf("Cartesian tests: %s", topLevelID),
			Properties: properties,
		}
		suiteTotalDuration := time.Duration(0)
		for _, caseID := range j.caseIDs {
			if len(caseID) == 0 || caseID[0] != topLevelID {
				continue
			}
			status := j.cases[caseID.String()]

			suite.Tests++
			if len(status.failures) != 0 {
				suite.Failures++
			}
			suiteTotalDuration += status.duration

			testCase := jUnitXMLTestCase{
				Name: caseID.String(),
				Time: jUnitDurationString(status.duration),
			}
			if reason, ok := status.skipped.Get(); ok {
				testCase.SkipMessage = &jUnitXMLSkipMessage{Message: reason}
			}
			if len(status.failures) != 0 {
				var messages []string
				for _, e := range status.failures {
					message := e.Error()
					if es, ok := e.(ErrorWithStacktrace); ok {
						message += "\n  Stacktrace:"
						for _, s := range es.Stacktrace {
							message += "\n    " + s.String()
						}
					}
					messages = append(messages, message)
				}
				testCase.Failure = &jUnitXMLFailure{
					Message:  strings.Join(messages, "\n"),
					Contents: status.output,
				}
			}

			suite.TestCases = append(suite.TestCases, testCase)
		}
		suite.Time = jUnitDurationString(suiteTotalDuration)
		doc.Suites = append(doc.Suites, suite)
	}
	return doc
}

func getTopLevelIDs(allIDs []CaseID) []string {
	var ret []string
	seen := make(map[string]bool)
	for _, caseID := range allIDs {
		if len(caseID) != 0 && !seen[caseID[0]] {
			ret = append(ret, caseID[0])
			seen[caseID[0]] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// Command cartesian-test-harness expands binding table files into their full
// Cartesian product of test invocations and reports each generated invocation
// as a test case. Methods whose sources refer to capabilities that only code
// can register (enum types, providers, factories) fail resolution here; the
// command is meant for previewing and validating data-only tables.
package main

import (
	"bufio"
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/combitest/cartesian-test-harness/cartesian"
	"github.com/combitest/cartesian-test-harness/data"
	"github.com/combitest/cartesian-test-harness/framework/ctest"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	fmt.Printf("cartesian-test-harness v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*ctest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	var methods []cartesian.Method
	for _, path := range params.paths {
		loaded, err := data.LoadMethodsFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, err
		}
		methods = append(methods, loaded...)
	}

	reg, err := cartesian.NewRegistry()
	if err != nil {
		return nil, err
	}

	consoleReporter := ctest.ConsoleReporter{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	var reporter ctest.Reporter = consoleReporter
	var jUnitReporter *ctest.JUnitReporter
	if params.jUnitFile != "" {
		jUnitReporter = ctest.NewJUnitReporter(params.jUnitFile, params.filters)
		reporter = &ctest.MultiReporter{Reporters: []ctest.Reporter{consoleReporter, jUnitReporter}}
	}

	results := ctest.Run(ctest.Config{
		Filter:   params.filters.Match,
		Reporter: reporter,
	}, func(t *ctest.T) {
		for _, method := range methods {
			cartesian.Run(t, reg, method, func(t *ctest.T, args cartesian.Tuple) {
				t.Debug("arguments: %s", args)
			})
		}
	})

	fmt.Println()
	ctest.PrintResults(results)

	if jUnitReporter != nil {
		if err := jUnitReporter.EndLog(results); err != nil {
			return nil, fmt.Errorf("error writing log: %v", err)
		}
	}

	if params.recordFailures != "" {
		f, err := os.Create(params.recordFailures)
		if err != nil {
			return nil, fmt.Errorf("cannot create suppression file: %v", err)
		}
		for _, failure := range results.Failures {
			fmt.Fprintln(f, failure.ID)
		}
		_ = f.Close()
	}

	return &results, nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}

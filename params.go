package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/combitest/cartesian-test-harness/framework/ctest"
)

type commandParams struct {
	paths          []string
	filters        ctest.RegexFilters
	debug          bool
	debugAll       bool
	jUnitFile      string
	skipFile       string
	recordFailures string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select cases to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select cases not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed cases")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all cases")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.skipFile, "skip-from", "", "file with exact case names to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "file to write failed case names to")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	c.paths = fs.Args()
	if len(c.paths) == 0 {
		fmt.Fprintln(os.Stderr, "at least one binding table file path is required")
		fs.Usage()
		return false
	}
	return true
}

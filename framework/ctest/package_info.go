// Package ctest contains a test runner framework that is similar to Go's
// testing package, but runs as regular application code. It is the invocation
// driver for the cartesian package: each argument combination produced by the
// combination engine is run as a subtest scope within this runner.
package ctest

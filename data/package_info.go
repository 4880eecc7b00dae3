// Package data loads declarative binding tables: YAML or JSON documents that
// declare parameterized test methods and their value sources, translated into
// cartesian.Method declarations. This is the file-based alternative to
// building declarations in code.
package data

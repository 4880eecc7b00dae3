// Package framework contains base logging types shared by the test runner and
// the combination engine. It has no dependencies on other packages in this
// repository.
package framework

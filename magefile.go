//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the library and the linkorder CLI.
func Build() error {
	return sh.RunV("go", "build", "./...")
}

// Test runs the full test suite.
func Test() error {
	mg.Deps(Build)
	return sh.RunV("go", "test", "./...")
}

// Lint vets the source tree.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

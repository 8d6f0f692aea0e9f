//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the node-ext-build CLI.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/node-ext-build", "./cmd/node-ext-build")
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs lint and tests.
func Check() {
	mg.Deps(Lint, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}

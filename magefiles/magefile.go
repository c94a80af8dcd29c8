//go:build mage

// Package main provides build targets for the elemdoc project using Mage.
//
// Usage:
//
//	mage build          Compile elemdoc binary to bin/
//	mage test           Run all tests
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts and generated docs
//	mage install        Install elemdoc to GOPATH/bin
//	mage images         Render element images into docs/
//	mage documents      Write element reference pages into docs/
//	mage docs           Images, then documents
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "elemdoc"
	binaryDir  = "bin"
	cmdDir     = "./cmd/elemdoc"

	// docsDir receives generated documentation assets.
	docsDir = "docs"
)

// Build compiles the elemdoc binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and generated documentation.
func Clean() error {
	for _, dir := range []string{binaryDir, docsDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Images renders every element image into docs/.
func Images() error {
	mg.Deps(Build)
	return elemdoc("images")
}

// Documents writes every element reference page, with HTML previews, into docs/.
func Documents() error {
	mg.Deps(Build)
	return elemdoc("documents", "--html")
}

// Docs regenerates the complete element reference.
func Docs() {
	mg.SerialDeps(Images, Documents)
}

func elemdoc(args ...string) error {
	args = append([]string{"--output-dir", docsDir}, args...)
	return sh.RunV(filepath.Join(binaryDir, binaryName), args...)
}

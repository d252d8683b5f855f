//go:build mage

// Package main provides build targets for libraryql using Mage.
//
// Usage:
//
//	mage build     Compile libraryql to bin/ with version ldflags
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage lint      Run golangci-lint
//	mage serve     Build and start the server on the default port
//	mage schema    Write the SDL to schema.graphql
//	mage clean     Remove build artifacts
package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "libraryql"
	binaryDir  = "bin"
	cmdDir     = "./cmd/libraryql"
)

var binaryPath = filepath.Join(binaryDir, binaryName)

// ldflags injects version information into cmd/libraryql.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "none"
	}
	flags := []string{
		"-X main.Version=" + version,
		"-X main.Commit=" + commit,
		"-X main.BuildDate=" + time.Now().UTC().Format(time.RFC3339),
	}
	return strings.Join(flags, " ")
}

// Build compiles the libraryql binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-ldflags", ldflags(), "-o", binaryPath, cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector.
func Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Serve builds and runs the server in the foreground.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath, "serve")
}

// Schema writes the GraphQL SDL to schema.graphql.
func Schema() error {
	mg.Deps(Build)
	sdl, err := sh.Output(binaryPath, "schema")
	if err != nil {
		return err
	}
	return os.WriteFile("schema.graphql", []byte(sdl+"\n"), 0o644)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "hanzirecall"

// Default target to run when none is specified
var Default = Build

// Build builds the hanzirecall binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/hanzirecall")
}

// Install installs the binary to GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/hanzirecall")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration runs tests including the ones calling OpenAI and Gemini
func Integration() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set for integration tests")
	}
	return sh.RunV("go", "test", "-count=1", "./internal/provider/...", "./internal/models/...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binary)
}

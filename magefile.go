//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "lingoflow"
	stubBinary = "lingoflow-stub"
)

// Default target
var Default = Build

// Build builds the client and the stub server
func Build() error {
	mg.Deps(Client, Stub)
	return nil
}

// Client builds the lingoflow binary
func Client() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/lingoflow")
}

// Stub builds the local analysis stub server
func Stub() error {
	fmt.Println("Building", stubBinary)
	return sh.RunV("go", "build", "-o", stubBinary, "./cmd/lingoflow-stub")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs both binaries into GOPATH/bin
func Install() error {
	if err := sh.RunV("go", "install", "./cmd/lingoflow"); err != nil {
		return err
	}
	return sh.RunV("go", "install", "./cmd/lingoflow-stub")
}

// Stubserve starts the stub server on the default address
func Stubserve() error {
	mg.Deps(Stub)
	return sh.RunV("./" + stubBinary)
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binary, stubBinary} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

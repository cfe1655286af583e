//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "mdtranslate"

var Default = Build

// Build builds the mdtranslate binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/mdtranslate")
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binary), binary)
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll(binary)
}

//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildAnalysis)
	mg.Deps(BuildEfficiencyCurve)
	fmt.Println("Compilation finished")
	return nil
}

func goCommand(args ...string) *exec.Cmd {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func BuildAnalysis() error {
	fmt.Println("Building analysis executable...")
	return goCommand("build", "-o", "./bin/analysis", "./analysis").Run()
}

func BuildEfficiencyCurve() error {
	fmt.Println("Building efficiencyCurve executable...")
	return goCommand("build", "-o", "./bin/efficiencyCurve", "./efficiencyCurve").Run()
}

// Test runs the package tests. The HDF5 writer needs libhdf5 and is only
// built, not tested.
func Test() error {
	fmt.Println("Running tests...")
	return goCommand("test", "./pkg", "./pkg/plots").Run()
}

//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func bin() string { return filepath.Join(binDir, binName) }

// Indices fetches and snapshots every identifier index.
func Indices() error {
	mg.Deps(Build, Init)
	return sh.RunV(bin(), "indices", "fetch")
}

// Editions runs a dry edition import over dumps/ against the saved indices
// and writes the built items to reports/editions.yaml.
func Editions() error {
	mg.Deps(Build, Init)
	return sh.RunV(bin(), "editions", "--dir", "dumps", "--offline",
		"--report", "reports/editions-problems.json", "--dump", "reports/editions.yaml")
}

// Authorities runs a dry authority import over dumps/authorities.
func Authorities() error {
	mg.Deps(Build, Init)
	return sh.RunV(bin(), "authorities", "--dir", filepath.Join("dumps", "authorities"),
		"--report", "reports/authorities-problems.json")
}

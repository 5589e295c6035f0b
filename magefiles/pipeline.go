//go:build mage

package main

import (
	"github.com/magefile/mage/sh"
)

// Init creates the dataset and output directory layout.
func Init() error {
	return sh.RunV(binary(), "init")
}

// Classify runs the full screening pipeline over the dataset.
func Classify() error {
	return sh.RunV(binary(), "classify")
}

// Evaluate runs the lexical classifier over Papers/ and writes its CSV.
func Evaluate() error {
	return sh.RunV(binary(), "evaluate")
}

// History lists recent screening runs.
func History() error {
	return sh.RunV(binary(), "history", "--runs")
}

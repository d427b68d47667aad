package main

import (
	"testing"
)

// TestMain_Imports verifies that the main package compiles. main itself
// delegates to cmd.Execute, which is tested in the cmd package.
func TestMain_Imports(t *testing.T) {
}

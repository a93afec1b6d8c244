// Package main provides a pointer to the shaderdbg CLI.
//
// For the full CLI, use: go run ./cmd/shaderdbg
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("dxbcvm - DXBC shader-debugger core")
	fmt.Println("")
	fmt.Println("Usage: shaderdbg [-v] [-max-steps N] <fixture-file>")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/shaderdbg' for the CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/shaderdbg' instead.")
	}
}

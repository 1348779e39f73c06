// Package main provides the Ripple ML Framework CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Ripple ML Framework %s\n", version)
		return
	}

	fmt.Println("Ripple ML Framework - Differentiable Bridges to External Numerics")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/ for the spectral walkthrough and kernel recovery demos.")
}

package main

import (
	"fmt"
	"runtime"
	"sort"
)

// Version is overridden at link time with -ldflags "-X main.Version=...".
var Version = "dev"

// compiledFeatures tracks the backends selected by build tags via init()
// registration.
var compiledFeatures []string

func printFeatures() {
	fmt.Printf("Monotron %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled backends:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}

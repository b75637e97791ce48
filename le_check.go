//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// le_check.go - Monotron requires a little-endian architecture.
//
// The oto backend hands the render buffer to the device as raw
// FormatFloat32LE bytes. be_unsupported.go fails the build everywhere else.

package main
